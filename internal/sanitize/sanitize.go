// Package sanitize holds the allow-list policy applied to every piece of
// remote HTML before it reaches a browser.
package sanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func contentPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowElements("figure", "figcaption")
		p.AllowAttrs("class").OnElements("figure", "figcaption", "p", "span")
		p.AllowAttrs("loading").OnElements("img")
		p.RequireNoFollowOnLinks(true)
		policy = p
	})
	return policy
}

// HTML returns body with everything outside the content allow-list removed.
func HTML(body string) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}
	return strings.TrimSpace(contentPolicy().Sanitize(body))
}
