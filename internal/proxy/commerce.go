package proxy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"elysoir/storefront/internal/config"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

// allowedPrefixes are the upstream REST namespaces the storefront reads.
var allowedPrefixes = []string{"/wp-json/wc/v3/", "/wp-json/wp/v2/"}

// NewCommerceProxy returns a same-origin handler that forwards read requests
// under pathPrefix to the WooCommerce site and signs them with the consumer
// credentials, so browsers never see the key or secret.
func NewCommerceProxy(cfg config.WooCommerceConfig, pathPrefix string) (http.Handler, error) {
	if !cfg.HasCredentials() {
		return nil, errors.New("commerce proxy requires site URL, consumer key and consumer secret")
	}

	target, err := url.Parse(cfg.SiteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid site URL %q: %w", cfg.SiteURL, err)
	}

	rp := &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.Out.Host = target.Host
			r.Out.Header.Del("Cookie")
			r.Out.SetBasicAuth(cfg.ConsumerKey, cfg.ConsumerSecret)
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Errorf("❌ Commerce proxy request %s failed: %v", r.URL.Path, err)
			http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		},
	}
	if cfg.Timeout > 0 {
		rp.Transport = &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			ResponseHeaderTimeout: time.Duration(cfg.Timeout) * time.Second,
		}
	}

	return &commerceProxy{prefix: strings.TrimRight(pathPrefix, "/"), proxy: rp}, nil
}

type commerceProxy struct {
	prefix string
	proxy  *httputil.ReverseProxy
}

func (p *commerceProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, p.prefix)
	if !allowed(path) {
		http.NotFound(w, r)
		return
	}

	out := r.Clone(r.Context())
	out.URL.Path = path
	out.URL.RawPath = ""
	out.Header.Del("Authorization")
	p.proxy.ServeHTTP(w, out)
}

func allowed(path string) bool {
	if strings.Contains(path, "..") {
		return false
	}
	for _, prefix := range allowedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// CheckUpstream probes the WordPress REST index so a misconfigured site URL
// shows up in the logs at startup rather than on the first shopper request.
func CheckUpstream(ctx context.Context, siteURL string) bool {
	client := resty.New().
		SetTimeout(5 * time.Second).
		SetRetryCount(0)

	resp, err := client.R().
		SetContext(ctx).
		Get(siteURL + "/wp-json/")

	if err != nil {
		log.Warnf("⚠️ Commerce site %s is not reachable: %v", siteURL, err)
		return false
	}

	if resp.IsError() {
		log.Warnf("⚠️ Commerce site %s answered with status: %s", siteURL, resp.Status())
		return false
	}

	log.Infof("✅ Commerce site %s is reachable", siteURL)
	return true
}
