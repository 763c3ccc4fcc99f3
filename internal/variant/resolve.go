package variant

import (
	"strings"

	"elysoir/storefront/internal/domain"
)

// attributePrefix is the WooCommerce prefix on global attribute names.
const attributePrefix = "pa_"

// Resolve returns a copy of options where each value takes the image of the
// first variation that offers it. When that variation has no image, or no
// variation offers the value, the value keeps whatever image it already had.
// The input slice is not modified.
func Resolve(options []domain.Option, variations []domain.Variation) []domain.Option {
	out := domain.CloneOptions(options)
	for i, opt := range out {
		for j, val := range opt.Values {
			if img := imageFor(opt.Name, val.Name, variations); img != "" {
				out[i].Values[j].Image = img
			}
		}
	}
	return out
}

// imageFor returns the image of the first variation offering value, which
// may be empty.
func imageFor(option, value string, variations []domain.Variation) string {
	for _, v := range variations {
		for _, attr := range v.Attributes {
			if matchesName(attr.Name, option) && strings.EqualFold(attr.Option, value) {
				return v.ImageURL
			}
		}
	}
	return ""
}

func matchesName(attribute, option string) bool {
	attribute = strings.ToLower(attribute)
	option = strings.ToLower(option)
	return attribute == option || attribute == attributePrefix+option
}
