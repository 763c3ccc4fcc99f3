package checkout

import (
	"strings"

	"elysoir/storefront/internal/cart"
	"elysoir/storefront/internal/domain"

	"github.com/shopspring/decimal"
)

// CartPath is the WooCommerce cart page the storefront hands off to.
const CartPath = "/cart"

// BuildURL returns the external cart page. The line items are not encoded:
// the commerce site is expected to already hold the cart server-side, so this
// is the point to change once items have to travel with the redirect.
func BuildURL(siteURL string, _ []domain.CartItem) string {
	return strings.TrimRight(siteURL, "/") + CartPath
}

// Summary is the order overview shown on the checkout page.
type Summary struct {
	Items    []domain.CartItem `json:"items"`
	Count    int               `json:"count"`
	Subtotal decimal.Decimal   `json:"subtotal"`
	Shipping decimal.Decimal   `json:"shipping"`
	Total    decimal.Decimal   `json:"total"`
}

// Summarize prices the cart. Shipping is complimentary and no tax is applied.
func Summarize(items []domain.CartItem) Summary {
	subtotal := cart.Total(items)
	return Summary{
		Items:    items,
		Count:    len(items),
		Subtotal: subtotal,
		Shipping: decimal.Zero,
		Total:    subtotal,
	}
}
