package session

import (
	"elysoir/storefront/internal/checkout"
	"elysoir/storefront/internal/domain"
	"elysoir/storefront/internal/view"

	"github.com/shopspring/decimal"
)

// View is everything a client needs to draw the current page.
type View struct {
	SessionID      string            `json:"session_id"`
	Page           view.Kind         `json:"page"`
	HomeFilter     string            `json:"home_filter"`
	ActiveCategory string            `json:"active_category"`
	Categories     []string          `json:"categories"`
	Products       []domain.Product  `json:"products,omitempty"`
	Articles       []domain.Article  `json:"articles,omitempty"`
	Product        *ProductDetail    `json:"product,omitempty"`
	Article        *domain.Article   `json:"article,omitempty"`
	Category       string            `json:"category,omitempty"`
	Checkout       *checkout.Summary `json:"checkout,omitempty"`
	Cart           CartView          `json:"cart"`
}

// ProductDetail is the product page: the product, its options with resolved
// swatch images, and the shopper's selection.
type ProductDetail struct {
	Product           domain.Product    `json:"product"`
	Options           []domain.Option   `json:"options"`
	Selected          map[string]string `json:"selected"`
	Error             string            `json:"error,omitempty"`
	VariationsLoading bool              `json:"variations_loading"`
}

type CartView struct {
	Open  bool              `json:"open"`
	Items []domain.CartItem `json:"items"`
	Total decimal.Decimal   `json:"total"`
}

// render builds the View for the active page and marks the session as
// active. Callers hold s.mu.
func (s *Session) render() View {
	s.touch()
	snap := s.catalog.Snapshot()

	v := View{
		SessionID:      s.id,
		Page:           s.router.State().Kind(),
		HomeFilter:     s.router.HomeFilter(),
		ActiveCategory: s.router.ActiveCategory(),
		Categories:     snap.Categories,
		Cart: CartView{
			Open:  s.cart.IsOpen(),
			Items: s.cart.Items(),
			Total: s.cart.Total(),
		},
	}

	switch st := s.router.State().(type) {
	case view.Home:
		v.Products = domain.FilterByCategory(snap.Products, s.router.HomeFilter())
		v.Articles = snap.Articles
	case view.ProductView:
		selected := make(map[string]string, len(s.detail.selected))
		for k, val := range s.detail.selected {
			selected[k] = val
		}
		v.Product = &ProductDetail{
			Product:           st.Product,
			Options:           domain.CloneOptions(s.detail.options),
			Selected:          selected,
			Error:             s.detail.err,
			VariationsLoading: s.detail.variationsLoading,
		}
	case view.CategoryView:
		v.Category = st.Category
		v.Products = domain.FilterByCategory(snap.Products, st.Category)
	case view.JournalView:
		a := st.Article
		v.Article = &a
	case view.CheckoutView:
		summary := checkout.Summarize(s.cart.Items())
		v.Checkout = &summary
	}

	return v
}
