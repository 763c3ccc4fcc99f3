package view

import (
	"errors"

	"elysoir/storefront/internal/domain"
)

// ErrTransitionNotAllowed is returned for events the current page does not offer.
var ErrTransitionNotAllowed = errors.New("view: transition not allowed from current page")

// Router is the in-memory page model of one storefront session. There is no
// history stack: Back always lands on a fixed target per origin page, so a
// product opened from a category page returns home, not to that category.
type Router struct {
	state      State
	homeFilter string
}

func NewRouter() *Router {
	return &Router{state: Home{}, homeFilter: domain.AllCategory}
}

// State returns the active page.
func (r *Router) State() State {
	return r.state
}

// HomeFilter is the in-page category filter of the home product grid.
// It is independent of the category page.
func (r *Router) HomeFilter() string {
	return r.homeFilter
}

// ActiveCategory is the category highlighted in navigation.
func (r *Router) ActiveCategory() string {
	if c, ok := r.state.(CategoryView); ok {
		return c.Category
	}
	return r.homeFilter
}

// NavigateHome shows the home page and scrolls to anchor, or to the top when
// anchor is empty. Coming from another page the scroll waits for home to mount.
func (r *Router) NavigateHome(anchor string) Scroll {
	_, wasHome := r.state.(Home)
	if !wasHome {
		r.state = Home{}
		if anchor == "" || anchor == ProductsAnchor {
			r.homeFilter = domain.AllCategory
		}
	}
	return scrollToAnchor(anchor, !wasHome)
}

// SelectProduct opens the product detail page.
func (r *Router) SelectProduct(p domain.Product) Scroll {
	r.state = ProductView{Product: p}
	return scrollTop()
}

// SelectCategory opens the category page, or for "All" returns home with the
// filter reset and the product grid in view.
func (r *Router) SelectCategory(category string) Scroll {
	if category == "" || category == domain.AllCategory {
		r.homeFilter = domain.AllCategory
		r.state = Home{}
		return scrollToAnchor(ProductsAnchor, true)
	}
	r.state = CategoryView{Category: category}
	return scrollTop()
}

// SetHomeFilter changes the home grid filter without navigating.
func (r *Router) SetHomeFilter(category string) error {
	if _, ok := r.state.(Home); !ok {
		return ErrTransitionNotAllowed
	}
	if category == "" {
		category = domain.AllCategory
	}
	r.homeFilter = category
	return nil
}

// SelectArticle opens a journal article. Articles are only listed on home.
func (r *Router) SelectArticle(a domain.Article) (Scroll, error) {
	if _, ok := r.state.(Home); !ok {
		return noScroll(), ErrTransitionNotAllowed
	}
	r.state = JournalView{Article: a}
	return scrollTop(), nil
}

// BeginCheckout opens the checkout page.
func (r *Router) BeginCheckout() Scroll {
	r.state = CheckoutView{}
	return scrollTop()
}

// Back leaves the current page for its fixed target.
func (r *Router) Back() Scroll {
	switch r.state.(type) {
	case ProductView:
		r.state = Home{}
		return scrollToAnchor(ProductsAnchor, true)
	case CategoryView:
		r.state = Home{}
		r.homeFilter = domain.AllCategory
		return scrollTop()
	case JournalView, CheckoutView:
		r.state = Home{}
		return noScroll()
	default:
		return noScroll()
	}
}
