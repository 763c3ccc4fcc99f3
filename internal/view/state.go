package view

import "elysoir/storefront/internal/domain"

type Kind string

const (
	KindHome     Kind = "home"
	KindProduct  Kind = "product"
	KindCategory Kind = "category"
	KindJournal  Kind = "journal"
	KindCheckout Kind = "checkout"
)

// State is the page currently displayed. Exactly one variant is active;
// the set of variants is closed by the unexported marker method.
type State interface {
	Kind() Kind
	isState()
}

type Home struct{}

type ProductView struct {
	Product domain.Product
}

type CategoryView struct {
	Category string
}

type JournalView struct {
	Article domain.Article
}

type CheckoutView struct{}

func (Home) Kind() Kind         { return KindHome }
func (ProductView) Kind() Kind  { return KindProduct }
func (CategoryView) Kind() Kind { return KindCategory }
func (JournalView) Kind() Kind  { return KindJournal }
func (CheckoutView) Kind() Kind { return KindCheckout }

func (Home) isState()         {}
func (ProductView) isState()  {}
func (CategoryView) isState() {}
func (JournalView) isState()  {}
func (CheckoutView) isState() {}
