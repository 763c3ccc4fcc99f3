package variant

import "sync"

// Ticket stamps an asynchronous variation lookup with the product it was
// issued for and the generation current at dispatch.
type Ticket struct {
	ProductID  string
	Generation uint64
}

// Tracker discards lookups that finish after the displayed product changed.
// Only the most recently issued ticket is current, whatever order responses
// arrive in.
type Tracker struct {
	mu         sync.Mutex
	generation uint64
	productID  string
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Begin records productID as displayed and issues a ticket for it.
func (t *Tracker) Begin(productID string) Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.generation++
	t.productID = productID
	return Ticket{ProductID: productID, Generation: t.generation}
}

// Current reports whether the ticket still matches the displayed product.
func (t *Tracker) Current(ticket Ticket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ticket.Generation == t.generation && ticket.ProductID == t.productID
}

// Invalidate retires every outstanding ticket, e.g. when leaving the product page.
func (t *Tracker) Invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.generation++
	t.productID = ""
}
