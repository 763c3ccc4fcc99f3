package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"elysoir/storefront/internal/cart"
	"elysoir/storefront/internal/checkout"
	"elysoir/storefront/internal/concierge"
	"elysoir/storefront/internal/domain"
	"elysoir/storefront/internal/service"
	"elysoir/storefront/internal/variant"
	"elysoir/storefront/internal/view"

	log "github.com/sirupsen/logrus"
)

// OptionsIncompleteMessage is shown when a product is added before every
// option has a chosen value.
const OptionsIncompleteMessage = "Please select all options to proceed"

var (
	ErrOptionsIncomplete = errors.New(OptionsIncompleteMessage)
	ErrUnknownOption     = errors.New("unknown option or value")
	ErrProductNotFound   = errors.New("product not found")
	ErrArticleNotFound   = errors.New("article not found")
	ErrEmptyMessage      = errors.New("message must not be empty")
)

// Catalog is the read side of the data sync controller a session needs.
type Catalog interface {
	Snapshot() *service.Snapshot
	Variations(ctx context.Context, productID string) []domain.Variation
	CheckoutBase() string
}

// detailState is the product page selection. It is reset whenever a
// product is selected.
type detailState struct {
	options           []domain.Option
	selected          map[string]string
	err               string
	variationsLoading bool
}

// Session is the application state of one storefront tab: page, cart,
// product selection and concierge transcript. Methods are safe for
// concurrent use; variation lookups run in the background and only land if
// their product is still displayed.
type Session struct {
	id        string
	catalog   Catalog
	concierge concierge.Concierge

	ctx     context.Context
	cancel  context.CancelFunc
	pending sync.WaitGroup

	mu       sync.Mutex
	closed   bool
	router   *view.Router
	cart     *cart.Store
	tracker  *variant.Tracker
	detail   detailState
	chat     []domain.ChatMessage
	lastSeen time.Time
	now      func() time.Time
}

func newSession(id string, catalog Catalog, c concierge.Concierge, now func() time.Time) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		id:        id,
		catalog:   catalog,
		concierge: c,
		ctx:       ctx,
		cancel:    cancel,
		router:    view.NewRouter(),
		cart:      cart.NewStore(),
		tracker:   variant.NewTracker(),
		lastSeen:  now(),
		now:       now,
	}
}

func (s *Session) ID() string {
	return s.id
}

// Result is the page after a transition plus the scroll it asks for.
type Result struct {
	View   View        `json:"view"`
	Scroll view.Scroll `json:"scroll"`
}

// View renders the current page.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.render()
}

func (s *Session) NavigateHome(anchor string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaveProduct()
	return s.result(s.router.NavigateHome(anchor))
}

func (s *Session) SetHomeFilter(category string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.router.SetHomeFilter(category); err != nil {
		return Result{}, fmt.Errorf("failed to filter by %q: %w", category, err)
	}
	return s.result(view.Scroll{Kind: view.ScrollNone}), nil
}

// SelectProduct opens the product page and, for variable products, starts
// resolving option swatch images.
func (s *Session) SelectProduct(productID string) (Result, error) {
	p, ok := domain.FindProduct(s.catalog.Snapshot().Products, productID)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	scroll := s.router.SelectProduct(p)
	ticket := s.tracker.Begin(p.ID)
	s.detail = detailState{
		options:           domain.CloneOptions(p.Options),
		selected:          map[string]string{},
		variationsLoading: p.HasVariants && !s.closed,
	}

	if s.detail.variationsLoading {
		s.pending.Add(1)
		go s.loadVariations(ticket, p)
	}

	return s.result(scroll), nil
}

func (s *Session) loadVariations(ticket variant.Ticket, p domain.Product) {
	defer s.pending.Done()

	variations := s.catalog.Variations(s.ctx, p.ID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.tracker.Current(ticket) {
		log.Debugf("Discarding stale variations for product %s", p.ID)
		return
	}
	s.detail.variationsLoading = false
	if len(variations) == 0 {
		return
	}
	s.detail.options = variant.Resolve(p.Options, variations)
	log.Debugf("Resolved %d variations for product %s", len(variations), p.ID)
}

func (s *Session) SelectCategory(category string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaveProduct()
	return s.result(s.router.SelectCategory(category))
}

func (s *Session) SelectArticle(articleID int) (Result, error) {
	a, ok := domain.FindArticle(s.catalog.Snapshot().Articles, articleID)
	if !ok {
		return Result{}, fmt.Errorf("%w: %d", ErrArticleNotFound, articleID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	scroll, err := s.router.SelectArticle(a)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open article %d: %w", articleID, err)
	}
	return s.result(scroll), nil
}

func (s *Session) Back() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaveProduct()
	return s.result(s.router.Back())
}

// SelectOption records the chosen value of an option of the displayed product.
func (s *Session) SelectOption(name, value string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.router.State().(view.ProductView); !ok {
		return View{}, view.ErrTransitionNotAllowed
	}

	known := false
	for _, o := range s.detail.options {
		if o.Name == name && o.HasValue(value) {
			known = true
			break
		}
	}
	if !known {
		return View{}, fmt.Errorf("%w: %s=%s", ErrUnknownOption, name, value)
	}

	s.detail.selected[name] = value
	s.detail.err = ""
	return s.render(), nil
}

// AddToCart adds the displayed product with the current selection. Every
// option needs a value; otherwise the page shows a validation message.
func (s *Session) AddToCart() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pv, ok := s.router.State().(view.ProductView)
	if !ok {
		return View{}, view.ErrTransitionNotAllowed
	}

	for _, o := range s.detail.options {
		if s.detail.selected[o.Name] == "" {
			s.detail.err = OptionsIncompleteMessage
			return s.render(), ErrOptionsIncomplete
		}
	}

	item := s.cart.Add(pv.Product, s.detail.selected)
	s.detail.err = ""
	log.Debugf("Session %s added %s to cart", s.id, item.LineID)
	return s.render(), nil
}

func (s *Session) RemoveFromCart(index int) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.cart.RemoveAt(index); err != nil {
		return View{}, err
	}
	return s.render(), nil
}

func (s *Session) OpenCart() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Open()
	return s.render()
}

func (s *Session) CloseCart() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Close()
	return s.render()
}

// BeginCheckout leaves the cart drawer for the checkout page. The drawer is
// the only way in.
func (s *Session) BeginCheckout() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cart.IsOpen() {
		return Result{}, fmt.Errorf("checkout requires the cart drawer: %w", view.ErrTransitionNotAllowed)
	}
	s.cart.Close()
	s.leaveProduct()
	return s.result(s.router.BeginCheckout()), nil
}

// CheckoutURL is the external page the shopper completes payment on.
func (s *Session) CheckoutURL() string {
	s.mu.Lock()
	items := s.cart.Items()
	s.mu.Unlock()
	return checkout.BuildURL(s.catalog.CheckoutBase(), items)
}

// Ask sends a message to the concierge and records both turns.
func (s *Session) Ask(ctx context.Context, message string) ([]domain.ChatMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	s.touch()
	history := append([]domain.ChatMessage(nil), s.chat...)
	s.chat = append(s.chat, domain.ChatMessage{Role: domain.ChatRoleUser, Text: message, Timestamp: s.now()})
	s.mu.Unlock()

	reply := s.concierge.Reply(ctx, history, message, s.catalog.Snapshot().Products)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.chat = append(s.chat, domain.ChatMessage{Role: domain.ChatRoleModel, Text: reply, Timestamp: s.now()})
	return append([]domain.ChatMessage(nil), s.chat...), nil
}

// Transcript returns the concierge conversation so far.
func (s *Session) Transcript() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return append([]domain.ChatMessage(nil), s.chat...)
}

// Wait blocks until background variation lookups have finished.
func (s *Session) Wait() {
	s.pending.Wait()
}

// Close abandons in-flight lookups. Products selected afterwards are shown
// without resolving variations.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.pending.Wait()
}

// leaveProduct retires outstanding variation lookups when the product page
// is left. Callers hold s.mu.
func (s *Session) leaveProduct() {
	if _, ok := s.router.State().(view.ProductView); ok {
		s.tracker.Invalidate()
		s.detail = detailState{}
	}
}

func (s *Session) result(scroll view.Scroll) Result {
	return Result{View: s.render(), Scroll: scroll}
}

func (s *Session) touch() {
	s.lastSeen = s.now()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
