package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"elysoir/storefront/internal/client"
	"elysoir/storefront/internal/domain"
	"elysoir/storefront/internal/fallback"
	"elysoir/storefront/internal/repository"
	"elysoir/storefront/internal/state"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Snapshot is the process-wide catalog the storefront renders from.
// A snapshot is immutable; every sync publishes a new one.
type Snapshot struct {
	Products   []domain.Product `json:"products"`
	Categories []string         `json:"categories"`
	Articles   []domain.Article `json:"articles"`
	LastSync   time.Time        `json:"last_sync"`
}

// Service is the data sync controller and the single writer of the snapshot.
type Service struct {
	client       client.CommerceClient
	repository   repository.ProductRepository
	stateManager state.StateManager
	now          func() time.Time

	refreshMu sync.Mutex
	loading   atomic.Bool
	snapshot  atomic.Pointer[Snapshot]
}

func NewService(
	client client.CommerceClient,
	repository repository.ProductRepository,
	stateManager state.StateManager,
) *Service {
	s := &Service{
		client:       client,
		repository:   repository,
		stateManager: stateManager,
		now:          time.Now,
	}
	s.loading.Store(true)
	s.snapshot.Store(&Snapshot{Categories: []string{domain.AllCategory}})
	return s
}

// Loading reports whether the initial or current sync cycle is still running.
func (s *Service) Loading() bool {
	return s.loading.Load()
}

// Snapshot returns the most recently published catalog.
func (s *Service) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Variations fetches the variation list for a product. Failures are logged
// and reported as an empty list.
func (s *Service) Variations(ctx context.Context, productID string) []domain.Variation {
	variations, err := s.client.FetchVariations(ctx, productID)
	if err != nil {
		log.Warnf("⚠️ Variations for product %s unavailable: %v", productID, err)
		return nil
	}
	return variations
}

// CheckoutBase is the public site URL the shopper is handed off to.
func (s *Service) CheckoutBase() string {
	return s.client.CheckoutBase()
}

type productResult struct {
	products   []domain.Product
	categories []string
	source     state.Source
	errs       []string
}

type articleResult struct {
	articles []domain.Article
	source   state.Source
	errs     []string
}

// Refresh runs one sync cycle: products+categories and articles are fetched
// concurrently, each falling back to bundled data on its own. There are no
// retries; a failed pipeline stays on fallback until the next call.
// A cycle whose ctx ends before it completes publishes nothing: cancellation
// is not an upstream failure, so the previous snapshot stays live.
func (s *Service) Refresh(ctx context.Context) *Snapshot {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	s.loading.Store(true)
	defer s.loading.Store(false)

	started := s.now()
	log.Info("🔄 Syncing catalog and journal...")

	var (
		products productResult
		articles articleResult
	)

	// Neither pipeline returns an error: failures resolve to fallback data,
	// so one slow or broken pipeline never cancels the other.
	g := new(errgroup.Group)
	g.Go(func() error {
		products = s.syncProducts(ctx)
		return nil
	})
	g.Go(func() error {
		articles = s.syncArticles(ctx)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		log.Warnf("⚠️ Sync abandoned, keeping previous catalog: %v", err)
		return s.snapshot.Load()
	}

	completed := s.now()
	snap := &Snapshot{
		Products:   products.products,
		Categories: products.categories,
		Articles:   articles.articles,
		LastSync:   completed,
	}
	s.snapshot.Store(snap)

	report := state.SyncReport{
		StartedAt:     started,
		CompletedAt:   completed,
		ProductSource: products.source,
		ArticleSource: articles.source,
		ProductCount:  len(snap.Products),
		ArticleCount:  len(snap.Articles),
		Errors:        append(products.errs, articles.errs...),
	}
	if err := s.stateManager.SetLastSync(ctx, report); err != nil {
		log.Errorf("❌ Failed to record sync report: %v", err)
	}

	if products.source == state.SourceRemote {
		if err := s.repository.SaveProducts(ctx, snap.Products, completed); err != nil {
			log.Errorf("❌ Failed to archive products: %v", err)
		}
	}

	log.Infof("✅ Sync completed: %d products (%s), %d categories, %d articles (%s)",
		len(snap.Products), products.source, len(snap.Categories), len(snap.Articles), articles.source)

	return snap
}

// LastReport returns the most recent recorded sync report, if any.
func (s *Service) LastReport(ctx context.Context) (*state.SyncReport, error) {
	return s.stateManager.GetLastSync(ctx)
}

func (s *Service) syncProducts(ctx context.Context) productResult {
	var (
		products      []domain.Product
		categories    []string
		productErr    error
		categoriesErr error
	)

	g := new(errgroup.Group)
	g.Go(func() error {
		products, productErr = s.client.FetchProducts(ctx)
		return nil
	})
	g.Go(func() error {
		categories, categoriesErr = s.client.FetchCategories(ctx)
		return nil
	})
	_ = g.Wait()

	res := productResult{}

	if productErr != nil || len(products) == 0 {
		if productErr != nil {
			log.Errorf("❌ Product sync failed, using bundled catalog: %v", productErr)
			res.errs = append(res.errs, productErr.Error())
		} else {
			log.Warn("⚠️ Commerce API returned no products, using bundled catalog")
		}
		res.products = fallback.Products()
		res.categories = fallback.Categories()
		res.source = state.SourceFallback
		return res
	}

	res.products = products
	res.source = state.SourceRemote

	if categoriesErr != nil {
		log.Warnf("⚠️ Category sync failed, deriving categories from products: %v", categoriesErr)
		res.errs = append(res.errs, categoriesErr.Error())
		res.categories = domain.DeriveCategories(products)
	} else {
		res.categories = domain.CategoriesFromNames(categories)
	}

	return res
}

func (s *Service) syncArticles(ctx context.Context) articleResult {
	articles, err := s.client.FetchArticles(ctx)
	if err != nil || len(articles) == 0 {
		res := articleResult{articles: fallback.Articles(), source: state.SourceFallback}
		if err != nil {
			log.Errorf("❌ Journal sync failed, using bundled articles: %v", err)
			res.errs = append(res.errs, err.Error())
		} else {
			log.Warn("⚠️ Commerce API returned no articles, using bundled articles")
		}
		return res
	}
	return articleResult{articles: articles, source: state.SourceRemote}
}
