package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"elysoir/storefront/internal/client"
	"elysoir/storefront/internal/concierge"
	"elysoir/storefront/internal/config"
	"elysoir/storefront/internal/proxy"
	"elysoir/storefront/internal/repository"
	"elysoir/storefront/internal/server"
	"elysoir/storefront/internal/service"
	"elysoir/storefront/internal/session"
	"elysoir/storefront/internal/state"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Container holds all initialized components
type Container struct {
	Config       *config.Config
	Client       client.CommerceClient
	Repository   repository.ProductRepository
	StateManager state.StateManager
	Concierge    concierge.Concierge

	Service  *service.Service
	Sessions *session.Manager
	Server   *http.Server

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized.
// Postgres and Redis are optional; without them the catalog archive is
// skipped and sync status is kept in memory.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	if cfg.Database.Enabled {
		db, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.Ping(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		log.Info("✅ Connected to Postgres successfully")
		container.db = db
		container.Repository = repository.NewProductRepository(db)
	} else {
		container.Repository = repository.NewNoopProductRepository()
	}

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})

		// Test connection
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			_ = rdb.Close()
			container.closeDB()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")

		container.redis = rdb
		container.StateManager = state.NewRedisStateManager(rdb, cfg.Redis.KeyPrefix)
	} else {
		container.StateManager = state.NewMemoryStateManager()
	}

	container.Client = client.NewWooCommerceClient(cfg.WooCommerce)
	container.Concierge = concierge.NewConcierge(cfg.Concierge)
	container.Service = service.NewService(container.Client, container.Repository, container.StateManager)
	container.Sessions = session.NewManager(container.Service, container.Concierge)

	serverCfg := server.Config{
		Address:  cfg.Server.Addr(),
		Catalog:  container.Service,
		Sessions: container.Sessions,
	}
	if cfg.Proxy.Enabled {
		h, err := proxy.NewCommerceProxy(cfg.WooCommerce, cfg.Proxy.PathPrefix)
		if err != nil {
			container.closeStores()
			return nil, fmt.Errorf("failed to initialize commerce proxy: %w", err)
		}
		proxy.CheckUpstream(ctx, cfg.WooCommerce.SiteURL)
		serverCfg.Proxy = h
		serverCfg.ProxyPrefix = cfg.Proxy.PathPrefix
	}
	container.Server = server.New(serverCfg)

	return container, nil
}

// Sync runs a single catalog sync cycle.
func (c *Container) Sync(ctx context.Context) *service.Snapshot {
	return c.Service.Refresh(ctx)
}

// Run serves the storefront API until ctx is cancelled. The initial sync
// runs alongside the listener so the API answers "loading" meanwhile.
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c.Service.Refresh(ctx)
		return nil
	})

	g.Go(func() error {
		c.runMaintenance(ctx)
		return nil
	})

	g.Go(func() error {
		log.Infof("🚀 Storefront API listening on %s", c.Server.Addr)
		if err := c.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return c.Server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// runMaintenance prunes idle sessions and, when configured, re-syncs the catalog.
func (c *Container) runMaintenance(ctx context.Context) {
	idle := time.Duration(c.Config.Server.SessionIdle) * time.Minute
	pruneTicker := time.NewTicker(time.Minute)
	defer pruneTicker.Stop()

	var syncC <-chan time.Time
	if c.Config.Server.SyncInterval > 0 {
		syncTicker := time.NewTicker(time.Duration(c.Config.Server.SyncInterval) * time.Minute)
		defer syncTicker.Stop()
		syncC = syncTicker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-pruneTicker.C:
			if idle > 0 {
				c.Sessions.Prune(idle)
			}
		case <-syncC:
			c.Service.Refresh(ctx)
		}
	}
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	c.closeStores()

	log.Info("Container shut down successfully")
	return nil
}

func (c *Container) closeStores() {
	c.closeDB()
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warnf("⚠️ Failed to close Redis: %v", err)
		}
	}
}

func (c *Container) closeDB() {
	if c.db != nil {
		c.db.Close()
	}
}
