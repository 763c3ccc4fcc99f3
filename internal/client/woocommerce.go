package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"elysoir/storefront/internal/config"
	"elysoir/storefront/internal/domain"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// ErrNotConfigured is returned by every call when the client has neither
// credentials nor a proxy to talk to.
var ErrNotConfigured = errors.New("commerce API is not configured")

const (
	wcPath = "/wp-json/wc/v3"
	wpPath = "/wp-json/wp/v2"
)

// CommerceClient reads catalog and journal data from the WooCommerce/WordPress REST API.
type CommerceClient interface {
	FetchProducts(ctx context.Context) ([]domain.Product, error)
	FetchCategories(ctx context.Context) ([]string, error)
	FetchVariations(ctx context.Context, productID string) ([]domain.Variation, error)
	FetchArticles(ctx context.Context) ([]domain.Article, error)
	CheckoutBase() string
}

type wooCommerceClient struct {
	rl         ratelimit.Limiter
	config     config.WooCommerceConfig
	baseURL    string
	httpClient *resty.Client
	configured bool
}

func NewWooCommerceClient(cfg config.WooCommerceConfig) CommerceClient {
	client := resty.New().
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	if cfg.Timeout > 0 {
		client.SetTimeout(time.Duration(cfg.Timeout) * time.Second)
	}

	c := &wooCommerceClient{
		rl:         ratelimit.NewUnlimited(),
		config:     cfg,
		httpClient: client,
	}
	if cfg.MaxRequestsPerSecond > 0 {
		c.rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	switch {
	case cfg.ProxyBase != "":
		c.baseURL = cfg.ProxyBase
		c.configured = true
		log.Infof("🔗 Commerce API routed through proxy %s", cfg.ProxyBase)
	case cfg.HasCredentials():
		c.baseURL = cfg.SiteURL
		c.configured = true
		client.SetBasicAuth(cfg.ConsumerKey, cfg.ConsumerSecret)
		log.Infof("🔗 Commerce API at %s", cfg.SiteURL)
	default:
		log.Warn("⚠️ Missing WooCommerce site URL or credentials, the storefront will serve bundled content")
	}

	return c
}

func (c *wooCommerceClient) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	body, err := c.fetchJSON(ctx, wcPath+"/products", map[string]string{
		"per_page": "100",
		"status":   "publish",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	var raw []wcProduct
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make([]domain.Product, 0, len(raw))
	for _, p := range raw {
		products = append(products, NormalizeProduct(p))
	}

	log.Debugf("Fetched %d products", len(products))
	return products, nil
}

func (c *wooCommerceClient) FetchCategories(ctx context.Context) ([]string, error) {
	body, err := c.fetchJSON(ctx, wcPath+"/products/categories", map[string]string{
		"per_page":   "100",
		"hide_empty": "true",
		"orderby":    "count",
		"order":      "desc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}

	var raw []wcCategory
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}

	names := make([]string, 0, len(raw))
	for _, cat := range raw {
		names = append(names, cat.Name)
	}
	return names, nil
}

func (c *wooCommerceClient) FetchVariations(ctx context.Context, productID string) ([]domain.Variation, error) {
	path := fmt.Sprintf("%s/products/%s/variations", wcPath, url.PathEscape(productID))
	body, err := c.fetchJSON(ctx, path, map[string]string{"per_page": "50"})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch variations for product %s: %w", productID, err)
	}

	var raw []wcVariation
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode variations for product %s: %w", productID, err)
	}

	variations := make([]domain.Variation, 0, len(raw))
	for _, v := range raw {
		variations = append(variations, NormalizeVariation(v))
	}
	return variations, nil
}

func (c *wooCommerceClient) FetchArticles(ctx context.Context) ([]domain.Article, error) {
	body, err := c.fetchJSON(ctx, wpPath+"/posts", map[string]string{"_embed": ""})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch articles: %w", err)
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("failed to decode articles: expected a JSON array")
	}

	articles := make([]domain.Article, 0)
	parsed.ForEach(func(_, post gjson.Result) bool {
		articles = append(articles, NormalizeArticle(post))
		return true
	})

	log.Debugf("Fetched %d articles", len(articles))
	return articles, nil
}

// CheckoutBase is the public site the shopper is handed off to.
func (c *wooCommerceClient) CheckoutBase() string {
	return c.config.SiteURL
}

func (c *wooCommerceClient) fetchJSON(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	if !c.configured {
		return nil, ErrNotConfigured
	}

	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(c.baseURL + path)

	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), strings.TrimSpace(resp.Status()))
	}

	return resp.Bytes(), nil
}
