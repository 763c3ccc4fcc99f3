package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"elysoir/storefront/internal/client"
	"elysoir/storefront/internal/config"
	"elysoir/storefront/internal/domain"
	"elysoir/storefront/internal/repository"
	"elysoir/storefront/internal/service"
	"elysoir/storefront/internal/session"
	"elysoir/storefront/internal/state"
	"elysoir/storefront/internal/view"

	"github.com/stretchr/testify/require"
)

type echoConcierge struct{}

func (echoConcierge) Reply(_ context.Context, _ []domain.ChatMessage, message string, _ []domain.Product) string {
	return "You asked: " + message
}

func newTestServer(t *testing.T, proxy http.Handler) *httptest.Server {
	t.Helper()
	svc := service.NewService(
		client.NewWooCommerceClient(config.WooCommerceConfig{SiteURL: "https://shop.example.com"}),
		repository.NewNoopProductRepository(),
		state.NewMemoryStateManager(),
	)
	svc.Refresh(context.Background())

	srv := httptest.NewServer(NewRouter(Config{
		Catalog:     svc,
		Sessions:    session.NewManager(svc, echoConcierge{}),
		Proxy:       proxy,
		ProxyPrefix: "/wp-proxy",
	}))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealthAndCatalog(t *testing.T) {
	srv := newTestServer(t, nil)

	var health map[string]string
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, srv.URL+"/healthz", nil, &health))
	require.Equal(t, "ok", health["status"])

	var cat struct {
		Loading    bool             `json:"loading"`
		Products   []domain.Product `json:"products"`
		Categories []string         `json:"categories"`
		Articles   []domain.Article `json:"articles"`
	}
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, srv.URL+"/api/catalog", nil, &cat))
	require.False(t, cat.Loading)
	require.Len(t, cat.Products, 3)
	require.Equal(t, []string{"All", "Jewelry", "Watches", "Designer Toys"}, cat.Categories)
	require.Len(t, cat.Articles, 1)
}

func TestSyncReturnsReport(t *testing.T) {
	srv := newTestServer(t, nil)

	var res struct {
		Report state.SyncReport `json:"report"`
	}
	require.Equal(t, http.StatusOK, call(t, http.MethodPost, srv.URL+"/api/sync", nil, &res))
	require.Equal(t, state.SourceFallback, res.Report.ProductSource)
	require.Equal(t, 3, res.Report.ProductCount)
}

func TestStorefrontFlow(t *testing.T) {
	srv := newTestServer(t, nil)

	var created session.View
	require.Equal(t, http.StatusCreated, call(t, http.MethodPost, srv.URL+"/api/sessions", nil, &created))
	require.NotEmpty(t, created.SessionID)
	base := srv.URL + "/api/sessions/" + created.SessionID

	var res session.Result
	require.Equal(t, http.StatusOK, call(t, http.MethodPost, base+"/categories", map[string]string{"category": "Watches"}, &res))
	require.Equal(t, view.KindCategory, res.View.Page)
	require.Len(t, res.View.Products, 1)
	watchID := res.View.Products[0].ID

	require.Equal(t, http.StatusOK, call(t, http.MethodPost, base+"/products/"+watchID, nil, &res))
	require.Equal(t, view.ScrollTop, res.Scroll.Kind)

	var rejected struct {
		Error string       `json:"error"`
		View  session.View `json:"view"`
	}
	require.Equal(t, http.StatusUnprocessableEntity, call(t, http.MethodPost, base+"/cart", nil, &rejected))
	require.Equal(t, session.OptionsIncompleteMessage, rejected.Error)
	require.Equal(t, session.OptionsIncompleteMessage, rejected.View.Product.Error)

	var v session.View
	require.Equal(t, http.StatusUnprocessableEntity, call(t, http.MethodPost, base+"/options", map[string]string{"name": "Strap", "value": "Plastic"}, nil))
	require.Equal(t, http.StatusOK, call(t, http.MethodPost, base+"/options", map[string]string{"name": "Strap", "value": "Ivory Silk"}, &v))
	require.Equal(t, http.StatusOK, call(t, http.MethodPost, base+"/cart", nil, &v))
	require.True(t, v.Cart.Open)
	require.Len(t, v.Cart.Items, 1)
	require.Equal(t, "2400", v.Cart.Total.String())

	require.Equal(t, http.StatusOK, call(t, http.MethodPost, base+"/back", nil, &res))
	require.Equal(t, view.KindHome, res.View.Page)
	require.True(t, res.Scroll.Deferred)

	require.Equal(t, http.StatusOK, call(t, http.MethodPost, base+"/checkout", nil, &res))
	require.Equal(t, view.KindCheckout, res.View.Page)
	require.Equal(t, "2400", res.View.Checkout.Total.String())

	var url map[string]string
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, base+"/checkout/url", nil, &url))
	require.Equal(t, "https://shop.example.com/cart", url["url"])

	require.Equal(t, http.StatusOK, call(t, http.MethodDelete, base+"/cart/0", nil, &v))
	require.Empty(t, v.Cart.Items)
	require.Equal(t, http.StatusUnprocessableEntity, call(t, http.MethodDelete, base+"/cart/0", nil, nil))
	require.Equal(t, http.StatusBadRequest, call(t, http.MethodDelete, base+"/cart/first", nil, nil))
}

func TestNavigationErrors(t *testing.T) {
	srv := newTestServer(t, nil)

	var created session.View
	call(t, http.MethodPost, srv.URL+"/api/sessions", nil, &created)
	base := srv.URL + "/api/sessions/" + created.SessionID

	require.Equal(t, http.StatusNotFound, call(t, http.MethodGet, srv.URL+"/api/sessions/nope", nil, nil))
	require.Equal(t, http.StatusNotFound, call(t, http.MethodPost, base+"/products/nope", nil, nil))
	require.Equal(t, http.StatusNotFound, call(t, http.MethodPost, base+"/articles/99", nil, nil))
	require.Equal(t, http.StatusBadRequest, call(t, http.MethodPost, base+"/articles/x", nil, nil))
	require.Equal(t, http.StatusConflict, call(t, http.MethodPost, base+"/checkout", nil, nil))

	req, err := http.NewRequest(http.MethodPost, base+"/filter", bytes.NewBufferString("{"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var res session.Result
	require.Equal(t, http.StatusOK, call(t, http.MethodPost, base+"/articles/1", nil, &res))
	require.Equal(t, view.KindJournal, res.View.Page)
	require.Equal(t, http.StatusConflict, call(t, http.MethodPost, base+"/filter", map[string]string{"category": "Jewelry"}, nil))

	require.Equal(t, http.StatusOK, call(t, http.MethodPost, base+"/home", map[string]string{"anchor": "about"}, &res))
	require.Equal(t, view.Scroll{Kind: view.ScrollAnchor, Anchor: "about", Offset: view.HeaderOffset, Smooth: true, Deferred: true}, res.Scroll)

	require.Equal(t, http.StatusNoContent, call(t, http.MethodDelete, base, nil, nil))
	require.Equal(t, http.StatusNotFound, call(t, http.MethodGet, base, nil, nil))
}

func TestConcierge(t *testing.T) {
	srv := newTestServer(t, nil)

	var created session.View
	call(t, http.MethodPost, srv.URL+"/api/sessions", nil, &created)
	base := srv.URL + "/api/sessions/" + created.SessionID

	require.Equal(t, http.StatusUnprocessableEntity, call(t, http.MethodPost, base+"/concierge", map[string]string{"message": ""}, nil))

	var chat transcriptResponse
	require.Equal(t, http.StatusOK, call(t, http.MethodPost, base+"/concierge", map[string]string{"message": "Hello"}, &chat))
	require.Len(t, chat.Messages, 2)
	require.Equal(t, "You asked: Hello", chat.Messages[1].Text)

	require.Equal(t, http.StatusOK, call(t, http.MethodGet, base+"/concierge", nil, &chat))
	require.Len(t, chat.Messages, 2)
}

func TestProxyMounted(t *testing.T) {
	proxy := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"path": r.URL.Path})
	})
	srv := newTestServer(t, proxy)

	var got map[string]string
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, srv.URL+"/wp-proxy/wp-json/wc/v3/products", nil, &got))
	require.Equal(t, "/wp-proxy/wp-json/wc/v3/products", got["path"])
}
