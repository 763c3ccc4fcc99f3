package proxy

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"elysoir/storefront/internal/config"

	"github.com/stretchr/testify/require"
)

func TestCommerceProxySignsRequests(t *testing.T) {
	var gotPath, gotQuery, gotCookie string
	var gotUser, gotPass string
	var gotAuth bool
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotCookie = r.Header.Get("Cookie")
		gotUser, gotPass, gotAuth = r.BasicAuth()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	h, err := NewCommerceProxy(config.WooCommerceConfig{
		SiteURL:        upstream.URL,
		ConsumerKey:    "ck_test",
		ConsumerSecret: "cs_test",
	}, "/wp-proxy")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/wp-proxy/wp-json/wc/v3/products?per_page=100", nil)
	req.Header.Set("Authorization", "Bearer browser")
	req.Header.Set("Cookie", "session=1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	require.Equal(t, "[]", string(body))
	require.Equal(t, "/wp-json/wc/v3/products", gotPath)
	require.Equal(t, "per_page=100", gotQuery)
	require.Empty(t, gotCookie)
	require.True(t, gotAuth)
	require.Equal(t, "ck_test", gotUser)
	require.Equal(t, "cs_test", gotPass)
}

func TestCommerceProxyRejects(t *testing.T) {
	h, err := NewCommerceProxy(config.WooCommerceConfig{
		SiteURL:        "http://127.0.0.1:1",
		ConsumerKey:    "ck",
		ConsumerSecret: "cs",
	}, "/wp-proxy")
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{name: "write", method: http.MethodPost, path: "/wp-proxy/wp-json/wc/v3/orders", want: http.StatusMethodNotAllowed},
		{name: "other namespace", method: http.MethodGet, path: "/wp-proxy/wp-json/wp/v2/users/../../wc/v3/x", want: http.StatusNotFound},
		{name: "admin", method: http.MethodGet, path: "/wp-proxy/wp-admin/", want: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			require.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestCommerceProxyRequiresCredentials(t *testing.T) {
	_, err := NewCommerceProxy(config.WooCommerceConfig{SiteURL: "https://shop.example.com"}, "/wp-proxy")
	require.Error(t, err)
}

func TestCheckUpstream(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/wp-json/", r.URL.Path)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ok.Close()
	require.True(t, CheckUpstream(context.Background(), ok.URL))

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer broken.Close()
	require.False(t, CheckUpstream(context.Background(), broken.URL))
}
