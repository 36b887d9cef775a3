package shopify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopifymcp/pkg/credentials"
)

func newTestClient(t *testing.T, creds credentials.Set, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	creds.ShopURL = srv.URL
	c, err := New(creds, 5*time.Second, nil)
	require.NoError(t, err)
	return c
}

func TestClient_AccessTokenAuth(t *testing.T) {
	var gotPath, gotQuery, gotToken string
	var hasBasic bool
	c := newTestClient(t, credentials.Set{AccessToken: "abc123", APIVersion: "2024-01"}, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotToken = r.Header.Get("X-Shopify-Access-Token")
		_, _, hasBasic = r.BasicAuth()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products":[{"id":1,"title":"A"},{"id":2,"title":"B"}]}`))
	})

	products, err := c.ListProducts(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, "/admin/api/2024-01/products.json", gotPath)
	assert.Equal(t, "limit=5", gotQuery)
	assert.Equal(t, "abc123", gotToken)
	assert.False(t, hasBasic)
}

func TestClient_BasicAuth(t *testing.T) {
	var user, pass, token string
	c := newTestClient(t, credentials.Set{APIKey: "key", Password: "pw"}, func(w http.ResponseWriter, r *http.Request) {
		user, pass, _ = r.BasicAuth()
		token = r.Header.Get("X-Shopify-Access-Token")
		assert.Equal(t, "/admin/api/"+credentials.DefaultAPIVersion+"/shop.json", r.URL.Path)
		_, _ = w.Write([]byte(`{"shop":{"id":9,"name":"Demo","has_storefront":true}}`))
	})

	shop, err := c.GetShop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Demo", shop.Name)
	assert.True(t, shop.HasStorefront)
	assert.Equal(t, "key", user)
	assert.Equal(t, "pw", pass)
	assert.Empty(t, token)
}

func TestClient_ErrorKinds(t *testing.T) {
	tests := []struct {
		status int
		body   string
		kind   ErrorKind
		msg    string
	}{
		{http.StatusUnauthorized, `{"errors":"[API] Invalid API key or access token"}`, KindUnauthorized, "[API] Invalid API key or access token"},
		{http.StatusForbidden, `{"errors":"forbidden"}`, KindUnauthorized, "forbidden"},
		{http.StatusNotFound, `{"errors":"Not Found"}`, KindNotFound, "Not Found"},
		{http.StatusTooManyRequests, `{"errors":"Exceeded 2 calls per second"}`, KindRateLimited, "Exceeded 2 calls per second"},
		{http.StatusUnprocessableEntity, `{"errors":{"limit":["is invalid"]}}`, KindUpstream, `{"limit":["is invalid"]}`},
		{http.StatusBadGateway, `bad gateway`, KindUpstream, "bad gateway"},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			calls := 0
			c := newTestClient(t, credentials.Set{AccessToken: "t"}, func(w http.ResponseWriter, r *http.Request) {
				calls++
				if tt.status == http.StatusTooManyRequests {
					w.Header().Set("Retry-After", "2.0")
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.GetProduct(context.Background(), "42")
			require.Error(t, err)
			ae, ok := AsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, ae.Kind)
			assert.Equal(t, tt.status, ae.Status)
			assert.Equal(t, tt.msg, ae.Message)
			assert.Equal(t, 1, calls, "no retries")
			if tt.status == http.StatusTooManyRequests {
				assert.Equal(t, "2.0", ae.RetryAfter)
			}
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(credentials.Set{ShopURL: url, AccessToken: "t"}, time.Second, nil)
	require.NoError(t, err)
	_, err = c.ListOrders(context.Background(), 3)
	ae, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, KindTransport, ae.Kind)
	assert.Zero(t, ae.Status)
}

func TestClient_OrdersQuery(t *testing.T) {
	c := newTestClient(t, credentials.Set{AccessToken: "t"}, func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("status"), "orders use the API default status filter")
		assert.Equal(t, "250", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"orders":[{"id":7,"order_number":1001,"customer":null,"fulfillment_status":null}]}`))
	})
	orders, err := c.ListOrders(context.Background(), 1000)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Nil(t, orders[0].Customer)
	assert.Equal(t, int64(1001), orders[0].OrderNumber)
}

func TestNew_RejectsInvalidCredentials(t *testing.T) {
	_, err := New(credentials.Set{ShopURL: "x.myshopify.com"}, time.Second, nil)
	assert.ErrorIs(t, err, credentials.ErrMissingAuth)
}

func TestNew_BaseURL(t *testing.T) {
	c, err := New(credentials.Set{ShopURL: "demo.myshopify.com", AccessToken: "t", APIVersion: "2024-07"}, time.Second, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://demo.myshopify.com/admin/api/2024-07", c.BaseURL())
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, ClampLimit(0))
	assert.Equal(t, DefaultLimit, ClampLimit(-3))
	assert.Equal(t, 5, ClampLimit(5))
	assert.Equal(t, MaxLimit, ClampLimit(MaxLimit+1))
}
