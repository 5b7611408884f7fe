package admin

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jabirmahmud0/techhive-client/pkg/apiclient"
	"github.com/jabirmahmud0/techhive-client/pkg/config"
	"github.com/jabirmahmud0/techhive-client/pkg/logger"
	"github.com/jabirmahmud0/techhive-client/pkg/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

func newFixture(t *testing.T, handler http.Handler) *Service {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	client, err := apiclient.NewClient(config.APIConfig{BaseURL: server.URL}, logg)
	require.NoError(t, err)
	client.SetTokenProvider(staticToken("admin-tok"))

	svc, err := NewService(ServiceParams{Client: client, Logger: logg})
	require.NoError(t, err)
	return svc
}

func TestFetchStats(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/admin/stats", r.URL.Path)
		_ = json.NewEncoder(w).Encode(Stats{Revenue: 1500, RecentRevenue: 300, Orders: 12, Users: 5, Products: 9})
	})
	svc := newFixture(t, handler)

	stats, err := svc.FetchStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1500.0, stats.Revenue)
	assert.Equal(t, 12, stats.Orders)
}

func TestMarkDeliveredPatchesOnlyAffectedOrder(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/admin/orders":
			_ = json.NewEncoder(w).Encode([]types.Order{
				{ID: "O1", TotalPrice: 10},
				{ID: "O2", TotalPrice: 20},
			})
		case "/api/admin/orders/O2/deliver":
			require.Equal(t, http.MethodPut, r.Method)
			_ = json.NewEncoder(w).Encode(types.Order{ID: "O2", TotalPrice: 20, IsDelivered: true})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})
	svc := newFixture(t, handler)

	_, err := svc.FetchOrders(context.Background())
	require.NoError(t, err)

	result := svc.MarkDelivered(context.Background(), "O2")
	require.True(t, result.Success, result.Message)

	orders := svc.Orders()
	require.Len(t, orders, 2)
	assert.False(t, orders[0].IsDelivered, "untouched order must stay untouched")
	assert.True(t, orders[1].IsDelivered)
}

func TestMarkDeliveredFailureLeavesCache(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/admin/orders" {
			_ = json.NewEncoder(w).Encode([]types.Order{{ID: "O1"}})
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Order not found"})
	})
	svc := newFixture(t, handler)

	_, err := svc.FetchOrders(context.Background())
	require.NoError(t, err)

	result := svc.MarkDelivered(context.Background(), "O9")
	assert.False(t, result.Success)
	assert.Equal(t, "Order not found", result.Message)
	assert.False(t, svc.Orders()[0].IsDelivered)
}

func TestProductLifecycle(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/admin/products":
			var input types.ProductInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(types.Product{ID: "P1", Name: input.Name, Price: input.Price})
		case r.Method == http.MethodPut && r.URL.Path == "/api/admin/products/P1":
			_ = json.NewEncoder(w).Encode(types.Product{ID: "P1", Name: "Renamed"})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/admin/products/P1":
			w.WriteHeader(http.StatusOK)
		default:
			t.Fatalf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})
	svc := newFixture(t, handler)

	created, result := svc.CreateProduct(context.Background(), types.ProductInput{Name: "Widget", Price: 9.99})
	require.True(t, result.Success, result.Message)
	assert.Equal(t, "P1", created.ID)

	updated, result := svc.UpdateProduct(context.Background(), "P1", types.ProductInput{Name: "Renamed", Price: 9.99})
	require.True(t, result.Success)
	assert.Equal(t, "Renamed", updated.Name)

	assert.True(t, svc.DeleteProduct(context.Background(), "P1").Success)
}

func TestCreateProductValidatesLocally(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("invalid product must not reach the backend")
	})
	svc := newFixture(t, handler)

	_, result := svc.CreateProduct(context.Background(), types.ProductInput{Price: -1})
	assert.False(t, result.Success)
}
