package admin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/jabirmahmud0/techhive-client/pkg/apiclient"
	pkgerrors "github.com/jabirmahmud0/techhive-client/pkg/errors"
	"github.com/jabirmahmud0/techhive-client/pkg/logger"
	"github.com/jabirmahmud0/techhive-client/pkg/types"
	"github.com/jabirmahmud0/techhive-client/pkg/validate"
)

// ServiceParams groups dependencies for the admin service.
type ServiceParams struct {
	Client *apiclient.Client
	Logger *logger.Logger
}

// Service is the operator back office: dashboard stats, the full order
// list, fulfillment actions, and product management. The backend enforces
// the admin role; this layer only shapes the calls.
type Service struct {
	client *apiclient.Client
	logger *logger.Logger

	mu     sync.Mutex
	orders []types.Order
}

// NewService builds the admin service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "api client is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &Service{client: params.Client, logger: params.Logger}, nil
}

// Stats is the dashboard aggregate view.
type Stats struct {
	Revenue       float64 `json:"revenue"`
	RecentRevenue float64 `json:"recentRevenue"`
	Orders        int     `json:"orders"`
	Users         int     `json:"users"`
	Products      int     `json:"products"`
}

// FetchStats loads the dashboard aggregates.
func (s *Service) FetchStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	err := s.client.Do(ctx, apiclient.Call{
		Operation: "admin_stats",
		Method:    http.MethodGet,
		Path:      "/api/admin/stats",
		Out:       &stats,
		Auth:      true,
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// FetchOrders loads every order and caches the list for MarkDelivered to
// patch in place.
func (s *Service) FetchOrders(ctx context.Context) ([]types.Order, error) {
	var orders []types.Order
	err := s.client.Do(ctx, apiclient.Call{
		Operation: "admin_orders",
		Method:    http.MethodGet,
		Path:      "/api/admin/orders",
		Out:       &orders,
		Auth:      true,
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.orders = orders
	s.mu.Unlock()
	return s.Orders(), nil
}

// Orders returns a copy of the cached order list.
func (s *Service) Orders() []types.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// MarkDelivered flips the delivered flag on one order. The returned
// record replaces only that entry in the cached list; all other entries
// are left untouched.
func (s *Service) MarkDelivered(ctx context.Context, orderID string) types.Result {
	if strings.TrimSpace(orderID) == "" {
		return types.Fail("order id is required")
	}

	var updated types.Order
	err := s.client.Do(ctx, apiclient.Call{
		Operation: "admin_order_deliver",
		Method:    http.MethodPut,
		Path:      fmt.Sprintf("/api/admin/orders/%s/deliver", url.PathEscape(orderID)),
		Out:       &updated,
		Auth:      true,
	})
	if err != nil {
		return types.ResultFromError(err)
	}

	s.mu.Lock()
	for i := range s.orders {
		if s.orders[i].ID == updated.ID {
			s.orders[i] = updated
			break
		}
	}
	s.mu.Unlock()

	s.logger.Info(s.logger.WithOrderID(ctx, orderID), "order marked delivered")
	return types.OK()
}

// GetProduct loads one product through the admin surface.
func (s *Service) GetProduct(ctx context.Context, productID string) (*types.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	var product types.Product
	err := s.client.Do(ctx, apiclient.Call{
		Operation: "admin_product_get",
		Method:    http.MethodGet,
		Path:      fmt.Sprintf("/api/admin/products/%s", url.PathEscape(productID)),
		Out:       &product,
		Auth:      true,
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct adds a catalog record.
func (s *Service) CreateProduct(ctx context.Context, input types.ProductInput) (*types.Product, types.Result) {
	if err := validate.Struct(input); err != nil {
		return nil, types.ResultFromError(err)
	}

	var created types.Product
	err := s.client.Do(ctx, apiclient.Call{
		Operation: "admin_product_create",
		Method:    http.MethodPost,
		Path:      "/api/admin/products",
		Body:      input,
		Out:       &created,
		Auth:      true,
	})
	if err != nil {
		return nil, types.ResultFromError(err)
	}
	return &created, types.OK()
}

// UpdateProduct rewrites a catalog record.
func (s *Service) UpdateProduct(ctx context.Context, productID string, input types.ProductInput) (*types.Product, types.Result) {
	if strings.TrimSpace(productID) == "" {
		return nil, types.Fail("product id is required")
	}
	if err := validate.Struct(input); err != nil {
		return nil, types.ResultFromError(err)
	}

	var updated types.Product
	err := s.client.Do(ctx, apiclient.Call{
		Operation: "admin_product_update",
		Method:    http.MethodPut,
		Path:      fmt.Sprintf("/api/admin/products/%s", url.PathEscape(productID)),
		Body:      input,
		Out:       &updated,
		Auth:      true,
	})
	if err != nil {
		return nil, types.ResultFromError(err)
	}
	return &updated, types.OK()
}

// DeleteProduct removes a catalog record.
func (s *Service) DeleteProduct(ctx context.Context, productID string) types.Result {
	if strings.TrimSpace(productID) == "" {
		return types.Fail("product id is required")
	}

	err := s.client.Do(ctx, apiclient.Call{
		Operation: "admin_product_delete",
		Method:    http.MethodDelete,
		Path:      fmt.Sprintf("/api/admin/products/%s", url.PathEscape(productID)),
		Auth:      true,
	})
	if err != nil {
		return types.ResultFromError(err)
	}
	return types.OK()
}
