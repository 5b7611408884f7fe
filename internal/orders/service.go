package orders

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jabirmahmud0/techhive-client/internal/cart"
	"github.com/jabirmahmud0/techhive-client/pkg/apiclient"
	"github.com/jabirmahmud0/techhive-client/pkg/enums"
	pkgerrors "github.com/jabirmahmud0/techhive-client/pkg/errors"
	"github.com/jabirmahmud0/techhive-client/pkg/logger"
	"github.com/jabirmahmud0/techhive-client/pkg/types"
	"github.com/jabirmahmud0/techhive-client/pkg/validate"
)

// ServiceParams groups dependencies for the orders service.
type ServiceParams struct {
	Client *apiclient.Client
	Cart   *cart.Cart
	Logger *logger.Logger
}

// Service owns checkout submission and order reads. Orders are created
// once at checkout and afterwards only read; fulfillment flags move on
// the backend.
type Service struct {
	client *apiclient.Client
	cart   *cart.Cart
	logger *logger.Logger
}

// NewService builds the orders service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "api client is required")
	}
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &Service{client: params.Client, cart: params.Cart, logger: params.Logger}, nil
}

// PlacementResult reports a checkout attempt. OrderID is set only on
// success and is the navigation target for the tracking view.
type PlacementResult struct {
	types.Result
	OrderID string
}

// Place submits the current cart as an order. Tax and shipping go up as
// zero; the backend computes them authoritatively. The cart is cleared
// only after the backend confirms, so a failed placement never loses the
// draft.
func (s *Service) Place(ctx context.Context, address types.ShippingAddress, payment enums.PaymentMethod) PlacementResult {
	if err := validate.Struct(address); err != nil {
		return PlacementResult{Result: types.ResultFromError(err)}
	}
	if !payment.IsValid() {
		return PlacementResult{Result: types.Fail("Please select a payment method")}
	}

	lines := s.cart.Items()
	if len(lines) == 0 {
		return PlacementResult{Result: types.Fail("Your cart is empty")}
	}

	items := make([]types.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, types.OrderItem{
			Product: line.Product.ID,
			Name:    line.Product.Name,
			Qty:     line.Qty,
			Price:   line.Product.Price,
			Image:   line.Product.Image,
		})
	}

	total, _ := s.cart.Subtotal().Float64()
	payload := types.OrderPayload{
		OrderItems:      items,
		ShippingAddress: address,
		PaymentMethod:   string(payment),
		TaxPrice:        0,
		ShippingPrice:   0,
		TotalPrice:      total,
	}

	var created types.Order
	err := s.client.Do(ctx, apiclient.Call{
		Operation: "order_place",
		Method:    http.MethodPost,
		Path:      "/api/orders",
		Body:      payload,
		Out:       &created,
		Auth:      true,
	})
	if err != nil {
		return PlacementResult{Result: types.ResultFromError(err)}
	}
	if created.ID == "" {
		return PlacementResult{Result: types.Fail("Order confirmation was missing its identifier")}
	}

	// cleared strictly before the caller navigates to tracking, so the
	// tracking view can never observe the pre-clear cart
	s.cart.Clear()
	s.logger.Info(s.logger.WithOrderID(ctx, created.ID), "order placed")

	return PlacementResult{Result: types.OK(), OrderID: created.ID}
}

// History fetches the signed-in user's past orders, newest first as the
// backend returns them.
func (s *Service) History(ctx context.Context) ([]types.Order, error) {
	var out []types.Order
	err := s.client.Do(ctx, apiclient.Call{
		Operation: "order_history",
		Method:    http.MethodGet,
		Path:      "/api/users/orders",
		Out:       &out,
		Auth:      true,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one order by identity; requires an active session.
func (s *Service) Get(ctx context.Context, orderID string) (*types.Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	var order types.Order
	err := s.client.Do(ctx, apiclient.Call{
		Operation: "order_get",
		Method:    http.MethodGet,
		Path:      fmt.Sprintf("/api/orders/%s", url.PathEscape(orderID)),
		Out:       &order,
		Auth:      true,
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
