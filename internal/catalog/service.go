package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jabirmahmud0/techhive-client/pkg/apiclient"
	pkgerrors "github.com/jabirmahmud0/techhive-client/pkg/errors"
	"github.com/jabirmahmud0/techhive-client/pkg/logger"
	"github.com/jabirmahmud0/techhive-client/pkg/types"
	"github.com/jabirmahmud0/techhive-client/pkg/validate"
)

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Client *apiclient.Client
	Logger *logger.Logger
}

// Service is read-only catalog access. Products are server-owned; the
// only write path is review submission, which goes through the backend
// and is observed on the next fetch.
type Service struct {
	client *apiclient.Client
	logger *logger.Logger
}

// NewService builds the catalog service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "api client is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &Service{client: params.Client, logger: params.Logger}, nil
}

// ListOptions narrows a catalog listing.
type ListOptions struct {
	Keyword  string
	Category string
}

// List fetches product listings, optionally filtered by keyword and
// category.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]types.Product, error) {
	query := url.Values{}
	if keyword := strings.TrimSpace(opts.Keyword); keyword != "" {
		query.Set("keyword", keyword)
	}
	if category := strings.TrimSpace(opts.Category); category != "" {
		query.Set("category", category)
	}

	path := "/api/products"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var products []types.Product
	if err := s.client.Get(ctx, "products_list", path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Get fetches a single product with its embedded reviews.
func (s *Service) Get(ctx context.Context, productID string) (*types.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	var product types.Product
	err := s.client.Get(ctx, "product_get", fmt.Sprintf("/api/products/%s", url.PathEscape(productID)), &product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// SubmitReview posts a review for the product and returns the refreshed
// record so callers see the new review and updated aggregates at once.
func (s *Service) SubmitReview(ctx context.Context, productID string, input types.ReviewInput) (*types.Product, types.Result) {
	if strings.TrimSpace(productID) == "" {
		return nil, types.Fail("product id is required")
	}
	if err := validate.Struct(input); err != nil {
		return nil, types.ResultFromError(err)
	}

	err := s.client.Do(ctx, apiclient.Call{
		Operation: "review_submit",
		Method:    http.MethodPost,
		Path:      fmt.Sprintf("/api/products/%s/reviews", url.PathEscape(productID)),
		Body:      input,
		Auth:      true,
	})
	if err != nil {
		return nil, types.ResultFromError(err)
	}

	refreshed, err := s.Get(ctx, productID)
	if err != nil {
		// the review landed; only the refresh failed
		s.logger.Warn(s.logger.WithProductID(ctx, productID), "review saved but product refresh failed")
		return nil, types.OK()
	}
	return refreshed, types.OK()
}
