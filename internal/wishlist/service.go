package wishlist

import (
	"context"
	"net/http"
	"sync"

	"github.com/jabirmahmud0/techhive-client/pkg/apiclient"
	pkgerrors "github.com/jabirmahmud0/techhive-client/pkg/errors"
	"github.com/jabirmahmud0/techhive-client/pkg/logger"
	"github.com/jabirmahmud0/techhive-client/pkg/types"
)

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	Client *apiclient.Client
	Logger *logger.Logger
}

// Service is the server-synchronized saved-products set. The backend owns
// the canonical list: every successful mutation replaces the local cache
// wholesale with the server's returned list, so client and server cannot
// drift after any single successful call.
type Service struct {
	client *apiclient.Client
	logger *logger.Logger

	mu    sync.Mutex
	items []types.Product
	epoch uint64
}

// NewService builds the wishlist service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "api client is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &Service{client: params.Client, logger: params.Logger}, nil
}

// OnSessionChange reacts to identity changes. Session end clears the list
// immediately and unconditionally; session start triggers hydration. Both
// advance the epoch so any in-flight response from the previous identity
// is discarded on arrival.
func (s *Service) OnSessionChange(user *types.User) {
	s.mu.Lock()
	s.epoch++
	if user == nil {
		s.items = nil
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	go func() {
		if err := s.Hydrate(context.Background()); err != nil {
			s.logger.Warn(context.Background(), "wishlist hydration failed")
		}
	}()
}

// Hydrate fetches the full wishlist once. The result is applied only when
// the session has not changed since the fetch started.
func (s *Service) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	started := s.epoch
	s.mu.Unlock()

	var fetched []types.Product
	err := s.client.Do(ctx, apiclient.Call{
		Operation: "wishlist_fetch",
		Method:    http.MethodGet,
		Path:      "/api/users/wishlist",
		Out:       &fetched,
		Auth:      true,
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != started {
		return nil
	}
	s.items = fetched
	return nil
}

type mutationInput struct {
	ProductID string `json:"productId"`
}

type mutationResponse struct {
	Wishlist []types.Product `json:"wishlist"`
}

// Add saves the product to the wishlist.
func (s *Service) Add(ctx context.Context, product types.Product) types.Result {
	return s.mutate(ctx, "wishlist_add", http.MethodPost, product.ID)
}

// Remove drops the product from the wishlist.
func (s *Service) Remove(ctx context.Context, productID string) types.Result {
	return s.mutate(ctx, "wishlist_remove", http.MethodDelete, productID)
}

// mutate round-trips one add/remove and adopts the server's returned list.
// A failed call leaves the local list untouched.
func (s *Service) mutate(ctx context.Context, operation, method, productID string) types.Result {
	s.mu.Lock()
	started := s.epoch
	s.mu.Unlock()

	var resp mutationResponse
	err := s.client.Do(ctx, apiclient.Call{
		Operation: operation,
		Method:    method,
		Path:      "/api/users/wishlist",
		Body:      mutationInput{ProductID: productID},
		Out:       &resp,
		Auth:      true,
	})
	if err != nil {
		return types.ResultFromError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != started {
		// session flipped while the request was in flight; the response
		// belongs to the previous identity
		return types.OK()
	}
	s.items = resp.Wishlist
	return types.OK()
}

// Clear empties the wishlist on the server and locally.
func (s *Service) Clear(ctx context.Context) types.Result {
	s.mu.Lock()
	started := s.epoch
	s.mu.Unlock()

	err := s.client.Do(ctx, apiclient.Call{
		Operation: "wishlist_clear",
		Method:    http.MethodDelete,
		Path:      "/api/users/wishlist/clear",
		Auth:      true,
	})
	if err != nil {
		return types.ResultFromError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch == started {
		s.items = nil
	}
	return types.OK()
}

// Contains reports whether the product id is saved.
func (s *Service) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.items {
		if p.ID == productID {
			return true
		}
	}
	return false
}

// Items returns a copy of the saved products.
func (s *Service) Items() []types.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Product, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of saved products.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
