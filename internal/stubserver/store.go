package stubserver

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/jabirmahmud0/techhive-client/pkg/errors"
	"github.com/jabirmahmud0/techhive-client/pkg/types"
)

// userRecord is a stored account; the password hash never leaves the
// store.
type userRecord struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	IsAdmin      bool
	GoogleUID    string
}

// Store is the in-memory database behind the stub backend. Everything is
// lost on restart, which is the point: it exists for development and
// tests, not durability.
type Store struct {
	mu        sync.Mutex
	users     map[string]*userRecord
	products  map[string]*types.Product
	orders    map[string]*types.Order
	wishlists map[string][]string

	productOrder []string
	orderOrder   []string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:     map[string]*userRecord{},
		products:  map[string]*types.Product{},
		orders:    map[string]*types.Order{},
		wishlists: map[string][]string{},
	}
}

func (s *Store) createUser(record userRecord) (*userRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, record.Email) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "User already exists")
		}
	}
	record.ID = uuid.NewString()
	s.users[record.ID] = &record
	copied := record
	return &copied, nil
}

func (s *Store) userByEmail(email string) (*userRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.users {
		if strings.EqualFold(record.Email, email) {
			copied := *record
			return &copied, true
		}
	}
	return nil, false
}

func (s *Store) userByID(id string) (*userRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.users[id]
	if !ok {
		return nil, false
	}
	copied := *record
	return &copied, true
}

func (s *Store) userCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func (s *Store) addProduct(product types.Product) types.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	s.products[product.ID] = &product
	s.productOrder = append(s.productOrder, product.ID)
	return product
}

func (s *Store) listProducts(keyword, category string) []types.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Product, 0, len(s.productOrder))
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	for _, id := range s.productOrder {
		product, ok := s.products[id]
		if !ok {
			continue
		}
		if category != "" && !strings.EqualFold(product.Category, category) {
			continue
		}
		if keyword != "" {
			haystack := strings.ToLower(product.Name + " " + product.Description + " " + product.Brand)
			if !strings.Contains(haystack, keyword) {
				continue
			}
		}
		out = append(out, *product)
	}
	return out
}

func (s *Store) getProduct(id string) (*types.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[id]
	if !ok {
		return nil, false
	}
	copied := *product
	return &copied, true
}

func (s *Store) updateProduct(id string, input types.ProductInput) (*types.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[id]
	if !ok {
		return nil, false
	}
	product.Name = input.Name
	product.Price = input.Price
	product.Description = input.Description
	product.Image = input.Image
	product.Brand = input.Brand
	product.Category = input.Category
	product.CountInStock = input.CountInStock
	copied := *product
	return &copied, true
}

func (s *Store) deleteProduct(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return false
	}
	delete(s.products, id)
	for i, existing := range s.productOrder {
		if existing == id {
			s.productOrder = append(s.productOrder[:i], s.productOrder[i+1:]...)
			break
		}
	}
	return true
}

func (s *Store) addReview(productID string, review types.Review) (*types.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[productID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}

	review.ID = uuid.NewString()
	review.CreatedAt = time.Now().UTC()
	product.Reviews = append(product.Reviews, review)
	product.NumReviews = len(product.Reviews)

	var sum int
	for _, r := range product.Reviews {
		sum += r.Rating
	}
	product.Rating = float64(sum) / float64(len(product.Reviews))

	copied := *product
	return &copied, nil
}

func (s *Store) productCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}

func (s *Store) wishlist(userID string) []types.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wishlistLocked(userID)
}

func (s *Store) wishlistLocked(userID string) []types.Product {
	ids := s.wishlists[userID]
	out := make([]types.Product, 0, len(ids))
	for _, id := range ids {
		if product, ok := s.products[id]; ok {
			out = append(out, *product)
		}
	}
	return out
}

func (s *Store) addToWishlist(userID, productID string) ([]types.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[productID]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}
	for _, existing := range s.wishlists[userID] {
		if existing == productID {
			return s.wishlistLocked(userID), nil
		}
	}
	s.wishlists[userID] = append(s.wishlists[userID], productID)
	return s.wishlistLocked(userID), nil
}

func (s *Store) removeFromWishlist(userID, productID string) []types.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.wishlists[userID]
	kept := ids[:0]
	for _, id := range ids {
		if id != productID {
			kept = append(kept, id)
		}
	}
	s.wishlists[userID] = kept
	return s.wishlistLocked(userID)
}

func (s *Store) clearWishlist(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.wishlists, userID)
}

func (s *Store) createOrder(order types.Order) types.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	order.ID = uuid.NewString()
	order.CreatedAt = time.Now().UTC()
	s.orders[order.ID] = &order
	s.orderOrder = append(s.orderOrder, order.ID)
	return order
}

func (s *Store) getOrder(id string) (*types.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, false
	}
	copied := *order
	return &copied, true
}

func (s *Store) listOrders() []types.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Order, 0, len(s.orderOrder))
	for _, id := range s.orderOrder {
		if order, ok := s.orders[id]; ok {
			out = append(out, *order)
		}
	}
	return out
}

func (s *Store) ordersForUser(userID string) []types.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Order, 0)
	for _, id := range s.orderOrder {
		if order, ok := s.orders[id]; ok && order.User == userID {
			out = append(out, *order)
		}
	}
	return out
}

func (s *Store) markDelivered(id string) (*types.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, false
	}
	now := time.Now().UTC()
	order.IsDelivered = true
	order.DeliveredAt = &now
	copied := *order
	return &copied, true
}

// stats aggregates the dashboard numbers. Recent revenue covers the last
// 30 days.
func (s *Store) stats() (revenue, recentRevenue float64, orderCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().UTC().AddDate(0, 0, -30)
	for _, order := range s.orders {
		revenue += order.TotalPrice
		if order.CreatedAt.After(cutoff) {
			recentRevenue += order.TotalPrice
		}
	}
	return revenue, recentRevenue, len(s.orders)
}

// categories returns the distinct product categories, sorted.
func (s *Store) categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]struct{}{}
	for _, product := range s.products {
		if product.Category != "" {
			seen[product.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for category := range seen {
		out = append(out, category)
	}
	sort.Strings(out)
	return out
}
