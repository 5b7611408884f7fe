package comparison

import (
	"sync"

	"github.com/jabirmahmud0/techhive-client/pkg/types"
)

// MaxEntries caps the side-by-side comparison view.
const MaxEntries = 4

// Set is the client-only bounded selection of products to compare. It is
// never persisted remotely.
type Set struct {
	mu       sync.Mutex
	products []types.Product
}

// New returns an empty comparison set.
func New() *Set {
	return &Set{}
}

// Add admits the product when it is not already present and the cap has
// room; both checks happen atomically. The return value reports whether
// the set changed.
func (s *Set) Add(product types.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.products) >= MaxEntries {
		return false
	}
	for _, existing := range s.products {
		if existing.ID == product.ID {
			return false
		}
	}
	s.products = append(s.products, product)
	return true
}

// Remove drops the product by id; absent ids are ignored.
func (s *Set) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.products[:0]
	for _, p := range s.products {
		if p.ID != productID {
			kept = append(kept, p)
		}
	}
	s.products = kept
}

// Clear empties the set.
func (s *Set) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = nil
}

// Contains reports whether the product id is selected.
func (s *Set) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == productID {
			return true
		}
	}
	return false
}

// CanAdd reports whether another product would fit under the cap.
func (s *Set) CanAdd() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products) < MaxEntries
}

// Products returns a copy of the current selection in insertion order.
func (s *Set) Products() []types.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Product, len(s.products))
	copy(out, s.products)
	return out
}
