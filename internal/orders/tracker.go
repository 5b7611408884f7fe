package orders

import (
	"context"
	"sync"

	"github.com/jabirmahmud0/techhive-client/pkg/enums"
	"github.com/jabirmahmud0/techhive-client/pkg/types"
)

// Tracker is the load-state machine behind the order tracking view. It
// moves idle → loading → loaded/failed per Load call, so each state can
// be driven and observed deterministically.
type Tracker struct {
	service *Service

	mu         sync.Mutex
	state      enums.LoadState
	order      *types.Order
	message    string
	generation uint64
}

// NewTracker builds an idle tracker over the orders service.
func NewTracker(service *Service) *Tracker {
	return &Tracker{service: service, state: enums.LoadStateIdle}
}

// Load fetches the order and settles in loaded or failed. A Load started
// later supersedes an earlier one still in flight; the stale result is
// discarded when it arrives.
func (t *Tracker) Load(ctx context.Context, orderID string) {
	t.mu.Lock()
	t.generation++
	started := t.generation
	t.state = enums.LoadStateLoading
	t.order = nil
	t.message = ""
	t.mu.Unlock()

	order, err := t.service.Get(ctx, orderID)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.generation != started {
		return
	}
	if err != nil {
		t.state = enums.LoadStateFailed
		t.message = types.ResultFromError(err).Message
		return
	}
	t.state = enums.LoadStateLoaded
	t.order = order
}

// Reset returns the tracker to idle, discarding any in-flight load.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.generation++
	t.state = enums.LoadStateIdle
	t.order = nil
	t.message = ""
}

// State returns the current load state.
func (t *Tracker) State() enums.LoadState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Order returns a copy of the loaded order, or nil outside loaded.
func (t *Tracker) Order() *types.Order {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.order == nil {
		return nil
	}
	copied := *t.order
	return &copied
}

// Message returns the failure message when the tracker is failed.
func (t *Tracker) Message() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.message
}

// Timeline derives the fulfillment stages of the loaded order; nil when
// no order is loaded.
func (t *Tracker) Timeline() []Stage {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.order == nil {
		return nil
	}
	return Timeline(*t.order)
}
