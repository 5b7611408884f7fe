package notify

import "sync"

// Level classifies a notice for the presentation layer.
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Notice is a typed user-facing message. The core never blocks on user
// prompts; it publishes notices and the presentation layer drains them.
type Notice struct {
	Level   Level
	Message string
}

// Notifier receives fire-and-forget notices from state containers.
type Notifier interface {
	Notify(Notice)
}

// Hub buffers notices for a consumer that polls between events. Dropping
// is preferred over blocking when the consumer falls behind.
type Hub struct {
	mu      sync.Mutex
	pending []Notice
	limit   int
}

// NewHub builds a hub retaining at most limit undrained notices.
func NewHub(limit int) *Hub {
	if limit <= 0 {
		limit = 64
	}
	return &Hub{limit: limit}
}

// Notify appends the notice, evicting the oldest entry when full.
func (h *Hub) Notify(n Notice) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.pending) >= h.limit {
		h.pending = h.pending[1:]
	}
	h.pending = append(h.pending, n)
}

// Drain returns and clears all pending notices in arrival order.
func (h *Hub) Drain() []Notice {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.pending
	h.pending = nil
	return out
}
