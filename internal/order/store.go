// Package order tracks the current user's orders and the order being
// viewed. Fetches replace local state wholesale; the backend owns every
// status transition.
package order

import (
	"context"
	"strings"
	"sync"

	"herbal-store-client/internal/api"
	"herbal-store-client/internal/logger"

	"go.uber.org/zap"
)

type Store struct {
	api *api.Client

	mu      sync.RWMutex
	orders  []Order
	current *Order
}

func NewStore(client *api.Client) *Store {
	return &Store{api: client}
}

// Create submits an order. On failure the caller's cart must stay intact,
// so nothing here touches other stores.
func (s *Store) Create(ctx context.Context, input CreateInput) (*Order, error) {
	var created Order
	if err := s.api.Post(ctx, "/orders", input, &created); err != nil {
		return nil, err
	}

	logger.L().Info("order placed",
		zap.String("order_id", created.ID),
		zap.String("payment_method", string(created.PaymentMethod)),
	)

	s.mu.Lock()
	s.current = &created
	s.mu.Unlock()

	result := created
	return &result, nil
}

// ListMine fetches the user's orders and replaces the local list wholesale.
func (s *Store) ListMine(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := s.api.Get(ctx, "/orders/mine", &orders); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.orders = orders
	s.mu.Unlock()
	return append([]Order(nil), orders...), nil
}

// GetByID fetches one order into the current-order slot.
func (s *Store) GetByID(ctx context.Context, id string) (*Order, error) {
	if id == "" {
		return nil, ErrOrderIDRequired
	}

	var ord Order
	if err := s.api.Get(ctx, "/orders/"+id, &ord); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = &ord
	s.mu.Unlock()

	result := ord
	return &result, nil
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// Cancel requests cancellation and re-fetches the order so local state
// reflects whatever the backend decided. The client never predicts the
// outcome.
func (s *Store) Cancel(ctx context.Context, id, reason string) error {
	if id == "" {
		return ErrOrderIDRequired
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonRequired
	}

	// Refuse locally only when the cached copy guarantees rejection; the
	// backend still decides for anything not yet fetched.
	if current := s.Current(); current != nil && current.ID == id && !CanCancel(current.Status) {
		return ErrNotCancellable
	}

	if err := s.api.Patch(ctx, "/orders/"+id+"/cancel", cancelRequest{Reason: reason}, nil); err != nil {
		return err
	}

	logger.L().Info("order cancelled", zap.String("order_id", id), zap.String("reason", reason))

	if _, err := s.GetByID(ctx, id); err != nil {
		// Cancellation succeeded; the stale local copy is refreshed on
		// the next view.
		logger.L().Warn("failed refreshing cancelled order", zap.Error(err))
	}
	return nil
}

// Orders returns a copy of the last fetched list.
func (s *Store) Orders() []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Order(nil), s.orders...)
}

// Current returns a copy of the currently viewed order, or nil.
func (s *Store) Current() *Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	ord := *s.current
	return &ord
}
