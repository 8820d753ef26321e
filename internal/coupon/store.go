// Package coupon keeps the single applied coupon for the session plus the
// admin-facing coupon list. Applying a new coupon replaces the old one;
// coupons never stack.
package coupon

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"herbal-store-client/internal/api"
	"herbal-store-client/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Store struct {
	api *api.Client

	mu      sync.Mutex
	applied *Coupon
	coupons []Coupon

	// seq orders concurrent Validate calls so a stale slow response cannot
	// overwrite a newer fast one.
	seq atomic.Uint64
}

func NewStore(client *api.Client) *Store {
	return &Store{api: client}
}

type validateRequest struct {
	Code        string          `json:"code"`
	OrderAmount decimal.Decimal `json:"orderAmount"`
}

// Validate asks the backend whether code applies to orderAmount and, on
// success, stores the returned coupon as the applied one. On failure the
// prior state is left untouched and the error carries the server message.
func (s *Store) Validate(ctx context.Context, code string, orderAmount decimal.Decimal) (*Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrEmptyCode
	}

	seq := s.seq.Add(1)

	var c Coupon
	err := s.api.Post(ctx, "/coupons/validate", validateRequest{Code: code, OrderAmount: orderAmount}, &c)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq.Load() {
		logger.L().Debug("discarding stale coupon validation", zap.String("code", code))
		return nil, ErrStaleResponse
	}

	s.applied = &c
	applied := c
	return &applied, nil
}

// Applied returns a copy of the applied coupon, or nil.
func (s *Store) Applied() *Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applied == nil {
		return nil
	}
	c := *s.applied
	return &c
}

// Remove clears the applied coupon locally. No network call: validity is
// only re-checked through the discount amount submitted with the order.
func (s *Store) Remove() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = nil
}

// ----------------- Admin CRUD -----------------

// ListAll fetches every coupon and replaces the local list wholesale.
func (s *Store) ListAll(ctx context.Context) ([]Coupon, error) {
	var coupons []Coupon
	if err := s.api.Get(ctx, "/coupons", &coupons); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.coupons = coupons
	s.mu.Unlock()
	return append([]Coupon(nil), coupons...), nil
}

func (s *Store) Create(ctx context.Context, input Coupon) (*Coupon, error) {
	input.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	if input.Code == "" {
		return nil, ErrEmptyCode
	}

	var created Coupon
	if err := s.api.Post(ctx, "/coupons", input, &created); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.coupons = append([]Coupon{created}, s.coupons...)
	s.mu.Unlock()
	return &created, nil
}

func (s *Store) Update(ctx context.Context, id string, input Coupon) (*Coupon, error) {
	var updated Coupon
	if err := s.api.Put(ctx, "/coupons/"+id, input, &updated); err != nil {
		return nil, err
	}

	s.mu.Lock()
	for i := range s.coupons {
		if s.coupons[i].ID == id {
			s.coupons[i] = updated
		}
	}
	s.mu.Unlock()
	return &updated, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/coupons/"+id, nil); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.coupons[:0]
	for _, c := range s.coupons {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.coupons = kept
	s.mu.Unlock()
	return nil
}

func (s *Store) Coupons() []Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Coupon(nil), s.coupons...)
}
