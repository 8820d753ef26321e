// Package product caches the browsable catalog and exposes the admin CRUD
// operations, including image upload.
package product

import (
	"context"
	"errors"
	"io"
	"net/url"
	"sync"

	"herbal-store-client/internal/api"
)

var (
	ErrProductIDRequired = errors.New("product id is required")
	ErrNameRequired      = errors.New("product name is required")
)

type Store struct {
	api *api.Client

	mu       sync.RWMutex
	products []Product
	current  *Product
}

func NewStore(client *api.Client) *Store {
	return &Store{api: client}
}

// List fetches the catalog, optionally filtered, and replaces the local
// slice wholesale.
func (s *Store) List(ctx context.Context, search, category string) ([]Product, error) {
	path := "/products"
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	if category != "" {
		query.Set("category", category)
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var products []Product
	if err := s.api.Get(ctx, path, &products); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.products = products
	s.mu.Unlock()
	return append([]Product(nil), products...), nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*Product, error) {
	if id == "" {
		return nil, ErrProductIDRequired
	}

	var p Product
	if err := s.api.Get(ctx, "/products/"+id, &p); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = &p
	s.mu.Unlock()

	result := p
	return &result, nil
}

// ----------------- Admin -----------------

func (s *Store) Create(ctx context.Context, input Input) (*Product, error) {
	if input.Name == "" {
		return nil, ErrNameRequired
	}

	var created Product
	if err := s.api.Post(ctx, "/products", input, &created); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.products = append([]Product{created}, s.products...)
	s.mu.Unlock()
	return &created, nil
}

func (s *Store) Update(ctx context.Context, id string, input Input) (*Product, error) {
	if id == "" {
		return nil, ErrProductIDRequired
	}

	var updated Product
	if err := s.api.Put(ctx, "/products/"+id, input, &updated); err != nil {
		return nil, err
	}

	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i] = updated
		}
	}
	s.mu.Unlock()
	return &updated, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrProductIDRequired
	}

	if err := s.api.Delete(ctx, "/products/"+id, nil); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.products[:0]
	for _, p := range s.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.products = kept
	s.mu.Unlock()
	return nil
}

// UploadImage sends one image file and returns the hosted reference.
func (s *Store) UploadImage(ctx context.Context, filename string, file io.Reader) (*Image, error) {
	var img Image
	if err := s.api.Upload(ctx, "/upload/image", "image", filename, file, &img); err != nil {
		return nil, err
	}
	return &img, nil
}

func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Product(nil), s.products...)
}

func (s *Store) Current() *Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	p := *s.current
	return &p
}
