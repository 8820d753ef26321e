package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Image struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

type Product struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	Images      []Image         `json:"images"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// FirstImageURL is what cart lines carry as their image reference.
func (p Product) FirstImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

// Input is the admin create/update payload.
type Input struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	Images      []Image         `json:"images"`
}
