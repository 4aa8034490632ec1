package product

import (
	"time"

	"github.com/gofrs/uuid"
)

type Product struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Description   string    `json:"description" db:"description"`
	Price         float64   `json:"price" db:"price"`
	OriginalPrice *float64  `json:"original_price,omitempty" db:"original_price"`
	Category      string    `json:"category" db:"category"`
	Image         string    `json:"image" db:"image"`
	Stock         int       `json:"stock" db:"stock"`
	Unit          string    `json:"unit" db:"unit"`
	Discount      float64   `json:"discount" db:"discount"`
	Rating        float64   `json:"rating" db:"rating"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// ListFilter narrows a catalog listing. Zero values mean no filtering.
type ListFilter struct {
	Category string
	Search   string
}
