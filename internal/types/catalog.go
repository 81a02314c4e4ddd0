package types

import (
	"time"

	"github.com/google/uuid"
)

// Product is the API view of a catalog entry.
type Product struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Price          float64   `json:"price"`
	PriceFormatted string    `json:"price_formatted"`
	Quantity       float64   `json:"quantity"`
	Description    string    `json:"description"`
	Excerpt        string    `json:"excerpt"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Document is the API view of uploaded file metadata.
type Document struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Type       string    `json:"type"`
	Size       string    `json:"size"`
	SizeBytes  int64     `json:"size_bytes"`
	IsImage    bool      `json:"is_image"`
	UploadedAt time.Time `json:"uploaded_at"`
	Date       string    `json:"date"`
	Age        string    `json:"age"`
}

// UploadDocumentRequest records the metadata of a new document.
type UploadDocumentRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	Category  string `json:"category" validate:"required,oneof=certificates contracts invoices reports"`
	SizeBytes int64  `json:"size_bytes" validate:"gte=0"`
}

// Validate checks the request fields.
func (r *UploadDocumentRequest) Validate() error {
	return validate.Struct(r)
}

// Partner is a recommendation feed entry.
type Partner struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Industry    string    `json:"industry"`
	Location    string    `json:"location"`
	Country     string    `json:"country,omitempty"`
	MatchRate   float64   `json:"match_rate"`
	Description string    `json:"description,omitempty"`
	Products    []string  `json:"products"`
	Initials    string    `json:"initials"`
}

// ListResponse wraps a list with its size.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// NewList builds a ListResponse, never encoding a null item list.
func NewList[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Total: len(items)}
}
