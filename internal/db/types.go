package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Role distinguishes the two kinds of account.
type Role string

const (
	RoleSupplier Role = "supplier"
	RoleBuyer    Role = "buyer"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleSupplier || r == RoleBuyer
}

// User is a registered account. Email is stored lower-cased.
type User struct {
	ID           uuid.UUID `json:"id"`
	Role         Role      `json:"role"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Company      string    `json:"company"`
	PICName      string    `json:"pic_name"`
	Phone        string    `json:"phone,omitempty"`
	Province     string    `json:"province,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Product is a catalog entry listed by a supplier.
type Product struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Quantity    float64   `json:"quantity"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Document is the metadata of an uploaded file.
type Document struct {
	ID         uuid.UUID `json:"id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	SizeBytes  int64     `json:"size_bytes"`
	Type       string    `json:"type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Partner is a recommendation candidate.
type Partner struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Industry    string      `json:"industry"`
	Location    string      `json:"location"`
	Country     string      `json:"country,omitempty"`
	MatchRate   float64     `json:"match_rate"`
	Description string      `json:"description,omitempty"`
	Products    StringArray `json:"products"`
}

// ProductFilters holds optional filters for listing products.
type ProductFilters struct {
	OwnerID  uuid.UUID
	Category string
	Limit    int
}

// DocumentFilters holds optional filters for listing documents.
type DocumentFilters struct {
	OwnerID uuid.UUID
	Limit   int
}

// StringArray handles JSONB string arrays.
type StringArray []string

// Scan implements the Scanner interface for StringArray.
func (a *StringArray) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = []string{}
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return errors.New("StringArray: unsupported source type")
	}
}

// Value implements the Valuer interface for StringArray.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}

const defaultListLimit = 100
