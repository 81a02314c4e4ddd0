package db

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Store. Records are kept in insertion order and
// copied on the way in and out.
type Memory struct {
	mu        sync.RWMutex
	users     []User
	products  []Product
	documents []Document
	partners  []Partner
	now       func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) Close() {}

func (m *Memory) CreateUser(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return fmt.Errorf("user %s: %w", u.Email, ErrDuplicate)
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = m.now()
	u.UpdatedAt = u.CreatedAt
	m.users = append(m.users, *u)
	return nil
}

func (m *Memory) GetUser(_ context.Context, id uuid.UUID) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.ID == id {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (m *Memory) CountUsers(_ context.Context, role Role) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (m *Memory) CreateProduct(_ context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = m.now()
	p.UpdatedAt = p.CreatedAt
	m.products = append(m.products, *p)
	return nil
}

func (m *Memory) GetProduct(_ context.Context, id uuid.UUID) (*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.productIndex(id); i >= 0 {
		out := m.products[i]
		return &out, nil
	}
	return nil, nil
}

func (m *Memory) UpdateProduct(_ context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.productIndex(p.ID)
	if i < 0 {
		return fmt.Errorf("product %s: %w", p.ID, ErrNotFound)
	}
	cur := &m.products[i]
	cur.Name = p.Name
	cur.Category = p.Category
	cur.Price = p.Price
	cur.Quantity = p.Quantity
	cur.Description = p.Description
	cur.UpdatedAt = m.now()
	*p = *cur
	return nil
}

func (m *Memory) DeleteProduct(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.productIndex(id)
	if i < 0 {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	m.products = append(m.products[:i], m.products[i+1:]...)
	return nil
}

// ListProducts returns matching products, newest first.
func (m *Memory) ListProducts(_ context.Context, filters ProductFilters) ([]Product, error) {
	if filters.Limit == 0 {
		filters.Limit = defaultListLimit
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []Product{}
	for i := len(m.products) - 1; i >= 0 && len(out) < filters.Limit; i-- {
		p := m.products[i]
		if filters.OwnerID != uuid.Nil && p.OwnerID != filters.OwnerID {
			continue
		}
		if filters.Category != "" && p.Category != filters.Category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *Memory) CountProducts(_ context.Context, ownerID uuid.UUID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, p := range m.products {
		if ownerID == uuid.Nil || p.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (m *Memory) productIndex(id uuid.UUID) int {
	for i, p := range m.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (m *Memory) CreateDocument(_ context.Context, d *Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.UploadedAt.IsZero() {
		d.UploadedAt = m.now()
	}
	m.documents = append(m.documents, *d)
	return nil
}

func (m *Memory) GetDocument(_ context.Context, id uuid.UUID) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, d := range m.documents {
		if d.ID == id {
			out := d
			return &out, nil
		}
	}
	return nil, nil
}

func (m *Memory) DeleteDocument(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, d := range m.documents {
		if d.ID == id {
			m.documents = append(m.documents[:i], m.documents[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("document %s: %w", id, ErrNotFound)
}

// ListDocuments returns matching documents, most recent upload first.
func (m *Memory) ListDocuments(_ context.Context, filters DocumentFilters) ([]Document, error) {
	if filters.Limit == 0 {
		filters.Limit = defaultListLimit
	}

	m.mu.RLock()
	out := []Document{}
	for _, d := range m.documents {
		if filters.OwnerID != uuid.Nil && d.OwnerID != filters.OwnerID {
			continue
		}
		out = append(out, d)
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	if len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

func (m *Memory) CountDocuments(_ context.Context, ownerID uuid.UUID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, d := range m.documents {
		if d.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (m *Memory) UpsertPartner(_ context.Context, p *Partner) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *p
	cp.Products = append(StringArray(nil), p.Products...)
	for i, existing := range m.partners {
		if existing.Name == p.Name {
			cp.ID = existing.ID
			m.partners[i] = cp
			p.ID = cp.ID
			return nil
		}
	}
	if cp.ID == uuid.Nil {
		cp.ID = uuid.New()
	}
	m.partners = append(m.partners, cp)
	p.ID = cp.ID
	return nil
}

// ListPartners returns every partner candidate, best match first.
func (m *Memory) ListPartners(_ context.Context) ([]Partner, error) {
	m.mu.RLock()
	out := make([]Partner, len(m.partners))
	copy(out, m.partners)
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MatchRate != out[j].MatchRate {
			return out[i].MatchRate > out[j].MatchRate
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
