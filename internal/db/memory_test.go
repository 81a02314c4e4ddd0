package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemory() *Memory {
	m := NewMemory()
	base := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	tick := 0
	m.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return m
}

func TestMemory_Users(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory()

	u := &User{Role: RoleSupplier, Email: "  Supplier@Example.com ", Company: "PT Maju"}
	require.NoError(t, m.CreateUser(ctx, u))
	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.Equal(t, "supplier@example.com", u.Email)
	assert.False(t, u.CreatedAt.IsZero())

	err := m.CreateUser(ctx, &User{Role: RoleBuyer, Email: "SUPPLIER@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := m.GetUserByEmail(ctx, "supplier@EXAMPLE.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	got, err = m.GetUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = m.GetUserByEmail(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, m.CreateUser(ctx, &User{Role: RoleBuyer, Email: "buyer@example.com"}))
	n, err := m.CountUsers(ctx, RoleBuyer)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemory_Products(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory()
	owner := uuid.New()
	other := uuid.New()

	coffee := &Product{OwnerID: owner, Name: "Coffee", Category: "food", Price: 120000, Quantity: 10}
	chair := &Product{OwnerID: owner, Name: "Chair", Category: "furniture", Price: 450000, Quantity: 2}
	tea := &Product{OwnerID: other, Name: "Tea", Category: "food", Price: 50000}
	for _, p := range []*Product{coffee, chair, tea} {
		require.NoError(t, m.CreateProduct(ctx, p))
	}

	list, err := m.ListProducts(ctx, ProductFilters{OwnerID: owner})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Chair", list[0].Name, "newest first")

	list, err = m.ListProducts(ctx, ProductFilters{Category: "food"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = m.ListProducts(ctx, ProductFilters{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	coffee.Price = 130000
	coffee.OwnerID = other
	require.NoError(t, m.UpdateProduct(ctx, coffee))
	got, err := m.GetProduct(ctx, coffee.ID)
	require.NoError(t, err)
	assert.Equal(t, 130000.0, got.Price)
	assert.Equal(t, owner, got.OwnerID, "owner is not editable")

	n, err := m.CountProducts(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = m.CountProducts(ctx, uuid.Nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 2, "nil owner counts the whole catalog")

	require.NoError(t, m.DeleteProduct(ctx, chair.ID))
	assert.ErrorIs(t, m.DeleteProduct(ctx, chair.ID), ErrNotFound)
	assert.ErrorIs(t, m.UpdateProduct(ctx, &Product{ID: uuid.New()}), ErrNotFound)

	got, err = m.GetProduct(ctx, chair.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemory_Documents(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory()
	owner := uuid.New()

	old := &Document{OwnerID: owner, Name: "Export License.pdf", Category: "certificates",
		UploadedAt: time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)}
	recent := &Document{OwnerID: owner, Name: "Invoice.xlsx", Category: "invoices"}
	require.NoError(t, m.CreateDocument(ctx, old))
	require.NoError(t, m.CreateDocument(ctx, recent))
	require.NoError(t, m.CreateDocument(ctx, &Document{OwnerID: uuid.New(), Name: "Other.pdf"}))

	docs, err := m.ListDocuments(ctx, DocumentFilters{OwnerID: owner})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Invoice.xlsx", docs[0].Name)
	assert.Equal(t, old.UploadedAt, docs[1].UploadedAt, "explicit upload time is kept")

	n, err := m.CountDocuments(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := m.GetDocument(ctx, old.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NoError(t, m.DeleteDocument(ctx, old.ID))
	assert.ErrorIs(t, m.DeleteDocument(ctx, old.ID), ErrNotFound)
}

func TestMemory_Partners(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory()

	for _, p := range []Partner{
		{Name: "Tech Solutions Inc.", Industry: "Technology", MatchRate: 82},
		{Name: "PT Global Seafood", Industry: "Seafood", MatchRate: 95},
		{Name: "Organic Farm Co.", Industry: "Agriculture", MatchRate: 87},
	} {
		p := p
		require.NoError(t, m.UpsertPartner(ctx, &p))
	}

	update := &Partner{Name: "Organic Farm Co.", Industry: "Agriculture", MatchRate: 90}
	require.NoError(t, m.UpsertPartner(ctx, update))

	list, err := m.ListPartners(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "PT Global Seafood", list[0].Name)
	assert.Equal(t, "Organic Farm Co.", list[1].Name)
	assert.Equal(t, 90.0, list[1].MatchRate)
	assert.Equal(t, update.ID, list[1].ID)
}

func TestStringArray(t *testing.T) {
	var a StringArray
	require.NoError(t, a.Scan([]byte(`["coffee","tea"]`)))
	assert.Equal(t, StringArray{"coffee", "tea"}, a)

	require.NoError(t, a.Scan(nil))
	assert.Empty(t, a)

	assert.Error(t, a.Scan(42))

	v, err := StringArray(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleSupplier.Valid())
	assert.True(t, RoleBuyer.Valid())
	assert.False(t, Role("admin").Valid())
}
