package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/trade-connect/internal/config"
	"github.com/jonathan/trade-connect/internal/db"
	"github.com/jonathan/trade-connect/internal/match"
)

var testPasswords = &config.PasswordConfig{BcryptCost: 10}

func TestLoad(t *testing.T) {
	f, err := Load()
	require.NoError(t, err)

	assert.Len(t, f.Users, 2)
	assert.Len(t, f.Products, 3)
	assert.Len(t, f.Documents, 6)
	assert.Len(t, f.Partners, 4)
	assert.Len(t, f.FAQ, 4)
	assert.Len(t, f.Overview.Tiles, 4)
	assert.Len(t, f.Overview.Series["inquiries"], 6)

	assert.Equal(t, "supplier@example.com", f.Users[0].Email)
	assert.Equal(t, "Budi Santoso", f.Users[0].PICName)
	assert.Equal(t, "How do I add a new product?", f.FAQ[0].Question)
	assert.Equal(t, "-3%", f.Overview.Tiles[2].Change)
	assert.Equal(t, []string{"Fish", "Shrimp", "Crab"}, f.Partners[0].Products)
}

func TestDecode_RejectsInvalidFixture(t *testing.T) {
	var out struct{ Users []User }
	err := decode("missing", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fixture missing")
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	f, err := Load()
	require.NoError(t, err)

	store := db.NewMemory()
	sum, err := f.Apply(ctx, store, testPasswords, nil)
	require.NoError(t, err)
	assert.Equal(t, &Summary{Users: 2, Products: 3, Documents: 6, Partners: 4}, sum)

	supplier, err := store.GetUserByEmail(ctx, "supplier@example.com")
	require.NoError(t, err)
	require.NotNil(t, supplier)
	assert.Equal(t, db.RoleSupplier, supplier.Role)
	assert.True(t, testPasswords.VerifyPassword("password123", supplier.PasswordHash))

	docs, err := store.ListDocuments(ctx, db.DocumentFilters{OwnerID: supplier.ID})
	require.NoError(t, err)
	require.Len(t, docs, 6)
	assert.Equal(t, "Business Registration Certificate.pdf", docs[0].Name, "newest upload first")
	assert.Equal(t, "PDF", docs[0].Type)
	assert.Equal(t, "2024-04-15", docs[0].UploadedAt.Format("2006-01-02"))

	partners, err := store.ListPartners(ctx)
	require.NoError(t, err)
	require.Len(t, partners, 4)
	assert.Equal(t, "PT Global Seafood", partners[0].Name)
}

func TestApply_Idempotent(t *testing.T) {
	ctx := context.Background()
	f, err := Load()
	require.NoError(t, err)

	store := db.NewMemory()
	_, err = f.Apply(ctx, store, testPasswords, nil)
	require.NoError(t, err)

	sum, err := f.Apply(ctx, store, testPasswords, nil)
	require.NoError(t, err)
	assert.Equal(t, &Summary{Partners: 4}, sum)

	supplier, err := store.GetUserByEmail(ctx, "supplier@example.com")
	require.NoError(t, err)
	n, err := store.CountProducts(ctx, supplier.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	partners, err := store.ListPartners(ctx)
	require.NoError(t, err)
	assert.Len(t, partners, 4)
}

func TestApply_UnknownOwner(t *testing.T) {
	f := &Fixtures{Products: []Product{{Owner: "ghost@example.com", Name: "Kopi", Category: "food", Price: 1}}}

	_, err := f.Apply(context.Background(), db.NewMemory(), testPasswords, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost@example.com")
}

type failingStore struct {
	*db.Memory
}

func (failingStore) CountDocuments(context.Context, uuid.UUID) (int, error) {
	return 0, errors.New("connection reset")
}

func TestApply_PropagatesStoreErrors(t *testing.T) {
	f, err := Load()
	require.NoError(t, err)

	_, err = f.Apply(context.Background(), failingStore{db.NewMemory()}, testPasswords, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

// The seeded partners reproduce the recommendation filter examples.
func TestPartnersWithMatchSchema(t *testing.T) {
	f, err := Load()
	require.NoError(t, err)

	schema := match.NewSchema(
		match.ExactText("industry", func(p Partner) string { return p.Industry }),
		match.FoldText("location", func(p Partner) string { return p.Location }),
		match.MinNumber("matchRate", func(p Partner) float64 { return p.MatchRate }),
	)

	criteria, err := schema.ParseCriteria(map[string]string{"matchRate": "80"})
	require.NoError(t, err)
	var rates []float64
	for _, p := range schema.Apply(f.Partners, criteria) {
		rates = append(rates, p.MatchRate)
	}
	assert.Equal(t, []float64{95, 87, 82}, rates)

	criteria, err = schema.ParseCriteria(map[string]string{"location": "jakarta"})
	require.NoError(t, err)
	got := schema.Apply(f.Partners, criteria)
	require.Len(t, got, 1)
	assert.Equal(t, "PT Global Seafood", got[0].Name)
}
