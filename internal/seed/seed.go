// Package seed loads the embedded demo fixtures and writes them into a
// store.
package seed

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/trade-connect/internal/config"
	"github.com/jonathan/trade-connect/internal/db"
	"github.com/jonathan/trade-connect/internal/schemas"
	"github.com/jonathan/trade-connect/internal/textutil"
	"github.com/jonathan/trade-connect/internal/types"
)

//go:embed fixtures/*.yaml
var fixtureFiles embed.FS

const uploadedLayout = "2006-01-02"

// User is a demo account.
type User struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
	Company  string `yaml:"company"`
	PICName  string `yaml:"pic_name"`
	Phone    string `yaml:"phone"`
	Province string `yaml:"province"`
}

// Product is a catalog entry owned by the account with email Owner.
type Product struct {
	Owner       string  `yaml:"owner"`
	Name        string  `yaml:"name"`
	Category    string  `yaml:"category"`
	Price       float64 `yaml:"price"`
	Quantity    float64 `yaml:"quantity"`
	Description string  `yaml:"description"`
}

// Document is uploaded file metadata owned by the account with email Owner.
type Document struct {
	Owner     string `yaml:"owner"`
	Name      string `yaml:"name"`
	Category  string `yaml:"category"`
	Type      string `yaml:"type"`
	SizeBytes int64  `yaml:"size_bytes"`
	Uploaded  string `yaml:"uploaded"`
}

// Partner is a recommendation candidate.
type Partner struct {
	Name        string   `yaml:"name"`
	Industry    string   `yaml:"industry"`
	Location    string   `yaml:"location"`
	Country     string   `yaml:"country"`
	MatchRate   float64  `yaml:"match_rate"`
	Description string   `yaml:"description"`
	Products    []string `yaml:"products"`
}

// Fixtures is the complete demo data set.
type Fixtures struct {
	Users     []User
	Products  []Product
	Documents []Document
	Partners  []Partner
	FAQ       []types.FAQ
	Overview  types.Overview
}

// Load decodes and validates every embedded fixture file.
func Load() (*Fixtures, error) {
	var (
		f         Fixtures
		users     struct{ Users []User }
		products  struct{ Products []Product }
		documents struct{ Documents []Document }
		partners  struct{ Partners []Partner }
		faq       struct{ FAQ []types.FAQ }
	)

	steps := []struct {
		name string
		into any
	}{
		{"users", &users},
		{"products", &products},
		{"documents", &documents},
		{"partners", &partners},
		{"faq", &faq},
		{"overview", &f.Overview},
	}
	for _, s := range steps {
		if err := decode(s.name, s.into); err != nil {
			return nil, err
		}
	}

	f.Users = users.Users
	f.Products = products.Products
	f.Documents = documents.Documents
	f.Partners = partners.Partners
	f.FAQ = faq.FAQ
	return &f, nil
}

// decode reads fixtures/<name>.yaml, validates it against the schema of
// the same name and unmarshals it into out.
func decode(name string, out any) error {
	data, err := fixtureFiles.ReadFile("fixtures/" + name + ".yaml")
	if err != nil {
		return fmt.Errorf("fixture %s: %w", name, err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("fixture %s: failed to parse YAML: %w", name, err)
	}
	if err := schemas.Validate(name, doc); err != nil {
		return fmt.Errorf("fixture %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("fixture %s: failed to decode: %w", name, err)
	}
	return nil
}

// Store is the storage Apply writes to.
type Store interface {
	CreateUser(ctx context.Context, u *db.User) error
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CreateProduct(ctx context.Context, p *db.Product) error
	CountProducts(ctx context.Context, ownerID uuid.UUID) (int, error)
	CreateDocument(ctx context.Context, d *db.Document) error
	CountDocuments(ctx context.Context, ownerID uuid.UUID) (int, error)
	UpsertPartner(ctx context.Context, p *db.Partner) error
}

// Summary counts the records Apply created or updated.
type Summary struct {
	Users     int
	Products  int
	Documents int
	Partners  int
}

// Apply writes the fixtures into store. Existing accounts are kept, and
// products and documents are only added for owners that have none, so
// Apply can run against a database more than once.
func (f *Fixtures) Apply(ctx context.Context, store Store, passwords *config.PasswordConfig, logger *zap.Logger) (*Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var sum Summary

	owners := make(map[string]uuid.UUID, len(f.Users))
	for _, u := range f.Users {
		id, created, err := ensureUser(ctx, store, passwords, u)
		if err != nil {
			return nil, err
		}
		owners[strings.ToLower(u.Email)] = id
		if created {
			sum.Users++
		}
	}

	owner := func(email string) (uuid.UUID, error) {
		id, ok := owners[strings.ToLower(email)]
		if !ok {
			return uuid.Nil, fmt.Errorf("fixture owner %q is not a seeded user", email)
		}
		return id, nil
	}

	stocked := make(map[uuid.UUID]bool)
	for _, p := range f.Products {
		id, err := owner(p.Owner)
		if err != nil {
			return nil, err
		}
		if skip, err := hasRecords(ctx, stocked, id, store.CountProducts); err != nil {
			return nil, err
		} else if skip {
			continue
		}
		if err := store.CreateProduct(ctx, &db.Product{
			OwnerID:     id,
			Name:        p.Name,
			Category:    p.Category,
			Price:       p.Price,
			Quantity:    p.Quantity,
			Description: p.Description,
		}); err != nil {
			return nil, fmt.Errorf("failed to seed product %q: %w", p.Name, err)
		}
		sum.Products++
	}

	filed := make(map[uuid.UUID]bool)
	for _, d := range f.Documents {
		id, err := owner(d.Owner)
		if err != nil {
			return nil, err
		}
		if skip, err := hasRecords(ctx, filed, id, store.CountDocuments); err != nil {
			return nil, err
		} else if skip {
			continue
		}
		uploaded, err := time.Parse(uploadedLayout, d.Uploaded)
		if err != nil {
			return nil, fmt.Errorf("document %q: invalid upload date: %w", d.Name, err)
		}
		fileType := d.Type
		if fileType == "" {
			fileType = textutil.FileType(d.Name)
		}
		if err := store.CreateDocument(ctx, &db.Document{
			OwnerID:    id,
			Name:       d.Name,
			Category:   d.Category,
			SizeBytes:  d.SizeBytes,
			Type:       fileType,
			UploadedAt: uploaded,
		}); err != nil {
			return nil, fmt.Errorf("failed to seed document %q: %w", d.Name, err)
		}
		sum.Documents++
	}

	for _, p := range f.Partners {
		if err := store.UpsertPartner(ctx, &db.Partner{
			Name:        p.Name,
			Industry:    p.Industry,
			Location:    p.Location,
			Country:     p.Country,
			MatchRate:   p.MatchRate,
			Description: p.Description,
			Products:    db.StringArray(p.Products),
		}); err != nil {
			return nil, fmt.Errorf("failed to seed partner %q: %w", p.Name, err)
		}
		sum.Partners++
	}

	logger.Info("fixtures applied",
		zap.Int("users", sum.Users),
		zap.Int("products", sum.Products),
		zap.Int("documents", sum.Documents),
		zap.Int("partners", sum.Partners))
	return &sum, nil
}

func ensureUser(ctx context.Context, store Store, passwords *config.PasswordConfig, u User) (uuid.UUID, bool, error) {
	existing, err := store.GetUserByEmail(ctx, u.Email)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to look up %s: %w", u.Email, err)
	}
	if existing != nil {
		return existing.ID, false, nil
	}

	hash, err := passwords.HashPassword(u.Password)
	if err != nil {
		return uuid.Nil, false, err
	}
	user := &db.User{
		Role:         db.Role(u.Role),
		Email:        u.Email,
		PasswordHash: hash,
		Company:      u.Company,
		PICName:      u.PICName,
		Phone:        u.Phone,
		Province:     u.Province,
	}
	if err := store.CreateUser(ctx, user); err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to seed user %s: %w", u.Email, err)
	}
	return user.ID, true, nil
}

// hasRecords reports whether owner already had records before this run.
// The answer is memoised so that records added by the run itself do not
// count.
func hasRecords(ctx context.Context, seen map[uuid.UUID]bool, owner uuid.UUID, count func(context.Context, uuid.UUID) (int, error)) (bool, error) {
	if had, ok := seen[owner]; ok {
		return had, nil
	}
	n, err := count(ctx, owner)
	if err != nil {
		return false, fmt.Errorf("failed to count records of %s: %w", owner, err)
	}
	seen[owner] = n > 0
	return n > 0, nil
}
