// Package db provides storage for users, products, documents and partner
// candidates, backed by PostgreSQL or by process memory.
package db

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned by updates and deletes of missing rows.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key (such as a user email) is taken.
	ErrDuplicate = errors.New("record already exists")
)

//go:embed schema.sql
var schemaSQL string

// Store is the method set shared by DB and Memory. Lookups of missing rows
// return nil, nil.
type Store interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CountUsers(ctx context.Context, role Role) (int, error)

	CreateProduct(ctx context.Context, p *Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context, filters ProductFilters) ([]Product, error)
	CountProducts(ctx context.Context, ownerID uuid.UUID) (int, error)

	CreateDocument(ctx context.Context, d *Document) error
	GetDocument(ctx context.Context, id uuid.UUID) (*Document, error)
	DeleteDocument(ctx context.Context, id uuid.UUID) error
	ListDocuments(ctx context.Context, filters DocumentFilters) ([]Document, error)
	CountDocuments(ctx context.Context, ownerID uuid.UUID) (int, error)

	UpsertPartner(ctx context.Context, p *Partner) error
	ListPartners(ctx context.Context) ([]Partner, error)

	Close()
}

var (
	_ Store = (*DB)(nil)
	_ Store = (*Memory)(nil)
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Migrate applies the embedded schema. It is idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
