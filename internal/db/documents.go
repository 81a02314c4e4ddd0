package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const documentColumns = `id, owner_id, name, category, size_bytes, file_type, uploaded_at`

func scanDocument(row interface{ Scan(...any) error }, d *Document) error {
	return row.Scan(&d.ID, &d.OwnerID, &d.Name, &d.Category, &d.SizeBytes, &d.Type, &d.UploadedAt)
}

// CreateDocument records uploaded file metadata. A zero UploadedAt is set
// to the current time.
func (db *DB) CreateDocument(ctx context.Context, d *Document) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	var uploadedAt *time.Time
	if !d.UploadedAt.IsZero() {
		uploadedAt = &d.UploadedAt
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO documents (id, owner_id, name, category, size_bytes, file_type, uploaded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7::timestamptz, NOW()))
		 RETURNING uploaded_at`,
		d.ID, d.OwnerID, d.Name, d.Category, d.SizeBytes, d.Type, uploadedAt,
	).Scan(&d.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (db *DB) GetDocument(ctx context.Context, id uuid.UUID) (*Document, error) {
	var d Document
	err := scanDocument(db.pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1`, id), &d)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &d, nil
}

// DeleteDocument deletes a document by ID.
func (db *DB) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListDocuments retrieves documents, most recent upload first.
func (db *DB) ListDocuments(ctx context.Context, filters DocumentFilters) ([]Document, error) {
	if filters.Limit == 0 {
		filters.Limit = defaultListLimit
	}

	query := `SELECT ` + documentColumns + ` FROM documents WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.OwnerID != uuid.Nil {
		query += fmt.Sprintf(" AND owner_id = $%d", argNum)
		args = append(args, filters.OwnerID)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY uploaded_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var d Document
		if err := scanDocument(rows, &d); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// CountDocuments counts the documents of an owner.
func (db *DB) CountDocuments(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var n int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM documents WHERE owner_id = $1`, ownerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return n, nil
}
