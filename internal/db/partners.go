package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// UpsertPartner inserts or refreshes a partner candidate keyed by name.
func (db *DB) UpsertPartner(ctx context.Context, p *Partner) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO partners (id, name, industry, location, country, match_rate, description, products)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (name) DO UPDATE SET
			industry = $3, location = $4, country = $5, match_rate = $6,
			description = $7, products = $8
		 RETURNING id`,
		p.ID, p.Name, p.Industry, p.Location, p.Country, p.MatchRate, p.Description, p.Products,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert partner %s: %w", p.Name, err)
	}
	return nil
}

// ListPartners returns every partner candidate, best match first.
func (db *DB) ListPartners(ctx context.Context) ([]Partner, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, industry, location, country, match_rate, description, products
		 FROM partners ORDER BY match_rate DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	defer rows.Close()

	partners := []Partner{}
	for rows.Next() {
		var p Partner
		if err := rows.Scan(&p.ID, &p.Name, &p.Industry, &p.Location, &p.Country,
			&p.MatchRate, &p.Description, &p.Products); err != nil {
			return nil, fmt.Errorf("failed to scan partner: %w", err)
		}
		partners = append(partners, p)
	}
	return partners, rows.Err()
}
