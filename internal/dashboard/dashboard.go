// Package dashboard assembles the per-role statistics and the overview
// page.
package dashboard

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/trade-connect/internal/db"
	"github.com/jonathan/trade-connect/internal/types"
)

// Counter is the storage the dashboard reads.
type Counter interface {
	CountUsers(ctx context.Context, role db.Role) (int, error)
	CountProducts(ctx context.Context, ownerID uuid.UUID) (int, error)
	CountDocuments(ctx context.Context, ownerID uuid.UUID) (int, error)
}

type tile struct {
	key   string
	label string
	count func(ctx context.Context) (int, error)
}

// Service computes dashboards.
type Service struct {
	store    Counter
	overview types.Overview
}

// NewService creates a dashboard service. overview supplies the overview
// page and the activity figures that have no backing table.
func NewService(store Counter, overview types.Overview) *Service {
	return &Service{store: store, overview: overview}
}

// Stats returns the dashboard of a supplier or buyer. The counts are read
// concurrently.
func (s *Service) Stats(ctx context.Context, userID uuid.UUID, role db.Role) (*types.Dashboard, error) {
	tiles, err := s.tiles(userID, role)
	if err != nil {
		return nil, err
	}

	stats := make([]types.Stat, len(tiles))
	g, gCtx := errgroup.WithContext(ctx)
	for i, t := range tiles {
		g.Go(func() error {
			n, err := t.count(gCtx)
			if err != nil {
				return fmt.Errorf("failed to count %s: %w", t.key, err)
			}
			// Each goroutine owns one slot.
			stats[i] = types.Stat{Key: t.key, Label: t.label, Value: n, Text: humanize.Comma(int64(n))}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &types.Dashboard{Role: string(role), Stats: stats}, nil
}

func (s *Service) tiles(userID uuid.UUID, role db.Role) ([]tile, error) {
	ownProducts := func(ctx context.Context) (int, error) { return s.store.CountProducts(ctx, userID) }
	allProducts := func(ctx context.Context) (int, error) { return s.store.CountProducts(ctx, uuid.Nil) }
	documents := func(ctx context.Context) (int, error) { return s.store.CountDocuments(ctx, userID) }
	users := func(r db.Role) func(context.Context) (int, error) {
		return func(ctx context.Context) (int, error) { return s.store.CountUsers(ctx, r) }
	}

	switch role {
	case db.RoleSupplier:
		return []tile{
			{key: "products", label: "Products", count: ownProducts},
			{key: "documents", label: "Documents", count: documents},
			{key: "buyers", label: "Buyers", count: users(db.RoleBuyer)},
			{key: "inquiries", label: "Inquiries", count: s.fixed("inquiries")},
		}, nil
	case db.RoleBuyer:
		return []tile{
			{key: "suppliers", label: "Suppliers", count: users(db.RoleSupplier)},
			{key: "products", label: "Products", count: allProducts},
			{key: "documents", label: "Documents", count: documents},
			{key: "orders", label: "Orders", count: s.fixed("trades")},
		}, nil
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
}

// fixed reads a figure from the overview tiles.
func (s *Service) fixed(key string) func(context.Context) (int, error) {
	return func(context.Context) (int, error) {
		for _, t := range s.overview.Tiles {
			if t.Key == key {
				return t.Value, nil
			}
		}
		return 0, nil
	}
}

// Overview returns a copy of the overview page data.
func (s *Service) Overview() types.Overview {
	out := types.Overview{
		Tiles:  make([]types.Stat, len(s.overview.Tiles)),
		Series: make(map[string][]types.Point, len(s.overview.Series)),
	}
	for i, t := range s.overview.Tiles {
		t.Text = humanize.Comma(int64(t.Value))
		out.Tiles[i] = t
	}
	for name, points := range s.overview.Series {
		out.Series[name] = append([]types.Point(nil), points...)
	}
	return out
}
