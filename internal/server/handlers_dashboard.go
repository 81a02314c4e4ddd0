package server

import (
	"fmt"
	"net/http"

	"github.com/jonathan/trade-connect/internal/db"
	"github.com/jonathan/trade-connect/internal/match"
	"github.com/jonathan/trade-connect/internal/server/middleware"
	"github.com/jonathan/trade-connect/internal/textutil"
	"github.com/jonathan/trade-connect/internal/types"
)

// partnerSchema filters the recommendation feed. Industry is the dropdown
// key, location the city name.
var partnerSchema = match.NewSchema(
	match.ExactText("industry", func(p db.Partner) string { return p.Industry }),
	match.FoldText("location", func(p db.Partner) string { return p.Location }),
	match.MinNumber("matchRate", func(p db.Partner) float64 { return p.MatchRate }),
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.GetPrincipal(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	stats, err := s.dashboard.Stats(r.Context(), p.GetUserID(), db.Role(p.GetRole()))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to build dashboard: %w", err))
		return
	}
	s.jsonResponse(w, http.StatusOK, stats)
}

func (s *Server) handleOverview(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.dashboard.Overview())
}

// handleRecommendations returns the partner feed, best match first, narrowed
// by the industry, location and matchRate query parameters.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	criteria, err := partnerSchema.ParseQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	partners, err := s.store.ListPartners(r.Context())
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to list partners: %w", err))
		return
	}

	partners = partnerSchema.Apply(partners, criteria)
	views := make([]types.Partner, 0, len(partners))
	for _, p := range partners {
		views = append(views, types.Partner{
			ID:          p.ID,
			Name:        p.Name,
			Industry:    p.Industry,
			Location:    p.Location,
			Country:     p.Country,
			MatchRate:   p.MatchRate,
			Description: p.Description,
			Products:    append([]string{}, p.Products...),
			Initials:    textutil.Initials(p.Name),
		})
	}
	s.jsonResponse(w, http.StatusOK, types.NewList(views))
}
