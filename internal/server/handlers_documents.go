package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jonathan/trade-connect/internal/db"
	"github.com/jonathan/trade-connect/internal/match"
	"github.com/jonathan/trade-connect/internal/server/middleware"
	"github.com/jonathan/trade-connect/internal/textutil"
	"github.com/jonathan/trade-connect/internal/types"
)

// documentSchema filters the document list. "all" selects every category.
var documentSchema = match.NewSchema(
	match.ExactText("category", func(d db.Document) string { return d.Category }),
	match.ContainsText("q", func(d db.Document) string { return d.Name }),
)

// handleListDocuments lists the caller's documents, most recent first,
// filtered by category and a name search.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	query := r.URL.Query()
	if strings.EqualFold(strings.TrimSpace(query.Get("category")), "all") {
		query.Del("category")
	}
	criteria, err := documentSchema.ParseQuery(query)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	docs, err := s.store.ListDocuments(r.Context(), db.DocumentFilters{OwnerID: userID})
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to list documents: %w", err))
		return
	}

	docs = documentSchema.Apply(docs, criteria)
	views := make([]types.Document, 0, len(docs))
	for i := range docs {
		views = append(views, s.documentView(&docs[i]))
	}
	s.jsonResponse(w, http.StatusOK, types.NewList(views))
}

// handleUploadDocument records the metadata of an uploaded file.
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req types.UploadDocumentRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		s.writeError(w, r, fmt.Errorf("invalid document: %w", err))
		return
	}

	doc := &db.Document{
		OwnerID:   userID,
		Name:      req.Name,
		Category:  req.Category,
		SizeBytes: req.SizeBytes,
		Type:      textutil.FileType(req.Name),
	}
	if err := s.store.CreateDocument(r.Context(), doc); err != nil {
		s.writeError(w, r, fmt.Errorf("failed to create document: %w", err))
		return
	}
	s.jsonResponse(w, http.StatusCreated, s.documentView(doc))
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	doc, err := s.store.GetDocument(r.Context(), id)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to get document: %w", err))
		return
	}
	if doc == nil || doc.OwnerID != userID {
		s.writeError(w, r, fmt.Errorf("document %s: %w", id, db.ErrNotFound))
		return
	}

	if err := s.store.DeleteDocument(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) documentView(d *db.Document) types.Document {
	return types.Document{
		ID:         d.ID,
		Name:       d.Name,
		Category:   d.Category,
		Type:       d.Type,
		Size:       textutil.HumanSize(d.SizeBytes),
		SizeBytes:  d.SizeBytes,
		IsImage:    textutil.IsImageFile(d.Name),
		UploadedAt: d.UploadedAt,
		Date:       textutil.FormatDate(d.UploadedAt),
		Age:        textutil.TimeAgo(d.UploadedAt, s.now()),
	}
}
