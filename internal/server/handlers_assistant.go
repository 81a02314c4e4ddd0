package server

import (
	"fmt"
	"net/http"

	"github.com/jonathan/trade-connect/internal/server/middleware"
	"github.com/jonathan/trade-connect/internal/types"
)

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	history, err := s.assistant.History(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.NewList(history))
}

// handleSendMessage appends a message to the caller's conversation and
// returns both the stored message and the reply.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.GetPrincipal(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req types.SendMessageRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, fmt.Errorf("invalid message: %w", err))
		return
	}

	reply, err := s.assistant.Send(r.Context(), p.GetUserID(), p.GetRole(), req.Message)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, reply)
}

func (s *Server) handleResetMessages(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.assistant.Reset(r.Context(), userID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFAQ(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, types.NewList(s.assistant.FAQ()))
}

// handleAsk answers a single question without authentication or history.
// Errors use the {"status":"error","message":...} envelope of the public
// endpoints.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req types.AskRequest
	if err := s.decodeJSON(w, r, &req); err != nil || req.Validate() != nil {
		s.askError(w, http.StatusBadRequest, "Missing 'message' in request")
		return
	}

	resp, err := s.assistant.Ask(r.Context(), req.Message)
	if err != nil {
		status := HTTPStatus(err)
		if status == http.StatusInternalServerError {
			s.writeError(w, r, err)
			return
		}
		s.askError(w, status, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) askError(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"status": "error", "message": message})
}
