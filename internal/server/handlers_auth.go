package server

import (
	"context"
	"net/http"

	"github.com/jonathan/trade-connect/internal/auth"
	"github.com/jonathan/trade-connect/internal/form"
	"github.com/jonathan/trade-connect/internal/server/middleware"
	"github.com/jonathan/trade-connect/internal/types"
	"github.com/jonathan/trade-connect/internal/validation"
)

// handleLogin runs the login form and opens a session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := s.decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	state := form.New(validation.LoginInitial(), validation.Login)
	if err := state.Bind(body); err != nil {
		s.writeError(w, r, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}

	var result *auth.Result
	err := state.Submit(r.Context(), func(ctx context.Context, v form.Values, h form.Handle) error {
		res, err := s.auth.Login(ctx, v.String("email"), v.String("password"))
		if err != nil {
			return err
		}
		result = res
		h.Reset()
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, authResponse(result))
}

// handleRegister runs the registration form and opens a session for the
// new account.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := s.decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	state := form.New(validation.RegistrationInitial(), validation.Registration)
	if err := state.Bind(body); err != nil {
		s.writeError(w, r, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}

	var result *auth.Result
	err := state.Submit(r.Context(), func(ctx context.Context, v form.Values, h form.Handle) error {
		res, err := s.auth.Register(ctx, &types.RegisterRequest{
			AccountType: v.String("accountType"),
			Province:    v.String("province"),
			Email:       v.String("email"),
			Password:    v.String("password"),
			Company:     v.String("company"),
			PICName:     v.String("picName"),
			Phone:       v.String("phone"),
		})
		if err != nil {
			return err
		}
		result = res
		h.Reset()
		return nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, authResponse(result))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(r.Context(), middleware.GetToken(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.auth.User(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, user)
}

func authResponse(res *auth.Result) types.AuthResponse {
	return types.AuthResponse{User: res.User, Token: res.Token, ExpiresAt: res.ExpiresAt}
}
