package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/rfagundes/quality-control/internal/auth"
	"github.com/rfagundes/quality-control/internal/quality"
	"github.com/rfagundes/quality-control/internal/service"
	"github.com/rfagundes/quality-control/internal/storage"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusForError maps the service's sentinel errors onto HTTP codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, storage.ErrDuplicateID), errors.Is(err, auth.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, storage.ErrPartNotFound), errors.Is(err, auth.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrAccessDenied), errors.Is(err, auth.ErrProtectedUser):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidRole),
		errors.Is(err, storage.ErrInvalidCapacity),
		errors.Is(err, quality.ErrInvalidWeightRange),
		errors.Is(err, quality.ErrInvalidLengthRange),
		errors.Is(err, quality.ErrNoAcceptedColors):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type userProfile struct {
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Role        auth.Role  `json:"role"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

func profileOf(u *auth.User) userProfile {
	return userProfile{
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		LastLogin:   u.LastLogin,
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.service.Login(req.Username, req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	respondJSON(w, http.StatusOK, profileOf(user))
}

func (s *Server) handleSubmitPart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     string   `json:"id"`
		Weight *float64 `json:"weight"`
		Color  string   `json:"color"`
		Length *float64 `json:"length"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// Malformed numeric input never reaches the validator.
	if req.ID == "" || req.Weight == nil || req.Length == nil || req.Color == "" {
		respondError(w, http.StatusBadRequest, "id, weight, color and length are required")
		return
	}

	caller := callerFromContext(r.Context())
	result, err := s.service.SubmitPart(req.ID, *req.Weight, req.Color, *req.Length, caller.Username)
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleEditPart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Weight *float64 `json:"weight"`
		Color  string   `json:"color"`
		Length *float64 `json:"length"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Weight == nil || req.Length == nil || req.Color == "" {
		respondError(w, http.StatusBadRequest, "weight, color and length are required")
		return
	}

	caller := callerFromContext(r.Context())
	result, err := s.service.EditPart(mux.Vars(r)["id"], *req.Weight, req.Color, *req.Length, caller.Username)
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRemovePart(w http.ResponseWriter, r *http.Request) {
	caller := callerFromContext(r.Context())
	if err := s.service.RemovePart(mux.Vars(r)["id"], caller.Username); err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "part removed"})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var from, to *time.Time

	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid 'from' date, use YYYY-MM-DD")
			return
		}
		from = &t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid 'to' date, use YYYY-MM-DD")
			return
		}
		endOfDay := t.Add(24*time.Hour - time.Nanosecond)
		to = &endOfDay
	}

	rep := s.service.Report(from, to, r.URL.Query().Get("operator"))
	respondJSON(w, http.StatusOK, rep)
}

func (s *Server) handleContainers(w http.ResponseWriter, r *http.Request) {
	closed, current := s.service.Containers()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"closed":  closed,
		"current": current,
	})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.service.ListUsers(callerFromContext(r.Context()))
	if err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	profiles := make([]userProfile, len(users))
	for i := range users {
		profiles[i] = profileOf(&users[i])
	}
	respondJSON(w, http.StatusOK, profiles)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req service.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.service.CreateUser(callerFromContext(r.Context()), req); err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"message": "user created"})
}

func (s *Server) handleEditUser(w http.ResponseWriter, r *http.Request) {
	var req service.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Username = mux.Vars(r)["username"]

	if err := s.service.EditUser(callerFromContext(r.Context()), req); err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "user updated"})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	if err := s.service.DeleteUser(callerFromContext(r.Context()), username); err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	username := mux.Vars(r)["username"]
	if err := s.service.ResetPassword(callerFromContext(r.Context()), username, req.Password); err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "password reset"})
}

func (s *Server) handleGetCriteria(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.service.Settings())
}

func (s *Server) handleUpdateCriteria(w http.ResponseWriter, r *http.Request) {
	var settings storage.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.service.UpdateCriteria(callerFromContext(r.Context()), settings); err != nil {
		respondError(w, statusForError(err), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "criteria updated"})
}
