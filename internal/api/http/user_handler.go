package http

import (
	"encoding/json"
	"net/http"

	"gearup-backend/internal/domain"
	"gearup-backend/internal/service"
)

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// RegisterProfile creates the directory record for the authenticated
// identity on first sign-in. Later calls return the existing profile.
func (h *UserHandler) RegisterProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Kind: "Unauthenticated", Error: "missing identity"})
		return
	}
	user, err := h.userSvc.RegisterProfile(r.Context(), claims.Actor(), claims.Email, claims.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Kind: "Unauthenticated", Error: "missing identity"})
		return
	}
	user, err := h.userSvc.GetProfile(r.Context(), actor.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Kind: "Unauthenticated", Error: "missing identity"})
		return
	}
	users, err := h.userSvc.ListUsers(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]domain.User{"users": users})
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Kind: "Unauthenticated", Error: "missing identity"})
		return
	}
	userID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Kind: "BadRequest", Error: "invalid user id"})
		return
	}
	var req changeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Kind: "BadRequest", Error: "invalid request body"})
		return
	}
	if err := h.userSvc.ChangeRole(r.Context(), actor, userID, domain.UserRole(req.Role)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Kind: "Unauthenticated", Error: "missing identity"})
		return
	}
	userID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Kind: "BadRequest", Error: "invalid user id"})
		return
	}
	if err := h.userSvc.DeleteUser(r.Context(), actor, userID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
