package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"gearup-backend/internal/auth"
	"gearup-backend/internal/domain"
	"gearup-backend/internal/logger"
)

type errorResponse struct {
	Kind           string  `json:"kind"`
	Error          string  `json:"error"`
	ConflictingIDs []int32 `json:"conflicting_ids,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps the engine's error taxonomy onto HTTP statuses. Every
// policy kind keeps its identity on the wire; nothing collapses into a
// generic failure.
func writeError(w http.ResponseWriter, err error) {
	var conflict *domain.DateConflictError
	if errors.As(err, &conflict) {
		writeJSON(w, http.StatusConflict, errorResponse{
			Kind:           "DateConflict",
			Error:          conflict.Error(),
			ConflictingIDs: conflict.ConflictingIDs,
		})
		return
	}

	kind, status := classify(err)
	if status == http.StatusInternalServerError {
		logger.Error("Unhandled error", "error", err)
	}
	writeJSON(w, status, errorResponse{Kind: kind, Error: err.Error()})
}

func classify(err error) (string, int) {
	switch {
	case errors.Is(err, domain.ErrListingNotFound):
		return "ListingNotFound", http.StatusNotFound
	case errors.Is(err, domain.ErrBookingNotFound):
		return "BookingNotFound", http.StatusNotFound
	case errors.Is(err, domain.ErrUserNotFound):
		return "UserNotFound", http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidDateRange):
		return "InvalidDateRange", http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidListing):
		return "InvalidListing", http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidRole):
		return "InvalidRole", http.StatusBadRequest
	case errors.Is(err, domain.ErrDateConflict):
		return "DateConflict", http.StatusConflict
	case errors.Is(err, domain.ErrSelfBookingForbidden):
		return "SelfBookingForbidden", http.StatusForbidden
	case errors.Is(err, domain.ErrNotAuthorized):
		return "NotAuthorized", http.StatusForbidden
	case errors.Is(err, domain.ErrListingNotApproved):
		return "ListingNotApproved", http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotPending):
		return "NotPending", http.StatusConflict
	case errors.Is(err, domain.ErrInvalidTransition):
		return "InvalidTransition", http.StatusConflict
	case errors.Is(err, domain.ErrActiveBookingsExist):
		return "ActiveBookingsExist", http.StatusConflict
	case errors.Is(err, domain.ErrUnavailable):
		return "Unavailable", http.StatusServiceUnavailable
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken):
		return "Unauthenticated", http.StatusUnauthorized
	default:
		return "Internal", http.StatusInternalServerError
	}
}
