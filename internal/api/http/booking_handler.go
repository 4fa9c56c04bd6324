package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"gearup-backend/internal/domain"
	"gearup-backend/internal/service"

	"github.com/gorilla/mux"
)

type BookingHandler struct {
	bookingSvc      service.BookingService
	availabilitySvc service.AvailabilityService
}

func NewBookingHandler(bookingSvc service.BookingService, availabilitySvc service.AvailabilityService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc, availabilitySvc: availabilitySvc}
}

type createBookingRequest struct {
	EquipmentID int32  `json:"equipment_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Kind: "Unauthenticated", Error: "missing identity"})
		return
	}
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Kind: "BadRequest", Error: "invalid request body"})
		return
	}
	booking, err := h.bookingSvc.CreateBooking(r.Context(), actor, req.EquipmentID, req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

type decideBookingRequest struct {
	Decision string `json:"decision"`
}

func (h *BookingHandler) DecideBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Kind: "Unauthenticated", Error: "missing identity"})
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Kind: "BadRequest", Error: "invalid booking id"})
		return
	}
	var req decideBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Kind: "BadRequest", Error: "invalid request body"})
		return
	}

	var decision domain.BookingStatus
	switch req.Decision {
	case "confirmed", string(domain.BookingStatusConfirmed):
		decision = domain.BookingStatusConfirmed
	case "rejected", string(domain.BookingStatusRejected):
		decision = domain.BookingStatusRejected
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Kind: "BadRequest", Error: "decision must be confirmed or rejected"})
		return
	}

	booking, err := h.bookingSvc.DecideBooking(r.Context(), actor, bookingID, decision)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Kind: "Unauthenticated", Error: "missing identity"})
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Kind: "BadRequest", Error: "invalid booking id"})
		return
	}
	booking, err := h.bookingSvc.GetBooking(r.Context(), actor, bookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type bookingListResponse struct {
	Bookings []domain.Booking `json:"bookings"`
	Total    int32            `json:"total"`
}

func (h *BookingHandler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Kind: "Unauthenticated", Error: "missing identity"})
		return
	}
	page, pageSize := paging(r)
	bookings, total, err := h.bookingSvc.ListMyBookings(r.Context(), actor, bookingStatusParam(r), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingListResponse{Bookings: bookings, Total: total})
}

func (h *BookingHandler) ListIncomingRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Kind: "Unauthenticated", Error: "missing identity"})
		return
	}
	page, pageSize := paging(r)
	bookings, total, err := h.bookingSvc.ListIncomingRequests(r.Context(), actor, bookingStatusParam(r), page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookingListResponse{Bookings: bookings, Total: total})
}

// CheckAvailability lets clients probe a date range before submitting a
// booking. The authoritative check still happens inside CreateBooking.
func (h *BookingHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	equipmentID, err := strconv.ParseInt(q.Get("equipment_id"), 10, 32)
	if err != nil || equipmentID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Kind: "BadRequest", Error: "invalid equipment_id"})
		return
	}
	result, err := h.availabilitySvc.CheckAvailability(r.Context(), int32(equipmentID), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func pathID(r *http.Request, name string) (int32, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(id), nil
}

func paging(r *http.Request) (int32, int32) {
	page := int32(1)
	pageSize := int32(20)
	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32); err == nil && v > 0 {
		page = int32(v)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("page_size"), 10, 32); err == nil && v > 0 && v <= 100 {
		pageSize = int32(v)
	}
	return page, pageSize
}

func bookingStatusParam(r *http.Request) domain.BookingStatus {
	switch r.URL.Query().Get("status") {
	case "pending", string(domain.BookingStatusPending):
		return domain.BookingStatusPending
	case "confirmed", string(domain.BookingStatusConfirmed):
		return domain.BookingStatusConfirmed
	case "rejected", string(domain.BookingStatusRejected):
		return domain.BookingStatusRejected
	default:
		return ""
	}
}
