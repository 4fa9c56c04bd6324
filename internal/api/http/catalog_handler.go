package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"gearup-backend/internal/domain"
	"gearup-backend/internal/service"
)

type CatalogHandler struct {
	catalogSvc service.CatalogService
}

func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

type listingRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	PricePerDay int32  `json:"price_per_day"`
	Location    string `json:"location"`
	ImageURL    string `json:"image_url"`
}

type listingListResponse struct {
	Listings []domain.Listing `json:"listings"`
	Total    int32            `json:"total"`
}

func (h *CatalogHandler) SubmitListing(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Kind: "Unauthenticated", Error: "missing identity"})
		return
	}
	var req listingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Kind: "BadRequest", Error: "invalid request body"})
		return
	}
	listing := &domain.Listing{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		PricePerDay: req.PricePerDay,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
	}
	if err := h.catalogSvc.SubmitListing(r.Context(), actor, listing); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, listing)
}

func (h *CatalogHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Kind: "BadRequest", Error: "invalid listing id"})
		return
	}
	// Anonymous callers carry a zero actor, so only approved listings show.
	actor, _ := actorFromContext(r.Context())
	listing, err := h.catalogSvc.GetListing(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *CatalogHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Kind: "Unauthenticated", Error: "missing identity"})
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Kind: "BadRequest", Error: "invalid listing id"})
		return
	}
	var req listingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Kind: "BadRequest", Error: "invalid request body"})
		return
	}
	listing := &domain.Listing{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		PricePerDay: req.PricePerDay,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
	}
	updated, err := h.catalogSvc.UpdateListing(r.Context(), actor, listing)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *CatalogHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Kind: "Unauthenticated", Error: "missing identity"})
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Kind: "BadRequest", Error: "invalid listing id"})
		return
	}
	if err := h.catalogSvc.DeleteListing(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type moderateRequest struct {
	Decision string `json:"decision"`
}

func (h *CatalogHandler) Moderate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Kind: "Unauthenticated", Error: "missing identity"})
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Kind: "BadRequest", Error: "invalid listing id"})
		return
	}
	var req moderateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Kind: "BadRequest", Error: "invalid request body"})
		return
	}

	var decision domain.ListingStatus
	switch req.Decision {
	case "approved", string(domain.ListingStatusApproved):
		decision = domain.ListingStatusApproved
	case "rejected", string(domain.ListingStatusRejected):
		decision = domain.ListingStatusRejected
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Kind: "BadRequest", Error: "decision must be approved or rejected"})
		return
	}

	listing, err := h.catalogSvc.Moderate(r.Context(), actor, id, decision)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// BrowseListings is the public storefront view: approved listings only,
// with optional category, location and price filters.
func (h *CatalogHandler) BrowseListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ListingFilter{
		Category: q.Get("category"),
		Query:    q.Get("q"),
	}
	if v, err := strconv.ParseInt(q.Get("max_price"), 10, 32); err == nil && v > 0 {
		filter.MaxPricePerDay = int32(v)
	}
	page, pageSize := paging(r)
	listings, total, err := h.catalogSvc.ListApproved(r.Context(), filter, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listingListResponse{Listings: listings, Total: total})
}

func (h *CatalogHandler) ListMyListings(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Kind: "Unauthenticated", Error: "missing identity"})
		return
	}
	page, pageSize := paging(r)
	listings, total, err := h.catalogSvc.ListMyListings(r.Context(), actor, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listingListResponse{Listings: listings, Total: total})
}

func (h *CatalogHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Kind: "Unauthenticated", Error: "missing identity"})
		return
	}
	page, pageSize := paging(r)
	listings, total, err := h.catalogSvc.ListPending(r.Context(), actor, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listingListResponse{Listings: listings, Total: total})
}
