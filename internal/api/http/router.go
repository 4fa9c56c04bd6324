package http

import (
	"net/http"

	"gearup-backend/internal/auth"

	"github.com/gorilla/mux"
)

// Handlers bundles the API handlers registered on the router.
type Handlers struct {
	Booking      *BookingHandler
	Catalog      *CatalogHandler
	Notification *NotificationHandler
	User         *UserHandler
}

// NewRouter builds the API route table. Catalog browsing and availability
// probes are public; everything else requires a verified identity.
func NewRouter(verifier auth.Verifier, h Handlers) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestIDMiddleware, LoggingMiddleware)

	api := router.PathPrefix("/api").Subrouter()

	// Public storefront endpoints.
	api.HandleFunc("/equipment", h.Catalog.BrowseListings).Methods(http.MethodGet)
	api.HandleFunc("/equipment/{id:[0-9]+}", h.Catalog.GetListing).Methods(http.MethodGet)
	api.HandleFunc("/availability", h.Booking.CheckAvailability).Methods(http.MethodGet)

	authed := api.NewRoute().Subrouter()
	authed.Use(AuthMiddleware(verifier))

	// Listings.
	authed.HandleFunc("/equipment", h.Catalog.SubmitListing).Methods(http.MethodPost)
	authed.HandleFunc("/equipment/{id:[0-9]+}", h.Catalog.UpdateListing).Methods(http.MethodPut)
	authed.HandleFunc("/equipment/{id:[0-9]+}", h.Catalog.DeleteListing).Methods(http.MethodDelete)
	authed.HandleFunc("/equipment/{id:[0-9]+}/moderate", h.Catalog.Moderate).Methods(http.MethodPost)
	authed.HandleFunc("/equipment/mine", h.Catalog.ListMyListings).Methods(http.MethodGet)
	authed.HandleFunc("/equipment/pending", h.Catalog.ListPending).Methods(http.MethodGet)

	// Bookings.
	authed.HandleFunc("/bookings", h.Booking.CreateBooking).Methods(http.MethodPost)
	authed.HandleFunc("/bookings", h.Booking.ListMyBookings).Methods(http.MethodGet)
	authed.HandleFunc("/bookings/requests", h.Booking.ListIncomingRequests).Methods(http.MethodGet)
	authed.HandleFunc("/bookings/{id:[0-9]+}", h.Booking.GetBooking).Methods(http.MethodGet)
	authed.HandleFunc("/bookings/{id:[0-9]+}/decision", h.Booking.DecideBooking).Methods(http.MethodPost)

	// Notifications.
	authed.HandleFunc("/notifications", h.Notification.ListNotifications).Methods(http.MethodGet)
	authed.HandleFunc("/notifications/unread", h.Notification.CountUnread).Methods(http.MethodGet)
	authed.HandleFunc("/notifications/{id:[0-9]+}/read", h.Notification.MarkAsRead).Methods(http.MethodPost)

	// Profile and user administration.
	authed.HandleFunc("/profile", h.User.RegisterProfile).Methods(http.MethodPost)
	authed.HandleFunc("/profile", h.User.GetProfile).Methods(http.MethodGet)
	authed.HandleFunc("/users", h.User.ListUsers).Methods(http.MethodGet)
	authed.HandleFunc("/users/{id:[0-9]+}/role", h.User.ChangeRole).Methods(http.MethodPut)
	authed.HandleFunc("/users/{id:[0-9]+}", h.User.DeleteUser).Methods(http.MethodDelete)

	return router
}
