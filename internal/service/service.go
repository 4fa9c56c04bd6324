package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gearup-backend/internal/domain"
	"gearup-backend/internal/repository"
)

// AvailabilityResult is the outcome of a conflict check. When Available is
// false, ConflictingIDs holds the bookings blocking the requested range.
type AvailabilityResult struct {
	Available      bool    `json:"available"`
	ConflictingIDs []int32 `json:"conflicting_ids,omitempty"`
}

type AvailabilityService interface {
	CheckAvailability(ctx context.Context, equipmentID int32, startDate, endDate string) (*AvailabilityResult, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, actor domain.Actor, equipmentID int32, startDate, endDate string) (*domain.Booking, error)
	DecideBooking(ctx context.Context, actor domain.Actor, bookingID int32, decision domain.BookingStatus) (*domain.Booking, error)
	GetBooking(ctx context.Context, actor domain.Actor, bookingID int32) (*domain.Booking, error)
	ListMyBookings(ctx context.Context, actor domain.Actor, status domain.BookingStatus, page, pageSize int32) ([]domain.Booking, int32, error)
	ListIncomingRequests(ctx context.Context, actor domain.Actor, status domain.BookingStatus, page, pageSize int32) ([]domain.Booking, int32, error)
}

type CatalogService interface {
	SubmitListing(ctx context.Context, actor domain.Actor, listing *domain.Listing) error
	GetListing(ctx context.Context, actor domain.Actor, id int32) (*domain.Listing, error)
	UpdateListing(ctx context.Context, actor domain.Actor, listing *domain.Listing) (*domain.Listing, error)
	DeleteListing(ctx context.Context, actor domain.Actor, id int32) error
	Moderate(ctx context.Context, actor domain.Actor, listingID int32, decision domain.ListingStatus) (*domain.Listing, error)
	ListApproved(ctx context.Context, filter domain.ListingFilter, page, pageSize int32) ([]domain.Listing, int32, error)
	ListMyListings(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.Listing, int32, error)
	ListPending(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.Listing, int32, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	CountUnread(ctx context.Context, userID int32) (int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

// Notifier records a notification for a user. Fire-and-forget: failures are
// logged and never influence the caller's control flow, so a lifecycle
// transition stays committed even when its notification is lost.
type Notifier interface {
	Emit(ctx context.Context, recipientID int32, message, link string)
}

type UserService interface {
	RegisterProfile(ctx context.Context, actor domain.Actor, email, name string) (*domain.User, error)
	GetProfile(ctx context.Context, userID int32) (*domain.User, error)
	ListUsers(ctx context.Context, actor domain.Actor) ([]domain.User, error)
	ChangeRole(ctx context.Context, actor domain.Actor, userID int32, role domain.UserRole) error
	DeleteUser(ctx context.Context, actor domain.Actor, userID int32) error
}

type EmailService interface {
	SendBookingRequestNotification(ctx context.Context, ownerEmail, ownerName, renterName, equipmentName, startDate, endDate string) error
	SendBookingDecisionNotification(ctx context.Context, renterEmail, renterName, equipmentName string, decision domain.BookingStatus) error
	SendListingModerationNotification(ctx context.Context, ownerEmail, ownerName, listingName string, approved bool) error
}

// RetryConfig bounds the optimistic-concurrency retry loop around
// compare-and-set storage operations.
type RetryConfig struct {
	Attempts int
	Backoff  time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{Attempts: 3, Backoff: 25 * time.Millisecond}
}

// withRetry runs op, retrying transient storage failures with exponential
// backoff. Policy errors return immediately; an exhausted budget surfaces
// as domain.ErrUnavailable so callers can tell "try again" from "never".
func withRetry(ctx context.Context, cfg RetryConfig, op func() error) error {
	backoff := cfg.Backoff
	var err error
	for attempt := 0; attempt < cfg.Attempts; attempt++ {
		err = op()
		if err == nil || !errors.Is(err, repository.ErrTransient) {
			return err
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", domain.ErrUnavailable, ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
}
