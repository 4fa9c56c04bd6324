package domain

import (
	"errors"
	"fmt"
)

// Policy errors. Each one is terminal for the operation that produced it
// and must reach the caller with its kind intact.
var (
	ErrListingNotFound      = errors.New("listing not found")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidDateRange     = errors.New("invalid date range")
	ErrDateConflict         = errors.New("dates conflict with an existing booking")
	ErrSelfBookingForbidden = errors.New("cannot book your own listing")
	ErrListingNotApproved   = errors.New("listing is not approved for booking")
	ErrNotAuthorized        = errors.New("not authorized")
	ErrNotPending           = errors.New("listing is not pending moderation")
	ErrInvalidTransition    = errors.New("booking is already decided")
	ErrActiveBookingsExist  = errors.New("listing has active bookings")
	ErrInvalidListing       = errors.New("invalid listing attributes")
	ErrInvalidRole          = errors.New("invalid user role")
)

// ErrUnavailable marks transient persistence failures that survived the
// retry budget. Callers may retry the whole operation; policy errors above
// never warrant a retry.
var ErrUnavailable = errors.New("service temporarily unavailable")

// DateConflictError carries the ids of the bookings that block a requested
// range so the caller can suggest alternate dates. It matches
// ErrDateConflict under errors.Is.
type DateConflictError struct {
	ConflictingIDs []int32
}

func (e *DateConflictError) Error() string {
	return fmt.Sprintf("dates conflict with existing bookings %v", e.ConflictingIDs)
}

func (e *DateConflictError) Is(target error) bool {
	return target == ErrDateConflict
}
