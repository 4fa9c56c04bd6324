package repository

import (
	"context"

	"gearup-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UpdateRole(ctx context.Context, id int32, role domain.UserRole) error
	Delete(ctx context.Context, id int32) error
}

type EquipmentRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	GetByID(ctx context.Context, id int32) (*domain.Listing, error)
	// Update rewrites owner-editable content fields. Status and owner are
	// never touched here.
	Update(ctx context.Context, listing *domain.Listing) error
	List(ctx context.Context, filter domain.ListingFilter, page, pageSize int32) ([]domain.Listing, int32, error)

	// UpdateStatus is a compare-and-set: the write succeeds only while the
	// listing is still in fromStatus. Returns false when the guard fails.
	UpdateStatus(ctx context.Context, id int32, fromStatus, toStatus domain.ListingStatus) (bool, error)
	// DeleteIfPending removes a listing only while it is still pending
	// moderation. Returns false when the listing was already moderated.
	DeleteIfPending(ctx context.Context, id int32) (bool, error)
	// DeleteIfNoActiveBookings removes a listing atomically with the check
	// that no PENDING booking references it. No booking can be created
	// between the check and the delete.
	DeleteIfNoActiveBookings(ctx context.Context, id int32) error
}

type BookingRepository interface {
	// CreateIfAvailable inserts the booking inside one transaction that
	// serializes writers per equipment id: it locks the equipment row,
	// re-checks the listing is approved, and runs the overlap query against
	// non-rejected bookings before inserting. On a range collision it
	// returns a *domain.DateConflictError carrying the blocking ids.
	CreateIfAvailable(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)
	// UpdateStatus is a compare-and-set on the booking status. Returns
	// false when the booking was not in fromStatus anymore.
	UpdateStatus(ctx context.Context, id int32, fromStatus, toStatus domain.BookingStatus) (bool, error)
	List(ctx context.Context, filter domain.BookingFilter, page, pageSize int32) ([]domain.Booking, int32, error)
	// FindOverlapping returns non-rejected bookings for the equipment whose
	// inclusive [start,end] range intersects the candidate range.
	FindOverlapping(ctx context.Context, equipmentID int32, startDate, endDate string) ([]domain.Booking, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	CountUnread(ctx context.Context, userID int32) (int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
