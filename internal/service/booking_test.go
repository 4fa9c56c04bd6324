package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gearup-backend/internal/domain"
	"gearup-backend/internal/repository"
	"gearup-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type bookingFixture struct {
	bookingRepo   *MockBookingRepo
	equipmentRepo *MockEquipmentRepo
	userRepo      *MockUserRepo
	notifier      *MockNotifier
	emailSvc      *MockEmailService
	svc           service.BookingService
}

func newBookingFixture() *bookingFixture {
	f := &bookingFixture{
		bookingRepo:   new(MockBookingRepo),
		equipmentRepo: new(MockEquipmentRepo),
		userRepo:      new(MockUserRepo),
		notifier:      new(MockNotifier),
		emailSvc:      new(MockEmailService),
	}
	f.svc = service.NewBookingService(
		f.bookingRepo,
		f.equipmentRepo,
		f.userRepo,
		f.notifier,
		f.emailSvc,
		service.RetryConfig{Attempts: 3, Backoff: time.Millisecond},
	)
	return f
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func approvedListing() *domain.Listing {
	return &domain.Listing{
		ID:          2,
		OwnerID:     10,
		Name:        "Canon EOS R5",
		PricePerDay: 1500,
		Status:      domain.ListingStatusApproved,
	}
}

func TestBookingService_CreateBooking(t *testing.T) {
	ctx := context.Background()
	renter := domain.Actor{UserID: 1, Role: domain.UserRoleRenter}
	start, end := futureDate(2), futureDate(4)

	t.Run("Success", func(t *testing.T) {
		f := newBookingFixture()
		f.equipmentRepo.On("GetByID", ctx, int32(2)).Return(approvedListing(), nil)
		f.bookingRepo.On("CreateIfAvailable", ctx, mock.AnythingOfType("*domain.Booking")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.Booking).ID = 7
			}).Return(nil)
		f.userRepo.On("GetByID", ctx, int32(1)).Return(&domain.User{ID: 1, Name: "Rita", Email: "rita@test.com"}, nil)
		f.userRepo.On("GetByID", ctx, int32(10)).Return(&domain.User{ID: 10, Name: "Omar", Email: "omar@test.com"}, nil)
		f.notifier.On("Emit", ctx, int32(10),
			fmt.Sprintf("Rita requested to rent Canon EOS R5 from %s to %s.", start, end),
			"/owner/requests").Return()
		f.emailSvc.On("SendBookingRequestNotification", ctx, "omar@test.com", "Omar", "Rita", "Canon EOS R5", start, end).Return(nil)

		booking, err := f.svc.CreateBooking(ctx, renter, 2, start, end)
		assert.NoError(t, err)
		assert.NotNil(t, booking)
		assert.Equal(t, int32(7), booking.ID)
		assert.Equal(t, domain.BookingStatusPending, booking.Status)
		assert.Equal(t, int32(10), booking.OwnerID)
		assert.Equal(t, "Canon EOS R5", booking.EquipmentName)
		// 3 days inclusive at 1500 per day
		assert.Equal(t, int32(4500), booking.TotalPrice)
		f.notifier.AssertExpectations(t)
	})

	t.Run("Self Booking Forbidden", func(t *testing.T) {
		f := newBookingFixture()
		f.equipmentRepo.On("GetByID", ctx, int32(2)).Return(approvedListing(), nil)

		owner := domain.Actor{UserID: 10, Role: domain.UserRoleOwner}
		_, err := f.svc.CreateBooking(ctx, owner, 2, start, end)
		assert.ErrorIs(t, err, domain.ErrSelfBookingForbidden)
	})

	t.Run("Listing Not Approved", func(t *testing.T) {
		f := newBookingFixture()
		pending := approvedListing()
		pending.Status = domain.ListingStatusPending
		f.equipmentRepo.On("GetByID", ctx, int32(2)).Return(pending, nil)

		_, err := f.svc.CreateBooking(ctx, renter, 2, start, end)
		assert.ErrorIs(t, err, domain.ErrListingNotApproved)
	})

	t.Run("Listing Not Found", func(t *testing.T) {
		f := newBookingFixture()
		f.equipmentRepo.On("GetByID", ctx, int32(99)).Return(nil, domain.ErrListingNotFound)

		_, err := f.svc.CreateBooking(ctx, renter, 99, start, end)
		assert.ErrorIs(t, err, domain.ErrListingNotFound)
	})

	t.Run("Start After End", func(t *testing.T) {
		f := newBookingFixture()
		_, err := f.svc.CreateBooking(ctx, renter, 2, end, start)
		assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
		f.bookingRepo.AssertNotCalled(t, "CreateIfAvailable")
	})

	t.Run("Start In The Past", func(t *testing.T) {
		f := newBookingFixture()
		_, err := f.svc.CreateBooking(ctx, renter, 2, "2020-01-01", "2020-01-03")
		assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
	})

	t.Run("Malformed Date", func(t *testing.T) {
		f := newBookingFixture()
		_, err := f.svc.CreateBooking(ctx, renter, 2, "01/01/2030", end)
		assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
	})

	t.Run("Date Conflict", func(t *testing.T) {
		f := newBookingFixture()
		f.equipmentRepo.On("GetByID", ctx, int32(2)).Return(approvedListing(), nil)
		f.bookingRepo.On("CreateIfAvailable", ctx, mock.AnythingOfType("*domain.Booking")).
			Return(&domain.DateConflictError{ConflictingIDs: []int32{11}})

		_, err := f.svc.CreateBooking(ctx, renter, 2, start, end)
		assert.ErrorIs(t, err, domain.ErrDateConflict)

		var conflict *domain.DateConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Equal(t, []int32{11}, conflict.ConflictingIDs)
	})

	t.Run("Transient Failure Retried", func(t *testing.T) {
		f := newBookingFixture()
		f.equipmentRepo.On("GetByID", ctx, int32(2)).Return(approvedListing(), nil)
		transient := fmt.Errorf("%w: deadlock detected", repository.ErrTransient)
		f.bookingRepo.On("CreateIfAvailable", ctx, mock.AnythingOfType("*domain.Booking")).Return(transient).Twice()
		f.bookingRepo.On("CreateIfAvailable", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
		f.userRepo.On("GetByID", ctx, mock.Anything).Return(nil, errors.New("no user"))
		f.notifier.On("Emit", ctx, int32(10), mock.Anything, "/owner/requests").Return()

		booking, err := f.svc.CreateBooking(ctx, renter, 2, start, end)
		assert.NoError(t, err)
		assert.NotNil(t, booking)
		f.bookingRepo.AssertNumberOfCalls(t, "CreateIfAvailable", 3)
	})

	t.Run("Transient Failure Exhausted", func(t *testing.T) {
		f := newBookingFixture()
		f.equipmentRepo.On("GetByID", ctx, int32(2)).Return(approvedListing(), nil)
		transient := fmt.Errorf("%w: deadlock detected", repository.ErrTransient)
		f.bookingRepo.On("CreateIfAvailable", ctx, mock.AnythingOfType("*domain.Booking")).Return(transient)

		_, err := f.svc.CreateBooking(ctx, renter, 2, start, end)
		assert.ErrorIs(t, err, domain.ErrUnavailable)
		f.bookingRepo.AssertNumberOfCalls(t, "CreateIfAvailable", 3)
	})
}

func TestBookingService_DecideBooking(t *testing.T) {
	ctx := context.Background()
	owner := domain.Actor{UserID: 10, Role: domain.UserRoleOwner}

	pendingBooking := func() *domain.Booking {
		return &domain.Booking{
			ID:            7,
			EquipmentID:   2,
			EquipmentName: "Canon EOS R5",
			RenterID:      1,
			OwnerID:       10,
			Status:        domain.BookingStatusPending,
		}
	}

	t.Run("Confirm Success", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int32(7)).Return(pendingBooking(), nil)
		f.bookingRepo.On("UpdateStatus", ctx, int32(7), domain.BookingStatusPending, domain.BookingStatusConfirmed).Return(true, nil)
		f.notifier.On("Emit", ctx, int32(1), "Your request for Canon EOS R5 was confirmed.", "/dashboard").Return()
		f.userRepo.On("GetByID", ctx, int32(1)).Return(&domain.User{ID: 1, Name: "Rita", Email: "rita@test.com"}, nil)
		f.emailSvc.On("SendBookingDecisionNotification", ctx, "rita@test.com", "Rita", "Canon EOS R5", domain.BookingStatusConfirmed).Return(nil)

		booking, err := f.svc.DecideBooking(ctx, owner, 7, domain.BookingStatusConfirmed)
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusConfirmed, booking.Status)
		f.notifier.AssertExpectations(t)
	})

	t.Run("Reject Success", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int32(7)).Return(pendingBooking(), nil)
		f.bookingRepo.On("UpdateStatus", ctx, int32(7), domain.BookingStatusPending, domain.BookingStatusRejected).Return(true, nil)
		f.notifier.On("Emit", ctx, int32(1), "Your request for Canon EOS R5 was rejected.", "/dashboard").Return()
		f.userRepo.On("GetByID", ctx, int32(1)).Return(&domain.User{ID: 1, Name: "Rita", Email: "rita@test.com"}, nil)
		f.emailSvc.On("SendBookingDecisionNotification", ctx, "rita@test.com", "Rita", "Canon EOS R5", domain.BookingStatusRejected).Return(nil)

		booking, err := f.svc.DecideBooking(ctx, owner, 7, domain.BookingStatusRejected)
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusRejected, booking.Status)
	})

	t.Run("Not The Owner", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int32(7)).Return(pendingBooking(), nil)

		stranger := domain.Actor{UserID: 99, Role: domain.UserRoleOwner}
		_, err := f.svc.DecideBooking(ctx, stranger, 7, domain.BookingStatusConfirmed)
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
		f.bookingRepo.AssertNotCalled(t, "UpdateStatus")
	})

	t.Run("Admin Cannot Decide For Owner", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int32(7)).Return(pendingBooking(), nil)

		admin := domain.Actor{UserID: 50, Role: domain.UserRoleAdmin}
		_, err := f.svc.DecideBooking(ctx, admin, 7, domain.BookingStatusConfirmed)
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	})

	t.Run("Already Decided", func(t *testing.T) {
		f := newBookingFixture()
		decided := pendingBooking()
		decided.Status = domain.BookingStatusConfirmed
		f.bookingRepo.On("GetByID", ctx, int32(7)).Return(decided, nil)

		_, err := f.svc.DecideBooking(ctx, owner, 7, domain.BookingStatusRejected)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("Lost Concurrent Decision Race", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int32(7)).Return(pendingBooking(), nil)
		f.bookingRepo.On("UpdateStatus", ctx, int32(7), domain.BookingStatusPending, domain.BookingStatusConfirmed).Return(false, nil)

		_, err := f.svc.DecideBooking(ctx, owner, 7, domain.BookingStatusConfirmed)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		f.notifier.AssertNotCalled(t, "Emit")
	})

	t.Run("Invalid Decision Value", func(t *testing.T) {
		f := newBookingFixture()
		_, err := f.svc.DecideBooking(ctx, owner, 7, domain.BookingStatusPending)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		f.bookingRepo.AssertNotCalled(t, "GetByID")
	})

	t.Run("Booking Not Found", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, int32(404)).Return(nil, domain.ErrBookingNotFound)

		_, err := f.svc.DecideBooking(ctx, owner, 404, domain.BookingStatusConfirmed)
		assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	})
}

func TestBookingService_GetBooking(t *testing.T) {
	ctx := context.Background()
	booking := &domain.Booking{ID: 7, RenterID: 1, OwnerID: 10, Status: domain.BookingStatusPending}

	cases := []struct {
		name    string
		actor   domain.Actor
		wantErr error
	}{
		{name: "Renter Can Read", actor: domain.Actor{UserID: 1, Role: domain.UserRoleRenter}},
		{name: "Owner Can Read", actor: domain.Actor{UserID: 10, Role: domain.UserRoleOwner}},
		{name: "Admin Can Read", actor: domain.Actor{UserID: 50, Role: domain.UserRoleAdmin}},
		{name: "Stranger Denied", actor: domain.Actor{UserID: 99, Role: domain.UserRoleRenter}, wantErr: domain.ErrNotAuthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newBookingFixture()
			f.bookingRepo.On("GetByID", ctx, int32(7)).Return(booking, nil)

			got, err := f.svc.GetBooking(ctx, tc.actor, 7)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, booking, got)
		})
	}
}

func TestBookingService_Listings(t *testing.T) {
	ctx := context.Background()

	t.Run("ListMyBookings Filters By Renter", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("List", ctx, domain.BookingFilter{RenterID: 1, Status: domain.BookingStatusPending}, int32(1), int32(20)).
			Return([]domain.Booking{{ID: 7}}, int32(1), nil)

		actor := domain.Actor{UserID: 1, Role: domain.UserRoleRenter}
		bookings, total, err := f.svc.ListMyBookings(ctx, actor, domain.BookingStatusPending, 1, 20)
		assert.NoError(t, err)
		assert.Equal(t, int32(1), total)
		assert.Len(t, bookings, 1)
	})

	t.Run("ListIncomingRequests Filters By Owner", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("List", ctx, domain.BookingFilter{OwnerID: 10}, int32(1), int32(20)).
			Return([]domain.Booking{{ID: 7}, {ID: 8}}, int32(2), nil)

		actor := domain.Actor{UserID: 10, Role: domain.UserRoleOwner}
		bookings, total, err := f.svc.ListIncomingRequests(ctx, actor, "", 1, 20)
		assert.NoError(t, err)
		assert.Equal(t, int32(2), total)
		assert.Len(t, bookings, 2)
	})
}
