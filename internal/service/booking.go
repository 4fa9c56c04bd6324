package service

import (
	"context"
	"fmt"
	"strings"

	"gearup-backend/internal/domain"
	"gearup-backend/internal/logger"
	"gearup-backend/internal/repository"
	"gearup-backend/internal/utils"
)

type bookingService struct {
	bookingRepo   repository.BookingRepository
	equipmentRepo repository.EquipmentRepository
	userRepo      repository.UserRepository
	notifier      Notifier
	emailSvc      EmailService
	retry         RetryConfig
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	equipmentRepo repository.EquipmentRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	emailSvc EmailService,
	retry RetryConfig,
) BookingService {
	return &bookingService{
		bookingRepo:   bookingRepo,
		equipmentRepo: equipmentRepo,
		userRepo:      userRepo,
		notifier:      notifier,
		emailSvc:      emailSvc,
		retry:         retry,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, actor domain.Actor, equipmentID int32, startDate, endDate string) (*domain.Booking, error) {
	start, err := utils.ParseDate(startDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDateRange, err)
	}
	end, err := utils.ParseDate(endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDateRange, err)
	}
	startDate, endDate = utils.NormalizeDate(start), utils.NormalizeDate(end)
	if startDate > endDate {
		return nil, fmt.Errorf("%w: start %s is after end %s", domain.ErrInvalidDateRange, startDate, endDate)
	}
	if startDate < utils.Today() {
		return nil, fmt.Errorf("%w: start %s is in the past", domain.ErrInvalidDateRange, startDate)
	}

	listing, err := s.equipmentRepo.GetByID(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	if listing.Status != domain.ListingStatusApproved {
		return nil, domain.ErrListingNotApproved
	}
	if listing.OwnerID == actor.UserID {
		return nil, domain.ErrSelfBookingForbidden
	}

	totalPrice, err := utils.RentalTotal(listing.PricePerDay, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDateRange, err)
	}

	booking := &domain.Booking{
		EquipmentID:   equipmentID,
		EquipmentName: listing.Name,
		RenterID:      actor.UserID,
		OwnerID:       listing.OwnerID, // snapshot, authorizes the decision later
		StartDate:     startDate,
		EndDate:       endDate,
		PricePerDay:   listing.PricePerDay,
		TotalPrice:    totalPrice,
		Status:        domain.BookingStatusPending,
	}

	// The repository re-checks listing status and range availability inside
	// one transaction; of two racing overlapping requests only one commits.
	if err := withRetry(ctx, s.retry, func() error {
		return s.bookingRepo.CreateIfAvailable(ctx, booking)
	}); err != nil {
		return nil, err
	}

	renterName := s.displayName(ctx, actor.UserID)
	s.notifier.Emit(ctx, listing.OwnerID,
		fmt.Sprintf("%s requested to rent %s from %s to %s.", renterName, listing.Name, startDate, endDate),
		"/owner/requests")

	if owner, err := s.userRepo.GetByID(ctx, listing.OwnerID); err == nil {
		if err := s.emailSvc.SendBookingRequestNotification(ctx, owner.Email, owner.Name, renterName, listing.Name, startDate, endDate); err != nil {
			logger.Warn("Failed to send booking request email", "bookingID", booking.ID, "error", err)
		}
	}

	logger.Info("Booking created", "bookingID", booking.ID, "equipmentID", equipmentID, "renterID", actor.UserID, "totalPrice", totalPrice)
	return booking, nil
}

func (s *bookingService) DecideBooking(ctx context.Context, actor domain.Actor, bookingID int32, decision domain.BookingStatus) (*domain.Booking, error) {
	if decision != domain.BookingStatusConfirmed && decision != domain.BookingStatusRejected {
		return nil, fmt.Errorf("%w: decision must be %s or %s", domain.ErrInvalidTransition, domain.BookingStatusConfirmed, domain.BookingStatusRejected)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	// Authorization runs against the owner snapshot taken at booking time,
	// never the live listing.
	if booking.OwnerID != actor.UserID {
		return nil, domain.ErrNotAuthorized
	}
	if !booking.Status.CanTransition(decision) {
		return nil, domain.ErrInvalidTransition
	}

	var updated bool
	if err := withRetry(ctx, s.retry, func() error {
		var err error
		updated, err = s.bookingRepo.UpdateStatus(ctx, bookingID, domain.BookingStatusPending, decision)
		return err
	}); err != nil {
		return nil, err
	}
	if !updated {
		// Lost the race against a concurrent decision.
		return nil, domain.ErrInvalidTransition
	}
	booking.Status = decision

	// The status write is committed; everything below is best-effort.
	outcome := strings.ToLower(string(decision))
	s.notifier.Emit(ctx, booking.RenterID,
		fmt.Sprintf("Your request for %s was %s.", booking.EquipmentName, outcome),
		"/dashboard")

	if renter, err := s.userRepo.GetByID(ctx, booking.RenterID); err == nil {
		if err := s.emailSvc.SendBookingDecisionNotification(ctx, renter.Email, renter.Name, booking.EquipmentName, decision); err != nil {
			logger.Warn("Failed to send booking decision email", "bookingID", bookingID, "error", err)
		}
	}

	logger.Info("Booking decided", "bookingID", bookingID, "decision", decision, "ownerID", actor.UserID)
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, actor domain.Actor, bookingID int32) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.RenterID != actor.UserID && booking.OwnerID != actor.UserID && !actor.IsAdmin() {
		return nil, domain.ErrNotAuthorized
	}
	return booking, nil
}

func (s *bookingService) ListMyBookings(ctx context.Context, actor domain.Actor, status domain.BookingStatus, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.bookingRepo.List(ctx, domain.BookingFilter{RenterID: actor.UserID, Status: status}, page, pageSize)
}

func (s *bookingService) ListIncomingRequests(ctx context.Context, actor domain.Actor, status domain.BookingStatus, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.bookingRepo.List(ctx, domain.BookingFilter{OwnerID: actor.UserID, Status: status}, page, pageSize)
}

func (s *bookingService) displayName(ctx context.Context, userID int32) string {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || u.Name == "" {
		return "A renter"
	}
	return u.Name
}
