package service

import (
	"context"
	"fmt"
	"strings"

	"gearup-backend/internal/domain"
	"gearup-backend/internal/logger"
	"gearup-backend/internal/repository"
)

type catalogService struct {
	equipmentRepo repository.EquipmentRepository
	userRepo      repository.UserRepository
	notifier      Notifier
	emailSvc      EmailService
	retry         RetryConfig
}

func NewCatalogService(
	equipmentRepo repository.EquipmentRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	emailSvc EmailService,
	retry RetryConfig,
) CatalogService {
	return &catalogService{
		equipmentRepo: equipmentRepo,
		userRepo:      userRepo,
		notifier:      notifier,
		emailSvc:      emailSvc,
		retry:         retry,
	}
}

func validateListing(l *domain.Listing) error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidListing)
	}
	if l.PricePerDay <= 0 {
		return fmt.Errorf("%w: price per day must be positive", domain.ErrInvalidListing)
	}
	return nil
}

func (s *catalogService) SubmitListing(ctx context.Context, actor domain.Actor, listing *domain.Listing) error {
	if actor.Role != domain.UserRoleOwner && !actor.IsAdmin() {
		return domain.ErrNotAuthorized
	}
	if err := validateListing(listing); err != nil {
		return err
	}
	// Every listing enters moderation; rating and review count start at
	// zero and are only ever derived from reviews.
	listing.OwnerID = actor.UserID
	listing.Status = domain.ListingStatusPending
	listing.Rating = 0
	listing.ReviewCount = 0

	if err := withRetry(ctx, s.retry, func() error {
		return s.equipmentRepo.Create(ctx, listing)
	}); err != nil {
		return err
	}
	logger.Info("Listing submitted for moderation", "listingID", listing.ID, "ownerID", actor.UserID)
	return nil
}

// GetListing hides listings still in moderation: only the owner or an admin
// can see a non-approved listing. Everyone else gets not-found rather than a
// hint that the listing exists.
func (s *catalogService) GetListing(ctx context.Context, actor domain.Actor, id int32) (*domain.Listing, error) {
	listing, err := s.equipmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.Status != domain.ListingStatusApproved && listing.OwnerID != actor.UserID && !actor.IsAdmin() {
		return nil, domain.ErrListingNotFound
	}
	return listing, nil
}

// UpdateListing rewrites the owner-editable content fields. Status, owner,
// rating and review count are immutable here regardless of input.
func (s *catalogService) UpdateListing(ctx context.Context, actor domain.Actor, listing *domain.Listing) (*domain.Listing, error) {
	existing, err := s.equipmentRepo.GetByID(ctx, listing.ID)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != actor.UserID {
		return nil, domain.ErrNotAuthorized
	}
	if err := validateListing(listing); err != nil {
		return nil, err
	}

	existing.Name = listing.Name
	existing.Description = listing.Description
	existing.Category = listing.Category
	existing.PricePerDay = listing.PricePerDay
	existing.Location = listing.Location
	existing.ImageURL = listing.ImageURL

	if err := withRetry(ctx, s.retry, func() error {
		return s.equipmentRepo.Update(ctx, existing)
	}); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteListing removes a listing unless a pending booking still references
// it; orphaning an undecided request is never allowed.
func (s *catalogService) DeleteListing(ctx context.Context, actor domain.Actor, id int32) error {
	listing, err := s.equipmentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if listing.OwnerID != actor.UserID && !actor.IsAdmin() {
		return domain.ErrNotAuthorized
	}
	if err := withRetry(ctx, s.retry, func() error {
		return s.equipmentRepo.DeleteIfNoActiveBookings(ctx, id)
	}); err != nil {
		return err
	}
	logger.Info("Listing deleted", "listingID", id, "actorID", actor.UserID)
	return nil
}

func (s *catalogService) Moderate(ctx context.Context, actor domain.Actor, listingID int32, decision domain.ListingStatus) (*domain.Listing, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrNotAuthorized
	}
	if decision != domain.ListingStatusApproved && decision != domain.ListingStatusRejected {
		return nil, fmt.Errorf("%w: decision must be %s or %s", domain.ErrNotPending, domain.ListingStatusApproved, domain.ListingStatusRejected)
	}

	listing, err := s.equipmentRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.Status != domain.ListingStatusPending {
		return nil, domain.ErrNotPending
	}

	switch decision {
	case domain.ListingStatusApproved:
		var updated bool
		if err := withRetry(ctx, s.retry, func() error {
			var err error
			updated, err = s.equipmentRepo.UpdateStatus(ctx, listingID, domain.ListingStatusPending, domain.ListingStatusApproved)
			return err
		}); err != nil {
			return nil, err
		}
		if !updated {
			return nil, domain.ErrNotPending
		}
		listing.Status = domain.ListingStatusApproved
		s.notifyOwner(ctx, listing, true)

	case domain.ListingStatusRejected:
		// Rejection removes the listing entirely; it never becomes
		// visible and cannot be resubmitted under the same id.
		var deleted bool
		if err := withRetry(ctx, s.retry, func() error {
			var err error
			deleted, err = s.equipmentRepo.DeleteIfPending(ctx, listingID)
			return err
		}); err != nil {
			return nil, err
		}
		if !deleted {
			return nil, domain.ErrNotPending
		}
		listing.Status = domain.ListingStatusRejected
		s.notifyOwner(ctx, listing, false)
	}

	logger.Info("Listing moderated", "listingID", listingID, "decision", decision, "adminID", actor.UserID)
	return listing, nil
}

func (s *catalogService) notifyOwner(ctx context.Context, listing *domain.Listing, approved bool) {
	if approved {
		s.notifier.Emit(ctx, listing.OwnerID,
			fmt.Sprintf("Your listing %s was approved and is now live.", listing.Name),
			"/owner/listings")
	} else {
		s.notifier.Emit(ctx, listing.OwnerID,
			fmt.Sprintf("Your listing %s was rejected and has been removed.", listing.Name),
			"/owner/listings")
	}

	owner, err := s.userRepo.GetByID(ctx, listing.OwnerID)
	if err != nil {
		return
	}
	if err := s.emailSvc.SendListingModerationNotification(ctx, owner.Email, owner.Name, listing.Name, approved); err != nil {
		logger.Warn("Failed to send moderation email", "listingID", listing.ID, "error", err)
	}
}

func (s *catalogService) ListApproved(ctx context.Context, filter domain.ListingFilter, page, pageSize int32) ([]domain.Listing, int32, error) {
	filter.Status = domain.ListingStatusApproved
	filter.OwnerID = 0
	return s.equipmentRepo.List(ctx, filter, page, pageSize)
}

func (s *catalogService) ListMyListings(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.Listing, int32, error) {
	return s.equipmentRepo.List(ctx, domain.ListingFilter{OwnerID: actor.UserID}, page, pageSize)
}

func (s *catalogService) ListPending(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.Listing, int32, error) {
	if !actor.IsAdmin() {
		return nil, 0, domain.ErrNotAuthorized
	}
	return s.equipmentRepo.List(ctx, domain.ListingFilter{Status: domain.ListingStatusPending}, page, pageSize)
}
