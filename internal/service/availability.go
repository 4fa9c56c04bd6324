package service

import (
	"context"
	"fmt"

	"gearup-backend/internal/domain"
	"gearup-backend/internal/repository"
	"gearup-backend/internal/utils"
)

type availabilityService struct {
	bookingRepo   repository.BookingRepository
	equipmentRepo repository.EquipmentRepository
}

func NewAvailabilityService(bookingRepo repository.BookingRepository, equipmentRepo repository.EquipmentRepository) AvailabilityService {
	return &availabilityService{bookingRepo: bookingRepo, equipmentRepo: equipmentRepo}
}

// CheckAvailability reports whether [startDate, endDate] collides with any
// non-rejected booking of the equipment. Pending bookings reserve their
// range so two overlapping requests can never both be honored. Pure read;
// CreateBooking repeats this check transactionally before writing.
func (s *availabilityService) CheckAvailability(ctx context.Context, equipmentID int32, startDate, endDate string) (*AvailabilityResult, error) {
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

	listing, err := s.equipmentRepo.GetByID(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	if listing.Status != domain.ListingStatusApproved {
		return nil, domain.ErrListingNotApproved
	}

	overlapping, err := s.bookingRepo.FindOverlapping(ctx, equipmentID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	if len(overlapping) == 0 {
		return &AvailabilityResult{Available: true}, nil
	}
	ids := make([]int32, 0, len(overlapping))
	for _, b := range overlapping {
		ids = append(ids, b.ID)
	}
	return &AvailabilityResult{Available: false, ConflictingIDs: ids}, nil
}
