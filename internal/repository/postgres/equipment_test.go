package postgres_test

import (
	"context"
	"testing"
	"time"

	"gearup-backend/internal/domain"
	"gearup-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var listingCols = []string{"id", "owner_id", "name", "description", "category", "price_per_day", "location", "image_url", "rating", "review_count", "status", "created_on", "updated_on"}

func TestEquipmentRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewEquipmentRepository(db)
	ctx := context.Background()

	listing := &domain.Listing{
		OwnerID:     10,
		Name:        "Canon EOS R5",
		Description: "Mirrorless camera",
		Category:    "cameras",
		PricePerDay: 1500,
		Location:    "Mumbai",
		Status:      domain.ListingStatusPending,
	}

	mock.ExpectQuery("INSERT INTO equipment").
		WithArgs(listing.OwnerID, listing.Name, listing.Description, listing.Category, listing.PricePerDay, listing.Location, listing.ImageURL, listing.Status, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	err = repo.Create(ctx, listing)
	assert.NoError(t, err)
	assert.Equal(t, int32(2), listing.ID)
}

func TestEquipmentRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewEquipmentRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(listingCols).
			AddRow(2, 10, "Canon EOS R5", "Mirrorless camera", "cameras", 1500, "Mumbai", "", 4.5, 12, "APPROVED", time.Now(), time.Now())

		mock.ExpectQuery(`SELECT (.+) FROM equipment WHERE id = \$1`).
			WithArgs(int32(2)).
			WillReturnRows(rows)

		listing, err := repo.GetByID(ctx, 2)
		assert.NoError(t, err)
		assert.Equal(t, int32(2), listing.ID)
		assert.Equal(t, domain.ListingStatusApproved, listing.Status)
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM equipment WHERE id = \$1`).
			WithArgs(int32(404)).
			WillReturnRows(sqlmock.NewRows(listingCols))

		_, err := repo.GetByID(ctx, 404)
		assert.ErrorIs(t, err, domain.ErrListingNotFound)
	})
}

func TestEquipmentRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewEquipmentRepository(db)
	ctx := context.Background()

	t.Run("Pending Listing Approved", func(t *testing.T) {
		mock.ExpectExec(`UPDATE equipment SET status=\$1, updated_on=\$2 WHERE id=\$3 AND status=\$4`).
			WithArgs(domain.ListingStatusApproved, sqlmock.AnyArg(), int32(2), domain.ListingStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		updated, err := repo.UpdateStatus(ctx, 2, domain.ListingStatusPending, domain.ListingStatusApproved)
		assert.NoError(t, err)
		assert.True(t, updated)
	})

	t.Run("Already Moderated", func(t *testing.T) {
		mock.ExpectExec(`UPDATE equipment SET status=\$1, updated_on=\$2 WHERE id=\$3 AND status=\$4`).
			WithArgs(domain.ListingStatusApproved, sqlmock.AnyArg(), int32(2), domain.ListingStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))

		updated, err := repo.UpdateStatus(ctx, 2, domain.ListingStatusPending, domain.ListingStatusApproved)
		assert.NoError(t, err)
		assert.False(t, updated)
	})
}

func TestEquipmentRepository_DeleteIfNoActiveBookings(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewEquipmentRepository(db)
	ctx := context.Background()

	t.Run("No Pending Bookings", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM equipment WHERE id = \$1 FOR UPDATE`).
			WithArgs(int32(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		mock.ExpectQuery(`SELECT count\(\*\) FROM bookings WHERE equipment_id = \$1 AND status = \$2`).
			WithArgs(int32(2), domain.BookingStatusPending).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`DELETE FROM equipment WHERE id = \$1`).
			WithArgs(int32(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.DeleteIfNoActiveBookings(ctx, 2))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Pending Booking Blocks Delete", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM equipment WHERE id = \$1 FOR UPDATE`).
			WithArgs(int32(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
		mock.ExpectQuery(`SELECT count\(\*\) FROM bookings WHERE equipment_id = \$1 AND status = \$2`).
			WithArgs(int32(2), domain.BookingStatusPending).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectRollback()

		err := repo.DeleteIfNoActiveBookings(ctx, 2)
		assert.ErrorIs(t, err, domain.ErrActiveBookingsExist)
	})

	t.Run("Listing Missing", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM equipment WHERE id = \$1 FOR UPDATE`).
			WithArgs(int32(404)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		err := repo.DeleteIfNoActiveBookings(ctx, 404)
		assert.ErrorIs(t, err, domain.ErrListingNotFound)
	})
}

func TestEquipmentRepository_DeleteIfPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewEquipmentRepository(db)
	ctx := context.Background()

	mock.ExpectExec(`DELETE FROM equipment WHERE id=\$1 AND status=\$2`).
		WithArgs(int32(2), domain.ListingStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.DeleteIfPending(ctx, 2)
	assert.NoError(t, err)
	assert.True(t, deleted)
}
