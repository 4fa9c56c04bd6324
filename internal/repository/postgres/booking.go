package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gearup-backend/internal/domain"
	"gearup-backend/internal/repository"
	"gearup-backend/internal/utils"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, equipment_id, equipment_name, renter_id, owner_id, start_date, end_date, price_per_day, total_price, status, created_on, updated_on`

func scanBooking(row interface{ Scan(...any) error }) (*domain.Booking, error) {
	b := &domain.Booking{}
	var startDate, endDate, createdOn, updatedOn time.Time
	err := row.Scan(&b.ID, &b.EquipmentID, &b.EquipmentName, &b.RenterID, &b.OwnerID, &startDate, &endDate, &b.PricePerDay, &b.TotalPrice, &b.Status, &createdOn, &updatedOn)
	if err != nil {
		return nil, err
	}
	b.StartDate = utils.NormalizeDate(startDate)
	b.EndDate = utils.NormalizeDate(endDate)
	b.CreatedOn = utils.NormalizeDate(createdOn)
	b.UpdatedOn = utils.NormalizeDate(updatedOn)
	return b, nil
}

// CreateIfAvailable runs the availability check and the insert in one
// transaction. The FOR UPDATE lock on the equipment row serializes all
// booking writers (and the listing delete) for that equipment, so at most
// one of two racing overlapping requests can commit.
func (r *bookingRepository) CreateIfAvailable(ctx context.Context, b *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapTransient(err)
	}
	defer tx.Rollback()

	var status domain.ListingStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM equipment WHERE id = $1 FOR UPDATE`, b.EquipmentID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrListingNotFound
	}
	if err != nil {
		return wrapTransient(err)
	}
	if status != domain.ListingStatusApproved {
		return domain.ErrListingNotApproved
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM bookings WHERE equipment_id = $1 AND status <> $2 AND start_date <= $3 AND end_date >= $4`,
		b.EquipmentID, domain.BookingStatusRejected, b.EndDate, b.StartDate)
	if err != nil {
		return wrapTransient(err)
	}
	var conflicting []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return wrapTransient(err)
		}
		conflicting = append(conflicting, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return wrapTransient(err)
	}
	if len(conflicting) > 0 {
		return &domain.DateConflictError{ConflictingIDs: conflicting}
	}

	now := time.Now()
	err = tx.QueryRowContext(ctx,
		`INSERT INTO bookings (equipment_id, equipment_name, renter_id, owner_id, start_date, end_date, price_per_day, total_price, status, created_on, updated_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`,
		b.EquipmentID, b.EquipmentName, b.RenterID, b.OwnerID, b.StartDate, b.EndDate, b.PricePerDay, b.TotalPrice, b.Status, now, now).Scan(&b.ID)
	if err != nil {
		return wrapTransient(err)
	}
	b.CreatedOn = utils.NormalizeDate(now)
	b.UpdatedOn = utils.NormalizeDate(now)
	return wrapTransient(tx.Commit())
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	if err != nil {
		return nil, wrapTransient(err)
	}
	return b, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int32, fromStatus, toStatus domain.BookingStatus) (bool, error) {
	query := `UPDATE bookings SET status=$1, updated_on=$2 WHERE id=$3 AND status=$4`
	res, err := r.db.ExecContext(ctx, query, toStatus, time.Now(), id, fromStatus)
	if err != nil {
		return false, wrapTransient(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, wrapTransient(err)
	}
	return rows > 0, nil
}

func (r *bookingRepository) List(ctx context.Context, f domain.BookingFilter, page, pageSize int32) ([]domain.Booking, int32, error) {
	sqlStr := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if f.EquipmentID != 0 {
		sqlStr += fmt.Sprintf(" AND equipment_id = $%d", argIdx)
		args = append(args, f.EquipmentID)
		argIdx++
	}
	if f.RenterID != 0 {
		sqlStr += fmt.Sprintf(" AND renter_id = $%d", argIdx)
		args = append(args, f.RenterID)
		argIdx++
	}
	if f.OwnerID != 0 {
		sqlStr += fmt.Sprintf(" AND owner_id = $%d", argIdx)
		args = append(args, f.OwnerID)
		argIdx++
	}
	if f.Status != "" {
		sqlStr += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, f.Status)
		argIdx++
	}

	var count int32
	countSQL := "SELECT count(*) FROM (" + sqlStr + ") as sub"
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&count); err != nil {
		return nil, 0, wrapTransient(err)
	}

	offset := (page - 1) * pageSize
	sqlStr += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, wrapTransient(err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, wrapTransient(err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, count, wrapTransient(rows.Err())
}

func (r *bookingRepository) FindOverlapping(ctx context.Context, equipmentID int32, startDate, endDate string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE equipment_id = $1 AND status <> $2 AND start_date <= $3 AND end_date >= $4
	          ORDER BY start_date`
	rows, err := r.db.QueryContext(ctx, query, equipmentID, domain.BookingStatusRejected, endDate, startDate)
	if err != nil {
		return nil, wrapTransient(err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, wrapTransient(err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, wrapTransient(rows.Err())
}
