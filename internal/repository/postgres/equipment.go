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

type equipmentRepository struct {
	db *sql.DB
}

func NewEquipmentRepository(db *sql.DB) repository.EquipmentRepository {
	return &equipmentRepository{db: db}
}

const listingColumns = `id, owner_id, name, COALESCE(description, ''), category, price_per_day, location, COALESCE(image_url, ''), rating, review_count, status, created_on, updated_on`

func scanListing(row interface{ Scan(...any) error }) (*domain.Listing, error) {
	l := &domain.Listing{}
	var createdOn, updatedOn time.Time
	err := row.Scan(&l.ID, &l.OwnerID, &l.Name, &l.Description, &l.Category, &l.PricePerDay, &l.Location, &l.ImageURL, &l.Rating, &l.ReviewCount, &l.Status, &createdOn, &updatedOn)
	if err != nil {
		return nil, err
	}
	l.CreatedOn = utils.NormalizeDate(createdOn)
	l.UpdatedOn = utils.NormalizeDate(updatedOn)
	return l, nil
}

func (r *equipmentRepository) Create(ctx context.Context, l *domain.Listing) error {
	query := `INSERT INTO equipment (owner_id, name, description, category, price_per_day, location, image_url, rating, review_count, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, 0, 0, $8, $9, $10) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query, l.OwnerID, l.Name, l.Description, l.Category, l.PricePerDay, l.Location, l.ImageURL, l.Status, now, now).Scan(&l.ID)
	return wrapTransient(err)
}

func (r *equipmentRepository) GetByID(ctx context.Context, id int32) (*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM equipment WHERE id = $1`
	l, err := scanListing(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrListingNotFound
	}
	if err != nil {
		return nil, wrapTransient(err)
	}
	return l, nil
}

func (r *equipmentRepository) Update(ctx context.Context, l *domain.Listing) error {
	query := `UPDATE equipment SET name=$1, description=$2, category=$3, price_per_day=$4, location=$5, image_url=$6, updated_on=$7 WHERE id=$8`
	res, err := r.db.ExecContext(ctx, query, l.Name, l.Description, l.Category, l.PricePerDay, l.Location, l.ImageURL, time.Now(), l.ID)
	if err != nil {
		return wrapTransient(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return wrapTransient(err)
	}
	if rows == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *equipmentRepository) List(ctx context.Context, f domain.ListingFilter, page, pageSize int32) ([]domain.Listing, int32, error) {
	sqlStr := `SELECT ` + listingColumns + ` FROM equipment WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if f.Status != "" {
		sqlStr += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, f.Status)
		argIdx++
	}
	if f.OwnerID != 0 {
		sqlStr += fmt.Sprintf(" AND owner_id = $%d", argIdx)
		args = append(args, f.OwnerID)
		argIdx++
	}
	if f.Category != "" {
		sqlStr += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, f.Category)
		argIdx++
	}
	if f.Query != "" {
		sqlStr += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+f.Query+"%")
		argIdx++
	}
	if f.MaxPricePerDay != 0 {
		sqlStr += fmt.Sprintf(" AND price_per_day <= $%d", argIdx)
		args = append(args, f.MaxPricePerDay)
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

	var listings []domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, 0, wrapTransient(err)
		}
		listings = append(listings, *l)
	}
	return listings, count, wrapTransient(rows.Err())
}

func (r *equipmentRepository) UpdateStatus(ctx context.Context, id int32, fromStatus, toStatus domain.ListingStatus) (bool, error) {
	query := `UPDATE equipment SET status=$1, updated_on=$2 WHERE id=$3 AND status=$4`
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

func (r *equipmentRepository) DeleteIfPending(ctx context.Context, id int32) (bool, error) {
	query := `DELETE FROM equipment WHERE id=$1 AND status=$2`
	res, err := r.db.ExecContext(ctx, query, id, domain.ListingStatusPending)
	if err != nil {
		return false, wrapTransient(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, wrapTransient(err)
	}
	return rows > 0, nil
}

// DeleteIfNoActiveBookings locks the equipment row before counting pending
// bookings. Booking creation takes the same row lock, so no booking can
// appear between the count and the delete.
func (r *equipmentRepository) DeleteIfNoActiveBookings(ctx context.Context, id int32) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapTransient(err)
	}
	defer tx.Rollback()

	var locked int32
	err = tx.QueryRowContext(ctx, `SELECT id FROM equipment WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrListingNotFound
	}
	if err != nil {
		return wrapTransient(err)
	}

	var pending int32
	err = tx.QueryRowContext(ctx, `SELECT count(*) FROM bookings WHERE equipment_id = $1 AND status = $2`, id, domain.BookingStatusPending).Scan(&pending)
	if err != nil {
		return wrapTransient(err)
	}
	if pending > 0 {
		return domain.ErrActiveBookingsExist
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM equipment WHERE id = $1`, id); err != nil {
		return wrapTransient(err)
	}
	return wrapTransient(tx.Commit())
}
