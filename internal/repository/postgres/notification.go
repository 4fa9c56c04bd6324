package postgres

import (
	"context"
	"database/sql"
	"time"

	"gearup-backend/internal/domain"
	"gearup-backend/internal/logger"
	"gearup-backend/internal/repository"
	"gearup-backend/internal/utils"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	logger.EnterMethod("notificationRepository.Create", "userID", n.UserID, "link", n.Link)

	query := `INSERT INTO notifications (user_id, message, link, is_read, created_on)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	logger.DatabaseCall("INSERT", "notifications", "userID", n.UserID)

	err := r.db.QueryRowContext(ctx, query, n.UserID, n.Message, n.Link, n.IsRead, time.Now()).Scan(&n.ID)
	logger.DatabaseResult("INSERT", 1, err, "notificationID", n.ID)

	if err != nil {
		logger.ExitMethodWithError("notificationRepository.Create", err, "userID", n.UserID)
		return wrapTransient(err)
	}
	logger.ExitMethod("notificationRepository.Create", "notificationID", n.ID)
	return nil
}

func (r *notificationRepository) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	query := `SELECT id, user_id, message, link, is_read, created_on
	          FROM notifications WHERE user_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, wrapTransient(err)
	}
	defer rows.Close()

	var count int32
	countQuery := `SELECT count(*) FROM notifications WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&count); err != nil {
		return nil, 0, wrapTransient(err)
	}

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var createdOn time.Time
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Link, &n.IsRead, &createdOn); err != nil {
			return nil, 0, wrapTransient(err)
		}
		n.CreatedOn = utils.NormalizeDate(createdOn)
		notes = append(notes, n)
	}
	return notes, count, wrapTransient(rows.Err())
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID int32) (int32, error) {
	var count int32
	query := `SELECT count(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, wrapTransient(err)
	}
	return count, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID int32) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return wrapTransient(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return wrapTransient(err)
	}
	if rows == 0 {
		return domain.ErrNotAuthorized
	}
	return nil
}
