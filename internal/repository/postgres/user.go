package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gearup-backend/internal/domain"
	"gearup-backend/internal/repository"
	"gearup-backend/internal/utils"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// User ids are assigned by the identity provider, so inserts carry an
// explicit id instead of using a sequence.
func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (id, email, name, role, created_on) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, u.ID, u.Email, u.Name, u.Role, time.Now())
	return wrapTransient(err)
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	var createdOn time.Time
	query := `SELECT id, email, COALESCE(name, ''), role, created_on FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &createdOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, wrapTransient(err)
	}
	u.CreatedOn = utils.NormalizeDate(createdOn)
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	var createdOn time.Time
	query := `SELECT id, email, COALESCE(name, ''), role, created_on FROM users WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &createdOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, wrapTransient(err)
	}
	u.CreatedOn = utils.NormalizeDate(createdOn)
	return u, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `SELECT id, email, COALESCE(name, ''), role, created_on FROM users ORDER BY created_on`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapTransient(err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		var createdOn time.Time
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &createdOn); err != nil {
			return nil, wrapTransient(err)
		}
		u.CreatedOn = utils.NormalizeDate(createdOn)
		users = append(users, u)
	}
	return users, wrapTransient(rows.Err())
}

func (r *userRepository) UpdateRole(ctx context.Context, id int32, role domain.UserRole) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET role = $1 WHERE id = $2`, role, id)
	if err != nil {
		return wrapTransient(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return wrapTransient(err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return wrapTransient(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return wrapTransient(err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
