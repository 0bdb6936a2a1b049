package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hospital-booking/internal/model"
)

const userColumns = `id, email, password_hash, name, role, approved, blocked, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role,
		&u.Approved, &u.Blocked, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`,
		strings.TrimSpace(email)))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))`,
		strings.TrimSpace(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, name, role, approved, blocked, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.Approved, u.Blocked, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdateName(ctx context.Context, userID string, name string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET name = $2, updated_at = $3 WHERE id = $1`,
		userID, name, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update user name: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// SetModeration updates the approved/blocked flags; nil fields keep their
// current value.
func (r *UserRepository) SetModeration(ctx context.Context, userID string, approved *bool, blocked *bool) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`UPDATE users
		 SET approved = COALESCE($2, approved),
		     blocked = COALESCE($3, blocked),
		     updated_at = $4
		 WHERE id = $1
		 RETURNING `+userColumns,
		userID, approved, blocked, time.Now().UTC()))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("set moderation flags: %w", err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.AccountUser, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, email, name, role, approved, blocked FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.AccountUser, 0)
	for rows.Next() {
		var u model.AccountUser
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.Approved, &u.Blocked); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UserCounts returns the user totals shown on the admin dashboard.
func (r *UserRepository) UserCounts(ctx context.Context) (total int, doctors int, patients int, pendingDoctors int, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE role = 'doctor' AND approved),
		       COUNT(*) FILTER (WHERE role = 'patient'),
		       COUNT(*) FILTER (WHERE role = 'doctor' AND NOT approved)
		FROM users
	`).Scan(&total, &doctors, &patients, &pendingDoctors)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("count users: %w", err)
	}
	return total, doctors, patients, pendingDoctors, nil
}
