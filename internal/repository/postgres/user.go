package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/xdf2508/e-family/pkg/errors"
	"github.com/xdf2508/e-family/pkg/database"

	"github.com/xdf2508/e-family/internal/domain"
)

const userColumns = `id, openid, user_name, avatar, phone, points, coupons, vip_level, register_time, updated_at`

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// GetOrCreate returns the user registered for u.OpenID, inserting u when no
// record exists. ON CONFLICT DO NOTHING followed by a re-read keeps
// concurrent first logins from racing: exactly one insert wins and everyone
// reads the same row.
func (r *UserRepository) GetOrCreate(ctx context.Context, u *domain.User) (*domain.User, bool, error) {
	query := `
		INSERT INTO users (id, openid, user_name, avatar, phone, points, coupons, vip_level, register_time, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (openid) DO NOTHING`

	ct, err := r.db.Exec(ctx, query,
		u.ID,
		u.OpenID,
		u.UserName,
		u.Avatar,
		u.Phone,
		u.Points,
		u.Coupons,
		u.VipLevel,
		u.RegisterTime,
		u.UpdatedAt,
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert user: %w", err)
	}

	created := ct.RowsAffected() > 0

	stored, err := r.GetByOpenID(ctx, u.OpenID)
	if err != nil {
		return nil, false, err
	}

	return stored, created, nil
}

// GetByID retrieves a user by their identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(ctx, query, id)
}

// GetByOpenID retrieves a user by their provider openid.
func (r *UserRepository) GetByOpenID(ctx context.Context, openid string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE openid = $1`
	return r.scanUser(ctx, query, openid)
}

// Update modifies an existing user's profile fields.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	u.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET user_name = $1, avatar = $2, phone = $3, updated_at = $4
		WHERE id = $5`

	ct, err := r.db.Exec(ctx, query,
		u.UserName,
		u.Avatar,
		u.Phone,
		u.UpdatedAt,
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", u.ID)
	}

	return nil
}

// Counts returns the user's live order and favorite counts in one round trip.
func (r *UserRepository) Counts(ctx context.Context, userID string) (int, int, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM orders WHERE user_id = $1),
			(SELECT COUNT(*) FROM favorites WHERE user_id = $1)`

	var orders, favorites int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&orders, &favorites); err != nil {
		return 0, 0, fmt.Errorf("count user collections: %w", err)
	}

	return orders, favorites, nil
}

// scanUser executes a query expected to return a single user row.
func (r *UserRepository) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var u domain.User

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.OpenID,
		&u.UserName,
		&u.Avatar,
		&u.Phone,
		&u.Points,
		&u.Coupons,
		&u.VipLevel,
		&u.RegisterTime,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &u, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
