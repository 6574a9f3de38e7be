package postgres

import (
	"context"
	"fmt"
	"strconv"

	apperrors "github.com/xdf2508/e-family/pkg/errors"
	"github.com/xdf2508/e-family/pkg/database"

	"github.com/xdf2508/e-family/internal/domain"
)

// FavoriteRepository implements repository.FavoriteRepository using PostgreSQL.
type FavoriteRepository struct {
	db database.DBTX
}

// NewFavoriteRepository creates a new PostgreSQL-backed favorite repository.
func NewFavoriteRepository(db database.DBTX) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add inserts the favorite. ON CONFLICT DO NOTHING closes the
// check-then-write gap: of N concurrent adds exactly one row is inserted,
// and every loser observes zero rows affected.
func (r *FavoriteRepository) Add(ctx context.Context, f *domain.Favorite) (bool, error) {
	query := `
		INSERT INTO favorites (user_id, room_id, room_name, room_price, room_image, favorite_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, room_id) DO NOTHING`

	ct, err := r.db.Exec(ctx, query,
		f.UserID,
		f.RoomID,
		f.RoomName,
		f.RoomPrice,
		f.RoomImage,
		f.FavoriteTime,
	)
	if err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}

	return ct.RowsAffected() > 0, nil
}

// Remove deletes the favorite. The rows-affected check makes a second
// remove fail rather than silently succeed.
func (r *FavoriteRepository) Remove(ctx context.Context, userID string, roomID int) error {
	query := `DELETE FROM favorites WHERE user_id = $1 AND room_id = $2`

	ct, err := r.db.Exec(ctx, query, userID, roomID)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("favorite", strconv.Itoa(roomID))
	}

	return nil
}

// ListByUser returns the user's favorites, newest first.
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error) {
	query := `
		SELECT user_id, room_id, room_name, room_price, room_image, favorite_time
		FROM favorites
		WHERE user_id = $1
		ORDER BY favorite_time DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var favorites []domain.Favorite
	for rows.Next() {
		var f domain.Favorite
		if err := rows.Scan(
			&f.UserID,
			&f.RoomID,
			&f.RoomName,
			&f.RoomPrice,
			&f.RoomImage,
			&f.FavoriteTime,
		); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		favorites = append(favorites, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorite rows: %w", err)
	}

	if favorites == nil {
		favorites = []domain.Favorite{}
	}

	return favorites, nil
}
