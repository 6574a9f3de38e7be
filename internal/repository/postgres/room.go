package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/xdf2508/e-family/pkg/errors"
	"github.com/xdf2508/e-family/pkg/database"

	"github.com/xdf2508/e-family/internal/domain"
)

const roomColumns = `id, name, price, description, image, tags, rating, location, facilities, check_in_time, check_out_time`

// RoomRepository implements repository.RoomRepository using PostgreSQL.
// Rooms are seeded by migration; this repository only reads.
type RoomRepository struct {
	db database.DBTX
}

// NewRoomRepository creates a new PostgreSQL-backed room repository.
func NewRoomRepository(db database.DBTX) *RoomRepository {
	return &RoomRepository{db: db}
}

// GetByID retrieves a room by its identifier.
func (r *RoomRepository) GetByID(ctx context.Context, id int) (*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`

	var room domain.Room
	err := r.db.QueryRow(ctx, query, id).Scan(
		&room.ID,
		&room.Name,
		&room.Price,
		&room.Description,
		&room.Image,
		&room.Tags,
		&room.Rating,
		&room.Location,
		&room.Facilities,
		&room.CheckInTime,
		&room.CheckOutTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("room", strconv.Itoa(id))
		}
		return nil, fmt.Errorf("scan room: %w", err)
	}

	return &room, nil
}

// List returns rooms matching the filter, in id order. Keyword matches
// against name, description, and any tag.
func (r *RoomRepository) List(ctx context.Context, filter domain.RoomFilter) ([]domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms`

	var conds []string
	var args []any

	if filter.Keyword != "" {
		args = append(args, "%"+filter.Keyword+"%")
		p := strconv.Itoa(len(args))
		conds = append(conds, `(name LIKE $`+p+` OR description LIKE $`+p+
			` OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag LIKE $`+p+`))`)
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		conds = append(conds, `$`+strconv.Itoa(len(args))+` = ANY(tags)`)
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		conds = append(conds, `price >= $`+strconv.Itoa(len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		conds = append(conds, `price <= $`+strconv.Itoa(len(args)))
	}

	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(
			&room.ID,
			&room.Name,
			&room.Price,
			&room.Description,
			&room.Image,
			&room.Tags,
			&room.Rating,
			&room.Location,
			&room.Facilities,
			&room.CheckInTime,
			&room.CheckOutTime,
		); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate room rows: %w", err)
	}

	if rooms == nil {
		rooms = []domain.Room{}
	}

	return rooms, nil
}
