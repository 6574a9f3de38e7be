package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/xdf2508/e-family/pkg/errors"

	"github.com/xdf2508/e-family/internal/domain"
	"github.com/xdf2508/e-family/internal/repository"
)

// FavoriteService implements the user's room favorites.
type FavoriteService struct {
	favorites repository.FavoriteRepository
	rooms     repository.RoomRepository
	producer  EventPublisher
	logger    *slog.Logger
}

// NewFavoriteService creates a new favorite service.
func NewFavoriteService(favorites repository.FavoriteRepository, rooms repository.RoomRepository, producer EventPublisher, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{
		favorites: favorites,
		rooms:     rooms,
		producer:  producer,
		logger:    logger,
	}
}

// AddFavorite adds the room to the user's favorites, snapshotting the room
// name, price and image. Adding a room twice fails with a conflict.
func (s *FavoriteService) AddFavorite(ctx context.Context, userID string, roomID int) (*domain.Favorite, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("get room for favorite: %w", err)
	}

	favorite := &domain.Favorite{
		UserID:       userID,
		RoomID:       room.ID,
		RoomName:     room.Name,
		RoomPrice:    room.Price,
		RoomImage:    room.Image,
		FavoriteTime: time.Now().UTC(),
	}

	added, err := s.favorites.Add(ctx, favorite)
	if err != nil {
		return nil, fmt.Errorf("add favorite: %w", err)
	}
	if !added {
		return nil, apperrors.Conflict("room is already in favorites")
	}

	if err := s.producer.PublishFavoriteAdded(ctx, favorite); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish favorite.added event",
			slog.String("user_id", userID),
			slog.Int("room_id", roomID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "favorite added",
		slog.String("user_id", userID),
		slog.Int("room_id", roomID),
	)

	return favorite, nil
}

// RemoveFavorite removes the room from the user's favorites.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID string, roomID int) error {
	if err := s.favorites.Remove(ctx, userID, roomID); err != nil {
		return err
	}

	if err := s.producer.PublishFavoriteRemoved(ctx, userID, roomID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish favorite.removed event",
			slog.String("user_id", userID),
			slog.Int("room_id", roomID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "favorite removed",
		slog.String("user_id", userID),
		slog.Int("room_id", roomID),
	)
	return nil
}

// ListFavorites returns the user's favorites, newest first.
func (s *FavoriteService) ListFavorites(ctx context.Context, userID string) ([]domain.Favorite, error) {
	favorites, err := s.favorites.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favorites, nil
}
