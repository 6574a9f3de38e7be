package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xdf2508/e-family/internal/domain"
	"github.com/xdf2508/e-family/internal/repository"
)

// CatalogService serves the room catalog, backed by Postgres with a Redis
// read cache for the unfiltered list.
type CatalogService struct {
	rooms  repository.RoomRepository
	cache  RoomCache
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service. The cache may be nil, in
// which case every list goes to the database.
func NewCatalogService(rooms repository.RoomRepository, cache RoomCache, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		rooms:  rooms,
		cache:  cache,
		logger: logger,
	}
}

// ListRooms returns rooms matching the filter. Unfiltered lists are served
// from cache when possible; filtered queries always hit the database.
func (s *CatalogService) ListRooms(ctx context.Context, filter domain.RoomFilter) ([]domain.Room, error) {
	cacheable := filter == (domain.RoomFilter{})

	if cacheable && s.cache != nil {
		cached, err := s.cache.GetRooms(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "room cache read failed",
				slog.String("error", err.Error()),
			)
		} else if cached != nil {
			return cached, nil
		}
	}

	rooms, err := s.rooms.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	if cacheable && s.cache != nil {
		if err := s.cache.SetRooms(ctx, rooms); err != nil {
			s.logger.WarnContext(ctx, "room cache write failed",
				slog.String("error", err.Error()),
			)
		}
	}
	return rooms, nil
}

// GetRoom retrieves a single room by id.
func (s *CatalogService) GetRoom(ctx context.Context, id int) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get room by id: %w", err)
	}
	return room, nil
}
