package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xdf2508/e-family/pkg/errors"
	"github.com/xdf2508/e-family/pkg/database"

	"github.com/xdf2508/e-family/internal/domain"
)

func newFavoriteTestFixture(t *testing.T) (*FavoriteRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewFavoriteRepository(mock)
	return repo, mock
}

func testFavorite() *domain.Favorite {
	return &domain.Favorite{
		UserID:       "user-1",
		RoomID:       2,
		RoomName:     "温馨双床房",
		RoomPrice:    328,
		RoomImage:    "/images/room2.jpg",
		FavoriteTime: time.Date(2026, time.February, 14, 20, 0, 0, 0, time.UTC),
	}
}

// ---------------------------------------------------------------------------
// Add
// ---------------------------------------------------------------------------

func TestFavoriteRepository_Add_Success(t *testing.T) {
	repo, mock := newFavoriteTestFixture(t)
	defer mock.Close()

	f := testFavorite()
	mock.ExpectExec("INSERT INTO favorites").
		WithArgs(f.UserID, f.RoomID, f.RoomName, f.RoomPrice, f.RoomImage, f.FavoriteTime).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	added, err := repo.Add(context.Background(), f)
	require.NoError(t, err)
	assert.True(t, added)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteRepository_Add_AlreadyFavorited(t *testing.T) {
	repo, mock := newFavoriteTestFixture(t)
	defer mock.Close()

	f := testFavorite()
	mock.ExpectExec("INSERT INTO favorites").
		WithArgs(f.UserID, f.RoomID, f.RoomName, f.RoomPrice, f.RoomImage, f.FavoriteTime).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	added, err := repo.Add(context.Background(), f)
	require.NoError(t, err)
	assert.False(t, added)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteRepository_Add_ExecError(t *testing.T) {
	repo, mock := newFavoriteTestFixture(t)
	defer mock.Close()

	f := testFavorite()
	mock.ExpectExec("INSERT INTO favorites").
		WithArgs(f.UserID, f.RoomID, f.RoomName, f.RoomPrice, f.RoomImage, f.FavoriteTime).
		WillReturnError(errors.New("connection refused"))

	_, err := repo.Add(context.Background(), f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "add favorite")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Remove
// ---------------------------------------------------------------------------

func TestFavoriteRepository_Remove_Success(t *testing.T) {
	repo, mock := newFavoriteTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM favorites").
		WithArgs("user-1", 2).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Remove(context.Background(), "user-1", 2)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteRepository_Remove_NotFound(t *testing.T) {
	repo, mock := newFavoriteTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM favorites").
		WithArgs("user-1", 99).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Remove(context.Background(), "user-1", 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// ListByUser
// ---------------------------------------------------------------------------

func TestFavoriteRepository_ListByUser(t *testing.T) {
	repo, mock := newFavoriteTestFixture(t)
	defer mock.Close()

	f := testFavorite()
	rows := pgxmock.NewRows([]string{
		"user_id", "room_id", "room_name", "room_price", "room_image", "favorite_time",
	}).AddRow(f.UserID, f.RoomID, f.RoomName, f.RoomPrice, f.RoomImage, f.FavoriteTime)

	mock.ExpectQuery("SELECT (.+) FROM favorites WHERE user_id =").
		WithArgs("user-1").
		WillReturnRows(rows)

	favorites, err := repo.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, 2, favorites[0].RoomID)
	assert.Equal(t, "温馨双床房", favorites[0].RoomName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteRepository_ListByUser_Empty(t *testing.T) {
	repo, mock := newFavoriteTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM favorites WHERE user_id =").
		WithArgs("user-2").
		WillReturnRows(pgxmock.NewRows([]string{
			"user_id", "room_id", "room_name", "room_price", "room_image", "favorite_time",
		}))

	favorites, err := repo.ListByUser(context.Background(), "user-2")
	require.NoError(t, err)
	assert.NotNil(t, favorites)
	assert.Empty(t, favorites)
	assert.NoError(t, mock.ExpectationsWereMet())
}
