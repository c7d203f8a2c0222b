package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"apod-bot/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPool connects to the database named by APODBOT_TEST_DSN. The
// tables are dropped and recreated, so point it at a scratch database.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("APODBOT_TEST_DSN")
	if dsn == "" {
		t.Skip("APODBOT_TEST_DSN is not set")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = db.Exec(ctx, `DROP TABLE IF EXISTS favorites, users`)
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, db))
	return db
}

func TestUserRepository(t *testing.T) {
	db := testPool(t)
	ctx := context.Background()
	users := NewUserRepository(db)

	exists, err := users.Exists(ctx, 42)
	require.NoError(t, err)
	assert.False(t, exists)

	u := &models.User{ID: 42, FirstName: "Ada", Username: "ada", CreatedAt: time.Now()}
	require.NoError(t, users.Create(ctx, u))
	assert.ErrorIs(t, users.Create(ctx, u), ErrDuplicateEntry)

	exists, err = users.Exists(ctx, 42)
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := users.GetByID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.FirstName)

	_, err = users.GetByID(ctx, 7)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := users.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestFavoriteRepository(t *testing.T) {
	db := testPool(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	favs := NewFavoriteRepository(db)

	require.NoError(t, users.Create(ctx, &models.User{ID: 1, FirstName: "A", CreatedAt: time.Now()}))

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, date := range []string{"2021-01-01", "2021-06-01", "2022-01-01"} {
		err := favs.Create(ctx, &models.Favorite{
			ID:      uuid.NewString(),
			UserID:  1,
			PicDate: date,
			AddedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	err := favs.Create(ctx, &models.Favorite{ID: uuid.NewString(), UserID: 1, PicDate: "2021-06-01", AddedAt: time.Now()})
	assert.ErrorIs(t, err, ErrDuplicateEntry)

	list, err := favs.ListByUser(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "2022-01-01", list[0].PicDate)
	assert.Equal(t, "2021-06-01", list[1].PicDate)
	assert.Equal(t, "2021-01-01", list[2].PicDate)

	latest, err := favs.ListByUser(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "2022-01-01", latest[0].PicDate)

	exists, err := favs.Exists(ctx, 1, "2021-06-01")
	require.NoError(t, err)
	assert.True(t, exists)

	fav, err := favs.GetByDate(ctx, 1, "2021-01-01")
	require.NoError(t, err)
	assert.Equal(t, int64(1), fav.UserID)

	_, err = favs.GetByDate(ctx, 1, "2000-01-01")
	assert.ErrorIs(t, err, ErrNotFound)
}
