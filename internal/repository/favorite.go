package repository

import (
	"context"
	"errors"
	"fmt"

	"apod-bot/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const favoriteColumns = `id::text, user_id, to_char(pic_date, 'YYYY-MM-DD'), added_at`

// FavoriteRepository handles database operations for favorites
type FavoriteRepository struct {
	db *pgxpool.Pool
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(db *pgxpool.Pool) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Create inserts a favorite. The (user_id, pic_date) unique constraint
// turns a concurrent duplicate into ErrDuplicateEntry.
func (r *FavoriteRepository) Create(ctx context.Context, fav *models.Favorite) error {
	query := `
		INSERT INTO favorites (id, user_id, pic_date, added_at)
		VALUES ($1, $2, $3::date, $4)
	`
	_, err := r.db.Exec(ctx, query, fav.ID, fav.UserID, fav.PicDate, fav.AddedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create favorite: %w", err)
	}
	return nil
}

// Exists checks if the user already bookmarked the date
func (r *FavoriteRepository) Exists(ctx context.Context, userID int64, date string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND pic_date = $2::date)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check favorite existence: %w", err)
	}
	return exists, nil
}

// GetByDate retrieves a user's favorite for a picture date
func (r *FavoriteRepository) GetByDate(ctx context.Context, userID int64, date string) (*models.Favorite, error) {
	query := `
		SELECT ` + favoriteColumns + `
		FROM favorites
		WHERE user_id = $1 AND pic_date = $2::date
	`
	var fav models.Favorite
	err := r.db.QueryRow(ctx, query, userID, date).Scan(&fav.ID, &fav.UserID, &fav.PicDate, &fav.AddedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get favorite: %w", err)
	}
	return &fav, nil
}

// ListByUser retrieves a user's favorites, most recently added first.
// A non-positive limit returns all of them.
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*models.Favorite, error) {
	query := `
		SELECT ` + favoriteColumns + `
		FROM favorites
		WHERE user_id = $1
		ORDER BY added_at DESC, seq DESC
	`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	var favs []*models.Favorite
	for rows.Next() {
		var fav models.Favorite
		if err := rows.Scan(&fav.ID, &fav.UserID, &fav.PicDate, &fav.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favs = append(favs, &fav)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating favorites: %w", err)
	}

	return favs, nil
}
