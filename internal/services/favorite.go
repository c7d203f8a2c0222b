package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"apod-bot/internal/models"
	"apod-bot/internal/repository"

	"github.com/google/uuid"
)

// FavoriteStore persists favorites
type FavoriteStore interface {
	Create(ctx context.Context, fav *models.Favorite) error
	Exists(ctx context.Context, userID int64, date string) (bool, error)
	GetByDate(ctx context.Context, userID int64, date string) (*models.Favorite, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]*models.Favorite, error)
}

// AddResult is the outcome of bookmarking a date
type AddResult int

const (
	Added AddResult = iota + 1
	AlreadyExists
)

// Neighborhood holds the favorites adjacent to one favorite in add order.
// Empty fields mean there is no neighbor on that side.
type Neighborhood struct {
	// Previous is the next-older favorite
	Previous string
	// Next is the next-more-recent favorite
	Next string
}

// FavoriteService handles favorite-related business logic
type FavoriteService struct {
	favRepo FavoriteStore

	mu      sync.Mutex
	now     func() time.Time
	lastAdd time.Time
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(favRepo FavoriteStore) *FavoriteService {
	return &FavoriteService{
		favRepo: favRepo,
		now:     time.Now,
	}
}

// Add bookmarks date for the user unless it is already bookmarked
func (s *FavoriteService) Add(ctx context.Context, userID int64, date string) (AddResult, error) {
	exists, err := s.favRepo.Exists(ctx, userID, date)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if exists {
		return AlreadyExists, nil
	}

	fav := &models.Favorite{
		ID:      uuid.NewString(),
		UserID:  userID,
		PicDate: date,
		AddedAt: s.nextAddedAt(),
	}
	if err := s.favRepo.Create(ctx, fav); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return AlreadyExists, nil
		}
		return 0, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return Added, nil
}

// nextAddedAt returns a timestamp strictly after every one handed out
// before, at the store's microsecond resolution
func (s *FavoriteService) nextAddedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.now().UTC().Truncate(time.Microsecond)
	if !t.After(s.lastAdd) {
		t = s.lastAdd.Add(time.Microsecond)
	}
	s.lastAdd = t
	return t
}

// List returns the user's favorites, most recently added first
func (s *FavoriteService) List(ctx context.Context, userID int64) ([]*models.Favorite, error) {
	favs, err := s.favRepo.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	sortByAddedDesc(favs)
	return favs, nil
}

// Latest returns the most recently added favorite, or ErrFavoriteNotFound
// if the user has none
func (s *FavoriteService) Latest(ctx context.Context, userID int64) (*models.Favorite, error) {
	favs, err := s.favRepo.ListByUser(ctx, userID, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if len(favs) == 0 {
		return nil, ErrFavoriteNotFound
	}
	return favs[0], nil
}

// Neighbors finds the favorites added right before and right after the
// user's favorite for date
func (s *FavoriteService) Neighbors(ctx context.Context, userID int64, date string) (Neighborhood, error) {
	if _, err := s.favRepo.GetByDate(ctx, userID, date); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Neighborhood{}, ErrFavoriteNotFound
		}
		return Neighborhood{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	favs, err := s.List(ctx, userID)
	if err != nil {
		return Neighborhood{}, err
	}

	older, newer, ok := adjacent(favs, func(f *models.Favorite) bool { return f.PicDate == date })
	if !ok {
		return Neighborhood{}, ErrFavoriteNotFound
	}

	var n Neighborhood
	if older != nil {
		n.Previous = older.PicDate
	}
	if newer != nil {
		n.Next = newer.PicDate
	}
	return n, nil
}

func sortByAddedDesc(favs []*models.Favorite) {
	// Stable, so the store's own tie-break survives equal timestamps.
	slices.SortStableFunc(favs, func(a, b *models.Favorite) int {
		return b.AddedAt.Compare(a.AddedAt)
	})
}

// adjacent locates the first item matching target in a newest-first
// sequence and returns the items on either side of it.
func adjacent[T any](items []T, target func(T) bool) (older, newer T, ok bool) {
	i := slices.IndexFunc(items, target)
	if i < 0 {
		return older, newer, false
	}
	if i+1 < len(items) {
		older = items[i+1]
	}
	if i > 0 {
		newer = items[i-1]
	}
	return older, newer, true
}
