package services

import (
	"context"
	"errors"
	"slices"
	"sync"

	"apod-bot/internal/apod"
	"apod-bot/internal/models"
	"apod-bot/internal/repository"
)

var errStoreDown = errors.New("connection refused")

type memUserStore struct {
	mu    sync.Mutex
	users map[int64]*models.User
	order []int64
	fail  bool
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[int64]*models.User)}
}

func (s *memUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errStoreDown
	}
	if _, ok := s.users[user.ID]; ok {
		return repository.ErrDuplicateEntry
	}
	u := *user
	s.users[user.ID] = &u
	s.order = append(s.order, user.ID)
	return nil
}

func (s *memUserStore) Exists(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return false, errStoreDown
	}
	_, ok := s.users[id]
	return ok, nil
}

func (s *memUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errStoreDown
	}
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (s *memUserStore) List(_ context.Context, limit int) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errStoreDown
	}
	var out []*models.User
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.users[s.order[i]])
	}
	return out, nil
}

// memFavoriteStore keeps rows in insertion order, which doubles as the
// tie-break for equal added_at values.
type memFavoriteStore struct {
	mu      sync.Mutex
	rows    []*models.Favorite
	fail    bool
	creates int
}

func (s *memFavoriteStore) Create(_ context.Context, fav *models.Favorite) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errStoreDown
	}
	s.creates++
	for _, r := range s.rows {
		if r.UserID == fav.UserID && r.PicDate == fav.PicDate {
			return repository.ErrDuplicateEntry
		}
	}
	f := *fav
	s.rows = append(s.rows, &f)
	return nil
}

func (s *memFavoriteStore) Exists(_ context.Context, userID int64, date string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return false, errStoreDown
	}
	for _, r := range s.rows {
		if r.UserID == userID && r.PicDate == date {
			return true, nil
		}
	}
	return false, nil
}

func (s *memFavoriteStore) GetByDate(_ context.Context, userID int64, date string) (*models.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errStoreDown
	}
	for _, r := range s.rows {
		if r.UserID == userID && r.PicDate == date {
			return r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memFavoriteStore) ListByUser(_ context.Context, userID int64, limit int) ([]*models.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errStoreDown
	}
	var out []*models.Favorite
	for _, r := range slices.Backward(s.rows) {
		if r.UserID != userID {
			continue
		}
		out = append(out, r)
	}
	slices.SortStableFunc(out, func(a, b *models.Favorite) int { return b.AddedAt.Compare(a.AddedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memFavoriteStore) count(userID int64, date string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.rows {
		if r.UserID == userID && r.PicDate == date {
			n++
		}
	}
	return n
}

type fakeFetcher struct {
	entries map[string]*apod.Entry
	err     error
	calls   []string
}

func (f *fakeFetcher) Fetch(_ context.Context, date string) (*apod.Entry, error) {
	f.calls = append(f.calls, date)
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.entries[date]; ok {
		return e, nil
	}
	return &apod.Entry{
		Date:        date,
		Explanation: "Explanation for " + date,
		URL:         "https://apod.example/" + date + ".jpg",
		MediaType:   "image",
	}, nil
}
