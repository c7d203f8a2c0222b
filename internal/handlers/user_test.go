package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"apod-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUsers struct {
	users []*models.User
	limit int
	err   error
}

func (s *stubUsers) ListUsers(_ context.Context, limit int) ([]*models.User, error) {
	s.limit = limit
	return s.users, s.err
}

type stubFavorites map[int64][]*models.Favorite

func (s stubFavorites) List(_ context.Context, userID int64) ([]*models.Favorite, error) {
	return s[userID], nil
}

type stubValidator struct{}

func (stubValidator) ValidateAdminToken(token string) (int64, error) {
	if token != "admin" {
		return 0, errors.New("nope")
	}
	return 1, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func serve(h http.Handler, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAdminRouter(t *testing.T) {
	t.Parallel()

	users := &stubUsers{users: []*models.User{{ID: 7, FirstName: "Ada", CreatedAt: time.Unix(0, 0)}}}
	favs := stubFavorites{7: {{ID: "f1", UserID: 7, PicDate: "2021-06-01"}}}
	r := NewRouter(NewUserHandler(users, favs), stubValidator{}, stubPinger{})

	rec := serve(r, "/api/v1/users", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(r, "/api/v1/users?limit=5", "admin")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, users.limit)
	var body struct {
		Users []models.User `json:"users"`
		Total int           `json:"total"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 1, body.Total)
	assert.Equal(t, "Ada", body.Users[0].FirstName)

	rec = serve(r, "/api/v1/users?limit=lots", "admin")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(r, "/api/v1/users/7/favorites", "admin")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pic_date":"2021-06-01"`)

	rec = serve(r, "/api/v1/users/8/favorites", "admin")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"favorites":[]`)

	rec = serve(r, "/api/v1/users/ada/favorites", "admin")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	users.err = errors.New("db down")
	rec = serve(r, "/api/v1/users", "admin")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	r := NewRouter(NewUserHandler(&stubUsers{}, stubFavorites{}), stubValidator{}, stubPinger{})
	assert.Equal(t, http.StatusOK, serve(r, "/healthz", "").Code)

	r = NewRouter(NewUserHandler(&stubUsers{}, stubFavorites{}), stubValidator{}, stubPinger{err: errors.New("down")})
	assert.Equal(t, http.StatusServiceUnavailable, serve(r, "/healthz", "").Code)
}
