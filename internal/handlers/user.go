package handlers

import (
	"context"
	"net/http"
	"strconv"

	"apod-bot/internal/middleware"
	"apod-bot/internal/models"
	"apod-bot/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// UserLister lists registered users
type UserLister interface {
	ListUsers(ctx context.Context, limit int) ([]*models.User, error)
}

// FavoriteLister lists a user's favorites
type FavoriteLister interface {
	List(ctx context.Context, userID int64) ([]*models.Favorite, error)
}

// UserHandler handles admin HTTP requests about users
type UserHandler struct {
	users     UserLister
	favorites FavoriteLister
}

// NewUserHandler creates a new user handler
func NewUserHandler(users UserLister, favorites FavoriteLister) *UserHandler {
	return &UserHandler{
		users:     users,
		favorites: favorites,
	}
}

// ListUsers handles GET /api/v1/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			respondError(w, "limit must be a number", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	users, err := h.users.ListUsers(ctx, limit)
	if err != nil {
		log.Error().
			Err(err).
			Int64("admin_id", middleware.GetUserID(ctx)).
			Msg("Failed to list users")
		respondError(w, "Failed to list users", http.StatusServiceUnavailable)
		return
	}
	if users == nil {
		users = []*models.User{}
	}

	respondJSON(w, map[string]interface{}{
		"users": users,
		"total": len(users),
	}, http.StatusOK)
}

// ListFavorites handles GET /api/v1/users/{user_id}/favorites
func (h *UserHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil {
		respondError(w, "user_id must be a number", http.StatusBadRequest)
		return
	}

	favs, err := h.favorites.List(ctx, userID)
	if err != nil {
		log.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("Failed to list favorites")
		respondError(w, "Failed to list favorites", http.StatusServiceUnavailable)
		return
	}
	if favs == nil {
		favs = []*models.Favorite{}
	}

	respondJSON(w, map[string]interface{}{
		"favorites": favs,
		"total":     len(favs),
	}, http.StatusOK)
}

// Pinger checks a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health handles GET /healthz
func Health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			log.Error().Err(err).Msg("Health check failed")
			respondError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	}
}

var (
	_ UserLister     = (*services.UserService)(nil)
	_ FavoriteLister = (*services.FavoriteService)(nil)
)
