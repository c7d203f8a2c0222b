package services

import (
	"context"
	"errors"
	"fmt"

	"apod-bot/internal/dates"
	"apod-bot/internal/models"

	"github.com/rs/zerolog"
)

// Button labels and user-facing texts.
const (
	LabelToday         = "🌌 Picture of the day"
	LabelFavorites     = "❤ Favorites"
	LabelPrevious      = "⬅️"
	LabelNext          = "➡️"
	LabelAddFavorite   = "add to favorite"
	LabelReturnToMenu  = "return to menu"
	greetingFormat     = "Hi, %s!\nShall we look at the stars today?"
	noticeAdded        = "Added!"
	noticeAlreadyAdded = "Already in favorites!"
	noticeNoFavorites  = "You have no favorites yet."
	noticeUnavailable  = "Sorry, something broke on our side. Please try again later."
)

// Navigator turns navigation tokens into renders. It is the only entry
// point for the transport; every failure is converted into a render.
type Navigator struct {
	users     *UserService
	favorites *FavoriteService
	pictures  *PictureService
	calendar  *dates.Calendar
}

// NewNavigator creates a new navigator
func NewNavigator(users *UserService, favorites *FavoriteService, pictures *PictureService, calendar *dates.Calendar) *Navigator {
	return &Navigator{
		users:     users,
		favorites: favorites,
		pictures:  pictures,
		calendar:  calendar,
	}
}

// Start handles a fresh conversation, the same as the root token
func (n *Navigator) Start(ctx context.Context, user models.User) Render {
	return n.showRoot(ctx, user)
}

// Handle classifies token and runs the matching handler
func (n *Navigator) Handle(ctx context.Context, user models.User, token string) Render {
	intent := Classify(token, n.calendar)
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("token", token).Stringer("intent", intent.Kind).Msg("Navigation token classified")

	switch intent.Kind {
	case ShowRoot:
		return n.showRoot(ctx, user)
	case ShowPicture:
		return n.showPicture(ctx, intent.Date)
	case ShowFavorites:
		return n.showFavorites(ctx, user)
	case ShowFavoriteNeighborhood:
		return n.showFavoriteNeighborhood(ctx, user, intent.Date)
	case AddFavorite:
		return n.addFavorite(ctx, user, intent.Date)
	default:
		logger.Debug().Str("token", token).Msg("Ignoring unrecognized token")
		return Render{Kind: RenderNone}
	}
}

func (n *Navigator) showRoot(ctx context.Context, user models.User) Render {
	logger := zerolog.Ctx(ctx)

	created, err := n.users.Register(ctx, user)
	if err != nil {
		return n.unavailable(ctx, err)
	}
	if created {
		logger.Info().Int64("user_id", user.ID).Msg("New user registered")
	} else {
		logger.Info().Int64("user_id", user.ID).Msg("Existing user returned")
	}

	actions := []ActionRow{{{Label: LabelToday, Token: PictureToken(n.calendar.Today())}}}

	latest, err := n.favorites.Latest(ctx, user.ID)
	switch {
	case err == nil:
		actions = append(actions, ActionRow{{Label: LabelFavorites, Token: FavoriteToken(latest.PicDate)}})
	case errors.Is(err, ErrFavoriteNotFound):
	default:
		return n.unavailable(ctx, err)
	}

	return Render{
		Kind:    RenderText,
		Text:    fmt.Sprintf(greetingFormat, user.FirstName),
		Actions: actions,
	}
}

func (n *Navigator) showPicture(ctx context.Context, date string) Render {
	zerolog.Ctx(ctx).Info().Str("date", date).Msg("Showing picture")
	pic := n.pictures.Fetch(ctx, date)

	var paging ActionRow
	if !n.calendar.IsAtLowerBound(date) {
		if prev, err := dates.Previous(date); err == nil {
			paging = append(paging, Action{Label: LabelPrevious, Token: PictureToken(prev)})
		}
	}
	if !n.calendar.IsToday(date) {
		if next, err := dates.Next(date); err == nil {
			paging = append(paging, Action{Label: LabelNext, Token: PictureToken(next)})
		}
	}

	actions := []ActionRow{{{Label: LabelAddFavorite, Token: AddFavoriteToken(date)}}}
	if len(paging) > 0 {
		actions = append(actions, paging)
	}
	actions = append(actions, ActionRow{{Label: LabelReturnToMenu, Token: TokenRoot}})

	return pictureRender(pic, actions)
}

func (n *Navigator) showFavorites(ctx context.Context, user models.User) Render {
	latest, err := n.favorites.Latest(ctx, user.ID)
	if err != nil {
		if errors.Is(err, ErrFavoriteNotFound) {
			return Render{Kind: RenderNotice, Text: noticeNoFavorites}
		}
		return n.unavailable(ctx, err)
	}
	return n.showFavoriteNeighborhood(ctx, user, latest.PicDate)
}

func (n *Navigator) showFavoriteNeighborhood(ctx context.Context, user models.User, date string) Render {
	logger := zerolog.Ctx(ctx)

	hood, err := n.favorites.Neighbors(ctx, user.ID, date)
	if err != nil {
		if errors.Is(err, ErrFavoriteNotFound) {
			logger.Warn().Int64("user_id", user.ID).Str("date", date).Msg("Favorite not found, returning to menu")
			return n.showRoot(ctx, user)
		}
		return n.unavailable(ctx, err)
	}

	pic := n.pictures.Fetch(ctx, date)

	var paging ActionRow
	if hood.Previous != "" {
		paging = append(paging, Action{Label: LabelPrevious, Token: FavoriteToken(hood.Previous)})
	}
	if hood.Next != "" {
		paging = append(paging, Action{Label: LabelNext, Token: FavoriteToken(hood.Next)})
	}

	var actions []ActionRow
	if len(paging) > 0 {
		actions = append(actions, paging)
	}
	actions = append(actions, ActionRow{{Label: LabelReturnToMenu, Token: TokenRoot}})

	return pictureRender(pic, actions)
}

func (n *Navigator) addFavorite(ctx context.Context, user models.User, date string) Render {
	logger := zerolog.Ctx(ctx)

	if _, err := n.users.Register(ctx, user); err != nil {
		return n.unavailable(ctx, err)
	}

	result, err := n.favorites.Add(ctx, user.ID, date)
	if err != nil {
		return n.unavailable(ctx, err)
	}

	if result == AlreadyExists {
		logger.Info().Int64("user_id", user.ID).Str("date", date).Msg("Picture is already a favorite")
		return Render{Kind: RenderNotice, Text: noticeAlreadyAdded}
	}
	logger.Info().Int64("user_id", user.ID).Str("date", date).Msg("Favorite added")
	return Render{Kind: RenderNotice, Text: noticeAdded}
}

func (n *Navigator) unavailable(ctx context.Context, err error) Render {
	zerolog.Ctx(ctx).Error().Err(err).Msg("Persistence failure while handling navigation")
	return Render{Kind: RenderNotice, Text: noticeUnavailable}
}

func pictureRender(pic *models.Picture, actions []ActionRow) Render {
	return Render{
		Kind:     RenderPicture,
		ImageURL: pic.ImageURL,
		Text:     pic.Caption(),
		Actions:  actions,
	}
}
