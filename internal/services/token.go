package services

import (
	"strings"

	"apod-bot/internal/dates"
)

const (
	// TokenRoot returns to the greeting menu
	TokenRoot = "menu"
	// TokenFavorites opens the most recently added favorite
	TokenFavorites = "favs"

	addFavoritePrefix = "favs_add:"
	favoritePrefix    = "fav:"
)

// IntentKind is the classified meaning of a navigation token
type IntentKind int

const (
	Unrecognized IntentKind = iota
	ShowRoot
	ShowPicture
	ShowFavorites
	ShowFavoriteNeighborhood
	AddFavorite
)

func (k IntentKind) String() string {
	switch k {
	case ShowRoot:
		return "show_root"
	case ShowPicture:
		return "show_picture"
	case ShowFavorites:
		return "show_favorites"
	case ShowFavoriteNeighborhood:
		return "show_favorite_neighborhood"
	case AddFavorite:
		return "add_favorite"
	default:
		return "unrecognized"
	}
}

// Intent is a classified token. Date is set for the date-carrying kinds.
type Intent struct {
	Kind IntentKind
	Date string
}

// PictureToken is the token paging to date
func PictureToken(date string) string { return date }

// FavoriteToken is the token opening the favorite neighborhood of date
func FavoriteToken(date string) string { return favoritePrefix + " " + date }

// AddFavoriteToken is the token bookmarking date
func AddFavoriteToken(date string) string { return addFavoritePrefix + " " + date }

// Classify maps a raw token to exactly one intent. Dates outside the
// calendar's range are unrecognized.
func Classify(token string, cal *dates.Calendar) Intent {
	switch token {
	case TokenRoot:
		return Intent{Kind: ShowRoot}
	case TokenFavorites:
		return Intent{Kind: ShowFavorites}
	}

	if rest, ok := strings.CutPrefix(token, addFavoritePrefix); ok {
		return dated(AddFavorite, strings.TrimSpace(rest), cal)
	}
	if rest, ok := strings.CutPrefix(token, favoritePrefix); ok {
		return dated(ShowFavoriteNeighborhood, strings.TrimSpace(rest), cal)
	}
	return dated(ShowPicture, token, cal)
}

func dated(kind IntentKind, date string, cal *dates.Calendar) Intent {
	if !cal.InRange(date) {
		return Intent{Kind: Unrecognized}
	}
	return Intent{Kind: kind, Date: date}
}
