package services

import (
	"testing"
	"time"

	"apod-bot/internal/dates"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCalendar(t *testing.T, today string) *dates.Calendar {
	t.Helper()
	cal, err := dates.NewCalendar(dates.Earliest, "America/New_York")
	require.NoError(t, err)
	day, err := dates.Parse(today)
	require.NoError(t, err)
	// Noon in New York is the same calendar day.
	noon := day.Add(17 * time.Hour)
	return cal.WithClock(func() time.Time { return noon })
}

func TestClassify(t *testing.T) {
	t.Parallel()

	cal := testCalendar(t, "2023-02-15")

	cases := map[string]Intent{
		"menu":                 {Kind: ShowRoot},
		"favs":                 {Kind: ShowFavorites},
		"2023-02-14":           {Kind: ShowPicture, Date: "2023-02-14"},
		"2023-02-15":           {Kind: ShowPicture, Date: "2023-02-15"},
		"1995-06-16":           {Kind: ShowPicture, Date: "1995-06-16"},
		"favs_add: 2021-06-01": {Kind: AddFavorite, Date: "2021-06-01"},
		"favs_add:2021-06-01":  {Kind: AddFavorite, Date: "2021-06-01"},
		"fav: 2021-06-01":      {Kind: ShowFavoriteNeighborhood, Date: "2021-06-01"},
		"2023-02-16":           {Kind: Unrecognized},
		"1995-06-15":           {Kind: Unrecognized},
		"2023-02-30":           {Kind: Unrecognized},
		"fav: tomorrow":        {Kind: Unrecognized},
		"favs_add: ":           {Kind: Unrecognized},
		"MENU":                 {Kind: Unrecognized},
		"hello":                {Kind: Unrecognized},
		"":                     {Kind: Unrecognized},
	}

	for token, want := range cases {
		assert.Equal(t, want, Classify(token, cal), "Classify(%q)", token)
	}
}

func TestTokensRoundTrip(t *testing.T) {
	t.Parallel()

	cal := testCalendar(t, "2023-02-15")
	d := "2022-12-31"

	assert.Equal(t, Intent{Kind: ShowPicture, Date: d}, Classify(PictureToken(d), cal))
	assert.Equal(t, Intent{Kind: ShowFavoriteNeighborhood, Date: d}, Classify(FavoriteToken(d), cal))
	assert.Equal(t, Intent{Kind: AddFavorite, Date: d}, Classify(AddFavoriteToken(d), cal))
	assert.LessOrEqual(t, len(AddFavoriteToken(d)), 64, "callback data limit")
}
