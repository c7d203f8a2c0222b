package services

import (
	"errors"
	"testing"

	"apod-bot/internal/apod"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPictureFetch(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{}
	s := NewPictureService(fetcher, NewCaptionFormatter(DefaultCaptionLimit), "")

	pic := s.Fetch(t.Context(), "2023-02-14")
	require.NotNil(t, pic)
	assert.Equal(t, "2023-02-14", pic.Date)
	assert.Equal(t, "https://apod.example/2023-02-14.jpg", pic.ImageURL)
	assert.Equal(t, "Picture from 14.02\nExplanation for 2023-02-14", pic.Caption())
	assert.Equal(t, []string{"2023-02-14"}, fetcher.calls)
}

func TestPictureFetchFallback(t *testing.T) {
	t.Parallel()

	cases := map[string]error{
		"network":   errors.New("dial tcp: i/o timeout"),
		"status":    &apod.StatusError{StatusCode: 503},
		"malformed": apod.ErrMalformedResponse,
	}

	for name, fetchErr := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s := NewPictureService(&fakeFetcher{err: fetchErr}, NewCaptionFormatter(0), "https://fallback.example/oops.png")

			pic := s.Fetch(t.Context(), "2023-02-14")
			require.NotNil(t, pic)
			assert.Equal(t, "https://fallback.example/oops.png", pic.ImageURL)
			assert.Equal(t, []string{FallbackCaption}, pic.CaptionChunks)
		})
	}
}

func TestPictureFetchDefaultFallbackURL(t *testing.T) {
	t.Parallel()

	s := NewPictureService(&fakeFetcher{err: errors.New("boom")}, NewCaptionFormatter(0), "")
	assert.Equal(t, DefaultFallbackImageURL, s.Fetch(t.Context(), "2023-02-14").ImageURL)
}

func TestPictureFetchVideoWithoutThumbnail(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{entries: map[string]*apod.Entry{
		"2021-02-18": {Explanation: "Perseverance lands.", URL: "https://youtube.example/embed/x", MediaType: "video"},
	}}
	s := NewPictureService(fetcher, NewCaptionFormatter(0), "https://fallback.example/oops.png")

	pic := s.Fetch(t.Context(), "2021-02-18")
	assert.Equal(t, "https://fallback.example/oops.png", pic.ImageURL)
	assert.Equal(t, "Picture from 18.02\nPerseverance lands.", pic.Caption())
}
