package services

import (
	"context"

	"apod-bot/internal/apod"
	"apod-bot/internal/models"

	"github.com/rs/zerolog"
)

// DefaultFallbackImageURL is shown whenever the feed cannot be reached
const DefaultFallbackImageURL = "http://lamcdn.net/lookatme.ru/post_image-image/sIaRmaFSMfrw8QJIBAa8mA-small.png"

// PictureFetcher fetches a feed entry for a date
type PictureFetcher interface {
	Fetch(ctx context.Context, date string) (*apod.Entry, error)
}

// PictureService resolves dates into displayable pictures
type PictureService struct {
	fetcher          PictureFetcher
	captions         *CaptionFormatter
	fallbackImageURL string
}

// NewPictureService creates a new picture service
func NewPictureService(fetcher PictureFetcher, captions *CaptionFormatter, fallbackImageURL string) *PictureService {
	if fallbackImageURL == "" {
		fallbackImageURL = DefaultFallbackImageURL
	}
	return &PictureService{
		fetcher:          fetcher,
		captions:         captions,
		fallbackImageURL: fallbackImageURL,
	}
}

// Fetch returns the picture for date. Upstream failures never surface:
// the fallback image and caption are returned instead.
func (s *PictureService) Fetch(ctx context.Context, date string) *models.Picture {
	logger := zerolog.Ctx(ctx)

	entry, err := s.fetcher.Fetch(ctx, date)
	if err != nil {
		logger.Error().Err(err).Str("date", date).Msg("Failed to fetch picture of the day")
		return s.fallback(date)
	}

	imageURL := entry.ImageURL()
	if imageURL == "" {
		logger.Warn().Str("date", date).Str("media_type", entry.MediaType).Msg("Entry has no displayable image")
		imageURL = s.fallbackImageURL
	}

	return &models.Picture{
		Date:          date,
		ImageURL:      imageURL,
		CaptionChunks: s.captions.Format(date, entry.Explanation),
	}
}

func (s *PictureService) fallback(date string) *models.Picture {
	return &models.Picture{
		Date:          date,
		ImageURL:      s.fallbackImageURL,
		CaptionChunks: []string{FallbackCaption},
	}
}
