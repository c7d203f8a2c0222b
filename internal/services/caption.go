package services

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultCaptionLimit is the largest caption a photo message accepts
	DefaultCaptionLimit = 1024
	// FallbackCaption is shown when there is nothing to say about a picture
	FallbackCaption = "Something went wrong :( We're already fixing it..."
)

// CaptionFormatter splits picture explanations into caption-sized chunks
type CaptionFormatter struct {
	limit int
}

// NewCaptionFormatter creates a formatter producing chunks of at most
// limit characters
func NewCaptionFormatter(limit int) *CaptionFormatter {
	if limit <= 0 {
		limit = DefaultCaptionLimit
	}
	return &CaptionFormatter{limit: limit}
}

// CaptionPrefix renders the header line for date (YYYY-MM-DD)
func CaptionPrefix(date string) string {
	if len(date) != len("2006-01-02") {
		return "Picture of the day\n"
	}
	return fmt.Sprintf("Picture from %s.%s\n", date[8:10], date[5:7])
}

// Format returns the prefixed text cut into consecutive chunks. Cuts are
// positional and may fall mid-word.
func (f *CaptionFormatter) Format(date, text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{FallbackCaption}
	}

	full := CaptionPrefix(date) + text
	if utf8.RuneCountInString(full) <= f.limit {
		return []string{full}
	}

	runes := []rune(full)
	chunks := make([]string, 0, len(runes)/f.limit+1)
	for len(runes) > 0 {
		n := min(f.limit, len(runes))
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	return chunks
}
