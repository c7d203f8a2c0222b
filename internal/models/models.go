package models

import "time"

// User represents a chat user registered with the bot
type User struct {
	ID        int64     `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name,omitempty"`
	Username  string    `json:"username,omitempty"`
	IsBot     bool      `json:"is_bot"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// Favorite represents a picture date bookmarked by a user
type Favorite struct {
	ID      string    `json:"id"`
	UserID  int64     `json:"user_id"`
	PicDate string    `json:"pic_date"`
	AddedAt time.Time `json:"added_at"`
}

// Picture is a resolved feed entry ready for display. It is built per
// request and never stored.
type Picture struct {
	Date          string   `json:"date"`
	ImageURL      string   `json:"image_url"`
	CaptionChunks []string `json:"caption_chunks"`
}

// Caption returns the first caption chunk, the only one displayed.
func (p *Picture) Caption() string {
	if len(p.CaptionChunks) == 0 {
		return ""
	}
	return p.CaptionChunks[0]
}
