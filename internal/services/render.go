package services

// RenderKind tells the transport how to present a Render
type RenderKind int

const (
	// RenderNone means nothing changes on screen
	RenderNone RenderKind = iota
	// RenderText replaces the screen with a text message
	RenderText
	// RenderPicture shows an image with a caption
	RenderPicture
	// RenderNotice is a transient alert that leaves the screen as is
	RenderNotice
)

// Action is a button: a label and the navigation token it sends back
type Action struct {
	Label string `json:"label"`
	Token string `json:"token"`
}

// ActionRow is one row of buttons
type ActionRow []Action

// Render is the transport-independent result of handling a token
type Render struct {
	Kind     RenderKind  `json:"kind"`
	ImageURL string      `json:"image_url,omitempty"`
	Text     string      `json:"text,omitempty"`
	Actions  []ActionRow `json:"actions,omitempty"`
}

// HasAction reports whether any button carries token
func (r Render) HasAction(token string) bool {
	for _, row := range r.Actions {
		for _, a := range row {
			if a.Token == token {
				return true
			}
		}
	}
	return false
}
