package model

// FrameButton is a single button rendered on a frame card.
type FrameButton struct {
	Label string `json:"label"`
}

// FrameMetadata is the JSON payload returned to frame clients after a post.
type FrameMetadata struct {
	Image   string        `json:"image"`
	Text    string        `json:"text"`
	Buttons []FrameButton `json:"buttons"`
}

// Manifest describes the app to Warpcast.
type Manifest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	ExternalURL string `json:"external_url"`
}
