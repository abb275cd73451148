package frame

import (
	"fmt"

	"github.com/fortunecookie/fortunecookie/internal/model"
)

// Default frame content.
const (
	AppName               = "Drunk Fortune Cookie"
	ManifestDescription   = "Get your daily drunk fortune cookie with a wobbling, humorous prediction."
	DefaultMetadataButton = "Get Another Fortune"
	promptText            = "Break the cookie to receive your fortune!"
	imagePath             = "/assets/fortune-cookie.png"
	postPath              = "/api/fortune/new"
)

// MetadataOptions overrides the defaults of a frame post response.
// Empty fields keep their default.
type MetadataOptions struct {
	Image       string
	FortuneText string
	ButtonText  string
}

// ImageURL returns the cookie image URL for baseURL.
func ImageURL(baseURL string) string {
	return baseURL + imagePath
}

// PostURL returns the frame post target for baseURL.
func PostURL(baseURL string) string {
	return baseURL + postPath
}

// CreateFrameMetadata builds the response payload for a frame post.
func CreateFrameMetadata(baseURL string, opts MetadataOptions) model.FrameMetadata {
	image := ImageURL(baseURL)
	if opts.Image != "" {
		image = opts.Image
	}

	button := DefaultMetadataButton
	if opts.ButtonText != "" {
		button = opts.ButtonText
	}

	text := promptText
	if opts.FortuneText != "" {
		text = fmt.Sprintf("🥠 Your drunk fortune says:\n\n\"%s\"\n\n", opts.FortuneText)
	}

	return model.FrameMetadata{
		Image:   image,
		Text:    text,
		Buttons: []model.FrameButton{{Label: button}},
	}
}

// NewManifest builds the Warpcast manifest for baseURL.
func NewManifest(baseURL string) model.Manifest {
	return model.Manifest{
		Name:        AppName,
		Description: ManifestDescription,
		Image:       ImageURL(baseURL),
		ExternalURL: baseURL,
	}
}
