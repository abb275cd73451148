package frame

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
)

// HTMLOptions parameterizes a frame page. Empty fields keep their default.
type HTMLOptions struct {
	Title       string
	Description string
	ImageURL    string
	PostURL     string
	ButtonText  string
	AspectRatio string
	BgColor     string
	TextColor   string
	AccentColor string
}

// Page defaults.
const (
	defaultDescription = "Get your daily humorous drunk fortune"
	defaultPageButton  = "Get My Fortune"
	defaultAspectRatio = "1:1"
	defaultBgColor     = "#2F2013"
	defaultTextColor   = "#f5e6c9"
	defaultAccentColor = "#DAA520"
)

// hexColor matches CSS hex colors; anything else falls back to the default.
var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{3,8}$`)

type pageData struct {
	HTMLOptions
	Bg     template.CSS
	Text   template.CSS
	Accent template.CSS
}

var pageTemplate = template.Must(template.New("frame").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>

  <meta property="fc:frame" content="vNext" />
  <meta property="fc:frame:init" content="true" />
  <meta property="fc:frame:image" content="{{.ImageURL}}" />
  <meta property="fc:frame:button:1" content="{{.ButtonText}}" />
  <meta property="fc:frame:post_url" content="{{.PostURL}}" />
  <meta property="fc:frame:aspect_ratio" content="{{.AspectRatio}}" />

  <meta property="og:title" content="{{.Title}}" />
  <meta property="og:description" content="{{.Description}}" />
  <meta property="og:image" content="{{.ImageURL}}" />
</head>
<body style="font-family: system-ui, sans-serif; margin: 0; padding: 20px; background-color: {{.Bg}}; color: {{.Text}}; display: flex; flex-direction: column; align-items: center; justify-content: center; min-height: 100vh; text-align: center;">
  <div style="max-width: 600px; margin: 0 auto;">
    <h1 style="margin-bottom: 20px; color: {{.Accent}};">{{.Title}}</h1>
    <div style="background-color: #3B271A; border-radius: 8px; padding: 20px; margin-bottom: 20px; box-shadow: 0 4px 6px rgba(0, 0, 0, 0.3);">
      <img src="{{.ImageURL}}" alt="Fortune Cookie" style="max-width: 150px; margin-bottom: 15px;">
      <p style="margin-bottom: 20px;">{{.Description}}</p>
      <div style="background-color: #251811; border-radius: 4px; padding: 15px; font-family: monospace; text-align: left; margin-bottom: 20px;">
        <p style="color: {{.Text}}; margin: 0 0 10px 0;"><strong>Instructions:</strong></p>
        <ol style="color: {{.Text}}; padding-left: 20px; margin: 0;">
          <li>Share this URL in Warpcast</li>
          <li>Click the "{{.ButtonText}}" button in the frame</li>
          <li>Get your hilariously inebriated fortune</li>
          <li>Share with friends for more laughs</li>
        </ol>
      </div>
    </div>

    <p style="margin-top: 30px; font-size: 0.9em; color: {{.Text}};">
      Made with ❤️ for Farcaster
    </p>
  </div>
</body>
</html>
`))

// GenerateFrameHTML renders a frame page for baseURL.
// Output depends only on the inputs.
func GenerateFrameHTML(baseURL string, opts HTMLOptions) (string, error) {
	o := withHTMLDefaults(baseURL, opts)

	data := pageData{
		HTMLOptions: o,
		Bg:          template.CSS(o.BgColor),
		Text:        template.CSS(o.TextColor),
		Accent:      template.CSS(o.AccentColor),
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render frame page: %w", err)
	}
	return buf.String(), nil
}

func withHTMLDefaults(baseURL string, opts HTMLOptions) HTMLOptions {
	o := HTMLOptions{
		Title:       AppName,
		Description: defaultDescription,
		ImageURL:    ImageURL(baseURL),
		PostURL:     PostURL(baseURL),
		ButtonText:  defaultPageButton,
		AspectRatio: defaultAspectRatio,
		BgColor:     defaultBgColor,
		TextColor:   defaultTextColor,
		AccentColor: defaultAccentColor,
	}

	setIf(&o.Title, opts.Title)
	setIf(&o.Description, opts.Description)
	setIf(&o.ImageURL, opts.ImageURL)
	setIf(&o.PostURL, opts.PostURL)
	setIf(&o.ButtonText, opts.ButtonText)
	setIf(&o.AspectRatio, opts.AspectRatio)

	// Colors are emitted as trusted CSS, so only hex values are accepted.
	if hexColor.MatchString(opts.BgColor) {
		o.BgColor = opts.BgColor
	}
	if hexColor.MatchString(opts.TextColor) {
		o.TextColor = opts.TextColor
	}
	if hexColor.MatchString(opts.AccentColor) {
		o.AccentColor = opts.AccentColor
	}

	return o
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
