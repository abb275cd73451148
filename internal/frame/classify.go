// Package frame implements the Farcaster Frame side of the service: request
// classification, frame payloads, frame HTML and base URL resolution.
package frame

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
)

// markerFields are body fields that only frame clients send.
var markerFields = []string{"untrustedData", "trustedData", "frameData", "fid"}

// clientUASubstring identifies the Warpcast client by user agent.
const clientUASubstring = "Warpcast"

// Body is a decoded POST body keyed by field name.
type Body map[string]any

// String returns the field as a string, or "" when absent.
// Numbers are formatted in their JSON form.
func (b Body) String(key string) string {
	switch v := b[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// IsFrameRequest reports whether a request comes from a frame client.
// Either a marker field holds a truthy value or the user agent names the client.
func IsFrameRequest(userAgent string, body Body) bool {
	for _, field := range markerFields {
		if truthy(body[field]) {
			return true
		}
	}
	return strings.Contains(userAgent, clientUASubstring)
}

// truthy follows the loose convention frame clients rely on: absent, null,
// false, zero and empty string are false; everything else is true.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := strconv.ParseFloat(t.String(), 64)
		return err != nil || f != 0
	case float64:
		return t != 0
	default:
		return true
	}
}

// ErrInvalidBody is returned when a body cannot be decoded.
var ErrInvalidBody = errors.New("invalid request body")

// ParseBody decodes a JSON or form-encoded request body.
// An empty body yields an empty Body.
func ParseBody(r *http.Request) (Body, error) {
	body := Body{}
	if r.Body == nil {
		return body, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
		}
		for key, values := range r.PostForm {
			if len(values) > 0 {
				body[key] = values[0]
			}
		}
		return body, nil
	}

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return body, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected JSON object", ErrInvalidBody)
	}

	return Body(obj), nil
}
