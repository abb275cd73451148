package frame

import (
	"fmt"
	"net/http"
	"strings"
)

// Resolver determines the public base URL of the deployment.
type Resolver struct {
	// Configured is an explicit base URL. Wins over everything else.
	Configured string
	// PlatformHost is the host the hosting platform reports (e.g. VERCEL_URL).
	PlatformHost string
	// FallbackPort is used for the local fallback URL.
	FallbackPort int
}

// BaseURL resolves the base URL for r.
//
// Order: configured URL, platform host over https, forwarded or request
// scheme and host, then http://localhost:<port>.
func (res Resolver) BaseURL(r *http.Request) string {
	if res.Configured != "" {
		return strings.TrimSuffix(res.Configured, "/")
	}

	if res.PlatformHost != "" {
		return "https://" + strings.TrimSuffix(res.PlatformHost, "/")
	}

	host := firstHeaderValue(r.Header.Get("X-Forwarded-Host"))
	if host == "" {
		host = r.Host
	}
	if host == "" {
		return res.localURL()
	}

	proto := firstHeaderValue(r.Header.Get("X-Forwarded-Proto"))
	if proto == "" {
		proto = "http"
		if r.TLS != nil {
			proto = "https"
		}
	}

	return proto + "://" + host
}

func (res Resolver) localURL() string {
	port := res.FallbackPort
	if port == 0 {
		port = 3000
	}
	return fmt.Sprintf("http://localhost:%d", port)
}

// firstHeaderValue returns the first entry of a comma-separated header.
func firstHeaderValue(v string) string {
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}
