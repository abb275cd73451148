package frame

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestIsFrameRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		userAgent string
		body      string
		want      bool
	}{
		{"untrustedData", "Mozilla/5.0", `{"untrustedData":{"fid":2,"buttonIndex":1}}`, true},
		{"trustedData", "Mozilla/5.0", `{"trustedData":{"messageBytes":"abcd"}}`, true},
		{"frameData", "Mozilla/5.0", `{"frameData":{"x":1}}`, true},
		{"fid number", "Mozilla/5.0", `{"fid":3}`, true},
		{"fid string", "Mozilla/5.0", `{"fid":"3"}`, true},
		{"warpcast user agent", "Warpcast/1.0 (iPhone)", `{}`, true},
		{"warpcast user agent with userId", "Warpcast/1.0", `{"userId":"alice"}`, true},
		{"empty body generic agent", "Mozilla/5.0", ``, false},
		{"empty object generic agent", "curl/8.0", `{}`, false},
		{"plain web request", "Mozilla/5.0", `{"userId":"alice"}`, false},
		{"fid zero", "Mozilla/5.0", `{"fid":0}`, false},
		{"fid null", "Mozilla/5.0", `{"fid":null}`, false},
		{"untrustedData false", "Mozilla/5.0", `{"untrustedData":false}`, false},
		{"untrustedData empty string", "Mozilla/5.0", `{"untrustedData":""}`, false},
		{"untrustedData empty object", "Mozilla/5.0", `{"untrustedData":{}}`, true},
		{"lowercase agent is not the client", "warpcast", `{}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/api/fortune/new", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			body, err := ParseBody(req)
			if err != nil {
				t.Fatalf("ParseBody: %v", err)
			}

			if got := IsFrameRequest(tt.userAgent, body); got != tt.want {
				t.Errorf("IsFrameRequest() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseBody_Form(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/api/fortune/new", strings.NewReader("userId=alice&fid=12"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := ParseBody(req)
	if err != nil {
		t.Fatalf("ParseBody: %v", err)
	}

	if body.String("userId") != "alice" {
		t.Errorf("userId = %q, want alice", body.String("userId"))
	}
	if !IsFrameRequest("", body) {
		t.Error("form body with fid should be a frame request")
	}
}

func TestParseBody_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"userId":`},
		{"array", `["alice"]`},
		{"string", `"alice"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			if _, err := ParseBody(req); !errors.Is(err, ErrInvalidBody) {
				t.Errorf("ParseBody error = %v, want ErrInvalidBody", err)
			}
		})
	}
}

func TestBody_String(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"userId":42,"name":"bob","obj":{}}`))
	body, err := ParseBody(req)
	if err != nil {
		t.Fatalf("ParseBody: %v", err)
	}

	if got := body.String("userId"); got != "42" {
		t.Errorf("numeric userId = %q, want 42", got)
	}
	if got := body.String("name"); got != "bob" {
		t.Errorf("name = %q, want bob", got)
	}
	if got := body.String("obj"); got != "" {
		t.Errorf("object field = %q, want empty", got)
	}
	if got := body.String("missing"); got != "" {
		t.Errorf("missing field = %q, want empty", got)
	}
}
