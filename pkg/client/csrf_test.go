package client

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestSafeMethod(t *testing.T) {
	tests := []struct {
		method string
		safe   bool
	}{
		{"GET", true},
		{"head", true},
		{"OPTIONS", true},
		{"TRACE", true},
		{"POST", false},
		{"PUT", false},
		{"DELETE", false},
		{"PATCH", false},
	}
	for _, tt := range tests {
		if got := SafeMethod(tt.method); got != tt.safe {
			t.Errorf("SafeMethod(%q) = %v, want %v", tt.method, got, tt.safe)
		}
	}
}

func TestCSRFTransport(t *testing.T) {
	origin, _ := url.Parse("https://letters.example.org")

	tests := []struct {
		name      string
		method    string
		url       string
		token     string
		wantToken string
	}{
		{"post same origin", http.MethodPost, "https://letters.example.org/search/", "tok", "tok"},
		{"get same origin", http.MethodGet, "https://letters.example.org/search/", "tok", ""},
		{"post other origin", http.MethodPost, "https://maps.example.com/tiles", "tok", ""},
		{"post other scheme", http.MethodPost, "http://letters.example.org/search/", "tok", ""},
		{"post without token", http.MethodPost, "https://letters.example.org/search/", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *http.Request
			tr := NewCSRFTransport(roundTripFunc(func(r *http.Request) (*http.Response, error) {
				seen = r
				return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
			}), origin)
			tr.SetToken(tt.token)

			req, _ := http.NewRequest(tt.method, tt.url, strings.NewReader(""))
			if _, err := tr.RoundTrip(req); err != nil {
				t.Fatalf("RoundTrip: %v", err)
			}

			if got := seen.Header.Get(CSRFHeader); got != tt.wantToken {
				t.Fatalf("%s = %q, want %q", CSRFHeader, got, tt.wantToken)
			}
			if req.Header.Get(CSRFHeader) != "" {
				t.Fatal("caller's request was modified")
			}
			if tt.wantToken != "" && seen.Header.Get("Referer") != "https://letters.example.org/" {
				t.Fatalf("referer = %q", seen.Header.Get("Referer"))
			}
		})
	}
}
