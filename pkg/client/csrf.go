package client

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
)

const (
	CSRFHeader      = "X-CSRFToken"
	CSRFFieldName   = "csrfmiddlewaretoken"
	RequestedWith   = "X-Requested-With"
	XMLHTTPRequest  = "XMLHttpRequest"
	formContentType = "application/x-www-form-urlencoded; charset=UTF-8"
)

// SafeMethod reports whether method is exempt from CSRF protection.
func SafeMethod(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

// sameOrigin compares scheme and host (including port) of two URLs.
func sameOrigin(a, b *url.URL) bool {
	return strings.EqualFold(a.Scheme, b.Scheme) && strings.EqualFold(a.Host, b.Host)
}

// CSRFTransport attaches the anti-forgery token to every state changing
// request sent to the archive's own origin. Requests to other origins and
// safe-method requests go out untouched.
type CSRFTransport struct {
	Base   http.RoundTripper
	Origin *url.URL

	mu    sync.RWMutex
	token string
}

func NewCSRFTransport(base http.RoundTripper, origin *url.URL) *CSRFTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &CSRFTransport{Base: base, Origin: origin}
}

func (t *CSRFTransport) SetToken(token string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = token
}

func (t *CSRFTransport) Token() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.token
}

func (t *CSRFTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := t.Token()
	if token == "" || SafeMethod(req.Method) || !sameOrigin(req.URL, t.Origin) {
		return t.Base.RoundTrip(req)
	}

	// RoundTrippers must not modify the caller's request.
	r := req.Clone(req.Context())
	r.Header.Set(CSRFHeader, token)
	if r.Header.Get("Referer") == "" {
		// Django rejects HTTPS posts without a same-origin referer.
		r.Header.Set("Referer", t.Origin.Scheme+"://"+t.Origin.Host+"/")
	}
	return t.Base.RoundTrip(r)
}
