package httpclient

import (
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// NewDefaultHTTPClient creates a simple HTTP client with a timeout
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}

// userAgentTransport injects a fixed User-Agent header into every request
// unless the request already carries one.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

// RoundTrip implements http.RoundTripper
func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.userAgent)
	}
	return t.base.RoundTrip(req)
}

// NewBrowserClient creates an HTTP client that presents the given user agent,
// follows redirects, and keeps cookies across requests. Per-request deadlines
// are expected to come from the request context, so no client-level timeout
// is set.
func NewBrowserClient(userAgent string) *http.Client {
	jar, err := cookiejar.New(nil)
	if err != nil {
		jar = nil
	}

	return &http.Client{
		Jar: jar,
		Transport: &userAgentTransport{
			base:      http.DefaultTransport,
			userAgent: userAgent,
		},
	}
}

// PickUserAgent selects one user agent from the configured pool. The choice
// is made once per client construction, not per request.
func PickUserAgent(agents []string) string {
	if len(agents) == 0 {
		return "Moneta/1.0"
	}
	return agents[rand.Intn(len(agents))]
}
