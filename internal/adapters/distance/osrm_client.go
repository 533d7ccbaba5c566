package distance

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// OSRMClient talks to an OSRM-compatible server (/table and /route services).
//
// It coordinates:
//   - Request pacing via a token bucket (public servers allow ~1 req/s)
//   - Retry with exponential backoff for transient failures
//
// The client is safe for concurrent use.
type OSRMClient struct {
	session *http.Client
	baseURL string
	profile string
	limiter *rate.Limiter
	backoff time.Duration
}

// NewOSRMClient builds a client. rps <= 0 disables pacing.
func NewOSRMClient(baseURL string, rps float64) (*OSRMClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("OSRM base url is empty")
	}

	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}

	return &OSRMClient{
		session: &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		profile: "driving",
		limiter: rate.NewLimiter(limit, 1),
		backoff: 200 * time.Millisecond,
	}, nil
}
