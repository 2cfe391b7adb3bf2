package stagefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/kvanzyl/shedwatch/pkg/types"
)

// maxFeedBody caps how much of the feed response is read.
const maxFeedBody = 8 << 20

// Client fetches the published stage-interval list over HTTP. A circuit
// breaker stops hammering the upstream while it is down; a tripped breaker
// fails the tick immediately and the next tick probes again.
type Client struct {
	url     string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewClient creates a feed client for the given URL.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "stage-feed",
			Timeout: timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}
}

// Fetch returns the feed's stage ranges, ordered oldest to newest as
// published.
func (c *Client) Fetch(ctx context.Context) ([]types.StageRange, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]types.StageRange), nil
}

func (c *Client) fetch(ctx context.Context) ([]types.StageRange, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building feed request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching stage feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stage feed returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBody))
	if err != nil {
		return nil, fmt.Errorf("reading stage feed: %w", err)
	}

	var ranges []types.StageRange
	if err := json.Unmarshal(body, &ranges); err != nil {
		return nil, fmt.Errorf("parsing stage feed: %w", err)
	}
	return ranges, nil
}
