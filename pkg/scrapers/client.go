package scrapers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

// ErrBudgetExhausted signals the per-source request budget ran out. Adapters
// stop paginating and return what they have; it never escapes an adapter.
var ErrBudgetExhausted = errors.New("request budget exhausted")

const maxAttempts = 3

// Client is the shared HTTP layer for adapters: rate limited, retrying, and
// request-budgeted. One Client serves one source for one run; budgets are
// not shared across sources.
type Client struct {
	sourceID string
	http     *http.Client
	limiter  *rate.Limiter
	budget   int
	used     int
}

// NewClient builds a client for a source. delay spaces requests out; budget
// caps how many HTTP requests a single Scrape call may issue, retries
// included.
func NewClient(sourceID string, timeout, delay time.Duration, budget int) *Client {
	every := rate.Every(delay)
	if delay <= 0 {
		every = rate.Inf
	}
	return &Client{
		sourceID: sourceID,
		http:     &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(every, 1),
		budget:   budget,
	}
}

// Get fetches a URL with retries. Network errors and 5xx responses retry
// with exponential backoff; after the last attempt they surface as
// SourceUnavailableError. Unexpected 4xx is SourceFormatChangedError since
// it usually means the endpoint moved.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<attempt) * 250 * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, &models.SourceUnavailableError{SourceID: c.sourceID, Err: ctx.Err()}
			}
		}

		// Every attempt is a real upstream request, so each one spends budget.
		if c.budget > 0 && c.used >= c.budget {
			if lastErr != nil {
				return nil, &models.SourceUnavailableError{SourceID: c.sourceID, Err: lastErr}
			}
			return nil, ErrBudgetExhausted
		}
		c.used++

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &models.SourceUnavailableError{SourceID: c.sourceID, Err: err}
		}

		body, retryable, err := c.once(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, &models.SourceUnavailableError{SourceID: c.sourceID, Err: lastErr}
}

func (c *Client) once(ctx context.Context, url string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, errors.Wrap(err, "build request")
	}
	req.Header.Set("User-Agent", "EasyInterns/1.0 (+https://github.com/PNGURuckus/EasyInterns)")
	req.Header.Set("Accept", "application/json, text/html, application/xml;q=0.9, */*;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		io.Copy(io.Discard, resp.Body)
		return nil, true, errors.Errorf("status %d from %s", resp.StatusCode, url)
	case resp.StatusCode >= 400:
		io.Copy(io.Discard, resp.Body)
		return nil, false, &models.SourceFormatChangedError{
			SourceID: c.sourceID,
			Detail:   errors.Errorf("unexpected status %d from %s", resp.StatusCode, url).Error(),
		}
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}
	return body, false, nil
}

// GetJSON fetches and decodes a JSON endpoint. Decode failures are
// SourceFormatChangedError.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &models.SourceFormatChangedError{SourceID: c.sourceID, Detail: "json decode: " + err.Error()}
	}
	return nil
}
