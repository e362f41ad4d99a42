// Package fetch retrieves raw page content with bounded retries.
//
// Transient failures (timeouts, connection errors, 5xx responses) are
// retried under the policy in internal/retry; client errors (4xx) abort
// immediately since they will not resolve by asking again.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"

	"github.com/wbb-stats/scrape/internal/retry"
)

// Fetcher performs GET requests with an identifying User-Agent and a
// per-request timeout, retrying transient failures.
type Fetcher struct {
	client    *http.Client
	userAgent string
	retryCfg  retry.Config
}

// New creates a Fetcher around the given client. A nil client gets a
// default with a 10 second timeout.
func New(client *http.Client, userAgent string, retryCfg retry.Config) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Fetcher{
		client:    client,
		userAgent: userAgent,
		retryCfg:  retryCfg,
	}
}

// Fetch retrieves the page body for url. An empty url is a configured
// skip: it returns empty content and no error without touching the
// network. All other failure paths return an error after the retry
// budget is spent (or immediately for client errors).
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if url == "" {
		log.Warn().Msg("Empty URL in site config, skipping fetch")
		return "", nil
	}

	var body string
	attempts := 0

	err := retry.WithRetry(ctx, f.retryCfg, func() error {
		attempts++
		content, err := f.get(ctx, url)
		if err != nil {
			return err
		}
		body = content
		return nil
	})

	if err != nil {
		log.Error().
			Err(err).
			Str("url", url).
			Int("attempts", attempts).
			Msg("Fetch failed")
		return "", err
	}

	log.Debug().
		Str("url", url).
		Int("attempts", attempts).
		Int("bytes", len(body)).
		Msg("Fetch completed")

	return body, nil
}

// get performs a single GET attempt.
func (f *Fetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused
		io.Copy(io.Discard, resp.Body)
		return "", retry.NewHTTPError(resp.StatusCode, resp.Status, url)
	}

	// Roster pages are not always UTF-8; decode via the declared charset
	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(content), nil
}
