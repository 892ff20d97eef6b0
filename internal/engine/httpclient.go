package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// Per-source rate limiters. Resource lookups fan out concurrently per skill,
// so each external API gets its own limiter shared across requests.
var (
	limiterMu sync.Mutex
	limiters  = map[string]*rate.Limiter{}
)

// Limiter returns the shared rate limiter for a named source,
// creating it with the given rate on first use.
func Limiter(source string, rps float64, burst int) *rate.Limiter {
	limiterMu.Lock()
	defer limiterMu.Unlock()
	if l, ok := limiters[source]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Limit(rps), burst)
	limiters[source] = l
	return l
}

// GetJSON fetches a URL with retry and decodes the response body into out.
// Honors the named source's rate limiter before sending.
func GetJSON(ctx context.Context, source, url string, headers map[string]string, out any) error {
	if err := Limiter(source, 2, 4).Wait(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()

	resp, err := RetryHTTP(ctx, LookupRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", UserAgentBot)
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: status %d", source, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// GetBody fetches a URL and returns the raw response body.
// Used by sources that parse embedded page state instead of a JSON API.
func GetBody(ctx context.Context, source, url string, headers map[string]string) ([]byte, error) {
	if err := Limiter(source, 1, 2).Wait(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()

	resp, err := RetryHTTP(ctx, LookupRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", UserAgentChrome)
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: status %d", source, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 4<<20))
}
