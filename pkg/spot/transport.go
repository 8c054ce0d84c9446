package spot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rackerlabs/rsspot/pkg/defaults"
	"github.com/rackerlabs/rsspot/pkg/errors"
	"github.com/rackerlabs/rsspot/pkg/state"
	"golang.org/x/time/rate"
)

const requestIDHeader = "X-Request-ID"

// backoffJitter is the fraction of the computed delay randomized in both
// directions, spreading out retry storms across clients.
const backoffJitter = 0.2

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   defaults.HTTPConnectTimeout,
				KeepAlive: defaults.HTTPKeepAlive,
			}).DialContext,
			TLSHandshakeTimeout:   defaults.HTTPTLSHandshakeTimeout,
			ResponseHeaderTimeout: defaults.HTTPResponseHeaderTimeout,
			IdleConnTimeout:       defaults.HTTPIdleConnTimeout,
		},
	}
}

// transport issues authenticated JSON requests against the API with
// client-side rate limiting, retries with exponential backoff, a single
// forced token refresh after an auth rejection, and transparent GET
// caching in the state store.
type transport struct {
	baseURL  string
	client   *http.Client
	tokens   *tokenSource
	limiter  *rate.Limiter
	store    *state.Store
	cacheTTL time.Duration
	attempts int
}

// requestJSON performs one API call and returns the raw JSON object
// response. Empty and 204 responses come back as an empty object.
func (t *transport) requestJSON(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	method = strings.ToUpper(method)

	cacheKey := ""
	if method == http.MethodGet && t.store != nil {
		cacheKey = t.cacheKey(method, path, query)
		if payload, ok, err := t.store.CacheGet(ctx, cacheKey); err != nil {
			slog.Warn("cache read failed, bypassing cache", "error", err)
		} else if ok {
			cacheHits.Inc()
			return json.RawMessage(payload), nil
		}
	}

	var encodedBody []byte
	if body != nil {
		var err error
		if encodedBody, err = json.Marshal(body); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "cannot encode request body", err)
		}
	}

	forceRefresh := false
	var lastErr error
	for attempt := 1; attempt <= t.attempts; attempt++ {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, "rate limiter wait aborted", err)
		}

		decoded, retry, err := t.do(ctx, method, path, query, encodedBody, &forceRefresh)
		if err == nil {
			if cacheKey != "" {
				if err := t.store.CacheSet(ctx, cacheKey, string(decoded), t.cacheTTL); err != nil {
					slog.Warn("cache write failed", "error", err)
				}
			}
			if method != http.MethodGet && t.store != nil {
				if err := t.store.CacheInvalidatePrefixes(ctx, http.MethodGet+":"+path); err != nil {
					slog.Warn("cache invalidation failed", "error", err)
				}
			}
			return decoded, nil
		}

		lastErr = err
		if !retry || attempt == t.attempts {
			break
		}
		if wait := t.backoff(attempt); wait > 0 {
			select {
			case <-ctx.Done():
				return nil, errors.Wrap(errors.ErrCodeTimeout, "request aborted during backoff", ctx.Err())
			case <-time.After(wait):
			}
		}
	}
	return nil, lastErr
}

// do performs a single attempt. retry reports whether the failure is
// worth another attempt.
func (t *transport) do(ctx context.Context, method, path string, query url.Values, body []byte, forceRefresh *bool) (json.RawMessage, bool, error) {
	fullURL := t.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidRequest, "cannot build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(requestIDHeader, uuid.NewString())

	token, err := t.tokens.Token(ctx, *forceRefresh)
	if err != nil {
		return nil, false, err
	}
	*forceRefresh = false
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		apiRequests.WithLabelValues(method, "error").Inc()
		return nil, true, errors.Wrap(errors.ErrCodeUnavailable, "request failed", err)
	}
	defer resp.Body.Close()

	apiRequests.WithLabelValues(method, fmt.Sprint(resp.StatusCode)).Inc()
	apiRequestDuration.Observe(time.Since(start).Seconds())

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, true, errors.Wrap(errors.ErrCodeUnavailable, "cannot read response body", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		// One forced token refresh; the retry loop supplies the next attempt.
		*forceRefresh = true
		return nil, true, errors.NewWithContext(errors.ErrCodeUnauthorized,
			fmt.Sprintf("request rejected with %d", resp.StatusCode),
			map[string]any{"path": path})
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, errors.NewWithContext(errors.CodeFromStatus(resp.StatusCode),
			fmt.Sprintf("transient upstream error %d", resp.StatusCode),
			map[string]any{"path": path, "body": trimmedBody(raw)})
	case resp.StatusCode >= 400:
		return nil, false, errors.NewWithContext(errors.CodeFromStatus(resp.StatusCode),
			fmt.Sprintf("request failed with %d", resp.StatusCode),
			map[string]any{"path": path, "body": trimmedBody(raw)})
	}

	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		return json.RawMessage("{}"), false, nil
	}

	// Validate the payload is a JSON object before handing it upstream.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, "response was not a JSON object", err)
	}
	return json.RawMessage(raw), false, nil
}

func (t *transport) cacheKey(method, path string, query url.Values) string {
	return fmt.Sprintf("%s:%s:%s", method, path, query.Encode())
}

// backoff computes the delay before the next attempt: exponential from
// the base delay, capped, with jitter applied in both directions.
func (t *transport) backoff(attempt int) time.Duration {
	d := defaults.RetryBaseDelay << (attempt - 1)
	if d > defaults.RetryMaxDelay {
		d = defaults.RetryMaxDelay
	}
	spread := float64(d) * backoffJitter
	return time.Duration(float64(d) + (rand.Float64()*2-1)*spread)
}

func trimmedBody(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > 512 {
		s = s[:512]
	}
	return s
}
