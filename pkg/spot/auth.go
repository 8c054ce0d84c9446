package spot

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rackerlabs/rsspot/pkg/config"
	"github.com/rackerlabs/rsspot/pkg/defaults"
	"github.com/rackerlabs/rsspot/pkg/errors"
)

// decodeJWTExpiry extracts the exp claim from a JWT without verifying the
// signature. Returns the zero time when the token cannot be parsed.
func decodeJWTExpiry(token string) time.Time {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return time.Time{}
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return time.Time{}
	}

	var claims struct {
		Exp float64 `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil || claims.Exp == 0 {
		return time.Time{}
	}
	return time.Unix(int64(claims.Exp), 0).UTC()
}

// tokenExpired reports whether a JWT should be treated as expired,
// applying the refresh skew so tokens are renewed before the server
// rejects them. Unparseable tokens count as expired.
func tokenExpired(token string, skew time.Duration) bool {
	expiry := decodeJWTExpiry(token)
	if expiry.IsZero() {
		return true
	}
	return !time.Now().Before(expiry.Add(-skew))
}

// tokenSource exchanges a long-lived refresh token for short-lived API
// tokens via the OAuth refresh-token grant, caching the current token
// until it nears expiry. Safe for concurrent use.
type tokenSource struct {
	oauthURL     string
	clientID     string
	refreshToken string
	client       *http.Client

	mu      sync.Mutex
	current string
}

func newTokenSource(p *config.Profile, client *http.Client) *tokenSource {
	return &tokenSource{
		oauthURL:     strings.TrimRight(p.OAuthURL, "/"),
		clientID:     p.ClientID,
		refreshToken: p.RefreshToken,
		client:       client,
		current:      p.AccessToken,
	}
}

// Token returns a valid API token, refreshing lazily when the cached one
// is missing, expired, or a forced refresh was requested after an auth
// rejection.
func (t *tokenSource) Token(ctx context.Context, forceRefresh bool) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !forceRefresh && t.current != "" && !tokenExpired(t.current, defaults.TokenExpirySkew) {
		return t.current, nil
	}

	if t.refreshToken == "" {
		return "", errors.New(errors.ErrCodeUnauthorized,
			"refresh_token is required to authenticate; set it in the config profile or RSSPOT_REFRESH_TOKEN")
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", t.clientID)
	form.Set("refresh_token", t.refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		t.oauthURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "cannot build token request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeUnauthorized, "authentication request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeUnauthorized, "cannot read token response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.NewWithContext(errors.CodeFromStatus(resp.StatusCode),
			fmt.Sprintf("token endpoint returned %d", resp.StatusCode),
			map[string]any{"body": strings.TrimSpace(string(body))})
	}

	var payload struct {
		IDToken string `json:"id_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", errors.Wrap(errors.ErrCodeUnauthorized, "token response was not valid JSON", err)
	}
	if payload.IDToken == "" {
		return "", errors.New(errors.ErrCodeUnauthorized, "authentication response missing id_token")
	}

	t.current = payload.IDToken
	return t.current, nil
}
