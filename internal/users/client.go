// Package users talks to the external user service that authoritatively
// answers "is this user id valid / admin". It is the single network dependency
// in the authorization path and is treated as unreliable: any transport
// failure is an authorization failure, never a success.
package users

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/patchwork-crafts/patchwork-backend/internal/apperr"
	"github.com/patchwork-crafts/patchwork-backend/internal/auth"
)

const (
	MsgUpstreamFailed = "Server Communication failed"
	MsgInexistentUser = "Inexistent User"
)

// tokenRenewMargin is how long before expiry the cached service credential is
// re-minted.
const tokenRenewMargin = 5 * time.Minute

// Client handles communication with the user service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	codec      *auth.TokenCodec
	serviceID  string

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

type Options struct {
	BaseURL string
	Timeout time.Duration
	// Codec signs the privileged credential the client presents upstream.
	Codec *auth.TokenCodec
	// ServiceID is the subject encoded into that credential.
	ServiceID string
}

func NewClient(opt Options) *Client {
	if opt.Timeout == 0 {
		opt.Timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    opt.BaseURL,
		httpClient: &http.Client{Timeout: opt.Timeout},
		codec:      opt.Codec,
		serviceID:  opt.ServiceID,
	}
}

// IsValid reports whether id belongs to a valid user.
func (c *Client) IsValid(ctx context.Context, id string) (bool, error) {
	return c.check(ctx, id, "isValid")
}

// IsAdmin reports whether id belongs to an admin user. A 401 reply carrying
// "Inexistent User" surfaces as an auth error distinct from "not admin".
func (c *Client) IsAdmin(ctx context.Context, id string) (bool, error) {
	return c.check(ctx, id, "isAdmin")
}

func (c *Client) check(ctx context.Context, id, op string) (bool, error) {
	token, err := c.serviceToken()
	if err != nil {
		return false, apperr.Wrap(apperr.KindUpstream, MsgUpstreamFailed, err)
	}

	reqURL := c.baseURL + "/user/" + url.PathEscape(id) + "/" + op
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, apperr.Wrap(apperr.KindUpstream, MsgUpstreamFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, apperr.Wrap(apperr.KindUpstream, MsgUpstreamFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if err != nil {
		return false, apperr.Wrap(apperr.KindUpstream, MsgUpstreamFailed, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return truthy(body), nil
	case http.StatusUnauthorized:
		var payload struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &payload); err == nil && payload.Message == MsgInexistentUser {
			return false, apperr.New(apperr.KindAuth, MsgInexistentUser)
		}
		return false, apperr.New(apperr.KindUpstream, MsgUpstreamFailed)
	default:
		return false, apperr.Wrap(apperr.KindUpstream, MsgUpstreamFailed,
			fmt.Errorf("user service returned status %d", resp.StatusCode))
	}
}

// serviceToken returns the cached privileged credential, minting a fresh one
// when missing or close to expiry.
func (c *Client) serviceToken() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry.Add(-tokenRenewMargin)) {
		return c.token, nil
	}

	token, err := c.codec.Sign(auth.Credential{ID: c.serviceID})
	if err != nil {
		return "", fmt.Errorf("sign service credential: %w", err)
	}

	c.token = token
	c.tokenExpiry = time.Now().Add(c.codec.TTL())
	return token, nil
}

// truthy interprets a 200 response body as the boolean the user service means
// by it: JSON false/null/0/"" are false, anything else is true.
func truthy(body []byte) bool {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return len(body) > 0
	}
	switch val := v.(type) {
	case bool:
		return val
	case nil:
		return false
	case float64:
		return val != 0
	case string:
		return val != ""
	default:
		return true
	}
}
