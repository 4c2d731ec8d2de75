// Package api calls the Blob HTTP RPC gateway on behalf of a client device.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/vasapolrittideah/blob-api/client/session"
	"github.com/vasapolrittideah/blob-api/services/auth-service/pkg/types"
)

const (
	googleSignInPath = "/rpc/auth.googleSignIn"
	mePath           = "/rpc/auth.me"
)

// Error is a non-2xx response from the gateway.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("blob api: %d: %s", e.StatusCode, e.Message)
}

type Option func(*Client)

// WithHTTPClient replaces the pooled default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// Client signs in through the gateway and keeps the resulting session in a store.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      *session.Store
}

func New(baseURL string, store *session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: cleanhttp.DefaultPooledClient(),
		store:      store,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GoogleSignIn exchanges a Google ID token for a session and persists it.
// A failed attempt leaves any previous session untouched.
func (c *Client) GoogleSignIn(ctx context.Context, idToken string) (*types.PublicUser, error) {
	body, err := json.Marshal(types.GoogleSignInRequest{IDToken: idToken})
	if err != nil {
		return nil, err
	}

	var resp types.GoogleSignInResponse
	if err := c.do(ctx, http.MethodPost, googleSignInPath, bytes.NewReader(body), &resp); err != nil {
		return nil, err
	}

	if err := c.store.SetSession(resp.SessionToken, resp.User); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	return resp.User, nil
}

// Me returns the signed-in user according to the server, or nil.
func (c *Client) Me(ctx context.Context) (*types.PublicUser, error) {
	var resp types.MeResponse
	if err := c.do(ctx, http.MethodGet, mePath, nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Logout forgets the local session.
func (c *Client) Logout() error {
	return c.store.Logout()
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.store.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(res.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			apiErr.Error = http.StatusText(res.StatusCode)
		}
		return &Error{StatusCode: res.StatusCode, Message: apiErr.Error}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
