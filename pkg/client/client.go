// Package client is a Go consumer of the proposal tracker API. It mirrors the
// browser session cache: an ordered list of token tiers plus the cookie jar
// carrying the server's auth-status marker.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Session check states.
type State int

const (
	StateUnknown State = iota
	StateChecking
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	}
	return "unknown"
}

const (
	mePath         = "/api/auth/me"
	statusCookie   = "auth-status"
	defaultTimeout = 15 * time.Second
)

var ErrUnauthorized = errors.New("unauthorized")

type User struct {
	ID    string `json:"userId"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Client struct {
	base   *url.URL
	http   *http.Client
	stores []TokenStore

	mu    sync.Mutex
	state State
}

// New builds a client for baseURL. Stores are the cache tiers in precedence
// order; with none given a memory tier is used.
func New(baseURL string, stores ...TokenStore) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if len(stores) == 0 {
		stores = []TokenStore{NewMemoryStore()}
	}
	return &Client{
		base:   u,
		http:   &http.Client{Jar: jar, Timeout: defaultTimeout},
		stores: stores,
		state:  StateUnknown,
	}, nil
}

func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// token walks the tiers in order and backfills earlier tiers on a hit, so the
// cheap tier answers next time.
func (c *Client) token() (string, bool) {
	for i, st := range c.stores {
		if tok, ok := st.Load(); ok {
			for j := 0; j < i; j++ {
				_ = c.stores[j].Save(tok)
			}
			return tok, true
		}
	}
	return "", false
}

func (c *Client) saveToken(tok string) {
	for _, st := range c.stores {
		_ = st.Save(tok)
	}
}

func (c *Client) clearToken() {
	for _, st := range c.stores {
		_ = st.Clear()
	}
}

// hasStatusCookie reports whether the jar still carries the server's
// non-sensitive logged-in marker.
func (c *Client) hasStatusCookie() bool {
	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name == statusCookie && ck.Value != "" {
			return true
		}
	}
	return false
}

// do issues a request with the bearer header attached when a token is known.
// Cookies always ride along via the jar. A 401 from anything but the identity
// endpoint clears every tier.
func (c *Client) do(ctx context.Context, method, path string, in, out any) (int, error) {
	var body *bytes.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	ref, err := url.Parse(path)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base.ResolveReference(ref).String(), body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if tok, ok := c.token(); ok {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && !strings.HasSuffix(path, mePath) {
		c.clearToken()
		c.setState(StateAnonymous)
		return resp.StatusCode, ErrUnauthorized
	}

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

// Login authenticates and primes every cache tier with the issued token.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var body struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		User    struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	status, err := c.do(ctx, http.MethodPost, "/api/auth/login",
		map[string]string{"email": email, "password": password}, &body)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("login failed: status %d", status)
	}
	if body.Token != "" {
		c.saveToken(body.Token)
	}
	c.setState(StateAuthenticated)
	return &User{ID: body.User.ID, Email: body.User.Email, Role: body.User.Role}, nil
}

// Logout clears server cookies and every local tier.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.clearToken()
	c.setState(StateAnonymous)
	return err
}

// Check drives the session state machine: with no indicator at all it settles
// on anonymous without a network call; otherwise it asks the identity
// endpoint and settles on authenticated or anonymous.
func (c *Client) Check(ctx context.Context) (*User, error) {
	_, hasToken := c.token()
	if !hasToken && !c.hasStatusCookie() {
		c.setState(StateAnonymous)
		return nil, nil
	}

	c.setState(StateChecking)
	var body struct {
		Authenticated bool `json:"authenticated"`
		User          User `json:"user"`
	}
	status, err := c.do(ctx, http.MethodGet, mePath, nil, &body)
	if err != nil {
		c.setState(StateAnonymous)
		return nil, err
	}
	if status != http.StatusOK || !body.Authenticated {
		c.clearToken()
		c.setState(StateAnonymous)
		return nil, nil
	}
	c.setState(StateAuthenticated)
	return &body.User, nil
}

// Get performs an authenticated GET, decoding the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	status, err := c.do(ctx, http.MethodGet, path, nil, out)
	if err != nil {
		return err
	}
	if status >= 400 {
		return fmt.Errorf("GET %s: status %d", path, status)
	}
	return nil
}

// Post performs an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	status, err := c.do(ctx, http.MethodPost, path, in, out)
	if err != nil {
		return err
	}
	if status >= 400 {
		return fmt.Errorf("POST %s: status %d", path, status)
	}
	return nil
}
