// Package client is a Go client for the kanban board REST API. It keeps the
// session token in a TokenStore and forgets it as soon as the server
// rejects it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTimeout  = 30 * time.Second
	maxResponseSize = 4 << 20
)

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:8080".
	BaseURL string
	// HTTPClient supplies the base transport and timeout. If nil, a client
	// with http.DefaultTransport and a 30s timeout is used.
	HTTPClient *http.Client
	// Store persists the token. If nil, the token lives in memory only.
	Store TokenStore
	// OnUnauthenticated runs after any 401 response has cleared the session.
	OnUnauthenticated func()
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("client: BaseURL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("client: invalid BaseURL %q: %w", cfg.BaseURL, err)
	}

	session, err := NewSession(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("client: restore session: %w", err)
	}

	base := http.DefaultTransport
	timeout := defaultTimeout
	if cfg.HTTPClient != nil {
		if cfg.HTTPClient.Transport != nil {
			base = cfg.HTTPClient.Transport
		}
		timeout = cfg.HTTPClient.Timeout
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &authTransport{
				base:              base,
				session:           session,
				onUnauthenticated: cfg.OnUnauthenticated,
			},
		},
		session: session,
	}, nil
}

func (c *Client) Session() *Session {
	return c.session
}

// --- Auth ---

// Register creates an account and keeps the returned token.
func (c *Client) Register(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, creds, &out); err != nil {
		return nil, err
	}
	if err := c.session.Set(out.Token); err != nil {
		return nil, fmt.Errorf("client: save token: %w", err)
	}
	return &out, nil
}

// Login signs in with a username or email and keeps the returned token.
func (c *Client) Login(ctx context.Context, identifier, password string) (*AuthResponse, error) {
	body := map[string]string{"identifier": identifier, "password": password}

	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &out); err != nil {
		return nil, err
	}
	if err := c.session.Set(out.Token); err != nil {
		return nil, fmt.Errorf("client: save token: %w", err)
	}
	return &out, nil
}

// Logout forgets the token locally. Tokens are stateless so the server is
// not contacted.
func (c *Client) Logout() error {
	return c.session.Clear()
}

func (c *Client) Me(ctx context.Context) (*UserSummary, error) {
	var out UserSummary
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Tickets ---

func (c *Client) ListTickets(ctx context.Context, filter TicketFilter) ([]Ticket, error) {
	q := url.Values{}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.OwnerID != nil {
		q.Set("ownerId", strconv.FormatInt(*filter.OwnerID, 10))
	}

	var out []Ticket
	if err := c.do(ctx, http.MethodGet, "/tickets", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTicket(ctx context.Context, id int64) (*Ticket, error) {
	var out Ticket
	if err := c.do(ctx, http.MethodGet, ticketPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTicket(ctx context.Context, in NewTicket) (*Ticket, error) {
	var out Ticket
	if err := c.do(ctx, http.MethodPost, "/tickets", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTicket(ctx context.Context, id int64, patch TicketPatch) (*Ticket, error) {
	var out Ticket
	if err := c.do(ctx, http.MethodPatch, ticketPath(id), nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTicket(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, ticketPath(id), nil, nil, nil)
}

// --- Users ---

func (c *Client) ListUsers(ctx context.Context, query string) ([]User, error) {
	q := url.Values{}
	if query != "" {
		q.Set("q", query)
	}

	var out []User
	if err := c.do(ctx, http.MethodGet, "/users", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetUser(ctx context.Context, id int64) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, userPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateUser(ctx context.Context, creds Credentials) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodPost, "/users", nil, creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int64, patch UserPatch) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodPatch, userPath(id), nil, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, userPath(id), nil, nil, nil)
}

func ticketPath(id int64) string { return "/tickets/" + strconv.FormatInt(id, 10) }
func userPath(id int64) string   { return "/users/" + strconv.FormatInt(id, 10) }

// do sends one JSON request. On 2xx the body is decoded into out when out is
// non-nil; any other status becomes an *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return fmt.Errorf("client: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("client: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if jsonErr := json.Unmarshal(raw, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
			if apiErr.Message == "" {
				apiErr.Message = http.StatusText(resp.StatusCode)
			}
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("client: decode %s %s response: %w", method, path, err)
	}
	return nil
}
