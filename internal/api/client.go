package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Credentials is the token source the client injects into outgoing requests.
// Implemented by auth.Manager; a change made through SetAccessToken must be
// visible to concurrent readers.
type Credentials interface {
	AccessToken() string
	RefreshToken() string
	SetAccessToken(token string)
	Clear()
}

// Client is the shared HTTP client for the backend API.
//
// Every request gets a bearer token when one is held, a generated
// X-Request-ID, and the fixed timeout. Code execution is the exception: it is
// unbounded because the sandbox has no client-visible deadline. A 401 on an
// authenticated request triggers exactly one token refresh followed by one
// retry of the original request; concurrent 401s share a single refresh.
type Client struct {
	baseURL string
	http    *http.Client
	exec    *http.Client
	creds   Credentials

	refreshMu sync.Mutex
}

// New creates a Client rooted at baseURL.
func New(baseURL string, timeout time.Duration, creds Credentials) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		exec:    &http.Client{},
		creds:   creds,
	}
}

func (c *Client) url(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// do performs one API call with bearer injection and the one-shot
// refresh-then-retry described above.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, extra map[string]string, body, out any, contract *contract) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	token := ""
	if c.creds != nil {
		token = c.creds.AccessToken()
	}

	status, raw, err := c.send(ctx, hc, method, path, extra, payload, token)
	if err != nil {
		return err
	}

	// One refresh, one retry. Unauthenticated requests (no token attached)
	// are never retried: their 401 means bad credentials, not expiry.
	if status == http.StatusUnauthorized && token != "" {
		if err := c.refreshAccess(ctx, token); err != nil {
			return err
		}
		status, raw, err = c.send(ctx, hc, method, path, extra, payload, c.creds.AccessToken())
		if err != nil {
			return err
		}
	}

	if status < 200 || status >= 300 {
		return &Error{Status: status, Message: serverMessage(raw)}
	}

	if out != nil && len(raw) > 0 {
		if err := validateContract(contract, raw); err != nil {
			return err
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// send issues a single HTTP request and reads the whole body.
func (c *Client) send(ctx context.Context, hc *http.Client, method, path string, extra map[string]string, payload []byte, token string) (int, []byte, error) {
	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), rd)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range extra {
		req.Header.Set(k, v)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, raw, nil
}

// refreshAccess exchanges the refresh token for a new access token. Callers
// racing on expiry serialize here: whoever enters second finds a token that
// differs from the one its request failed with and skips the exchange.
func (c *Client) refreshAccess(ctx context.Context, stale string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if cur := c.creds.AccessToken(); cur != "" && cur != stale {
		return nil
	}

	refresh := c.creds.RefreshToken()
	if refresh == "" {
		c.creds.Clear()
		return ErrSessionExpired
	}

	payload, err := json.Marshal(refreshRequest{Refresh: refresh})
	if err != nil {
		return fmt.Errorf("encode refresh request: %w", err)
	}

	status, raw, err := c.send(ctx, c.http, http.MethodPost, "auth/token/refresh/", nil, payload, "")
	if err != nil {
		c.creds.Clear()
		return ErrSessionExpired
	}
	if status < 200 || status >= 300 {
		c.creds.Clear()
		return ErrSessionExpired
	}

	var out refreshResponse
	if err := json.Unmarshal(raw, &out); err != nil || out.Access == "" {
		c.creds.Clear()
		return ErrSessionExpired
	}

	c.creds.SetAccessToken(out.Access)
	return nil
}

// serverMessage pulls the human-readable message out of an error body. The
// backend is not consistent about the key it uses.
func serverMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	switch {
	case body.Message != "":
		return body.Message
	case body.Error != "":
		return body.Error
	default:
		return body.Detail
	}
}
