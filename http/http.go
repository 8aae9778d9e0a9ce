// Package http implements [wenyan.Querier] against the wenyan backend and
// manages the lifecycle of its requests: bearer-token attachment,
// cancellation by request id, and classification of HTTP failures into
// user-facing notices.
package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/fwojciec/wenyan"
	"go.uber.org/zap"
)

// Interface compliance check.
var _ wenyan.Querier = (*Client)(nil)

// Client is the connection of one user session to the backend. It is safe
// for concurrent use.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	logger      *zap.Logger
	notifier    wenyan.Notifier
	idleTimeout time.Duration

	requests *registry

	mu    sync.RWMutex
	token string
	user  *wenyan.User
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger. The client logs under the name "http".
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithNotifier sets where user-facing failure notices go. By default they
// are logged.
func WithNotifier(n wenyan.Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithToken sets the bearer token of a previously authenticated session.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithIdleTimeout aborts a request when the server sends nothing for d.
// Zero disables the timeout.
func WithIdleTimeout(d time.Duration) Option {
	return func(c *Client) { c.idleTimeout = d }
}

// New creates a [Client] for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
		requests:   newRegistry(),
	}
	for _, o := range opts {
		o(c)
	}
	c.logger = c.logger.Named("http")
	if c.notifier == nil {
		logger := c.logger
		c.notifier = wenyan.NotifierFunc(func(msg string) {
			logger.Warn("notice", zap.String("message", msg))
		})
	}
	return c
}

// Cancel aborts the request live under id. Cancelling an unknown or
// finished id is a no-op.
func (c *Client) Cancel(id string) {
	if c.requests.cancel(id) {
		c.logger.Debug("request canceled", zap.String("id", id))
	}
}

// Live returns the ids of the requests currently in flight.
func (c *Client) Live() []string {
	return c.requests.ids()
}

// Token returns the current bearer token, empty for guests.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the bearer token and forgets the cached user.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.user = nil
}

// Logout drops the session and reverts to guest access.
func (c *Client) Logout() {
	c.SetToken("")
}

// guest reports whether requests go out anonymously or for a guest account.
func (c *Client) guest() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == "" {
		return true
	}
	return c.user != nil && c.user.IsGuest()
}

func (c *Client) setSession(token string, user wenyan.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.user = &user
}
