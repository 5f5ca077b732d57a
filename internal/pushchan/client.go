package pushchan

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"slidesmith/internal/config"
	"slidesmith/internal/logging"
	"slidesmith/internal/slotstate"
)

const (
	defaultInitialDelay = 500 * time.Millisecond
	defaultMaxDelay     = 8 * time.Second
	defaultMaxAttempts  = 6
)

// ConnectionState describes the push channel's lifecycle.
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
	StateReconnecting ConnectionState = "reconnecting"
	StateFailed       ConnectionState = "failed"
)

// Conn is the subset of a websocket connection the client uses. The gorilla
// *websocket.Conn satisfies it.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteJSON(v any) error
	Close() error
}

// Dialer opens one websocket connection to the push endpoint.
type Dialer func(ctx context.Context, url string) (Conn, error)

func defaultDialer(ctx context.Context, url string) (Conn, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}

type subscription struct {
	DocumentID string `json:"document_id"`
	JobID      string `json:"job_id"`
}

type controlMessage struct {
	Type       string `json:"type"`
	DocumentID string `json:"document_id"`
	JobID      string `json:"job_id"`
}

// Client runs the push channel against one slot status store.
type Client struct {
	url    string
	store  *slotstate.Store
	logger *slog.Logger

	dialer       Dialer
	initialDelay time.Duration
	maxDelay     time.Duration
	maxAttempts  int
	sleep        func(context.Context, time.Duration) error
	onNotice     func(string)

	mu    sync.Mutex
	state ConnectionState
	sub   *subscription
	conn  Conn
}

// Option customizes the client.
type Option func(*Client)

// WithDialer overrides how connections are opened (useful for tests).
func WithDialer(dialer Dialer) Option {
	return func(c *Client) {
		if dialer != nil {
			c.dialer = dialer
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.WithComponent(logger, "pushchan")
	}
}

// WithReconnectPolicy overrides the backoff delays and the attempt cap.
func WithReconnectPolicy(initial, max time.Duration, attempts int) Option {
	return func(c *Client) {
		if initial > 0 {
			c.initialDelay = initial
		}
		if max > 0 {
			c.maxDelay = max
		}
		if attempts > 0 {
			c.maxAttempts = attempts
		}
	}
}

// WithSleeper overrides how backoff sleeps are performed (useful for tests).
func WithSleeper(sleep func(context.Context, time.Duration) error) Option {
	return func(c *Client) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// WithNotice registers a callback for user-visible connection notices.
func WithNotice(notice func(string)) Option {
	return func(c *Client) {
		c.onNotice = notice
	}
}

// NewClient constructs a push-channel client bound to the given store.
func NewClient(url string, store *slotstate.Store, opts ...Option) *Client {
	client := &Client{
		url:          url,
		store:        store,
		logger:       logging.WithComponent(nil, "pushchan"),
		dialer:       defaultDialer,
		initialDelay: defaultInitialDelay,
		maxDelay:     defaultMaxDelay,
		maxAttempts:  defaultMaxAttempts,
		sleep:        sleepContext,
		state:        StateDisconnected,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// NewFromConfig constructs a client using the configured websocket URL and
// reconnect policy.
func NewFromConfig(cfg *config.Config, store *slotstate.Store, opts ...Option) *Client {
	base := []Option{
		WithReconnectPolicy(
			time.Duration(cfg.Tracking.ReconnectInitialMS)*time.Millisecond,
			time.Duration(cfg.Tracking.ReconnectMaxMS)*time.Millisecond,
			cfg.Tracking.ReconnectMaxAttempts,
		),
	}
	return NewClient(cfg.Service.WebsocketURL, store, append(base, opts...)...)
}

// State returns the current connection state.
func (c *Client) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) setState(state ConnectionState) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}

// Subscribe registers interest in one job's event stream. The subscription
// survives reconnects: every new connection re-sends it.
func (c *Client) Subscribe(documentID, jobID string) error {
	if documentID == "" || jobID == "" {
		return fmt.Errorf("subscribe: document id and job id are required")
	}
	c.mu.Lock()
	c.sub = &subscription{DocumentID: documentID, JobID: jobID}
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return nil
	}
	return c.sendControl(conn, "subscribe_task", documentID, jobID)
}

// Unsubscribe drops the current subscription, telling the service when a
// connection is live.
func (c *Client) Unsubscribe() error {
	c.mu.Lock()
	sub := c.sub
	conn := c.conn
	c.sub = nil
	c.mu.Unlock()
	if sub == nil || conn == nil {
		return nil
	}
	return c.sendControl(conn, "unsubscribe_task", sub.DocumentID, sub.JobID)
}

func (c *Client) sendControl(conn Conn, kind, documentID, jobID string) error {
	msg := controlMessage{Type: kind, DocumentID: documentID, JobID: jobID}
	if err := conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("send %s: %w", kind, err)
	}
	return nil
}

// Run connects and pumps events into the store until the context is canceled
// or the reconnect budget is exhausted. Consecutive failed dials back off
// exponentially; a successful connection resets the counter.
func (c *Client) Run(ctx context.Context) error {
	logger := logging.WithContext(ctx, c.logger)
	attempts := 0
	everConnected := false
	for {
		if err := ctx.Err(); err != nil {
			c.setState(StateDisconnected)
			return err
		}
		if attempts == 0 && !everConnected {
			c.setState(StateConnecting)
		} else {
			c.setState(StateReconnecting)
		}

		conn, err := c.dialer(ctx, c.url)
		if err != nil {
			attempts++
			if attempts >= c.maxAttempts {
				c.setState(StateFailed)
				c.notice("Lost connection to the generation service; switching to periodic status checks.")
				return fmt.Errorf("connect push channel after %d attempts: %w", attempts, err)
			}
			delay := backoffDelay(c.initialDelay, c.maxDelay, attempts)
			logger.Warn("push channel connect failed",
				slog.Int("attempt", attempts),
				slog.Duration("retry_in", delay),
				slog.String("error", err.Error()))
			if err := c.sleep(ctx, delay); err != nil {
				c.setState(StateDisconnected)
				return err
			}
			continue
		}

		attempts = 0
		everConnected = true
		c.mu.Lock()
		c.conn = conn
		c.state = StateConnected
		sub := c.sub
		c.mu.Unlock()
		c.store.SetConnected(true)
		logger.Info("push channel connected")

		if sub != nil {
			if err := c.sendControl(conn, "subscribe_task", sub.DocumentID, sub.JobID); err != nil {
				logger.Warn("resubscribe failed", slog.String("error", err.Error()))
			}
		}

		// Cancellation has to close the socket to unblock the read loop.
		// A live subscription gets a best-effort goodbye first.
		readDone := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				c.mu.Lock()
				sub := c.sub
				c.mu.Unlock()
				if sub != nil {
					_ = c.sendControl(conn, "unsubscribe_task", sub.DocumentID, sub.JobID)
				}
				conn.Close()
			case <-readDone:
			}
		}()
		readErr := c.readLoop(ctx, conn, logger)
		close(readDone)

		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		c.store.SetConnected(false)
		conn.Close()

		if ctx.Err() != nil {
			c.setState(StateDisconnected)
			return ctx.Err()
		}
		logger.Warn("push channel dropped", slog.String("error", readErr.Error()))
	}
}

func (c *Client) readLoop(ctx context.Context, conn Conn, logger *slog.Logger) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		event, ok := slotstate.DecodeEvent(data)
		if !ok {
			logger.Debug("ignoring unknown push message")
			continue
		}
		logger.Debug("push event", slog.String("kind", event.Kind()))
		slotstate.Apply(c.store, event)
	}
}

func (c *Client) notice(message string) {
	if c.onNotice != nil {
		c.onNotice(message)
	}
}

// backoffDelay doubles the initial delay per failed attempt, capped at max.
func backoffDelay(initial, max time.Duration, attempt int) time.Duration {
	delay := initial
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= max {
			return max
		}
	}
	if delay > max {
		return max
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
