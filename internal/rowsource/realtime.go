package rowsource

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// ChangeEvent is one store change notification from the feed.
type ChangeEvent struct {
	Event string `json:"event"` // INSERT, UPDATE, DELETE
	Table string `json:"table"`
}

// ChangeHandler is called for every change event received from the feed.
type ChangeHandler func(ev ChangeEvent)

// ReconnectConfig controls reconnection behavior
type ReconnectConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// DefaultReconnectConfig returns default reconnection configuration
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		MaxRetries:        10,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 1.5,
	}
}

// ChangeFeed subscribes to the store's change notifications over WebSocket
// and invokes the handler for each event. A change event is treated by the
// caller exactly like a manual refresh trigger.
type ChangeFeed struct {
	url             string
	handler         ChangeHandler
	reconnectConfig ReconnectConfig
	logger          *logrus.Logger

	mu          sync.RWMutex
	conn        *websocket.Conn
	isConnected bool
}

// NewChangeFeed creates a change feed subscriber.
func NewChangeFeed(url string, handler ChangeHandler, logger *logrus.Logger) *ChangeFeed {
	return &ChangeFeed{
		url:             url,
		handler:         handler,
		reconnectConfig: DefaultReconnectConfig(),
		logger:          logger,
	}
}

// Run connects and consumes events until the context is cancelled,
// reconnecting with capped exponential backoff on connection loss.
func (f *ChangeFeed) Run(ctx context.Context) {
	backoff := f.reconnectConfig.InitialBackoff
	retries := 0

	for {
		if ctx.Err() != nil {
			return
		}

		err := f.connect(ctx)
		if err == nil {
			retries = 0
			backoff = f.reconnectConfig.InitialBackoff
			err = f.readLoop(ctx)
		}

		f.disconnect()

		if ctx.Err() != nil {
			return
		}

		retries++
		if f.reconnectConfig.MaxRetries > 0 && retries > f.reconnectConfig.MaxRetries {
			f.logger.WithError(err).Error("Change feed gave up reconnecting")
			return
		}

		f.logger.WithError(err).WithField("backoff", backoff).Warn("Change feed disconnected, reconnecting")

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff = time.Duration(float64(backoff) * f.reconnectConfig.BackoffMultiplier)
		if backoff > f.reconnectConfig.MaxBackoff {
			backoff = f.reconnectConfig.MaxBackoff
		}
	}
}

// IsConnected reports whether the feed currently holds a live connection.
func (f *ChangeFeed) IsConnected() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.isConnected
}

func (f *ChangeFeed) connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.conn = conn
	f.isConnected = true
	f.mu.Unlock()

	f.logger.WithField("url", f.url).Info("Connected to change feed")
	return nil
}

func (f *ChangeFeed) readLoop(ctx context.Context) error {
	// Unblock ReadMessage when the context goes away.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			f.disconnect()
		case <-done:
		}
	}()

	for {
		f.mu.RLock()
		conn := f.conn
		f.mu.RUnlock()
		if conn == nil {
			return ctx.Err()
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var ev ChangeEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			f.logger.WithError(err).Debug("Ignoring malformed change event")
			continue
		}

		f.handler(ev)
	}
}

func (f *ChangeFeed) disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conn != nil {
		f.conn.Close()
		f.conn = nil
	}
	f.isConnected = false
}
