// Package channel owns the push connection to the timer service. The
// connection cycles Connecting → Open → Closed → Connecting for as long as the
// application runs; a closed connection is always retried after a fixed delay.
// Events broadcast while the connection is down are lost.
package channel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultRetryDelay is the wait between a close and the next connection attempt.
const DefaultRetryDelay = time.Second

// Conn is the read side of an established push connection.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// Dialer opens push connections.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// Error is a transport-level fault on the push channel.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("push channel %s: %v", e.Op, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Config holds the Manager settings.
type Config struct {
	URL        string
	RetryDelay time.Duration
	// Clock schedules reconnects. In production, use clockwork.NewRealClock().
	// In tests, a FakeClock.
	Clock clockwork.Clock
}

// Stats is a snapshot of the Manager.
type Stats struct {
	State    State
	Attempts int // connection attempts made
	Retries  int // reconnects scheduled
}

// Manager keeps one push connection alive and feeds its messages to a
// Dispatcher.
type Manager struct {
	url        string
	retryDelay time.Duration
	clock      clockwork.Clock
	dialer     Dialer
	dispatcher *Dispatcher

	mu       sync.Mutex
	state    State
	conn     Conn
	retry    clockwork.Timer
	started  bool
	stopped  bool
	attempts int
	retries  int

	wg sync.WaitGroup
}

// NewManager creates a Manager. A nil dialer or an empty URL yields a Manager
// whose Start is a no-op.
func NewManager(cfg Config, dialer Dialer, dispatcher *Dispatcher) *Manager {
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if dispatcher == nil {
		dispatcher = NewDispatcher()
	}
	return &Manager{
		url:        cfg.URL,
		retryDelay: cfg.RetryDelay,
		clock:      cfg.Clock,
		dialer:     dialer,
		dispatcher: dispatcher,
		state:      StateConnecting,
	}
}

// Supported reports whether the Manager is able to open connections at all.
func (m *Manager) Supported() bool {
	return m.dialer != nil && m.url != ""
}

// Start begins the connection cycle in the background. It runs until ctx is
// cancelled. Calling Start more than once has no effect.
func (m *Manager) Start(ctx context.Context) {
	if !m.Supported() {
		log.Warn().Msg("push channel unsupported, live notifications disabled")
		return
	}

	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		<-ctx.Done()
		m.mu.Lock()
		m.stopped = true
		conn, retry := m.conn, m.retry
		m.retry = nil
		m.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		// A retry that never fires must still be released.
		if retry != nil && retry.Stop() {
			m.wg.Done()
		}
	}()

	m.spawnConnect(ctx)
}

// Wait blocks until the connection cycle has fully stopped. Call it after
// cancelling the context passed to Start; no handler runs once it returns.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) spawnConnect(ctx context.Context) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.connect(ctx)
	}()
}

// Stats returns the current state and counters.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{State: m.state, Attempts: m.attempts, Retries: m.retries}
}

// State returns the current connection state.
func (m *Manager) State() State {
	return m.Stats().State
}

func (m *Manager) connect(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	m.mu.Lock()
	m.attempts++
	attempt := m.attempts
	m.mu.Unlock()

	logger := log.With().
		Str("attempt_id", uuid.NewString()).
		Int("attempt", attempt).
		Str("url", m.url).
		Logger()

	conn, err := m.dialer.Dial(ctx, m.url)
	if err != nil {
		logger.Error().Err(&Error{Op: "dial", Err: err}).Msg("push channel connection failed")
		m.fault(ctx, nil, logger)
		return
	}

	m.mu.Lock()
	m.conn = conn
	m.mu.Unlock()

	if ctx.Err() != nil {
		m.fault(ctx, conn, logger)
		return
	}
	if !m.transition(TriggerHandshake) {
		m.fault(ctx, conn, logger)
		return
	}
	logger.Info().Msg("push channel connection established")

	m.readLoop(ctx, conn, logger)
}

func (m *Manager) readLoop(ctx context.Context, conn Conn, logger zerolog.Logger) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				logger.Error().Err(&Error{Op: "read", Err: err}).Msg("push channel connection closed")
			}
			m.fault(ctx, conn, logger)
			return
		}
		m.dispatcher.Dispatch(data)
	}
}

// fault force-closes conn, moves to Closed and schedules the next attempt.
func (m *Manager) fault(ctx context.Context, conn Conn, logger zerolog.Logger) {
	if conn != nil {
		_ = conn.Close()
	}

	m.mu.Lock()
	if m.conn == conn {
		m.conn = nil
	}
	m.mu.Unlock()

	m.transition(TriggerFault)

	if ctx.Err() != nil {
		logger.Info().Msg("push channel stopped")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		logger.Info().Msg("push channel stopped")
		return
	}
	m.retries++

	logger.Info().Dur("retry_in", m.retryDelay).Msg("push channel closed, attempting to reconnect")
	m.wg.Add(1)
	m.retry = m.clock.AfterFunc(m.retryDelay, func() {
		defer m.wg.Done()
		if ctx.Err() != nil {
			return
		}
		if m.transition(TriggerRetry) {
			m.spawnConnect(ctx)
		}
	})
}

func (m *Manager) transition(t Trigger) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	next, err := Next(m.state, t)
	if err != nil {
		log.Error().Err(err).Msg("push channel state machine rejected transition")
		return false
	}
	m.state = next
	return true
}
