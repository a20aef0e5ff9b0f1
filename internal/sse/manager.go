package sse

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/proboots/storefront/internal/domain"
	"github.com/proboots/storefront/internal/id"
)

const (
	queueSize         = 1000
	clientBufferSize  = 100
	heartbeatInterval = 30 * time.Second
)

// Client is one open event stream. A shopper with several tabs open has one
// Client per tab, all sharing a SessionID.
type Client struct {
	ConnectedAt time.Time
	EventChan   chan Event
	Done        chan struct{}
	ID          string
	SessionID   string
}

// Manager fans cart and catalog changes out to open streams.
// Cart events reach only the streams of their session; catalog events and
// heartbeats reach every stream.
type Manager struct {
	logger    *slog.Logger
	events    chan Event
	heartbeat time.Duration
	wg        sync.WaitGroup

	mu       sync.RWMutex
	sessions map[string]map[string]*Client // session ID -> client ID -> client
	count    int

	closeMu sync.RWMutex
	closed  bool
}

// NewManager creates a Manager. Call Start to begin delivery.
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		logger:    logger,
		events:    make(chan Event, queueSize),
		heartbeat: heartbeatInterval,
		sessions:  make(map[string]map[string]*Client),
	}
}

// Start delivers queued events until ctx is canceled or the queue is closed.
func (m *Manager) Start(ctx context.Context) {
	m.wg.Add(1)
	defer m.wg.Done()

	m.logger.Info("SSE manager starting")

	ticker := time.NewTicker(m.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-m.events:
			if !ok {
				return
			}
			m.deliver(event)
		case <-ticker.C:
			m.deliver(NewHeartbeatEvent())
		case <-ctx.Done():
			m.logger.Info("SSE manager stopping")
			m.closeAllClients()
			return
		}
	}
}

// Shutdown refuses further events, delivers what is queued and closes every
// stream. It is safe to call more than once.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.closeMu.Lock()
	if m.closed {
		m.closeMu.Unlock()
		return nil
	}
	m.closed = true
	close(m.events)
	m.closeMu.Unlock()

	drained := make(chan struct{})
	go func() {
		for event := range m.events {
			m.deliver(event)
		}
		close(drained)
	}()

	select {
	case <-drained:
	case <-ctx.Done():
		m.logger.Warn("SSE drain timed out, queued events lost")
	}

	m.wg.Wait()
	m.closeAllClients()
	m.logger.Info("SSE manager shut down")
	return nil
}

// deliver hands event to its audience without blocking on slow readers.
func (m *Manager) deliver(event Event) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var sent, dropped int
	send := func(c *Client) {
		select {
		case c.EventChan <- event:
			sent++
		default:
			dropped++
		}
	}

	if event.SessionID != "" {
		for _, c := range m.sessions[event.SessionID] {
			send(c)
		}
	} else {
		for _, clients := range m.sessions {
			for _, c := range clients {
				send(c)
			}
		}
	}

	if dropped > 0 {
		m.logger.Warn("SSE event dropped for slow clients",
			"event_type", event.Type,
			"dropped", dropped,
		)
	}
	if event.Type != EventHeartbeat {
		m.logger.Debug("SSE event delivered",
			"event_type", event.Type,
			"session_id", event.SessionID,
			"sent", sent,
		)
	}
}

// Connect opens a stream following sessionID.
func (m *Manager) Connect(sessionID string) (*Client, error) {
	clientID, err := id.Generate("sse")
	if err != nil {
		return nil, err
	}
	c := &Client{
		ConnectedAt: time.Now(),
		EventChan:   make(chan Event, clientBufferSize),
		Done:        make(chan struct{}),
		ID:          clientID,
		SessionID:   sessionID,
	}

	m.mu.Lock()
	clients := m.sessions[sessionID]
	if clients == nil {
		clients = make(map[string]*Client)
		m.sessions[sessionID] = clients
	}
	clients[clientID] = c
	m.count++
	total := m.count
	m.mu.Unlock()

	m.logger.Info("SSE client connected",
		"client_id", clientID,
		"session_id", sessionID,
		"total_clients", total,
	)
	return c, nil
}

// Disconnect closes a stream. Unknown clients are ignored.
func (m *Manager) Disconnect(c *Client) {
	m.mu.Lock()
	clients := m.sessions[c.SessionID]
	if _, ok := clients[c.ID]; !ok {
		m.mu.Unlock()
		return
	}
	delete(clients, c.ID)
	if len(clients) == 0 {
		delete(m.sessions, c.SessionID)
	}
	m.count--
	total := m.count
	m.mu.Unlock()

	close(c.Done)
	close(c.EventChan)

	m.logger.Info("SSE client disconnected",
		"client_id", c.ID,
		"session_id", c.SessionID,
		"duration", time.Since(c.ConnectedAt),
		"total_clients", total,
	)
}

// Emit queues an event. Events emitted after Shutdown are discarded.
func (m *Manager) Emit(event Event) {
	m.closeMu.RLock()
	defer m.closeMu.RUnlock()
	if m.closed {
		return
	}

	select {
	case m.events <- event:
	default:
		m.logger.Error("SSE queue full, dropping event", "event_type", event.Type)
	}
}

// CartChanged implements cart.Observer.
func (m *Manager) CartChanged(sessionID string, c *domain.Cart) {
	m.Emit(NewCartUpdatedEvent(sessionID, c))
}

// CatalogChanged is registered as a catalog listener.
func (m *Manager) CatalogChanged(doc *domain.Catalog) {
	m.Emit(NewCatalogUpdatedEvent(doc))
}

// ClientCount returns the number of open streams.
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.count
}

// SessionCount returns the number of sessions with at least one open stream.
func (m *Manager) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) closeAllClients() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, clients := range m.sessions {
		for _, c := range clients {
			close(c.Done)
			close(c.EventChan)
		}
	}
	m.sessions = make(map[string]map[string]*Client)
	m.count = 0
}
