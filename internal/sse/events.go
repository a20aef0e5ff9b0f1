// Package sse implements Server-Sent Events for live cart and catalog updates.
package sse

import (
	"time"

	"github.com/proboots/storefront/internal/domain"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventCartUpdated is sent to every stream of the session whose cart changed.
	EventCartUpdated EventType = "cart.updated"

	// EventCatalogUpdated is broadcast after any catalog write or reload.
	EventCatalogUpdated EventType = "catalog.updated"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`

	// SessionID limits delivery to one cart session. Empty means all clients.
	SessionID string `json:"-"`
}

// CartEventData is the data payload for cart events.
type CartEventData struct {
	Cart *domain.Cart `json:"cart"`
}

// CatalogEventData is the data payload for catalog events. It carries counts
// only; clients refetch what they display.
type CatalogEventData struct {
	Banners    int `json:"banners"`
	Categories int `json:"categories"`
	Products   int `json:"products"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewCartUpdatedEvent creates a cart event addressed to one session.
func NewCartUpdatedEvent(sessionID string, c *domain.Cart) Event {
	return Event{
		Type:      EventCartUpdated,
		Data:      CartEventData{Cart: c},
		Timestamp: time.Now(),
		SessionID: sessionID,
	}
}

// NewCatalogUpdatedEvent creates a catalog event for all clients.
func NewCatalogUpdatedEvent(doc *domain.Catalog) Event {
	return Event{
		Type: EventCatalogUpdated,
		Data: CatalogEventData{
			Banners:    len(doc.Banners),
			Categories: len(doc.Categories),
			Products:   len(doc.Products),
		},
		Timestamp: time.Now(),
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	now := time.Now()
	return Event{
		Type:      EventHeartbeat,
		Data:      HeartbeatEventData{ServerTime: now},
		Timestamp: now,
	}
}
