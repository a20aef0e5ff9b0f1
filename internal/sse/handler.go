package sse

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// SessionHeader carries the cart session id. Browsers' EventSource cannot set
// headers, so the handler also accepts a "session" query parameter.
const SessionHeader = "X-Cart-Session"

// writeTimeout drops streams whose reader stopped consuming.
const writeTimeout = 60 * time.Second

// Handler serves GET /api/v1/cart/stream. A stream without a session id
// receives catalog events only.
type Handler struct {
	manager *Manager
	logger  *slog.Logger
}

// NewHandler creates a stream handler over manager.
func NewHandler(manager *Manager, logger *slog.Logger) *Handler {
	return &Handler{manager: manager, logger: logger}
}

// ServeHTTP streams events until the client goes away or the manager closes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.Context().Err() != nil {
		return
	}

	sessionID := strings.TrimSpace(r.URL.Query().Get("session"))
	if sessionID == "" {
		sessionID = strings.TrimSpace(r.Header.Get(SessionHeader))
	}

	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")

	stream := &eventWriter{w: w, rc: http.NewResponseController(w)}
	if err := stream.rc.Flush(); err != nil {
		h.logger.Error("streaming unsupported", "error", err)
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	client, err := h.manager.Connect(sessionID)
	if err != nil {
		h.logger.Error("SSE connect failed", "error", err)
		http.Error(w, "Failed to establish connection", http.StatusInternalServerError)
		return
	}
	defer h.manager.Disconnect(client)

	log := h.logger.With("client_id", client.ID, "session_id", sessionID)

	if err := stream.write("connected", map[string]string{
		"client_id":  client.ID,
		"session_id": sessionID,
	}); err != nil {
		log.Warn("SSE handshake failed", "error", err)
		return
	}

	for {
		select {
		case event, ok := <-client.EventChan:
			if !ok {
				return
			}
			if err := stream.write(string(event.Type), event); err != nil {
				log.Debug("SSE client went away during write")
				return
			}
		case <-client.Done:
			return
		case <-r.Context().Done():
			return
		}
	}
}

// eventWriter frames text/event-stream messages.
type eventWriter struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

func (e *eventWriter) write(eventType string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(e.w, "event: %s\ndata: %s\n\n", eventType, payload); err != nil {
		return err
	}
	if err := e.rc.Flush(); err != nil {
		return err
	}
	// Not every ResponseWriter supports deadlines; httptest's does not.
	_ = e.rc.SetWriteDeadline(time.Now().Add(writeTimeout))
	return nil
}
