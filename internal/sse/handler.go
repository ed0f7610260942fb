package sse

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/osse101/ssbwatch/internal/logger"
)

// ParseTypes reads the ?types= filter. Unknown names are an error; an empty
// filter means every streamable type.
func ParseTypes(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var (
		types   []string
		unknown []string
	)
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !slices.Contains(StreamableTypes, t) {
			unknown = append(unknown, t)
			continue
		}
		types = append(types, t)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf(ErrMsgUnknownTypes, strings.Join(unknown, ","))
	}
	return types, nil
}

// Handler returns an HTTP handler for SSE connections
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		eventTypes, err := ParseTypes(r.URL.Query().Get("types"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "SSE not supported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		client := hub.Register(eventTypes)
		log.Info(LogMsgClientConnected,
			"client_id", client.ID,
			"filters", eventTypes,
			"total_clients", hub.ClientCount())

		defer func() {
			hub.Unregister(client.ID)
			log.Info(LogMsgClientDisconnected, "client_id", client.ID)
		}()

		connected := Event{
			ID:        client.ID,
			Type:      EventTypeConnected,
			Timestamp: time.Now().Unix(),
			Payload:   ConnectedPayload{ClientID: client.ID, Filters: eventTypes},
		}
		if !write(w, flusher, connected) {
			return
		}

		ticker := time.NewTicker(KeepaliveInterval)
		defer ticker.Stop()

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-client.EventChannel:
				if !ok {
					// hub is shutting down
					return
				}
				if !write(w, flusher, event) {
					log.Warn(LogMsgWriteError, "client_id", client.ID)
					return
				}

			case <-ticker.C:
				if !write(w, flusher, Event{Type: EventTypeKeepalive, Timestamp: time.Now().Unix()}) {
					return
				}
			}
		}
	}
}

func write(w http.ResponseWriter, flusher http.Flusher, event Event) bool {
	msg, err := FormatSSEMessage(event)
	if err != nil {
		return false
	}
	if _, err := w.Write(msg); err != nil {
		return false
	}
	flusher.Flush()
	return true
}
