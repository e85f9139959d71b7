// Package trigger exposes the intent endpoint that external input binders
// (hotkey daemons, stream decks, shell scripts) call to drive the
// controller. Requests are translated into intent events on the bus.
package trigger

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/glowd/internal/eventbus"
)

// Server is an HTTP server that receives intent requests and publishes
// events to the bus.
type Server struct {
	addr       string
	bus        *eventbus.Bus
	httpServer *http.Server
}

// NewServer creates a new trigger server.
func NewServer(host string, port int, bus *eventbus.Bus) *Server {
	return &Server{
		addr: fmt.Sprintf("%s:%d", host, port),
		bus:  bus,
	}
}

// Run starts the trigger server. It blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/intent/", s.handleIntent)

	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	log.Info().Str("addr", s.addr).Msg("Starting trigger server")

	// Handle graceful shutdown
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Trigger server shutdown error")
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

// handleIntent validates the request path and publishes an intent event.
// Accepted paths:
//
//	POST /intent/toggle
//	POST /intent/brightness/{up,down}
//	POST /intent/temperature/{up,down}
func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	intent, direction, ok := parseIntentPath(r.URL.Path)
	if !ok {
		http.Error(w, "unknown intent", http.StatusNotFound)
		return
	}

	eventID := fmt.Sprintf("intent-%s-%d", intent, time.Now().UnixNano())

	log.Debug().
		Str("intent", intent).
		Str("direction", direction).
		Str("event_id", eventID).
		Msg("Received intent request")

	s.bus.Publish(eventbus.Event{
		Type: eventbus.EventTypeIntent,
		Data: map[string]interface{}{
			"intent":    intent,
			"direction": direction,
			"event_id":  eventID,
		},
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// parseIntentPath extracts intent and direction from the request path
func parseIntentPath(path string) (intent, direction string, ok bool) {
	rest := strings.TrimPrefix(path, "/intent/")
	rest = strings.Trim(rest, "/")

	parts := strings.Split(rest, "/")
	switch {
	case len(parts) == 1 && parts[0] == IntentToggle:
		return IntentToggle, "", true
	case len(parts) == 2 && (parts[0] == IntentBrightness || parts[0] == IntentTemperature):
		if parts[1] != "up" && parts[1] != "down" {
			return "", "", false
		}
		return parts[0], parts[1], true
	default:
		return "", "", false
	}
}
