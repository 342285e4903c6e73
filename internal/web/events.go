package web

import (
	"fmt"
	"net/http"

	"github.com/debemdeboas/postdeck/internal/config"
	"github.com/debemdeboas/postdeck/internal/sse"
)

// serveEvents streams a reload event carrying the new collection version whenever the
// session's collection changes.
func (h *Handler) serveEvents(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HCType, "text/event-stream")
	w.Header().Set(config.HCacheControl, "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	client := sse.NewClient(s.ID)
	h.clients.Add(client)
	activeStreams.Inc()
	webLogger.Debug().Str("session", s.ID).Msg("Event stream opened")

	defer func() {
		h.clients.Delete(client)
		activeStreams.Dec()
		webLogger.Debug().Str("session", s.ID).Msg("Event stream closed")
	}()

	fmt.Fprintf(w, "event: connected\ndata: %d\n\n", s.Version())
	flusher.Flush()

	done := r.Context().Done()
	for {
		select {
		case msg := <-client.Msg:
			fmt.Fprintf(w, "event: reload\ndata: %s\n\n", msg)
			flusher.Flush()
		case <-done:
			return
		}
	}
}
