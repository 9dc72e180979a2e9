// Package monitor serves the hand-ray debug surface: JSON snapshots of
// the live pipelines, an SSE stream of gate transitions, and HTML
// charts over recorded sessions. Debugging-only endpoints, no auth.
package monitor

import (
	crand "crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/glia-xr/handray/internal/handraydb"
	"github.com/glia-xr/handray/internal/handtrack"
	"github.com/glia-xr/handray/internal/monitoring"
)

// WebServer exposes the debug endpoints for a set of live pipelines
// and, optionally, the session store they record into.
type WebServer struct {
	pipelines []*handtrack.HandPipeline
	db        *handraydb.DB
	sessionID string

	subscriberMu sync.Mutex
	subscribers  map[string]chan handraydb.GateEventRow
}

// NewWebServer returns a server over the given pipelines. db may be
// nil, which disables the session chart endpoints.
func NewWebServer(pipelines []*handtrack.HandPipeline, db *handraydb.DB, sessionID string) *WebServer {
	return &WebServer{
		pipelines:   pipelines,
		db:          db,
		sessionID:   sessionID,
		subscribers: make(map[string]chan handraydb.GateEventRow),
	}
}

// ServeMux returns the debug route table.
func (ws *WebServer) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/hands", ws.handleHands)
	mux.HandleFunc("/api/hands/events", ws.handleGateEvents)
	mux.HandleFunc("/debug/session", ws.handleSessionCharts)
	mux.HandleFunc("/", ws.handleHome)
	return mux
}

func (ws *WebServer) handleHome(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("handray monitor: /api/hands, /api/hands/events, /debug/session\n"))
}

// handSnapshot is the wire form of a pipeline snapshot.
type handSnapshot struct {
	Hand      string     `json:"hand"`
	Origin    [3]float64 `json:"origin"`
	Direction [3]float64 `json:"direction"`
	Pivot     [3]float64 `json:"pivot"`
	Pointing  bool       `json:"pointing"`
	TimeNanos int64      `json:"t_ns"`
}

func toWire(s handtrack.Snapshot) handSnapshot {
	return handSnapshot{
		Hand:      string(s.Hand),
		Origin:    [3]float64{s.Ray.Origin.X, s.Ray.Origin.Y, s.Ray.Origin.Z},
		Direction: [3]float64{s.Ray.Direction.X, s.Ray.Direction.Y, s.Ray.Direction.Z},
		Pivot:     [3]float64{s.Pivot.X, s.Pivot.Y, s.Pivot.Z},
		Pointing:  s.Pointing,
		TimeNanos: s.Timestamp.UnixNano(),
	}
}

func (ws *WebServer) handleHands(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snaps := make([]handSnapshot, 0, len(ws.pipelines))
	for _, p := range ws.pipelines {
		snaps = append(snaps, toWire(p.Snapshot()))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snaps); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, "failed to encode snapshots")
	}
}

func randomID() string {
	b := make([]byte, 8)
	crand.Read(b)
	return hex.EncodeToString(b)
}

// Subscribe registers an SSE consumer for gate transitions.
func (ws *WebServer) Subscribe() (string, chan handraydb.GateEventRow) {
	id := randomID()
	ch := make(chan handraydb.GateEventRow, 16)
	ws.subscriberMu.Lock()
	defer ws.subscriberMu.Unlock()
	ws.subscribers[id] = ch
	monitoring.Logf("gate event subscriber %s connected (%d active)", id, len(ws.subscribers))
	return id, ch
}

// Unsubscribe removes an SSE consumer.
func (ws *WebServer) Unsubscribe(id string) {
	ws.subscriberMu.Lock()
	defer ws.subscriberMu.Unlock()
	if ch, ok := ws.subscribers[id]; ok {
		close(ch)
		delete(ws.subscribers, id)
		monitoring.Logf("gate event subscriber %s disconnected (%d active)", id, len(ws.subscribers))
	}
}

// Publish fans a gate transition out to SSE consumers. Slow consumers
// are skipped rather than blocking the update loop.
func (ws *WebServer) Publish(ev handraydb.GateEventRow) {
	ws.subscriberMu.Lock()
	defer ws.subscriberMu.Unlock()
	for _, ch := range ws.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (ws *WebServer) handleGateEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable buffering for nginx

	id, ch := ws.Subscribe()
	defer ws.Unsubscribe(id)

	// Initial ping to establish the connection.
	w.Write([]byte(": ping\n\n"))
	flusher.Flush()

	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			payload, err := json.Marshal(map[string]interface{}{
				"t_ns":     ev.TimestampNanos,
				"hand":     ev.Hand,
				"pointing": ev.Pointing,
			})
			if err != nil {
				return
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func (ws *WebServer) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
