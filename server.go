package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/websocket"

	"f50-race-telemetry/live"
	"f50-race-telemetry/storage"
)

// APIServer exposes the live telemetry state over HTTP: collector status,
// latest normalized row per boat, an SSE stream and a websocket stream.
type APIServer struct {
	collector *live.Collector
	buffer    *storage.RingBuffer
	db        *storage.DB
	upgrader  websocket.Upgrader
}

func NewAPIServer(collector *live.Collector, buffer *storage.RingBuffer, db *storage.DB) *APIServer {
	return &APIServer{
		collector: collector,
		buffer:    buffer,
		db:        db,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (s *APIServer) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/boats", s.handleBoats)
	mux.HandleFunc("/api/latest", s.handleLatest)
	mux.HandleFunc("/api/maneuvers", s.handleManeuvers)
	mux.HandleFunc("/api/stream", s.handleStream)
	mux.HandleFunc("/api/ws", s.handleWebsocket)
	return mux
}

func (s *APIServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"buffer": s.buffer.GetStats(),
	}
	if s.collector != nil {
		status["collector"] = s.collector.Stats().GetSnapshot()
		status["connected"] = s.collector.IsConnected()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

func (s *APIServer) handleBoats(w http.ResponseWriter, r *http.Request) {
	boats := s.buffer.Boats()
	sort.Strings(boats)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"boats": boats})
}

func (s *APIServer) handleLatest(w http.ResponseWriter, r *http.Request) {
	boat := r.URL.Query().Get("boat")
	if boat == "" {
		http.Error(w, "missing boat parameter", http.StatusBadRequest)
		return
	}

	row := s.buffer.GetLatestByBoat(boat)
	if row == nil {
		http.Error(w, fmt.Sprintf("no data for boat %s", boat), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(row)
}

func (s *APIServer) handleManeuvers(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		http.Error(w, "no database configured", http.StatusServiceUnavailable)
		return
	}

	boat := r.URL.Query().Get("boat")
	if boat == "" {
		http.Error(w, "missing boat parameter", http.StatusBadRequest)
		return
	}

	maneuvers, err := s.db.ManeuversByBoat(boat)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"boat":      boat,
		"maneuvers": maneuvers,
	})
}

// handleStream pushes the latest row for every active boat once per second
// as server-sent events.
func (s *APIServer) handleStream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			payload := s.snapshot()
			jsonData, _ := json.Marshal(payload)
			fmt.Fprintf(w, "data: %s\n\n", jsonData)
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}
		case <-r.Context().Done():
			return
		}
	}
}

func (s *APIServer) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[API] Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := conn.WriteJSON(s.snapshot()); err != nil {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}

func (s *APIServer) snapshot() map[string]interface{} {
	boats := s.buffer.Boats()
	sort.Strings(boats)

	latest := make(map[string]interface{}, len(boats))
	for _, b := range boats {
		if row := s.buffer.GetLatestByBoat(b); row != nil {
			latest[b] = row
		}
	}

	return map[string]interface{}{
		"ts":    time.Now().UTC(),
		"boats": latest,
	}
}
