// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"slices"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/inertial_tracker/internal/export"
	"github.com/relabs-tech/inertial_tracker/internal/motion"
	"github.com/relabs-tech/inertial_tracker/internal/store"
	"github.com/relabs-tech/inertial_tracker/internal/tracker"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// SessionLister reads archived exports.
type SessionLister interface {
	Sessions(ctx context.Context) ([]store.Session, error)
	SessionRecords(ctx context.Context, id uuid.UUID) ([]motion.Record, error)
}

// Server exposes the tracker over HTTP and a websocket snapshot stream.
type Server struct {
	tr       *tracker.Tracker
	sessions SessionLister // nil when no archive is configured
	mux      *http.ServeMux
}

// StateResponse is the body of GET /api/state.
type StateResponse struct {
	Snapshot motion.Snapshot `json:"snapshot"`
	Stats    tracker.Stats   `json:"stats"`
}

// NewServer builds the HTTP routes. sessions may be nil.
func NewServer(tr *tracker.Tracker, sessions SessionLister) *Server {
	s := &Server{tr: tr, sessions: sessions, mux: http.NewServeMux()}

	s.mux.HandleFunc("POST /api/start", s.handleStart)
	s.mux.HandleFunc("POST /api/reset", s.handleReset)
	s.mux.HandleFunc("POST /api/export", s.handleExport)
	s.mux.HandleFunc("GET /api/export.csv", s.handleExportCSV)
	s.mux.HandleFunc("DELETE /api/log", s.handleClearLog)
	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("GET /api/sessions", s.handleSessions)
	s.mux.HandleFunc("GET /api/sessions/{id}", s.handleSessionCSV)
	s.mux.HandleFunc("GET /ws", s.handleWS)
	s.mux.HandleFunc("GET /chart", s.handleChart)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.tr.Start()
	writeJSON(w, http.StatusOK, s.tr.Snapshot())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.tr.Reset()
	writeJSON(w, http.StatusOK, s.tr.Snapshot())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	res, err := s.tr.Export(r.Context())
	if err != nil {
		log.Printf("web: export error: %v", err)
		status := http.StatusInternalServerError
		if res.Path != "" {
			// The file is written; only the archive failed.
			status = http.StatusMultiStatus
		}
		writeJSON(w, status, map[string]any{"error": err.Error(), "result": res})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := s.tr.CSV()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeCSV(w, export.DefaultFileName, data)
}

func (s *Server) handleClearLog(w http.ResponseWriter, r *http.Request) {
	s.tr.ClearLog()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StateResponse{Snapshot: s.tr.Snapshot(), Stats: s.tr.Stats()})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		http.Error(w, "archive not configured", http.StatusNotFound)
		return
	}
	list, err := s.sessions.Sessions(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleSessionCSV(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		http.Error(w, "archive not configured", http.StatusNotFound)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}
	records, err := s.sessions.SessionRecords(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(records) == 0 {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	data, err := export.Serialize(slices.Values(records))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeCSV(w, id.String()+".csv", data)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	snap := s.tr.Snapshot()
	var buf bytes.Buffer
	if err := RenderChart(&buf, s.tr.Records(), snap.Records); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// handleWS streams a snapshot on connect and then every update until the
// client goes away.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	updates, unsubscribe := s.tr.Subscribe(16)
	defer unsubscribe()

	// The read side only detects the close frame.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(s.tr.Snapshot()); err != nil {
		log.Printf("web: websocket write error: %v", err)
		return
	}
	for {
		select {
		case <-gone:
			return
		case <-r.Context().Done():
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(snap); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					log.Printf("web: websocket write error: %v", err)
				}
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}

func writeCSV(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(name))
	w.Write(data)
}
