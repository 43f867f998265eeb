// Package server exposes a read-only HTTP and WebSocket surface over a
// runs directory: the session inventory, raw cast content, server-side
// rendered transcripts, and one live playback stream per WebSocket
// connection. Every response is derived from the cast files on disk;
// nothing here mutates them.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/logflix/logflix/internal/core/cache"
	"github.com/logflix/logflix/internal/core/cast"
	"github.com/logflix/logflix/internal/core/model"
	"github.com/logflix/logflix/internal/core/player"
	"github.com/logflix/logflix/internal/data/scanner"
	"github.com/logflix/logflix/internal/data/summarize"
	"github.com/logflix/logflix/internal/inventory"
	"github.com/logflix/logflix/internal/util"
)

// documentCacheSize bounds the parsed documents held in memory for
// replay clients. Viewers tend to cluster on a handful of sessions.
const documentCacheSize = 32

var errSessionNotFound = errors.New("session not found")

// Config wires a server to its data directories and listen address.
type Config struct {
	RunsDir  string
	CacheDir string
	Addr     string
}

// Server answers inventory and playback queries for one runs directory.
type Server struct {
	config    Config
	documents *cache.DocumentCache
}

// New builds a server over the configured runs directory.
func New(config Config) *Server {
	return &Server{
		config:    config,
		documents: cache.NewDocumentCache(documentCacheSize),
	}
}

// Handler returns the route table for the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/sessions", s.handleSessions)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleSession)
	mux.HandleFunc("GET /api/sessions/{id}/cast", s.handleCast)
	mux.HandleFunc("GET /api/sessions/{id}/transcript", s.handleTranscript)
	mux.HandleFunc("GET /ws/sessions/{id}", s.handleStream)
	return mux
}

// sessionList is the inventory response body.
type sessionList struct {
	Count    int                     `json:"count"`
	Sessions []*model.SessionSummary `json:"sessions"`
}

// sessionDetail is one summary enriched with its timeline markers.
type sessionDetail struct {
	model.SessionSummary
	Markers []model.Marker `json:"markers"`
}

// transcript is the fully rendered session: the terminal content after
// every output event has been applied, plus the decoded annotations.
type transcript struct {
	SessionID   string             `json:"session_id"`
	Duration    float64            `json:"duration"`
	Text        string             `json:"text"`
	Annotations []model.Annotation `json:"annotations"`
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.collect()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if summaries == nil {
		summaries = []*model.SessionSummary{}
	}
	writeJSON(w, http.StatusOK, sessionList{Count: len(summaries), Sessions: summaries})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	path, err := s.resolveSession(r.PathValue("id"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	doc, err := s.loadDocument(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	detail := sessionDetail{
		SessionSummary: summarize.Summarize(path, doc),
		Markers:        player.Markers(doc.Annotations, doc.MaxTime),
	}
	if detail.Markers == nil {
		detail.Markers = []model.Marker{}
	}
	writeJSON(w, http.StatusOK, detail)
}

// handleCast serves the cast file verbatim. This is the boundary a
// browser player consumes; the server never rewrites recorded bytes.
func (s *Server) handleCast(w http.ResponseWriter, r *http.Request) {
	path, err := s.resolveSession(r.PathValue("id"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(data)
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	path, err := s.resolveSession(id)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	doc, err := s.loadDocument(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	body := transcript{
		SessionID:   id,
		Duration:    doc.MaxTime,
		Text:        player.VisibleText(doc.Events, doc.MaxTime),
		Annotations: doc.Annotations,
	}
	if body.Annotations == nil {
		body.Annotations = []model.Annotation{}
	}
	writeJSON(w, http.StatusOK, body)
}

// collect builds the session inventory the same way the list command
// does, sorted by recording time. The file cache under CacheDir is
// shared with the CLI, so summaries parsed by either side serve both.
func (s *Server) collect() ([]*model.SessionSummary, error) {
	inv := inventory.New(&inventory.Config{
		RunsDir:  s.config.RunsDir,
		CacheDir: s.config.CacheDir,
		SortBy:   "recorded",
	})
	return inv.Collect()
}

// resolveSession maps a session id from the URL to its cast file path.
// Ids are file stems, so the lookup is a scan plus exact match.
func (s *Server) resolveSession(id string) (string, error) {
	if id == "" {
		return "", errSessionNotFound
	}
	files, err := scanner.NewFileScanner(s.config.RunsDir).Scan()
	if err != nil {
		return "", fmt.Errorf("failed to scan runs directory: %w", err)
	}
	for _, file := range files {
		if summarize.ExtractSessionID(file) == id {
			return file, nil
		}
	}
	return "", fmt.Errorf("%w: %s", errSessionNotFound, id)
}

// loadDocument returns the parsed document for path, served from the
// in-memory cache when the file on disk is unchanged.
func (s *Server) loadDocument(path string) (*cast.Document, error) {
	if doc, ok := s.documents.Get(path); ok {
		return doc, nil
	}
	doc, err := cast.ParseFile(path)
	if err != nil {
		return nil, err
	}
	if err := s.documents.Set(path, doc); err != nil {
		util.LogDebug(fmt.Sprintf("Document cache store failed for %s: %v", path, err))
	}
	return doc, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, errSessionNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeError(w, http.StatusInternalServerError, err)
}
