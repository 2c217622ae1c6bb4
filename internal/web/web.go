// Package web serves the editor: one HTML page plus a JSON API the page
// drives. The browser is a thin shell: it reports raw input and element
// sizes; document state, geometry and the interaction state machines all
// live here.
package web

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/maruten0420/REDZONE-history/internal/cache"
	"github.com/maruten0420/REDZONE-history/internal/config"
	"github.com/maruten0420/REDZONE-history/internal/connector"
	"github.com/maruten0420/REDZONE-history/internal/document"
	"github.com/maruten0420/REDZONE-history/internal/drag"
	"github.com/maruten0420/REDZONE-history/internal/hover"
	"github.com/maruten0420/REDZONE-history/internal/measure"
	"github.com/maruten0420/REDZONE-history/internal/remote"
	"github.com/maruten0420/REDZONE-history/internal/render"
	"github.com/maruten0420/REDZONE-history/internal/style"
	"github.com/maruten0420/REDZONE-history/internal/timeline"
)

// Server owns the editor's runtime state.
type Server struct {
	cfg     *config.Config
	sheet   *style.Sheet
	store   *document.Store
	tracker *measure.Tracker
	drags   *drag.Manager
	hov     *hover.Coordinator
	mux     *http.ServeMux
}

// NewServer wires the store, measurement tracker, drag manager and hover
// coordinator together.
func NewServer(cfg *config.Config, sheet *style.Sheet, store *document.Store) *Server {
	s := &Server{
		cfg:     cfg,
		sheet:   sheet,
		store:   store,
		tracker: measure.NewTracker(),
		hov:     hover.NewCoordinator(),
		mux:     http.NewServeMux(),
	}
	s.drags = drag.NewManager(func(id string, pct float64) {
		if err := store.SetOffset(id, pct); err != nil {
			log.Printf("drag commit failed: %v", err)
		}
	})
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /{$}", s.handlePage)
	s.mux.HandleFunc("GET /render.svg", s.handleRenderSVG)

	s.mux.HandleFunc("GET /api/document", s.handleDocument)
	s.mux.HandleFunc("GET /api/export", s.handleExport)
	s.mux.HandleFunc("POST /api/import", s.handleImport)

	s.mux.HandleFunc("POST /api/events", s.handleCreateEvent)
	s.mux.HandleFunc("PUT /api/events/{id}", s.handleUpdateEvent)
	s.mux.HandleFunc("DELETE /api/events/{id}", s.handleDeleteEvent)
	s.mux.HandleFunc("POST /api/events/{id}/links", s.handleAddLink)
	s.mux.HandleFunc("DELETE /api/events/{id}/links/{target}", s.handleRemoveLink)

	s.mux.HandleFunc("GET /api/layout", s.handleLayout)
	s.mux.HandleFunc("POST /api/measure", s.handleMeasure)
	s.mux.HandleFunc("POST /api/gesture", s.handleGesture)
	s.mux.HandleFunc("POST /api/hover", s.handleHover)

	s.mux.HandleFunc("POST /api/cache/restore", s.handleCacheRestore)
	s.mux.HandleFunc("POST /api/cache/reset", s.handleCacheReset)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// category and scale pull the shared view state out of a request's query
// parameters, clamped and defaulted, never failing.
func (s *Server) category(r *http.Request) document.Category {
	cat := document.Category(r.URL.Query().Get("category"))
	if !document.ValidCategory(cat) {
		cat = document.Category(s.cfg.Timeline.Category)
	}
	if !document.ValidCategory(cat) {
		cat = document.CategoryTechnique
	}
	return cat
}

func (s *Server) scale(r *http.Request) timeline.Scale {
	zoom := s.cfg.Timeline.Zoom
	if z := r.URL.Query().Get("zoom"); z != "" {
		fmt.Sscanf(z, "%f", &zoom)
	}
	start, err := time.ParseInLocation(document.DateLayout, s.cfg.Timeline.Start, time.Local)
	if err != nil {
		start = time.Date(1990, time.January, 1, 0, 0, 0, 0, time.Local)
	}
	return timeline.NewScale(start, zoom)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	cat := s.category(r)
	scale := s.scale(r)
	snap := s.tracker.Measurements()

	svg := render.SVG(s.store.Events(), cat, scale, snap, s.sheet)
	page, err := render.Page(render.NewPageData(cat, scale.Zoom, svg, s.sheet))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render editor page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, page)
}

func (s *Server) handleRenderSVG(w http.ResponseWriter, r *http.Request) {
	svg := render.SVG(s.store.Events(), s.category(r), s.scale(r), s.tracker.Measurements(), s.sheet)
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = io.WriteString(w, svg)
}

func (s *Server) handleDocument(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Events())
}

func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	data, err := document.Export(s.store.Events())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="history.json"`)
	_, _ = w.Write(data)
}

// handleImport replaces the document with an uploaded JSON array. A
// malformed upload leaves the current document untouched.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}
	doc, err := document.Parse(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.store.Reset(doc)
	writeJSON(w, http.StatusOK, map[string]int{"events": len(doc)})
}

// eventRequest keeps optional fields as pointers so a partial payload
// only touches what it names, the same absent-vs-zero split the document
// decoder makes.
type eventRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Date        string   `json:"date"`
	Category    string   `json:"category"`
	URL         *string  `json:"url"`
	XOffset     *float64 `json:"xOffset"`
	BorderColor string   `json:"borderColor"`
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid event payload")
		return
	}

	ev := document.NewEvent(document.Category(req.Category))
	if req.Title != nil {
		ev.Title = *req.Title
	}
	if req.Description != nil {
		ev.Description = *req.Description
	}
	if req.URL != nil {
		ev.URL = *req.URL
	}
	if req.Date != "" {
		ev.Date = req.Date
	}
	if req.XOffset != nil {
		ev.XOffset = document.ClampOffset(*req.XOffset)
	}
	if req.BorderColor != "" {
		ev.BorderColor = req.BorderColor
	}
	s.store.Append(ev)
	writeJSON(w, http.StatusCreated, ev)
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid event payload")
		return
	}

	current, ok := s.store.Find(id)
	if !ok {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	if req.Title != nil {
		current.Title = *req.Title
	}
	if req.Description != nil {
		current.Description = *req.Description
	}
	if req.URL != nil {
		current.URL = *req.URL
	}
	if req.Date != "" {
		current.Date = req.Date
	}
	if document.ValidCategory(document.Category(req.Category)) {
		current.Category = document.Category(req.Category)
	}
	if req.XOffset != nil {
		current.XOffset = document.ClampOffset(*req.XOffset)
	}
	if req.BorderColor != "" {
		current.BorderColor = req.BorderColor
	}

	if err := s.store.Replace(id, current); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, current)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Remove(r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleAddLink(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TargetID string `json:"targetId"`
		Color    string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid link payload")
		return
	}
	if err := s.store.AddLink(r.PathValue("id"), req.TargetID, req.Color); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"linked": true})
}

func (s *Server) handleRemoveLink(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemoveLink(r.PathValue("id"), r.PathValue("target")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"unlinked": true})
}

type cardLayout struct {
	ID     string  `json:"id"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// handleLayout exposes the computed geometry for one column: card boxes
// and connector curves, using the latest reported measurements.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	cat := s.category(r)
	scale := s.scale(r)
	snap := s.tracker.Measurements()
	cardW := s.sheet.CardWidth(snap.ContainerWidth)
	doc := s.store.Events()

	cards := make([]cardLayout, 0)
	for _, ev := range doc.FilterCategory(cat) {
		h, _ := snap.Height(ev.ID)
		cards = append(cards, cardLayout{
			ID:     ev.ID,
			Left:   timeline.OffsetToX(ev.XOffset, snap.ContainerWidth, cardW) - cardW/2,
			Top:    scale.DateToY(ev.Day()),
			Width:  cardW,
			Height: h,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"category": cat,
		"zoom":     scale.Zoom,
		"cards":    cards,
		"curves":   connector.Route(doc, cat, scale, snap, cardW),
	})
}

// handleMeasure ingests the browser's resize observations and prunes
// cards that left the visible set.
func (s *Server) handleMeasure(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category       string             `json:"category"`
		ContainerWidth float64            `json:"containerWidth"`
		Heights        map[string]float64 `json:"heights"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid measure payload")
		return
	}

	s.tracker.Report(req.ContainerWidth, req.Heights)
	if cat := document.Category(req.Category); document.ValidCategory(cat) {
		visible := make(map[string]bool)
		for _, ev := range s.store.Visible(cat) {
			visible[ev.ID] = true
		}
		s.tracker.Prune(visible)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type gestureRequest struct {
	Type string  `json:"type"`
	ID   string  `json:"id"`
	X    float64 `json:"x"`
}

type gestureResponse struct {
	State string  `json:"state"`
	Left  float64 `json:"left"`
	Top   float64 `json:"top"`
}

// handleGesture runs the card's lock/drag state machine on raw pointer
// input and answers with the position the page should display.
func (s *Server) handleGesture(w http.ResponseWriter, r *http.Request) {
	var req gestureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid gesture payload")
		return
	}

	ev, ok := s.store.Find(req.ID)
	if !ok {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}

	snap := s.tracker.Measurements()
	cardW := s.sheet.CardWidth(snap.ContainerWidth)

	switch req.Type {
	case "lock":
		s.drags.ToggleLock(req.ID)
	case "down":
		// Travel is measured once, at drag start.
		s.drags.PointerDown(req.ID, req.X, ev.XOffset, snap.ContainerWidth-cardW)
	case "move":
		s.drags.PointerMove(req.ID, req.X)
	case "up":
		s.drags.PointerUp(req.ID)
	default:
		writeError(w, http.StatusBadRequest, "unknown gesture type")
		return
	}

	// Position reflects the in-flight display offset while dragging and
	// the committed value otherwise. Re-read the event: "up" has just
	// committed a new offset.
	if ev, ok = s.store.Find(req.ID); !ok {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	display := s.drags.DisplayOffset(req.ID, ev.XOffset)
	scale := s.scale(r)
	writeJSON(w, http.StatusOK, gestureResponse{
		State: s.drags.State(req.ID).String(),
		Left:  timeline.OffsetToX(display, snap.ContainerWidth, cardW) - cardW/2,
		Top:   scale.DateToY(ev.Day()),
	})
}

type hoverRequest struct {
	Type   string `json:"type"`
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	var req hoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid hover payload")
		return
	}

	switch req.Type {
	case "card-enter":
		s.hov.HoverCard(req.ID)
	case "card-leave":
		s.hov.LeaveCard()
	case "card-press":
		s.hov.PressCard(req.ID)
	case "conn-enter":
		s.hov.HoverConnection(req.Source, req.Target)
	case "conn-leave":
		s.hov.LeaveConnection()
	case "conn-press":
		s.hov.PressConnection(req.Source, req.Target)
	case "cancel":
		s.hov.CancelPress()
	case "release":
		s.hov.Release()
	case "query":
		// No state change. Touch clients poll this after a long-press
		// delay to learn whether the press promoted.
	default:
		writeError(w, http.StatusBadRequest, "unknown hover type")
		return
	}

	resp := map[string]string{}
	if id := s.hov.HoveredCard(); id != "" {
		if ev, ok := s.store.Find(id); ok {
			resp["title"] = ev.Title
			resp["description"] = ev.Description
		}
	}
	if conn, ok := s.hov.Highlighted(); ok {
		resp["source"] = conn.SourceID
		resp["target"] = conn.TargetID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCacheRestore(w http.ResponseWriter, _ *http.Request) {
	doc, ok := cache.Load()
	if !ok {
		writeError(w, http.StatusNotFound, "no cached document")
		return
	}
	s.store.Reset(doc)
	writeJSON(w, http.StatusOK, map[string]int{"events": len(doc)})
}

// handleCacheReset discards the local cache and reloads from the remote
// (or an empty document when no remote is configured).
func (s *Server) handleCacheReset(w http.ResponseWriter, r *http.Request) {
	if err := cache.Clear(); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear cache")
		return
	}
	doc := remote.Bootstrap(r.Context(), s.cfg.Remote.URL)
	s.store.Reset(doc)
	writeJSON(w, http.StatusOK, map[string]int{"events": len(doc)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
