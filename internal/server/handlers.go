package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/linkstat/internal/model"
	"github.com/theirongolddev/linkstat/internal/pipeline"
)

// WindowJSON is a window in responses.
type WindowJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
}

// LinkRowJSON is one row of the link table.
type LinkRowJSON struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name"`
	URL            string `json:"url,omitempty"`
	WindowClicks   int64  `json:"window_clicks"`
	PrevClicks     int64  `json:"prev_window_clicks"`
	LifetimeClicks int64  `json:"lifetime_clicks"`
	Error          string `json:"error,omitempty"`
}

// LinksResponse is served at /v1/links.
type LinksResponse struct {
	Session string        `json:"session"`
	Window  WindowJSON    `json:"window"`
	Links   []LinkRowJSON `json:"links"`
	Total   LinkRowJSON   `json:"total"`
	Errors  []string      `json:"errors,omitempty"`
}

// SeriesColumnJSON is one named column of a chart table.
type SeriesColumnJSON struct {
	Name   string  `json:"name"`
	Values []int64 `json:"values"`
	Total  int64   `json:"total"`
}

// SeriesResponse is served at /v1/series.
type SeriesResponse struct {
	Session string             `json:"session"`
	Window  WindowJSON         `json:"window"`
	Dates   []string           `json:"dates"`
	Columns []SeriesColumnJSON `json:"columns"`
	Errors  []string           `json:"errors,omitempty"`
}

// DetailResponse is served at /v1/links/{name}.
type DetailResponse struct {
	Session        string     `json:"session"`
	Window         WindowJSON `json:"window"`
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	URL            string     `json:"url"`
	LifetimeClicks int64      `json:"lifetime_clicks"`
	WindowClicks   int64      `json:"window_clicks"`
	PrevClicks     int64      `json:"prev_window_clicks"`
	Dates          []string   `json:"dates"`
	Values         []int64    `json:"values"`
	Error          string     `json:"error,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt     time.Time   `json:"started_at"`
	Sessions      int         `json:"sessions"`
	SessionTTLSec int         `json:"session_ttl_sec"`
	Session       string      `json:"session"`
	LinksLoaded   bool        `json:"links_loaded"`
	HistoryLoaded bool        `json:"history_loaded"`
	HistoryWindow *WindowJSON `json:"history_window,omitempty"`
	LoadedAt      time.Time   `json:"loaded_at,omitzero"`
	LinkCount     int         `json:"link_count"`
	Errors        []string    `json:"errors,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encoding response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func windowJSON(w model.Window) WindowJSON {
	return WindowJSON{Start: model.DayKey(w.Start), End: model.DayKey(w.End), Days: w.Days()}
}

func dateKeys(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = model.DayKey(d)
	}
	return out
}

func rowJSON(r pipeline.LinkRow) LinkRowJSON {
	out := LinkRowJSON{
		ID:             r.ID,
		Name:           r.Name,
		URL:            r.URL,
		WindowClicks:   r.WindowClicks,
		PrevClicks:     r.PrevClicks,
		LifetimeClicks: r.LifetimeClicks,
	}
	if r.HistoryErr != nil {
		out.Error = r.HistoryErr.Error()
	}
	return out
}

// requestWindow reads start, end and days query parameters.
func (s *Server) requestWindow(r *http.Request) (model.Window, error) {
	q := r.URL.Query()
	days := s.cfg.DefaultDays
	if v := q.Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return model.Window{}, errors.New("days must be a non-negative integer")
		}
		days = n
	}
	return model.ParseWindow(q.Get("start"), q.Get("end"), days, s.cfg.Now())
}

// ensureLoaded populates the session cache on first use. Population is
// detached from the request so a client disconnect cannot leave the
// session half-loaded.
func (s *Server) ensureLoaded(ctx context.Context, sess *session) {
	if sess.cache.HistoryLoaded() {
		return
	}
	history := pipeline.HistoryWindow(s.cfg.Now(), s.cfg.HistoryDays)
	if err := sess.cache.Load(context.WithoutCancel(ctx), history, nil); err != nil {
		log.Warn().Err(err).Str("session", sess.id).Msg("session loaded with errors")
	}
}

// cacheErrors lists the recorded provider failures of a session.
func cacheErrors(c *pipeline.SessionCache) []string {
	var out []string
	if err := c.LinksErr(); err != nil {
		out = append(out, err.Error())
	}
	for _, l := range c.Links() {
		if err := c.HistoryErr(l.ID); err != nil {
			out = append(out, err.Error())
		}
	}
	return out
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	sess := s.attachSession(w, r)
	c := sess.cache

	st := Status{
		StartedAt:     s.startedAt,
		Sessions:      s.sessions.len(),
		SessionTTLSec: int(s.cfg.SessionTTL.Seconds()),
		Session:       sess.id,
		LinksLoaded:   c.LinksLoaded(),
		HistoryLoaded: c.HistoryLoaded(),
		LoadedAt:      c.LoadedAt(),
		LinkCount:     len(c.Links()),
		Errors:        cacheErrors(c),
	}
	if c.HistoryLoaded() {
		hw := windowJSON(c.HistoryWindow())
		st.HistoryWindow = &hw
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleLinks(w http.ResponseWriter, r *http.Request) {
	win, err := s.requestWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess := s.attachSession(w, r)
	s.ensureLoaded(r.Context(), sess)

	table := pipeline.BuildLinkTable(sess.cache, win)
	resp := LinksResponse{
		Session: sess.id,
		Window:  windowJSON(win),
		Links:   make([]LinkRowJSON, 0, len(table.Rows)),
		Total:   rowJSON(table.Total),
		Errors:  cacheErrors(sess.cache),
	}
	for _, row := range table.Rows {
		resp.Links = append(resp.Links, rowJSON(row))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	win, err := s.requestWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	includeTotal := true
	if v := r.URL.Query().Get("total"); v != "" {
		if includeTotal, err = strconv.ParseBool(v); err != nil {
			writeError(w, http.StatusBadRequest, "total must be a boolean")
			return
		}
	}

	sess := s.attachSession(w, r)
	s.ensureLoaded(r.Context(), sess)

	chart, err := pipeline.BuildChartTable(sess.cache, r.URL.Query()["link"], win, includeTotal)
	if err != nil {
		if errors.Is(err, pipeline.ErrUnknownLink) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := SeriesResponse{
		Session: sess.id,
		Window:  windowJSON(win),
		Dates:   dateKeys(chart.Dates),
		Columns: make([]SeriesColumnJSON, 0, len(chart.Columns)),
		Errors:  cacheErrors(sess.cache),
	}
	for _, col := range chart.Columns {
		resp.Columns = append(resp.Columns, SeriesColumnJSON{Name: col.Name, Values: col.Values, Total: col.Total})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLinkDetail(w http.ResponseWriter, r *http.Request) {
	win, err := s.requestWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess := s.attachSession(w, r)
	s.ensureLoaded(r.Context(), sess)

	name := mux.Vars(r)["name"]
	d, err := pipeline.BuildLinkDetail(sess.cache, name, win)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	resp := DetailResponse{
		Session:        sess.id,
		Window:         windowJSON(win),
		ID:             d.Link.ID,
		Name:           d.Link.Name,
		URL:            d.Link.URL,
		LifetimeClicks: d.Link.LifetimeClicks,
		WindowClicks:   d.WindowClicks,
		PrevClicks:     d.PrevClicks,
		Dates:          dateKeys(win.Dates()),
		Values:         d.Series.Values(),
	}
	if d.HistoryErr != nil {
		resp.Error = d.HistoryErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if id == "" || !s.sessions.remove(id) {
		writeError(w, http.StatusNotFound, "no such session")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}
