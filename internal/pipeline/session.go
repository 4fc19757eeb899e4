// Package pipeline holds the session cache and derives windowed series from it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/theirongolddev/linkstat/internal/metrics"
	"github.com/theirongolddev/linkstat/internal/model"

	"github.com/rs/zerolog/log"
)

// DefaultHistoryDays is how far back the one-shot history fetch reaches.
const DefaultHistoryDays = 3 * 365

// Provider supplies tracked links and their sparse daily traffic.
type Provider interface {
	ListLinks(ctx context.Context) ([]model.TrackedLink, error)
	FetchTraffic(ctx context.Context, linkID string, w model.Window) ([]model.TrafficPoint, error)
}

// ProgressFunc is called while history loads.
// current is the number of links fetched so far, total is the link count.
type ProgressFunc func(current, total int)

// HistoryWindow returns the wide window fetched once per session.
func HistoryWindow(now time.Time, lookbackDays int) model.Window {
	if lookbackDays <= 0 {
		lookbackDays = DefaultHistoryDays
	}
	return model.LastDays(now, lookbackDays)
}

// SessionCache holds one session's links and raw traffic history.
// Each kind of data is fetched at most once; afterwards the cache is read-only.
type SessionCache struct {
	provider Provider

	// loadMu serialises population so concurrent callers never double-fetch.
	loadMu sync.Mutex

	mu            sync.RWMutex
	links         []model.TrackedLink
	linksLoaded   bool
	linksErr      error
	history       map[string][]model.TrafficPoint
	historyLoaded bool
	historyWindow model.Window
	historyErrs   map[string]error
	loadedAt      time.Time
}

// NewSessionCache returns an empty cache backed by p.
func NewSessionCache(p Provider) *SessionCache {
	return &SessionCache{
		provider:    p,
		history:     make(map[string][]model.TrafficPoint),
		historyErrs: make(map[string]error),
	}
}

// EnsureLinksLoaded lists the tracked links on first call and is a no-op after.
// A provider failure leaves an empty link set and is returned once; the
// session stays usable.
func (c *SessionCache) EnsureLinksLoaded(ctx context.Context) error {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()
	return c.ensureLinks(ctx)
}

// ensureLinks requires loadMu.
func (c *SessionCache) ensureLinks(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.linksLoaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}

	links, err := c.provider.ListLinks(ctx)
	if err != nil {
		links = nil
		metrics.CachePopulationsTotal.WithLabelValues("links", "error").Inc()
		log.Warn().Err(err).Msg("listing tracked links failed, continuing with none")
	} else {
		metrics.CachePopulationsTotal.WithLabelValues("links", "ok").Inc()
	}

	c.mu.Lock()
	c.links = links
	c.linksErr = err
	c.linksLoaded = true
	c.mu.Unlock()

	if err != nil {
		return fmt.Errorf("loading links: %w", err)
	}
	return nil
}

// EnsureHistoryLoaded fetches traffic over history for every tracked link on
// first call and is a no-op after. Links are listed first if needed.
// A failing link is stored with no points and its error recorded; the
// remaining links are still fetched. The returned error joins the per-link
// failures, and the listing failure if this call did the listing.
// If ctx is cancelled mid-way nothing is stored and the ctx error is returned.
func (c *SessionCache) EnsureHistoryLoaded(ctx context.Context, history model.Window, progress ProgressFunc) error {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	// After a listing failure there is nothing to fetch, but the caller
	// still hears about it.
	linksErr := c.ensureLinks(ctx)

	c.mu.RLock()
	loaded := c.historyLoaded
	links := slices.Clone(c.links)
	c.mu.RUnlock()
	if loaded {
		return linksErr
	}

	fetched := make(map[string][]model.TrafficPoint, len(links))
	failures := make(map[string]error)
	var errs []error

	for i, l := range links {
		// Cancellation is not a provider failure: stop and leave history
		// unloaded so a later call can fetch it.
		if err := ctx.Err(); err != nil {
			return errors.Join(linksErr, fmt.Errorf("loading history: %w", err))
		}
		points, err := c.provider.FetchTraffic(ctx, l.ID, history)
		if err != nil {
			points = nil
			failures[l.ID] = err
			errs = append(errs, fmt.Errorf("link %q: %w", l.Name, err))
			log.Warn().Err(err).Str("link_id", l.ID).Str("link", l.Name).Msg("history fetch failed, link will read as zero")
		}
		if points == nil {
			points = []model.TrafficPoint{}
		}
		fetched[l.ID] = points

		if progress != nil {
			progress(i+1, len(links))
		}
	}

	status := "ok"
	if len(errs) > 0 {
		status = "partial"
	}
	metrics.CachePopulationsTotal.WithLabelValues("history", status).Inc()

	c.mu.Lock()
	c.history = fetched
	c.historyErrs = failures
	c.historyWindow = history
	c.historyLoaded = true
	c.loadedAt = time.Now()
	c.mu.Unlock()

	return errors.Join(append([]error{linksErr}, errs...)...)
}

// Load runs both population steps, returning every recoverable error joined.
func (c *SessionCache) Load(ctx context.Context, history model.Window, progress ProgressFunc) error {
	linksErr := c.EnsureLinksLoaded(ctx)
	historyErr := c.EnsureHistoryLoaded(ctx, history, progress)
	return errors.Join(linksErr, historyErr)
}

// LinksLoaded reports whether the link listing has run.
func (c *SessionCache) LinksLoaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.linksLoaded
}

// HistoryLoaded reports whether the history fetch has run.
func (c *SessionCache) HistoryLoaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.historyLoaded
}

// Links returns a copy of the tracked links in provider order.
func (c *SessionCache) Links() []model.TrackedLink {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.links)
}

// LinkByName returns the first link with the given display name.
func (c *SessionCache) LinkByName(name string) (model.TrackedLink, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, l := range c.links {
		if l.Name == name {
			return l, true
		}
	}
	return model.TrackedLink{}, false
}

// LinkByID returns the link with the given provider ID.
func (c *SessionCache) LinkByID(id string) (model.TrackedLink, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, l := range c.links {
		if l.ID == id {
			return l, true
		}
	}
	return model.TrackedLink{}, false
}

// History returns a copy of the raw sparse points cached for a link.
func (c *SessionCache) History(linkID string) []model.TrafficPoint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.history[linkID])
}

// LinksErr returns the error recorded when listing links, if any.
func (c *SessionCache) LinksErr() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.linksErr
}

// HistoryErr returns the error recorded for one link's history fetch, if any.
func (c *SessionCache) HistoryErr(linkID string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.historyErrs[linkID]
}

// HistoryErrors returns a copy of all per-link history failures keyed by link ID.
func (c *SessionCache) HistoryErrors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]error, len(c.historyErrs))
	for k, v := range c.historyErrs {
		out[k] = v
	}
	return out
}

// HistoryWindow returns the window the history was fetched over.
func (c *SessionCache) HistoryWindow() model.Window {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.historyWindow
}

// LoadedAt returns when history population finished.
func (c *SessionCache) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}
