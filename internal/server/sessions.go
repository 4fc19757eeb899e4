package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/linkstat/internal/metrics"
	"github.com/theirongolddev/linkstat/internal/pipeline"
)

const (
	// SessionHeader carries the session ID for API clients without cookies.
	SessionHeader = "X-Session-ID"
	// SessionCookie carries the session ID for browsers.
	SessionCookie = "linkstat_session"
)

// session is one client's isolated view of the provider data.
type session struct {
	id        string
	cache     *pipeline.SessionCache
	createdAt time.Time
}

// sessionStore keeps at most size sessions, each expiring ttl after it was
// created. Eviction drops the session's cache with it.
type sessionStore struct {
	provider pipeline.Provider

	mu  sync.Mutex // serialises get-or-create
	lru *expirable.LRU[string, *session]
}

func newSessionStore(p pipeline.Provider, size int, ttl time.Duration) *sessionStore {
	onEvict := func(id string, _ *session) {
		metrics.ActiveSessions.Dec()
		log.Debug().Str("session", id).Msg("session evicted")
	}
	return &sessionStore{
		provider: p,
		lru:      expirable.NewLRU[string, *session](size, onEvict, ttl),
	}
}

// getOrCreate returns the session for id. An unknown or expired id never
// names a new session: a fresh server-generated ID is issued instead.
// created reports whether a new session was made.
func (s *sessionStore) getOrCreate(id string) (sess *session, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if sess, ok := s.lru.Get(id); ok {
			return sess, false
		}
	}
	id = uuid.NewString()

	sess = &session{
		id:        id,
		cache:     pipeline.NewSessionCache(s.provider),
		createdAt: time.Now(),
	}
	s.lru.Add(id, sess)
	metrics.ActiveSessions.Inc()
	return sess, true
}

// remove ends a session. It reports whether the session existed.
func (s *sessionStore) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Remove(id)
}

func (s *sessionStore) len() int {
	return s.lru.Len()
}

// sessionID extracts a well-formed session ID from the request, preferring
// the header over the cookie. Anything that is not a UUID is ignored.
func sessionID(r *http.Request) string {
	if id := r.Header.Get(SessionHeader); id != "" {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	return ""
}

// attachSession resolves or creates the caller's session and echoes its ID
// back in both the header and a cookie.
func (s *Server) attachSession(w http.ResponseWriter, r *http.Request) *session {
	sess, created := s.sessions.getOrCreate(sessionID(r))
	if created {
		log.Info().Str("session", sess.id).Msg("session started")
	}
	w.Header().Set(SessionHeader, sess.id)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.id,
		Path:     "/",
		MaxAge:   int(s.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}
