package feed

import (
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type SortMode string

const (
	SortLatest SortMode = "latest"
	SortOldest SortMode = "oldest"
	SortLiked  SortMode = "liked"
)

// ParseSortMode falls back to SortLatest for anything unrecognized.
func ParseSortMode(s string) SortMode {
	switch mode := SortMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case SortLatest, SortOldest, SortLiked:
		return mode
	default:
		return SortLatest
	}
}

// ViewState is session-local and never persisted.
type ViewState struct {
	SortMode      SortMode `json:"sort"`
	FilterKeyword string   `json:"q"`
}

func DefaultViewState() ViewState {
	return ViewState{SortMode: SortLatest}
}

// Session owns the view state of one feed client. Mutations read it, never reset it.
type Session struct {
	mu   sync.RWMutex
	view ViewState
}

func NewSession() *Session {
	return &Session{view: DefaultViewState()}
}

func (s *Session) View() ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

func (s *Session) SetSort(mode string) ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.SortMode = ParseSortMode(mode)
	return s.view
}

// SetFilter stores the trimmed keyword; blank input clears the filter.
func (s *Session) SetFilter(keyword string) ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.FilterKeyword = strings.TrimSpace(keyword)
	return s.view
}

const (
	DefaultMaxSessions = 10000
	DefaultSessionTTL  = 24 * time.Hour
)

// Sessions maps session ids to sessions. It lives in memory only.
// Sessions idle for longer than the ttl expire, and the least recently used one is evicted at capacity.
type Sessions struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, *Session]
}

func NewSessions() *Sessions {
	return NewSessionsWithLimits(DefaultMaxSessions, DefaultSessionTTL)
}

func NewSessionsWithLimits(maxSessions int, ttl time.Duration) *Sessions {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{sessions: expirable.NewLRU[string, *Session](maxSessions, nil, ttl)}
}

// Get returns the session for id, creating one with the default view state on first use.
// Every call restarts the session's idle timer.
func (r *Sessions) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions.Get(id)
	if !ok {
		s = NewSession()
	}
	r.sessions.Add(id, s)
	return s
}

func (r *Sessions) Drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions.Remove(id)
}

func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions.Len()
}
