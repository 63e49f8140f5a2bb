package store

import (
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/archigram/archigram/internal/classify"
	"github.com/archigram/archigram/internal/model"
)

// Session is the per-conversation state the service keeps between
// calls: the conversation itself, every architecture version produced
// so far, and the requirement-id counters that keep FR/NFR/C ids from
// colliding across evolution steps.
type Session struct {
	Conversation *model.Conversation
	History      []*model.Architecture // History[i].Version == i+1
	Requirements *model.RequirementSet
	Offsets      classify.Offsets
	UpdatedAt    time.Time
}

// Current returns the latest architecture version, or nil for a
// conversation that has not been processed yet
func (s *Session) Current() *model.Architecture {
	if len(s.History) == 0 {
		return nil
	}
	return s.History[len(s.History)-1]
}

// SessionStore keeps conversation sessions in memory with TTL-based
// expiry. Mutating methods serialize on a store-wide mutex; go-cache
// guards its own map but read-modify-write cycles need the outer lock.
type SessionStore struct {
	mu    sync.Mutex
	cache *gocache.Cache
	ttl   time.Duration
}

// NewSessionStore creates a session store. A zero TTL means sessions
// never expire.
func NewSessionStore(cfg model.SessionConfig) *SessionStore {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = gocache.NoExpiration
	}
	cleanup := cfg.CleanupInterval
	if cleanup == 0 {
		cleanup = 10 * time.Minute
	}
	return &SessionStore{
		cache: gocache.New(ttl, cleanup),
		ttl:   ttl,
	}
}

// Get returns the session for a conversation id, or (nil, false)
func (s *SessionStore) Get(conversationID string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(conversationID)
}

func (s *SessionStore) get(conversationID string) (*Session, bool) {
	v, ok := s.cache.Get(conversationID)
	if !ok {
		return nil, false
	}
	session, ok := v.(*Session)
	return session, ok
}

// GetOrCreate returns the existing session or starts a fresh one
func (s *SessionStore) GetOrCreate(conversationID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.get(conversationID); ok {
		return session
	}
	session := &Session{
		Conversation: model.NewConversation(conversationID),
		UpdatedAt:    time.Now().UTC(),
	}
	s.cache.Set(session.Conversation.ID, session, s.ttl)
	return session
}

// Put stores a session under its conversation id and refreshes the TTL
func (s *SessionStore) Put(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session.UpdatedAt = time.Now().UTC()
	s.cache.Set(session.Conversation.ID, session, s.ttl)
}

// AppendVersion records a new architecture version for a conversation
// and updates the requirement counters alongside it
func (s *SessionStore) AppendVersion(conversationID string, arch *model.Architecture, reqs *model.RequirementSet, offsets classify.Offsets) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.get(conversationID)
	if !ok {
		return fmt.Errorf("no session for conversation %s", conversationID)
	}
	if arch.Version != len(session.History)+1 {
		return fmt.Errorf("version gap: got %d, expected %d", arch.Version, len(session.History)+1)
	}

	session.History = append(session.History, arch)
	session.Requirements = reqs
	session.Offsets = offsets
	session.UpdatedAt = time.Now().UTC()
	s.cache.Set(conversationID, session, s.ttl)
	return nil
}

// Rollback discards versions after the target, making it current
// again. Requirement counters are left untouched so ids minted after
// the rollback never collide with retained ones.
func (s *SessionStore) Rollback(conversationID string, version int) (*model.Architecture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.get(conversationID)
	if !ok {
		return nil, fmt.Errorf("no session for conversation %s", conversationID)
	}
	if version < 1 || version > len(session.History) {
		return nil, fmt.Errorf("version %d out of range (have 1..%d)", version, len(session.History))
	}

	session.History = session.History[:version]
	session.UpdatedAt = time.Now().UTC()
	s.cache.Set(conversationID, session, s.ttl)
	return session.Current(), nil
}

// Delete removes a conversation's session
func (s *SessionStore) Delete(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Delete(conversationID)
}

// Count returns the number of live sessions
func (s *SessionStore) Count() int {
	return s.cache.ItemCount()
}
