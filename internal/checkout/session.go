package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/dineflow/api/internal/models"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when staged checkout data is missing.
// The handler treats it as an invariant violation and steers the customer
// back to the menu stage.
var ErrSessionNotFound = errors.New("checkout session not found")

// Session is the staged state carried between the independently routed
// menu, table-selection, and payment stages. It replaces the original
// scatter of browser-storage keys with one schema and a single
// invalidation point: the session is deleted on success or abandon,
// never field by field.
type Session struct {
	ID          string            `json:"id"`
	Cart        []models.CartLine `json:"cart"`
	Contact     string            `json:"contact,omitempty"`
	TableNumber int               `json:"table_number,omitempty"`
	OfferCode   string            `json:"offer_code,omitempty"`
	Status      string            `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

// SessionStore stages sessions between pipeline stages as JSON-serialized
// snapshots. Cross-stage handoff is always through serialized snapshots,
// never shared references.
type SessionStore interface {
	Get(ctx context.Context, id string) (Session, error)
	Put(ctx context.Context, s Session) error
	Delete(ctx context.Context, id string) error
}

const sessionTTL = 2 * time.Hour

// RedisSessions stages sessions in Redis so checkout survives a server
// restart and multiple API instances see the same pipeline state.
type RedisSessions struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessions creates a Redis-backed session store.
func NewRedisSessions(client *redis.Client) *RedisSessions {
	return &RedisSessions{client: client, ttl: sessionTTL}
}

func sessionKey(id string) string {
	return "checkout:" + id
}

func (r *RedisSessions) Get(ctx context.Context, id string) (Session, error) {
	raw, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, err
	}
	// Reject malformed snapshots at the storage-read boundary.
	for _, line := range s.Cart {
		if err := line.Validate(); err != nil {
			return Session{}, err
		}
	}
	return s, nil
}

func (r *RedisSessions) Put(ctx context.Context, s Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKey(s.ID), raw, r.ttl).Err()
}

func (r *RedisSessions) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKey(id)).Err()
}

// MemorySessions is the in-process session store used when no Redis is
// configured, and in tests. Snapshots are round-tripped through JSON so
// the handoff stays serialized, matching the Redis store's behavior.
type MemorySessions struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

// NewMemorySessions creates an empty in-memory session store.
func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: make(map[string][]byte)}
}

func (m *MemorySessions) Get(ctx context.Context, id string) (Session, error) {
	m.mu.RLock()
	raw, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, err
	}
	for _, line := range s.Cart {
		if err := line.Validate(); err != nil {
			return Session{}, err
		}
	}
	return s, nil
}

func (m *MemorySessions) Put(ctx context.Context, s Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.sessions[s.ID] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemorySessions) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}
