// Package session remembers the most recent successfully validated input so
// the next design cycle can pre-fill its form.
//
// Backends:
//   - memory: in-process storage for tests and the API server
//   - file: TOML files under the user's config directory, for the CLI
//   - mongo: a MongoDB collection for shared deployments
//
// # Usage
//
//	store, err := session.NewFileStore("") // ~/.config/spiralstair/sessions/
//	if err != nil {
//	    return err
//	}
//	prefill := session.NewPrefill(store, session.DefaultID)
//
//	last, err := prefill.Last(ctx) // nil when nothing is stored
//	...
//	err = prefill.Remember(ctx, validated, "residential")
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/spiralstair/pkg/stair"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")
)

// Session holds the last validated input of one user or workstation.
type Session struct {
	ID        string      `json:"id" toml:"id" bson:"_id"`
	Profile   string      `json:"profile,omitempty" toml:"profile,omitempty" bson:"profile,omitempty"`
	Cycles    int         `json:"cycles" toml:"cycles" bson:"cycles"`
	CreatedAt time.Time   `json:"created_at" toml:"created_at" bson:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" toml:"updated_at" bson:"updated_at"`
	ExpiresAt time.Time   `json:"expires_at" toml:"expires_at" bson:"expires_at"`
	Input     stair.Input `json:"input" toml:"input" bson:"input"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session, replacing any previous one with the same ID.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error
}

// Default values.
const (
	// DefaultTTL is how long a remembered input stays available.
	DefaultTTL = 30 * 24 * time.Hour

	// DefaultID is the session used by the CLI on a single workstation.
	DefaultID = "local"
)

// NewID returns a random session identifier.
func NewID() string {
	return uuid.NewString()
}

// New creates a session for the given validated input. An empty id gets a
// fresh one.
func New(id string, in stair.ValidatedInput, profile string, ttl time.Duration) *Session {
	if id == "" {
		id = NewID()
	}
	now := time.Now()
	return &Session{
		ID:        id,
		Input:     in.Input(),
		Profile:   profile,
		Cycles:    1,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// =============================================================================
// Pre-fill wrapper
// =============================================================================

// Prefill reads and writes the remembered input of one session.
type Prefill struct {
	store Store
	id    string
	ttl   time.Duration
}

// NewPrefill binds a store to a session ID.
func NewPrefill(store Store, id string) *Prefill {
	if id == "" {
		id = DefaultID
	}
	return &Prefill{store: store, id: id, ttl: DefaultTTL}
}

// ID returns the bound session ID.
func (p *Prefill) ID() string { return p.id }

// Last returns the remembered input, or nil if there is none.
func (p *Prefill) Last(ctx context.Context) (*stair.Input, error) {
	s, err := p.store.Get(ctx, p.id)
	if err != nil || s == nil {
		return nil, err
	}
	in := s.Input
	return &in, nil
}

// Remember stores in as the session's latest validated input.
func (p *Prefill) Remember(ctx context.Context, in stair.ValidatedInput, profile string) error {
	prev, err := p.store.Get(ctx, p.id)
	if err != nil {
		return err
	}
	next := New(p.id, in, profile, p.ttl)
	if prev != nil {
		next.CreatedAt = prev.CreatedAt
		next.Cycles = prev.Cycles + 1
	}
	return p.store.Set(ctx, next)
}

// Session returns the full stored session, or nil.
func (p *Prefill) Session(ctx context.Context) (*Session, error) {
	return p.store.Get(ctx, p.id)
}

// Forget deletes the session.
func (p *Prefill) Forget(ctx context.Context) error {
	return p.store.Delete(ctx, p.id)
}
