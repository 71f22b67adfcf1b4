// Package session correlates desk login sessions with the pads they drive.
// The correlation lets a backchannel logout tear down the pad side of a
// session: when the session dies, the pad gets a hide push.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Store is a bidirectional session-to-pad map with a shared TTL. Both
// directions are kept in lockstep: evicting one side removes the other.
// The store mutex makes each operation atomic over both directions, so a
// concurrent reader never sees one side without the other. Janitor expiry
// runs outside the mutex and converges shortly after.
//
// Entries expire a fixed time after they were written; a lookup does not
// extend the lifetime.
type Store struct {
	mu    sync.Mutex
	bySID *ttlcache.Cache[string, string]
	byPad *ttlcache.Cache[string, string]
}

// NewStore creates a session store whose entries live for ttl after write.
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		bySID: ttlcache.New(
			ttlcache.WithTTL[string, string](ttl),
			ttlcache.WithDisableTouchOnHit[string, string](),
		),
		byPad: ttlcache.New(
			ttlcache.WithTTL[string, string](ttl),
			ttlcache.WithDisableTouchOnHit[string, string](),
		),
	}

	// Keep the two directions in lockstep when the janitor expires an
	// entry on either side. The handlers must not take the store mutex:
	// Deletes issued under it fire them synchronously, and those arrive
	// with EvictionReasonDeleted and return immediately.
	s.bySID.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, string]) {
		if reason == ttlcache.EvictionReasonExpired {
			s.byPad.Delete(item.Value())
		}
	})
	s.byPad.OnEviction(func(_ context.Context, reason ttlcache.EvictionReason, item *ttlcache.Item[string, string]) {
		if reason == ttlcache.EvictionReasonExpired {
			s.bySID.Delete(item.Value())
		}
	})

	return s
}

// Start runs the expiry janitors. Blocks; run it in its own goroutines.
func (s *Store) Start() {
	go s.bySID.Start()
	go s.byPad.Start()
}

// Stop stops the expiry janitors.
func (s *Store) Stop() {
	s.bySID.Stop()
	s.byPad.Stop()
}

// Associate binds a session to a pad, replacing any previous association
// of either side.
func (s *Store) Associate(sid, padUUID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old := s.bySID.Get(sid); old != nil {
		s.byPad.Delete(old.Value())
	}
	if old := s.byPad.Get(padUUID); old != nil {
		s.bySID.Delete(old.Value())
	}

	s.bySID.Set(sid, padUUID, ttlcache.DefaultTTL)
	s.byPad.Set(padUUID, sid, ttlcache.DefaultTTL)
}

// PadForSession returns the pad bound to a session.
func (s *Store) PadForSession(sid string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.bySID.Get(sid)
	if item == nil {
		return "", false
	}
	return item.Value(), true
}

// SessionForPad returns the session bound to a pad.
func (s *Store) SessionForPad(padUUID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.byPad.Get(padUUID)
	if item == nil {
		return "", false
	}
	return item.Value(), true
}

// RemoveSession drops a session and returns the pad it was bound to. Both
// sides disappear in one step; no lookup can see the pad binding outlive
// the session one.
func (s *Store) RemoveSession(sid string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.bySID.Get(sid)
	if item == nil {
		return "", false
	}

	padUUID := item.Value()
	s.bySID.Delete(sid)
	s.byPad.Delete(padUUID)
	return padUUID, true
}

// RemovePad drops a pad binding and its session side.
func (s *Store) RemovePad(padUUID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.byPad.Get(padUUID); item != nil {
		s.bySID.Delete(item.Value())
	}
	s.byPad.Delete(padUUID)
}

// Len returns the number of live session bindings.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bySID.Len()
}
