package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AssociateAndLookup(t *testing.T) {
	store := NewStore(time.Hour)

	store.Associate("sid-1", "pad-1")

	padUUID, ok := store.PadForSession("sid-1")
	require.True(t, ok)
	assert.Equal(t, "pad-1", padUUID)

	sid, ok := store.SessionForPad("pad-1")
	require.True(t, ok)
	assert.Equal(t, "sid-1", sid)

	assert.Equal(t, 1, store.Len())
}

func TestStore_UnknownLookups(t *testing.T) {
	store := NewStore(time.Hour)

	_, ok := store.PadForSession("sid-1")
	assert.False(t, ok)

	_, ok = store.SessionForPad("pad-1")
	assert.False(t, ok)
}

func TestStore_AssociateReplacesSessionSide(t *testing.T) {
	store := NewStore(time.Hour)

	store.Associate("sid-1", "pad-1")
	store.Associate("sid-1", "pad-2")

	padUUID, ok := store.PadForSession("sid-1")
	require.True(t, ok)
	assert.Equal(t, "pad-2", padUUID)

	// The old pad binding is gone.
	_, ok = store.SessionForPad("pad-1")
	assert.False(t, ok)

	sid, ok := store.SessionForPad("pad-2")
	require.True(t, ok)
	assert.Equal(t, "sid-1", sid)
}

func TestStore_AssociateReplacesPadSide(t *testing.T) {
	store := NewStore(time.Hour)

	store.Associate("sid-1", "pad-1")
	store.Associate("sid-2", "pad-1")

	// The old session binding is gone.
	_, ok := store.PadForSession("sid-1")
	assert.False(t, ok)

	sid, ok := store.SessionForPad("pad-1")
	require.True(t, ok)
	assert.Equal(t, "sid-2", sid)
}

func TestStore_RemoveSession(t *testing.T) {
	store := NewStore(time.Hour)

	store.Associate("sid-1", "pad-1")

	padUUID, ok := store.RemoveSession("sid-1")
	require.True(t, ok)
	assert.Equal(t, "pad-1", padUUID)

	_, ok = store.PadForSession("sid-1")
	assert.False(t, ok)
	_, ok = store.SessionForPad("pad-1")
	assert.False(t, ok)

	_, ok = store.RemoveSession("sid-1")
	assert.False(t, ok)
}

func TestStore_RemoveSessionIsAtomic(t *testing.T) {
	store := NewStore(time.Hour)

	// A reader that catches the session side gone must never still see
	// the pad side.
	for range 200 {
		store.Associate("sid-1", "pad-1")

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.RemoveSession("sid-1")
		}()
		go func() {
			defer wg.Done()
			for {
				if _, ok := store.PadForSession("sid-1"); ok {
					continue
				}
				if _, ok := store.SessionForPad("pad-1"); ok {
					t.Error("pad binding visible after its session was removed")
				}
				return
			}
		}()
		wg.Wait()
	}
}

func TestStore_RemovePad(t *testing.T) {
	store := NewStore(time.Hour)

	store.Associate("sid-1", "pad-1")
	store.RemovePad("pad-1")

	_, ok := store.PadForSession("sid-1")
	assert.False(t, ok)
	_, ok = store.SessionForPad("pad-1")
	assert.False(t, ok)
}

func TestStore_EntriesExpire(t *testing.T) {
	store := NewStore(20 * time.Millisecond)
	store.Start()
	defer store.Stop()

	store.Associate("sid-1", "pad-1")

	require.Eventually(t, func() bool {
		_, bySID := store.PadForSession("sid-1")
		_, byPad := store.SessionForPad("pad-1")
		return !bySID && !byPad
	}, time.Second, 5*time.Millisecond)
}

func TestStore_LookupDoesNotExtendLifetime(t *testing.T) {
	store := NewStore(30 * time.Millisecond)
	store.Start()
	defer store.Stop()

	store.Associate("sid-1", "pad-1")

	// Keep reading; the entry must still expire on the write clock.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, ok := store.PadForSession("sid-1"); !ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("entry never expired despite repeated reads")
}
