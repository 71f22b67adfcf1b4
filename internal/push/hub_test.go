package push

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/thorsten-l/l9g-accountinfo/internal/errors"
	"github.com/thorsten-l/l9g-accountinfo/internal/metrics"
)

func TestParseSubprotocol(t *testing.T) {
	t.Run("valid header", func(t *testing.T) {
		padUUID, err := ParseSubprotocol("SIGNATURE_PAD_UUID, df6f1ad9-2c1b-4c0e-9a74-37e1a6f3c111")
		require.NoError(t, err)
		assert.Equal(t, "df6f1ad9-2c1b-4c0e-9a74-37e1a6f3c111", padUUID)
	})

	t.Run("missing marker", func(t *testing.T) {
		_, err := ParseSubprotocol("df6f1ad9-2c1b-4c0e-9a74-37e1a6f3c111")
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("empty uuid", func(t *testing.T) {
		_, err := ParseSubprotocol("SIGNATURE_PAD_UUID, ")
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("empty header", func(t *testing.T) {
		_, err := ParseSubprotocol("")
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}

// startHub serves a hub behind an httptest server and returns a dialer
// helper.
func startHub(t *testing.T, check AdmissionCheck) (*Hub, string) {
	t.Helper()
	hub := NewHub(check, metrics.NewNoOpBusinessMetrics(), nil)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := hub.HandleConnection(w, r); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	t.Cleanup(func() {
		hub.Close()
		server.Close()
	})

	return hub, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dialPad(t *testing.T, url, padUUID string) *websocket.Conn {
	t.Helper()
	header := http.Header{"Sec-WebSocket-Protocol": {SubprotocolName + ", " + padUUID}}
	ws, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return ws
}

func allowAll(context.Context, string) error { return nil }

func TestHub_AdmissionAndDelivery(t *testing.T) {
	hub, url := startHub(t, allowAll)

	ws := dialPad(t, url, "pad-1")

	require.Eventually(t, func() bool {
		return hub.Connected("pad-1")
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.FireEventToPad("pad-1", NewEvent(EventShow, "please sign")))

	var event Event
	require.NoError(t, ws.ReadJSON(&event))
	assert.Equal(t, EventShow, event.Event)
	assert.Equal(t, "please sign", event.Message)
	assert.NotZero(t, event.Timestamp)
}

func TestHub_AdmissionRejected(t *testing.T) {
	_, url := startHub(t, func(context.Context, string) error {
		return apperrors.ErrNotFound
	})

	header := http.Header{"Sec-WebSocket-Protocol": {SubprotocolName + ", pad-1"}}
	ws, resp, err := websocket.DefaultDialer.Dial(url, header)
	assert.Error(t, err)
	assert.Nil(t, ws)
	if resp != nil {
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		_ = resp.Body.Close()
	}
}

func TestHub_MissingSubprotocol(t *testing.T) {
	_, url := startHub(t, allowAll)

	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	assert.Error(t, err)
	assert.Nil(t, ws)
	if resp != nil {
		_ = resp.Body.Close()
	}
}

func TestHub_FireEventToPad_NotConnected(t *testing.T) {
	hub := NewHub(allowAll, metrics.NewNoOpBusinessMetrics(), nil)
	defer hub.Close()

	err := hub.FireEventToPad("pad-1", NewEvent(EventShow, ""))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestHub_FireEventToAll(t *testing.T) {
	hub, url := startHub(t, allowAll)

	first := dialPad(t, url, "pad-1")
	second := dialPad(t, url, "pad-2")

	require.Eventually(t, func() bool {
		return hub.Count() == 2
	}, time.Second, 5*time.Millisecond)

	hub.FireEventToAll(NewEvent(EventClear, ""))

	for _, ws := range []*websocket.Conn{first, second} {
		var event Event
		require.NoError(t, ws.ReadJSON(&event))
		assert.Equal(t, EventClear, event.Event)
	}
}

func TestHub_ReplacedConnection(t *testing.T) {
	hub, url := startHub(t, allowAll)

	old := dialPad(t, url, "pad-1")
	require.Eventually(t, func() bool {
		return hub.Connected("pad-1")
	}, time.Second, 5*time.Millisecond)

	replacement := dialPad(t, url, "pad-1")

	// The old socket is closed by the hub; reads on it fail eventually.
	require.Eventually(t, func() bool {
		_ = old.SetReadDeadline(time.Now().Add(50 * time.Millisecond))
		_, _, err := old.ReadMessage()
		return err != nil
	}, 2*time.Second, 10*time.Millisecond)

	// Events still reach the pad through the replacement.
	require.Eventually(t, func() bool {
		return hub.FireEventToPad("pad-1", NewEvent(EventHide, "")) == nil
	}, time.Second, 5*time.Millisecond)

	var event Event
	require.NoError(t, replacement.ReadJSON(&event))
	assert.Equal(t, EventHide, event.Event)
}

func TestHub_Heartbeat(t *testing.T) {
	hub, url := startHub(t, allowAll)

	ws := dialPad(t, url, "pad-1")
	require.Eventually(t, func() bool {
		return hub.Connected("pad-1")
	}, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.RunHeartbeat(ctx, 10*time.Millisecond)

	var event Event
	require.NoError(t, ws.ReadJSON(&event))
	assert.Equal(t, EventHeartbeat, event.Event)
}

func TestHub_DisconnectCleansUp(t *testing.T) {
	hub, url := startHub(t, allowAll)

	ws := dialPad(t, url, "pad-1")
	require.Eventually(t, func() bool {
		return hub.Connected("pad-1")
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, ws.Close())

	require.Eventually(t, func() bool {
		return !hub.Connected("pad-1")
	}, time.Second, 5*time.Millisecond)
}
