package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, h *Hub, topic string) (*websocket.Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Serve(w, r, topic)
	}))

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)

	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func waitForSubscribers(t *testing.T, h *Hub, topic string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Subscribers(topic) != want && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, want, h.Subscribers(topic))
}

func TestHubDeliversBroadcastToSubscriber(t *testing.T) {
	h := NewHub()
	conn, cleanup := dialHub(t, h, "courses/abc")
	defer cleanup()

	waitForSubscribers(t, h, "courses/abc", 1)

	h.Broadcast("courses/abc", map[string]string{"message": "your access is ready"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got map[string]string
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "your access is ready", got["message"])
}

func TestHubBroadcastScopedToTopic(t *testing.T) {
	h := NewHub()
	conn, cleanup := dialHub(t, h, "packages/one")
	defer cleanup()

	waitForSubscribers(t, h, "packages/one", 1)

	h.Broadcast("packages/other", map[string]string{"message": "not yours"})
	h.Broadcast("packages/one", map[string]string{"message": "yours"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got map[string]string
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "yours", got["message"])
}

func TestHubUnsubscribesOnDisconnect(t *testing.T) {
	h := NewHub()
	conn, cleanup := dialHub(t, h, "courses/gone")
	defer cleanup()

	waitForSubscribers(t, h, "courses/gone", 1)
	conn.Close()
	waitForSubscribers(t, h, "courses/gone", 0)
}

// A subscriber that stops draining its buffer must not stall Broadcast for
// everyone else; it gets dropped once its send buffer is full.
func TestHubDropsSubscriberWithFullBuffer(t *testing.T) {
	h := NewHub()
	stalled := &client{send: make(chan interface{}, 2)}
	h.subscribe("orders/slow", stalled)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 3; i++ {
			h.Broadcast("orders/slow", i)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a subscriber that never reads")
	}
	assert.Equal(t, 0, h.Subscribers("orders/slow"))
}
