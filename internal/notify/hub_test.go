package notify

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestHubBroadcastsAndReceives(t *testing.T) {
	connected := make(chan string, 1)
	received := make(chan string, 1)
	hub := NewHub(zap.NewNop(), Hooks{
		OnConnect: func(id string) { connected <- id },
		OnMessage: func(_ string, data []byte) { received <- string(data) },
	})
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Close()

	conn := dial(t, srv)
	assert.Equal(t, "connected", readFrame(t, conn).Type)

	select {
	case <-connected:
	case <-time.After(2 * time.Second):
		t.Fatal("OnConnect not called")
	}
	assert.Equal(t, 1, hub.Count())

	hub.Notify(Success, `"Oat Silk" added to cart!`)
	f := readFrame(t, conn)
	assert.Equal(t, "notification", f.Type)
	var msg Message
	require.NoError(t, json.Unmarshal(f.Data, &msg))
	assert.Equal(t, Success, msg.Level)
	assert.Equal(t, `"Oat Silk" added to cart!`, msg.Text)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"search","term":"silk"}`)))
	select {
	case got := <-received:
		assert.JSONEq(t, `{"type":"search","term":"silk"}`, got)
	case <-time.After(2 * time.Second):
		t.Fatal("OnMessage not called")
	}
}

func TestHubSendToUnknownClientIsIgnored(t *testing.T) {
	hub := NewHub(nil, Hooks{})
	assert.NotPanics(t, func() { hub.SendTo("missing", "products", nil) })
	assert.Zero(t, hub.Count())
}

func TestMultiAndRecorder(t *testing.T) {
	var a, b Recorder
	Multi{&a, nil, &b, LogNotifier{}}.Notify(Warning, "All filters cleared")

	last, ok := b.Last()
	require.True(t, ok)
	assert.Equal(t, Warning, last.Level)
	assert.Len(t, a.Messages, 1)
}
