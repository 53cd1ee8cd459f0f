package broadcast

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pscheid92/marketpulse/internal/domain"
)

// testHub sets up a Hub behind a test HTTP server and returns a dialer.
func testHub(t *testing.T) (*Hub, func() *ws.Conn) {
	t.Helper()

	hub := NewHub(clockwork.NewRealClock())
	t.Cleanup(hub.Close)

	upgrader := ws.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		if !hub.Register(conn) {
			_ = conn.Close()
			return
		}

		go func() {
			defer hub.Unregister(conn)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					break
				}
			}
		}()
	}))
	t.Cleanup(server.Close)

	dial := func() *ws.Conn {
		t.Helper()
		url := "ws" + strings.TrimPrefix(server.URL, "http")
		conn, _, err := ws.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = conn.Close() })
		return conn
	}

	return hub, dial
}

func streamPost() *domain.Post {
	return &domain.Post{
		ID:        uuid.New(),
		Platform:  "reddit",
		Author:    "trader42",
		Content:   "TSLA breaking out",
		Tickers:   []string{"TSLA"},
		Sentiment: domain.Sentiment{Label: "bullish", Score: 0.7, Confidence: 0.8},
		Timestamp: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestPublishReachesAllClients(t *testing.T) {
	hub, dial := testHub(t)

	first := dial()
	second := dial()

	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	post := streamPost()
	hub.Publish(post)

	for _, conn := range []*ws.Conn{first, second} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)

		var msg struct {
			Type string      `json:"type"`
			Data domain.Post `json:"data"`
		}
		require.NoError(t, json.Unmarshal(payload, &msg))
		assert.Equal(t, "post", msg.Type)
		assert.Equal(t, post.ID, msg.Data.ID)
		assert.Equal(t, []string{"TSLA"}, msg.Data.Tickers)
	}
}

func TestPublishAlertEnvelope(t *testing.T) {
	hub, dial := testHub(t)
	conn := dial()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.PublishAlert(domain.Alert{
		ID:       uuid.New(),
		Ticker:   "GME",
		Type:     domain.AlertVolumeSpike,
		Severity: domain.SeverityHigh,
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type string       `json:"type"`
		Data domain.Alert `json:"data"`
	}
	require.NoError(t, json.Unmarshal(payload, &msg))
	assert.Equal(t, "alert", msg.Type)
	assert.Equal(t, "GME", msg.Data.Ticker)
}

func TestUnregisterRemovesClient(t *testing.T) {
	hub, dial := testHub(t)
	conn := dial()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	_ = conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestCloseRejectsNewRegistrations(t *testing.T) {
	hub, dial := testHub(t)
	conn := dial()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Close()
	assert.Equal(t, 0, hub.ClientCount())

	// Close drops existing connections; the client sees its read fail.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
