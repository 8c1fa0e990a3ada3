package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishReachesClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub()
	go h.Run(ctx)

	c := &client{hub: h, send: make(chan []byte, 1)}
	h.register <- c

	h.Publish("like", map[string]uint{"tweet_id": 4})

	select {
	case msg := <-c.send:
		var ev struct {
			Type string         `json:"type"`
			Data map[string]int `json:"data"`
		}
		require.NoError(t, json.Unmarshal(msg, &ev))
		assert.Equal(t, "like", ev.Type)
		assert.Equal(t, 4, ev.Data["tweet_id"])
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub()
	go h.Run(ctx)

	// A full send buffer marks the client as slow.
	slow := &client{hub: h, send: make(chan []byte, 1)}
	slow.send <- []byte("pending")
	h.register <- slow
	healthy := &client{hub: h, send: make(chan []byte, 1)}
	h.register <- healthy

	h.Publish("new_tweet", nil)

	select {
	case <-healthy.send:
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}
	// Run only takes the next registration once the broadcast is done.
	h.register <- &client{hub: h, send: make(chan []byte, 1)}

	msg, ok := <-slow.send
	require.True(t, ok)
	assert.Equal(t, "pending", string(msg))
	_, ok = <-slow.send
	assert.False(t, ok, "slow client channel should be closed")
}

func TestHubStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub()
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	c := &client{hub: h, send: make(chan []byte, 1)}
	h.register <- c
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	_, ok := <-c.send
	assert.False(t, ok)
}

func TestServeWsUpgrades(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := NewHub()
	go h.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(h.ServeWs))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
}
