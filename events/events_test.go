package events

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	got []Event
	err error
}

func (r *recorder) Publish(_ context.Context, evt Event) error {
	r.got = append(r.got, evt)
	return r.err
}

func TestMultiPublishesToAll(t *testing.T) {
	first := &recorder{}
	second := &recorder{err: errors.New("broker down")}
	third := &recorder{}

	err := Multi{first, nil, second, third}.Publish(context.Background(), New(ProductCreated, 1))

	assert.ErrorContains(t, err, "broker down")
	assert.Len(t, first.got, 1)
	assert.Len(t, second.got, 1)
	assert.Len(t, third.got, 1)
}

func TestHubBroadcastsToConnectedClients(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(context.Background(), New(ProductRatingUpdated, map[string]int{"productId": 7})))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var evt struct {
		Type    string         `json:"type"`
		Payload map[string]int `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &evt))
	assert.Equal(t, ProductRatingUpdated, evt.Type)
	assert.Equal(t, 7, evt.Payload["productId"])
}

func TestHubDropsClosedClients(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 10*time.Millisecond)
}
