package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botornot/api/internal/core/ports"
)

func TestBroadcastDeliversToEveryRecipient(t *testing.T) {
	var mu sync.Mutex
	delivered := map[string]ports.Notification{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var n ports.Notification
		require.NoError(t, json.NewDecoder(r.Body).Decode(&n))
		mu.Lock()
		delivered[strings.TrimPrefix(r.URL.Path, "/deliver/")] = n
		mu.Unlock()
	}))
	defer server.Close()

	n := NewNotifier(server.URL + "/deliver/%d")
	msg := ports.Notification{ID: uuid.New(), ChatID: 10, Kind: "voting_open", Options: []string{"a", "b"}}

	failures := n.Broadcast(context.Background(), []int64{100, 200, 300}, msg)
	assert.Empty(t, failures)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, delivered, 3)
	assert.Equal(t, msg.Options, delivered["100"].Options)
	assert.Equal(t, "voting_open", delivered["200"].Kind)
}

func TestBroadcastReportsFailuresWithoutAbortingRest(t *testing.T) {
	var mu sync.Mutex
	var reached []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/deliver/")
		mu.Lock()
		reached = append(reached, id)
		mu.Unlock()
		if id == "200" {
			http.Error(w, "recipient blocked the bot", http.StatusForbidden)
		}
	}))
	defer server.Close()

	n := NewNotifier(server.URL + "/deliver/%d")

	failures := n.Broadcast(context.Background(), []int64{100, 200, 300}, ports.Notification{Kind: "results"})

	require.Len(t, failures, 1)
	assert.Equal(t, int64(200), failures[0].Recipient)
	assert.Error(t, failures[0].Err)

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"100", "200", "300"}, reached)
}

func TestBroadcastNoRecipients(t *testing.T) {
	n := NewNotifier("http://localhost:0/deliver/%d")

	failures := n.Broadcast(context.Background(), nil, ports.Notification{Kind: "results"})
	assert.Empty(t, failures)
}
