package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botornot/api/internal/adapters/decoy/ai21"
	handler "github.com/botornot/api/internal/adapters/handler/http"
	"github.com/botornot/api/internal/adapters/notifier/webhook"
	"github.com/botornot/api/internal/adapters/repository/memory"
	"github.com/botornot/api/internal/adapters/scheduler"
	"github.com/botornot/api/internal/core/domain"
	"github.com/botornot/api/internal/core/ports"
	"github.com/botornot/api/internal/core/services"
)

type delivery struct {
	Recipient int64
	Msg       ports.Notification
}

type callbackSink struct {
	mu   sync.Mutex
	seen []delivery
}

func (s *callbackSink) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipient, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/notify/"), 10, 64)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var msg ports.Notification
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.seen = append(s.seen, delivery{Recipient: recipient, Msg: msg})
		s.mu.Unlock()
	}
}

func (s *callbackSink) ofKind(kind string) []delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []delivery
	for _, d := range s.seen {
		if d.Msg.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// TestGameFlowWithTimers runs a full round against the wired application:
// real decoy client against a stub completion endpoint, real webhook
// notifier against a stub callback endpoint, and real timers closing
// the phases.
func TestGameFlowWithTimers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	completionServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "a plausible fake"}},
			},
		})
	}))
	defer completionServer.Close()

	sink := &callbackSink{}
	callbackServer := httptest.NewServer(sink.handler())
	defer callbackServer.Close()

	catalog, err := domain.NewThemeCatalog([]string{"Space", "Food"})
	require.NoError(t, err)

	service := services.NewGameService(
		memory.NewSessionStore(),
		catalog,
		ai21.NewClient("test-key", ai21.WithBaseURL(completionServer.URL)),
	)
	sched := scheduler.New()
	defer sched.Stop()
	notifier := webhook.NewNotifier(callbackServer.URL + "/notify/%d")

	router := handler.NewHandler(
		handler.NewGameHandler(service, sched, notifier, 300*time.Millisecond),
		handler.NewThemeHandler(service),
	)
	server := httptest.NewServer(router)
	defer server.Close()

	post := func(path string, payload any) *http.Response {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		resp, err := http.Post(server.URL+path, "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		return resp
	}

	chatID := int64(42)

	resp := post("/api/games", map[string]any{"chat_id": chatID, "admin_id": 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = post(fmt.Sprintf("/api/games/%d/theme", chatID), map[string]any{"selection": "2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	for user, answer := range map[int64]string{100: "pizza", 200: "sushi"} {
		resp = post(fmt.Sprintf("/api/games/%d/answers", chatID), map[string]any{"user_id": user, "text": answer})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	// The answer timer fires and opens voting on its own.
	require.Eventually(t, func() bool {
		return len(sink.ofKind("voting_open")) > 0
	}, 3*time.Second, 20*time.Millisecond)

	votingOpen := sink.ofKind("voting_open")
	recipients := make([]int64, 0, len(votingOpen))
	for _, d := range votingOpen {
		recipients = append(recipients, d.Recipient)
	}
	assert.ElementsMatch(t, []int64{chatID, 100, 200}, recipients)
	require.Len(t, votingOpen[0].Msg.Options, 3)

	resp = post("/api/votes", map[string]any{"user_id": 100, "option_index": 0})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// The voting timer fires and publishes the results.
	require.Eventually(t, func() bool {
		return len(sink.ofKind("results")) > 0
	}, 3*time.Second, 20*time.Millisecond)

	results := sink.ofKind("results")
	assert.Contains(t, results[0].Msg.Text, `The generated answer was: "a plausible fake"`)

	// The round is over and the chat slot is free again.
	getResp, err := http.Get(fmt.Sprintf("%s/api/games/%d", server.URL, chatID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
	getResp.Body.Close()
}
