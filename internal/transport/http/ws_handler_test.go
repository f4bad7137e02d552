package http

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quiz-portal-service/internal/domain"
)

func TestLeaderboardStreamPushesUpdates(t *testing.T) {
	api := newTestAPI(t)
	admin := api.adminToken(t)
	quiz := api.createCapitals(t, admin)
	token, _ := api.signupAndLogin(t, "alice", "alice@example.com")

	u := "ws" + strings.TrimPrefix(api.server.URL, "http") + "/api/v1/results/leaderboard/ws?access_token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	initial := readLeaderboard(t, conn)
	if len(initial.Entries) != 1 || initial.Entries[0].CompletedCount != 0 {
		t.Fatalf("unexpected initial leaderboard %+v", initial)
	}

	waitForSubscribers(t, api, 1)

	status := api.do(t, http.MethodPost, "/api/v1/results", token, map[string]any{
		"quiz":    quiz.ID,
		"answers": []map[string]any{{"question": quiz.Questions[0].ID, "selected": "Paris"}},
	}, nil)
	if status != http.StatusCreated {
		t.Fatalf("submit: status %d", status)
	}

	updated := readLeaderboard(t, conn)
	if updated.Entries[0].CompletedCount != 1 || updated.Entries[0].Percent != 100 {
		t.Fatalf("unexpected updated leaderboard %+v", updated)
	}

	if err := conn.WriteJSON(map[string]any{"type": "bogus"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var msg struct {
		Type string `json:"type"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil || msg.Type != "error" {
		t.Fatalf("expected error reply, got %+v err=%v", msg, err)
	}
}

func TestLeaderboardStreamRequiresToken(t *testing.T) {
	api := newTestAPI(t)
	u := "ws" + strings.TrimPrefix(api.server.URL, "http") + "/api/v1/results/leaderboard/ws"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	if err == nil {
		t.Fatalf("expected dial to fail without a token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %+v", resp)
	}
}

func readLeaderboard(t *testing.T, conn *websocket.Conn) domain.Leaderboard {
	t.Helper()
	var msg struct {
		Type    string             `json:"type"`
		Payload domain.Leaderboard `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if msg.Type != "leaderboard" {
		t.Fatalf("expected leaderboard, got %s", msg.Type)
	}
	return msg.Payload
}

func waitForSubscribers(t *testing.T, api *testAPI, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for api.hub.Subscribers() < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d subscribers", n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestOutboxStopsWhenWriterIsGone(t *testing.T) {
	send := make(chan outboundMessage[any], 2)
	writerDone := make(chan struct{})
	close(writerDone)
	out := outbox{send: send, done: writerDone}

	finished := make(chan bool)
	go func() {
		for i := 0; i < 32; i++ {
			if !out.push(outboundMessage[any]{Type: "leaderboard"}) {
				finished <- true
				return
			}
		}
		finished <- false
	}()

	select {
	case stopped := <-finished:
		if !stopped {
			t.Fatalf("expected push to report the stopped writer")
		}
	case <-time.After(time.Second):
		t.Fatalf("push blocked after the writer exited")
	}
}
