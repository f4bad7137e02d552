package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestLeaderboardNotifierDeliversAcrossClients(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	listener := NewLeaderboardNotifier(newClient(mr), "")
	publisher := NewLeaderboardNotifier(newClient(mr), "")

	updates := make(chan struct{}, 4)
	stop, err := listener.Listen(context.Background(), func(context.Context) {
		updates <- struct{}{}
	})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer stop()

	if err := publisher.LeaderboardChanged(context.Background()); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case <-updates:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for leaderboard notification")
	}
}

func TestLeaderboardNotifierStopIsIdempotent(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	notifier := NewLeaderboardNotifier(newClient(mr), "custom:channel")
	stop, err := notifier.Listen(context.Background(), func(context.Context) {})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	if got := mr.PubSubNumSub("custom:channel")["custom:channel"]; got != 1 {
		t.Fatalf("expected one subscriber, got %d", got)
	}
	stop()
	stop()
}
