package redis

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// DefaultLeaderboardChannel carries leaderboard change notifications between instances.
const DefaultLeaderboardChannel = "quiz:leaderboard:updates"

// LeaderboardNotifier publishes leaderboard changes over Redis Pub/Sub so every instance
// refreshes the snapshot it streams to its own websocket subscribers.
type LeaderboardNotifier struct {
	client  *redis.Client
	channel string
}

func NewLeaderboardNotifier(client *redis.Client, channel string) *LeaderboardNotifier {
	if channel == "" {
		channel = DefaultLeaderboardChannel
	}
	return &LeaderboardNotifier{client: client, channel: channel}
}

// LeaderboardChanged publishes a change notification.
func (n *LeaderboardNotifier) LeaderboardChanged(ctx context.Context) error {
	if err := n.client.Publish(ctx, n.channel, "changed").Err(); err != nil {
		return fmt.Errorf("publish leaderboard change: %w", err)
	}
	return nil
}

// Listen subscribes to the channel and calls onUpdate for every notification until ctx
// is done or stop is called. It returns once the subscription is confirmed.
func (n *LeaderboardNotifier) Listen(ctx context.Context, onUpdate func(ctx context.Context)) (stop func(), err error) {
	sub := n.client.Subscribe(ctx, n.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", n.channel, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				onUpdate(ctx)
			}
		}
	}()

	var once sync.Once
	stop = func() {
		once.Do(func() {
			cancel()
			if err := sub.Close(); err != nil {
				log.Printf("close leaderboard subscription: %v", err)
			}
			wg.Wait()
		})
	}
	return stop, nil
}
