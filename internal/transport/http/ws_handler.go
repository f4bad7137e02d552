package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"quiz-portal-service/internal/app"
	"quiz-portal-service/internal/domain"
)

// LeaderboardWSHandler streams the ranked leaderboard to websocket clients.
type LeaderboardWSHandler struct {
	results  *app.ResultService
	hub      *app.LeaderboardHub
	upgrader websocket.Upgrader
}

func NewLeaderboardWSHandler(results *app.ResultService, hub *app.LeaderboardHub) *LeaderboardWSHandler {
	return &LeaderboardWSHandler{
		results: results,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS sends the current leaderboard on connect and every update after it.
// Clients may send {"type":"refresh"} to get a freshly computed snapshot.
func (h *LeaderboardWSHandler) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	current, err := h.results.Leaderboard(ctx)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "leaderboard unavailable"}})
		log.Printf("ws leaderboard: %v", err)
		return
	}
	if err := conn.WriteJSON(outboundMessage[domain.Leaderboard]{Type: "leaderboard", Payload: current}); err != nil {
		return
	}

	updates, cancel := h.hub.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// single writer: gorilla connections do not support concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				// the hub primes subscribers with its latest snapshot, which may predate current
				if !update.UpdatedAt.After(current.UpdatedAt) {
					continue
				}
				select {
				case send <- outboundMessage[any]{Type: "leaderboard", Payload: update}:
				case <-writerDone:
					return
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	out := outbox{send: send, done: writerDone}
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		msg := outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		if inbound.Type == "refresh" {
			if lb, err := h.results.Leaderboard(ctx); err != nil {
				msg = outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "leaderboard unavailable"}}
			} else {
				msg = outboundMessage[any]{Type: "leaderboard", Payload: lb}
			}
		}
		if !out.push(msg) {
			break
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// outbox hands messages to the connection's single writer goroutine.
type outbox struct {
	send chan<- outboundMessage[any]
	done <-chan struct{}
}

// push queues msg, reporting false once the writer has stopped.
func (o outbox) push(msg outboundMessage[any]) bool {
	select {
	case o.send <- msg:
		return true
	case <-o.done:
		return false
	}
}
