package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"hideseek_webapp/internal/domain"
	"hideseek_webapp/internal/service"
	"hideseek_webapp/internal/session"
	"hideseek_webapp/internal/store"
)

func newTestHub(t *testing.T) (*Hub, string) {
	t.Helper()

	games := service.NewGameService(store.NewMemoryStore(), session.New(session.Config{}), nil, nil, nil)
	g, err := games.CreateGame(context.Background(), domain.SizeSmall)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	return NewHub(games), g.ID
}

// waitFrame drains c.Send until a frame of the wanted type arrives.
func waitFrame(t *testing.T, c *Client, typ string) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case raw := <-c.Send:
			var msg struct {
				Type string `json:"type"`
			}
			if err := json.Unmarshal(raw, &msg); err != nil {
				t.Fatalf("bad frame: %v", err)
			}
			if msg.Type == typ {
				return
			}
		case <-deadline:
			t.Fatalf("no %q frame for user=%s", typ, c.UserID)
		}
	}
}

func TestHub_BroadcastReachesAllWatchers(t *testing.T) {
	hub, gameID := newTestHub(t)

	a := NewClient("alice", gameID, nil, hub)
	a.Room = hub.AssignClient(a)
	waitFrame(t, a, MsgState)

	b := NewClient("bob", gameID, nil, hub)
	b.Room = hub.AssignClient(b)
	waitFrame(t, b, MsgState)

	hub.Broadcast(gameID, Message{Type: MsgReveal, Payload: map[string]int{"seconds": 10}})

	waitFrame(t, a, MsgReveal)
	waitFrame(t, b, MsgReveal)
}

func TestHub_RoomDroppedWhenLastWatcherLeaves(t *testing.T) {
	hub, gameID := newTestHub(t)

	c := NewClient("alice", gameID, nil, hub)
	c.Room = hub.AssignClient(c)
	waitFrame(t, c, MsgState)
	hub.OnDisconnect(c)

	deadline := time.Now().Add(2 * time.Second)
	for {
		hub.mu.RLock()
		_, ok := hub.Rooms[gameID]
		hub.mu.RUnlock()
		if !ok {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("room still in hub after last watcher left")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// A watcher joining while the previous last watcher disconnects must always
// end up registered: either the room survives or a fresh one is created.
func TestHub_RegisterDuringLastDisconnect(t *testing.T) {
	hub, gameID := newTestHub(t)

	for i := 0; i < 50; i++ {
		a := NewClient(fmt.Sprintf("a%d", i), gameID, nil, hub)
		a.Room = hub.AssignClient(a)
		waitFrame(t, a, MsgState)

		done := make(chan struct{})
		go func() {
			hub.OnDisconnect(a)
			close(done)
		}()

		b := NewClient(fmt.Sprintf("b%d", i), gameID, nil, hub)
		b.Room = hub.AssignClient(b)
		waitFrame(t, b, MsgState)

		<-done
		hub.OnDisconnect(b)
	}
}
