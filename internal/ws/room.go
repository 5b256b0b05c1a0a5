package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"hideseek_webapp/internal/domain"
	"hideseek_webapp/internal/session"
)

// Room fans committed snapshots of one game out to its watchers. It holds the
// single store watch subscription; every client gets the full record, not a
// diff.
type Room struct {
	GameID  string
	Clients map[string]*Client

	Register   chan *Client
	Disconnect chan *Client

	mu     sync.RWMutex
	hub    *Hub
	cancel context.CancelFunc

	refs int // assigned-but-not-disconnected watchers, guarded by hub.mu
}

func newRoom(gameID string, hub *Hub) *Room {
	return &Room{
		GameID:     gameID,
		Clients:    make(map[string]*Client),
		Register:   make(chan *Client, 4),
		Disconnect: make(chan *Client, 4),
		hub:        hub,
	}
}

func (r *Room) Run() {
	log.Printf("Room.Run: starting room=%s", r.GameID)

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	snapshots, err := r.hub.Games.Watch(ctx, r.GameID)
	if err != nil {
		log.Printf("Room.Run: watch failed for room=%s: %v", r.GameID, err)
		cancel()
		r.hub.abandonRoom(r)
		return
	}

	for {
		select {
		case c := <-r.Register:
			r.handleRegister(c)

		case c := <-r.Disconnect:
			r.handleDisconnect(c)

			if r.hub.releaseRef(r) {
				log.Printf("Room.Run: room=%s is empty, exiting", r.GameID)
				cancel()
				return
			}

		case g, ok := <-snapshots:
			if !ok {
				log.Printf("Room.Run: watch closed for room=%s", r.GameID)
				cancel()
				r.hub.abandonRoom(r)
				return
			}
			r.broadcastSnapshot(g)
		}
	}
}

func (r *Room) handleRegister(c *Client) {
	r.mu.Lock()
	r.Clients[c.UserID] = c
	count := len(r.Clients)
	r.mu.Unlock()

	log.Printf("Room.handleRegister: room=%s user=%s watchers=%d", r.GameID, c.UserID, count)

	// new watcher immediately gets the current committed snapshot
	ctx, cancelGet := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancelGet()
	g, err := r.hub.Games.Get(ctx, r.GameID)
	if err != nil {
		log.Printf("Room.handleRegister: initial snapshot failed for room=%s: %v", r.GameID, err)
		r.send(c, Message{Type: MsgError, Payload: map[string]string{"message": "game not found"}})
		return
	}
	r.send(c, Message{Type: MsgState, Payload: g})
}

func (r *Room) handleDisconnect(c *Client) {
	r.mu.Lock()
	delete(r.Clients, c.UserID)
	r.mu.Unlock()

	log.Printf("Room.handleDisconnect: room=%s user=%s", r.GameID, c.UserID)
}

func (r *Room) broadcastSnapshot(g *domain.Game) {
	log.Printf("Room.broadcastSnapshot: room=%s version=%d", r.GameID, g.Version)
	r.broadcast(Message{Type: MsgState, Payload: g})
}

func (r *Room) broadcast(msg Message) {
	r.mu.RLock()
	clients := make([]*Client, 0, len(r.Clients))
	for _, c := range r.Clients {
		clients = append(clients, c)
	}
	r.mu.RUnlock()

	for _, c := range clients {
		r.send(c, msg)
	}
}

// HandleMessage processes an inbound client frame. Only location samples and
// pings come upstream; every other mutation goes through the HTTP API.
func (r *Room) HandleMessage(c *Client, raw []byte) {
	var msg struct {
		Type  string          `json:"type"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Printf("Room.HandleMessage: failed to unmarshal: %v", err)
		return
	}

	switch msg.Type {
	case MsgPing:
		// keepalive only

	case MsgLocation:
		var pos domain.LatLng
		if err := json.Unmarshal(msg.Value, &pos); err != nil {
			r.send(c, Message{Type: MsgError, Payload: map[string]string{"message": "bad location payload"}})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := r.hub.Games.UpdateLocation(ctx, r.GameID, c.UserID, pos); err != nil {
			if err == session.ErrUnknownRole {
				r.send(c, Message{Type: MsgError, Payload: map[string]string{"message": "join the game first"}})
				return
			}
			log.Printf("Room.HandleMessage: location update failed for user=%s: %v", c.UserID, err)
			r.send(c, Message{Type: MsgError, Payload: map[string]string{"message": "location update failed"}})
		}

	default:
		log.Printf("Room.HandleMessage: room=%s user=%s unknown type=%s", r.GameID, c.UserID, msg.Type)
	}
}

func (r *Room) send(c *Client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Room.send: marshal error: %v", err)
		return
	}

	select {
	case c.Send <- data:
	case <-time.After(2 * time.Second):
		log.Printf("Room.send: timeout sending to user=%s type=%s", c.UserID, msg.Type)
	}
}
