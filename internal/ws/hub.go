package ws

import (
	"log"
	"sync"

	"hideseek_webapp/internal/service"
)

// Hub keeps one room per watched game. A room exists while at least one
// client watches its game; рассылка идёт полным снапшотом на каждый коммит.
type Hub struct {
	Rooms map[string]*Room
	mu    sync.RWMutex

	Games *service.GameService
}

func NewHub(games *service.GameService) *Hub {
	return &Hub{
		Rooms: make(map[string]*Room),
		Games: games,
	}
}

// AssignClient attaches a client to the room of its game, creating the room
// (and its store watch) on first use. The ref count is taken under the hub
// lock before the register is delivered, so an exiting room cannot miss a
// watcher that already picked it from the map.
func (h *Hub) AssignClient(c *Client) *Room {
	h.mu.Lock()

	room, ok := h.Rooms[c.GameID]
	if !ok {
		room = newRoom(c.GameID, h)
		h.Rooms[c.GameID] = room
		log.Printf("Hub.AssignClient: created room=%s, starting Run()", c.GameID)
		go room.Run()
	}
	room.refs++

	h.mu.Unlock()

	room.Register <- c
	return room
}

func (h *Hub) OnDisconnect(c *Client) {
	h.mu.RLock()
	room, ok := h.Rooms[c.GameID]
	h.mu.RUnlock()

	// a stale disconnect must not reach a room the client never joined
	if ok && room == c.Room {
		log.Printf("Hub.OnDisconnect: user=%s room=%s", c.UserID, c.GameID)
		room.Disconnect <- c
	}
}

// Broadcast pushes a frame to every watcher of a game, if anyone watches it.
func (h *Hub) Broadcast(gameID string, msg Message) {
	h.mu.RLock()
	room, ok := h.Rooms[gameID]
	h.mu.RUnlock()

	if ok {
		room.broadcast(msg)
	}
}

// releaseRef drops one watcher ref; when the last one goes the room is
// removed from the map in the same critical section, so no AssignClient can
// pick a room that decided to exit.
func (h *Hub) releaseRef(r *Room) (drop bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r.refs--
	if r.refs > 0 {
		return false
	}
	delete(h.Rooms, r.GameID)
	return true
}

// abandonRoom removes a room whose store watch died. Watchers that raced into
// the dying room get an error frame instead of silence.
func (h *Hub) abandonRoom(r *Room) {
	h.mu.Lock()
	delete(h.Rooms, r.GameID)
	h.mu.Unlock()

	for {
		select {
		case c := <-r.Register:
			r.send(c, Message{Type: MsgError, Payload: map[string]string{"message": "watch unavailable"}})
		default:
			return
		}
	}
}
