package ws

// Message - конверт сообщений watch-стрима
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

const (
	// client - server
	MsgLocation = "location"
	MsgPing     = "ping"

	// server - client
	MsgState  = "state" // full game snapshot, sent on every committed mutation
	MsgReveal = "reveal"
	MsgError  = "error"
)
