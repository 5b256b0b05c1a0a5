package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"hideseek_webapp/internal/service"
)

// Smoke test against a running server: hider + seeker join one game over
// REST, both attach to the watch stream, seeker pushes a location sample and
// оба должны получить свежий снапшот.
func main() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	base := fmt.Sprintf("http://127.0.0.1:%s/api/v1", port)

	service.InitJWT()
	hiderID := uuid.NewString()
	seekerID := uuid.NewString()

	tokenHider, err := service.GenerateJWT(hiderID)
	if err != nil {
		log.Fatalf("gen hider token: %v", err)
	}
	tokenSeeker, err := service.GenerateJWT(seekerID)
	if err != nil {
		log.Fatalf("gen seeker token: %v", err)
	}

	// create a game
	var created struct {
		ID   string `json:"id"`
		Code string `json:"code"`
	}
	postJSON(base+"/games", "", map[string]any{"size": "small"}, &created)
	gameID := created.ID
	log.Printf("created game %s (code %s)", gameID, created.Code)

	// first joiner becomes the hider, second the seeker
	postJSON(base+"/games/"+gameID+"/join", tokenHider, map[string]any{}, nil)
	postJSON(base+"/games/"+gameID+"/join", tokenSeeker, map[string]any{}, nil)

	dialer := websocket.DefaultDialer

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	wsURL := func(token string) string {
		return fmt.Sprintf("ws://127.0.0.1:%s/ws?token=%s&game=%s", port, token, gameID)
	}

	connHider, _, err := dialer.Dial(wsURL(tokenHider), nil)
	if err != nil {
		log.Fatalf("dial hider: %v", err)
	}
	defer connHider.Close()

	connSeeker, _, err := dialer.Dial(wsURL(tokenSeeker), nil)
	if err != nil {
		log.Fatalf("dial seeker: %v", err)
	}
	defer connSeeker.Close()

	// drain initial snapshots
	readState(connHider, "hider")
	readState(connSeeker, "seeker")

	// seeker reports a location, both watchers should get the new snapshot
	loc := `{"type":"location","value":{"lat":40.7829,"lng":-73.9654}}`
	if err := connSeeker.WriteMessage(websocket.TextMessage, []byte(loc)); err != nil {
		log.Fatalf("write seeker location: %v", err)
	}

	readState(connHider, "hider")
	readState(connSeeker, "seeker")

	log.Println("smoke test finished")
}

func postJSON(url, token string, body map[string]any, out any) {
	b, _ := json.Marshal(body)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		log.Fatalf("build request %s: %v", url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		log.Fatalf("POST %s: status %d", url, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Fatalf("decode %s: %v", url, err)
		}
	}
}

func readState(conn *websocket.Conn, name string) {
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			continue
		}
		var obj map[string]any
		_ = json.Unmarshal(msg, &obj)
		if t, ok := obj["type"].(string); ok && t == "state" {
			log.Printf("%s got state: %d bytes", name, len(msg))
			return
		}
	}
	log.Fatalf("%s: no state message within deadline", name)
}
