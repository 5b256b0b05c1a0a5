package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"hideseek_webapp/internal/domain"
	"hideseek_webapp/internal/service"
	"hideseek_webapp/internal/session"
	"hideseek_webapp/internal/store"
	"hideseek_webapp/internal/ws"
)

type stubQuestions struct{ bank []domain.Question }

func (s *stubQuestions) List(ctx context.Context) ([]domain.Question, error) {
	return s.bank, nil
}

type stubDeck struct{ cards []domain.Card }

func (s *stubDeck) List(ctx context.Context) ([]domain.Card, error) {
	return s.cards, nil
}

// fakeAuth injects the identity the JWT middleware would have resolved.
func fakeAuth(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

type testEnv struct {
	h     *Handler
	games *service.GameService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	games := service.NewGameService(
		store.NewMemoryStore(),
		session.New(session.Config{}),
		&stubQuestions{bank: []domain.Question{
			{ID: "q1", Category: "Radar", Question: "street?", Type: domain.QuestionRadar, TimeLimit: 300},
			{ID: "q2", Category: "Photo", Question: "photo!", Type: domain.QuestionPhoto, TimeLimit: 600},
		}},
		&stubDeck{cards: []domain.Card{
			{ID: "c1", Type: domain.CardTimeBonus, Name: "Extra Minute", Value: 60},
		}},
		nil,
	)

	sink, err := service.NewDiskSink(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("disk sink: %v", err)
	}

	return &testEnv{
		h:     NewHandler(games, nil, sink),
		games: games,
	}
}

func (e *testEnv) router(userID string) *gin.Engine {
	r := gin.New()
	r.POST("/games", e.h.CreateGame)
	r.GET("/games/:id", e.h.GetGame)
	r.GET("/games/code/:code", e.h.GetGameByCode)
	auth := r.Group("", fakeAuth(userID))
	auth.POST("/games/:id/join", e.h.JoinGame)
	auth.POST("/games/:id/location", e.h.UpdateLocation)
	auth.POST("/games/:id/end", e.h.EndGame)
	auth.POST("/games/:id/cards/draw", e.h.DrawCard)
	auth.POST("/games/:id/cards/play", e.h.PlayCard)
	auth.POST("/games/:id/questions/request", e.h.RequestQuestion)
	auth.POST("/games/:id/questions/answer", e.h.AnswerQuestion)
	auth.POST("/games/:id/questions/expire", e.h.ExpireQuestion)
	auth.POST("/games/:id/photos", e.h.UploadPhoto)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func createGame(t *testing.T, e *testEnv, size string) domain.Game {
	t.Helper()
	w := doJSON(t, e.router(""), http.MethodPost, "/games", map[string]any{"size": size})
	if w.Code != http.StatusCreated {
		t.Fatalf("create game: %d %s", w.Code, w.Body.String())
	}
	return decode[domain.Game](t, w)
}

func TestCreateGame_Handler(t *testing.T) {
	e := newTestEnv(t)

	g := createGame(t, e, "small")
	if len(g.Code) != 4 || g.Status != domain.StatusWaiting {
		t.Fatalf("game = %+v", g)
	}

	// default size is medium
	w := doJSON(t, e.router(""), http.MethodPost, "/games", map[string]any{})
	g = decode[domain.Game](t, w)
	if g.GameSize != domain.SizeMedium {
		t.Fatalf("default size = %s", g.GameSize)
	}

	w = doJSON(t, e.router(""), http.MethodPost, "/games", map[string]any{"size": "huge"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid size: %d", w.Code)
	}
}

func TestGetGameByCode_Handler(t *testing.T) {
	e := newTestEnv(t)
	g := createGame(t, e, "small")
	r := e.router("")

	w := doJSON(t, r, http.MethodGet, "/games/code/"+g.Code, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("by code: %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/games/code/0000", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing code: %d", w.Code)
	}

	// ended games are not joinable by code
	e.games.JoinGame(context.Background(), g.ID, "alice")
	e.games.EndGame(context.Background(), g.ID)
	w = doJSON(t, r, http.MethodGet, "/games/code/"+g.Code, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("ended game by code: %d %s", w.Code, w.Body.String())
	}
}

func TestJoinGame_Handler(t *testing.T) {
	e := newTestEnv(t)
	g := createGame(t, e, "small")

	w := doJSON(t, e.router("alice"), http.MethodPost, "/games/"+g.ID+"/join", map[string]any{})
	if w.Code != http.StatusOK {
		t.Fatalf("join: %d %s", w.Code, w.Body.String())
	}
	res := decode[struct {
		Role domain.Role `json:"role"`
		Game domain.Game `json:"game"`
	}](t, w)
	if res.Role != domain.RoleHider || res.Game.Hider != "alice" {
		t.Fatalf("join result = %+v", res)
	}

	w = doJSON(t, e.router("bob"), http.MethodPost, "/games/"+g.ID+"/join", map[string]any{})
	res = decode[struct {
		Role domain.Role `json:"role"`
		Game domain.Game `json:"game"`
	}](t, w)
	if res.Role != domain.RoleSeeker {
		t.Fatalf("second joiner role = %s", res.Role)
	}

	w = doJSON(t, e.router(""), http.MethodPost, "/games/"+g.ID+"/join", map[string]any{})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous join: %d", w.Code)
	}
}

func TestUpdateLocation_Handler(t *testing.T) {
	e := newTestEnv(t)
	g := createGame(t, e, "small")
	ctx := context.Background()
	e.games.JoinGame(ctx, g.ID, "alice")
	e.games.JoinGame(ctx, g.ID, "bob")

	w := doJSON(t, e.router("bob"), http.MethodPost, "/games/"+g.ID+"/location", map[string]any{"lat": 40.78, "lng": -73.96})
	if w.Code != http.StatusOK {
		t.Fatalf("location: %d %s", w.Code, w.Body.String())
	}

	got, _ := e.games.Get(ctx, g.ID)
	if got.SeekerLocations["bob"].Lat != 40.78 {
		t.Fatalf("locations = %v", got.SeekerLocations)
	}

	w = doJSON(t, e.router("stranger"), http.MethodPost, "/games/"+g.ID+"/location", map[string]any{"lat": 1, "lng": 2})
	if w.Code != http.StatusForbidden {
		t.Fatalf("stranger location: %d", w.Code)
	}
}

func TestCards_Handlers(t *testing.T) {
	e := newTestEnv(t)
	g := createGame(t, e, "small")
	ctx := context.Background()
	e.games.JoinGame(ctx, g.ID, "alice")
	e.games.JoinGame(ctx, g.ID, "bob")

	w := doJSON(t, e.router("alice"), http.MethodPost, "/games/"+g.ID+"/cards/draw", map[string]any{})
	if w.Code != http.StatusOK {
		t.Fatalf("draw: %d %s", w.Code, w.Body.String())
	}
	card := decode[domain.Card](t, w)
	if card.ID != "c1" {
		t.Fatalf("card = %+v", card)
	}

	w = doJSON(t, e.router("alice"), http.MethodPost, "/games/"+g.ID+"/cards/play", card)
	if w.Code != http.StatusOK {
		t.Fatalf("play: %d %s", w.Code, w.Body.String())
	}

	got, _ := e.games.Get(ctx, g.ID)
	if got.TotalHidingTime != 60 {
		t.Fatalf("totalHidingTime = %d", got.TotalHidingTime)
	}

	// seekers do not play cards
	w = doJSON(t, e.router("bob"), http.MethodPost, "/games/"+g.ID+"/cards/play", card)
	if w.Code != http.StatusForbidden {
		t.Fatalf("seeker play: %d", w.Code)
	}
}

func TestQuestionRound_Handlers(t *testing.T) {
	e := newTestEnv(t)
	g := createGame(t, e, "small")
	ctx := context.Background()
	e.games.JoinGame(ctx, g.ID, "alice")
	e.games.JoinGame(ctx, g.ID, "bob")

	// only seekers ask
	w := doJSON(t, e.router("alice"), http.MethodPost, "/games/"+g.ID+"/questions/request", map[string]any{"category": "Radar"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("hider request: %d", w.Code)
	}

	w = doJSON(t, e.router("bob"), http.MethodPost, "/games/"+g.ID+"/questions/request", map[string]any{"category": "Radar"})
	if w.Code != http.StatusOK {
		t.Fatalf("request: %d %s", w.Code, w.Body.String())
	}
	req := decode[struct {
		Question        domain.Question `json:"question"`
		RevealsLocation bool            `json:"reveals_location"`
		RevealSeconds   int             `json:"reveal_seconds"`
	}](t, w)
	if req.Question.ID != "q1" || !req.RevealsLocation || req.RevealSeconds != 10 {
		t.Fatalf("request response = %+v", req)
	}

	// one question in flight at a time
	w = doJSON(t, e.router("bob"), http.MethodPost, "/games/"+g.ID+"/questions/request", map[string]any{"category": "Photo"})
	if w.Code != http.StatusConflict {
		t.Fatalf("second request: %d", w.Code)
	}

	// unknown category
	w = doJSON(t, e.router("bob"), http.MethodPost, "/games/"+g.ID+"/questions/request", map[string]any{"category": ""})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty category: %d", w.Code)
	}

	// only the hider answers
	w = doJSON(t, e.router("bob"), http.MethodPost, "/games/"+g.ID+"/questions/answer", map[string]any{"correct": true})
	if w.Code != http.StatusForbidden {
		t.Fatalf("seeker answer: %d", w.Code)
	}

	w = doJSON(t, e.router("alice"), http.MethodPost, "/games/"+g.ID+"/questions/answer", map[string]any{"correct": true})
	if w.Code != http.StatusOK {
		t.Fatalf("answer: %d %s", w.Code, w.Body.String())
	}
	ans := decode[struct {
		CoinsAwarded int         `json:"coins_awarded"`
		Game         domain.Game `json:"game"`
	}](t, w)
	if ans.CoinsAwarded != 1 || ans.Game.Coins != 1 {
		t.Fatalf("answer response = %+v", ans)
	}
	if ans.Game.PendingQuestion != nil || len(ans.Game.ChatMessages) != 2 {
		t.Fatalf("game after answer = %+v", ans.Game)
	}

	// nothing pending anymore
	w = doJSON(t, e.router("alice"), http.MethodPost, "/games/"+g.ID+"/questions/answer", map[string]any{"correct": false})
	if w.Code != http.StatusConflict {
		t.Fatalf("double answer: %d", w.Code)
	}
}

func TestAnswer_PhotoRequired_Handler(t *testing.T) {
	e := newTestEnv(t)
	g := createGame(t, e, "small")
	ctx := context.Background()
	e.games.JoinGame(ctx, g.ID, "alice")
	e.games.JoinGame(ctx, g.ID, "bob")
	e.games.RequestQuestion(ctx, g.ID, "Photo")

	w := doJSON(t, e.router("alice"), http.MethodPost, "/games/"+g.ID+"/questions/answer", map[string]any{"correct": true})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("photo answer without evidence: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, e.router("alice"), http.MethodPost, "/games/"+g.ID+"/questions/answer",
		map[string]any{"correct": true, "photo_url": "/uploads/p.jpg"})
	if w.Code != http.StatusOK {
		t.Fatalf("photo answer: %d %s", w.Code, w.Body.String())
	}
}

func TestExpireQuestion_Handler(t *testing.T) {
	e := newTestEnv(t)
	g := createGame(t, e, "small")
	ctx := context.Background()
	e.games.JoinGame(ctx, g.ID, "alice")
	e.games.JoinGame(ctx, g.ID, "bob")
	e.games.RequestQuestion(ctx, g.ID, "Radar")

	w := doJSON(t, e.router("bob"), http.MethodPost, "/games/"+g.ID+"/questions/expire", map[string]any{})
	if w.Code != http.StatusOK {
		t.Fatalf("expire: %d %s", w.Code, w.Body.String())
	}

	got, _ := e.games.Get(ctx, g.ID)
	if got.PendingQuestion != nil {
		t.Fatalf("pending survived expiry")
	}
}

func TestExpireQuestion_StrangerForbidden(t *testing.T) {
	e := newTestEnv(t)
	g := createGame(t, e, "small")
	ctx := context.Background()
	e.games.JoinGame(ctx, g.ID, "alice")
	e.games.JoinGame(ctx, g.ID, "bob")
	e.games.RequestQuestion(ctx, g.ID, "Radar")

	w := doJSON(t, e.router("mallory"), http.MethodPost, "/games/"+g.ID+"/questions/expire", map[string]any{})
	if w.Code != http.StatusForbidden {
		t.Fatalf("stranger expire = %d, want 403", w.Code)
	}

	got, _ := e.games.Get(ctx, g.ID)
	if got.PendingQuestion == nil {
		t.Fatalf("stranger cancelled the pending question")
	}
}

func TestRequestQuestion_BroadcastsReveal(t *testing.T) {
	e := newTestEnv(t)
	g := createGame(t, e, "small")
	ctx := context.Background()
	e.games.JoinGame(ctx, g.ID, "alice")
	e.games.JoinGame(ctx, g.ID, "bob")
	e.games.UpdateLocation(ctx, g.ID, "alice", domain.LatLng{Lat: 40.7, Lng: -73.9})

	hub := ws.NewHub(e.games)
	e.h.Hub = hub
	watcher := ws.NewClient("carol", g.ID, nil, hub)
	watcher.Room = hub.AssignClient(watcher)
	waitWatcherFrame(t, watcher, "state")

	w := doJSON(t, e.router("bob"), http.MethodPost, "/games/"+g.ID+"/questions/request", map[string]any{"category": "Radar"})
	if w.Code != http.StatusOK {
		t.Fatalf("request question: %d %s", w.Code, w.Body.String())
	}

	payload := waitWatcherFrame(t, watcher, "reveal")
	var reveal struct {
		Seconds       int            `json:"seconds"`
		HiderLocation *domain.LatLng `json:"hiderLocation"`
	}
	if err := json.Unmarshal(payload, &reveal); err != nil {
		t.Fatalf("decode reveal: %v", err)
	}
	if reveal.Seconds != 10 {
		t.Fatalf("reveal seconds = %d, want 10", reveal.Seconds)
	}
	if reveal.HiderLocation == nil || reveal.HiderLocation.Lat != 40.7 {
		t.Fatalf("reveal location = %+v", reveal.HiderLocation)
	}
}

// waitWatcherFrame drains the watcher until a frame of the wanted type arrives
// and returns its payload.
func waitWatcherFrame(t *testing.T, c *ws.Client, typ string) json.RawMessage {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case raw := <-c.Send:
			var frame struct {
				Type    string          `json:"type"`
				Payload json.RawMessage `json:"payload"`
			}
			if err := json.Unmarshal(raw, &frame); err != nil {
				t.Fatalf("bad frame: %v", err)
			}
			if frame.Type == typ {
				return frame.Payload
			}
		case <-deadline:
			t.Fatalf("no %q frame", typ)
		}
	}
}

func TestEndGame_Handler(t *testing.T) {
	e := newTestEnv(t)
	g := createGame(t, e, "small")
	ctx := context.Background()
	e.games.JoinGame(ctx, g.ID, "alice")

	// non-members cannot end the game
	w := doJSON(t, e.router("stranger"), http.MethodPost, "/games/"+g.ID+"/end", map[string]any{})
	if w.Code != http.StatusForbidden {
		t.Fatalf("stranger end: %d", w.Code)
	}

	w = doJSON(t, e.router("alice"), http.MethodPost, "/games/"+g.ID+"/end", map[string]any{})
	if w.Code != http.StatusOK {
		t.Fatalf("end: %d %s", w.Code, w.Body.String())
	}
	got := decode[domain.Game](t, w)
	if got.Status != domain.StatusEnded {
		t.Fatalf("status = %s", got.Status)
	}
}

func TestUploadPhoto_Handler(t *testing.T) {
	e := newTestEnv(t)
	g := createGame(t, e, "small")
	r := e.router("alice")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("photo", "spot.png")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	fw.Write([]byte("png-bytes"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/games/"+g.ID+"/photos", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("upload: %d %s", w.Code, w.Body.String())
	}
	res := decode[struct {
		URL string `json:"url"`
	}](t, w)
	if res.URL == "" || res.URL[:9] != "/uploads/" {
		t.Fatalf("url = %q", res.URL)
	}

	// missing file
	w2 := doJSON(t, r, http.MethodPost, "/games/"+g.ID+"/photos", map[string]any{})
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("missing photo: %d", w2.Code)
	}
}

func TestAuthAnonymous_Handler(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	service.InitJWT()

	e := newTestEnv(t)
	r := gin.New()
	r.POST("/auth/anonymous", e.h.AuthAnonymous)

	w := doJSON(t, r, http.MethodPost, "/auth/anonymous", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("auth: %d %s", w.Code, w.Body.String())
	}
	res := decode[struct {
		Token  string `json:"token"`
		UserID string `json:"user_id"`
	}](t, w)
	if res.Token == "" || res.UserID == "" {
		t.Fatalf("response = %+v", res)
	}

	uid, err := service.ParseJWT(res.Token)
	if err != nil || uid != res.UserID {
		t.Fatalf("token does not round-trip: %v %q", err, uid)
	}

	// two calls mint distinct identities
	w2 := doJSON(t, r, http.MethodPost, "/auth/anonymous", nil)
	res2 := decode[struct {
		UserID string `json:"user_id"`
	}](t, w2)
	if res2.UserID == res.UserID {
		t.Fatalf("identities must be unique")
	}
}
