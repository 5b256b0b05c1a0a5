package session

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"hideseek_webapp/internal/domain"
	"hideseek_webapp/internal/store"
)

// Config tunes the session manager. Zero values get sensible defaults.
type Config struct {
	// RevealCategories lists the question types that briefly disclose the
	// hider's location to seekers. Какие категории палят локацию - настройка,
	// а не константа: у исходной игры это менялось между версиями.
	RevealCategories []string
	RevealFor        time.Duration

	Rand *rand.Rand
	Now  func() time.Time
}

// Manager owns the game-state transition rules. Every operation takes the
// latest committed snapshot, validates preconditions against it and returns
// the patch to hand to the store; the snapshot itself is never mutated.
type Manager struct {
	mu        sync.Mutex // guards rng
	rng       *rand.Rand
	now       func() time.Time
	reveal    map[string]struct{}
	revealFor time.Duration
}

func New(cfg Config) *Manager {
	m := &Manager{
		rng:       cfg.Rand,
		now:       cfg.Now,
		revealFor: cfg.RevealFor,
		reveal:    make(map[string]struct{}),
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.revealFor == 0 {
		m.revealFor = 10 * time.Second
	}
	cats := cfg.RevealCategories
	if len(cats) == 0 {
		cats = []string{string(domain.QuestionRadar)}
	}
	for _, c := range cats {
		m.reveal[strings.ToLower(c)] = struct{}{}
	}
	return m
}

func (m *Manager) intn(n int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rng.Intn(n)
}

// RoleResult - итог назначения роли
type RoleResult struct {
	Role    domain.Role
	Changed bool
	Patch   store.Patch
}

// AssignRole resolves the caller's role: first joiner takes the hider slot,
// everyone after becomes a seeker. Repeat calls with an assigned identity are
// pure no-ops; the CAS race for the hider slot is resolved by the store
// (the loser re-reads and falls back here to seeker).
func (m *Manager) AssignRole(g *domain.Game, userID string) (RoleResult, error) {
	if userID == "" {
		return RoleResult{}, fmt.Errorf("empty user id")
	}
	if role, ok := g.RoleOf(userID); ok {
		return RoleResult{Role: role}, nil
	}
	if g.Status == domain.StatusEnded {
		return RoleResult{}, ErrGameEnded
	}

	p := store.NewPatch()
	if g.Hider == "" {
		p.Set["hider"] = userID
		if g.Status == domain.StatusWaiting {
			p.Set["status"] = domain.StatusActive
		}
		return RoleResult{Role: domain.RoleHider, Changed: true, Patch: p}, nil
	}

	seekers := append(append([]string(nil), g.Seekers...), userID)
	p.Set["seekers"] = seekers
	if g.Status == domain.StatusWaiting {
		p.Set["status"] = domain.StatusActive
	}
	return RoleResult{Role: domain.RoleSeeker, Changed: true, Patch: p}, nil
}

// UpdateLocation records the latest sample for the given role. Coordinates are
// not validated; the feed is trusted.
func (m *Manager) UpdateLocation(g *domain.Game, userID string, role domain.Role, pos domain.LatLng) (store.Patch, error) {
	p := store.NewPatch()
	switch role {
	case domain.RoleHider:
		p.Set["hiderLocation"] = pos
	case domain.RoleSeeker:
		p.Set["seekerLocations."+userID] = pos
	default:
		return store.Patch{}, ErrUnknownRole
	}
	return p, nil
}

// DrawCard uniformly picks one card from the deck. The drawn card is held
// client-side until played, so the game is untouched.
func (m *Manager) DrawCard(deck []domain.Card) (domain.Card, error) {
	if len(deck) == 0 {
		return domain.Card{}, ErrEmptyDeck
	}
	return deck[m.intn(len(deck))], nil
}

// PlayCardResult - итог разыгранной карты
type PlayCardResult struct {
	Patch store.Patch
	Curse *domain.Curse // set when a curse card was played
}

// PlayCard applies a drawn card to the game. Powerup effects are opaque to the
// core and accepted as no-ops.
func (m *Manager) PlayCard(g *domain.Game, card domain.Card) (PlayCardResult, error) {
	p := store.NewPatch()

	switch card.Type {
	case domain.CardTimeBonus:
		p.Set["totalHidingTime"] = g.TotalHidingTime + card.Value
		return PlayCardResult{Patch: p}, nil

	case domain.CardCurse:
		curse := domain.Curse{
			ID:          uuid.NewString(),
			Name:        card.Name,
			Description: card.Description,
			Duration:    card.Value,
			Timestamp:   m.now(),
		}
		p.Set["activeCurses"] = append(append([]domain.Curse(nil), g.ActiveCurses...), curse)
		return PlayCardResult{Patch: p, Curse: &curse}, nil

	case domain.CardPowerup:
		// extension point: effects like handSize+2 / doubleDraw / skipQuestion
		// are interpreted by the UI, the shared state does not change
		return PlayCardResult{Patch: p}, nil

	default:
		return PlayCardResult{}, ErrInvalidCardType
	}
}

// QuestionResult - итог запроса вопроса
type QuestionResult struct {
	Patch    store.Patch
	Question domain.Question
	Message  domain.ChatMessage

	// RevealsLocation tags location-revealing categories; the countdown is
	// driven client-side for RevealFor.
	RevealsLocation bool
	RevealFor       time.Duration
}

// RequestQuestion poses a random question from the category to the hider.
// At most one challenge may be in flight per game.
func (m *Manager) RequestQuestion(g *domain.Game, category string, bank []domain.Question) (QuestionResult, error) {
	if g.PendingQuestion != nil {
		return QuestionResult{}, ErrQuestionAlreadyPending
	}

	var filtered []domain.Question
	for _, q := range bank {
		if strings.EqualFold(q.Category, category) {
			filtered = append(filtered, q)
		}
	}
	if len(filtered) == 0 {
		return QuestionResult{}, ErrNoQuestionsInCategory
	}

	q := filtered[m.intn(len(filtered))]
	now := m.now()

	pq := domain.PendingQuestion{
		Category:  category,
		Question:  q,
		Timestamp: now,
	}
	if q.TimeLimit > 0 {
		exp := now.Add(time.Duration(q.TimeLimit) * time.Second)
		pq.ExpiresAt = &exp
	}

	msg := domain.ChatMessage{
		ID:        uuid.NewString(),
		Type:      domain.ChatQuestion,
		Content:   q.Question,
		Question:  q.Question,
		Category:  category,
		Timestamp: now,
		Sender:    domain.RoleSeeker,
	}

	p := store.NewPatch()
	p.Set["pendingQuestion"] = pq
	p.Set["chatMessages"] = append(append([]domain.ChatMessage(nil), g.ChatMessages...), msg)

	_, reveals := m.reveal[strings.ToLower(string(q.Type))]
	return QuestionResult{
		Patch:           p,
		Question:        q,
		Message:         msg,
		RevealsLocation: reveals,
		RevealFor:       m.revealFor,
	}, nil
}

// AnswerResult - итог ответа на вопрос
type AnswerResult struct {
	Patch        store.Patch
	Message      domain.ChatMessage
	CoinsAwarded int
}

// AnswerQuestion resolves the pending challenge. A correct answer earns the
// hider one coin; a correct photo question must carry the uploaded photo URL.
// Callers must hold the per-game answer lock (see Locker) so a doubly-fired
// submission cannot double-award coins or double-append chat entries.
func (m *Manager) AnswerQuestion(g *domain.Game, correct bool, photoURL string) (AnswerResult, error) {
	if g.PendingQuestion == nil {
		return AnswerResult{}, ErrNoPendingQuestion
	}
	pq := g.PendingQuestion
	if correct && pq.Question.Type == domain.QuestionPhoto && photoURL == "" {
		return AnswerResult{}, ErrPhotoRequired
	}

	now := m.now()
	outcome := "Answered incorrectly"
	if correct {
		outcome = "Answered correctly"
	}

	msgType := domain.ChatAnswer
	if photoURL != "" {
		msgType = domain.ChatPhoto
	}
	msg := domain.ChatMessage{
		ID:        uuid.NewString(),
		Type:      msgType,
		Content:   outcome,
		Question:  pq.Question.Question,
		Category:  pq.Category,
		Timestamp: now,
		Sender:    domain.RoleHider,
		PhotoURL:  photoURL,
	}

	p := store.NewPatch()
	p.Delete = append(p.Delete, "pendingQuestion")
	p.Set["chatMessages"] = append(append([]domain.ChatMessage(nil), g.ChatMessages...), msg)

	coins := 0
	if correct {
		coins = 1
		p.Set["coins"] = g.Coins + 1
	}

	return AnswerResult{Patch: p, Message: msg, CoinsAwarded: coins}, nil
}

// ExpireQuestion cancels a timed-out challenge. Expiry is never automatic:
// a caller decides the question ran out and issues this command, which shares
// the preconditions of an incorrect answer.
func (m *Manager) ExpireQuestion(g *domain.Game) (AnswerResult, error) {
	if g.PendingQuestion == nil {
		return AnswerResult{}, ErrNoPendingQuestion
	}
	pq := g.PendingQuestion

	msg := domain.ChatMessage{
		ID:        uuid.NewString(),
		Type:      domain.ChatSystem,
		Content:   "Question expired",
		Question:  pq.Question.Question,
		Category:  pq.Category,
		Timestamp: m.now(),
		Sender:    domain.RoleSeeker,
	}

	p := store.NewPatch()
	p.Delete = append(p.Delete, "pendingQuestion")
	p.Set["chatMessages"] = append(append([]domain.ChatMessage(nil), g.ChatMessages...), msg)

	return AnswerResult{Patch: p, Message: msg}, nil
}

// EndGame marks the session terminal. The core does not originate game over,
// it only accepts it.
func (m *Manager) EndGame(g *domain.Game) (store.Patch, error) {
	if g.Status == domain.StatusEnded {
		return store.NewPatch(), nil
	}
	p := store.NewPatch()
	p.Set["status"] = domain.StatusEnded
	return p, nil
}
