package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"hideseek_webapp/internal/domain"
	"hideseek_webapp/internal/logger"
	"hideseek_webapp/internal/session"
	"hideseek_webapp/internal/store"
)

const defaultConflictRetries = 3

// QuestionSource supplies the question bank.
type QuestionSource interface {
	List(ctx context.Context) ([]domain.Question, error)
}

// DeckSource supplies the card deck.
type DeckSource interface {
	List(ctx context.Context) ([]domain.Card, error)
}

// Archiver persists terminal games.
type Archiver interface {
	Create(ctx context.Context, g *domain.Game, endedAt time.Time) error
}

// GameService orchestrates session manager commands against the store:
// re-read the latest committed snapshot, compute the patch, apply it, and
// retry a bounded number of times when the patch loses a CAS race.
type GameService struct {
	store   store.Store
	manager *session.Manager
	locker  *session.Locker

	questions QuestionSource
	deck      DeckSource
	archive   Archiver

	retries int
}

func NewGameService(st store.Store, m *session.Manager, questions QuestionSource, deck DeckSource, archive Archiver) *GameService {
	return &GameService{
		store:     st,
		manager:   m,
		locker:    session.NewLocker(),
		questions: questions,
		deck:      deck,
		archive:   archive,
		retries:   defaultConflictRetries,
	}
}

// CreateGame builds the initial session record. Code uniqueness is best-effort
// query-before-insert, как в исходнике.
func (s *GameService) CreateGame(ctx context.Context, size domain.GameSize) (*domain.Game, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("invalid game size %q", size)
	}

	code := generateCode()
	for i := 0; i < 5; i++ {
		if _, err := s.store.QueryByCode(ctx, code); errors.Is(err, store.ErrNotFound) {
			break
		}
		code = generateCode()
	}

	now := time.Now()
	g := &domain.Game{
		ID:                 uuid.NewString(),
		Code:               code,
		CreatedAt:          now,
		Status:             domain.StatusWaiting,
		Seekers:            []string{},
		ActiveCurses:       []domain.Curse{},
		SeekerLocations:    map[string]domain.LatLng{},
		ChatMessages:       []domain.ChatMessage{},
		GameSize:           size,
		HidingZoneRadius:   size.HidingZoneRadius(),
		HidingPeriodEndsAt: now.Add(size.HidingPeriod()),
	}

	if _, err := s.store.Create(ctx, g); err != nil {
		return nil, err
	}
	logger.Info("game created", "game_id", g.ID, "code", g.Code, "size", size)
	return g, nil
}

// generateCode draws a 4-digit join code uniformly from 1000..9999.
func generateCode() string {
	return fmt.Sprintf("%04d", 1000+rand.Intn(9000))
}

// Get returns the latest committed snapshot.
func (s *GameService) Get(ctx context.Context, gameID string) (*domain.Game, error) {
	return s.store.Get(ctx, gameID)
}

// QueryByCode resolves a game by its join code.
func (s *GameService) QueryByCode(ctx context.Context, code string) (*domain.Game, error) {
	return s.store.QueryByCode(ctx, code)
}

// Watch subscribes to committed snapshots of one game.
func (s *GameService) Watch(ctx context.Context, gameID string) (<-chan *domain.Game, error) {
	return s.store.Watch(ctx, gameID)
}

// Store exposes the session store for readiness checks.
func (s *GameService) Store() store.Store {
	return s.store
}

// applyCommand runs one read-modify-write round trip. build gets the freshest
// snapshot on every attempt, never a cached copy.
func (s *GameService) applyCommand(ctx context.Context, gameID string, build func(g *domain.Game) (store.Patch, error)) (*domain.Game, error) {
	for attempt := 0; ; attempt++ {
		g, err := s.store.Get(ctx, gameID)
		if err != nil {
			return nil, err
		}

		patch, err := build(g)
		if err != nil {
			return nil, err
		}
		if patch.Empty() {
			return g, nil
		}

		err = s.store.ApplyPatch(ctx, gameID, g.Version, patch)
		if err == nil {
			return s.store.Get(ctx, gameID)
		}
		if !errors.Is(err, store.ErrConflict) {
			return nil, err
		}
		if attempt >= s.retries {
			return nil, store.ErrConflict
		}
		logger.Debug("command conflicted, retrying", "game_id", gameID, "attempt", attempt+1)
	}
}

// JoinGame assigns the caller a role. The first patch to commit wins the hider
// slot; a racer that loses re-reads and resolves to seeker automatically.
func (s *GameService) JoinGame(ctx context.Context, gameID, userID string) (domain.Role, *domain.Game, error) {
	var role domain.Role
	g, err := s.applyCommand(ctx, gameID, func(g *domain.Game) (store.Patch, error) {
		res, err := s.manager.AssignRole(g, userID)
		if err != nil {
			return store.Patch{}, err
		}
		role = res.Role
		return res.Patch, nil
	})
	if errors.Is(err, store.ErrConflict) && role == domain.RoleHider {
		return "", nil, session.ErrRoleConflict
	}
	if err != nil {
		return "", nil, err
	}
	return role, g, nil
}

// UpdateLocation records a location sample for the caller. The role comes from
// the latest snapshot, not from the client.
func (s *GameService) UpdateLocation(ctx context.Context, gameID, userID string, pos domain.LatLng) (*domain.Game, error) {
	return s.applyCommand(ctx, gameID, func(g *domain.Game) (store.Patch, error) {
		role, ok := g.RoleOf(userID)
		if !ok {
			return store.Patch{}, session.ErrUnknownRole
		}
		return s.manager.UpdateLocation(g, userID, role, pos)
	})
}

// DrawCard picks a random card from the shared deck. State is untouched; the
// card is held client-side until played.
func (s *GameService) DrawCard(ctx context.Context) (domain.Card, error) {
	deck, err := s.deck.List(ctx)
	if err != nil {
		return domain.Card{}, err
	}
	return s.manager.DrawCard(deck)
}

// PlayCard applies a drawn card to the game.
func (s *GameService) PlayCard(ctx context.Context, gameID string, card domain.Card) (*domain.Game, *domain.Curse, error) {
	var curse *domain.Curse
	g, err := s.applyCommand(ctx, gameID, func(g *domain.Game) (store.Patch, error) {
		res, err := s.manager.PlayCard(g, card)
		if err != nil {
			return store.Patch{}, err
		}
		curse = res.Curse
		return res.Patch, nil
	})
	return g, curse, err
}

// RequestQuestion poses a random question from the category.
func (s *GameService) RequestQuestion(ctx context.Context, gameID, category string) (*domain.Game, session.QuestionResult, error) {
	bank, err := s.questions.List(ctx)
	if err != nil {
		return nil, session.QuestionResult{}, err
	}

	var res session.QuestionResult
	g, err := s.applyCommand(ctx, gameID, func(g *domain.Game) (store.Patch, error) {
		r, err := s.manager.RequestQuestion(g, category, bank)
		if err != nil {
			return store.Patch{}, err
		}
		res = r
		return r.Patch, nil
	})
	return g, res, err
}

// AnswerQuestion resolves the pending challenge. The whole read-modify-write
// is serialized per game so a doubly-fired submission cannot double-award.
func (s *GameService) AnswerQuestion(ctx context.Context, gameID string, correct bool, photoURL string) (*domain.Game, session.AnswerResult, error) {
	unlock := s.locker.Lock(gameID)
	defer unlock()

	var res session.AnswerResult
	g, err := s.applyCommand(ctx, gameID, func(g *domain.Game) (store.Patch, error) {
		r, err := s.manager.AnswerQuestion(g, correct, photoURL)
		if err != nil {
			return store.Patch{}, err
		}
		res = r
		return r.Patch, nil
	})
	return g, res, err
}

// ExpireQuestion cancels a timed-out challenge, same critical section as an
// answer.
func (s *GameService) ExpireQuestion(ctx context.Context, gameID string) (*domain.Game, session.AnswerResult, error) {
	unlock := s.locker.Lock(gameID)
	defer unlock()

	var res session.AnswerResult
	g, err := s.applyCommand(ctx, gameID, func(g *domain.Game) (store.Patch, error) {
		r, err := s.manager.ExpireQuestion(g)
		if err != nil {
			return store.Patch{}, err
		}
		res = r
		return r.Patch, nil
	})
	return g, res, err
}

// EndGame marks the session terminal and archives it.
func (s *GameService) EndGame(ctx context.Context, gameID string) (*domain.Game, error) {
	var ended bool
	g, err := s.applyCommand(ctx, gameID, func(g *domain.Game) (store.Patch, error) {
		p, err := s.manager.EndGame(g)
		ended = !p.Empty()
		return p, err
	})
	if err != nil {
		return nil, err
	}

	if s.archive != nil && ended {
		endedAt := time.Now()
		snapshot := *g
		go func() {
			actx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.archive.Create(actx, &snapshot, endedAt); err != nil {
				logger.Error("game archive failed", "game_id", snapshot.ID, "error", err)
			}
		}()
	}
	return g, nil
}

// Deck returns the full deck (for the hand UI).
func (s *GameService) Deck(ctx context.Context) ([]domain.Card, error) {
	return s.deck.List(ctx)
}

// Questions returns the whole bank (categories are derived client-side).
func (s *GameService) Questions(ctx context.Context) ([]domain.Question, error) {
	return s.questions.List(ctx)
}
