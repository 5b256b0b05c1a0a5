package store

import (
	"context"
	"errors"

	"hideseek_webapp/internal/domain"
)

var (
	// ErrNotFound - игра не найдена по id или коду
	ErrNotFound = errors.New("game not found")
	// ErrConflict is returned when a patch was computed from a stale snapshot.
	ErrConflict = errors.New("game modified concurrently")
	// ErrUnavailable wraps collaborator failures (network, redis down).
	ErrUnavailable = errors.New("session store unavailable")
)

// Patch describes a partial update of the game document. Set keys are dotted
// JSON paths (e.g. "seekerLocations.<userId>"), Delete removes fields
// (e.g. clearing "pendingQuestion").
type Patch struct {
	Set    map[string]any
	Delete []string
}

// NewPatch returns an empty patch ready for building.
func NewPatch() Patch {
	return Patch{Set: make(map[string]any)}
}

// Empty reports whether the patch carries no mutation.
func (p Patch) Empty() bool {
	return len(p.Set) == 0 && len(p.Delete) == 0
}

// Store - контракт session store поверх конкретной базы. Каждая принятая
// мутация рассылается всем watcher-ам полным снапшотом игры.
type Store interface {
	// Create persists the initial game and returns its id.
	Create(ctx context.Context, g *domain.Game) (string, error)

	// Get returns the latest committed snapshot.
	Get(ctx context.Context, gameID string) (*domain.Game, error)

	// QueryByCode resolves a joinable game by its 4-digit code.
	QueryByCode(ctx context.Context, code string) (*domain.Game, error)

	// ApplyPatch applies a partial update computed from the snapshot with the
	// given version. Returns ErrConflict when the stored version moved on.
	ApplyPatch(ctx context.Context, gameID string, version int64, p Patch) error

	// Watch subscribes to committed snapshots of one game. The channel is
	// closed when ctx is done.
	Watch(ctx context.Context, gameID string) (<-chan *domain.Game, error)

	// Ping reports whether the backing store is reachable (readiness checks).
	Ping(ctx context.Context) error
}
