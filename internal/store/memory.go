package store

import (
	"context"
	"sync"

	"hideseek_webapp/internal/domain"
)

// MemoryStore is a single-process store used in dev mode (no redis configured)
// and in tests. Same contract: versioned CAS patches, full-snapshot fanout.
type MemoryStore struct {
	mu       sync.RWMutex
	games    map[string]*domain.Game
	byCode   map[string]string
	watchers map[string][]chan *domain.Game
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games:    make(map[string]*domain.Game),
		byCode:   make(map[string]string),
		watchers: make(map[string][]chan *domain.Game),
	}
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Create(ctx context.Context, g *domain.Game) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *g
	s.games[g.ID] = &cp
	s.byCode[g.Code] = g.ID
	return g.ID, nil
}

func (s *MemoryStore) Get(ctx context.Context, gameID string) (*domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (s *MemoryStore) QueryByCode(ctx context.Context, code string) (*domain.Game, error) {
	s.mu.RLock()
	id, ok := s.byCode[code]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *MemoryStore) ApplyPatch(ctx context.Context, gameID string, version int64, p Patch) error {
	s.mu.Lock()

	g, ok := s.games[gameID]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if g.Version != version {
		s.mu.Unlock()
		return ErrConflict
	}

	next, err := applyPatch(g, p)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.games[gameID] = next

	watchers := append([]chan *domain.Game(nil), s.watchers[gameID]...)
	s.mu.Unlock()

	for _, ch := range watchers {
		cp := *next
		select {
		case ch <- &cp:
		default: // slow watcher, drop; the next commit delivers a full snapshot anyway
		}
	}
	return nil
}

func (s *MemoryStore) Watch(ctx context.Context, gameID string) (<-chan *domain.Game, error) {
	ch := make(chan *domain.Game, 8)

	s.mu.Lock()
	s.watchers[gameID] = append(s.watchers[gameID], ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		ws := s.watchers[gameID]
		for i, w := range ws {
			if w == ch {
				s.watchers[gameID] = append(ws[:i], ws[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}
