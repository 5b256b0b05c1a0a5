package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"hideseek_webapp/internal/domain"
	"hideseek_webapp/internal/logger"
)

const (
	gameKeyPrefix  = "game:"
	codeKeyPrefix  = "gamecode:"
	watchKeyPrefix = "gamewatch:"
)

// RedisStore keeps each game document as a JSON value and fans committed
// snapshots out through pub/sub. Patches are applied under an optimistic
// WATCH transaction with an explicit version check.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore dials redis and returns the store. Каждый инстанс сервера
// видит одни и те же документы, watch идёт через pub/sub.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Create(ctx context.Context, g *domain.Game) (string, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return "", err
	}

	if err := s.rdb.Set(ctx, gameKeyPrefix+g.ID, data, 0).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	// code index is best-effort: uniqueness is query-before-insert
	if err := s.rdb.Set(ctx, codeKeyPrefix+g.Code, g.ID, 0).Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return g.ID, nil
}

func (s *RedisStore) Get(ctx context.Context, gameID string) (*domain.Game, error) {
	raw, err := s.rdb.Get(ctx, gameKeyPrefix+gameID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var g domain.Game
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *RedisStore) QueryByCode(ctx context.Context, code string) (*domain.Game, error) {
	id, err := s.rdb.Get(ctx, codeKeyPrefix+code).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return s.Get(ctx, id)
}

func (s *RedisStore) ApplyPatch(ctx context.Context, gameID string, version int64, p Patch) error {
	key := gameKeyPrefix + gameID

	var snapshot []byte
	txn := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}

		var g domain.Game
		if err := json.Unmarshal(raw, &g); err != nil {
			return err
		}
		if g.Version != version {
			return ErrConflict
		}

		next, err := applyPatch(&g, p)
		if err != nil {
			return err
		}
		snapshot, err = json.Marshal(next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, snapshot, 0)
			return nil
		})
		return err
	}

	err := s.rdb.Watch(ctx, txn, key)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrConflict
	}
	if err != nil {
		return err
	}

	// fan out the committed snapshot to every watcher
	if err := s.rdb.Publish(ctx, watchKeyPrefix+gameID, snapshot).Err(); err != nil {
		logger.Warn("watch publish failed", "game_id", gameID, "error", err)
	}
	return nil
}

func (s *RedisStore) Watch(ctx context.Context, gameID string) (<-chan *domain.Game, error) {
	sub := s.rdb.Subscribe(ctx, watchKeyPrefix+gameID)
	// force the subscription before returning so no commit is missed
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	out := make(chan *domain.Game, 8)
	go func() {
		defer close(out)
		defer sub.Close()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var g domain.Game
				if err := json.Unmarshal([]byte(msg.Payload), &g); err != nil {
					logger.Warn("watch decode failed", "game_id", gameID, "error", err)
					continue
				}
				select {
				case out <- &g:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
