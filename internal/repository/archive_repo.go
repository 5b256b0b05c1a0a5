package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"hideseek_webapp/internal/domain"
)

// ArchiveRepository persists ended games. The live document lives in the
// session store; once a game goes terminal it is written here for history.
type ArchiveRepository struct {
	db *pgxpool.Pool
}

func NewArchiveRepository(db *pgxpool.Pool) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

func (r *ArchiveRepository) Create(ctx context.Context, g *domain.Game, endedAt time.Time) error {
	chatJSON, err := json.Marshal(g.ChatMessages)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO game_archive
           (id, code, game_size, hider, seeker_count, coins, total_hiding_time, chat_messages, created_at, ended_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
         ON CONFLICT (id) DO NOTHING`,
		g.ID, g.Code, g.GameSize, g.Hider, len(g.Seekers),
		g.Coins, g.TotalHidingTime, chatJSON, g.CreatedAt, endedAt,
	)
	return err
}

// GetByID returns one archived game.
func (r *ArchiveRepository) GetByID(ctx context.Context, id string) (*ArchivedGame, error) {
	var a ArchivedGame
	var chatBytes []byte
	err := r.db.QueryRow(ctx,
		`SELECT id, code, game_size, hider, seeker_count, coins, total_hiding_time, chat_messages, created_at, ended_at
         FROM game_archive WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Code, &a.GameSize, &a.Hider, &a.SeekerCount,
		&a.Coins, &a.TotalHidingTime, &chatBytes, &a.CreatedAt, &a.EndedAt)
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal(chatBytes, &a.ChatMessages)
	return &a, nil
}

// ArchivedGame - строка архива
type ArchivedGame struct {
	ID              string               `json:"id"`
	Code            string               `json:"code"`
	GameSize        domain.GameSize      `json:"game_size"`
	Hider           string               `json:"hider"`
	SeekerCount     int                  `json:"seeker_count"`
	Coins           int                  `json:"coins"`
	TotalHidingTime int                  `json:"total_hiding_time"`
	ChatMessages    []domain.ChatMessage `json:"chat_messages"`
	CreatedAt       time.Time            `json:"created_at"`
	EndedAt         time.Time            `json:"ended_at"`
}
