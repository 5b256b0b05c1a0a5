package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"hideseek_webapp/internal/domain"
)

// DeckRepository stores the shared card deck. Концептуально одна колода на
// всех хайдеров, карты не тратятся при вытягивании.
type DeckRepository struct {
	db *pgxpool.Pool
}

func NewDeckRepository(db *pgxpool.Pool) *DeckRepository {
	return &DeckRepository{db: db}
}

func (r *DeckRepository) Create(ctx context.Context, c *domain.Card) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO deck (id, type, name, description, value, effect)
         VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Type, c.Name, c.Description, c.Value, c.Effect,
	)
	return err
}

func (r *DeckRepository) List(ctx context.Context) ([]domain.Card, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, type, name, description, value, effect FROM deck ORDER BY created_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Card
	for rows.Next() {
		var c domain.Card
		if err := rows.Scan(&c.ID, &c.Type, &c.Name, &c.Description, &c.Value, &c.Effect); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}
