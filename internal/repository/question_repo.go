package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"hideseek_webapp/internal/domain"
)

// QuestionRepository stores the static question bank.
type QuestionRepository struct {
	db *pgxpool.Pool
}

func NewQuestionRepository(db *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) Create(ctx context.Context, q *domain.Question) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO questions (id, category, question, answer, type, draw_cards, keep_cards, time_limit)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		q.ID, q.Category, q.Question, q.Answer, q.Type, q.DrawCards, q.KeepCards, q.TimeLimit,
	)
	return err
}

func (r *QuestionRepository) List(ctx context.Context) ([]domain.Question, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, category, question, answer, type, draw_cards, keep_cards, time_limit
         FROM questions
         ORDER BY category, created_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.Category, &q.Question, &q.Answer, &q.Type,
			&q.DrawCards, &q.KeepCards, &q.TimeLimit); err != nil {
			return nil, err
		}
		res = append(res, q)
	}
	return res, rows.Err()
}

func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	return err
}
