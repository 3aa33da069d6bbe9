package habits

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkhodakov/habitsync/internal/common"
	"github.com/dkhodakov/habitsync/internal/dbx"
	"github.com/dkhodakov/habitsync/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) ListByUser(ctx context.Context, userID string) ([]models.Habit, error) {
	query := `SELECT id, user_id, name, category, created_at FROM habits
	          WHERE user_id = $1 ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select habits: %w", err)
	}
	defer rows.Close()

	result := make([]models.Habit, 0)
	for rows.Next() {
		var h models.Habit
		if err := rows.Scan(&h.ID, &h.UserID, &h.Name, &h.Category, &h.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, userID, id string) (*models.Habit, error) {
	query := `SELECT id, user_id, name, category, created_at FROM habits
	          WHERE id = $1 AND user_id = $2`

	h := &models.Habit{}
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&h.ID, &h.UserID, &h.Name, &h.Category, &h.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return h, nil
}

func (r *SQLRepository) Insert(ctx context.Context, habit *models.Habit) error {
	query := `INSERT INTO habits (id, user_id, name, category, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		habit.ID, habit.UserID, habit.Name, habit.Category, habit.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}
	return nil
}

func (r *SQLRepository) Update(ctx context.Context, userID, id string, name, category *string) error {
	query := `UPDATE habits SET
	            name = COALESCE($1, name),
	            category = COALESCE($2, category)
	          WHERE id = $3 AND user_id = $4`

	res, err := r.db.ExecContext(ctx, query, name, category, id, userID)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM habits WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

var _ Repository = (*SQLRepository)(nil)
