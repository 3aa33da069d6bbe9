package checkins

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

func (r *SQLRepository) ListByUser(ctx context.Context, userID string) ([]models.CheckIn, error) {
	query := `SELECT id, habit_id, user_id, date, created_at FROM checkins
	          WHERE user_id = $1`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select checkins: %w", err)
	}
	defer rows.Close()

	result := make([]models.CheckIn, 0)
	for rows.Next() {
		var c models.CheckIn
		if err := rows.Scan(&c.ID, &c.HabitID, &c.UserID, &c.Date, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLRepository) Find(ctx context.Context, habitID, userID, date string) (*models.CheckIn, error) {
	query := `SELECT id, habit_id, user_id, date, created_at FROM checkins
	          WHERE habit_id = $1 AND user_id = $2 AND date = $3`

	c := &models.CheckIn{}
	err := r.db.QueryRowContext(ctx, query, habitID, userID, date).
		Scan(&c.ID, &c.HabitID, &c.UserID, &c.Date, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *SQLRepository) Insert(ctx context.Context, checkIn *models.CheckIn) error {
	query := `INSERT INTO checkins (id, habit_id, user_id, date, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		checkIn.ID, checkIn.HabitID, checkIn.UserID, checkIn.Date, checkIn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert checkin: %w", err)
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM checkins WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete checkin: %w", err)
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

func (r *SQLRepository) DeleteByHabit(ctx context.Context, habitID string) error {
	query := `DELETE FROM checkins WHERE habit_id = $1`
	if _, err := r.db.ExecContext(ctx, query, habitID); err != nil {
		return fmt.Errorf("failed to delete habit checkins: %w", err)
	}
	return nil
}

func (r *SQLRepository) ListRecentEvents(ctx context.Context, limit int) ([]models.FeedEvent, error) {
	query := `SELECT c.id, c.user_id, u.username, h.name, c.created_at
	          FROM checkins c
	          JOIN users u ON u.id = c.user_id
	          JOIN habits h ON h.id = c.habit_id
	          ORDER BY c.created_at DESC, c.id DESC
	          LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select feed events: %w", err)
	}
	defer rows.Close()

	result := make([]models.FeedEvent, 0)
	for rows.Next() {
		var e models.FeedEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.UserName, &e.HabitName, &e.Timestamp); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLRepository) GetEventDetail(ctx context.Context, id string) (*models.FeedEvent, error) {
	query := `SELECT c.id, c.user_id, u.username, h.name, c.created_at
	          FROM checkins c
	          JOIN users u ON u.id = c.user_id
	          JOIN habits h ON h.id = c.habit_id
	          WHERE c.id = $1`

	e := &models.FeedEvent{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&e.ID, &e.UserID, &e.UserName, &e.HabitName, &e.Timestamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

var _ Repository = (*SQLRepository)(nil)
