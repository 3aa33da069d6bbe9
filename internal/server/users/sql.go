package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkhodakov/habitsync/internal/common"
	"github.com/dkhodakov/habitsync/internal/dbx"
	"github.com/dkhodakov/habitsync/internal/server/models"
)

// SQLRepository implements Repository over a DBTX. The SQL sticks to the
// subset both sqlite and postgres accept ($N placeholders, ON CONFLICT).
type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Upsert(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (id, username) VALUES ($1, $2)
	          ON CONFLICT(id) DO UPDATE SET username = excluded.username`
	if _, err := r.db.ExecContext(ctx, query, user.ID, user.Username); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, username FROM users WHERE id = $1`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

var _ Repository = (*SQLRepository)(nil)
