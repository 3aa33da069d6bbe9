package habits

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dkhodakov/habitsync/internal/common"
	"github.com/dkhodakov/habitsync/internal/dbx"
	"github.com/dkhodakov/habitsync/internal/server/checkins"
	"github.com/dkhodakov/habitsync/internal/server/models"
	"github.com/google/uuid"
)

// Data is the bulk payload for the habit gateway's list call.
type Data struct {
	Habits   []models.Habit   `json:"habits"`
	CheckIns []models.CheckIn `json:"checkIns"`
}

// Toggle actions reported to the client.
const (
	ActionChecked   = "checked"
	ActionUnchecked = "unchecked"
)

// ToggleResult reports which way a toggle went. CheckIn is set only for the
// checked action.
type ToggleResult struct {
	Action  string          `json:"action"`
	CheckIn *models.CheckIn `json:"checkIn,omitempty"`
}

// Service implements the habit operations behind the HTTP API. Mutations
// that touch both tables run inside one transaction.
type Service struct {
	db       *sql.DB
	habits   Repository
	checkins checkins.Repository
}

func NewService(db *sql.DB) *Service {
	return &Service{
		db:       db,
		habits:   NewSQLRepository(db),
		checkins: checkins.NewSQLRepository(db),
	}
}

// List returns the caller's habits and the full check-in set backing streak
// calculation.
func (s *Service) List(ctx context.Context, userID string) (*Data, error) {
	habits, err := s.habits.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing habits: %w", err)
	}
	checkIns, err := s.checkins.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing checkins: %w", err)
	}
	return &Data{Habits: habits, CheckIns: checkIns}, nil
}

func (s *Service) Create(ctx context.Context, userID, name string) (*models.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrValidation)
	}

	habit := &models.Habit{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.habits.Insert(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

func (s *Service) Update(ctx context.Context, userID, id string, name, category *string) (*models.Habit, error) {
	if name != nil && strings.TrimSpace(*name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", common.ErrValidation)
	}

	if err := s.habits.Update(ctx, userID, id, name, category); err != nil {
		return nil, err
	}
	return s.habits.GetByID(ctx, userID, id)
}

// Delete removes the habit and cascades its check-ins atomically.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := NewSQLRepository(tx).GetByID(ctx, userID, id); err != nil {
			return err
		}
		if err := checkins.NewSQLRepository(tx).DeleteByHabit(ctx, id); err != nil {
			return err
		}
		return NewSQLRepository(tx).Delete(ctx, userID, id)
	})
}

// Toggle inserts the check-in for (habitID, date) if absent, removes it if
// present. Never a duplicate insert: the lookup and the write share one
// transaction, and the schema enforces uniqueness besides.
func (s *Service) Toggle(ctx context.Context, userID, habitID, date string) (*ToggleResult, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", common.ErrValidation, date)
	}

	var result *ToggleResult
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		habitRepo := NewSQLRepository(tx)
		checkinRepo := checkins.NewSQLRepository(tx)

		// ownership check; cross-owner habits look like missing ones
		if _, err := habitRepo.GetByID(ctx, userID, habitID); err != nil {
			return err
		}

		existing, err := checkinRepo.Find(ctx, habitID, userID, date)
		switch {
		case err == nil:
			if err := checkinRepo.Delete(ctx, existing.ID); err != nil {
				return err
			}
			result = &ToggleResult{Action: ActionUnchecked}
			return nil
		case errors.Is(err, common.ErrNotFound):
			checkIn := &models.CheckIn{
				ID:        uuid.NewString(),
				HabitID:   habitID,
				UserID:    userID,
				Date:      date,
				CreatedAt: time.Now().UTC(),
			}
			if err := checkinRepo.Insert(ctx, checkIn); err != nil {
				return err
			}
			result = &ToggleResult{Action: ActionChecked, CheckIn: checkIn}
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
