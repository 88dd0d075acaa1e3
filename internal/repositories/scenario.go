// Package repositories persists generated scenarios.
package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/myrjola/whodunit/internal/errors"
	"github.com/myrjola/whodunit/internal/models"
	"github.com/myrjola/whodunit/internal/sqlite"
)

// ErrScenarioNotFound is returned by Get when the id is unknown.
var ErrScenarioNotFound = errors.NewSentinel("scenario not found")

// ScenarioSummary is a listing row without the full payload.
type ScenarioSummary struct {
	ID         string            `db:"id"`
	PlanID     string            `db:"plan_id"`
	Seed       int64             `db:"seed"`
	Difficulty models.Difficulty `db:"difficulty"`
	ThemeID    string            `db:"theme_id"`
	CreatedAt  time.Time         `db:"created_at"`
}

type ScenarioRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func NewScenarioRepository(db *sqlite.Database, logger *slog.Logger) *ScenarioRepository {
	return &ScenarioRepository{
		db:     db,
		logger: logger.With("source", "ScenarioRepository"),
	}
}

// Insert stores a scenario. The full scenario travels as a JSON payload so
// the schema stays stable while the scenario shape evolves; the indexed
// columns exist for listing and filtering only.
func (r *ScenarioRepository) Insert(ctx context.Context, scenario *models.GeneratedScenario) error {
	payload, err := json.Marshal(scenario)
	if err != nil {
		return errors.Wrap(err, "marshal scenario payload")
	}

	stmt := `INSERT INTO scenarios (id, plan_id, seed, difficulty, theme_id, payload)
VALUES (@id, @plan_id, @seed, @difficulty, @theme_id, @payload)`
	params := []any{
		sql.Named("id", scenario.ID),
		sql.Named("plan_id", scenario.PlanID),
		sql.Named("seed", scenario.Seed),
		sql.Named("difficulty", scenario.Difficulty),
		sql.Named("theme_id", scenario.ThemeID),
		sql.Named("payload", string(payload)),
	}
	if _, err = r.db.ReadWrite.ExecContext(ctx, stmt, params...); err != nil {
		return errors.Wrap(err, "insert scenario", slog.String("scenarioId", scenario.ID))
	}
	return nil
}

// Get loads one scenario by id.
func (r *ScenarioRepository) Get(ctx context.Context, id string) (*models.GeneratedScenario, error) {
	var payload string
	stmt := `SELECT payload FROM scenarios WHERE id = ?`
	if err := r.db.ReadOnly.QueryRowxContext(ctx, stmt, id).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrap(ErrScenarioNotFound, "get scenario", slog.String("scenarioId", id))
		}
		return nil, errors.Wrap(err, "read scenario", slog.String("scenarioId", id))
	}

	var scenario models.GeneratedScenario
	if err := json.Unmarshal([]byte(payload), &scenario); err != nil {
		return nil, errors.Wrap(err, "unmarshal scenario payload", slog.String("scenarioId", id))
	}
	return &scenario, nil
}

// List returns summaries of the stored scenarios, newest first.
func (r *ScenarioRepository) List(ctx context.Context) ([]ScenarioSummary, error) {
	var summaries []ScenarioSummary
	stmt := `SELECT id, plan_id, seed, difficulty, theme_id, created_at
FROM scenarios
ORDER BY created_at DESC, id`
	if err := r.db.ReadOnly.SelectContext(ctx, &summaries, stmt); err != nil {
		return nil, errors.Wrap(err, "list scenarios")
	}
	return summaries, nil
}
