package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dachrisch/leaguesphere/models"
)

var (
	ErrResultNotFound    = errors.New("game result not found")
	ErrResultGameInvalid = errors.New("result game conflict or invalid")
)

type ResultRepository interface {
	// Upsert creates or updates the result row identified by (game, is_home).
	// The per-row read-then-write happens in a single statement so two
	// overlapping rule applications cannot lose updates.
	Upsert(ctx context.Context, exec SQLExecutor, result *models.Result) error
	GetByGameAndSide(ctx context.Context, exec SQLExecutor, gameID int, isHome bool) (*models.Result, error)
	ListByGame(ctx context.Context, exec SQLExecutor, gameID int) ([]*models.Result, error)
	ListByGameday(ctx context.Context, exec SQLExecutor, gamedayID int) ([]*models.Result, error)
}

type postgresResultRepository struct {
	db *sql.DB
}

func NewPostgresResultRepository(db *sql.DB) ResultRepository {
	return &postgresResultRepository{db: db}
}

func (r *postgresResultRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func scanResult(rowScanner interface{ Scan(...interface{}) error }) (*models.Result, error) {
	var res models.Result
	err := rowScanner.Scan(
		&res.ID, &res.GameID, &res.TeamID, &res.IsHome, &res.FirstHalf, &res.SecondHalf, &res.PA,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	return &res, nil
}

func (r *postgresResultRepository) Upsert(ctx context.Context, exec SQLExecutor, result *models.Result) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO results (game_id, team_id, is_home, fh, sh, pa)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (game_id, is_home) DO UPDATE SET
			team_id = EXCLUDED.team_id,
			fh = EXCLUDED.fh,
			sh = EXCLUDED.sh,
			pa = EXCLUDED.pa
		RETURNING id`
	return executor.QueryRowContext(ctx, query,
		result.GameID, result.TeamID, result.IsHome, result.FirstHalf, result.SecondHalf, result.PA,
	).Scan(&result.ID)
}

func (r *postgresResultRepository) GetByGameAndSide(ctx context.Context, exec SQLExecutor, gameID int, isHome bool) (*models.Result, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, game_id, team_id, is_home, fh, sh, pa FROM results WHERE game_id = $1 AND is_home = $2`
	return scanResult(executor.QueryRowContext(ctx, query, gameID, isHome))
}

func (r *postgresResultRepository) ListByGame(ctx context.Context, exec SQLExecutor, gameID int) ([]*models.Result, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, game_id, team_id, is_home, fh, sh, pa FROM results WHERE game_id = $1 ORDER BY is_home DESC`
	return r.list(ctx, executor, query, gameID)
}

func (r *postgresResultRepository) ListByGameday(ctx context.Context, exec SQLExecutor, gamedayID int) ([]*models.Result, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT r.id, r.game_id, r.team_id, r.is_home, r.fh, r.sh, r.pa
		FROM results r
		JOIN games g ON g.id = r.game_id
		WHERE g.gameday_id = $1
		ORDER BY r.game_id, r.is_home DESC`
	return r.list(ctx, executor, query, gamedayID)
}

func (r *postgresResultRepository) list(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) ([]*models.Result, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]*models.Result, 0)
	for rows.Next() {
		res, errScan := scanResult(rows)
		if errScan != nil {
			return nil, errScan
		}
		results = append(results, res)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
