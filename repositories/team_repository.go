package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dachrisch/leaguesphere/models"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameConflict = errors.New("team name is already in use")
)

type TeamRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error)
	GetByName(ctx context.Context, exec SQLExecutor, name string) (*models.Team, error)
	// GetOrCreateByName backs the designer publish flow, where client-authored
	// graphs may carry team names the store has never seen.
	GetOrCreateByName(ctx context.Context, exec SQLExecutor, name string, isPlaceholder bool) (*models.Team, error)
	List(ctx context.Context, exec SQLExecutor, includePlaceholders bool) ([]*models.Team, error)
	Count(ctx context.Context, exec SQLExecutor) (int, error)
	UpdateLogoKey(ctx context.Context, exec SQLExecutor, id int, logoKey *string) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func scanTeam(rowScanner interface{ Scan(...interface{}) error }) (*models.Team, error) {
	var t models.Team
	err := rowScanner.Scan(&t.ID, &t.Name, &t.Description, &t.IsPlaceholder, &t.CreatedAt, &t.LogoKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &t, nil
}

const teamColumns = `id, name, description, is_placeholder, created_at, logo_key`

func (r *postgresTeamRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Team, error) {
	executor := r.getExecutor(exec)
	return scanTeam(executor.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id))
}

func (r *postgresTeamRepository) GetByName(ctx context.Context, exec SQLExecutor, name string) (*models.Team, error) {
	executor := r.getExecutor(exec)
	return scanTeam(executor.QueryRowContext(ctx, `SELECT `+teamColumns+` FROM teams WHERE name = $1`, name))
}

func (r *postgresTeamRepository) GetOrCreateByName(ctx context.Context, exec SQLExecutor, name string, isPlaceholder bool) (*models.Team, error) {
	executor := r.getExecutor(exec)
	// ON CONFLICT DO UPDATE so the row always comes back, created or not.
	query := `
		INSERT INTO teams (name, description, is_placeholder)
		VALUES ($1, $1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING ` + teamColumns
	return scanTeam(executor.QueryRowContext(ctx, query, name, isPlaceholder))
}

func (r *postgresTeamRepository) List(ctx context.Context, exec SQLExecutor, includePlaceholders bool) ([]*models.Team, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + teamColumns + ` FROM teams`
	if !includePlaceholders {
		query += ` WHERE is_placeholder = FALSE`
	}
	query += ` ORDER BY name`

	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		t, errScan := scanTeam(rows)
		if errScan != nil {
			return nil, errScan
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

// Count never includes placeholder teams.
func (r *postgresTeamRepository) Count(ctx context.Context, exec SQLExecutor) (int, error) {
	executor := r.getExecutor(exec)
	var count int
	err := executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM teams WHERE is_placeholder = FALSE`).Scan(&count)
	return count, err
}

func (r *postgresTeamRepository) UpdateLogoKey(ctx context.Context, exec SQLExecutor, id int, logoKey *string) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE teams SET logo_key = $1 WHERE id = $2`, logoKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
