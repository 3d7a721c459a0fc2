package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dachrisch/leaguesphere/models"
)

var (
	ErrGamedayNotFound = errors.New("gameday not found")
)

type GamedayRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Gameday, error)
	List(ctx context.Context, exec SQLExecutor) ([]*models.Gameday, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.GamedayStatus, publishedAt *time.Time) error
	UpdateDesignerData(ctx context.Context, exec SQLExecutor, id int, designerJSON string) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresGamedayRepository struct {
	db *sql.DB
}

func NewPostgresGamedayRepository(db *sql.DB) GamedayRepository {
	return &postgresGamedayRepository{db: db}
}

func (r *postgresGamedayRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const gamedayColumns = `id, name, date, format, status, published_at, designer_data`

func scanGameday(rowScanner interface{ Scan(...interface{}) error }) (*models.Gameday, error) {
	var g models.Gameday
	err := rowScanner.Scan(
		&g.ID, &g.Name, &g.Date, &g.Format, &g.Status, &g.PublishedAt, &g.DesignerJSON,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGamedayNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *postgresGamedayRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Gameday, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + gamedayColumns + ` FROM gamedays WHERE id = $1`
	return scanGameday(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresGamedayRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.Gameday, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + gamedayColumns + ` FROM gamedays ORDER BY date DESC, id DESC`
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	gamedays := make([]*models.Gameday, 0)
	for rows.Next() {
		g, errScan := scanGameday(rows)
		if errScan != nil {
			return nil, errScan
		}
		gamedays = append(gamedays, g)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return gamedays, nil
}

func (r *postgresGamedayRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.GamedayStatus, publishedAt *time.Time) error {
	executor := r.getExecutor(exec)
	query := `UPDATE gamedays SET status = $1, published_at = COALESCE($2, published_at) WHERE id = $3`
	result, err := executor.ExecContext(ctx, query, status, publishedAt, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGamedayNotFound)
}

func (r *postgresGamedayRepository) UpdateDesignerData(ctx context.Context, exec SQLExecutor, id int, designerJSON string) error {
	executor := r.getExecutor(exec)
	query := `UPDATE gamedays SET designer_data = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, designerJSON, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGamedayNotFound)
}

func (r *postgresGamedayRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM gamedays WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGamedayNotFound)
}
