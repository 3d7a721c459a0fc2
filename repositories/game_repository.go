package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/dachrisch/leaguesphere/models"
)

var (
	ErrGameNotFound        = errors.New("game not found")
	ErrGameGamedayInvalid  = errors.New("game gameday conflict or invalid")
	ErrGameOfficialInvalid = errors.New("game officials team conflict or invalid")
)

// GameFilter narrows ListByGameday. Zero values mean "no filter".
type GameFilter struct {
	Field    *int
	Stage    string
	Standing string
}

type GameRepository interface {
	Create(ctx context.Context, exec SQLExecutor, game *models.Game) error
	Update(ctx context.Context, exec SQLExecutor, game *models.Game) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.GameStatus) error
	UpdateOfficials(ctx context.Context, exec SQLExecutor, id int, officialsID int) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error)
	ListByGameday(ctx context.Context, exec SQLExecutor, gamedayID int, filter GameFilter) ([]*models.Game, error)
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

func (r *postgresGameRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func scanGame(rowScanner interface{ Scan(...interface{}) error }) (*models.Game, error) {
	var g models.Game
	err := rowScanner.Scan(
		&g.ID, &g.GamedayID, &g.Field, &g.Scheduled, &g.Stage, &g.Standing, &g.Status, &g.OfficialsID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *postgresGameRepository) Create(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO games (gameday_id, field, scheduled, stage, standing, status, officials_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	return executor.QueryRowContext(ctx, query,
		game.GamedayID, game.Field, game.Scheduled, game.Stage, game.Standing, game.Status, game.OfficialsID,
	).Scan(&game.ID)
}

func (r *postgresGameRepository) Update(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE games SET
			field = $1, scheduled = $2, stage = $3, standing = $4, status = $5, officials_id = $6
		WHERE id = $7`
	result, err := executor.ExecContext(ctx, query,
		game.Field, game.Scheduled, game.Stage, game.Standing, game.Status, game.OfficialsID, game.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.GameStatus) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE games SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) UpdateOfficials(ctx context.Context, exec SQLExecutor, id int, officialsID int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE games SET officials_id = $1 WHERE id = $2`, officialsID, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, gameday_id, field, scheduled, stage, standing, status, officials_id FROM games WHERE id = $1`
	return scanGame(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresGameRepository) ListByGameday(ctx context.Context, exec SQLExecutor, gamedayID int, filter GameFilter) ([]*models.Game, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, gameday_id, field, scheduled, stage, standing, status, officials_id FROM games WHERE gameday_id = $1`
	args := []interface{}{gamedayID}

	if filter.Field != nil {
		args = append(args, *filter.Field)
		query += ` AND field = $2`
	}
	if filter.Stage != "" {
		args = append(args, filter.Stage)
		query += ` AND stage = $` + strconv.Itoa(len(args))
	}
	if filter.Standing != "" {
		args = append(args, filter.Standing)
		query += ` AND standing = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY scheduled, field, id`

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]*models.Game, 0)
	for rows.Next() {
		g, errScan := scanGame(rows)
		if errScan != nil {
			return nil, errScan
		}
		games = append(games, g)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}
