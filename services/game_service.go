package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dachrisch/leaguesphere/models"
	"github.com/dachrisch/leaguesphere/repositories"
)

// SideScore is the score input for one side of a game. Nil fields leave the
// stored value untouched.
type SideScore struct {
	FirstHalf  *int `json:"fh"`
	SecondHalf *int `json:"sh"`
	PA         *int `json:"pa"`
}

// ScoreEntry is one scoreboard update from the field: the new game status
// plus the current scores of both sides.
type ScoreEntry struct {
	Status models.GameStatus `json:"status"`
	Home   SideScore         `json:"home"`
	Away   SideScore         `json:"away"`
}

type GameService interface {
	GetGame(ctx context.Context, id int) (*models.Game, error)
	// UpdateResults writes the scores and status of a game. When the update
	// moves the game into its finished state, the template cascade runs in
	// the same call so dependent games are filled before the response.
	UpdateResults(ctx context.Context, gameID int, entry ScoreEntry) (*models.Game, error)
}

type gameService struct {
	gameRepo   repositories.GameRepository
	resultRepo repositories.ResultRepository
	cascade    CascadeService
	logger     *slog.Logger
}

func NewGameService(
	gameRepo repositories.GameRepository,
	resultRepo repositories.ResultRepository,
	cascade CascadeService,
	logger *slog.Logger,
) GameService {
	return &gameService{
		gameRepo:   gameRepo,
		resultRepo: resultRepo,
		cascade:    cascade,
		logger:     logger,
	}
}

func (s *gameService) GetGame(ctx context.Context, id int) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, fmt.Errorf("%w: game %d", ErrGameNotFound, id)
		}
		return nil, err
	}
	results, err := s.resultRepo.ListByGame(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	game.Results = make([]models.Result, 0, len(results))
	for _, r := range results {
		game.Results = append(game.Results, *r)
	}
	return game, nil
}

func (s *gameService) UpdateResults(ctx context.Context, gameID int, entry ScoreEntry) (*models.Game, error) {
	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !validStatus(entry.Status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatusTransition, entry.Status)
	}
	// Finished games stay finished, re-opening would retrigger the cascade
	// with stale dependents already written.
	if game.Status == models.GameStatusFinished && entry.Status != models.GameStatusFinished {
		return nil, fmt.Errorf("%w: game %d is finished", ErrInvalidStatusTransition, gameID)
	}

	if err := s.writeScore(ctx, game, true, entry.Home); err != nil {
		return nil, err
	}
	if err := s.writeScore(ctx, game, false, entry.Away); err != nil {
		return nil, err
	}

	finishing := game.Status != models.GameStatusFinished && entry.Status == models.GameStatusFinished
	if game.Status != entry.Status {
		if err := s.gameRepo.UpdateStatus(ctx, nil, gameID, entry.Status); err != nil {
			return nil, err
		}
		game.Status = entry.Status
	}

	if finishing {
		s.logger.Info("game finished", slog.Int("game_id", gameID), slog.String("standing", game.Standing))
		if err := s.cascade.OnGameFinished(ctx, game); err != nil {
			return nil, err
		}
	}
	return game, nil
}

func (s *gameService) writeScore(ctx context.Context, game *models.Game, isHome bool, score SideScore) error {
	if score.FirstHalf == nil && score.SecondHalf == nil && score.PA == nil {
		return nil
	}
	result := game.HomeResult()
	if !isHome {
		result = game.AwayResult()
	}
	if result == nil {
		result = &models.Result{GameID: game.ID, IsHome: isHome}
		game.Results = append(game.Results, *result)
		result = &game.Results[len(game.Results)-1]
	}
	if score.FirstHalf != nil {
		result.FirstHalf = score.FirstHalf
	}
	if score.SecondHalf != nil {
		result.SecondHalf = score.SecondHalf
	}
	if score.PA != nil {
		result.PA = score.PA
	}
	return s.resultRepo.Upsert(ctx, nil, result)
}

func validStatus(status models.GameStatus) bool {
	switch status {
	case models.GameStatusPlanned, models.GameStatusStarted,
		models.GameStatusHalftime1, models.GameStatusHalftime2,
		models.GameStatusFinished:
		return true
	}
	return false
}
