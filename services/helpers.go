package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dachrisch/leaguesphere/models"
	"github.com/dachrisch/leaguesphere/repositories"
	"golang.org/x/sync/errgroup"
)

// Snapshot is one gameday fully loaded for in-memory computation: every game
// with both result rows attached, team and officials pointers populated.
type Snapshot struct {
	Gameday *models.Gameday
	Games   []*models.Game

	teamsByID map[int]*models.Team
}

// SnapshotLoader assembles Snapshots from the result store. All engine reads
// go through here so the load pattern stays in one place.
type SnapshotLoader struct {
	gamedayRepo repositories.GamedayRepository
	gameRepo    repositories.GameRepository
	resultRepo  repositories.ResultRepository
	teamRepo    repositories.TeamRepository
}

func NewSnapshotLoader(
	gamedayRepo repositories.GamedayRepository,
	gameRepo repositories.GameRepository,
	resultRepo repositories.ResultRepository,
	teamRepo repositories.TeamRepository,
) *SnapshotLoader {
	return &SnapshotLoader{
		gamedayRepo: gamedayRepo,
		gameRepo:    gameRepo,
		resultRepo:  resultRepo,
		teamRepo:    teamRepo,
	}
}

func (l *SnapshotLoader) Load(ctx context.Context, gamedayID int) (*Snapshot, error) {
	var (
		gameday *models.Gameday
		games   []*models.Game
		results []*models.Result
		teams   []*models.Team
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		gameday, err = l.gamedayRepo.GetByID(gCtx, nil, gamedayID)
		if errors.Is(err, repositories.ErrGamedayNotFound) {
			return fmt.Errorf("%w: gameday %d", ErrGamedayNotFound, gamedayID)
		}
		return err
	})
	g.Go(func() error {
		var err error
		games, err = l.gameRepo.ListByGameday(gCtx, nil, gamedayID, repositories.GameFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		results, err = l.resultRepo.ListByGameday(gCtx, nil, gamedayID)
		return err
	})
	g.Go(func() error {
		var err error
		// Placeholders are needed here to resolve officials pointers; the
		// standings builder filters them out again.
		teams, err = l.teamRepo.List(gCtx, nil, true)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	teamsByID := make(map[int]*models.Team, len(teams))
	for _, t := range teams {
		teamsByID[t.ID] = t
	}

	resultsByGame := make(map[int][]models.Result, len(games))
	for _, res := range results {
		if res.TeamID != nil {
			res.Team = teamsByID[*res.TeamID]
		}
		resultsByGame[res.GameID] = append(resultsByGame[res.GameID], *res)
	}

	for _, game := range games {
		game.Results = resultsByGame[game.ID]
		game.Officials = teamsByID[game.OfficialsID]
	}

	return &Snapshot{Gameday: gameday, Games: games, teamsByID: teamsByID}, nil
}

func (s *Snapshot) GameByID(id int) *models.Game {
	for _, g := range s.Games {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// GameByStanding returns the first game carrying the standing label. Designer
// graphs use the standing as the match name, so it is unique per gameday.
func (s *Snapshot) GameByStanding(standing string) *models.Game {
	for _, g := range s.Games {
		if g.Standing == standing {
			return g
		}
	}
	return nil
}

func (s *Snapshot) Team(id int) *models.Team {
	return s.teamsByID[id]
}
