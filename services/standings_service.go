package services

import (
	"context"
	"fmt"

	"github.com/dachrisch/leaguesphere/brackets"
	"github.com/dachrisch/leaguesphere/models"
)

// GroupingKey selects the games feeding a standings table: one stage, one
// standing, or an explicit aggregate of standing labels. Zero value means
// the whole gameday.
type GroupingKey struct {
	Stage     string
	Standing  string
	Standings []string
}

type StandingsService interface {
	// BuildStandings returns the ranked table for the grouping key, or
	// ErrNotReady while any game in scope is unfinished.
	BuildStandings(ctx context.Context, gamedayID int, key GroupingKey) ([]models.StandingsRow, error)
	// BuildFinalTable returns the end-of-day table with DFFL points, or
	// ErrNotReady until the whole gameday is played out.
	BuildFinalTable(ctx context.Context, gamedayID int) ([]models.StandingsRow, error)
	// QualifyTable is the live per-group table of the qualifying round.
	// Unfinished games contribute zero points, so it never blocks.
	QualifyTable(ctx context.Context, gamedayID int) ([]models.StandingsRow, error)
	TeamByPlace(ctx context.Context, gamedayID int, standing string, place int, points *int) (*models.Team, error)
}

type standingsService struct {
	loader *SnapshotLoader
}

func NewStandingsService(loader *SnapshotLoader) StandingsService {
	return &standingsService{loader: loader}
}

func (s *standingsService) BuildStandings(ctx context.Context, gamedayID int, key GroupingKey) ([]models.StandingsRow, error) {
	snapshot, err := s.loader.Load(ctx, gamedayID)
	if err != nil {
		return nil, err
	}

	scoped := scopeGames(snapshot.Games, key)
	if len(scoped) == 0 {
		return nil, fmt.Errorf("%w: grouping %+v", ErrStandingNotFound, key)
	}
	if !brackets.AllFinished(scoped) {
		return nil, fmt.Errorf("%w: grouping %+v", ErrNotReady, key)
	}

	return brackets.BuildTable(snapshot.Games, brackets.TableFilter{
		Stage:     key.Stage,
		Standings: standingsOf(key),
	}), nil
}

func (s *standingsService) BuildFinalTable(ctx context.Context, gamedayID int) ([]models.StandingsRow, error) {
	snapshot, err := s.loader.Load(ctx, gamedayID)
	if err != nil {
		return nil, err
	}

	table, ready := brackets.FinalTable(snapshot.Games)
	if !ready {
		return nil, fmt.Errorf("%w: gameday %d", ErrNotReady, gamedayID)
	}
	return table, nil
}

func (s *standingsService) QualifyTable(ctx context.Context, gamedayID int) ([]models.StandingsRow, error) {
	snapshot, err := s.loader.Load(ctx, gamedayID)
	if err != nil {
		return nil, err
	}
	if !brackets.HasFinalRound(snapshot.Games) {
		return []models.StandingsRow{}, nil
	}
	return brackets.GroupedTable(snapshot.Games, brackets.QualifyRound), nil
}

func (s *standingsService) TeamByPlace(ctx context.Context, gamedayID int, standing string, place int, points *int) (*models.Team, error) {
	snapshot, err := s.loader.Load(ctx, gamedayID)
	if err != nil {
		return nil, err
	}
	return resolveByPlace(snapshot, standing, place, points)
}

func scopeGames(games []*models.Game, key GroupingKey) []*models.Game {
	standings := standingsOf(key)
	scoped := make([]*models.Game, 0, len(games))
	for _, g := range games {
		if key.Stage != "" && g.Stage != key.Stage {
			continue
		}
		if len(standings) > 0 && !containsStanding(standings, g.Standing) {
			continue
		}
		scoped = append(scoped, g)
	}
	return scoped
}

func standingsOf(key GroupingKey) []string {
	if key.Standing != "" {
		return []string{key.Standing}
	}
	return key.Standings
}

func containsStanding(standings []string, standing string) bool {
	for _, s := range standings {
		if s == standing {
			return true
		}
	}
	return false
}
