package services

import (
	"context"
	"fmt"

	"github.com/dachrisch/leaguesphere/brackets"
	"github.com/dachrisch/leaguesphere/models"
)

// ResolutionService resolves dynamic participant references against the
// currently stored results. Resolution is a pure read: callers persist the
// outcome themselves.
type ResolutionService interface {
	ResolveWinner(ctx context.Context, gamedayID, gameID int) (*models.Team, error)
	ResolveLoser(ctx context.Context, gamedayID, gameID int) (*models.Team, error)
	// ResolveByPlace resolves "place N of standing S", optionally restricted
	// to the sub-group of teams holding exactly the given points there.
	ResolveByPlace(ctx context.Context, gamedayID int, standing string, place int, points *int) (*models.Team, error)
	// GetUnresolvedReferences lists the games that still wait for at least
	// one participant.
	GetUnresolvedReferences(ctx context.Context, gamedayID int) ([]*models.Game, error)
}

type resolutionService struct {
	loader *SnapshotLoader
}

func NewResolutionService(loader *SnapshotLoader) ResolutionService {
	return &resolutionService{loader: loader}
}

func (s *resolutionService) ResolveWinner(ctx context.Context, gamedayID, gameID int) (*models.Team, error) {
	return s.resolveOutcome(ctx, gamedayID, gameID, true)
}

func (s *resolutionService) ResolveLoser(ctx context.Context, gamedayID, gameID int) (*models.Team, error) {
	return s.resolveOutcome(ctx, gamedayID, gameID, false)
}

func (s *resolutionService) resolveOutcome(ctx context.Context, gamedayID, gameID int, wantWinner bool) (*models.Team, error) {
	snapshot, err := s.loader.Load(ctx, gamedayID)
	if err != nil {
		return nil, err
	}

	game := snapshot.GameByID(gameID)
	if game == nil {
		return nil, fmt.Errorf("%w: game %d in gameday %d", ErrGameNotFound, gameID, gamedayID)
	}
	return winnerOrLoser(game, wantWinner)
}

// winnerOrLoser applies the winner/loser contract to one loaded game.
func winnerOrLoser(game *models.Game, wantWinner bool) (*models.Team, error) {
	if !game.IsFinished() {
		return nil, fmt.Errorf("%w: game %d", ErrNotReady, game.ID)
	}

	home, away := game.HomeResult(), game.AwayResult()
	if home == nil || away == nil {
		return nil, fmt.Errorf("%w: game %d has no results entered", ErrResultIncomplete, game.ID)
	}
	if !home.HasScore() || !away.HasScore() {
		return nil, fmt.Errorf("%w: game %d", ErrResultIncomplete, game.ID)
	}

	homeTotal, awayTotal := home.Total(), away.Total()
	if homeTotal == awayTotal {
		return nil, fmt.Errorf("%w: game %d (%d:%d)", ErrTie, game.ID, homeTotal, awayTotal)
	}

	winner, loser := home, away
	if awayTotal > homeTotal {
		winner, loser = away, home
	}

	resolved := winner
	if !wantWinner {
		resolved = loser
	}
	if resolved.Team == nil {
		return nil, fmt.Errorf("%w: game %d participant is itself unresolved", ErrResultIncomplete, game.ID)
	}
	return resolved.Team, nil
}

func (s *resolutionService) ResolveByPlace(ctx context.Context, gamedayID int, standing string, place int, points *int) (*models.Team, error) {
	snapshot, err := s.loader.Load(ctx, gamedayID)
	if err != nil {
		return nil, err
	}
	return resolveByPlace(snapshot, standing, place, points)
}

func resolveByPlace(snapshot *Snapshot, standing string, place int, points *int) (*models.Team, error) {
	if snapshot.GameByStanding(standing) == nil {
		return nil, fmt.Errorf("%w: %q", ErrStandingNotFound, standing)
	}
	if !brackets.IsFinished(snapshot.Games, standing) {
		return nil, fmt.Errorf("%w: standing %q", ErrNotReady, standing)
	}

	row, ok := brackets.TeamByPlace(snapshot.Games, standing, place, points)
	if !ok {
		return nil, fmt.Errorf("%w: place %d of %q", ErrInsufficientRanking, place, standing)
	}
	team := snapshot.Team(row.TeamID)
	if team == nil {
		return nil, fmt.Errorf("%w: team %d", ErrTeamNotFound, row.TeamID)
	}
	return team, nil
}

func (s *resolutionService) GetUnresolvedReferences(ctx context.Context, gamedayID int) ([]*models.Game, error) {
	snapshot, err := s.loader.Load(ctx, gamedayID)
	if err != nil {
		return nil, err
	}

	unresolved := make([]*models.Game, 0)
	for _, game := range snapshot.Games {
		for i := range game.Results {
			if game.Results[i].TeamID == nil {
				unresolved = append(unresolved, game)
				break
			}
		}
	}
	return unresolved, nil
}
