package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dachrisch/leaguesphere/brackets"
	"github.com/dachrisch/leaguesphere/models"
)

// CascadeService reacts to a game reaching its final state. Finishing the
// last game of a standing or of a whole stage unblocks dependent template
// rules, which in turn may finish further labels on re-entry.
type CascadeService interface {
	OnGameFinished(ctx context.Context, game *models.Game) error
}

type cascadeService struct {
	loader     *SnapshotLoader
	ruleEngine RuleEngine
	logger     *slog.Logger
}

func NewCascadeService(loader *SnapshotLoader, ruleEngine RuleEngine, logger *slog.Logger) CascadeService {
	return &cascadeService{loader: loader, ruleEngine: ruleEngine, logger: logger}
}

func (s *cascadeService) OnGameFinished(ctx context.Context, game *models.Game) error {
	if game.Status != models.GameStatusFinished {
		return nil
	}

	snapshot, err := s.loader.Load(ctx, game.GamedayID)
	if err != nil {
		return err
	}

	// Standing and stage completion are checked independently: the last
	// game of a standing is often also the last game of its stage, and
	// both labels carry their own rules.
	for _, label := range []string{game.Standing, game.Stage} {
		if label == "" || !brackets.IsFinished(snapshot.Games, label) {
			continue
		}
		s.logger.Info("label finished, applying template rules",
			slog.Int("gameday_id", game.GamedayID),
			slog.String("label", label))
		if err := s.ruleEngine.ApplyRules(ctx, game.GamedayID, label); err != nil {
			if errors.Is(err, ErrTemplateNotFound) {
				s.logger.Info("no template for gameday, skipping rules",
					slog.Int("gameday_id", game.GamedayID))
				return nil
			}
			return err
		}
	}
	return nil
}
