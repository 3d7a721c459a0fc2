package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dachrisch/leaguesphere/models"
	"github.com/dachrisch/leaguesphere/repositories"
)

// RuleEngine applies a template's update rules once the games of a standing
// or stage label are all finished: it fills the participant and officials
// slots of the dependent games from the source standings.
type RuleEngine interface {
	// ApplyRules runs every update rule keyed on the finished label. A rule
	// that cannot be applied (missing target game, short standing) is logged
	// and skipped so one bad rule does not block the rest. Returns
	// ErrTemplateNotFound when the gameday has no template.
	ApplyRules(ctx context.Context, gamedayID int, finishedLabel string) error
}

type ruleEngine struct {
	loader       *SnapshotLoader
	templateRepo repositories.TemplateRepository
	resultRepo   repositories.ResultRepository
	gameRepo     repositories.GameRepository
	logger       *slog.Logger
}

func NewRuleEngine(
	loader *SnapshotLoader,
	templateRepo repositories.TemplateRepository,
	resultRepo repositories.ResultRepository,
	gameRepo repositories.GameRepository,
	logger *slog.Logger,
) RuleEngine {
	return &ruleEngine{
		loader:       loader,
		templateRepo: templateRepo,
		resultRepo:   resultRepo,
		gameRepo:     gameRepo,
		logger:       logger,
	}
}

func (e *ruleEngine) ApplyRules(ctx context.Context, gamedayID int, finishedLabel string) error {
	snapshot, err := e.loader.Load(ctx, gamedayID)
	if err != nil {
		return err
	}

	template, err := e.templateRepo.GetByGameday(ctx, nil, snapshot.Gameday)
	if err != nil {
		if errors.Is(err, repositories.ErrTemplateNotFound) {
			return fmt.Errorf("%w: gameday %d", ErrTemplateNotFound, gamedayID)
		}
		return err
	}

	rules, err := e.templateRepo.ListUpdateRules(ctx, nil, template.ID, finishedLabel)
	if err != nil {
		return err
	}

	for _, rule := range rules {
		e.applyRule(ctx, snapshot, rule)
	}
	return nil
}

func (e *ruleEngine) applyRule(ctx context.Context, snapshot *Snapshot, rule models.TemplateUpdateRule) {
	target := findTargetGame(snapshot.Games, rule.Slot)
	if target == nil {
		e.logger.Warn("no target game for update rule",
			slog.Int("rule_id", rule.ID),
			slog.Int("field", rule.Slot.Field),
			slog.String("stage", rule.Slot.Stage),
			slog.String("standing", rule.Slot.Standing))
		return
	}

	for _, teamRule := range rule.TeamRules {
		team, err := resolveByPlace(snapshot, teamRule.Standing, teamRule.Place, teamRule.Points)
		if err != nil {
			e.logger.Warn("skipping team rule",
				slog.Int("team_rule_id", teamRule.ID),
				slog.Any("error", err))
			continue
		}

		switch teamRule.Role {
		case models.TeamRuleRoleHome:
			err = e.writeParticipant(ctx, target, team, true)
		case models.TeamRuleRoleAway:
			err = e.writeParticipant(ctx, target, team, false)
		case models.TeamRuleRoleOfficial:
			err = e.writeOfficials(ctx, target, team)
		default:
			e.logger.Warn("unknown team rule role",
				slog.Int("team_rule_id", teamRule.ID),
				slog.String("role", string(teamRule.Role)))
			continue
		}
		if err != nil {
			e.logger.Error("applying team rule failed",
				slog.Int("team_rule_id", teamRule.ID),
				slog.Any("error", err))
		}
	}
}

// writeParticipant sets the team of one result row, creating the row if the
// game has none for that side yet. The write is skipped entirely when the
// slot already holds the resolved team, so re-application is a no-op.
func (e *ruleEngine) writeParticipant(ctx context.Context, game *models.Game, team *models.Team, isHome bool) error {
	result := game.HomeResult()
	if !isHome {
		result = game.AwayResult()
	}

	if result == nil {
		created := models.Result{GameID: game.ID, IsHome: isHome, TeamID: &team.ID}
		if err := e.resultRepo.Upsert(ctx, nil, &created); err != nil {
			return err
		}
		created.Team = team
		game.Results = append(game.Results, created)
		return nil
	}

	if result.TeamID != nil && *result.TeamID == team.ID {
		return nil
	}
	result.TeamID = &team.ID
	result.Team = team
	return e.resultRepo.Upsert(ctx, nil, result)
}

func (e *ruleEngine) writeOfficials(ctx context.Context, game *models.Game, team *models.Team) error {
	if game.OfficialsID == team.ID {
		return nil
	}
	if err := e.gameRepo.UpdateOfficials(ctx, nil, game.ID, team.ID); err != nil {
		return err
	}
	game.OfficialsID = team.ID
	game.Officials = team
	return nil
}

func findTargetGame(games []*models.Game, slot *models.TemplateSlot) *models.Game {
	for _, g := range games {
		if g.Field == slot.Field && g.Stage == slot.Stage && g.Standing == slot.Standing {
			return g
		}
	}
	return nil
}
