package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dachrisch/leaguesphere/brackets"
	"github.com/dachrisch/leaguesphere/models"
	"github.com/dachrisch/leaguesphere/repositories"
)

// SlotMatcher finds the template slot a game was materialized from. It is an
// interface so the positional heuristic below can later be swapped for an
// explicit slot-id persisted at publish time.
type SlotMatcher interface {
	Match(ctx context.Context, gameday *models.Gameday, games []*models.Game, game *models.Game) (*models.TemplateSlot, error)
}

// PositionalSlotMatcher matches slots ordinally: the game's position is how
// many games on the same field are scheduled at or before it, which indexes
// into the field's ordered slot list. Sensitive to schedule mutation order.
type PositionalSlotMatcher struct {
	templateRepo repositories.TemplateRepository
}

func NewPositionalSlotMatcher(templateRepo repositories.TemplateRepository) *PositionalSlotMatcher {
	return &PositionalSlotMatcher{templateRepo: templateRepo}
}

func (m *PositionalSlotMatcher) Match(ctx context.Context, gameday *models.Gameday, games []*models.Game, game *models.Game) (*models.TemplateSlot, error) {
	template, err := m.templateRepo.GetByGameday(ctx, nil, gameday)
	if err != nil {
		if errors.Is(err, repositories.ErrTemplateNotFound) {
			return nil, fmt.Errorf("%w: gameday %d", ErrTemplateNotFound, gameday.ID)
		}
		return nil, err
	}

	slots, err := m.templateRepo.ListSlotsByField(ctx, nil, template.ID, game.Field)
	if err != nil {
		return nil, err
	}

	position := 0
	for _, g := range games {
		if g.Field == game.Field && !g.Scheduled.After(game.Scheduled) {
			position++
		}
	}
	if position < 1 || position > len(slots) {
		return nil, fmt.Errorf("%w: position %d on field %d (%d slots)",
			repositories.ErrTemplateSlotNotFound, position, game.Field, len(slots))
	}
	return &slots[position-1], nil
}

type ScheduleService interface {
	// MaterializeSchedule produces the display-ready schedule: every open
	// participant slot resolved to a team name or a readable placeholder.
	MaterializeSchedule(ctx context.Context, gamedayID int) ([]models.ScheduleRow, error)
	// GamesToWhistle lists unfinished games, optionally narrowed to the
	// officiating team, for scorecard clients.
	GamesToWhistle(ctx context.Context, gamedayID int, team string) ([]models.ScheduleRow, error)
}

type scheduleService struct {
	loader      *SnapshotLoader
	slotMatcher SlotMatcher
	logger      *slog.Logger
}

func NewScheduleService(loader *SnapshotLoader, slotMatcher SlotMatcher, logger *slog.Logger) ScheduleService {
	return &scheduleService{loader: loader, slotMatcher: slotMatcher, logger: logger}
}

func (s *scheduleService) MaterializeSchedule(ctx context.Context, gamedayID int) ([]models.ScheduleRow, error) {
	snapshot, err := s.loader.Load(ctx, gamedayID)
	if err != nil {
		return nil, err
	}
	return s.materialize(ctx, snapshot), nil
}

func (s *scheduleService) GamesToWhistle(ctx context.Context, gamedayID int, team string) ([]models.ScheduleRow, error) {
	snapshot, err := s.loader.Load(ctx, gamedayID)
	if err != nil {
		return nil, err
	}

	rows := s.materialize(ctx, snapshot)
	filtered := make([]models.ScheduleRow, 0, len(rows))
	for _, row := range rows {
		if row.Status == models.GameStatusFinished {
			continue
		}
		if team != "" && !strings.Contains(row.Officials, team) {
			continue
		}
		filtered = append(filtered, row)
	}
	return filtered, nil
}

func (s *scheduleService) materialize(ctx context.Context, snapshot *Snapshot) []models.ScheduleRow {
	graph := s.designerResolution(snapshot)

	rows := make([]models.ScheduleRow, 0, len(snapshot.Games))
	for _, game := range snapshot.Games {
		row := models.ScheduleRow{
			GameID:    game.ID,
			Scheduled: game.Scheduled.Format("15:04"),
			Field:     game.Field,
			Stage:     game.Stage,
			Standing:  game.Standing,
			Status:    game.Status,
		}
		if game.Officials != nil {
			row.Officials = game.Officials.Name
		}

		row.Home, row.PointsHome = s.resolveSide(ctx, snapshot, graph, game, true)
		row.Away, row.PointsAway = s.resolveSide(ctx, snapshot, graph, game, false)
		rows = append(rows, row)
	}
	return rows
}

type graphResolution struct {
	resolved map[string]brackets.ResolvedPair
	nodes    map[string]models.GameNodeData
}

// designerResolution runs the bounded multi-pass resolver over the gameday's
// designer graph, if it has one.
func (s *scheduleService) designerResolution(snapshot *Snapshot) *graphResolution {
	data, err := snapshot.Gameday.DesignerData()
	if err != nil {
		s.logger.Warn("could not parse designer data",
			slog.Int("gameday_id", snapshot.Gameday.ID), slog.Any("error", err))
		return nil
	}
	if data == nil {
		return nil
	}

	outcome := func(standing string) (brackets.GameOutcome, bool) {
		game := snapshot.GameByStanding(standing)
		if game == nil {
			return brackets.GameOutcome{}, false
		}
		home, away := game.HomeResult(), game.AwayResult()
		if home == nil || away == nil {
			return brackets.GameOutcome{}, false
		}
		return brackets.GameOutcome{
			Finished:  game.IsFinished(),
			HomeScore: home.Total(),
			AwayScore: away.Total(),
			HomeTeam:  home.TeamName(),
			AwayTeam:  away.TeamName(),
		}, true
	}

	res := &graphResolution{
		resolved: brackets.ResolveReferences(data.Nodes, outcome),
		nodes:    make(map[string]models.GameNodeData),
	}
	for _, node := range data.Nodes {
		if node.Type == models.DesignerNodeGame && node.Data.Standing != "" {
			res.nodes[node.Data.Standing] = node.Data
		}
	}
	return res
}

// resolveSide picks the display name of one participant slot, in preference
// order: stored team, designer graph resolution, designer reference text,
// template slot reference, "TBD".
func (s *scheduleService) resolveSide(ctx context.Context, snapshot *Snapshot, graph *graphResolution, game *models.Game, isHome bool) (string, *int) {
	result := game.HomeResult()
	if !isHome {
		result = game.AwayResult()
	}

	var points *int
	if result != nil && result.HasScore() {
		total := result.Total()
		points = &total
	}

	if result != nil && result.Team != nil {
		return result.Team.Name, points
	}

	if graph != nil {
		if pair, ok := graph.resolved[game.Standing]; ok {
			name := pair.Away
			if isHome {
				name = pair.Home
			}
			if name != "" {
				return name, points
			}
		}
		if data, ok := graph.nodes[game.Standing]; ok {
			slot := brackets.AwaySlot(data)
			if isHome {
				slot = brackets.HomeSlot(data)
			}
			if slot.Kind == brackets.SlotDynamic {
				return brackets.FormatReference(slot.Ref), points
			}
		}
	}

	return s.slotPlaceholder(ctx, snapshot, game, isHome), points
}

func (s *scheduleService) slotPlaceholder(ctx context.Context, snapshot *Snapshot, game *models.Game, isHome bool) string {
	slot, err := s.slotMatcher.Match(ctx, snapshot.Gameday, snapshot.Games, game)
	if err != nil {
		if !errors.Is(err, ErrTemplateNotFound) {
			s.logger.Warn("slot lookup failed",
				slog.Int("game_id", game.ID), slog.Any("error", err))
		}
		return "TBD"
	}

	reference, group, teamIdx := slot.AwayReference, slot.AwayGroup, slot.AwayTeam
	if isHome {
		reference, group, teamIdx = slot.HomeReference, slot.HomeGroup, slot.HomeTeam
	}
	if reference != nil && *reference != "" {
		return *reference
	}
	if group != nil && teamIdx != nil {
		return fmt.Sprintf("G%d_T%d", *group+1, *teamIdx+1)
	}
	return "TBD"
}
