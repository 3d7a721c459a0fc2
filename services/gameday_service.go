package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dachrisch/leaguesphere/models"
	"github.com/dachrisch/leaguesphere/repositories"
)

const (
	officialsPlaceholderName = "Team Officials"
	defaultKickoff           = "10:00"
)

type GamedayService interface {
	GetGameday(ctx context.Context, id int) (*models.Gameday, error)
	ListGamedays(ctx context.Context) ([]*models.Gameday, error)
	// SaveDesigner stores the designer graph payload of a draft gameday.
	SaveDesigner(ctx context.Context, id int, designerJSON string) error
	// Publish materializes the designer graph into games and result rows and
	// flips the gameday to published. Node ids are rewritten to the database
	// game ids so later saves update in place.
	Publish(ctx context.Context, id int) (*models.Gameday, error)
	// DeleteGameday removes a gameday. Only drafts may be deleted.
	DeleteGameday(ctx context.Context, id int) error
}

type gamedayService struct {
	db          *sql.DB
	gamedayRepo repositories.GamedayRepository
	gameRepo    repositories.GameRepository
	resultRepo  repositories.ResultRepository
	teamRepo    repositories.TeamRepository
	logger      *slog.Logger
}

func NewGamedayService(
	db *sql.DB,
	gamedayRepo repositories.GamedayRepository,
	gameRepo repositories.GameRepository,
	resultRepo repositories.ResultRepository,
	teamRepo repositories.TeamRepository,
	logger *slog.Logger,
) GamedayService {
	return &gamedayService{
		db:          db,
		gamedayRepo: gamedayRepo,
		gameRepo:    gameRepo,
		resultRepo:  resultRepo,
		teamRepo:    teamRepo,
		logger:      logger,
	}
}

func (s *gamedayService) GetGameday(ctx context.Context, id int) (*models.Gameday, error) {
	gameday, err := s.gamedayRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGamedayNotFound) {
			return nil, fmt.Errorf("%w: gameday %d", ErrGamedayNotFound, id)
		}
		return nil, err
	}
	return gameday, nil
}

func (s *gamedayService) ListGamedays(ctx context.Context) ([]*models.Gameday, error) {
	return s.gamedayRepo.List(ctx, nil)
}

func (s *gamedayService) SaveDesigner(ctx context.Context, id int, designerJSON string) error {
	gameday, err := s.GetGameday(ctx, id)
	if err != nil {
		return err
	}
	if gameday.Status != models.GamedayStatusDraft {
		return fmt.Errorf("%w: gameday %d is %s", ErrGamedayNotDraft, id, gameday.Status)
	}
	// Reject payloads that do not parse, the designer client round-trips
	// this blob and a broken one would wedge the gameday.
	var probe models.DesignerData
	if err := json.Unmarshal([]byte(designerJSON), &probe); err != nil {
		return fmt.Errorf("invalid designer payload: %w", err)
	}
	return s.gamedayRepo.UpdateDesignerData(ctx, nil, id, designerJSON)
}

func (s *gamedayService) DeleteGameday(ctx context.Context, id int) error {
	gameday, err := s.GetGameday(ctx, id)
	if err != nil {
		return err
	}
	if gameday.Status != models.GamedayStatusDraft {
		return fmt.Errorf("%w: gameday %d is %s", ErrGamedayNotDraft, id, gameday.Status)
	}
	return s.gamedayRepo.Delete(ctx, nil, id)
}

func (s *gamedayService) Publish(ctx context.Context, id int) (published *models.Gameday, txErr error) {
	gameday, err := s.GetGameday(ctx, id)
	if err != nil {
		return nil, err
	}
	if gameday.Status != models.GamedayStatusDraft {
		return nil, fmt.Errorf("%w: gameday %d is %s", ErrGamedayAlreadyPublished, id, gameday.Status)
	}

	data, err := gameday.DesignerData()
	if err != nil {
		return nil, fmt.Errorf("designer payload of gameday %d: %w", id, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			s.logger.Error("rolling back publish", slog.Int("gameday_id", id), slog.Any("error", txErr))
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("rollback failed", slog.Int("gameday_id", id), slog.Any("error", rbErr))
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				s.logger.Error("commit failed", slog.Int("gameday_id", id), slog.Any("error", cErr))
				txErr = fmt.Errorf("failed to commit transaction: %w", cErr)
				published = nil
			}
		}
	}()

	if data != nil {
		if txErr = s.materializeGraph(ctx, tx, gameday, data); txErr != nil {
			return nil, txErr
		}
		var raw []byte
		raw, txErr = json.Marshal(data)
		if txErr != nil {
			return nil, txErr
		}
		if txErr = s.gamedayRepo.UpdateDesignerData(ctx, tx, id, string(raw)); txErr != nil {
			return nil, txErr
		}
	}

	now := time.Now()
	if txErr = s.gamedayRepo.UpdateStatus(ctx, tx, id, models.GamedayStatusPublished, &now); txErr != nil {
		return nil, txErr
	}

	gameday.Status = models.GamedayStatusPublished
	gameday.PublishedAt = &now
	s.logger.Info("gameday published", slog.Int("gameday_id", id))
	return gameday, nil
}

// materializeGraph turns the designer nodes into games and result rows. Game
// node ids are remapped to "game-<db id>", and edges and parent links are
// rewritten to the new ids.
func (s *gamedayService) materializeGraph(ctx context.Context, tx repositories.SQLExecutor, gameday *models.Gameday, data *models.DesignerData) error {
	teamByUUID := make(map[string]*models.Team, len(data.GlobalTeams))
	for _, gt := range data.GlobalTeams {
		name := strings.TrimSpace(gt.Label)
		if name == "" {
			continue
		}
		team, err := s.teamRepo.GetOrCreateByName(ctx, tx, name, false)
		if err != nil {
			return fmt.Errorf("team %q: %w", name, err)
		}
		teamByUUID[gt.ID] = team
	}

	nodesByID := make(map[string]*models.DesignerNode, len(data.Nodes))
	for i := range data.Nodes {
		nodesByID[data.Nodes[i].ID] = &data.Nodes[i]
	}

	idRemap := make(map[string]string)
	for i := range data.Nodes {
		node := &data.Nodes[i]
		if node.Type != models.DesignerNodeGame {
			continue
		}

		game := models.Game{
			GamedayID: gameday.ID,
			Field:     s.fieldOf(node, nodesByID),
			Scheduled: kickoffTime(gameday.Date, node.Data.StartTime),
			Stage:     stageOf(node, nodesByID),
			Standing:  standingOf(node),
			Status:    models.GameStatusPlanned,
		}

		officials, err := s.resolveOfficials(ctx, tx, node.Data.Official, teamByUUID)
		if err != nil {
			return err
		}
		game.OfficialsID = officials.ID

		if dbID, ok := parseGameNodeID(node.ID); ok {
			game.ID = dbID
			if err := s.gameRepo.Update(ctx, tx, &game); err != nil {
				return fmt.Errorf("game node %s: %w", node.ID, err)
			}
		} else {
			if err := s.gameRepo.Create(ctx, tx, &game); err != nil {
				return fmt.Errorf("game node %s: %w", node.ID, err)
			}
			idRemap[node.ID] = fmt.Sprintf("game-%d", game.ID)
		}

		if err := s.writeNodeResults(ctx, tx, game.ID, node.Data, teamByUUID); err != nil {
			return err
		}
	}

	applyIDRemap(data, idRemap)
	return nil
}

func (s *gamedayService) writeNodeResults(ctx context.Context, tx repositories.SQLExecutor, gameID int, data models.GameNodeData, teamByUUID map[string]*models.Team) error {
	sides := []struct {
		isHome  bool
		teamRef string
	}{
		{true, data.HomeTeamID},
		{false, data.AwayTeamID},
	}
	for _, side := range sides {
		result := models.Result{GameID: gameID, IsHome: side.isHome}
		if team, ok := teamByUUID[side.teamRef]; ok {
			result.TeamID = &team.ID
		}
		if data.HalftimeScore != nil && data.FinalScore != nil {
			fh, final := data.HalftimeScore.Home, data.FinalScore.Home
			pa := data.FinalScore.Away
			if !side.isHome {
				fh, final = data.HalftimeScore.Away, data.FinalScore.Away
				pa = data.FinalScore.Home
			}
			sh := final - fh
			result.FirstHalf = &fh
			result.SecondHalf = &sh
			result.PA = &pa
		}
		if err := s.resultRepo.Upsert(ctx, tx, &result); err != nil {
			return fmt.Errorf("result of game %d: %w", gameID, err)
		}
	}
	return nil
}

// resolveOfficials maps the node's official reference, a global team uuid or a
// literal name, to a team. Unreffed games get a shared placeholder crew.
func (s *gamedayService) resolveOfficials(ctx context.Context, tx repositories.SQLExecutor, ref string, teamByUUID map[string]*models.Team) (*models.Team, error) {
	if team, ok := teamByUUID[ref]; ok {
		return team, nil
	}
	name := strings.TrimSpace(ref)
	if name != "" {
		return s.teamRepo.GetOrCreateByName(ctx, tx, name, false)
	}
	return s.teamRepo.GetOrCreateByName(ctx, tx, officialsPlaceholderName, true)
}

// fieldOf walks game -> stage -> field and derives the field number from the
// field node's order, falling back to a number in its name ("Feld 2").
func (s *gamedayService) fieldOf(node *models.DesignerNode, nodesByID map[string]*models.DesignerNode) int {
	stage, ok := nodesByID[node.ParentID]
	if !ok {
		return 1
	}
	field, ok := nodesByID[stage.ParentID]
	if !ok || field.Type != models.DesignerNodeField {
		return 1
	}
	if field.Data.Order > 0 {
		return field.Data.Order
	}
	if n, ok := trailingNumber(field.Data.Name); ok {
		return n
	}
	return 1
}

func stageOf(node *models.DesignerNode, nodesByID map[string]*models.DesignerNode) string {
	if node.Data.StageName != "" {
		return node.Data.StageName
	}
	if stage, ok := nodesByID[node.ParentID]; ok && stage.Data.Name != "" {
		return stage.Data.Name
	}
	return "Standard"
}

func standingOf(node *models.DesignerNode) string {
	if node.Data.Standing != "" {
		return node.Data.Standing
	}
	if node.Data.Name != "" {
		return node.Data.Name
	}
	return "Game"
}

func kickoffTime(date time.Time, startTime string) time.Time {
	if startTime == "" {
		startTime = defaultKickoff
	}
	clock, err := time.Parse("15:04", startTime)
	if err != nil {
		clock, _ = time.Parse("15:04", defaultKickoff)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, date.Location())
}

func parseGameNodeID(nodeID string) (int, bool) {
	suffix, ok := strings.CutPrefix(nodeID, "game-")
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(suffix)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func trailingNumber(name string) (int, bool) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func applyIDRemap(data *models.DesignerData, idRemap map[string]string) {
	if len(idRemap) == 0 {
		return
	}
	for i := range data.Nodes {
		if mapped, ok := idRemap[data.Nodes[i].ID]; ok {
			data.Nodes[i].ID = mapped
		}
		if mapped, ok := idRemap[data.Nodes[i].ParentID]; ok {
			data.Nodes[i].ParentID = mapped
		}
	}
	for i := range data.Edges {
		if mapped, ok := idRemap[data.Edges[i].Source]; ok {
			data.Edges[i].Source = mapped
		}
		if mapped, ok := idRemap[data.Edges[i].Target]; ok {
			data.Edges[i].Target = mapped
		}
	}
}
