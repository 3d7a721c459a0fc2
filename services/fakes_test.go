package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/dachrisch/leaguesphere/models"
	"github.com/dachrisch/leaguesphere/repositories"
)

// fakeStore is a shared in-memory backing for the repository fakes, so the
// services under test see their own writes on the next snapshot load.
type fakeStore struct {
	gameday  *models.Gameday
	games    []*models.Game
	results  []*models.Result
	teams    []*models.Team
	template *models.Template
	slots    []models.TemplateSlot
	rules    []models.TemplateUpdateRule

	resultUpserts    int
	officialsUpdates int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		gameday: &models.Gameday{
			ID:     1,
			Name:   "Testspieltag",
			Date:   time.Date(2026, 6, 13, 0, 0, 0, 0, time.UTC),
			Format: "6_2",
			Status: models.GamedayStatusPublished,
		},
	}
}

func (s *fakeStore) addTeam(id int, name string) *models.Team {
	team := &models.Team{ID: id, Name: name}
	s.teams = append(s.teams, team)
	return team
}

func (s *fakeStore) addGame(id, field int, stage, standing string, status models.GameStatus) *models.Game {
	game := &models.Game{
		ID:        id,
		GamedayID: s.gameday.ID,
		Field:     field,
		Scheduled: s.gameday.Date.Add(time.Duration(9+id) * time.Hour),
		Stage:     stage,
		Standing:  standing,
		Status:    status,
	}
	s.games = append(s.games, game)
	return game
}

func (s *fakeStore) addResult(gameID int, team *models.Team, isHome bool, fh, sh, pa *int) {
	res := &models.Result{
		ID:         len(s.results) + 1,
		GameID:     gameID,
		IsHome:     isHome,
		FirstHalf:  fh,
		SecondHalf: sh,
		PA:         pa,
	}
	if team != nil {
		res.TeamID = &team.ID
	}
	s.results = append(s.results, res)
}

func (s *fakeStore) addScore(gameID int, team *models.Team, isHome bool, total, against int) {
	s.addResult(gameID, team, isHome, &total, nil, &against)
}

func (s *fakeStore) resultOf(gameID int, isHome bool) *models.Result {
	for _, r := range s.results {
		if r.GameID == gameID && r.IsHome == isHome {
			return r
		}
	}
	return nil
}

func (s *fakeStore) gameOf(id int) *models.Game {
	for _, g := range s.games {
		if g.ID == id {
			return g
		}
	}
	return nil
}

func (s *fakeStore) loader() *SnapshotLoader {
	return NewSnapshotLoader(
		&fakeGamedayRepo{s},
		&fakeGameRepo{s},
		&fakeResultRepo{s},
		&fakeTeamRepo{s},
	)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeGamedayRepo struct{ store *fakeStore }

func (r *fakeGamedayRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Gameday, error) {
	if r.store.gameday == nil || r.store.gameday.ID != id {
		return nil, repositories.ErrGamedayNotFound
	}
	copied := *r.store.gameday
	return &copied, nil
}

func (r *fakeGamedayRepo) List(context.Context, repositories.SQLExecutor) ([]*models.Gameday, error) {
	return []*models.Gameday{r.store.gameday}, nil
}

func (r *fakeGamedayRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.GamedayStatus, publishedAt *time.Time) error {
	r.store.gameday.Status = status
	r.store.gameday.PublishedAt = publishedAt
	return nil
}

func (r *fakeGamedayRepo) UpdateDesignerData(_ context.Context, _ repositories.SQLExecutor, id int, designerJSON string) error {
	r.store.gameday.DesignerJSON = &designerJSON
	return nil
}

func (r *fakeGamedayRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	r.store.gameday = nil
	return nil
}

type fakeGameRepo struct{ store *fakeStore }

func (r *fakeGameRepo) Create(_ context.Context, _ repositories.SQLExecutor, game *models.Game) error {
	game.ID = len(r.store.games) + 1
	copied := *game
	r.store.games = append(r.store.games, &copied)
	return nil
}

func (r *fakeGameRepo) Update(_ context.Context, _ repositories.SQLExecutor, game *models.Game) error {
	existing := r.store.gameOf(game.ID)
	if existing == nil {
		return repositories.ErrGameNotFound
	}
	*existing = *game
	return nil
}

func (r *fakeGameRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.GameStatus) error {
	game := r.store.gameOf(id)
	if game == nil {
		return repositories.ErrGameNotFound
	}
	game.Status = status
	return nil
}

func (r *fakeGameRepo) UpdateOfficials(_ context.Context, _ repositories.SQLExecutor, id, officialsID int) error {
	game := r.store.gameOf(id)
	if game == nil {
		return repositories.ErrGameNotFound
	}
	game.OfficialsID = officialsID
	r.store.officialsUpdates++
	return nil
}

func (r *fakeGameRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Game, error) {
	game := r.store.gameOf(id)
	if game == nil {
		return nil, repositories.ErrGameNotFound
	}
	copied := *game
	copied.Results = nil
	return &copied, nil
}

func (r *fakeGameRepo) ListByGameday(_ context.Context, _ repositories.SQLExecutor, gamedayID int, _ repositories.GameFilter) ([]*models.Game, error) {
	games := make([]*models.Game, 0, len(r.store.games))
	for _, g := range r.store.games {
		if g.GamedayID != gamedayID {
			continue
		}
		copied := *g
		copied.Results = nil
		copied.Officials = nil
		games = append(games, &copied)
	}
	return games, nil
}

type fakeResultRepo struct{ store *fakeStore }

func (r *fakeResultRepo) Upsert(_ context.Context, _ repositories.SQLExecutor, result *models.Result) error {
	r.store.resultUpserts++
	existing := r.store.resultOf(result.GameID, result.IsHome)
	if existing == nil {
		copied := *result
		copied.ID = len(r.store.results) + 1
		result.ID = copied.ID
		r.store.results = append(r.store.results, &copied)
		return nil
	}
	existing.TeamID = result.TeamID
	existing.FirstHalf = result.FirstHalf
	existing.SecondHalf = result.SecondHalf
	existing.PA = result.PA
	return nil
}

func (r *fakeResultRepo) GetByGameAndSide(_ context.Context, _ repositories.SQLExecutor, gameID int, isHome bool) (*models.Result, error) {
	result := r.store.resultOf(gameID, isHome)
	if result == nil {
		return nil, repositories.ErrResultNotFound
	}
	copied := *result
	return &copied, nil
}

func (r *fakeResultRepo) ListByGame(_ context.Context, _ repositories.SQLExecutor, gameID int) ([]*models.Result, error) {
	results := make([]*models.Result, 0, 2)
	for _, res := range r.store.results {
		if res.GameID == gameID {
			copied := *res
			results = append(results, &copied)
		}
	}
	return results, nil
}

func (r *fakeResultRepo) ListByGameday(_ context.Context, _ repositories.SQLExecutor, gamedayID int) ([]*models.Result, error) {
	results := make([]*models.Result, 0, len(r.store.results))
	for _, res := range r.store.results {
		if game := r.store.gameOf(res.GameID); game != nil && game.GamedayID == gamedayID {
			copied := *res
			results = append(results, &copied)
		}
	}
	return results, nil
}

type fakeTeamRepo struct{ store *fakeStore }

func (r *fakeTeamRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Team, error) {
	for _, t := range r.store.teams {
		if t.ID == id {
			copied := *t
			return &copied, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (r *fakeTeamRepo) GetByName(_ context.Context, _ repositories.SQLExecutor, name string) (*models.Team, error) {
	for _, t := range r.store.teams {
		if t.Name == name {
			copied := *t
			return &copied, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (r *fakeTeamRepo) GetOrCreateByName(_ context.Context, _ repositories.SQLExecutor, name string, isPlaceholder bool) (*models.Team, error) {
	for _, t := range r.store.teams {
		if t.Name == name {
			copied := *t
			return &copied, nil
		}
	}
	team := &models.Team{ID: len(r.store.teams) + 100, Name: name, IsPlaceholder: isPlaceholder}
	r.store.teams = append(r.store.teams, team)
	copied := *team
	return &copied, nil
}

func (r *fakeTeamRepo) List(_ context.Context, _ repositories.SQLExecutor, includePlaceholders bool) ([]*models.Team, error) {
	teams := make([]*models.Team, 0, len(r.store.teams))
	for _, t := range r.store.teams {
		if !includePlaceholders && t.IsPlaceholder {
			continue
		}
		copied := *t
		teams = append(teams, &copied)
	}
	return teams, nil
}

func (r *fakeTeamRepo) Count(context.Context, repositories.SQLExecutor) (int, error) {
	count := 0
	for _, t := range r.store.teams {
		if !t.IsPlaceholder {
			count++
		}
	}
	return count, nil
}

func (r *fakeTeamRepo) UpdateLogoKey(_ context.Context, _ repositories.SQLExecutor, id int, logoKey *string) error {
	for _, t := range r.store.teams {
		if t.ID == id {
			t.LogoKey = logoKey
			return nil
		}
	}
	return repositories.ErrTeamNotFound
}

type fakeTemplateRepo struct{ store *fakeStore }

func (r *fakeTemplateRepo) GetByGameday(_ context.Context, _ repositories.SQLExecutor, _ *models.Gameday) (*models.Template, error) {
	if r.store.template == nil {
		return nil, repositories.ErrTemplateNotFound
	}
	copied := *r.store.template
	return &copied, nil
}

func (r *fakeTemplateRepo) ListSlots(_ context.Context, _ repositories.SQLExecutor, templateID int) ([]models.TemplateSlot, error) {
	return append([]models.TemplateSlot(nil), r.store.slots...), nil
}

func (r *fakeTemplateRepo) ListSlotsByField(_ context.Context, _ repositories.SQLExecutor, templateID, field int) ([]models.TemplateSlot, error) {
	slots := make([]models.TemplateSlot, 0, len(r.store.slots))
	for _, slot := range r.store.slots {
		if slot.Field == field {
			slots = append(slots, slot)
		}
	}
	return slots, nil
}

func (r *fakeTemplateRepo) ListUpdateRules(_ context.Context, _ repositories.SQLExecutor, templateID int, preFinished string) ([]models.TemplateUpdateRule, error) {
	rules := make([]models.TemplateUpdateRule, 0, len(r.store.rules))
	for _, rule := range r.store.rules {
		if rule.PreFinished == preFinished {
			rules = append(rules, rule)
		}
	}
	return rules, nil
}
