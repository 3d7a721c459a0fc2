package services

import (
	"context"
	"testing"
	"time"

	"github.com/dachrisch/leaguesphere/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGamedayService(store *fakeStore) *gamedayService {
	return &gamedayService{
		gamedayRepo: &fakeGamedayRepo{store},
		gameRepo:    &fakeGameRepo{store},
		resultRepo:  &fakeResultRepo{store},
		teamRepo:    &fakeTeamRepo{store},
		logger:      discardLogger(),
	}
}

func TestMaterializeGraphCreatesGamesAndTeams(t *testing.T) {
	store := newFakeStore()
	svc := newTestGamedayService(store)

	data := &models.DesignerData{
		GlobalTeams: []models.GlobalTeam{
			{ID: "uuid-a", Label: "Alpha"},
			{ID: "uuid-b", Label: "Beta"},
			{ID: "uuid-r", Label: "Refs"},
		},
		Nodes: []models.DesignerNode{
			{ID: "field-1", Type: models.DesignerNodeField, Data: models.GameNodeData{Name: "Feld 1", Order: 1}},
			{ID: "stage-1", Type: models.DesignerNodeStage, ParentID: "field-1", Data: models.GameNodeData{Name: "Vorrunde"}},
			{ID: "tmp-1", Type: models.DesignerNodeGame, ParentID: "stage-1", Data: models.GameNodeData{
				Standing:   "A Game 1",
				StartTime:  "10:20",
				HomeTeamID: "uuid-a",
				AwayTeamID: "uuid-b",
				Official:   "uuid-r",
			}},
		},
		Edges: []models.DesignerEdge{{Source: "tmp-1", Target: "tmp-9"}},
	}

	err := svc.materializeGraph(context.Background(), nil, store.gameday, data)
	require.NoError(t, err)

	require.Len(t, store.games, 1)
	game := store.games[0]
	assert.Equal(t, 1, game.Field)
	assert.Equal(t, "Vorrunde", game.Stage)
	assert.Equal(t, "A Game 1", game.Standing)
	assert.Equal(t, models.GameStatusPlanned, game.Status)
	assert.Equal(t, 10, game.Scheduled.Hour())
	assert.Equal(t, 20, game.Scheduled.Minute())

	// Both sides got result rows bound to the created teams.
	home := store.resultOf(game.ID, true)
	require.NotNil(t, home)
	require.NotNil(t, home.TeamID)
	away := store.resultOf(game.ID, false)
	require.NotNil(t, away)
	require.NotNil(t, away.TeamID)
	assert.NotEqual(t, *home.TeamID, *away.TeamID)

	// The node id was remapped to the database id, edges included.
	assert.Equal(t, "game-1", data.Nodes[2].ID)
	assert.Equal(t, "game-1", data.Edges[0].Source)
	assert.Equal(t, "tmp-9", data.Edges[0].Target)
}

func TestMaterializeGraphUpdatesExistingGame(t *testing.T) {
	store := newFakeStore()
	store.addGame(1, 1, "Vorrunde", "A Game 1", models.GameStatusPlanned)
	svc := newTestGamedayService(store)

	data := &models.DesignerData{
		Nodes: []models.DesignerNode{
			{ID: "game-1", Type: models.DesignerNodeGame, Data: models.GameNodeData{
				Standing:  "A Game 1",
				StageName: "Vorrunde",
				StartTime: "11:40",
			}},
		},
	}

	err := svc.materializeGraph(context.Background(), nil, store.gameday, data)
	require.NoError(t, err)

	require.Len(t, store.games, 1)
	assert.Equal(t, 11, store.games[0].Scheduled.Hour())
	assert.Equal(t, "game-1", data.Nodes[0].ID)
}

func TestMaterializeGraphDefaultsOfficialsToPlaceholder(t *testing.T) {
	store := newFakeStore()
	svc := newTestGamedayService(store)

	data := &models.DesignerData{
		Nodes: []models.DesignerNode{
			{ID: "tmp-1", Type: models.DesignerNodeGame, Data: models.GameNodeData{Standing: "A Game 1"}},
		},
	}

	err := svc.materializeGraph(context.Background(), nil, store.gameday, data)
	require.NoError(t, err)

	require.Len(t, store.games, 1)
	officialsID := store.games[0].OfficialsID
	var officials *models.Team
	for _, team := range store.teams {
		if team.ID == officialsID {
			officials = team
		}
	}
	require.NotNil(t, officials)
	assert.Equal(t, "Team Officials", officials.Name)
	assert.True(t, officials.IsPlaceholder)
}

func TestMaterializeGraphWritesEnteredScores(t *testing.T) {
	store := newFakeStore()
	svc := newTestGamedayService(store)

	data := &models.DesignerData{
		GlobalTeams: []models.GlobalTeam{
			{ID: "uuid-a", Label: "Alpha"},
			{ID: "uuid-b", Label: "Beta"},
		},
		Nodes: []models.DesignerNode{
			{ID: "tmp-1", Type: models.DesignerNodeGame, Data: models.GameNodeData{
				Standing:      "A Game 1",
				HomeTeamID:    "uuid-a",
				AwayTeamID:    "uuid-b",
				HalftimeScore: &models.ScorePair{Home: 7, Away: 0},
				FinalScore:    &models.ScorePair{Home: 13, Away: 6},
			}},
		},
	}

	err := svc.materializeGraph(context.Background(), nil, store.gameday, data)
	require.NoError(t, err)

	home := store.resultOf(1, true)
	require.NotNil(t, home.FirstHalf)
	assert.Equal(t, 7, *home.FirstHalf)
	require.NotNil(t, home.SecondHalf)
	assert.Equal(t, 6, *home.SecondHalf) // final minus halftime
	require.NotNil(t, home.PA)
	assert.Equal(t, 6, *home.PA)

	away := store.resultOf(1, false)
	assert.Equal(t, 0, *away.FirstHalf)
	assert.Equal(t, 6, *away.SecondHalf)
	assert.Equal(t, 13, *away.PA)
}

func TestSaveDesignerValidatesPayload(t *testing.T) {
	store := newFakeStore()
	store.gameday.Status = models.GamedayStatusDraft
	svc := newTestGamedayService(store)

	err := svc.SaveDesigner(context.Background(), 1, "{not json")
	assert.Error(t, err)

	err = svc.SaveDesigner(context.Background(), 1, `{"nodes":[],"edges":[],"globalTeams":[]}`)
	require.NoError(t, err)
	require.NotNil(t, store.gameday.DesignerJSON)
}

func TestSaveDesignerRejectsPublishedGameday(t *testing.T) {
	store := newFakeStore()
	svc := newTestGamedayService(store)

	err := svc.SaveDesigner(context.Background(), 1, `{"nodes":[]}`)
	assert.ErrorIs(t, err, ErrGamedayNotDraft)
}

func TestDeleteGamedayRequiresDraft(t *testing.T) {
	store := newFakeStore()
	svc := newTestGamedayService(store)

	err := svc.DeleteGameday(context.Background(), 1)
	assert.ErrorIs(t, err, ErrGamedayNotDraft)

	store.gameday.Status = models.GamedayStatusDraft
	require.NoError(t, svc.DeleteGameday(context.Background(), 1))
	assert.Nil(t, store.gameday)
}

func TestKickoffTime(t *testing.T) {
	date := time.Date(2026, 6, 13, 0, 0, 0, 0, time.UTC)

	at := kickoffTime(date, "14:35")
	assert.Equal(t, 14, at.Hour())
	assert.Equal(t, 35, at.Minute())
	assert.Equal(t, date.Day(), at.Day())

	// Missing or broken times fall back to the default kickoff.
	assert.Equal(t, 10, kickoffTime(date, "").Hour())
	assert.Equal(t, 10, kickoffTime(date, "later").Hour())
}

func TestParseGameNodeID(t *testing.T) {
	id, ok := parseGameNodeID("game-42")
	assert.True(t, ok)
	assert.Equal(t, 42, id)

	for _, raw := range []string{"tmp-42", "game-", "game-0", "game-x", ""} {
		_, ok := parseGameNodeID(raw)
		assert.False(t, ok, raw)
	}
}
