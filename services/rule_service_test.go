package services

import (
	"context"
	"testing"

	"github.com/dachrisch/leaguesphere/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// groupFixture is three finished group games (A beats everyone, C loses
// everything) plus an open placement game whose participants the rules fill.
func groupFixture() (*fakeStore, *models.Game) {
	store := newFakeStore()
	a := store.addTeam(1, "A")
	b := store.addTeam(2, "B")
	c := store.addTeam(3, "C")

	store.addGame(1, 1, "Vorrunde", "Gruppe 1", models.GameStatusFinished)
	store.addScore(1, a, true, 14, 0)
	store.addScore(1, b, false, 0, 14)
	store.addGame(2, 1, "Vorrunde", "Gruppe 1", models.GameStatusFinished)
	store.addScore(2, b, true, 7, 0)
	store.addScore(2, c, false, 0, 7)
	store.addGame(3, 1, "Vorrunde", "Gruppe 1", models.GameStatusFinished)
	store.addScore(3, a, true, 21, 6)
	store.addScore(3, c, false, 6, 21)

	final := store.addGame(4, 1, "Finalrunde", "P1", models.GameStatusPlanned)
	store.addResult(4, nil, true, nil, nil, nil)
	store.addResult(4, nil, false, nil, nil, nil)

	slot := &models.TemplateSlot{ID: 10, TemplateID: 1, Field: 1, Stage: "Finalrunde", Standing: "P1"}
	store.template = &models.Template{ID: 1, Name: "schedule_6_2"}
	store.rules = []models.TemplateUpdateRule{
		{
			ID:          1,
			TemplateID:  1,
			PreFinished: "Gruppe 1",
			SlotID:      slot.ID,
			Slot:        slot,
			TeamRules: []models.TeamRule{
				{ID: 1, RuleID: 1, Role: models.TeamRuleRoleHome, Standing: "Gruppe 1", Place: 1},
				{ID: 2, RuleID: 1, Role: models.TeamRuleRoleAway, Standing: "Gruppe 1", Place: 2},
				{ID: 3, RuleID: 1, Role: models.TeamRuleRoleOfficial, Standing: "Gruppe 1", Place: 3},
			},
		},
	}
	return store, final
}

func newTestRuleEngine(store *fakeStore) RuleEngine {
	return NewRuleEngine(store.loader(), &fakeTemplateRepo{store}, &fakeResultRepo{store}, &fakeGameRepo{store}, discardLogger())
}

func TestApplyRulesFillsParticipants(t *testing.T) {
	store, final := groupFixture()
	engine := newTestRuleEngine(store)

	err := engine.ApplyRules(context.Background(), 1, "Gruppe 1")
	require.NoError(t, err)

	home := store.resultOf(final.ID, true)
	require.NotNil(t, home.TeamID)
	assert.Equal(t, 1, *home.TeamID) // A won the group

	away := store.resultOf(final.ID, false)
	require.NotNil(t, away.TeamID)
	assert.Equal(t, 2, *away.TeamID)

	assert.Equal(t, 3, store.gameOf(final.ID).OfficialsID)
}

func TestApplyRulesIsIdempotent(t *testing.T) {
	store, _ := groupFixture()
	engine := newTestRuleEngine(store)

	require.NoError(t, engine.ApplyRules(context.Background(), 1, "Gruppe 1"))
	upserts := store.resultUpserts
	officials := store.officialsUpdates

	require.NoError(t, engine.ApplyRules(context.Background(), 1, "Gruppe 1"))
	assert.Equal(t, upserts, store.resultUpserts, "re-applying must not rewrite unchanged participants")
	assert.Equal(t, officials, store.officialsUpdates)
}

func TestApplyRulesSkipsUnfinishedSource(t *testing.T) {
	store, final := groupFixture()
	store.gameOf(2).Status = models.GameStatusStarted
	engine := newTestRuleEngine(store)

	err := engine.ApplyRules(context.Background(), 1, "Gruppe 1")
	require.NoError(t, err)

	assert.Nil(t, store.resultOf(final.ID, true).TeamID)
	assert.Nil(t, store.resultOf(final.ID, false).TeamID)
	assert.Zero(t, store.gameOf(final.ID).OfficialsID)
}

func TestApplyRulesWithoutTemplate(t *testing.T) {
	store, _ := groupFixture()
	store.template = nil
	engine := newTestRuleEngine(store)

	err := engine.ApplyRules(context.Background(), 1, "Gruppe 1")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestApplyRulesSkipsMissingTargetGame(t *testing.T) {
	store, _ := groupFixture()
	store.rules[0].Slot.Standing = "P9"
	engine := newTestRuleEngine(store)

	err := engine.ApplyRules(context.Background(), 1, "Gruppe 1")
	require.NoError(t, err)
	assert.Zero(t, store.officialsUpdates)
}

func TestApplyRulesPointsFilter(t *testing.T) {
	store, final := groupFixture()
	// Restrict the home rule to the 2-point sub-group: B and C hold 2 and 0
	// points, so place 1 of that group is B, not the overall leader A.
	twoPoints := 2
	store.rules[0].TeamRules = []models.TeamRule{
		{ID: 1, RuleID: 1, Role: models.TeamRuleRoleHome, Standing: "Gruppe 1", Place: 1, Points: &twoPoints},
	}
	engine := newTestRuleEngine(store)

	err := engine.ApplyRules(context.Background(), 1, "Gruppe 1")
	require.NoError(t, err)

	home := store.resultOf(final.ID, true)
	require.NotNil(t, home.TeamID)
	assert.Equal(t, 2, *home.TeamID)
}
