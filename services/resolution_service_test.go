package services

import (
	"context"
	"testing"

	"github.com/dachrisch/leaguesphere/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWinnerAndLoser(t *testing.T) {
	store := newFakeStore()
	alpha := store.addTeam(1, "Alpha")
	beta := store.addTeam(2, "Beta")
	store.addGame(1, 1, "Vorrunde", "A Game 1", models.GameStatusFinished)
	store.addScore(1, alpha, true, 23, 7)
	store.addScore(1, beta, false, 7, 23)

	svc := NewResolutionService(store.loader())

	winner, err := svc.ResolveWinner(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", winner.Name)

	loser, err := svc.ResolveLoser(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "Beta", loser.Name)
}

func TestResolveWinnerReversedScore(t *testing.T) {
	store := newFakeStore()
	alpha := store.addTeam(1, "Alpha")
	beta := store.addTeam(2, "Beta")
	store.addGame(1, 1, "Vorrunde", "A Game 1", models.GameStatusFinished)
	store.addScore(1, alpha, true, 7, 23)
	store.addScore(1, beta, false, 23, 7)

	svc := NewResolutionService(store.loader())

	winner, err := svc.ResolveWinner(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "Beta", winner.Name)
}

func TestResolveWinnerTie(t *testing.T) {
	store := newFakeStore()
	alpha := store.addTeam(1, "Alpha")
	beta := store.addTeam(2, "Beta")
	store.addGame(1, 1, "Vorrunde", "A Game 1", models.GameStatusFinished)
	store.addScore(1, alpha, true, 10, 10)
	store.addScore(1, beta, false, 10, 10)

	svc := NewResolutionService(store.loader())

	_, err := svc.ResolveWinner(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrTie)
	_, err = svc.ResolveLoser(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrTie)
}

func TestResolveWinnerNotFinished(t *testing.T) {
	store := newFakeStore()
	alpha := store.addTeam(1, "Alpha")
	beta := store.addTeam(2, "Beta")
	store.addGame(1, 1, "Vorrunde", "A Game 1", models.GameStatusStarted)
	store.addScore(1, alpha, true, 14, 0)
	store.addScore(1, beta, false, 0, 14)

	svc := NewResolutionService(store.loader())

	_, err := svc.ResolveWinner(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestResolveWinnerIncompleteResult(t *testing.T) {
	store := newFakeStore()
	alpha := store.addTeam(1, "Alpha")
	store.addGame(1, 1, "Vorrunde", "A Game 1", models.GameStatusFinished)
	// Only the home side has a result row.
	store.addScore(1, alpha, true, 14, 0)

	svc := NewResolutionService(store.loader())

	_, err := svc.ResolveWinner(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrResultIncomplete)
}

func TestResolveWinnerUnknownGame(t *testing.T) {
	store := newFakeStore()
	svc := NewResolutionService(store.loader())

	_, err := svc.ResolveWinner(context.Background(), 1, 42)
	assert.ErrorIs(t, err, ErrGameNotFound)

	_, err = svc.ResolveWinner(context.Background(), 99, 1)
	assert.ErrorIs(t, err, ErrGamedayNotFound)
}

func TestResolveByPlace(t *testing.T) {
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
	store.addScore(3, c, true, 0, 21)
	store.addScore(3, a, false, 21, 0)

	svc := NewResolutionService(store.loader())

	first, err := svc.ResolveByPlace(context.Background(), 1, "Gruppe 1", 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "A", first.Name)

	third, err := svc.ResolveByPlace(context.Background(), 1, "Gruppe 1", 3, nil)
	require.NoError(t, err)
	assert.Equal(t, "C", third.Name)

	_, err = svc.ResolveByPlace(context.Background(), 1, "Gruppe 1", 4, nil)
	assert.ErrorIs(t, err, ErrInsufficientRanking)

	_, err = svc.ResolveByPlace(context.Background(), 1, "Gruppe 9", 1, nil)
	assert.ErrorIs(t, err, ErrStandingNotFound)
}

func TestResolveByPlaceWaitsForStanding(t *testing.T) {
	store := newFakeStore()
	a := store.addTeam(1, "A")
	b := store.addTeam(2, "B")
	store.addGame(1, 1, "Vorrunde", "Gruppe 1", models.GameStatusFinished)
	store.addScore(1, a, true, 14, 0)
	store.addScore(1, b, false, 0, 14)
	store.addGame(2, 1, "Vorrunde", "Gruppe 1", models.GameStatusPlanned)
	store.addResult(2, a, true, nil, nil, nil)
	store.addResult(2, b, false, nil, nil, nil)

	svc := NewResolutionService(store.loader())

	_, err := svc.ResolveByPlace(context.Background(), 1, "Gruppe 1", 1, nil)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestGetUnresolvedReferences(t *testing.T) {
	store := newFakeStore()
	a := store.addTeam(1, "A")
	store.addGame(1, 1, "Finalrunde", "P1", models.GameStatusPlanned)
	store.addResult(1, a, true, nil, nil, nil)
	store.addResult(1, nil, false, nil, nil, nil)
	store.addGame(2, 1, "Finalrunde", "P3", models.GameStatusPlanned)
	store.addResult(2, a, true, nil, nil, nil)
	store.addResult(2, a, false, nil, nil, nil)

	svc := NewResolutionService(store.loader())

	games, err := svc.GetUnresolvedReferences(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "P1", games[0].Standing)
}
