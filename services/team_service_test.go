package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/dachrisch/leaguesphere/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	uploaded []string
	deleted  []string
}

func (u *fakeUploader) Upload(_ context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	u.uploaded = append(u.uploaded, key)
	return &storage.UploadResult{Key: key, Location: "https://cdn.example.com/" + key}, nil
}

func (u *fakeUploader) Delete(_ context.Context, key string) error {
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func TestListTeamsExcludesPlaceholders(t *testing.T) {
	store := newFakeStore()
	store.addTeam(1, "Alpha")
	placeholder := store.addTeam(2, "Team Officials")
	placeholder.IsPlaceholder = true

	svc := NewTeamService(&fakeTeamRepo{store}, nil, discardLogger())

	teams, err := svc.ListTeams(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "Alpha", teams[0].Name)

	count, err := svc.CountTeams(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGetOrCreateTeamValidatesName(t *testing.T) {
	store := newFakeStore()
	svc := NewTeamService(&fakeTeamRepo{store}, nil, discardLogger())

	_, err := svc.GetOrCreateTeam(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrTeamNameRequired)

	team, err := svc.GetOrCreateTeam(context.Background(), " Gophers ")
	require.NoError(t, err)
	assert.Equal(t, "Gophers", team.Name)

	again, err := svc.GetOrCreateTeam(context.Background(), "Gophers")
	require.NoError(t, err)
	assert.Equal(t, team.ID, again.ID)
}

func TestUploadLogoReplacesOldKey(t *testing.T) {
	store := newFakeStore()
	team := store.addTeam(1, "Alpha")
	oldKey := "teams/1/logo.jpg"
	team.LogoKey = &oldKey

	uploader := &fakeUploader{}
	svc := NewTeamService(&fakeTeamRepo{store}, uploader, discardLogger())

	updated, err := svc.UploadLogo(context.Background(), 1, "image/png", strings.NewReader("img"))
	require.NoError(t, err)

	require.NotNil(t, updated.LogoKey)
	assert.Equal(t, "teams/1/logo.png", *updated.LogoKey)
	require.NotNil(t, updated.LogoURL)
	assert.Equal(t, "https://cdn.example.com/teams/1/logo.png", *updated.LogoURL)

	assert.Equal(t, []string{"teams/1/logo.png"}, uploader.uploaded)
	assert.Equal(t, []string{"teams/1/logo.jpg"}, uploader.deleted)
}

func TestUploadLogoWithoutStorage(t *testing.T) {
	store := newFakeStore()
	store.addTeam(1, "Alpha")
	svc := NewTeamService(&fakeTeamRepo{store}, nil, discardLogger())

	_, err := svc.UploadLogo(context.Background(), 1, "image/png", strings.NewReader("img"))
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestDeleteLogo(t *testing.T) {
	store := newFakeStore()
	team := store.addTeam(1, "Alpha")
	key := "teams/1/logo.png"
	team.LogoKey = &key

	uploader := &fakeUploader{}
	svc := NewTeamService(&fakeTeamRepo{store}, uploader, discardLogger())

	require.NoError(t, svc.DeleteLogo(context.Background(), 1))
	assert.Equal(t, []string{"teams/1/logo.png"}, uploader.deleted)
	assert.Nil(t, store.teams[0].LogoKey)
}
