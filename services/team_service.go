package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dachrisch/leaguesphere/models"
	"github.com/dachrisch/leaguesphere/repositories"
	"github.com/dachrisch/leaguesphere/storage"
)

type TeamService interface {
	GetTeam(ctx context.Context, id int) (*models.Team, error)
	// ListTeams returns the real teams, placeholders stay internal.
	ListTeams(ctx context.Context) ([]*models.Team, error)
	CountTeams(ctx context.Context) (int, error)
	GetOrCreateTeam(ctx context.Context, name string) (*models.Team, error)
	UploadLogo(ctx context.Context, teamID int, contentType string, reader io.Reader) (*models.Team, error)
	DeleteLogo(ctx context.Context, teamID int) error
}

type teamService struct {
	teamRepo repositories.TeamRepository
	uploader storage.FileUploader
	logger   *slog.Logger
}

func NewTeamService(teamRepo repositories.TeamRepository, uploader storage.FileUploader, logger *slog.Logger) TeamService {
	return &teamService{teamRepo: teamRepo, uploader: uploader, logger: logger}
}

func (s *teamService) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, fmt.Errorf("%w: team %d", ErrTeamNotFound, id)
		}
		return nil, err
	}
	s.populateLogoURL(team)
	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context) ([]*models.Team, error) {
	teams, err := s.teamRepo.List(ctx, nil, false)
	if err != nil {
		return nil, err
	}
	for _, team := range teams {
		s.populateLogoURL(team)
	}
	return teams, nil
}

func (s *teamService) CountTeams(ctx context.Context) (int, error) {
	return s.teamRepo.Count(ctx, nil)
}

func (s *teamService) GetOrCreateTeam(ctx context.Context, name string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}
	team, err := s.teamRepo.GetOrCreateByName(ctx, nil, name, false)
	if err != nil {
		return nil, err
	}
	s.populateLogoURL(team)
	return team, nil
}

func (s *teamService) UploadLogo(ctx context.Context, teamID int, contentType string, reader io.Reader) (*models.Team, error) {
	if s.uploader == nil {
		return nil, ErrStorageUnavailable
	}
	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	ext := extensionForContentType(contentType)
	key := fmt.Sprintf("teams/%d/logo%s", teamID, ext)
	uploaded, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("uploading logo for team %d: %w", teamID, err)
	}

	oldKey := team.LogoKey
	if err := s.teamRepo.UpdateLogoKey(ctx, nil, teamID, &uploaded.Key); err != nil {
		return nil, err
	}
	if oldKey != nil && *oldKey != uploaded.Key {
		if delErr := s.uploader.Delete(ctx, *oldKey); delErr != nil {
			s.logger.Warn("deleting previous logo failed",
				slog.Int("team_id", teamID),
				slog.String("key", *oldKey),
				slog.Any("error", delErr))
		}
	}

	team.LogoKey = &uploaded.Key
	team.LogoURL = &uploaded.Location
	return team, nil
}

func (s *teamService) DeleteLogo(ctx context.Context, teamID int) error {
	if s.uploader == nil {
		return ErrStorageUnavailable
	}
	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if team.LogoKey == nil || *team.LogoKey == "" {
		return nil
	}
	if err := s.uploader.Delete(ctx, *team.LogoKey); err != nil {
		return fmt.Errorf("deleting logo for team %d: %w", teamID, err)
	}
	return s.teamRepo.UpdateLogoKey(ctx, nil, teamID, nil)
}

func (s *teamService) populateLogoURL(team *models.Team) {
	if team == nil || team.LogoKey == nil || *team.LogoKey == "" || s.uploader == nil {
		return
	}
	url := s.uploader.GetPublicURL(*team.LogoKey)
	if url != "" {
		team.LogoURL = &url
	}
}

func extensionForContentType(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/svg+xml":
		return ".svg"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
