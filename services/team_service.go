package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jdl-league/constructor-system/models"
	"github.com/jdl-league/constructor-system/repositories"
	"github.com/jdl-league/constructor-system/storage"
)

// TeamService инкапсулирует бизнес-логику для команд.
type TeamService struct {
	teams    repositories.TeamRepository
	players  repositories.PlayerRepository
	uploader storage.FileUploader
	logger   *slog.Logger
}

func NewTeamService(teams repositories.TeamRepository, players repositories.PlayerRepository, uploader storage.FileUploader, logger *slog.Logger) *TeamService {
	return &TeamService{teams: teams, players: players, uploader: uploader, logger: logger}
}

func (s *TeamService) Create(ctx context.Context, managerID string, input models.TeamCreate) (*models.Team, error) {
	if input.Name == "" {
		return nil, ErrTeamNameRequired
	}

	exists, err := s.teams.ExistsByName(ctx, input.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check team name uniqueness: %w", err)
	}
	if exists {
		return nil, ErrTeamNameConflict
	}

	team := &models.Team{
		Name:        input.Name,
		Description: input.Description,
		LogoURL:     input.LogoURL,
		ManagerID:   managerID,
		Status:      models.TeamStatusActive,
	}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, err
	}

	s.logger.Info("team created",
		slog.String("team_id", team.ID.Hex()),
		slog.String("manager_id", managerID))
	return team, nil
}

func (s *TeamService) Get(ctx context.Context, id string) (*models.Team, error) {
	team, err := s.teams.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrTeamNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}

	count, err := s.players.CountByTeamID(ctx, id)
	if err != nil {
		return nil, err
	}
	team.MemberCount = count
	return team, nil
}

// Update разрешён только менеджеру команды или администратору.
func (s *TeamService) Update(ctx context.Context, actorID, actorRole, id string, input models.TeamUpdate) (*models.Team, error) {
	current, err := s.teams.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrTeamNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}

	if actorRole != models.RoleAdmin && current.ManagerID != actorID {
		return nil, ErrManagerOnly
	}

	fields := map[string]interface{}{}

	if input.Name != nil && *input.Name != current.Name {
		if *input.Name == "" {
			return nil, ErrTeamNameRequired
		}
		exists, err := s.teams.ExistsByName(ctx, *input.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check team name uniqueness: %w", err)
		}
		if exists {
			return nil, ErrTeamNameConflict
		}
		fields["name"] = *input.Name
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.LogoURL != nil {
		fields["logo_url"] = *input.LogoURL
	}
	if input.ManagerID != nil {
		if actorRole != models.RoleAdmin {
			return nil, ErrAdminOnly
		}
		fields["manager_id"] = *input.ManagerID
	}

	if len(fields) == 0 {
		return current, nil
	}
	fields["updated_at"] = time.Now().UTC()

	team, err := s.teams.Update(ctx, id, fields)
	if errors.Is(err, repositories.ErrTeamNotFound) {
		return nil, ErrTeamNotFound
	}
	return team, err
}

func (s *TeamService) ListActive(ctx context.Context) ([]models.Team, error) {
	teams, err := s.teams.ListByStatus(ctx, models.TeamStatusActive)
	if err != nil {
		return nil, err
	}
	for i := range teams {
		count, err := s.players.CountByTeamID(ctx, teams[i].ID.Hex())
		if err != nil {
			return nil, err
		}
		teams[i].MemberCount = count
	}
	if teams == nil {
		teams = []models.Team{}
	}
	return teams, nil
}

// UploadLogo загружает логотип команды в объектное хранилище и обновляет
// документ команды. Старый объект удаляется по принципу best effort.
func (s *TeamService) UploadLogo(ctx context.Context, actorID, actorRole, id, contentType string, reader io.Reader) (*models.Team, error) {
	current, err := s.teams.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrTeamNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}

	if actorRole != models.RoleAdmin && current.ManagerID != actorID {
		return nil, ErrManagerOnly
	}

	key := fmt.Sprintf("teams/%s/logo-%s", id, uuid.NewString())
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to upload team logo: %w", err)
	}

	if current.LogoKey != nil && *current.LogoKey != "" {
		if err := s.uploader.Delete(ctx, *current.LogoKey); err != nil {
			s.logger.Warn("failed to delete previous team logo",
				slog.String("team_id", id), slog.String("key", *current.LogoKey), slog.Any("error", err))
		}
	}

	team, err := s.teams.Update(ctx, id, map[string]interface{}{
		"logo_url":   result.Location,
		"logo_key":   result.Key,
		"updated_at": time.Now().UTC(),
	})
	if errors.Is(err, repositories.ErrTeamNotFound) {
		return nil, ErrTeamNotFound
	}
	return team, err
}
