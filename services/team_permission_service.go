package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jdl-league/constructor-system/models"
	"github.com/jdl-league/constructor-system/repositories"
)

// TeamPermissionService инкапсулирует права пользователей на команды.
// Каждое изменение прав фиксируется в истории.
type TeamPermissionService struct {
	permissions repositories.TeamPermissionRepository
	histories   repositories.TeamPermissionHistoryRepository
	teams       repositories.TeamRepository
	logger      *slog.Logger
}

func NewTeamPermissionService(
	permissions repositories.TeamPermissionRepository,
	histories repositories.TeamPermissionHistoryRepository,
	teams repositories.TeamRepository,
	logger *slog.Logger,
) *TeamPermissionService {
	return &TeamPermissionService{
		permissions: permissions,
		histories:   histories,
		teams:       teams,
		logger:      logger,
	}
}

func (s *TeamPermissionService) Add(ctx context.Context, actorID string, input models.TeamPermissionCreate) (*models.TeamPermission, error) {
	if input.UserID == "" {
		return nil, ErrUserIDRequired
	}
	if input.TeamID == "" {
		return nil, ErrTeamIDRequired
	}
	if !input.Role.Valid() {
		return nil, ErrInvalidTeamRole
	}

	if _, err := s.teams.GetByID(ctx, input.TeamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	_, err := s.permissions.FindByUserAndTeam(ctx, input.UserID, input.TeamID)
	if err == nil {
		return nil, ErrPermissionConflict
	}
	if !errors.Is(err, repositories.ErrTeamPermissionNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	permission := &models.TeamPermission{
		ID:        uuid.NewString(),
		UserID:    input.UserID,
		TeamID:    input.TeamID,
		Role:      input.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.permissions.Create(ctx, permission); err != nil {
		return nil, err
	}

	s.recordHistory(ctx, permission, models.PermissionActionAdd, actorID)
	return permission, nil
}

func (s *TeamPermissionService) Update(ctx context.Context, actorID, id string, input models.TeamPermissionUpdate) (*models.TeamPermission, error) {
	if !input.Role.Valid() {
		return nil, ErrInvalidTeamRole
	}

	permission, err := s.permissions.Update(ctx, id, map[string]interface{}{
		"role":       input.Role,
		"updated_at": time.Now().UTC(),
	})
	if errors.Is(err, repositories.ErrTeamPermissionNotFound) {
		return nil, ErrPermissionNotFound
	}
	if err != nil {
		return nil, err
	}

	s.recordHistory(ctx, permission, models.PermissionActionUpdate, actorID)
	return permission, nil
}

func (s *TeamPermissionService) Remove(ctx context.Context, actorID, id string) error {
	permission, err := s.permissions.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrTeamPermissionNotFound) {
		return ErrPermissionNotFound
	}
	if err != nil {
		return err
	}

	if err := s.permissions.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTeamPermissionNotFound) {
			return ErrPermissionNotFound
		}
		return err
	}

	s.recordHistory(ctx, permission, models.PermissionActionRemove, actorID)
	return nil
}

func (s *TeamPermissionService) ListByTeam(ctx context.Context, teamID string, limit, offset int64) (*models.TeamPermissionList, error) {
	permissions, total, err := s.permissions.ListByTeam(ctx, teamID, limit, offset)
	if err != nil {
		return nil, err
	}
	if permissions == nil {
		permissions = []models.TeamPermission{}
	}
	return &models.TeamPermissionList{Permissions: permissions, Total: total}, nil
}

func (s *TeamPermissionService) History(ctx context.Context, teamID string, limit, offset int64) ([]models.TeamPermissionHistory, int64, error) {
	histories, total, err := s.histories.ListByTeam(ctx, teamID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if histories == nil {
		histories = []models.TeamPermissionHistory{}
	}
	return histories, total, nil
}

// recordHistory пишет запись аудита. Сбой записи не отменяет уже выполненное
// изменение прав.
func (s *TeamPermissionService) recordHistory(ctx context.Context, permission *models.TeamPermission, action, actorID string) {
	history := &models.TeamPermissionHistory{
		ID:        uuid.NewString(),
		TeamID:    permission.TeamID,
		UserID:    permission.UserID,
		Role:      permission.Role,
		Action:    action,
		ChangedBy: actorID,
		ChangedAt: time.Now().UTC(),
	}
	if err := s.histories.Create(ctx, history); err != nil {
		s.logger.Error("failed to record team permission history",
			slog.String("team_id", permission.TeamID),
			slog.String("action", action),
			slog.Any("error", err))
	}
}
