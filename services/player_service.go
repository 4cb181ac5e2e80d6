package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jdl-league/constructor-system/models"
	"github.com/jdl-league/constructor-system/repositories"
)

// PlayerService инкапсулирует бизнес-логику для игроков.
type PlayerService struct {
	players repositories.PlayerRepository
	teams   repositories.TeamRepository
	logger  *slog.Logger
}

func NewPlayerService(players repositories.PlayerRepository, teams repositories.TeamRepository, logger *slog.Logger) *PlayerService {
	return &PlayerService{players: players, teams: teams, logger: logger}
}

func (s *PlayerService) Create(ctx context.Context, input models.PlayerCreate) (*models.Player, error) {
	if input.Name == "" {
		return nil, ErrPlayerNameRequired
	}
	if !jdlIDPattern.MatchString(input.JDLID) {
		return nil, ErrInvalidJDLID
	}
	if !models.IsValidClass(input.CurrentClass) {
		return nil, ErrInvalidClass
	}
	if input.ParticipationCount < 0 {
		return nil, ErrNegativeParticipation
	}

	if input.TeamID != nil {
		if _, err := s.teams.GetByID(ctx, *input.TeamID); err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, fmt.Errorf("failed to verify team: %w", err)
		}
	}

	exists, err := s.players.ExistsByJDLID(ctx, input.JDLID)
	if err != nil {
		return nil, fmt.Errorf("failed to check jdl_id uniqueness: %w", err)
	}
	if exists {
		return nil, ErrJDLIDConflict
	}

	player := &models.Player{
		Name:               input.Name,
		JDLID:              input.JDLID,
		TeamID:             input.TeamID,
		ParticipationCount: input.ParticipationCount,
		CurrentClass:       input.CurrentClass,
	}
	if err := s.players.Create(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("player created",
		slog.String("player_id", player.ID.Hex()),
		slog.String("jdl_id", player.JDLID))
	return player, nil
}

// Get возвращает игрока вместе с именем его команды.
func (s *PlayerService) Get(ctx context.Context, id string) (*models.Player, error) {
	player, err := s.players.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrPlayerNotFound) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}

	if player.TeamID != nil {
		team, err := s.teams.GetByID(ctx, *player.TeamID)
		switch {
		case err == nil:
			player.TeamName = &team.Name
		case errors.Is(err, repositories.ErrTeamNotFound):
			// Битая ссылка не должна ломать чтение игрока.
			s.logger.Warn("player references missing team",
				slog.String("player_id", id), slog.String("team_id", *player.TeamID))
		default:
			return nil, err
		}
	}
	return player, nil
}

func (s *PlayerService) Update(ctx context.Context, id string, input models.PlayerUpdate) (*models.Player, error) {
	current, err := s.players.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrPlayerNotFound) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrPlayerNameRequired
		}
		fields["name"] = *input.Name
	}
	if input.TeamID != nil {
		if _, err := s.teams.GetByID(ctx, *input.TeamID); err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, fmt.Errorf("failed to verify team: %w", err)
		}
		fields["team_id"] = *input.TeamID
	}
	if input.ParticipationCount != nil {
		if *input.ParticipationCount < 0 {
			return nil, ErrNegativeParticipation
		}
		fields["participation_count"] = *input.ParticipationCount
	}
	if input.CurrentClass != nil && *input.CurrentClass != current.CurrentClass {
		if !models.IsValidClass(*input.CurrentClass) {
			return nil, ErrInvalidClass
		}
		fields["current_class"] = *input.CurrentClass
		fields["class_history"] = append(current.ClassHistory, models.ClassHistory{
			OldClass:  current.CurrentClass,
			NewClass:  *input.CurrentClass,
			ChangedAt: time.Now().UTC(),
			Reason:    "Manual update",
		})
	}

	if len(fields) == 0 {
		return current, nil
	}
	fields["updated_at"] = time.Now().UTC()

	player, err := s.players.Update(ctx, id, fields)
	if errors.Is(err, repositories.ErrPlayerNotFound) {
		return nil, ErrPlayerNotFound
	}
	return player, err
}

func (s *PlayerService) List(ctx context.Context, teamID *string, limit, offset int64) (*models.PlayerList, error) {
	players, total, err := s.players.List(ctx, teamID, limit, offset)
	if err != nil {
		return nil, err
	}
	if players == nil {
		players = []models.Player{}
	}
	return &models.PlayerList{Items: players, Total: total}, nil
}
