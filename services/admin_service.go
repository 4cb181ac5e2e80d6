package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jdl-league/constructor-system/models"
	"github.com/jdl-league/constructor-system/repositories"
)

// DashboardCounts is the admin dashboard summary.
type DashboardCounts struct {
	Users       int64 `json:"users"`
	Players     int64 `json:"players"`
	Teams       int64 `json:"teams"`
	Tournaments int64 `json:"tournaments"`
}

// AdminService инкапсулирует административные операции над пользователями
// и сводку для панели управления.
type AdminService struct {
	users       repositories.UserRepository
	players     repositories.PlayerRepository
	teams       repositories.TeamRepository
	tournaments repositories.TournamentRepository
	logger      *slog.Logger
}

func NewAdminService(
	users repositories.UserRepository,
	players repositories.PlayerRepository,
	teams repositories.TeamRepository,
	tournaments repositories.TournamentRepository,
	logger *slog.Logger,
) *AdminService {
	return &AdminService{
		users:       users,
		players:     players,
		teams:       teams,
		tournaments: tournaments,
		logger:      logger,
	}
}

func (s *AdminService) Dashboard(ctx context.Context) (*DashboardCounts, error) {
	var counts DashboardCounts

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, total, err := s.users.List(gctx, 1, 0)
		counts.Users = total
		return err
	})
	g.Go(func() error {
		_, total, err := s.players.List(gctx, nil, 1, 0)
		counts.Players = total
		return err
	})
	g.Go(func() error {
		ids, err := s.teams.ListIDs(gctx)
		counts.Teams = int64(len(ids))
		return err
	})
	g.Go(func() error {
		_, total, err := s.tournaments.List(gctx, nil, 1, 0)
		counts.Tournaments = total
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &counts, nil
}

func (s *AdminService) ListUsers(ctx context.Context, limit, offset int64) (*models.UserList, error) {
	users, total, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return &models.UserList{Items: users, Total: total}, nil
}

func (s *AdminService) SetAdmin(ctx context.Context, id string, isAdmin bool) (*models.User, error) {
	fields := map[string]interface{}{
		"is_admin":   isAdmin,
		"updated_at": time.Now().UTC(),
	}
	if isAdmin {
		fields["role"] = models.RoleAdmin
	} else {
		fields["role"] = models.RoleGeneral
	}

	user, err := s.users.Update(ctx, id, fields)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("user admin flag changed",
		slog.String("user_id", id), slog.Bool("is_admin", isAdmin))
	return user, nil
}

func (s *AdminService) SetLocked(ctx context.Context, id string, locked bool) (*models.User, error) {
	user, err := s.users.Update(ctx, id, map[string]interface{}{
		"is_locked":  locked,
		"updated_at": time.Now().UTC(),
	})
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("user lock flag changed",
		slog.String("user_id", id), slog.Bool("is_locked", locked))
	return user, nil
}
