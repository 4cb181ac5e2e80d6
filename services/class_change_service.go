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

// ClassChangeService инкапсулирует заявки на смену класса игрока и их
// рассмотрение администратором.
type ClassChangeService struct {
	histories     repositories.ClassChangeRepository
	players       repositories.PlayerRepository
	notifications *NotificationService
	logger        *slog.Logger
}

func NewClassChangeService(
	histories repositories.ClassChangeRepository,
	players repositories.PlayerRepository,
	notifications *NotificationService,
	logger *slog.Logger,
) *ClassChangeService {
	return &ClassChangeService{
		histories:     histories,
		players:       players,
		notifications: notifications,
		logger:        logger,
	}
}

func (s *ClassChangeService) Request(ctx context.Context, requesterID string, input models.ClassChangeRequest) (*models.ClassChangeHistory, error) {
	if !models.IsValidClass(input.NewClass) {
		return nil, ErrInvalidClass
	}
	if input.Reason == "" {
		return nil, ErrReasonRequired
	}

	player, err := s.players.GetByID(ctx, input.PlayerID)
	if errors.Is(err, repositories.ErrPlayerNotFound) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	if player.CurrentClass == input.NewClass {
		return nil, ErrSameClass
	}

	history := &models.ClassChangeHistory{
		PlayerID:    input.PlayerID,
		OldClass:    player.CurrentClass,
		NewClass:    input.NewClass,
		Reason:      input.Reason,
		RequestedBy: requesterID,
		RequestedAt: time.Now().UTC(),
		Status:      models.ClassChangeStatusPending,
	}
	if err := s.histories.Create(ctx, history); err != nil {
		return nil, err
	}

	s.logger.Info("class change requested",
		slog.String("player_id", input.PlayerID),
		slog.String("old_class", history.OldClass),
		slog.String("new_class", history.NewClass))
	return history, nil
}

// Approve рассматривает заявку. Только pending-заявки подлежат рассмотрению;
// при одобрении класс игрока и запись истории меняются атомарно.
func (s *ClassChangeService) Approve(ctx context.Context, approverID, historyID string, input models.ClassChangeApproval) (*models.ClassChangeHistory, error) {
	history, err := s.histories.GetByID(ctx, historyID)
	if errors.Is(err, repositories.ErrClassChangeNotFound) {
		return nil, ErrClassChangeNotFound
	}
	if err != nil {
		return nil, err
	}
	if history.Status != models.ClassChangeStatusPending {
		return nil, ErrAlreadyProcessed
	}

	status := models.ClassChangeStatusRejected
	if input.Approved {
		status = models.ClassChangeStatusApproved
	}

	updated, err := s.histories.ApplyApproval(ctx, historyID, history.PlayerID, repositories.ClassChangeApprovalUpdate{
		Status:     status,
		ApprovedBy: approverID,
		ApprovedAt: time.Now().UTC(),
		Comment:    input.Comment,
		NewClass:   history.NewClass,
		Approved:   input.Approved,
	})
	switch {
	case errors.Is(err, repositories.ErrClassChangeNotFound):
		return nil, ErrClassChangeNotFound
	case errors.Is(err, repositories.ErrPlayerNotFound):
		return nil, ErrPlayerNotFound
	case err != nil:
		return nil, err
	}

	title := fmt.Sprintf("Class change request %s", status)
	message := fmt.Sprintf("Request to change player %s from class %s to %s was %s.",
		history.PlayerID, history.OldClass, history.NewClass, status)
	if err := s.notifications.Notify(ctx, history.RequestedBy, title, message, models.NotificationTypeSystem); err != nil {
		// Заявка уже рассмотрена; сбой уведомления не откатывает результат.
		s.logger.Error("failed to notify requester about class change decision",
			slog.String("history_id", historyID), slog.Any("error", err))
	}

	s.logger.Info("class change processed",
		slog.String("history_id", historyID),
		slog.String("status", status),
		slog.String("approved_by", approverID))
	return updated, nil
}

func (s *ClassChangeService) ListByPlayer(ctx context.Context, playerID string, limit, offset int64) ([]models.ClassChangeHistory, error) {
	histories, err := s.histories.ListByPlayer(ctx, playerID, limit, offset)
	if err != nil {
		return nil, err
	}
	if histories == nil {
		histories = []models.ClassChangeHistory{}
	}
	return histories, nil
}
