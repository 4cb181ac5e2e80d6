package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jdl-league/constructor-system/models"
	"github.com/jdl-league/constructor-system/repositories"
)

// NotificationService persists in-app notifications and mirrors
// administrator-level ones to the configured admin mailbox.
type NotificationService struct {
	repo       repositories.NotificationRepository
	email      *EmailService
	adminEmail string
	logger     *slog.Logger
}

func NewNotificationService(repo repositories.NotificationRepository, email *EmailService, adminEmail string, logger *slog.Logger) *NotificationService {
	return &NotificationService{repo: repo, email: email, adminEmail: adminEmail, logger: logger}
}

func (s *NotificationService) Notify(ctx context.Context, userID, title, message, notificationType string) error {
	notification := &models.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notificationType,
		CreatedAt: time.Now().UTC(),
		Read:      false,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if notificationType == models.NotificationTypeAdmin && s.adminEmail != "" {
		// Почтовый сбой не откатывает уже сохранённое уведомление.
		if err := s.email.SendEmail([]string{s.adminEmail}, title, message); err != nil {
			s.logger.Error("failed to send admin notification email",
				slog.String("title", title), slog.Any("error", err))
		}
	}

	return nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id string) error {
	return s.repo.MarkAsRead(ctx, id)
}

func (s *NotificationService) ListUnread(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.repo.ListUnread(ctx, userID)
}
