package services

import (
	"context"
	"errors"
	"time"

	"github.com/jdl-league/constructor-system/models"
	"github.com/jdl-league/constructor-system/repositories"
)

// SystemSettingService инкапсулирует системные настройки (ключ-значение).
type SystemSettingService struct {
	settings repositories.SystemSettingRepository
}

func NewSystemSettingService(settings repositories.SystemSettingRepository) *SystemSettingService {
	return &SystemSettingService{settings: settings}
}

func (s *SystemSettingService) Create(ctx context.Context, input models.SystemSettingCreate) (*models.SystemSetting, error) {
	if input.Key == "" {
		return nil, ErrSettingKeyRequired
	}

	now := time.Now().UTC()
	setting := &models.SystemSetting{
		Key:         input.Key,
		Value:       input.Value,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := s.settings.Create(ctx, setting)
	if errors.Is(err, repositories.ErrSettingConflict) {
		return nil, ErrSettingKeyConflict
	}
	if err != nil {
		return nil, err
	}
	return setting, nil
}

func (s *SystemSettingService) Get(ctx context.Context, key string) (*models.SystemSetting, error) {
	setting, err := s.settings.Get(ctx, key)
	if errors.Is(err, repositories.ErrSettingNotFound) {
		return nil, ErrSettingNotFound
	}
	return setting, err
}

func (s *SystemSettingService) GetAll(ctx context.Context) ([]models.SystemSetting, error) {
	settings, err := s.settings.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = []models.SystemSetting{}
	}
	return settings, nil
}

func (s *SystemSettingService) Update(ctx context.Context, key string, input models.SystemSettingUpdate) (*models.SystemSetting, error) {
	fields := map[string]interface{}{
		"value":      input.Value,
		"updated_at": time.Now().UTC(),
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}

	setting, err := s.settings.Update(ctx, key, fields)
	if errors.Is(err, repositories.ErrSettingNotFound) {
		return nil, ErrSettingNotFound
	}
	return setting, err
}

func (s *SystemSettingService) Delete(ctx context.Context, key string) error {
	err := s.settings.Delete(ctx, key)
	if errors.Is(err, repositories.ErrSettingNotFound) {
		return ErrSettingNotFound
	}
	return err
}
