package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/settings/models"
)

// Service сервис настроек расписания салона
type Service struct {
	settingsRepo SettingsRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(settingsRepo SettingsRepository, logger Logger) *Service {
	return &Service{
		settingsRepo: settingsRepo,
		logger:       logger,
	}
}

// Get получает настройки расписания.
// Если салон ещё ничего не сохранял, возвращаются значения по умолчанию
func (s *Service) Get(ctx context.Context) (*models.SettingsResponse, error) {
	s.logger.Info("Get: fetching scheduling settings")

	current, isDefault, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	return models.FromDomainSettings(current, isDefault), nil
}

// Update обновляет настройки расписания.
// Поддерживает частичное обновление - обновляются только указанные поля
func (s *Service) Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Update: updating scheduling settings by staff=%d", req.StaffID)

	// 1. Получаем текущие настройки
	current, _, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	// 2. Применяем обновления и валидируем результат
	req.ApplyToSettings(current)
	if err := validateSettings(current); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	// 3. Сохраняем
	updated, err := s.settingsRepo.Upsert(ctx, current)
	if err != nil {
		s.logger.Error("Update: repository error: %v", err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: settings saved, blockSize=%d, advanceDays=%d, notice=%d",
		updated.BlockSizeMinutes, updated.AdvanceBookingDays, updated.MinBookingNoticeMinutes)
	return models.FromDomainSettings(updated, false), nil
}

func (s *Service) current(ctx context.Context) (*domain.SchedulingSettings, bool, error) {
	current, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			return domain.DefaultSchedulingSettings(), true, nil
		}
		s.logger.Error("current: repository error: %v", err)
		return nil, false, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}
	return current, false, nil
}

// validateSettings валидирует параметры расписания
func validateSettings(s *domain.SchedulingSettings) error {
	if s.BlockSizeMinutes < domain.MinBlockSizeMinutes || s.BlockSizeMinutes > domain.MaxBlockSizeMinutes {
		return fmt.Errorf("%w: blockSizeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBlockSizeMinutes, domain.MaxBlockSizeMinutes)
	}

	if s.AdvanceBookingDays < domain.MinAdvanceBookingDays || s.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}

	if s.MinBookingNoticeMinutes < domain.MinBookingNoticeMinutes || s.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingNoticeMinutes, domain.MaxBookingNoticeMinutes)
	}

	return nil
}
