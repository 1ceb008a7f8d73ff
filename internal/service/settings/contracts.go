package settings

import (
	"context"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек расписания
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.SchedulingSettings, error)
	Upsert(ctx context.Context, settings *domain.SchedulingSettings) (*domain.SchedulingSettings, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
