package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/scheduling/slots"
)

// CatalogRepository интерфейс каталога услуг
type CatalogRepository interface {
	GetServicesByIDs(ctx context.Context, ids []int64) ([]domain.Service, error)
	GetCompatibilityRules(ctx context.Context, ids []int64) ([]domain.ServiceCompatibility, error)
}

// ProfessionalRepository интерфейс репозитория мастеров и их расписаний
type ProfessionalRepository interface {
	GetQualified(ctx context.Context, serviceIDs []int64) ([]domain.Professional, error)
	GetAvailabilityWindows(ctx context.Context, professionalIDs []int64, dayOfWeek int) ([]domain.ProfessionalAvailability, error)
	GetBreaks(ctx context.Context, professionalIDs []int64, dayOfWeek int) ([]domain.ProfessionalBreak, error)
	GetBlockedTimes(ctx context.Context, professionalIDs []int64, date time.Time) ([]domain.ProfessionalBlockedTime, error)
}

// StationRepository интерфейс репозитория станций
type StationRepository interface {
	GetActiveCountByType(ctx context.Context) (map[int64]int, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetBookedIntervals(ctx context.Context, professionalIDs []int64, date time.Time) ([]domain.BookedInterval, error)
	GetStationUsage(ctx context.Context, date time.Time) ([]domain.StationUsage, error)
}

// SettingsRepository интерфейс репозитория настроек расписания
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.SchedulingSettings, error)
}

// SlotEngine интерфейс движка генерации слотов
type SlotEngine interface {
	Generate(ctx context.Context, req slots.Request) (*slots.Result, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс метрик поиска
type Metrics interface {
	ObserveSlotSearch(mode string, duration time.Duration, slots int, truncated bool)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
