package commit_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/integrations/clientservice"
)

// CatalogRepository интерфейс каталога услуг (без кэша: цены и длительности берутся актуальные)
type CatalogRepository interface {
	GetServicesByIDs(ctx context.Context, ids []int64) ([]domain.Service, error)
	GetCompatibilityRules(ctx context.Context, ids []int64) ([]domain.ServiceCompatibility, error)
}

// ProfessionalRepository интерфейс репозитория мастеров
type ProfessionalRepository interface {
	LockByIDs(ctx context.Context, ids []int64) ([]domain.Professional, error)
	GetAvailabilityWindows(ctx context.Context, professionalIDs []int64, dayOfWeek int) ([]domain.ProfessionalAvailability, error)
	GetBreaks(ctx context.Context, professionalIDs []int64, dayOfWeek int) ([]domain.ProfessionalBreak, error)
	GetBlockedTimes(ctx context.Context, professionalIDs []int64, date time.Time) ([]domain.ProfessionalBlockedTime, error)
}

// StationRepository интерфейс репозитория станций
type StationRepository interface {
	LockByTypes(ctx context.Context, typeIDs []int64) (map[int64]int, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetBookedIntervals(ctx context.Context, professionalIDs []int64, date time.Time) ([]domain.BookedInterval, error)
	GetStationUsage(ctx context.Context, date time.Time) ([]domain.StationUsage, error)
	CreateGroup(ctx context.Context, group *domain.AppointmentGroup) (*domain.AppointmentGroup, error)
	CreateAppointment(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
}

// SettingsRepository интерфейс репозитория настроек расписания
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.SchedulingSettings, error)
}

// ClientServiceClient интерфейс клиента справочника клиентов
type ClientServiceClient interface {
	GetClientWithGracefulDegradation(ctx context.Context, clientID int64) (*clientservice.Client, error)
}

// Publisher интерфейс публикации событий
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс метрик коммитов
type Metrics interface {
	IncCommit(result string)
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
