package appointments

import (
	"context"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetGroupByID(ctx context.Context, id int64) (*domain.AppointmentGroup, error)
	GetAppointmentsByGroupID(ctx context.Context, groupID int64) ([]*domain.Appointment, error)
	GetAppointmentByID(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	UpdateGroupStatus(ctx context.Context, groupID int64, status domain.AppointmentStatus) error
	CancelGroup(ctx context.Context, groupID int64, reason string) error
}

// Publisher интерфейс публикации событий
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
