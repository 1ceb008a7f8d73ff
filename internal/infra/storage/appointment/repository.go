package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBookingService/pkg/psqlbuilder"
)

var appointmentColumns = []string{
	"id",
	"group_id",
	"client_id",
	"professional_id",
	"service_id",
	"appointment_date",
	"start_time",
	"end_time",
	"status",
	"price_at_booking",
	"created_at",
	"updated_at",
}

// Repository репозиторий записей и групп записей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

func activeStatusStrings() []string {
	out := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		out[i] = string(s)
	}
	return out
}

// GetBookedIntervals возвращает занятое время мастеров на дату.
// Учитываются только записи в статусах, занимающих время.
func (r *Repository) GetBookedIntervals(ctx context.Context, professionalIDs []int64, date time.Time) ([]domain.BookedInterval, error) {
	if len(professionalIDs) == 0 {
		return []domain.BookedInterval{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "professional_id", "start_time", "end_time").
		From("appointments").
		Where(squirrel.Eq{"professional_id": professionalIDs}).
		Where(squirrel.Eq{"appointment_date": date}).
		Where(squirrel.Eq{"status": activeStatusStrings()}).
		OrderBy("professional_id ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBookedIntervals - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBookedIntervals - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	booked := make([]domain.BookedInterval, 0)
	for rows.Next() {
		var b domain.BookedInterval
		if err := rows.Scan(&b.AppointmentID, &b.ProfessionalID, &b.StartTime, &b.EndTime); err != nil {
			return nil, fmt.Errorf("%w: GetBookedIntervals - scan interval: %w", ErrScanRow, err)
		}
		booked = append(booked, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBookedIntervals - rows error: %w", ErrScanRow, err)
	}

	return booked, nil
}

// GetStationUsage возвращает занятость станций активными записями на дату
func (r *Repository) GetStationUsage(ctx context.Context, date time.Time) ([]domain.StationUsage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("a.id", "req.station_type_id", "req.qty", "a.start_time", "a.end_time").
		From("appointments a").
		Join("service_station_requirements req ON req.service_id = a.service_id").
		Where(squirrel.Eq{"a.appointment_date": date}).
		Where(squirrel.Eq{"a.status": activeStatusStrings()}).
		OrderBy("req.station_type_id ASC", "a.start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetStationUsage - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetStationUsage - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	usage := make([]domain.StationUsage, 0)
	for rows.Next() {
		var u domain.StationUsage
		if err := rows.Scan(&u.AppointmentID, &u.StationTypeID, &u.Qty, &u.StartTime, &u.EndTime); err != nil {
			return nil, fmt.Errorf("%w: GetStationUsage - scan usage: %w", ErrScanRow, err)
		}
		usage = append(usage, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetStationUsage - rows error: %w", ErrScanRow, err)
	}

	return usage, nil
}

// CreateGroup создает группу записей.
// Если в контексте передана активная транзакция, использует её.
func (r *Repository) CreateGroup(ctx context.Context, group *domain.AppointmentGroup) (*domain.AppointmentGroup, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointment_groups").
		Columns(
			"client_id",
			"appointment_date",
			"total_duration_minutes",
			"total_price",
			"start_time",
			"end_time",
			"status",
			"notes",
		).
		Values(
			group.ClientID,
			group.AppointmentDate,
			group.TotalDurationMinutes,
			group.TotalPrice,
			group.StartTime,
			group.EndTime,
			group.Status,
			group.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateGroup - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&group.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateGroup - execute insert: %w", ErrExecQuery, err)
	}

	group.CreatedAt = createdAt.Time
	group.UpdatedAt = updatedAt.Time

	return group, nil
}

// CreateAppointment создает запись на одну услугу
func (r *Repository) CreateAppointment(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"group_id",
			"client_id",
			"professional_id",
			"service_id",
			"appointment_date",
			"start_time",
			"end_time",
			"status",
			"price_at_booking",
		).
		Values(
			appointment.GroupID,
			appointment.ClientID,
			appointment.ProfessionalID,
			appointment.ServiceID,
			appointment.AppointmentDate,
			appointment.StartTime,
			appointment.EndTime,
			appointment.Status,
			appointment.PriceAtBooking,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateAppointment - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&appointment.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateAppointment - execute insert: %w", ErrExecQuery, err)
	}

	appointment.CreatedAt = createdAt.Time
	appointment.UpdatedAt = updatedAt.Time

	return appointment, nil
}

// GetGroupByID получает группу записей по ID (без вложенных записей).
// В транзакции строка блокируется FOR UPDATE.
func (r *Repository) GetGroupByID(ctx context.Context, id int64) (*domain.AppointmentGroup, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"client_id",
		"appointment_date",
		"total_duration_minutes",
		"total_price",
		"start_time",
		"end_time",
		"status",
		"notes",
		"cancellation_reason",
		"cancelled_at",
		"created_at",
		"updated_at",
	).
		From("appointment_groups").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetGroupByID - build select query: %w", ErrBuildQuery, err)
	}

	var group domain.AppointmentGroup
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&group.ID,
		&group.ClientID,
		&group.AppointmentDate,
		&group.TotalDurationMinutes,
		&group.TotalPrice,
		&group.StartTime,
		&group.EndTime,
		&group.Status,
		&group.Notes,
		&group.CancellationReason,
		&group.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetGroupByID - scan group: %w", ErrScanRow, err)
	}

	group.CreatedAt = createdAt.Time
	group.UpdatedAt = updatedAt.Time

	return &group, nil
}

// GetAppointmentsByGroupID получает записи группы в порядке начала
func (r *Repository) GetAppointmentsByGroupID(ctx context.Context, groupID int64) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"group_id": groupID}).
		OrderBy("start_time ASC", "professional_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetAppointmentsByGroupID - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAppointmentsByGroupID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// GetAppointmentByID получает запись по ID. В транзакции строка блокируется.
func (r *Repository) GetAppointmentByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetAppointmentByID - build select query: %w", ErrBuildQuery, err)
	}

	appointment, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetAppointmentByID - scan appointment: %w", ErrScanRow, err)
	}

	return appointment, nil
}

// List получает записи на дату для доски салона.
// Без фильтра по статусу отменённые записи не возвращаются.
func (r *Repository) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"appointment_date": filter.Date})

	if filter.ProfessionalID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"professional_id": *filter.ProfessionalID})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": string(domain.StatusCancelled)})
	}

	query, args, err := selectBuilder.OrderBy("start_time ASC", "professional_id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", string(status)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// UpdateGroupStatus обновляет статус группы
func (r *Repository) UpdateGroupStatus(ctx context.Context, groupID int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointment_groups").
		Set("status", string(status)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": groupID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateGroupStatus - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateGroupStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateGroupStatus - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrGroupNotFound
	}

	return nil
}

// CancelGroup отменяет группу с указанием причины и все её ещё не начатые записи
func (r *Repository) CancelGroup(ctx context.Context, groupID int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointment_groups").
		Set("status", string(domain.StatusCancelled)).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": groupID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: CancelGroup - build group update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: CancelGroup - execute group update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: CancelGroup - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrGroupNotFound
	}

	query, args, err = psqlbuilder.Update("appointments").
		Set("status", string(domain.StatusCancelled)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"group_id": groupID}).
		Where(squirrel.Eq{"status": []string{string(domain.StatusScheduled), string(domain.StatusConfirmed)}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: CancelGroup - build appointments update query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CancelGroup - execute appointments update: %w", ErrExecQuery, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appointment domain.Appointment
	var groupID sql.NullInt64
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appointment.ID,
		&groupID,
		&appointment.ClientID,
		&appointment.ProfessionalID,
		&appointment.ServiceID,
		&appointment.AppointmentDate,
		&appointment.StartTime,
		&appointment.EndTime,
		&appointment.Status,
		&appointment.PriceAtBooking,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if groupID.Valid {
		id := groupID.Int64
		appointment.GroupID = &id
	}
	appointment.CreatedAt = createdAt.Time
	appointment.UpdatedAt = updatedAt.Time

	return &appointment, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func (r *Repository) scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan appointment: %w", ErrScanRow, err)
		}
		appointments = append(appointments, appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %w", ErrScanRow, err)
	}

	return appointments, nil
}
