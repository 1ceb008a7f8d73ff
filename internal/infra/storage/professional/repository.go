package professional

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBookingService/pkg/psqlbuilder"
)

// DBExecutor интерфейс выполнения запросов
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий мастеров и их расписаний
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория мастеров
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetQualified получает активных мастеров, выполняющих хотя бы одну из услуг.
// У каждого мастера заполнен полный список его услуг. Результат отсортирован по id.
func (r *Repository) GetQualified(ctx context.Context, serviceIDs []int64) ([]domain.Professional, error) {
	if len(serviceIDs) == 0 {
		return []domain.Professional{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("p.id", "p.name", "p.active", "ps.service_id").
		From("professionals p").
		Join("professional_services ps ON ps.professional_id = p.id").
		Where(squirrel.Eq{"p.active": true}).
		Where(squirrel.Expr(
			"p.id IN (SELECT professional_id FROM professional_services WHERE service_id = ANY(?))",
			pq.Array(serviceIDs),
		)).
		OrderBy("p.id ASC", "ps.service_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetQualified - build select query: %w", ErrBuildQuery, err)
	}

	return r.queryProfessionals(ctx, executor, "GetQualified", query, args)
}

// LockByIDs блокирует строки мастеров до конца транзакции (FOR UPDATE) в порядке id
// и возвращает их вместе со списком услуг
func (r *Repository) LockByIDs(ctx context.Context, ids []int64) ([]domain.Professional, error) {
	if len(ids) == 0 {
		return []domain.Professional{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	lockQuery, lockArgs, err := psqlbuilder.Select("id").
		From("professionals").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id ASC").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: LockByIDs - build lock query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, lockQuery, lockArgs...)
	if err != nil {
		return nil, fmt.Errorf("%w: LockByIDs - execute lock query: %w", ErrExecQuery, err)
	}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("%w: LockByIDs - scan locked id: %w", ErrScanRow, err)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: LockByIDs - rows error: %w", ErrScanRow, err)
	}

	query, args, err := psqlbuilder.Select("p.id", "p.name", "p.active", "ps.service_id").
		From("professionals p").
		Join("professional_services ps ON ps.professional_id = p.id").
		Where(squirrel.Eq{"p.id": ids}).
		OrderBy("p.id ASC", "ps.service_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: LockByIDs - build select query: %w", ErrBuildQuery, err)
	}

	return r.queryProfessionals(ctx, executor, "LockByIDs", query, args)
}

func (r *Repository) queryProfessionals(ctx context.Context, executor DBExecutor, method, query string, args []interface{}) ([]domain.Professional, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, method, err)
	}
	defer rows.Close()

	professionals := make([]domain.Professional, 0)
	for rows.Next() {
		var p domain.Professional
		var serviceID int64
		if err := rows.Scan(&p.ID, &p.Name, &p.Active, &serviceID); err != nil {
			return nil, fmt.Errorf("%w: %s - scan professional: %w", ErrScanRow, method, err)
		}

		last := len(professionals) - 1
		if last >= 0 && professionals[last].ID == p.ID {
			professionals[last].ServiceIDs = append(professionals[last].ServiceIDs, serviceID)
			continue
		}
		p.ServiceIDs = []int64{serviceID}
		professionals = append(professionals, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, method, err)
	}

	return professionals, nil
}

// GetAvailabilityWindows получает еженедельные окна работы мастеров на день недели
func (r *Repository) GetAvailabilityWindows(ctx context.Context, professionalIDs []int64, dayOfWeek int) ([]domain.ProfessionalAvailability, error) {
	if len(professionalIDs) == 0 {
		return []domain.ProfessionalAvailability{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "professional_id", "day_of_week", "start_time", "end_time").
		From("professional_availabilities").
		Where(squirrel.Eq{"professional_id": professionalIDs}).
		Where(squirrel.Eq{"day_of_week": dayOfWeek}).
		OrderBy("professional_id ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetAvailabilityWindows - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAvailabilityWindows - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	windows := make([]domain.ProfessionalAvailability, 0)
	for rows.Next() {
		var w domain.ProfessionalAvailability
		if err := rows.Scan(&w.ID, &w.ProfessionalID, &w.DayOfWeek, &w.StartTime, &w.EndTime); err != nil {
			return nil, fmt.Errorf("%w: GetAvailabilityWindows - scan window: %w", ErrScanRow, err)
		}
		windows = append(windows, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAvailabilityWindows - rows error: %w", ErrScanRow, err)
	}

	return windows, nil
}

// GetBreaks получает еженедельные перерывы мастеров на день недели
func (r *Repository) GetBreaks(ctx context.Context, professionalIDs []int64, dayOfWeek int) ([]domain.ProfessionalBreak, error) {
	if len(professionalIDs) == 0 {
		return []domain.ProfessionalBreak{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "professional_id", "day_of_week", "start_time", "end_time", "name").
		From("professional_breaks").
		Where(squirrel.Eq{"professional_id": professionalIDs}).
		Where(squirrel.Eq{"day_of_week": dayOfWeek}).
		OrderBy("professional_id ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBreaks - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBreaks - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	breaks := make([]domain.ProfessionalBreak, 0)
	for rows.Next() {
		var b domain.ProfessionalBreak
		if err := rows.Scan(&b.ID, &b.ProfessionalID, &b.DayOfWeek, &b.StartTime, &b.EndTime, &b.Name); err != nil {
			return nil, fmt.Errorf("%w: GetBreaks - scan break: %w", ErrScanRow, err)
		}
		breaks = append(breaks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBreaks - rows error: %w", ErrScanRow, err)
	}

	return breaks, nil
}

// GetBlockedTimes получает разовые блокировки мастеров на дату
func (r *Repository) GetBlockedTimes(ctx context.Context, professionalIDs []int64, date time.Time) ([]domain.ProfessionalBlockedTime, error) {
	if len(professionalIDs) == 0 {
		return []domain.ProfessionalBlockedTime{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "professional_id", "date", "start_time", "end_time", "reason", "block_type").
		From("professional_blocked_times").
		Where(squirrel.Eq{"professional_id": professionalIDs}).
		Where(squirrel.Eq{"date": date}).
		OrderBy("professional_id ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockedTimes - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockedTimes - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks := make([]domain.ProfessionalBlockedTime, 0)
	for rows.Next() {
		var b domain.ProfessionalBlockedTime
		if err := rows.Scan(&b.ID, &b.ProfessionalID, &b.Date, &b.StartTime, &b.EndTime, &b.Reason, &b.BlockType); err != nil {
			return nil, fmt.Errorf("%w: GetBlockedTimes - scan blocked time: %w", ErrScanRow, err)
		}
		blocks = append(blocks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBlockedTimes - rows error: %w", ErrScanRow, err)
	}

	return blocks, nil
}
