package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBookingService/pkg/psqlbuilder"
)

// DBExecutor интерфейс выполнения запросов
type DBExecutor = dbmetrics.DBExecutor

// Repository каталог услуг салона: услуги, требования к станциям, правила совместимости
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetServicesByIDs получает услуги вместе с требованиями к станциям.
// Порядок результата совпадает с порядком ids, отсутствующие услуги пропускаются.
func (r *Repository) GetServicesByIDs(ctx context.Context, ids []int64) ([]domain.Service, error) {
	if len(ids) == 0 {
		return []domain.Service{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"duration_minutes",
		"price",
		"category_id",
		"parallelable",
		"max_parallel_pros",
		"active",
	).
		From("services").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	byID := make(map[int64]*domain.Service, len(ids))
	for rows.Next() {
		var s domain.Service
		var categoryID sql.NullInt64
		err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.DurationMinutes,
			&s.Price,
			&categoryID,
			&s.Parallelable,
			&s.MaxParallelPros,
			&s.Active,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetServicesByIDs - scan service: %w", ErrScanRow, err)
		}
		if categoryID.Valid {
			id := categoryID.Int64
			s.CategoryID = &id
		}
		byID[s.ID] = &s
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - rows error: %w", ErrScanRow, err)
	}

	if err := r.attachRequirements(ctx, executor, byID); err != nil {
		return nil, err
	}

	services := make([]domain.Service, 0, len(byID))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			services = append(services, *s)
		}
	}

	return services, nil
}

func (r *Repository) attachRequirements(ctx context.Context, executor DBExecutor, byID map[int64]*domain.Service) error {
	if len(byID) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	query, args, err := psqlbuilder.Select("service_id", "station_type_id", "qty").
		From("service_station_requirements").
		Where(squirrel.Eq{"service_id": ids}).
		OrderBy("service_id ASC", "station_type_id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: attachRequirements - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachRequirements - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var serviceID int64
		var req domain.StationRequirement
		if err := rows.Scan(&serviceID, &req.StationTypeID, &req.Qty); err != nil {
			return fmt.Errorf("%w: attachRequirements - scan requirement: %w", ErrScanRow, err)
		}
		if s, ok := byID[serviceID]; ok {
			s.StationRequirements = append(s.StationRequirements, req)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachRequirements - rows error: %w", ErrScanRow, err)
	}

	return nil
}

// GetCompatibilityRules получает правила совместимости, в которых обе услуги из ids
func (r *Repository) GetCompatibilityRules(ctx context.Context, ids []int64) ([]domain.ServiceCompatibility, error) {
	if len(ids) < 2 {
		return []domain.ServiceCompatibility{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("service_a_id", "service_b_id", "compatible", "order_constraint").
		From("service_compatibilities").
		Where(squirrel.Eq{"service_a_id": ids}).
		Where(squirrel.Eq{"service_b_id": ids}).
		OrderBy("service_a_id ASC", "service_b_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetCompatibilityRules - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetCompatibilityRules - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]domain.ServiceCompatibility, 0)
	for rows.Next() {
		var rule domain.ServiceCompatibility
		if err := rows.Scan(&rule.ServiceAID, &rule.ServiceBID, &rule.Compatible, &rule.OrderConstraint); err != nil {
			return nil, fmt.Errorf("%w: GetCompatibilityRules - scan rule: %w", ErrScanRow, err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetCompatibilityRules - rows error: %w", ErrScanRow, err)
	}

	return rules, nil
}
