package station

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBookingService/pkg/psqlbuilder"
)

// DBExecutor интерфейс выполнения запросов
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий станций салона
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория станций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetActiveCountByType возвращает число активных станций каждого типа
func (r *Repository) GetActiveCountByType(ctx context.Context) (map[int64]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("station_type_id", "COUNT(*)").
		From("stations").
		Where(squirrel.Eq{"active": true}).
		GroupBy("station_type_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveCountByType - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveCountByType - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	inventory := make(map[int64]int)
	for rows.Next() {
		var typeID int64
		var count int
		if err := rows.Scan(&typeID, &count); err != nil {
			return nil, fmt.Errorf("%w: GetActiveCountByType - scan count: %w", ErrScanRow, err)
		}
		inventory[typeID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActiveCountByType - rows error: %w", ErrScanRow, err)
	}

	return inventory, nil
}

// LockByTypes блокирует активные станции указанных типов (FOR UPDATE, в порядке id)
// и возвращает их количество по типам
func (r *Repository) LockByTypes(ctx context.Context, typeIDs []int64) (map[int64]int, error) {
	inventory := make(map[int64]int, len(typeIDs))
	if len(typeIDs) == 0 {
		return inventory, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "station_type_id").
		From("stations").
		Where(squirrel.Eq{"active": true}).
		Where(squirrel.Eq{"station_type_id": typeIDs}).
		OrderBy("id ASC").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: LockByTypes - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: LockByTypes - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, typeID int64
		if err := rows.Scan(&id, &typeID); err != nil {
			return nil, fmt.Errorf("%w: LockByTypes - scan station: %w", ErrScanRow, err)
		}
		inventory[typeID]++
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: LockByTypes - rows error: %w", ErrScanRow, err)
	}

	return inventory, nil
}
