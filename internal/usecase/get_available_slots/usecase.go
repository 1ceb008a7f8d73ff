package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-SalonBookingService/internal/scheduling/capacity"
	"github.com/m04kA/SMC-SalonBookingService/internal/scheduling/requirements"
	"github.com/m04kA/SMC-SalonBookingService/internal/scheduling/schedule"
	"github.com/m04kA/SMC-SalonBookingService/internal/scheduling/slots"
)

const (
	DefaultSearchTimeout = 2 * time.Second

	modeSingle = "single"
	modeMulti  = "multi"
)

// Config параметры поиска
type Config struct {
	SearchTimeout time.Duration // дедлайн перебора, по истечении ответ помечается truncated
}

// snapshot всё, что прочитано из БД для одного поиска
type snapshot struct {
	settings *domain.SchedulingSettings
	services []domain.Service
	rules    []domain.ServiceCompatibility
	data     slots.Snapshot
}

// UseCase use case поиска свободных слотов для набора услуг
type UseCase struct {
	catalog       CatalogRepository
	professionals ProfessionalRepository
	stations      StationRepository
	appointments  AppointmentRepository
	settingsRepo  SettingsRepository
	engine        SlotEngine
	txManager     TransactionManager
	metrics       Metrics
	timeProvider  TimeProvider
	logger        Logger
	searchTimeout time.Duration
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	catalog CatalogRepository,
	professionals ProfessionalRepository,
	stations StationRepository,
	appointments AppointmentRepository,
	settings SettingsRepository,
	engine SlotEngine,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
	cfg Config,
) *UseCase {
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = DefaultSearchTimeout
	}
	return &UseCase{
		catalog:       catalog,
		professionals: professionals,
		stations:      stations,
		appointments:  appointments,
		settingsRepo:  settings,
		engine:        engine,
		txManager:     txManager,
		metrics:       metrics,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
		searchTimeout: cfg.SearchTimeout,
	}
}

// Execute выполняет поиск слотов.
// Все данные читаются один раз в read-only транзакции, затем движок работает только с памятью.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: services=%v, date=%s, professionals=%d, explicit=%v",
		req.ServiceIDs, req.Date.Format(domain.DateFormat), req.ProfessionalsRequested, req.ProfessionalIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()
	if isDateInPast(req.Date, now) {
		uc.logger.Warn("GetAvailableSlots: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 3. Читаем согласованный снимок данных
	var snap *snapshot
	err := uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		snap, err = uc.load(txCtx, req, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	// 4. Нормализуем набор услуг
	set, err := requirements.Normalize(snap.services, snap.rules)
	if err != nil {
		if errors.Is(err, requirements.ErrIncompatibleServiceSet) || errors.Is(err, requirements.ErrInvalidService) {
			uc.logger.Warn("GetAvailableSlots: incompatible service set %v: %v", req.ServiceIDs, err)
			return nil, fmt.Errorf("%w: %v", ErrIncompatibleServiceSet, err)
		}
		uc.logger.Error("GetAvailableSlots: failed to normalize services: %v", err)
		return nil, fmt.Errorf("%w: failed to normalize services: %v", ErrInternal, err)
	}

	// 5. Запускаем движок с дедлайном
	searchCtx, cancel := context.WithTimeout(ctx, uc.searchTimeout)
	defer cancel()

	started := time.Now()
	result, err := uc.engine.Generate(searchCtx, slots.Request{
		Set:                    set,
		Date:                   req.Date,
		Now:                    now,
		StepMinutes:            snap.settings.BlockSizeMinutes,
		MinNoticeMinutes:       snap.settings.MinBookingNoticeMinutes,
		ProfessionalsRequested: req.ProfessionalsRequested,
		ProfessionalIDs:        req.ProfessionalIDs,
		Snapshot:               snap.data,
	})
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrUnsatisfiableProfessionalCount):
			uc.logger.Warn("GetAvailableSlots: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrUnsatisfiableProfessionalCount, err)
		case errors.Is(err, slots.ErrInvalidDate):
			return nil, ErrInvalidDate
		case errors.Is(err, schedule.ErrMalformedSchedule):
			uc.logger.Error("GetAvailableSlots: salon schedule is misconfigured: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrMalformedSchedule, err)
		case errors.Is(err, slots.ErrInvalidRequest):
			uc.logger.Warn("GetAvailableSlots: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		default:
			uc.logger.Error("GetAvailableSlots: slot generation failed: %v", err)
			return nil, fmt.Errorf("%w: slot generation failed: %v", ErrInternal, err)
		}
	}

	mode := modeSingle
	if result.ProfessionalsUsed > 1 {
		mode = modeMulti
	}
	uc.metrics.ObserveSlotSearch(mode, time.Since(started), len(result.Slots), result.Truncated)

	if result.Truncated {
		uc.logger.Warn("GetAvailableSlots: search truncated after %d slots, services=%v date=%s",
			len(result.Slots), req.ServiceIDs, req.Date.Format(domain.DateFormat))
	}

	// 6. Пагинация по полному списку
	all := toResponseSlots(result.Slots)

	uc.logger.Info("GetAvailableSlots: found %d slots (professionals=%d, truncated=%t)",
		len(all), result.ProfessionalsUsed, result.Truncated)

	return &Response{
		Date:              req.Date,
		Slots:             paginate(all, req.Limit, req.Offset),
		Total:             len(all),
		Truncated:         result.Truncated,
		ProfessionalsUsed: result.ProfessionalsUsed,
	}, nil
}

// load читает настройки, каталог, расписания и занятость станций на дату
func (uc *UseCase) load(ctx context.Context, req *Request, now time.Time) (*snapshot, error) {
	// 3.1. Настройки салона, при отсутствии - значения по умолчанию
	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			uc.logger.Error("GetAvailableSlots: failed to get settings: %v", err)
			return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}
		settings = domain.DefaultSchedulingSettings()
	}

	if err := validateDate(req.Date, now, settings.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 3.2. Услуги и правила совместимости
	services, err := uc.catalog.GetServicesByIDs(ctx, req.ServiceIDs)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get services %v: %v", req.ServiceIDs, err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}
	if len(services) != len(req.ServiceIDs) {
		uc.logger.Warn("GetAvailableSlots: some of services %v not found", req.ServiceIDs)
		return nil, ErrServiceNotFound
	}
	for _, s := range services {
		if !s.Active {
			uc.logger.Warn("GetAvailableSlots: service id=%d is not active", s.ID)
			return nil, fmt.Errorf("%w: service id=%d is not active", ErrServiceNotFound, s.ID)
		}
	}

	rules, err := uc.catalog.GetCompatibilityRules(ctx, req.ServiceIDs)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get compatibility rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get compatibility rules: %v", ErrInternal, err)
	}

	// 3.3. Мастера и их расписания на дату
	professionals, err := uc.professionals.GetQualified(ctx, req.ServiceIDs)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get professionals: %v", err)
		return nil, fmt.Errorf("%w: failed to get professionals: %v", ErrInternal, err)
	}

	ids := make([]int64, len(professionals))
	for i, p := range professionals {
		ids[i] = p.ID
	}
	dayOfWeek := schedule.DayOfWeek(req.Date)

	windows, err := uc.professionals.GetAvailabilityWindows(ctx, ids, dayOfWeek)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get availability: %v", err)
		return nil, fmt.Errorf("%w: failed to get availability: %v", ErrInternal, err)
	}
	breaks, err := uc.professionals.GetBreaks(ctx, ids, dayOfWeek)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get breaks: %v", err)
		return nil, fmt.Errorf("%w: failed to get breaks: %v", ErrInternal, err)
	}
	blocks, err := uc.professionals.GetBlockedTimes(ctx, ids, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get blocked times: %v", err)
		return nil, fmt.Errorf("%w: failed to get blocked times: %v", ErrInternal, err)
	}
	booked, err := uc.appointments.GetBookedIntervals(ctx, ids, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get booked intervals: %v", err)
		return nil, fmt.Errorf("%w: failed to get booked intervals: %v", ErrInternal, err)
	}

	// 3.4. Станции
	inventory, err := uc.stations.GetActiveCountByType(ctx)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get stations: %v", err)
		return nil, fmt.Errorf("%w: failed to get stations: %v", ErrInternal, err)
	}
	stationUsage, err := uc.appointments.GetStationUsage(ctx, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get station usage: %v", err)
		return nil, fmt.Errorf("%w: failed to get station usage: %v", ErrInternal, err)
	}
	occupied, err := capacity.FromStationUsage(stationUsage)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: malformed station usage: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrMalformedSchedule, err)
	}

	return &snapshot{
		settings: settings,
		services: services,
		rules:    rules,
		data: slots.Snapshot{
			Professionals: professionals,
			Days:          schedule.Days(ids, windows, breaks, blocks, booked),
			Tracker:       capacity.NewTracker(inventory, occupied),
		},
	}, nil
}
