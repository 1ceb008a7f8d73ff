package commit_appointment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/settings"
	clientClient "github.com/m04kA/SMC-SalonBookingService/internal/integrations/clientservice"
	"github.com/m04kA/SMC-SalonBookingService/internal/scheduling/capacity"
	"github.com/m04kA/SMC-SalonBookingService/internal/scheduling/requirements"
	"github.com/m04kA/SMC-SalonBookingService/internal/scheduling/schedule"
	"github.com/m04kA/SMC-SalonBookingService/pkg/messaging"
	"github.com/m04kA/SMC-SalonBookingService/pkg/metrics"
	"github.com/m04kA/SMC-SalonBookingService/pkg/txmanager"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// UseCase use case записи клиента на выбранный слот
type UseCase struct {
	catalog       CatalogRepository
	professionals ProfessionalRepository
	stations      StationRepository
	appointments  AppointmentRepository
	settingsRepo  SettingsRepository
	clientClient  ClientServiceClient
	publisher     Publisher
	txManager     TransactionManager
	metrics       Metrics
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	catalog CatalogRepository,
	professionals ProfessionalRepository,
	stations StationRepository,
	appointments AppointmentRepository,
	settings SettingsRepository,
	clientClient ClientServiceClient,
	publisher Publisher,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalog:       catalog,
		professionals: professionals,
		stations:      stations,
		appointments:  appointments,
		settingsRepo:  settings,
		clientClient:  clientClient,
		publisher:     publisher,
		txManager:     txManager,
		metrics:       metrics,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute записывает клиента на слот.
// Всё, что прислал клиент, перепроверяется в сериализуемой транзакции под блокировками мастеров и станций.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CommitAppointment: client=%d, date=%s, assignments=%d",
		req.ClientID, req.Date.Format(domain.DateFormat), len(req.Assignments))

	group, err := uc.execute(ctx, req)
	if err != nil {
		uc.metrics.IncCommit(commitResult(err))
		return nil, err
	}
	uc.metrics.IncCommit(metrics.CommitResultSuccess)

	uc.logger.Info("CommitAppointment: created group id=%d with %d appointments", group.ID, len(group.Appointments))

	// Событие публикуется после фиксации транзакции, ошибка публикации запись не отменяет
	uc.publishCreated(ctx, group)

	return toResponse(group), nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*domain.AppointmentGroup, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CommitAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()
	if isDateInPast(req.Date, now) {
		uc.logger.Warn("CommitAppointment: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 3. Проверяем клиента в справочнике
	if _, err := uc.clientClient.GetClientWithGracefulDegradation(ctx, req.ClientID); err != nil {
		if errors.Is(err, clientClient.ErrClientNotFound) {
			uc.logger.Warn("CommitAppointment: client id=%d not found", req.ClientID)
			return nil, ErrClientNotFound
		}
		uc.logger.Warn("CommitAppointment: client directory unavailable, continue without check: %v", err)
	}

	var result *domain.AppointmentGroup

	// 4. Перепроверка и вставка в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		group, err := uc.commit(txCtx, req, now)
		if err != nil {
			return err
		}
		result = group
		return nil
	})
	if err != nil {
		if errors.Is(err, txmanager.ErrSerialization) {
			uc.logger.Warn("CommitAppointment: lost concurrent commit race: %v", err)
			return nil, fmt.Errorf("%w: %w", ErrSlotNoLongerAvailable, err)
		}
		return nil, err
	}

	return result, nil
}

// commit выполняет шаги внутри транзакции
func (uc *UseCase) commit(ctx context.Context, req *Request, now time.Time) (*domain.AppointmentGroup, error) {
	// 4.1. Настройки салона
	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			uc.logger.Error("CommitAppointment: failed to get settings: %v", err)
			return nil, fmt.Errorf("%w: failed to get settings: %w", ErrInternal, err)
		}
		settings = domain.DefaultSchedulingSettings()
	}

	if err := validateDate(req.Date, now, settings.AdvanceBookingDays); err != nil {
		uc.logger.Warn("CommitAppointment: date validation failed: %v", err)
		return nil, err
	}

	// 4.2. Услуги из каталога: длительность и цена берутся оттуда
	serviceIDs := make([]int64, len(req.Assignments))
	for i, a := range req.Assignments {
		serviceIDs[i] = a.ServiceID
	}

	services, err := uc.catalog.GetServicesByIDs(ctx, serviceIDs)
	if err != nil {
		uc.logger.Error("CommitAppointment: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %w", ErrInternal, err)
	}
	if len(services) != len(serviceIDs) {
		uc.logger.Warn("CommitAppointment: some of services %v not found", serviceIDs)
		return nil, ErrServiceNotFound
	}
	for _, s := range services {
		if !s.Active {
			return nil, fmt.Errorf("%w: service id=%d is not active", ErrServiceNotFound, s.ID)
		}
	}

	rules, err := uc.catalog.GetCompatibilityRules(ctx, serviceIDs)
	if err != nil {
		uc.logger.Error("CommitAppointment: failed to get compatibility rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get compatibility rules: %w", ErrInternal, err)
	}

	set, err := requirements.Normalize(services, rules)
	if err != nil {
		uc.logger.Warn("CommitAppointment: incompatible service set %v: %v", serviceIDs, err)
		return nil, fmt.Errorf("%w: %w", ErrIncompatibleServiceSet, err)
	}

	// 4.3. Пересчитываем интервалы назначений
	assignments := make([]placed, 0, len(req.Assignments))
	slotStart := types.MinutesPerDay
	for _, a := range req.Assignments {
		svc, _ := set.Service(a.ServiceID)
		start, err := a.StartTime.Minutes()
		if err != nil {
			return nil, fmt.Errorf("%w: invalid startTime: %w", ErrInvalidInput, err)
		}
		iv, err := types.NewInterval(start, start+svc.DurationMinutes)
		if err != nil {
			return nil, fmt.Errorf("%w: service %d does not fit into the day: %w", ErrInvalidSlot, svc.ID, err)
		}
		assignments = append(assignments, placed{service: svc, professionalID: a.ProfessionalID, interval: iv})
		slotStart = min(slotStart, start)
	}

	if err := validateBookingTime(req.Date, slotStart, now, settings.MinBookingNoticeMinutes); err != nil {
		uc.logger.Warn("CommitAppointment: booking time validation failed: %v", err)
		return nil, err
	}

	if err := validateSlotRules(set, assignments); err != nil {
		uc.logger.Warn("CommitAppointment: %v", err)
		return nil, err
	}

	// 4.4. Блокируем мастеров в порядке id и проверяем квалификацию
	professionalIDs := distinctProfessionals(assignments)
	locked, err := uc.professionals.LockByIDs(ctx, professionalIDs)
	if err != nil {
		uc.logger.Error("CommitAppointment: failed to lock professionals %v: %v", professionalIDs, err)
		return nil, fmt.Errorf("%w: failed to lock professionals: %w", ErrInternal, err)
	}
	byID := make(map[int64]domain.Professional, len(locked))
	for _, p := range locked {
		byID[p.ID] = p
	}
	for _, a := range assignments {
		p, ok := byID[a.professionalID]
		if !ok || !p.Active {
			uc.logger.Warn("CommitAppointment: professional id=%d not found or inactive", a.professionalID)
			return nil, fmt.Errorf("%w: id=%d", ErrProfessionalNotFound, a.professionalID)
		}
		if !p.Offers(a.service.ID) {
			uc.logger.Warn("CommitAppointment: professional id=%d does not offer service id=%d", p.ID, a.service.ID)
			return nil, fmt.Errorf("%w: professional=%d service=%d", ErrProfessionalNotQualified, p.ID, a.service.ID)
		}
	}

	// 4.5. Блокируем станции нужных типов
	demands := make([]capacity.Usage, 0)
	typeSet := make(map[int64]struct{})
	for _, a := range assignments {
		for _, r := range a.service.StationRequirements {
			demands = append(demands, capacity.Usage{StationTypeID: r.StationTypeID, Qty: r.Qty, Interval: a.interval})
			typeSet[r.StationTypeID] = struct{}{}
		}
	}
	typeIDs := make([]int64, 0, len(typeSet))
	for id := range typeSet {
		typeIDs = append(typeIDs, id)
	}
	sort.Slice(typeIDs, func(i, j int) bool { return typeIDs[i] < typeIDs[j] })

	inventory, err := uc.stations.LockByTypes(ctx, typeIDs)
	if err != nil {
		uc.logger.Error("CommitAppointment: failed to lock stations %v: %v", typeIDs, err)
		return nil, fmt.Errorf("%w: failed to lock stations: %w", ErrInternal, err)
	}

	// 4.6. Свободное время мастеров заново
	if err := uc.checkProfessionalsFree(ctx, req, professionalIDs, assignments); err != nil {
		return nil, err
	}

	// 4.7. Станции заново
	usage, err := uc.appointments.GetStationUsage(ctx, req.Date)
	if err != nil {
		uc.logger.Error("CommitAppointment: failed to get station usage: %v", err)
		return nil, fmt.Errorf("%w: failed to get station usage: %w", ErrInternal, err)
	}
	occupied, err := capacity.FromStationUsage(usage)
	if err != nil {
		uc.logger.Error("CommitAppointment: malformed station usage: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrMalformedSchedule, err)
	}
	if !capacity.NewTracker(inventory, occupied).Fits(demands) {
		uc.logger.Warn("CommitAppointment: stations are no longer available on %s", req.Date.Format(domain.DateFormat))
		return nil, fmt.Errorf("%w: stations are occupied", ErrSlotNoLongerAvailable)
	}

	// 4.8. Создаем группу и записи
	return uc.insert(ctx, req, assignments)
}

// checkProfessionalsFree проверяет, что каждое назначение лежит в свободном времени своего мастера
func (uc *UseCase) checkProfessionalsFree(ctx context.Context, req *Request, professionalIDs []int64, assignments []placed) error {
	dayOfWeek := schedule.DayOfWeek(req.Date)

	windows, err := uc.professionals.GetAvailabilityWindows(ctx, professionalIDs, dayOfWeek)
	if err != nil {
		uc.logger.Error("CommitAppointment: failed to get availability: %v", err)
		return fmt.Errorf("%w: failed to get availability: %w", ErrInternal, err)
	}
	breaks, err := uc.professionals.GetBreaks(ctx, professionalIDs, dayOfWeek)
	if err != nil {
		uc.logger.Error("CommitAppointment: failed to get breaks: %v", err)
		return fmt.Errorf("%w: failed to get breaks: %w", ErrInternal, err)
	}
	blocks, err := uc.professionals.GetBlockedTimes(ctx, professionalIDs, req.Date)
	if err != nil {
		uc.logger.Error("CommitAppointment: failed to get blocked times: %v", err)
		return fmt.Errorf("%w: failed to get blocked times: %w", ErrInternal, err)
	}
	booked, err := uc.appointments.GetBookedIntervals(ctx, professionalIDs, req.Date)
	if err != nil {
		uc.logger.Error("CommitAppointment: failed to get booked intervals: %v", err)
		return fmt.Errorf("%w: failed to get booked intervals: %w", ErrInternal, err)
	}

	days := schedule.Days(professionalIDs, windows, breaks, blocks, booked)
	free := make(map[int64][]types.Interval, len(days))
	for id, day := range days {
		intervals, err := schedule.Resolve(day)
		if err != nil {
			uc.logger.Error("CommitAppointment: salon schedule is misconfigured: %v", err)
			return fmt.Errorf("%w: %w", ErrMalformedSchedule, err)
		}
		free[id] = intervals
	}

	for _, a := range assignments {
		if !containedIn(free[a.professionalID], a.interval) {
			uc.logger.Warn("CommitAppointment: professional id=%d is not free at %s", a.professionalID, a.interval)
			return fmt.Errorf("%w: professional %d is busy at %s", ErrSlotNoLongerAvailable, a.professionalID, a.interval)
		}
	}

	return nil
}

// insert создает группу и записи со статусом SCHEDULED, итоги группы считаются по записям
func (uc *UseCase) insert(ctx context.Context, req *Request, assignments []placed) (*domain.AppointmentGroup, error) {
	group := &domain.AppointmentGroup{
		ClientID:        req.ClientID,
		AppointmentDate: req.Date,
		Status:          domain.StatusScheduled,
		Notes:           req.Notes,
	}
	for _, a := range assignments {
		group.Appointments = append(group.Appointments, &domain.Appointment{
			ClientID:        req.ClientID,
			ProfessionalID:  a.professionalID,
			ServiceID:       a.service.ID,
			AppointmentDate: req.Date,
			StartTime:       a.interval.StartTime(),
			EndTime:         a.interval.EndTime(),
			Status:          domain.StatusScheduled,
			PriceAtBooking:  a.service.Price,
		})
	}
	if err := group.Summarize(); err != nil {
		return nil, fmt.Errorf("%w: failed to summarize group: %w", ErrInternal, err)
	}

	appointments := group.Appointments
	created, err := uc.appointments.CreateGroup(ctx, group)
	if err != nil {
		uc.logger.Error("CommitAppointment: failed to create group: %v", err)
		return nil, fmt.Errorf("%w: failed to create group: %w", ErrInternal, err)
	}

	created.Appointments = make([]*domain.Appointment, 0, len(appointments))
	for _, a := range appointments {
		a.GroupID = &created.ID
		saved, err := uc.appointments.CreateAppointment(ctx, a)
		if err != nil {
			uc.logger.Error("CommitAppointment: failed to create appointment: %v", err)
			return nil, fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}
		created.Appointments = append(created.Appointments, saved)
	}

	return created, nil
}

func (uc *UseCase) publishCreated(ctx context.Context, group *domain.AppointmentGroup) {
	event := GroupCreatedEvent{
		GroupID:    group.ID,
		ClientID:   group.ClientID,
		Date:       group.AppointmentDate.Format(domain.DateFormat),
		StartTime:  group.StartTime.String(),
		EndTime:    group.EndTime.String(),
		TotalPrice: group.TotalPrice.StringFixed(2),
	}
	seen := make(map[int64]struct{})
	for _, a := range group.Appointments {
		event.AppointmentIDs = append(event.AppointmentIDs, a.ID)
		if _, ok := seen[a.ProfessionalID]; !ok {
			seen[a.ProfessionalID] = struct{}{}
			event.ProfessionalIDs = append(event.ProfessionalIDs, a.ProfessionalID)
		}
	}

	msg := messaging.NewMessage(domain.EventGroupCreated, event)
	if err := uc.publisher.Publish(ctx, domain.EventsChannelAppointments, msg); err != nil {
		uc.logger.Warn("CommitAppointment: failed to publish %s for group id=%d: %v", domain.EventGroupCreated, group.ID, err)
	}
}

// commitResult метка метрики по ошибке коммита
func commitResult(err error) string {
	switch {
	case errors.Is(err, ErrSlotNoLongerAvailable):
		return metrics.CommitResultConflict
	case errors.Is(err, ErrInternal), errors.Is(err, ErrMalformedSchedule):
		return metrics.CommitResultError
	default:
		return metrics.CommitResultRejected
	}
}

func distinctProfessionals(assignments []placed) []int64 {
	seen := make(map[int64]struct{}, len(assignments))
	ids := make([]int64, 0, len(assignments))
	for _, a := range assignments {
		if _, ok := seen[a.professionalID]; ok {
			continue
		}
		seen[a.professionalID] = struct{}{}
		ids = append(ids, a.professionalID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func containedIn(free []types.Interval, iv types.Interval) bool {
	for _, f := range free {
		if f.Contains(iv) {
			return true
		}
	}
	return false
}

func toResponse(group *domain.AppointmentGroup) *Response {
	resp := &Response{
		ID:                   group.ID,
		ClientID:             group.ClientID,
		AppointmentDate:      group.AppointmentDate,
		StartTime:            group.StartTime,
		EndTime:              group.EndTime,
		TotalDurationMinutes: group.TotalDurationMinutes,
		TotalPrice:           group.TotalPrice,
		Status:               string(group.Status),
		Notes:                group.Notes,
		CreatedAt:            group.CreatedAt,
		Appointments:         make([]Appointment, 0, len(group.Appointments)),
	}
	for _, a := range group.Appointments {
		resp.Appointments = append(resp.Appointments, Appointment{
			ID:             a.ID,
			ServiceID:      a.ServiceID,
			ProfessionalID: a.ProfessionalID,
			StartTime:      a.StartTime,
			EndTime:        a.EndTime,
			Status:         string(a.Status),
			PriceAtBooking: a.PriceAtBooking,
		})
	}
	return resp
}
