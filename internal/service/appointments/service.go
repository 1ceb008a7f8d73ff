package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonBookingService/pkg/messaging"
)

// Service сервис для работы с записями салона
type Service struct {
	appointmentRepo AppointmentRepository
	publisher       Publisher
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	publisher Publisher,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		publisher:       publisher,
		txManager:       txManager,
		logger:          logger,
	}
}

// GetGroup получает группу записей вместе с записями
func (s *Service) GetGroup(ctx context.Context, groupID int64) (*models.GroupResponse, error) {
	s.logger.Info("GetGroup: fetching group id=%d", groupID)

	var group *domain.AppointmentGroup
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		group, err = s.appointmentRepo.GetGroupByID(txCtx, groupID)
		if err != nil {
			return err
		}
		group.Appointments, err = s.appointmentRepo.GetAppointmentsByGroupID(txCtx, groupID)
		return err
	})
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrGroupNotFound) {
			s.logger.Warn("GetGroup: group id=%d not found", groupID)
			return nil, ErrGroupNotFound
		}
		s.logger.Error("GetGroup: repository error for group id=%d: %v", groupID, err)
		return nil, fmt.Errorf("%w: GetGroup - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetGroup: successfully fetched group id=%d with %d appointments", groupID, len(group.Appointments))
	return models.FromDomainGroup(group), nil
}

// List получает записи на дату для доски персонала.
// Отменённые записи возвращаются только при явном фильтре по статусу.
func (s *Service) List(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("List: fetching appointments for date=%s, professional=%v, status=%v",
		req.Date.Format(domain.DateFormat), req.ProfessionalID, req.Status)

	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d appointments", len(appointments))
	return models.FromDomainAppointmentList(appointments), nil
}

// CancelGroup отменяет группу и все её незавершённые записи.
// Время мастеров и станции освобождаются сразу: отменённые записи не учитываются при поиске слотов.
func (s *Service) CancelGroup(ctx context.Context, groupID int64, req *models.CancelGroupRequest) (*models.GroupResponse, error) {
	s.logger.Info("CancelGroup: cancelling group id=%d by staff=%d", groupID, req.StaffID)

	if len([]rune(req.CancellationReason)) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellationReason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	var group *domain.AppointmentGroup
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Блокируем группу до конца транзакции
		current, err := s.appointmentRepo.GetGroupByID(txCtx, groupID)
		if err != nil {
			return err
		}

		if !current.CanBeCancelled() {
			s.logger.Warn("CancelGroup: group id=%d cannot be cancelled, status=%s", groupID, current.Status)
			return ErrCannotCancel
		}

		if err := s.appointmentRepo.CancelGroup(txCtx, groupID, req.CancellationReason); err != nil {
			return err
		}

		group, err = s.appointmentRepo.GetGroupByID(txCtx, groupID)
		if err != nil {
			return err
		}
		group.Appointments, err = s.appointmentRepo.GetAppointmentsByGroupID(txCtx, groupID)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrCannotCancel):
			return nil, err
		case errors.Is(err, appointmentRepo.ErrGroupNotFound):
			s.logger.Warn("CancelGroup: group id=%d not found", groupID)
			return nil, ErrGroupNotFound
		default:
			s.logger.Error("CancelGroup: repository error for group id=%d: %v", groupID, err)
			return nil, fmt.Errorf("%w: CancelGroup - repository error: %v", ErrInternal, err)
		}
	}

	s.publish(ctx, domain.EventGroupCancelled, models.GroupCancelledEvent{
		GroupID:            group.ID,
		ClientID:           group.ClientID,
		Date:               group.AppointmentDate.Format(domain.DateFormat),
		CancellationReason: req.CancellationReason,
		StaffID:            req.StaffID,
	})

	s.logger.Info("CancelGroup: successfully cancelled group id=%d", groupID)
	return models.FromDomainGroup(group), nil
}

// UpdateStatus переводит запись по доске статусов.
// Статус группы пересчитывается по статусам всех её записей.
func (s *Service) UpdateStatus(ctx context.Context, appointmentID int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by staff=%d",
		appointmentID, req.Status, req.StaffID)

	newStatus, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, appointmentID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	// Группу узнаём до транзакции: блокировки берутся в том же порядке, что и при отмене группы
	existing, err := s.appointmentRepo.GetAppointmentByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d not found", appointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	var (
		updated     *domain.Appointment
		from        domain.AppointmentStatus
		groupStatus domain.AppointmentStatus
	)
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if existing.GroupID != nil {
			if _, err := s.appointmentRepo.GetGroupByID(txCtx, *existing.GroupID); err != nil {
				return err
			}
		}

		current, err := s.appointmentRepo.GetAppointmentByID(txCtx, appointmentID)
		if err != nil {
			return err
		}
		from = current.Status

		if !domain.CanTransition(current.Status, newStatus) {
			s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for appointment id=%d",
				current.Status, newStatus, appointmentID)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, newStatus)
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, appointmentID, newStatus); err != nil {
			return err
		}
		current.Status = newStatus
		updated = current

		if current.GroupID == nil {
			return nil
		}

		siblings, err := s.appointmentRepo.GetAppointmentsByGroupID(txCtx, *current.GroupID)
		if err != nil {
			return err
		}
		statuses := make([]domain.AppointmentStatus, 0, len(siblings))
		for _, a := range siblings {
			if a.ID == appointmentID {
				statuses = append(statuses, newStatus)
				continue
			}
			statuses = append(statuses, a.Status)
		}

		groupStatus = domain.DeriveGroupStatus(statuses)
		return s.appointmentRepo.UpdateGroupStatus(txCtx, *current.GroupID, groupStatus)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidTransition):
			return nil, err
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			return nil, ErrAppointmentNotFound
		case errors.Is(err, appointmentRepo.ErrGroupNotFound):
			return nil, ErrGroupNotFound
		default:
			s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
			return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}
	}

	s.publish(ctx, domain.EventAppointmentStatus, models.StatusChangedEvent{
		AppointmentID: appointmentID,
		GroupID:       updated.GroupID,
		From:          string(from),
		To:            string(newStatus),
		GroupStatus:   string(groupStatus),
		StaffID:       req.StaffID,
	})

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d %s -> %s", appointmentID, from, newStatus)
	return models.FromDomainAppointment(updated), nil
}

// publish отправляет событие, ошибка публикации только логируется
func (s *Service) publish(ctx context.Context, eventType string, payload interface{}) {
	msg := messaging.NewMessage(eventType, payload)
	if err := s.publisher.Publish(ctx, domain.EventsChannelAppointments, msg); err != nil {
		s.logger.Warn("publish: failed to publish %s: %v", eventType, err)
	}
}
