package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/Freeeeeet/appointment_scheduler/internal/notification"
	"github.com/Freeeeeet/appointment_scheduler/internal/repository"
	"go.uber.org/zap"
)

// BookingService подтверждает выбранный слот и управляет жизненным
// циклом записи. Финальный коммит — одна атомарная проверка-и-вставка
// в хранилище; блокировка на время всего обмена запрос/предложение/
// подтверждение не удерживается.
type BookingService struct {
	apptRepo repository.AppointmentStore
	notifier notification.Notifier
	logger   *zap.Logger
}

func NewBookingService(
	apptRepo repository.AppointmentStore,
	notifier notification.Notifier,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		apptRepo: apptRepo,
		notifier: notifier,
		logger:   logger,
	}
}

// BookAppointment перепроверяет выбранный интервал против текущего
// состояния поставщика и создаёт запись в статусе confirmed.
// Тройка (user, provider, interval) принимается любая — не только из
// ранее предложенных слотов, — поэтому проверка выполняется заново.
// При конфликте возвращается ErrSlotContention без частичной записи;
// повторная идентичная заявка возвращает существующую запись.
func (s *BookingService) BookAppointment(
	ctx context.Context,
	userID, providerID int64,
	start, end time.Time,
	serviceDescription string,
) (*model.Appointment, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidArgument)
	}
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return nil, fmt.Errorf("%w: end time must be after start time", ErrInvalidArgument)
	}

	appt := &model.Appointment{
		UserID:             userID,
		ProviderID:         providerID,
		StartTime:          start,
		EndTime:            end,
		Status:             model.AppointmentStatusConfirmed,
		ServiceDescription: serviceDescription,
	}

	created, err := s.apptRepo.CreateIfFree(ctx, appt)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("%w: id=%d", ErrProviderNotFound, providerID)
		case errors.Is(err, repository.ErrOverlap):
			s.logger.Info("Booking rejected: slot contention",
				zap.Int64("user_id", userID),
				zap.Int64("provider_id", providerID),
				zap.Time("start", start),
			)
			return nil, ErrSlotContention
		default:
			return nil, fmt.Errorf("commit booking: %w", err)
		}
	}

	s.logger.Info("Appointment confirmed",
		zap.Int64("appointment_id", created.ID),
		zap.Int64("user_id", created.UserID),
		zap.Int64("provider_id", created.ProviderID),
		zap.Time("start", created.StartTime),
	)

	s.notifier.AppointmentConfirmed(ctx, created)

	return created, nil
}

// CancelAppointment переводит запись в статус отмены от имени актора.
// Идемпотентна: отмена уже отменённой записи возвращает её текущее
// состояние без ошибки.
func (s *BookingService) CancelAppointment(
	ctx context.Context,
	appointmentID int64,
	actor model.CancelActor,
) (*model.Appointment, error) {
	if actor != model.CancelActorUser && actor != model.CancelActorProvider {
		return nil, fmt.Errorf("%w: unknown cancel actor %q", ErrInvalidArgument, actor)
	}

	appt, err := s.apptRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: id=%d", ErrAppointmentNotFound, appointmentID)
		}
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	if appt.Status.IsCancelled() {
		return appt, nil
	}
	if appt.Status == model.AppointmentStatusCompleted {
		return nil, fmt.Errorf("%w: completed appointment cannot be cancelled", ErrInvalidArgument)
	}

	updated, err := s.apptRepo.UpdateStatus(ctx, appointmentID, actor.CancelledStatus())
	if err != nil {
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}

	s.logger.Info("Appointment cancelled",
		zap.Int64("appointment_id", updated.ID),
		zap.String("actor", string(actor)),
		zap.String("status", string(updated.Status)),
	)

	s.notifier.AppointmentCancelled(ctx, updated)

	return updated, nil
}

// GetAppointment получает запись по ID
func (s *BookingService) GetAppointment(ctx context.Context, appointmentID int64) (*model.Appointment, error) {
	appt, err := s.apptRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: id=%d", ErrAppointmentNotFound, appointmentID)
		}
		return nil, fmt.Errorf("load appointment: %w", err)
	}
	return appt, nil
}

// GetUserAppointments получает все записи пользователя
func (s *BookingService) GetUserAppointments(ctx context.Context, userID int64) ([]*model.Appointment, error) {
	return s.apptRepo.GetByUser(ctx, userID)
}

// GetProviderAppointments получает все записи поставщика
func (s *BookingService) GetProviderAppointments(ctx context.Context, providerID int64) ([]*model.Appointment, error) {
	return s.apptRepo.GetByProvider(ctx, providerID)
}
