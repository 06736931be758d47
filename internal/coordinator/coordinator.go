package coordinator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/protocol"
	"github.com/Freeeeeet/appointment_scheduler/internal/service"
	"go.uber.org/zap"
)

// Coordinator — единый планирующий агент. Ведёт попытку бронирования
// по машине состояний REQUESTED → OFFERED → SELECTED → {CONFIRMED |
// REJECTED}: REQUEST_APPOINTMENT порождает OFFER_SLOTS, CONFIRM_SLOT —
// APPOINTMENT_CONFIRMED либо SLOT_CONTENTION/REQUEST_FAILED.
// В одном процессе вызывается напрямую; в распределённом развёртывании
// конверты сериализуются транспортом.
type Coordinator struct {
	availability *service.AvailabilityService
	booking      *service.BookingService
	logger       *zap.Logger
}

func NewCoordinator(
	availability *service.AvailabilityService,
	booking *service.BookingService,
	logger *zap.Logger,
) *Coordinator {
	return &Coordinator{
		availability: availability,
		booking:      booking,
		logger:       logger,
	}
}

// Handle обрабатывает входящий конверт и возвращает ответный
func (c *Coordinator) Handle(ctx context.Context, env protocol.Envelope) protocol.Envelope {
	c.logger.Debug("Handling protocol message",
		zap.String("message_id", env.MessageID),
		zap.String("type", string(env.Type)),
	)

	switch env.Type {
	case protocol.TypeRequestAppointment:
		return c.handleRequest(ctx, env)
	case protocol.TypeConfirmSlot:
		return c.handleConfirm(ctx, env)
	default:
		return c.fail(env, protocol.FailureCodeInvalidArgument,
			fmt.Sprintf("unsupported message type %q", env.Type))
	}
}

func (c *Coordinator) handleRequest(ctx context.Context, env protocol.Envelope) protocol.Envelope {
	var req protocol.RequestAppointmentPayload
	if err := env.DecodePayload(&req); err != nil {
		return c.fail(env, protocol.FailureCodeInvalidArgument, err.Error())
	}

	date, err := time.Parse(protocol.DateLayout, req.TargetDate)
	if err != nil {
		return c.fail(env, protocol.FailureCodeInvalidArgument,
			fmt.Sprintf("malformed target date %q", req.TargetDate))
	}

	duration := time.Duration(req.DurationMinutes) * time.Minute

	slots, err := c.availability.GetAvailableSlotsForProviders(ctx, req.ProviderIDs, date, duration, req.UserID)
	if err != nil {
		return c.failFromError(env, err)
	}

	return c.reply(env, protocol.TypeOfferSlots, protocol.OfferSlotsPayload{Slots: slots})
}

func (c *Coordinator) handleConfirm(ctx context.Context, env protocol.Envelope) protocol.Envelope {
	var sel protocol.ConfirmSlotPayload
	if err := env.DecodePayload(&sel); err != nil {
		return c.fail(env, protocol.FailureCodeInvalidArgument, err.Error())
	}

	appt, err := c.booking.BookAppointment(ctx, sel.UserID, sel.ProviderID, sel.StartTime, sel.EndTime, sel.ServiceDescription)
	if err != nil {
		if errors.Is(err, service.ErrSlotContention) {
			// REJECTED: слот перехвачен между предложением и
			// подтверждением; вызывающий запрашивает свежую выдачу
			return c.reply(env, protocol.TypeSlotContention, protocol.FailurePayload{
				Code:   "SLOT_CONTENTION",
				Reason: err.Error(),
			})
		}
		return c.failFromError(env, err)
	}

	return c.reply(env, protocol.TypeAppointmentConfirmed, protocol.AppointmentPayload{Appointment: appt})
}

func (c *Coordinator) reply(req protocol.Envelope, msgType protocol.MessageType, payload interface{}) protocol.Envelope {
	env, err := protocol.Reply(req, msgType, payload)
	if err != nil {
		c.logger.Error("Failed to build reply envelope", zap.Error(err))
		return c.fail(req, protocol.FailureCodeStorage, "failed to encode reply")
	}
	return env
}

func (c *Coordinator) failFromError(req protocol.Envelope, err error) protocol.Envelope {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		return c.fail(req, protocol.FailureCodeInvalidArgument, err.Error())
	case errors.Is(err, service.ErrProviderNotFound),
		errors.Is(err, service.ErrAppointmentNotFound),
		errors.Is(err, service.ErrRuleNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return c.fail(req, protocol.FailureCodeNotFound, err.Error())
	default:
		return c.fail(req, protocol.FailureCodeStorage, err.Error())
	}
}

func (c *Coordinator) fail(req protocol.Envelope, code, reason string) protocol.Envelope {
	env, err := protocol.Reply(req, protocol.TypeRequestFailed, protocol.FailurePayload{Code: code, Reason: reason})
	if err != nil {
		// Конверт без payload собрать всегда возможно
		env, _ = protocol.Reply(req, protocol.TypeRequestFailed, nil)
	}
	return env
}
