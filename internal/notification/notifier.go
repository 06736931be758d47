package notification

import (
	"context"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"go.uber.org/zap"
)

// Notifier отправляет уведомления внешнему коллаборатору в режиме
// fire-and-forget: сбой доставки логируется и никогда не откатывает
// бронирование или отмену.
type Notifier interface {
	AppointmentConfirmed(ctx context.Context, appt *model.Appointment)
	AppointmentCancelled(ctx context.Context, appt *model.Appointment)
	RescheduleNeeded(ctx context.Context, appt *model.Appointment, reason string)
}

// LogNotifier — заглушка, пишущая события в лог. Используется, когда
// брокер не сконфигурирован, и в тестах.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) AppointmentConfirmed(ctx context.Context, appt *model.Appointment) {
	n.logger.Info("Notification: appointment confirmed",
		zap.Int64("appointment_id", appt.ID),
		zap.Int64("user_id", appt.UserID),
		zap.Int64("provider_id", appt.ProviderID),
	)
}

func (n *LogNotifier) AppointmentCancelled(ctx context.Context, appt *model.Appointment) {
	n.logger.Info("Notification: appointment cancelled",
		zap.Int64("appointment_id", appt.ID),
		zap.String("status", string(appt.Status)),
	)
}

func (n *LogNotifier) RescheduleNeeded(ctx context.Context, appt *model.Appointment, reason string) {
	n.logger.Info("Notification: appointment needs reschedule",
		zap.Int64("appointment_id", appt.ID),
		zap.Int64("provider_id", appt.ProviderID),
		zap.String("reason", reason),
	)
}
