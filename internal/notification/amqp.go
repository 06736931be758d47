package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/Freeeeeet/appointment_scheduler/internal/protocol"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Routing keys событий в topic-exchange
const (
	routingKeyConfirmed        = "appointment.confirmed"
	routingKeyCancelled        = "appointment.cancelled"
	routingKeyRescheduleNeeded = "appointment.reschedule_needed"
)

// AMQPNotifier публикует события записей в RabbitMQ.
// События заворачиваются в конверт протокола, чтобы потребители
// получали correlation id и метаданные источника.
type AMQPNotifier struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	logger   *zap.Logger
}

func NewAMQPNotifier(url, exchange string, logger *zap.Logger) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPNotifier{
		conn:     conn,
		ch:       ch,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// Close закрывает канал и соединение с брокером
func (n *AMQPNotifier) Close() error {
	if err := n.ch.Close(); err != nil {
		_ = n.conn.Close()
		return err
	}
	return n.conn.Close()
}

func (n *AMQPNotifier) AppointmentConfirmed(ctx context.Context, appt *model.Appointment) {
	n.publish(ctx, routingKeyConfirmed, protocol.TypeAppointmentConfirmed, appt, "")
}

func (n *AMQPNotifier) AppointmentCancelled(ctx context.Context, appt *model.Appointment) {
	n.publish(ctx, routingKeyCancelled, protocol.TypeAppointmentCancelled, appt, "")
}

func (n *AMQPNotifier) RescheduleNeeded(ctx context.Context, appt *model.Appointment, reason string) {
	n.publish(ctx, routingKeyRescheduleNeeded, protocol.TypeRescheduleNeeded, appt, reason)
}

// publish отправляет событие; ошибки только логируются —
// доставка уведомлений не влияет на результат операции
func (n *AMQPNotifier) publish(ctx context.Context, key string, msgType protocol.MessageType, appt *model.Appointment, reason string) {
	env, err := protocol.NewEnvelope(protocol.AgentScheduler, protocol.AgentUser, msgType, protocol.AppointmentPayload{
		Appointment: appt,
		Reason:      reason,
	})
	if err != nil {
		n.logger.Error("Failed to build notification envelope", zap.Error(err))
		return
	}

	body, err := json.Marshal(env)
	if err != nil {
		n.logger.Error("Failed to marshal notification", zap.Error(err))
		return
	}

	err = n.ch.PublishWithContext(ctx, n.exchange, key, false, false, amqp.Publishing{
		ContentType:   "application/json",
		MessageId:     env.MessageID,
		CorrelationId: env.CorrelationID,
		Timestamp:     env.Timestamp,
		Body:          body,
	})
	if err != nil {
		n.logger.Error("Failed to publish notification",
			zap.String("routing_key", key),
			zap.Error(err),
		)
		return
	}

	n.logger.Debug("Notification published",
		zap.String("routing_key", key),
		zap.Int64("appointment_id", appt.ID),
	)
}
