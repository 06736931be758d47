package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Тип сообщения межагентного протокола
type MessageType string

const (
	TypeRequestAppointment   MessageType = "REQUEST_APPOINTMENT"
	TypeOfferSlots           MessageType = "OFFER_SLOTS"
	TypeConfirmSlot          MessageType = "CONFIRM_SLOT"
	TypeAppointmentConfirmed MessageType = "APPOINTMENT_CONFIRMED"
	TypeSlotContention       MessageType = "SLOT_CONTENTION"
	TypeRequestFailed        MessageType = "REQUEST_FAILED"

	// Уведомления, публикуемые наружу
	TypeAppointmentCancelled MessageType = "APPOINTMENT_CANCELLED"
	TypeRescheduleNeeded     MessageType = "RESCHEDULE_NEEDED"
)

// Идентификаторы агентов. Агенты — способ оформления протокола,
// а не отдельные процессы: в одном процессе обмен идёт вызовами
// Coordinator.Handle, в распределённом — сериализованными Envelope.
const (
	AgentUser      = "user-agent"
	AgentProvider  = "provider-agent"
	AgentScheduler = "scheduler-agent"
)

// Envelope — конверт сообщения протокола
type Envelope struct {
	MessageID     string          `json:"message_id"`
	CorrelationID string          `json:"correlation_id"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceAgent   string          `json:"source_agent"`
	TargetAgent   string          `json:"target_agent"`
	Type          MessageType     `json:"type"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope создаёт конверт с новым message id и correlation id
func NewEnvelope(source, target string, msgType MessageType, payload interface{}) (Envelope, error) {
	env := Envelope{
		MessageID:     uuid.NewString(),
		CorrelationID: uuid.NewString(),
		Timestamp:     time.Now().UTC(),
		SourceAgent:   source,
		TargetAgent:   target,
		Type:          msgType,
	}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Envelope{}, fmt.Errorf("marshal payload: %w", err)
		}
		env.Payload = raw
	}

	return env, nil
}

// Reply создаёт ответный конверт, наследующий correlation id запроса
func Reply(req Envelope, msgType MessageType, payload interface{}) (Envelope, error) {
	env, err := NewEnvelope(req.TargetAgent, req.SourceAgent, msgType, payload)
	if err != nil {
		return Envelope{}, err
	}

	env.CorrelationID = req.CorrelationID
	if env.CorrelationID == "" {
		env.CorrelationID = req.MessageID
	}

	return env, nil
}

// DecodePayload распаковывает payload конверта в v
func (e Envelope) DecodePayload(v interface{}) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("envelope %s has no payload", e.MessageID)
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}
