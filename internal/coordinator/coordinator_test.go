package coordinator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/Freeeeeet/appointment_scheduler/internal/notification"
	"github.com/Freeeeeet/appointment_scheduler/internal/protocol"
	"github.com/Freeeeeet/appointment_scheduler/internal/repository"
	"github.com/Freeeeeet/appointment_scheduler/internal/service"
	"go.uber.org/zap"
)

// Минимальные in-memory хранилища для сквозного прогона координатора

type stubProviders struct{ providers map[int64]*model.Provider }

func (s *stubProviders) GetByID(ctx context.Context, id int64) (*model.Provider, error) {
	p, ok := s.providers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (s *stubProviders) List(ctx context.Context) ([]*model.Provider, error) {
	var out []*model.Provider
	for _, p := range s.providers {
		out = append(out, p)
	}
	return out, nil
}

type stubRules struct{ rules []*model.AvailabilityRule }

func (s *stubRules) Create(ctx context.Context, rule *model.AvailabilityRule) error {
	s.rules = append(s.rules, rule)
	return nil
}

func (s *stubRules) GetByID(ctx context.Context, id int64) (*model.AvailabilityRule, error) {
	for _, r := range s.rules {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubRules) GetActiveByProvider(ctx context.Context, providerID int64) ([]*model.AvailabilityRule, error) {
	var out []*model.AvailabilityRule
	for _, r := range s.rules {
		if r.ProviderID == providerID && r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubRules) Deactivate(ctx context.Context, id int64) error { return nil }

type stubTimeOff struct{}

func (stubTimeOff) Create(ctx context.Context, period *model.TimeOffPeriod) error { return nil }

func (stubTimeOff) GetOverlapping(ctx context.Context, providerID int64, from, to time.Time) ([]*model.TimeOffPeriod, error) {
	return nil, nil
}

type stubAppointments struct {
	mu        sync.Mutex
	providers map[int64]*model.Provider
	appts     map[int64]*model.Appointment
	nextID    int64
}

func (s *stubAppointments) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	appt, ok := s.appts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return appt, nil
}

func (s *stubAppointments) GetByUser(ctx context.Context, userID int64) ([]*model.Appointment, error) {
	return nil, nil
}

func (s *stubAppointments) GetByProvider(ctx context.Context, providerID int64) ([]*model.Appointment, error) {
	return nil, nil
}

func (s *stubAppointments) GetActiveOverlapping(ctx context.Context, providerID int64, from, to time.Time) ([]*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlappingLocked(providerID, from, to), nil
}

func (s *stubAppointments) overlappingLocked(providerID int64, from, to time.Time) []*model.Appointment {
	var out []*model.Appointment
	for _, appt := range s.appts {
		if appt.ProviderID == providerID && !appt.Status.IsTerminal() &&
			appt.StartTime.Before(to) && appt.EndTime.After(from) {
			out = append(out, appt)
		}
	}
	return out
}

func (s *stubAppointments) CreateIfFree(ctx context.Context, appt *model.Appointment) (*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.providers[appt.ProviderID]; !ok {
		return nil, repository.ErrNotFound
	}
	if len(s.overlappingLocked(appt.ProviderID, appt.StartTime, appt.EndTime)) > 0 {
		return nil, repository.ErrOverlap
	}
	s.nextID++
	appt.ID = s.nextID
	s.appts[appt.ID] = appt
	return appt, nil
}

func (s *stubAppointments) UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) (*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	appt, ok := s.appts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	appt.Status = status
	return appt, nil
}

func (s *stubAppointments) CompletePast(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

type stubPrefs struct{}

func (stubPrefs) GetByUserID(ctx context.Context, userID int64) (*model.UserPreference, error) {
	return nil, nil
}

// Координатор поверх поставщика с правилом Пн 09:00–12:00
func testCoordinator(t *testing.T) *Coordinator {
	t.Helper()

	providers := map[int64]*model.Provider{
		1: {ID: 1, Name: "Dr. Ivanova", IsActive: true},
	}
	rules := &stubRules{rules: []*model.AvailabilityRule{
		{ID: 1, ProviderID: 1, Weekday: 1, StartMinute: 9 * 60, EndMinute: 12 * 60, IsActive: true},
	}}
	appts := &stubAppointments{
		providers: providers,
		appts:     make(map[int64]*model.Appointment),
	}

	logger := zap.NewNop()
	availability := service.NewAvailabilityService(
		&stubProviders{providers: providers},
		rules,
		stubTimeOff{},
		appts,
		stubPrefs{},
		30*time.Minute,
		logger,
	)
	booking := service.NewBookingService(appts, notification.NewLogNotifier(logger), logger)

	return NewCoordinator(availability, booking, logger)
}

func mustRequest(t *testing.T, payload interface{}, msgType protocol.MessageType) protocol.Envelope {
	t.Helper()
	env, err := protocol.NewEnvelope(protocol.AgentUser, protocol.AgentScheduler, msgType, payload)
	if err != nil {
		t.Fatalf("protocol.NewEnvelope() error = %v", err)
	}
	return env
}

func TestCoordinator_RequestOfferConfirm(t *testing.T) {
	coord := testCoordinator(t)
	ctx := context.Background()

	req := mustRequest(t, protocol.RequestAppointmentPayload{
		UserID:          10,
		ProviderIDs:     []int64{1},
		TargetDate:      "2024-08-05", // понедельник
		DurationMinutes: 30,
	}, protocol.TypeRequestAppointment)

	offer := coord.Handle(ctx, req)
	if offer.Type != protocol.TypeOfferSlots {
		t.Fatalf("offer type = %q, want %q", offer.Type, protocol.TypeOfferSlots)
	}
	if offer.CorrelationID != req.CorrelationID {
		t.Errorf("offer correlation = %q, want %q", offer.CorrelationID, req.CorrelationID)
	}

	var offered protocol.OfferSlotsPayload
	if err := offer.DecodePayload(&offered); err != nil {
		t.Fatalf("decode offer: %v", err)
	}
	if len(offered.Slots) != 6 {
		t.Fatalf("offered %d slots, want 6", len(offered.Slots))
	}

	chosen := offered.Slots[0]
	confirm := mustRequest(t, protocol.ConfirmSlotPayload{
		UserID:     10,
		ProviderID: chosen.ProviderID,
		StartTime:  chosen.Start,
		EndTime:    chosen.End,
	}, protocol.TypeConfirmSlot)

	resp := coord.Handle(ctx, confirm)
	if resp.Type != protocol.TypeAppointmentConfirmed {
		t.Fatalf("confirm response type = %q, want %q", resp.Type, protocol.TypeAppointmentConfirmed)
	}

	var confirmed protocol.AppointmentPayload
	if err := resp.DecodePayload(&confirmed); err != nil {
		t.Fatalf("decode confirmation: %v", err)
	}
	if confirmed.Appointment == nil || confirmed.Appointment.Status != model.AppointmentStatusConfirmed {
		t.Errorf("confirmed payload = %+v", confirmed)
	}

	// Повторный запрос: занятый слот исчезает из выдачи
	offer2 := coord.Handle(ctx, mustRequest(t, protocol.RequestAppointmentPayload{
		UserID:          11,
		ProviderIDs:     []int64{1},
		TargetDate:      "2024-08-05",
		DurationMinutes: 30,
	}, protocol.TypeRequestAppointment))

	var offered2 protocol.OfferSlotsPayload
	if err := offer2.DecodePayload(&offered2); err != nil {
		t.Fatalf("decode second offer: %v", err)
	}
	if len(offered2.Slots) != 5 {
		t.Errorf("second offer has %d slots, want 5", len(offered2.Slots))
	}
	for _, slot := range offered2.Slots {
		if slot.Start.Equal(chosen.Start) {
			t.Errorf("booked slot %v still offered", slot.Start)
		}
	}
}

// Слот перехвачен между предложением и подтверждением
func TestCoordinator_SlotContention(t *testing.T) {
	coord := testCoordinator(t)
	ctx := context.Background()

	start := time.Date(2024, 8, 5, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	first := coord.Handle(ctx, mustRequest(t, protocol.ConfirmSlotPayload{
		UserID: 10, ProviderID: 1, StartTime: start, EndTime: end,
	}, protocol.TypeConfirmSlot))
	if first.Type != protocol.TypeAppointmentConfirmed {
		t.Fatalf("first confirm type = %q", first.Type)
	}

	second := coord.Handle(ctx, mustRequest(t, protocol.ConfirmSlotPayload{
		UserID: 11, ProviderID: 1, StartTime: start, EndTime: end,
	}, protocol.TypeConfirmSlot))
	if second.Type != protocol.TypeSlotContention {
		t.Fatalf("second confirm type = %q, want %q", second.Type, protocol.TypeSlotContention)
	}

	var failure protocol.FailurePayload
	if err := second.DecodePayload(&failure); err != nil {
		t.Fatalf("decode contention: %v", err)
	}
	if failure.Code != "SLOT_CONTENTION" {
		t.Errorf("failure code = %q", failure.Code)
	}
}

func TestCoordinator_Failures(t *testing.T) {
	coord := testCoordinator(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		env      protocol.Envelope
		wantCode string
	}{
		{
			"malformed date",
			mustRequest(t, protocol.RequestAppointmentPayload{
				UserID: 10, ProviderIDs: []int64{1}, TargetDate: "05.08.2024", DurationMinutes: 30,
			}, protocol.TypeRequestAppointment),
			protocol.FailureCodeInvalidArgument,
		},
		{
			"unknown provider",
			mustRequest(t, protocol.RequestAppointmentPayload{
				UserID: 10, ProviderIDs: []int64{42}, TargetDate: "2024-08-05", DurationMinutes: 30,
			}, protocol.TypeRequestAppointment),
			protocol.FailureCodeNotFound,
		},
		{
			"zero duration",
			mustRequest(t, protocol.RequestAppointmentPayload{
				UserID: 10, ProviderIDs: []int64{1}, TargetDate: "2024-08-05",
			}, protocol.TypeRequestAppointment),
			protocol.FailureCodeInvalidArgument,
		},
		{
			"unsupported type",
			mustRequest(t, nil, protocol.TypeOfferSlots),
			protocol.FailureCodeInvalidArgument,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := coord.Handle(ctx, tt.env)
			if resp.Type != protocol.TypeRequestFailed {
				t.Fatalf("response type = %q, want %q", resp.Type, protocol.TypeRequestFailed)
			}
			var failure protocol.FailurePayload
			if err := resp.DecodePayload(&failure); err != nil {
				t.Fatalf("decode failure: %v", err)
			}
			if failure.Code != tt.wantCode {
				t.Errorf("failure code = %q, want %q", failure.Code, tt.wantCode)
			}
		})
	}
}
