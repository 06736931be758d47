package service

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/Freeeeeet/appointment_scheduler/internal/repository"
)

// memStore — in-memory реализация интерфейсов хранилища для тестов.
// Повторяет семантику pgx-репозиториев, включая атомарность
// CreateIfFree под мьютексом.
type memStore struct {
	mu           sync.Mutex
	providers    map[int64]*model.Provider
	rules        []*model.AvailabilityRule
	timeOff      []*model.TimeOffPeriod
	appointments map[int64]*model.Appointment
	prefs        map[int64]*model.UserPreference
	nextID       int64
}

func newMemStore() *memStore {
	return &memStore{
		providers:    make(map[int64]*model.Provider),
		appointments: make(map[int64]*model.Appointment),
		prefs:        make(map[int64]*model.UserPreference),
	}
}

func (m *memStore) addProvider(id int64, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providers[id] = &model.Provider{ID: id, Name: name, ServiceType: "consultation", IsActive: true}
}

func (m *memStore) addAppointment(appt *model.Appointment) *model.Appointment {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	appt.ID = m.nextID
	m.appointments[appt.ID] = appt
	return appt
}

func (m *memStore) genID() int64 {
	m.nextID++
	return m.nextID
}

// --- ProviderStore ---

func (m *memStore) GetByID(ctx context.Context, id int64) (*model.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	provider, ok := m.providers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return provider, nil
}

func (m *memStore) List(ctx context.Context) ([]*model.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Provider
	for _, p := range m.providers {
		out = append(out, p)
	}
	return out, nil
}

// --- RuleStore ---

type ruleStore struct{ *memStore }

func (m *memStore) ruleStore() *ruleStore { return &ruleStore{m} }

func (s *ruleStore) Create(ctx context.Context, rule *model.AvailabilityRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rule.ID = s.genID()
	rule.CreatedAt = time.Now()
	rule.UpdatedAt = rule.CreatedAt
	s.rules = append(s.rules, rule)
	return nil
}

func (s *ruleStore) GetByID(ctx context.Context, id int64) (*model.AvailabilityRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rule := range s.rules {
		if rule.ID == id {
			return rule, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *ruleStore) GetActiveByProvider(ctx context.Context, providerID int64) ([]*model.AvailabilityRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.AvailabilityRule
	for _, rule := range s.rules {
		if rule.ProviderID == providerID && rule.IsActive {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (s *ruleStore) Deactivate(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rule := range s.rules {
		if rule.ID == id {
			rule.IsActive = false
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- TimeOffStore ---

type timeOffStore struct{ *memStore }

func (m *memStore) timeOffStore() *timeOffStore { return &timeOffStore{m} }

func (s *timeOffStore) Create(ctx context.Context, period *model.TimeOffPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	period.ID = s.genID()
	period.CreatedAt = time.Now()
	s.timeOff = append(s.timeOff, period)
	return nil
}

func (s *timeOffStore) GetOverlapping(ctx context.Context, providerID int64, from, to time.Time) ([]*model.TimeOffPeriod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.TimeOffPeriod
	for _, period := range s.timeOff {
		if period.ProviderID == providerID && period.StartTime.Before(to) && period.EndTime.After(from) {
			out = append(out, period)
		}
	}
	return out, nil
}

// --- AppointmentStore ---

type apptStore struct{ *memStore }

func (m *memStore) apptStore() *apptStore { return &apptStore{m} }

func (s *apptStore) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	appt, ok := s.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *appt
	return &copied, nil
}

func (s *apptStore) GetByUser(ctx context.Context, userID int64) ([]*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Appointment
	for _, appt := range s.appointments {
		if appt.UserID == userID {
			copied := *appt
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *apptStore) GetByProvider(ctx context.Context, providerID int64) ([]*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Appointment
	for _, appt := range s.appointments {
		if appt.ProviderID == providerID {
			copied := *appt
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *apptStore) GetActiveOverlapping(ctx context.Context, providerID int64, from, to time.Time) ([]*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeOverlappingLocked(providerID, from, to), nil
}

func (s *apptStore) activeOverlappingLocked(providerID int64, from, to time.Time) []*model.Appointment {
	var out []*model.Appointment
	for _, appt := range s.appointments {
		if appt.ProviderID != providerID || appt.Status.IsTerminal() {
			continue
		}
		if appt.StartTime.Before(to) && appt.EndTime.After(from) {
			copied := *appt
			out = append(out, &copied)
		}
	}
	return out
}

func (s *apptStore) CreateIfFree(ctx context.Context, appt *model.Appointment) (*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.providers[appt.ProviderID]; !ok {
		return nil, repository.ErrNotFound
	}

	// Идемпотентность: повторная подача той же заявки
	for _, existing := range s.appointments {
		if existing.UserID == appt.UserID &&
			existing.ProviderID == appt.ProviderID &&
			existing.StartTime.Equal(appt.StartTime) &&
			existing.EndTime.Equal(appt.EndTime) &&
			!existing.Status.IsTerminal() {
			copied := *existing
			return &copied, nil
		}
	}

	if len(s.activeOverlappingLocked(appt.ProviderID, appt.StartTime, appt.EndTime)) > 0 {
		return nil, repository.ErrOverlap
	}
	for _, period := range s.timeOff {
		if period.ProviderID == appt.ProviderID &&
			period.StartTime.Before(appt.EndTime) && period.EndTime.After(appt.StartTime) {
			return nil, repository.ErrOverlap
		}
	}

	appt.ID = s.genID()
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = appt.CreatedAt
	stored := *appt
	s.appointments[appt.ID] = &stored

	return appt, nil
}

func (s *apptStore) UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) (*model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	appt, ok := s.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	appt.Status = status
	appt.UpdatedAt = time.Now()
	copied := *appt
	return &copied, nil
}

func (s *apptStore) CompletePast(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, appt := range s.appointments {
		if !appt.Status.IsTerminal() && !appt.EndTime.After(now) {
			appt.Status = model.AppointmentStatusCompleted
			n++
		}
	}
	return n, nil
}

// --- PreferenceStore ---

type prefStore struct{ *memStore }

func (m *memStore) prefStore() *prefStore { return &prefStore{m} }

func (s *prefStore) GetByUserID(ctx context.Context, userID int64) (*model.UserPreference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs[userID], nil
}

// --- UserStore ---

type memUsers struct {
	mu     sync.Mutex
	users  map[int64]*model.User
	nextID int64
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[int64]*model.User)}
}

func (s *memUsers) Create(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now()
	s.users[user.ID] = user
	return nil
}

func (s *memUsers) GetByID(ctx context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (s *memUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repository.ErrNotFound
}

// --- Notifier ---

// recordingNotifier запоминает отправленные уведомления
type recordingNotifier struct {
	mu         sync.Mutex
	confirmed  []int64
	cancelled  []int64
	reschedule []int64
}

func (n *recordingNotifier) AppointmentConfirmed(ctx context.Context, appt *model.Appointment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, appt.ID)
}

func (n *recordingNotifier) AppointmentCancelled(ctx context.Context, appt *model.Appointment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, appt.ID)
}

func (n *recordingNotifier) RescheduleNeeded(ctx context.Context, appt *model.Appointment, reason string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reschedule = append(n.reschedule, appt.ID)
}
