package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/model"
	"github.com/Freeeeeet/appointment_scheduler/internal/repository"
	"github.com/Freeeeeet/appointment_scheduler/internal/scheduling"
	"go.uber.org/zap"
)

// AvailabilityService вычисляет доступные слоты поставщика:
// правила → вычитание исключений → нарезка → ранжирование
type AvailabilityService struct {
	providerRepo repository.ProviderStore
	ruleRepo     repository.RuleStore
	timeOffRepo  repository.TimeOffStore
	apptRepo     repository.AppointmentStore
	prefRepo     repository.PreferenceStore
	step         time.Duration
	logger       *zap.Logger
}

func NewAvailabilityService(
	providerRepo repository.ProviderStore,
	ruleRepo repository.RuleStore,
	timeOffRepo repository.TimeOffStore,
	apptRepo repository.AppointmentStore,
	prefRepo repository.PreferenceStore,
	step time.Duration,
	logger *zap.Logger,
) *AvailabilityService {
	if step <= 0 {
		step = 15 * time.Minute
	}
	return &AvailabilityService{
		providerRepo: providerRepo,
		ruleRepo:     ruleRepo,
		timeOffRepo:  timeOffRepo,
		apptRepo:     apptRepo,
		prefRepo:     prefRepo,
		step:         step,
		logger:       logger,
	}
}

// GetAvailableSlots возвращает ранжированный список слотов поставщика
// на дату. userID == 0 — анонимный запрос без ранжирования по
// предпочтениям. Пустой список — валидный результат ("слотов нет").
func (s *AvailabilityService) GetAvailableSlots(
	ctx context.Context,
	providerID int64,
	date time.Time,
	duration time.Duration,
	userID int64,
) ([]scheduling.Slot, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidArgument)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: target date is required", ErrInvalidArgument)
	}

	slots, err := s.providerSlots(ctx, providerID, date, duration)
	if err != nil {
		return nil, err
	}

	return s.rank(ctx, slots, userID)
}

// GetAvailableSlotsForProviders возвращает общий ранжированный список
// слотов нескольких поставщиков. Порядок детерминирован: по началу
// слота, затем по идентификатору поставщика, затем ранжирование.
func (s *AvailabilityService) GetAvailableSlotsForProviders(
	ctx context.Context,
	providerIDs []int64,
	date time.Time,
	duration time.Duration,
	userID int64,
) ([]scheduling.Slot, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidArgument)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: target date is required", ErrInvalidArgument)
	}
	if len(providerIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one provider is required", ErrInvalidArgument)
	}

	var all []scheduling.Slot
	for _, providerID := range providerIDs {
		slots, err := s.providerSlots(ctx, providerID, date, duration)
		if err != nil {
			return nil, err
		}
		all = append(all, slots...)
	}

	scheduling.SortSlots(all)

	return s.rank(ctx, all, userID)
}

// providerSlots выполняет конвейер для одного поставщика без ранжирования
func (s *AvailabilityService) providerSlots(
	ctx context.Context,
	providerID int64,
	date time.Time,
	duration time.Duration,
) ([]scheduling.Slot, error) {
	if _, err := s.providerRepo.GetByID(ctx, providerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: id=%d", ErrProviderNotFound, providerID)
		}
		return nil, fmt.Errorf("load provider: %w", err)
	}

	rules, err := s.ruleRepo.GetActiveByProvider(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("load availability rules: %w", err)
	}

	open := scheduling.ResolveDay(rules, date)
	if len(open) == 0 {
		return nil, nil
	}

	// Окно выборки исключений — сутки даты; записи и перерывы,
	// начавшиеся накануне или заканчивающиеся на следующий день,
	// попадают в выборку по условию пересечения с окном
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	timeOff, err := s.timeOffRepo.GetOverlapping(ctx, providerID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("load time off periods: %w", err)
	}

	appointments, err := s.apptRepo.GetActiveOverlapping(ctx, providerID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}

	free := scheduling.SubtractAll(open, scheduling.ExclusionSet(timeOff, appointments))

	return scheduling.GenerateSlots(free, providerID, duration, s.step), nil
}

// rank применяет предпочтения пользователя, если они есть
func (s *AvailabilityService) rank(ctx context.Context, slots []scheduling.Slot, userID int64) ([]scheduling.Slot, error) {
	if len(slots) == 0 {
		return []scheduling.Slot{}, nil
	}

	var pref *model.UserPreference
	if userID > 0 {
		var err error
		pref, err = s.prefRepo.GetByUserID(ctx, userID)
		if err != nil {
			// Предпочтения — только подсказка для ранжирования;
			// их недоступность не должна ломать выдачу слотов
			s.logger.Warn("Failed to load user preferences, returning neutral ordering",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			pref = nil
		}
	}

	return scheduling.RankSlots(slots, pref), nil
}
