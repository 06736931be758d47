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

const minutesPerDay = 24 * 60

// ProviderService управляет расписанием поставщика: правилами
// доступности и перерывами
type ProviderService struct {
	providerRepo repository.ProviderStore
	ruleRepo     repository.RuleStore
	timeOffRepo  repository.TimeOffStore
	apptRepo     repository.AppointmentStore
	notifier     notification.Notifier
	logger       *zap.Logger
}

func NewProviderService(
	providerRepo repository.ProviderStore,
	ruleRepo repository.RuleStore,
	timeOffRepo repository.TimeOffStore,
	apptRepo repository.AppointmentStore,
	notifier notification.Notifier,
	logger *zap.Logger,
) *ProviderService {
	return &ProviderService{
		providerRepo: providerRepo,
		ruleRepo:     ruleRepo,
		timeOffRepo:  timeOffRepo,
		apptRepo:     apptRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

// ListProviders получает всех активных поставщиков
func (s *ProviderService) ListProviders(ctx context.Context) ([]*model.Provider, error) {
	return s.providerRepo.List(ctx)
}

// GetProvider получает поставщика по ID
func (s *ProviderService) GetProvider(ctx context.Context, providerID int64) (*model.Provider, error) {
	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: id=%d", ErrProviderNotFound, providerID)
		}
		return nil, fmt.Errorf("load provider: %w", err)
	}
	return provider, nil
}

// AddRule создаёт правило доступности поставщика
func (s *ProviderService) AddRule(ctx context.Context, rule *model.AvailabilityRule) (*model.AvailabilityRule, error) {
	if rule.Weekday < 0 || rule.Weekday > 6 {
		return nil, fmt.Errorf("%w: weekday must be in [0, 6]", ErrInvalidArgument)
	}
	if rule.StartMinute < 0 || rule.EndMinute > minutesPerDay || rule.StartMinute >= rule.EndMinute {
		return nil, fmt.Errorf("%w: rule start must precede end within the day", ErrInvalidArgument)
	}
	if rule.ValidFrom != nil && rule.ValidUntil != nil && rule.ValidUntil.Before(*rule.ValidFrom) {
		return nil, fmt.Errorf("%w: validity window is inverted", ErrInvalidArgument)
	}

	if _, err := s.GetProvider(ctx, rule.ProviderID); err != nil {
		return nil, err
	}

	rule.IsActive = true
	if err := s.ruleRepo.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("create availability rule: %w", err)
	}

	s.logger.Info("Availability rule created",
		zap.Int64("rule_id", rule.ID),
		zap.Int64("provider_id", rule.ProviderID),
		zap.Int("weekday", rule.Weekday),
	)

	return rule, nil
}

// ListRules получает активные правила поставщика
func (s *ProviderService) ListRules(ctx context.Context, providerID int64) ([]*model.AvailabilityRule, error) {
	if _, err := s.GetProvider(ctx, providerID); err != nil {
		return nil, err
	}
	return s.ruleRepo.GetActiveByProvider(ctx, providerID)
}

// DeactivateRule деактивирует правило поставщика. Правила не
// удаляются: на них могут ссылаться прошедшие записи.
func (s *ProviderService) DeactivateRule(ctx context.Context, providerID, ruleID int64) error {
	rule, err := s.ruleRepo.GetByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: id=%d", ErrRuleNotFound, ruleID)
		}
		return fmt.Errorf("load availability rule: %w", err)
	}
	if rule.ProviderID != providerID {
		return fmt.Errorf("%w: rule %d does not belong to provider %d", ErrRuleNotFound, ruleID, providerID)
	}

	if err := s.ruleRepo.Deactivate(ctx, ruleID); err != nil {
		return fmt.Errorf("deactivate availability rule: %w", err)
	}

	s.logger.Info("Availability rule deactivated",
		zap.Int64("rule_id", ruleID),
		zap.Int64("provider_id", providerID),
	)

	return nil
}

// AddTimeOff создаёт перерыв поставщика и проверяет существующие
// нефинальные записи на новые пересечения. Затронутые записи
// помечаются на перенос уведомлением — отмена остаётся явным
// решением пользователя или поставщика.
func (s *ProviderService) AddTimeOff(ctx context.Context, period *model.TimeOffPeriod) (*model.TimeOffPeriod, []*model.Appointment, error) {
	if period.StartTime.IsZero() || period.EndTime.IsZero() || !period.EndTime.After(period.StartTime) {
		return nil, nil, fmt.Errorf("%w: time off end must be after start", ErrInvalidArgument)
	}

	if _, err := s.GetProvider(ctx, period.ProviderID); err != nil {
		return nil, nil, err
	}

	if err := s.timeOffRepo.Create(ctx, period); err != nil {
		return nil, nil, fmt.Errorf("create time off period: %w", err)
	}

	affected, err := s.apptRepo.GetActiveOverlapping(ctx, period.ProviderID, period.StartTime, period.EndTime)
	if err != nil {
		// Перерыв уже записан; невозможность просканировать записи не
		// откатывает его, но должна быть видна в логах
		s.logger.Error("Time off recorded but overlap scan failed",
			zap.Int64("time_off_id", period.ID),
			zap.Error(err),
		)
		return period, nil, nil
	}

	for _, appt := range affected {
		s.logger.Warn("Appointment overlaps new time off, reschedule needed",
			zap.Int64("appointment_id", appt.ID),
			zap.Int64("provider_id", period.ProviderID),
			zap.Time("start", appt.StartTime),
		)
		s.notifier.RescheduleNeeded(ctx, appt, period.Reason)
	}

	s.logger.Info("Time off period created",
		zap.Int64("time_off_id", period.ID),
		zap.Int64("provider_id", period.ProviderID),
		zap.Int("affected_appointments", len(affected)),
	)

	return period, affected, nil
}

// ListTimeOff получает перерывы поставщика, пересекающиеся с окном
func (s *ProviderService) ListTimeOff(ctx context.Context, providerID int64, from, to time.Time) ([]*model.TimeOffPeriod, error) {
	if _, err := s.GetProvider(ctx, providerID); err != nil {
		return nil, err
	}
	return s.timeOffRepo.GetOverlapping(ctx, providerID, from, to)
}
