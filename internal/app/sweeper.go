package app

import (
	"context"
	"time"

	"github.com/Freeeeeet/appointment_scheduler/internal/repository"
	"go.uber.org/zap"
)

// Sweeper управляет фоновыми задачами обслуживания записей
type Sweeper struct {
	apptRepo repository.AppointmentStore
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
}

// NewSweeper создаёт фоновый обработчик. interval <= 0 — раз в час.
func NewSweeper(apptRepo repository.AppointmentStore, interval time.Duration, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{
		apptRepo: apptRepo,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("Starting background sweeper")
	go s.runCompletionTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Sweeper) Stop() {
	s.logger.Info("Stopping background sweeper")
	close(s.stopChan)
}

// runCompletionTask периодически переводит прошедшие записи в completed
func (s *Sweeper) runCompletionTask(ctx context.Context) {
	// Первый проход сразу при старте
	s.completePast(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.completePast(ctx)
		case <-s.stopChan:
			s.logger.Info("Completion task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Completion task cancelled")
			return
		}
	}
}

// completePast закрывает нефинальные записи, чей интервал уже прошёл.
// Завершённые записи перестают участвовать в проверке пересечений.
func (s *Sweeper) completePast(ctx context.Context) {
	n, err := s.apptRepo.CompletePast(ctx, time.Now())
	if err != nil {
		s.logger.Error("Failed to complete past appointments", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("Past appointments completed", zap.Int64("count", n))
	}
}
