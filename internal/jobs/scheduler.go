// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает сверку списаний за комментарии.
package jobs

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/BloomIdeas/BloomIdeas/internal/features/comments"
)

// Reconciler — то, что умеет дописывать потерянные списания.
type Reconciler interface {
	Reconcile(ctx context.Context) (comments.ReconcileReport, error)
}

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron       *cron.Cron
	reconciler Reconciler
	spec       string

	mu      sync.Mutex
	running bool
}

// NewScheduler создаёт планировщик. Расписание в формате cron (5 полей, UTC).
func NewScheduler(reconciler Reconciler, spec string) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("расписание сверки %q: %w", spec, err)
	}
	return &Scheduler{
		cron:       cron.New(),
		reconciler: reconciler,
		spec:       spec,
	}, nil
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("добавить задачу сверки: %w", err)
	}
	s.cron.Start()
	log.WithField("schedule", s.spec).Info("Планировщик задач запущен")
	return nil
}

// RunOnce выполняет одну сверку. Если предыдущая ещё идёт — пропускает.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		log.Debug("[CRON] Сверка ещё идёт, пропускаем")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	report, err := s.reconciler.Reconcile(ctx)
	if err != nil {
		log.WithError(err).Error("[CRON] Ошибка сверки списаний")
		return
	}
	log.WithFields(log.Fields{
		"checked":  report.Checked,
		"repaired": report.Repaired,
		"failed":   report.Failed,
	}).Debug("[CRON] Сверка списаний завершена")
}

// Stop останавливает планировщик и ждёт текущую задачу.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
