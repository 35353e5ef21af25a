package workers

import (
	"time"

	"devcraft_backend/internal/logger"
	"devcraft_backend/internal/services"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// ReconcileWorker периодически запускает сверку оборванных конверсий.
// Конверсия транзакционна, так что sweep обычно находит ноль работы;
// он страхует от ручных правок БД и старых незавершенных конверсий.
type ReconcileWorker struct {
	db        *gorm.DB
	reconcile services.ReconcileService
	interval  time.Duration
	scheduler gocron.Scheduler
}

func NewReconcileWorker(db *gorm.DB, reconcile services.ReconcileService, intervalMinutes int) (*ReconcileWorker, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &ReconcileWorker{
		db:        db,
		reconcile: reconcile,
		interval:  time.Duration(intervalMinutes) * time.Minute,
		scheduler: s,
	}, nil
}

// Start регистрирует задачу и запускает планировщик
func (w *ReconcileWorker) Start() error {
	_, err := w.scheduler.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(w.Execute),
		gocron.WithName("request_conversion_reconcile"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	w.scheduler.Start()
	logger.Info("Reconcile worker запущен", "interval", w.interval.String())
	return nil
}

// Execute - один проход сверки
func (w *ReconcileWorker) Execute() {
	repaired, err := w.reconcile.Sweep(w.db)
	if err != nil {
		logger.WorkerLog("reconcile", "sweep", err)
		return
	}
	if repaired > 0 {
		logger.Info("Сверка восстановила обратные ссылки", "repaired", repaired)
	}
}

// Stop останавливает планировщик
func (w *ReconcileWorker) Stop() {
	if err := w.scheduler.Shutdown(); err != nil {
		logger.WorkerLog("reconcile", "shutdown", err)
	}
}
