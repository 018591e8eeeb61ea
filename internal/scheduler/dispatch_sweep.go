package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-hub-api/internal/config"
	"github.com/vfg2006/campaign-hub-api/internal/domain"
)

// Sweeper executa uma varredura de despacho
type Sweeper interface {
	Sweep(ctx context.Context) (*domain.SweepReport, error)
}

// DispatchSweepConfig representa a configuração do agendador de despacho
type DispatchSweepConfig struct {
	CronSchedule  string
	SweepEnabled  bool
	MaxConcurrent int
	Timeout       time.Duration
	MaxAttempts   int
}

// DispatchSweepService dispara o sweep do Engine periodicamente via gocron
type DispatchSweepService struct {
	scheduler            *gocron.Scheduler
	config               DispatchSweepConfig
	sweeper              Sweeper
	ctx                  context.Context
	sweepRunning         bool
	sweepMutex           sync.Mutex
	lastSweepStartedAt   time.Time
	lastSweepCompletedAt time.Time
	lastReport           *domain.SweepReport
	lastError            string
}

// NewDispatchSweepService cria uma nova instância do serviço de varredura
func NewDispatchSweepService(sweeper Sweeper, appConfig *config.Config) *DispatchSweepService {
	sweepConfig := DispatchSweepConfig{
		CronSchedule:  appConfig.DispatchSweep.CronSchedule,
		SweepEnabled:  appConfig.DispatchSweep.Enabled,
		MaxConcurrent: appConfig.DispatchSweep.MaxConcurrent,
		Timeout:       appConfig.DispatchSweep.Timeout,
		MaxAttempts:   appConfig.DispatchSweep.MaxAttempts,
	}

	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	logrus.WithFields(logrus.Fields{
		"cron_schedule":  sweepConfig.CronSchedule,
		"sweep_enabled":  sweepConfig.SweepEnabled,
		"max_concurrent": sweepConfig.MaxConcurrent,
		"timeout":        sweepConfig.Timeout.String(),
		"max_attempts":   sweepConfig.MaxAttempts,
	}).Info("Configuração do agendador de despacho carregada")

	return &DispatchSweepService{
		scheduler: scheduler,
		config:    sweepConfig,
		sweeper:   sweeper,
		ctx:       context.Background(),
	}
}

// Start inicia o agendador
func (s *DispatchSweepService) Start(ctx context.Context) error {
	s.sweepMutex.Lock()
	s.ctx = ctx
	s.sweepMutex.Unlock()

	if !s.config.SweepEnabled {
		logrus.Info("Varredura de despacho desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de despacho")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar varredura de despacho: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de despacho")
		s.scheduler.Stop()
	}()

	return nil
}

// RunOnce runs one sweep unless another one is in progress. It reports
// whether the sweep ran.
func (s *DispatchSweepService) RunOnce(ctx context.Context) (*domain.SweepReport, bool) {
	s.sweepMutex.Lock()
	if s.sweepRunning {
		s.sweepMutex.Unlock()
		logrus.Info("Varredura de despacho já em andamento, ignorando")
		return nil, false
	}
	s.sweepRunning = true
	s.lastSweepStartedAt = time.Now()
	s.sweepMutex.Unlock()

	report, err := s.sweeper.Sweep(ctx)

	s.sweepMutex.Lock()
	defer s.sweepMutex.Unlock()

	s.sweepRunning = false
	s.lastSweepCompletedAt = time.Now()
	s.lastReport = report
	s.lastError = ""

	if err != nil {
		s.lastError = err.Error()
		logrus.WithError(err).Error("Varredura de despacho interrompida")
	}

	return report, true
}

// TriggerManualSweep inicia manualmente uma varredura em background
func (s *DispatchSweepService) TriggerManualSweep() bool {
	s.sweepMutex.Lock()
	running := s.sweepRunning
	ctx := s.ctx
	s.sweepMutex.Unlock()

	if running {
		logrus.Info("Varredura de despacho já em andamento, ignorando solicitação manual")
		return false
	}

	logrus.Info("Iniciando varredura manual de despacho")
	go s.RunOnce(ctx)
	return true
}

// GetStatus retorna o status atual do agendador
func (s *DispatchSweepService) GetStatus() map[string]any {
	s.sweepMutex.Lock()
	defer s.sweepMutex.Unlock()

	status := map[string]any{
		"sweep_enabled":           s.config.SweepEnabled,
		"sweep_cron":              s.config.CronSchedule,
		"sweep_running":           s.sweepRunning,
		"sweep_max_concurrent":    s.config.MaxConcurrent,
		"sweep_timeout":           s.config.Timeout.String(),
		"sweep_max_attempts":      s.config.MaxAttempts,
		"last_sweep_started_at":   s.lastSweepStartedAt,
		"last_sweep_completed_at": s.lastSweepCompletedAt,
	}

	if s.lastReport != nil {
		status["last_sweep_due"] = s.lastReport.Due
		status["last_sweep_dispatched"] = len(s.lastReport.Dispatched)
		status["last_sweep_retrying"] = len(s.lastReport.Retrying)
		status["last_sweep_exhausted"] = len(s.lastReport.Exhausted)
	}
	if s.lastError != "" {
		status["last_sweep_error"] = s.lastError
	}

	return status
}
