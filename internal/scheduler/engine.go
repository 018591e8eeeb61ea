package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-hub-api/internal/domain"
	"github.com/vfg2006/campaign-hub-api/pkg/clock"
)

const (
	defaultMaxConcurrentDispatches = 3
	defaultDispatchTimeout         = 10 * time.Second
	defaultMaxAttempts             = 3
)

// EngineConfig representa os limites do despacho
type EngineConfig struct {
	MaxConcurrentDispatches int
	DispatchTimeout         time.Duration
	MaxAttempts             int
}

func (c EngineConfig) withDefaults() EngineConfig {
	if c.MaxConcurrentDispatches <= 0 {
		c.MaxConcurrentDispatches = defaultMaxConcurrentDispatches
	}
	if c.DispatchTimeout <= 0 {
		c.DispatchTimeout = defaultDispatchTimeout
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	return c
}

// BatchItemError descreve um item rejeitado do agendamento em lote
type BatchItemError struct {
	Index     int            `json:"index"`
	ContentID string         `json:"contentId"`
	Platform  domain.Channel `json:"platform"`
	Error     string         `json:"error"`
	err       error
}

// Err returns the underlying error of the rejected item.
func (e BatchItemError) Err() error { return e.err }

type BatchResult struct {
	ScheduledCount int                     `json:"scheduledCount"`
	Entries        []*domain.ScheduleEntry `json:"entries"`
	Errors         []BatchItemError        `json:"errors,omitempty"`
}

// Engine agenda conteúdo e despacha as entradas vencidas pelo ChannelGateway
type Engine struct {
	store    ScheduleStore
	gateway  ChannelGateway
	notifier Notifier
	clock    clock.Clock
	config   EngineConfig
	sweepMu  sync.Mutex
}

// NewEngine cria o motor de agendamento
func NewEngine(store ScheduleStore, gateway ChannelGateway, clk clock.Clock, cfg EngineConfig) *Engine {
	if clk == nil {
		clk = clock.System{}
	}

	return &Engine{
		store:    store,
		gateway:  gateway,
		notifier: noopNotifier{},
		clock:    clk,
		config:   cfg.withDefaults(),
	}
}

// WithNotifier habilita a publicação dos resultados de despacho
func (e *Engine) WithNotifier(notifier Notifier) *Engine {
	if notifier != nil {
		e.notifier = notifier
	}
	return e
}

func (e *Engine) Config() EngineConfig {
	return e.config
}

// ScheduleContent creates or reschedules the entry of a content/channel pair.
func (e *Engine) ScheduleContent(contentID string, channel domain.Channel, at time.Time) (*domain.ScheduleEntry, error) {
	entry, err := e.store.UpsertScheduleEntry(contentID, channel, at)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"entry_id":     entry.ID,
		"content_id":   contentID,
		"channel":      entry.Channel,
		"scheduled_at": entry.ScheduledAt.Format(time.RFC3339),
		"revision":     entry.Revision,
	}).Info("Conteúdo agendado")

	return entry, nil
}

// ScheduleBatch schedules every item independently; a rejected item does not
// prevent the others from being scheduled.
func (e *Engine) ScheduleBatch(items []domain.ScheduleItem) *BatchResult {
	result := &BatchResult{Entries: make([]*domain.ScheduleEntry, 0, len(items))}

	for i, item := range items {
		entry, err := e.ScheduleContent(item.ContentID, item.Channel, item.ScheduledAt)
		if err != nil {
			result.Errors = append(result.Errors, BatchItemError{
				Index:     i,
				ContentID: item.ContentID,
				Platform:  item.Channel,
				Error:     err.Error(),
				err:       err,
			})
			continue
		}
		result.Entries = append(result.Entries, entry)
	}

	result.ScheduledCount = len(result.Entries)
	return result
}

func (e *Engine) UnscheduleContent(contentID string, channel domain.Channel) error {
	if err := e.store.RemoveScheduleEntry(contentID, channel); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"content_id": contentID,
		"channel":    channel,
	}).Info("Agendamento removido")

	return nil
}

func (e *Engine) ListSchedule(contentID string) []*domain.ScheduleEntry {
	return e.store.ListScheduleEntries(contentID)
}

// TestConnection delegates to the gateway health check.
func (e *Engine) TestConnection(ctx context.Context) (*domain.HealthStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, e.config.DispatchTimeout)
	defer cancel()

	status, err := e.gateway.CheckHealth(ctx)
	if err != nil {
		return &domain.HealthStatus{Healthy: false, Message: err.Error()}, nil
	}
	return status, nil
}

// Sweep dispatches every entry due at the current time. Due entries are
// snapshotted under the store lock, dispatched outside of it by a bounded pool
// and committed back one by one. Sweeps never overlap.
func (e *Engine) Sweep(ctx context.Context) (*domain.SweepReport, error) {
	e.sweepMu.Lock()
	defer e.sweepMu.Unlock()

	report := &domain.SweepReport{
		StartedAt:  e.clock.Now(),
		Dispatched: []domain.ScheduleEntry{},
		Retrying:   []domain.ScheduleEntry{},
		Exhausted:  []domain.ScheduleEntry{},
	}

	jobs := e.store.DueEntries(report.StartedAt)
	report.Due = len(jobs)

	if len(jobs) == 0 {
		report.FinishedAt = e.clock.Now()
		return report, nil
	}

	logrus.WithFields(logrus.Fields{
		"due":            len(jobs),
		"max_concurrent": e.config.MaxConcurrentDispatches,
	}).Info("Iniciando despacho de agendamentos vencidos")

	// Criar um canal para controlar o número de despachos concorrentes
	semaphore := make(chan struct{}, e.config.MaxConcurrentDispatches)
	var (
		wg       sync.WaitGroup
		reportMu sync.Mutex
		sweepErr error
	)

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			sweepErr = err
			break
		}

		wg.Add(1)
		semaphore <- struct{}{}

		go func(job domain.DispatchJob) {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			entry, result, err := e.dispatch(ctx, job)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"entry_id": job.Entry.ID,
					"error":    err.Error(),
				}).Error("Erro ao registrar resultado do despacho")
				return
			}

			reportMu.Lock()
			defer reportMu.Unlock()

			switch result {
			case domain.CommitDispatched:
				report.Dispatched = append(report.Dispatched, *entry)
			case domain.CommitRetrying:
				report.Retrying = append(report.Retrying, *entry)
			case domain.CommitExhausted:
				report.Exhausted = append(report.Exhausted, *entry)
			default:
				report.Stale++
			}
		}(job)
	}

	wg.Wait()
	report.FinishedAt = e.clock.Now()

	logrus.WithFields(logrus.Fields{
		"due":        report.Due,
		"dispatched": len(report.Dispatched),
		"retrying":   len(report.Retrying),
		"exhausted":  len(report.Exhausted),
		"stale":      report.Stale,
	}).Info("Despacho de agendamentos concluído")

	return report, sweepErr
}

type publishResponse struct {
	result *domain.PublishResult
	err    error
}

// dispatch publishes one job under its own timeout and commits the outcome.
func (e *Engine) dispatch(ctx context.Context, job domain.DispatchJob) (*domain.ScheduleEntry, domain.CommitResult, error) {
	outcome := e.publish(ctx, job)

	// sweep cancelado: nada é registrado, a entrada continua vencida
	if !outcome.Success && ctx.Err() != nil {
		logrus.WithField("entry_id", job.Entry.ID).Warn("Despacho interrompido pelo cancelamento do sweep")
		return nil, domain.CommitStale, nil
	}

	entry, result, err := e.store.CommitDispatch(job.Entry.ID, job.Entry.Revision, outcome, e.config.MaxAttempts)
	if err != nil {
		return nil, "", err
	}

	fields := logrus.Fields{
		"entry_id":   job.Entry.ID,
		"content_id": job.Entry.ContentID,
		"channel":    job.Entry.Channel,
		"result":     result,
	}

	switch result {
	case domain.CommitStale, domain.CommitDuplicate:
		logrus.WithFields(fields).Warn("Resultado de despacho descartado")
		return entry, result, nil
	case domain.CommitDispatched:
		logrus.WithFields(fields).Info("Conteúdo despachado")
	default:
		fields["attempts"] = entry.Attempts
		fields["error"] = entry.LastError
		logrus.WithFields(fields).Warn("Falha no despacho")
	}

	notification := domain.DispatchNotification{
		EntryID:    entry.ID,
		ContentID:  entry.ContentID,
		Channel:    entry.Channel,
		Result:     result,
		Status:     entry.DispatchStatus,
		Attempts:   entry.Attempts,
		ExternalID: entry.ExternalID,
		Error:      entry.LastError,
		OccurredAt: entry.UpdatedAt,
	}
	if err := e.notifier.Notify(ctx, notification); err != nil {
		logrus.WithFields(fields).WithError(err).Error("Erro ao publicar notificação de despacho")
	}

	return entry, result, nil
}

func (e *Engine) publish(ctx context.Context, job domain.DispatchJob) domain.DispatchOutcome {
	callCtx, cancel := context.WithTimeout(ctx, e.config.DispatchTimeout)
	defer cancel()

	done := make(chan publishResponse, 1)
	go func() {
		result, err := e.gateway.Publish(callCtx, job.Entry.Channel, job.Content)
		done <- publishResponse{result: result, err: err}
	}()

	var resp publishResponse
	select {
	case resp = <-done:
	case <-callCtx.Done():
		resp.err = callCtx.Err()
	}

	if resp.err != nil {
		if errors.Is(resp.err, context.DeadlineExceeded) {
			resp.err = &domain.GatewayError{
				Channel: job.Entry.Channel,
				Err:     fmt.Errorf("dispatch timed out after %s", e.config.DispatchTimeout),
			}
		}
		return domain.DispatchOutcome{Err: resp.err, Permanent: domain.IsPermanent(resp.err)}
	}

	if resp.result == nil || !resp.result.Success {
		reason := "gateway reported failure"
		if resp.result != nil && resp.result.Error != "" {
			reason = resp.result.Error
		}
		return domain.DispatchOutcome{Err: &domain.GatewayError{Channel: job.Entry.Channel, Err: errors.New(reason)}}
	}

	return domain.DispatchOutcome{Success: true, ExternalID: resp.result.ExternalID}
}
