package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-hub-api/internal/domain"
)

const (
	defaultJournalBuffer     = 1024
	defaultJournalBatch      = 100
	defaultJournalMaxPending = 10 * defaultJournalBuffer
	defaultFlushInterval     = time.Second
	defaultMaxBackoff        = 30 * time.Second
	journalShutdownTimeout   = 5 * time.Second
)

// Journal grava de forma assíncrona os eventos do store, preservando a ordem
// de commit. Record nunca bloqueia o escritor do store: com o buffer cheio o
// evento é descartado e contabilizado em Dropped. Enquanto o banco falha os
// eventos ficam pendentes até maxPending e as novas tentativas seguem o ticker
// com backoff exponencial.
type Journal struct {
	repo          ChangeEventRepository
	events        chan domain.ChangeEvent
	batchSize     int
	maxPending    int
	flushInterval time.Duration
	maxBackoff    time.Duration
	dropped       atomic.Uint64
	persisted     atomic.Uint64
}

type JournalOption func(*Journal)

// WithBatchSize limita quantos eventos vão em cada INSERT
func WithBatchSize(size int) JournalOption {
	return func(j *Journal) {
		if size > 0 {
			j.batchSize = size
		}
	}
}

func WithFlushInterval(interval time.Duration) JournalOption {
	return func(j *Journal) {
		if interval > 0 {
			j.flushInterval = interval
		}
	}
}

// WithMaxPending limita os eventos retidos enquanto o banco está indisponível
func WithMaxPending(max int) JournalOption {
	return func(j *Journal) {
		if max > 0 {
			j.maxPending = max
		}
	}
}

func WithMaxBackoff(backoff time.Duration) JournalOption {
	return func(j *Journal) {
		if backoff > 0 {
			j.maxBackoff = backoff
		}
	}
}

func NewJournal(repo ChangeEventRepository, bufferSize int, opts ...JournalOption) *Journal {
	if bufferSize <= 0 {
		bufferSize = defaultJournalBuffer
	}

	j := &Journal{
		repo:          repo,
		events:        make(chan domain.ChangeEvent, bufferSize),
		batchSize:     defaultJournalBatch,
		maxPending:    defaultJournalMaxPending,
		flushInterval: defaultFlushInterval,
		maxBackoff:    defaultMaxBackoff,
	}
	for _, opt := range opts {
		opt(j)
	}
	if j.maxPending < j.batchSize {
		j.maxPending = j.batchSize
	}
	return j
}

// Record enfileira o evento
func (j *Journal) Record(event domain.ChangeEvent) {
	select {
	case j.events <- event:
	default:
		j.drop(event, "Buffer do journal cheio, evento descartado")
	}
}

func (j *Journal) drop(event domain.ChangeEvent, message string) {
	dropped := j.dropped.Add(1)
	if dropped == 1 || dropped%1000 == 0 {
		logrus.WithFields(logrus.Fields{
			"sequence": event.Sequence,
			"dropped":  dropped,
		}).Error(message)
	}
}

// Run consome a fila até ctx ser cancelado e então grava o que restou.
func (j *Journal) Run(ctx context.Context) {
	ticker := time.NewTicker(j.flushInterval)
	defer ticker.Stop()

	pending := make([]domain.ChangeEvent, 0, j.batchSize)

	var (
		err       error
		backoff   time.Duration
		nextRetry time.Time
	)

	for {
		select {
		case <-ctx.Done():
			pending = j.drain(pending)

			shutdownCtx, cancel := context.WithTimeout(context.Background(), journalShutdownTimeout)
			pending, _ = j.flush(shutdownCtx, pending)
			cancel()

			if len(pending) > 0 {
				logrus.WithField("pending", len(pending)).Error("Journal encerrado com eventos não gravados")
			}
			return

		case event := <-j.events:
			pending = j.enqueue(pending, event)
			// em backoff só o ticker tenta de novo
			if backoff == 0 && len(pending) >= j.batchSize {
				pending, err = j.flush(ctx, pending)
				backoff, nextRetry = j.nextBackoff(backoff, err)
			}

		case now := <-ticker.C:
			if backoff > 0 && now.Before(nextRetry) {
				continue
			}
			pending, err = j.flush(ctx, pending)
			backoff, nextRetry = j.nextBackoff(backoff, err)
		}
	}
}

func (j *Journal) enqueue(pending []domain.ChangeEvent, event domain.ChangeEvent) []domain.ChangeEvent {
	if len(pending) >= j.maxPending {
		j.drop(event, "Journal com muitos eventos pendentes, evento descartado")
		return pending
	}
	return append(pending, event)
}

func (j *Journal) nextBackoff(current time.Duration, err error) (time.Duration, time.Time) {
	if err == nil {
		return 0, time.Time{}
	}

	next := current * 2
	if next == 0 {
		next = j.flushInterval
	}
	if next > j.maxBackoff {
		next = j.maxBackoff
	}
	return next, time.Now().Add(next)
}

func (j *Journal) drain(pending []domain.ChangeEvent) []domain.ChangeEvent {
	for {
		select {
		case event := <-j.events:
			pending = j.enqueue(pending, event)
		default:
			return pending
		}
	}
}

// flush grava pending em lotes de até batchSize e devolve o que não foi
// gravado; o lote que falhou continua na frente para a próxima tentativa
func (j *Journal) flush(ctx context.Context, pending []domain.ChangeEvent) ([]domain.ChangeEvent, error) {
	for len(pending) > 0 {
		n := min(j.batchSize, len(pending))

		if err := j.repo.SaveBatch(ctx, pending[:n]); err != nil {
			logrus.WithFields(logrus.Fields{
				"events":         n,
				"pending":        len(pending),
				"first_sequence": pending[0].Sequence,
			}).WithError(err).Error("Erro ao gravar eventos no journal")
			return pending, err
		}

		j.persisted.Add(uint64(n))
		pending = pending[n:]
	}

	return make([]domain.ChangeEvent, 0, j.batchSize), nil
}

func (j *Journal) Dropped() uint64 {
	return j.dropped.Load()
}

func (j *Journal) Persisted() uint64 {
	return j.persisted.Load()
}
