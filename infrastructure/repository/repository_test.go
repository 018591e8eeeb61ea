package repository

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-hub-api/internal/domain"
)

var occurredAt = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func event(seq uint64) domain.ChangeEvent {
	return domain.ChangeEvent{
		Sequence:   seq,
		EntityType: domain.EntityContent,
		EntityID:   "cnt-1",
		Kind:       domain.ChangeUpdated,
		Before:     &domain.Content{ID: "cnt-1", Status: domain.ContentStatusDraft},
		After:      &domain.Content{ID: "cnt-1", Status: domain.ContentStatusScheduled},
		OccurredAt: occurredAt,
	}
}

type fakeEventRepo struct {
	mu       sync.Mutex
	failures int
	calls    int
	maxBatch int
	saved    []uint64
	batches  []int
}

func (f *fakeEventRepo) SaveBatch(_ context.Context, events []domain.ChangeEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.maxBatch = max(f.maxBatch, len(events))
	if f.failures > 0 {
		f.failures--
		return errors.New("connection reset")
	}
	for _, e := range events {
		f.saved = append(f.saved, e.Sequence)
	}
	f.batches = append(f.batches, len(events))
	return nil
}

func (f *fakeEventRepo) stats() (calls, maxBatch int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls, f.maxBatch
}

func (f *fakeEventRepo) heal() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = 0
}

func (f *fakeEventRepo) LastSequence(context.Context) (uint64, error) { return 0, nil }

func (f *fakeEventRepo) ListSince(context.Context, uint64, uint64) ([]domain.ChangeEvent, error) {
	return nil, nil
}

func (f *fakeEventRepo) savedSequences() []uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint64(nil), f.saved...)
}

func TestBuildInsertChangeEvents(t *testing.T) {
	created := event(1)
	created.Kind = domain.ChangeCreated
	created.Before = nil

	sqlQuery, args, err := buildInsertChangeEvents([]domain.ChangeEvent{created, event(2)})
	require.NoError(t, err)

	assert.Contains(t, sqlQuery, "INSERT INTO change_events (sequence,entity_type,entity_id,kind,before_state,after_state,occurred_at)")
	assert.Contains(t, sqlQuery, "($1,$2,$3,$4,$5,$6,$7),($8,$9,$10,$11,$12,$13,$14)")
	assert.Contains(t, sqlQuery, "ON CONFLICT (sequence) DO NOTHING")
	require.Len(t, args, 14)

	assert.Equal(t, uint64(1), args[0])
	assert.Nil(t, args[4])
	assert.Contains(t, args[5], `"status":"scheduled"`)
	assert.Contains(t, args[11], `"status":"draft"`)
	assert.Equal(t, occurredAt, args[13])
}

func TestBuildListChangeEvents(t *testing.T) {
	sqlQuery, args, err := buildListChangeEvents(41, 10)
	require.NoError(t, err)

	assert.Contains(t, sqlQuery, "FROM change_events WHERE sequence > $1 ORDER BY sequence ASC LIMIT 10")
	assert.Equal(t, []any{uint64(41)}, args)
}

func TestJournal_PersistsInOrder(t *testing.T) {
	repo := &fakeEventRepo{}
	journal := NewJournal(repo, 64, WithBatchSize(4), WithFlushInterval(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		journal.Run(ctx)
	}()

	for seq := uint64(1); seq <= 10; seq++ {
		journal.Record(event(seq))
	}

	require.Eventually(t, func() bool { return len(repo.savedSequences()) == 10 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, []uint64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, repo.savedSequences())
	assert.Equal(t, uint64(10), journal.Persisted())
	assert.Zero(t, journal.Dropped())
}

func TestJournal_RetriesFailedBatch(t *testing.T) {
	repo := &fakeEventRepo{failures: 2}
	journal := NewJournal(repo, 16, WithFlushInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		journal.Run(ctx)
	}()

	journal.Record(event(1))
	journal.Record(event(2))

	require.Eventually(t, func() bool { return len(repo.savedSequences()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, []uint64{1, 2}, repo.savedSequences())
}

func TestJournal_FlushesOnShutdown(t *testing.T) {
	repo := &fakeEventRepo{}
	journal := NewJournal(repo, 16, WithFlushInterval(time.Hour))

	journal.Record(event(1))
	journal.Record(event(2))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	journal.Run(ctx)

	assert.Equal(t, []uint64{1, 2}, repo.savedSequences())
}

func TestJournal_DropsWhenFull(t *testing.T) {
	repo := &fakeEventRepo{}
	journal := NewJournal(repo, 1)

	journal.Record(event(1))
	journal.Record(event(2))

	assert.Equal(t, uint64(1), journal.Dropped())
}

func TestJournal_FlushesInChunks(t *testing.T) {
	repo := &fakeEventRepo{}
	journal := NewJournal(repo, 16, WithBatchSize(3), WithFlushInterval(time.Hour))

	for seq := uint64(1); seq <= 8; seq++ {
		journal.Record(event(seq))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	journal.Run(ctx)

	assert.Equal(t, []int{3, 3, 2}, repo.batches)
	assert.Equal(t, []uint64{1, 2, 3, 4, 5, 6, 7, 8}, repo.savedSequences())
	assert.Equal(t, uint64(8), journal.Persisted())
}

func TestJournal_DatabaseOutage(t *testing.T) {
	repo := &fakeEventRepo{failures: math.MaxInt}
	journal := NewJournal(repo, 4096,
		WithBatchSize(2),
		WithMaxPending(5),
		WithFlushInterval(10*time.Millisecond),
		WithMaxBackoff(40*time.Millisecond),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		journal.Run(ctx)
	}()

	for seq := uint64(1); seq <= 2000; seq++ {
		journal.Record(event(seq))
	}

	// só os primeiros maxPending ficam retidos, o resto é descartado
	require.Eventually(t, func() bool { return journal.Dropped() == 1995 }, time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	calls, maxBatch := repo.stats()
	assert.LessOrEqual(t, calls, 12)
	assert.LessOrEqual(t, maxBatch, 2)

	repo.heal()
	require.Eventually(t, func() bool { return len(repo.savedSequences()) == 5 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, repo.savedSequences())
	assert.Equal(t, uint64(5), journal.Persisted())
}
