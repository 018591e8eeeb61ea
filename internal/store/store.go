// Package store é o único escritor do estado de campanhas, conteúdos e agendamentos
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/vfg2006/campaign-hub-api/internal/domain"
	"github.com/vfg2006/campaign-hub-api/pkg/clock"
	"github.com/vfg2006/campaign-hub-api/pkg/utils"
)

// ChangeListener consome os eventos confirmados. Apply roda dentro do lock de
// escrita, na ordem de commit, e não pode chamar o store. As entidades do
// evento são imutáveis.
type ChangeListener interface {
	Apply(event domain.ChangeEvent)
}

// ChangeListenerFunc adapta uma função a ChangeListener
type ChangeListenerFunc func(event domain.ChangeEvent)

func (f ChangeListenerFunc) Apply(event domain.ChangeEvent) { f(event) }

// DurabilityHook recebe cada evento depois dos listeners, ainda dentro do lock
// de escrita: a implementação não pode bloquear.
type DurabilityHook interface {
	Record(event domain.ChangeEvent)
}

type Option func(s *Store)

func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

func WithIDGenerator(generate func() (string, error)) Option {
	return func(s *Store) {
		s.newID = generate
	}
}

func WithEntryIDGenerator(generate func() string) Option {
	return func(s *Store) {
		s.newEntryID = generate
	}
}

func WithCascadePolicy(policy domain.CascadePolicy) Option {
	return func(s *Store) {
		if policy != "" {
			s.cascade = policy
		}
	}
}

func WithDurabilityHook(hook DurabilityHook) Option {
	return func(s *Store) {
		s.hook = hook
	}
}

// WithSequenceStart faz o primeiro evento sair com a sequência last+1
func WithSequenceStart(last uint64) Option {
	return func(s *Store) {
		s.sequence = last
	}
}

func WithListener(listener ChangeListener) Option {
	return func(s *Store) {
		s.listeners = append(s.listeners, listener)
	}
}

type entryKey struct {
	contentID string
	channel   domain.Channel
}

// Store guarda todo o estado atrás de um RWMutex. As entidades são
// copy-on-write: um ponteiro armazenado nunca é alterado, cada mudança o troca.
type Store struct {
	mu sync.RWMutex

	clock      clock.Clock
	newID      func() (string, error)
	newEntryID func() string
	cascade    domain.CascadePolicy
	listeners  []ChangeListener
	hook       DurabilityHook
	sequence   uint64
	// soma de todos os deltas aceitos, inclusive de conteúdos já removidos
	recorded domain.ContentMetrics

	campaigns  map[string]*domain.Campaign
	contents   map[string]*domain.Content
	entries    map[string]*domain.ScheduleEntry
	entryIndex map[entryKey]string
}

func New(opts ...Option) *Store {
	s := &Store{
		clock:      clock.System{},
		newID:      utils.GenerateID,
		newEntryID: utils.NewSortableID,
		cascade:    domain.CascadeOrphan,
		campaigns:  make(map[string]*domain.Campaign),
		contents:   make(map[string]*domain.Content),
		entries:    make(map[string]*domain.ScheduleEntry),
		entryIndex: make(map[entryKey]string),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Subscribe registra um listener para os eventos confirmados daqui em diante
func (s *Store) Subscribe(listener ChangeListener) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, listener)
}

func (s *Store) Now() time.Time {
	return s.clock.Now()
}

func (s *Store) CascadePolicy() domain.CascadePolicy {
	return s.cascade
}

// emit exige o lock de escrita
func (s *Store) emit(entity domain.EntityType, id string, kind domain.ChangeKind, before, after any, at time.Time) {
	s.sequence++

	event := domain.ChangeEvent{
		Sequence:   s.sequence,
		EntityType: entity,
		EntityID:   id,
		Kind:       kind,
		Before:     before,
		After:      after,
		OccurredAt: at,
	}

	for _, listener := range s.listeners {
		listener.Apply(event)
	}

	if s.hook != nil {
		s.hook.Record(event)
	}
}

func sortCampaigns(campaigns []*domain.Campaign) {
	sort.Slice(campaigns, func(i, j int) bool {
		if !campaigns[i].CreatedAt.Equal(campaigns[j].CreatedAt) {
			return campaigns[i].CreatedAt.Before(campaigns[j].CreatedAt)
		}
		return campaigns[i].ID < campaigns[j].ID
	})
}

func sortContents(contents []*domain.Content) {
	sort.Slice(contents, func(i, j int) bool {
		if !contents[i].CreatedAt.Equal(contents[j].CreatedAt) {
			return contents[i].CreatedAt.Before(contents[j].CreatedAt)
		}
		return contents[i].ID < contents[j].ID
	})
}

func sortEntries(entries []*domain.ScheduleEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].ScheduledAt.Equal(entries[j].ScheduledAt) {
			return entries[i].ScheduledAt.Before(entries[j].ScheduledAt)
		}
		return entries[i].ID < entries[j].ID
	})
}

// ReadLocked executa fn sob o lock de leitura, então o estado dos listeners lido
// em fn é consistente com as entidades confirmadas. fn não pode chamar o store.
func (s *Store) ReadLocked(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fn()
}
