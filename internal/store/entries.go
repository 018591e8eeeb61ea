package store

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vfg2006/campaign-hub-api/internal/domain"
)

// UpsertScheduleEntry cria ou reagenda a entrada do par (conteúdo, canal).
// Reagendar zera o estado de despacho e incrementa a revisão, e os despachos
// em andamento do horário antigo são registrados como stale.
func (s *Store) UpsertScheduleEntry(contentID string, channel domain.Channel, at time.Time) (*domain.ScheduleEntry, error) {
	channel = domain.Channel(strings.ToLower(strings.TrimSpace(string(channel))))
	if channel == "" {
		return nil, domain.NewValidationError("platform", "is required")
	}
	if at.IsZero() {
		return nil, domain.NewValidationError("scheduledAt", "is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	content, ok := s.contents[contentID]
	if !ok {
		return nil, domain.NewNotFoundError(domain.EntityContent, contentID)
	}

	key := entryKey{contentID: contentID, channel: channel}
	current := s.entryByKeyLocked(key)
	if current != nil && current.DispatchStatus == domain.DispatchStatusDispatched {
		return nil, domain.NewConflictError("content %s was already dispatched to %s", contentID, channel)
	}

	if content.Status == domain.ContentStatusPublished {
		return nil, domain.NewValidationError("contentId", "content %s is already published", contentID)
	}
	if !domain.ContainsChannel(content.Channels, channel) {
		return nil, domain.NewValidationError("platform", "channel %s is not enabled for content %s", channel, contentID)
	}

	now := s.clock.Now()
	at = at.UTC()
	if at.Before(now) {
		return nil, domain.NewValidationError("scheduledAt", "must not be in the past")
	}

	var entry *domain.ScheduleEntry
	if current == nil {
		entry = &domain.ScheduleEntry{
			ID:        s.newEntryID(),
			ContentID: contentID,
			Channel:   channel,
			CreatedAt: now,
		}
	} else {
		entry = current.Clone()
		entry.Revision++
	}

	entry.ScheduledAt = at
	entry.DispatchStatus = domain.DispatchStatusPending
	entry.Attempts = 0
	entry.Terminal = false
	entry.LastError = ""
	entry.UpdatedAt = now

	s.entries[entry.ID] = entry
	s.entryIndex[key] = entry.ID

	if current == nil {
		s.emit(domain.EntityScheduleEntry, entry.ID, domain.ChangeCreated, nil, entry, now)
	} else {
		s.emit(domain.EntityScheduleEntry, entry.ID, domain.ChangeUpdated, current, entry, now)
	}

	s.refreshContentScheduleLocked(content, now)
	s.activateForScheduleLocked(content.CampaignID, now)

	return entry.Clone(), nil
}

// RemoveScheduleEntry remove uma entrada pendente ou falha. Quando sai a última
// entrada de um conteúdo não publicado ele volta para draft.
func (s *Store) RemoveScheduleEntry(contentID string, channel domain.Channel) error {
	channel = domain.Channel(strings.ToLower(strings.TrimSpace(string(channel))))

	s.mu.Lock()
	defer s.mu.Unlock()

	content, ok := s.contents[contentID]
	if !ok {
		return domain.NewNotFoundError(domain.EntityContent, contentID)
	}

	key := entryKey{contentID: contentID, channel: channel}
	entry := s.entryByKeyLocked(key)
	if entry == nil {
		return domain.NewNotFoundError(domain.EntityScheduleEntry, fmt.Sprintf("%s/%s", contentID, channel))
	}
	if entry.DispatchStatus == domain.DispatchStatusDispatched {
		return domain.NewConflictError("content %s was already dispatched to %s", contentID, channel)
	}

	now := s.clock.Now()
	delete(s.entries, entry.ID)
	delete(s.entryIndex, key)
	s.emit(domain.EntityScheduleEntry, entry.ID, domain.ChangeDeleted, entry, nil, now)

	s.refreshContentScheduleLocked(content, now)
	return nil
}

func (s *Store) GetScheduleEntry(id string) (*domain.ScheduleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, domain.NewNotFoundError(domain.EntityScheduleEntry, id)
	}

	return entry.Clone(), nil
}

// ListScheduleEntries lista as entradas por horário; contentID vazio lista todas
func (s *Store) ListScheduleEntries(contentID string) []*domain.ScheduleEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]*domain.ScheduleEntry, 0)
	for _, entry := range s.entries {
		if contentID == "" || entry.ContentID == contentID {
			entries = append(entries, entry.Clone())
		}
	}

	sortEntries(entries)
	return entries
}

// DueEntries copia as entradas vencidas em now junto com seus conteúdos
func (s *Store) DueEntries(now time.Time) []domain.DispatchJob {
	s.mu.RLock()
	defer s.mu.RUnlock()

	due := make([]*domain.ScheduleEntry, 0)
	for _, entry := range s.entries {
		if entry.Due(now) {
			due = append(due, entry)
		}
	}
	sortEntries(due)

	jobs := make([]domain.DispatchJob, 0, len(due))
	for _, entry := range due {
		content, ok := s.contents[entry.ContentID]
		if !ok {
			continue
		}
		jobs = append(jobs, domain.DispatchJob{Entry: *entry.Clone(), Content: *content.Clone()})
	}

	return jobs
}

// CommitDispatch registra o resultado de uma tentativa de despacho. É stale
// quando a entrada foi removida ou reagendada depois da cópia, e não muda nada
// quando a entrada já foi despachada.
func (s *Store) CommitDispatch(entryID string, revision int, outcome domain.DispatchOutcome, maxAttempts int) (*domain.ScheduleEntry, domain.CommitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.entries[entryID]
	if !ok || current.Revision != revision {
		return nil, domain.CommitStale, nil
	}
	if current.DispatchStatus == domain.DispatchStatusDispatched {
		return current.Clone(), domain.CommitDuplicate, nil
	}

	now := s.clock.Now()
	entry := current.Clone()
	entry.UpdatedAt = now

	if outcome.Success {
		entry.DispatchStatus = domain.DispatchStatusDispatched
		entry.ExternalID = outcome.ExternalID
		entry.LastError = ""
		entry.DispatchedAt = &now
		s.entries[entryID] = entry
		s.emit(domain.EntityScheduleEntry, entryID, domain.ChangeUpdated, current, entry, now)

		if err := s.publishContentLocked(entry.ContentID, now); err != nil {
			return nil, "", err
		}
		return entry.Clone(), domain.CommitDispatched, nil
	}

	entry.Attempts++
	entry.DispatchStatus = domain.DispatchStatusFailed
	if outcome.Err != nil {
		entry.LastError = outcome.Err.Error()
	}
	entry.Terminal = outcome.Permanent || domain.IsPermanent(outcome.Err) || entry.Attempts >= maxAttempts

	s.entries[entryID] = entry
	s.emit(domain.EntityScheduleEntry, entryID, domain.ChangeUpdated, current, entry, now)

	if entry.Terminal {
		return entry.Clone(), domain.CommitExhausted, nil
	}
	return entry.Clone(), domain.CommitRetrying, nil
}

// marca o conteúdo como publicado no primeiro despacho com sucesso
func (s *Store) publishContentLocked(contentID string, now time.Time) error {
	current, ok := s.contents[contentID]
	if !ok {
		return domain.NewNotFoundError(domain.EntityContent, contentID)
	}
	if current.Status == domain.ContentStatusPublished {
		return nil
	}
	if !current.Status.CanTransitionTo(domain.ContentStatusPublished) {
		return domain.NewConflictError("content %s cannot be published from %s", contentID, current.Status)
	}

	updated := current.Clone()
	updated.Status = domain.ContentStatusPublished
	updated.PublishedAt = &now
	updated.UpdatedAt = now
	s.contents[contentID] = updated
	s.emit(domain.EntityContent, contentID, domain.ChangeUpdated, current, updated, now)

	return nil
}

// recalcula status e primeiro horário de um conteúdo não publicado a partir
// das entradas restantes
func (s *Store) refreshContentScheduleLocked(content *domain.Content, now time.Time) {
	current := s.contents[content.ID]
	if current == nil || current.Status == domain.ContentStatusPublished {
		return
	}

	entries := s.entriesOfContentLocked(current.ID)

	status := domain.ContentStatusDraft
	var scheduledAt *time.Time
	if len(entries) > 0 {
		status = domain.ContentStatusScheduled
		earliest := entries[0].ScheduledAt
		scheduledAt = &earliest
	}

	if status == current.Status && equalTimes(scheduledAt, current.ScheduledAt) {
		return
	}
	if status != current.Status && !current.Status.CanTransitionTo(status) {
		return
	}

	updated := current.Clone()
	updated.Status = status
	updated.ScheduledAt = scheduledAt
	updated.UpdatedAt = now
	s.contents[updated.ID] = updated
	s.emit(domain.EntityContent, updated.ID, domain.ChangeUpdated, current, updated, now)
}

func (s *Store) entryByKeyLocked(key entryKey) *domain.ScheduleEntry {
	id, ok := s.entryIndex[key]
	if !ok {
		return nil
	}
	return s.entries[id]
}

func (s *Store) entriesOfContentLocked(contentID string) []*domain.ScheduleEntry {
	var entries []*domain.ScheduleEntry
	for _, entry := range s.entries {
		if entry.ContentID == contentID {
			entries = append(entries, entry)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].ScheduledAt.Equal(entries[j].ScheduledAt) {
			return entries[i].ScheduledAt.Before(entries[j].ScheduledAt)
		}
		return entries[i].Channel < entries[j].Channel
	})
	return entries
}

func equalTimes(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
