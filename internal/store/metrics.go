package store

import "github.com/vfg2006/campaign-hub-api/internal/domain"

// RecordMetrics soma um incremento às métricas de um conteúdo publicado.
// Métricas só crescem: deltas negativos e somas que estourariam int64 são
// rejeitados antes de qualquer mutação.
func (s *Store) RecordMetrics(contentID string, delta domain.MetricsDelta) (*domain.Content, error) {
	if delta.HasNegative() {
		return nil, domain.NewValidationError("metrics", "metrics are monotonic, deltas must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.contents[contentID]
	if !ok {
		return nil, domain.NewNotFoundError(domain.EntityContent, contentID)
	}
	if current.Status != domain.ContentStatusPublished {
		return nil, domain.NewValidationError("status", "metrics can only be recorded for published content")
	}
	if delta.IsZero() {
		return current.Clone(), nil
	}
	// recorded cobre o escopo global, que limita todos os outros
	if field := s.recorded.Overflows(delta); field != "" {
		return nil, domain.NewValidationError(field, "metric total would overflow")
	}

	now := s.clock.Now()
	updated := current.Clone()
	updated.Metrics = current.Metrics.Add(delta)
	updated.UpdatedAt = now
	s.recorded = s.recorded.Add(delta)
	s.contents[contentID] = updated
	s.emit(domain.EntityContent, contentID, domain.ChangeUpdated, current, updated, now)

	return updated.Clone(), nil
}
