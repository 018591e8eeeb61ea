package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/vfg2006/campaign-hub-api/internal/domain"
)

func (s *Store) CreateContent(req domain.CreateContentRequest) (*domain.Content, error) {
	title := strings.TrimSpace(req.Title)
	body := strings.TrimSpace(req.Body)
	channels := domain.NormalizeChannels(req.Channels)

	contentType := req.Type
	if contentType == "" {
		contentType = domain.ContentTypePost
	}

	if err := validateContentFields(title, body, contentType, channels); err != nil {
		return nil, err
	}

	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("error generating content id: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	campaignID := normalizeCampaignRef(req.CampaignID)
	if err := s.checkCampaignChannelsLocked(campaignID, channels); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	content := &domain.Content{
		ID:         id,
		CampaignID: campaignID,
		Type:       contentType,
		Title:      title,
		Body:       body,
		Channels:   channels,
		Status:     domain.ContentStatusDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.contents[id] = content
	s.emit(domain.EntityContent, id, domain.ChangeCreated, nil, content, now)

	return content.Clone(), nil
}

func (s *Store) GetContent(id string) (*domain.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.contents[id]
	if !ok {
		return nil, domain.NewNotFoundError(domain.EntityContent, id)
	}

	return content.Clone(), nil
}

func (s *Store) ListContent(filter domain.ContentFilter) []*domain.Content {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contents := make([]*domain.Content, 0)
	for _, content := range s.contents {
		if filter.Matches(content) {
			contents = append(contents, content.Clone())
		}
	}

	sortContents(contents)
	return contents
}

// UpdateContent edita um conteúdo. Depois de publicado só título e corpo mudam;
// campanha, tipo e canais ficam congelados.
func (s *Store) UpdateContent(id string, patch domain.ContentPatch) (*domain.Content, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.contents[id]
	if !ok {
		return nil, domain.NewNotFoundError(domain.EntityContent, id)
	}

	if current.Status == domain.ContentStatusPublished &&
		(patch.CampaignID != nil || patch.Type != nil || patch.Channels != nil) {
		return nil, domain.NewValidationError("status", "published content only accepts title and body changes")
	}

	updated := current.Clone()

	if patch.Title != nil {
		updated.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Body != nil {
		updated.Body = strings.TrimSpace(*patch.Body)
	}
	if patch.Type != nil {
		updated.Type = *patch.Type
	}
	if patch.Channels != nil {
		updated.Channels = domain.NormalizeChannels(patch.Channels)
	}
	if patch.CampaignID != nil {
		updated.CampaignID = normalizeCampaignRef(patch.CampaignID)
	}

	if err := validateContentFields(updated.Title, updated.Body, updated.Type, updated.Channels); err != nil {
		return nil, err
	}

	if patch.Channels != nil {
		for _, entry := range s.entriesOfContentLocked(id) {
			if !domain.ContainsChannel(updated.Channels, entry.Channel) {
				return nil, domain.NewValidationError("channels",
					"channel %s has a schedule entry, unschedule it first", entry.Channel)
			}
		}
	}

	if patch.Channels != nil || patch.CampaignID != nil {
		if err := s.checkCampaignChannelsLocked(updated.CampaignID, updated.Channels); err != nil {
			return nil, err
		}
	}

	now := s.clock.Now()
	updated.UpdatedAt = now
	s.contents[id] = updated
	s.emit(domain.EntityContent, id, domain.ChangeUpdated, current, updated, now)

	if updated.Status == domain.ContentStatusScheduled && patch.CampaignID != nil {
		s.activateForScheduleLocked(updated.CampaignID, now)
	}

	return updated.Clone(), nil
}

// DeleteContent remove o conteúdo junto com seus agendamentos. As métricas já
// agregadas permanecem.
func (s *Store) DeleteContent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, ok := s.contents[id]
	if !ok {
		return domain.NewNotFoundError(domain.EntityContent, id)
	}

	s.deleteContentLocked(content, s.clock.Now())
	return nil
}

func (s *Store) deleteContentLocked(content *domain.Content, now time.Time) {
	for _, entry := range s.entriesOfContentLocked(content.ID) {
		delete(s.entries, entry.ID)
		delete(s.entryIndex, entryKey{contentID: entry.ContentID, channel: entry.Channel})
		s.emit(domain.EntityScheduleEntry, entry.ID, domain.ChangeDeleted, entry, nil, now)
	}

	delete(s.contents, content.ID)
	s.emit(domain.EntityContent, content.ID, domain.ChangeDeleted, content, nil, now)
}

// checkCampaignChannelsLocked valida que a campanha existe e que channels está
// contido nos canais dela. Sem campanha qualquer canal é aceito.
func (s *Store) checkCampaignChannelsLocked(campaignID *string, channels []domain.Channel) error {
	if campaignID == nil {
		return nil
	}

	campaign, ok := s.campaigns[*campaignID]
	if !ok {
		return domain.NewValidationError("campaignId", "campaign %q does not exist", *campaignID)
	}

	if missing := domain.MissingChannels(channels, campaign.Channels); len(missing) > 0 {
		return domain.NewValidationError("channels", "%s not enabled on campaign %s",
			domain.ChannelNames(missing), campaign.ID)
	}

	return nil
}

func normalizeCampaignRef(campaignID *string) *string {
	if campaignID == nil {
		return nil
	}
	id := strings.TrimSpace(*campaignID)
	if id == "" {
		return nil
	}
	return &id
}

func validateContentFields(title, body string, contentType domain.ContentType, channels []domain.Channel) error {
	if title == "" {
		return domain.NewValidationError("title", "must not be empty")
	}
	if body == "" {
		return domain.NewValidationError("body", "must not be empty")
	}
	if !contentType.Valid() {
		return domain.NewValidationError("type", "unknown content type %q", contentType)
	}
	if len(channels) == 0 {
		return domain.NewValidationError("channels", "must contain at least one channel")
	}
	return nil
}
