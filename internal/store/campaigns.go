package store

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vfg2006/campaign-hub-api/internal/domain"
)

func (s *Store) CreateCampaign(req domain.CreateCampaignRequest) (*domain.Campaign, error) {
	name := strings.TrimSpace(req.Name)
	channels := domain.NormalizeChannels(req.Channels)

	if err := validateCampaignFields(name, req.StartDate, req.EndDate, channels); err != nil {
		return nil, err
	}

	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("error generating campaign id: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	campaign := &domain.Campaign{
		ID:        id,
		Name:      name,
		StartDate: domain.TruncateToDay(req.StartDate),
		EndDate:   domain.TruncateToDay(req.EndDate),
		Goals:     strings.TrimSpace(req.Goals),
		Channels:  channels,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.campaigns[id] = campaign
	s.emit(domain.EntityCampaign, id, domain.ChangeCreated, nil, campaign, now)

	return campaignView(campaign, now), nil
}

func (s *Store) GetCampaign(id string) (*domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	campaign, ok := s.campaigns[id]
	if !ok {
		return nil, domain.NewNotFoundError(domain.EntityCampaign, id)
	}

	return campaignView(campaign, s.clock.Now()), nil
}

func (s *Store) ListCampaigns() []*domain.Campaign {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.clock.Now()
	campaigns := make([]*domain.Campaign, 0, len(s.campaigns))
	for _, campaign := range s.campaigns {
		campaigns = append(campaigns, campaignView(campaign, now))
	}

	sortCampaigns(campaigns)
	return campaigns
}

// UpdateCampaign aplica o patch de forma atômica. Remover um canal ainda usado
// por algum conteúdo da campanha é rejeitado.
func (s *Store) UpdateCampaign(id string, patch domain.CampaignPatch) (*domain.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.campaigns[id]
	if !ok {
		return nil, domain.NewNotFoundError(domain.EntityCampaign, id)
	}

	now := s.clock.Now()
	updated := current.Clone()

	if patch.Name != nil {
		updated.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.StartDate != nil {
		updated.StartDate = domain.TruncateToDay(*patch.StartDate)
	}
	if patch.EndDate != nil {
		updated.EndDate = domain.TruncateToDay(*patch.EndDate)
	}
	if patch.Goals != nil {
		updated.Goals = strings.TrimSpace(*patch.Goals)
	}
	if patch.Channels != nil {
		updated.Channels = domain.NormalizeChannels(patch.Channels)
	}

	if err := validateCampaignFields(updated.Name, updated.StartDate, updated.EndDate, updated.Channels); err != nil {
		return nil, err
	}

	if patch.Channels != nil {
		for _, content := range s.contentsOfCampaignLocked(id) {
			if missing := domain.MissingChannels(content.Channels, updated.Channels); len(missing) > 0 {
				return nil, domain.NewValidationError("channels",
					"channel %s is still used by content %s", missing[0], content.ID)
			}
		}
	}

	if patch.Activate && updated.ActivatedAt == nil {
		updated.ActivatedAt = &now
	}

	updated.UpdatedAt = now
	s.campaigns[id] = updated
	s.emit(domain.EntityCampaign, id, domain.ChangeUpdated, current, updated, now)

	return campaignView(updated, now), nil
}

// ActivateCampaign tira a campanha de draft. É idempotente e draft nunca volta.
func (s *Store) ActivateCampaign(id string) (*domain.Campaign, error) {
	return s.UpdateCampaign(id, domain.CampaignPatch{Activate: true})
}

// DeleteCampaign remove a campanha e aplica a política de cascata configurada:
// orphan desvincula os conteúdos, delete remove os conteúdos e seus agendamentos.
func (s *Store) DeleteCampaign(id string) (*domain.CampaignDeletion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaign, ok := s.campaigns[id]
	if !ok {
		return nil, domain.NewNotFoundError(domain.EntityCampaign, id)
	}

	now := s.clock.Now()
	owned := s.contentsOfCampaignLocked(id)
	deletion := &domain.CampaignDeletion{
		CampaignID: id,
		Policy:     s.cascade,
		ContentIDs: make([]string, 0, len(owned)),
	}

	for _, content := range owned {
		deletion.ContentIDs = append(deletion.ContentIDs, content.ID)

		if s.cascade == domain.CascadeDelete {
			s.deleteContentLocked(content, now)
			continue
		}

		orphan := content.Clone()
		orphan.CampaignID = nil
		orphan.UpdatedAt = now
		s.contents[orphan.ID] = orphan
		s.emit(domain.EntityContent, orphan.ID, domain.ChangeUpdated, content, orphan, now)
	}

	delete(s.campaigns, id)
	s.emit(domain.EntityCampaign, id, domain.ChangeDeleted, campaign, nil, now)

	return deletion, nil
}

// ativa implicitamente a campanha quando um conteúdo dela é agendado
func (s *Store) activateForScheduleLocked(campaignID *string, now time.Time) {
	if campaignID == nil {
		return
	}

	current, ok := s.campaigns[*campaignID]
	if !ok || current.ActivatedAt != nil {
		return
	}

	updated := current.Clone()
	updated.ActivatedAt = &now
	updated.UpdatedAt = now
	s.campaigns[updated.ID] = updated
	s.emit(domain.EntityCampaign, updated.ID, domain.ChangeUpdated, current, updated, now)
}

func (s *Store) contentsOfCampaignLocked(campaignID string) []*domain.Content {
	var owned []*domain.Content
	for _, content := range s.contents {
		if content.BelongsTo(campaignID) {
			owned = append(owned, content)
		}
	}

	sort.Slice(owned, func(i, j int) bool { return owned[i].ID < owned[j].ID })
	return owned
}

func campaignView(campaign *domain.Campaign, now time.Time) *domain.Campaign {
	view := campaign.Clone()
	view.Status = domain.CampaignStatusAt(campaign, now)
	return view
}

func validateCampaignFields(name string, start, end time.Time, channels []domain.Channel) error {
	if name == "" {
		return domain.NewValidationError("name", "must not be empty")
	}
	if start.IsZero() {
		return domain.NewValidationError("startDate", "is required")
	}
	if end.IsZero() {
		return domain.NewValidationError("endDate", "is required")
	}
	if domain.TruncateToDay(start).After(domain.TruncateToDay(end)) {
		return domain.NewValidationError("endDate", "must not be before startDate")
	}
	if len(channels) == 0 {
		return domain.NewValidationError("channels", "must contain at least one channel")
	}
	return nil
}
