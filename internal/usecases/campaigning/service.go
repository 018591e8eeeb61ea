package campaigning

import (
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-hub-api/internal/domain"
)

type CampaignService interface {
	CreateCampaign(req domain.CreateCampaignRequest) (*domain.Campaign, error)
	GetCampaign(id string) (*domain.Campaign, error)
	ListCampaigns() []*domain.Campaign
	UpdateCampaign(id string, patch domain.CampaignPatch) (*domain.Campaign, error)
	ActivateCampaign(id string) (*domain.Campaign, error)
	DeleteCampaign(id string) (*domain.CampaignDeletion, error)

	CreateContent(req domain.CreateContentRequest) (*domain.Content, error)
	GetContent(id string) (*domain.Content, error)
	ListContent(filter domain.ContentFilter) []*domain.Content
	UpdateContent(id string, patch domain.ContentPatch) (*domain.Content, error)
	DeleteContent(id string) error
	RecordMetrics(contentID string, delta domain.MetricsDelta) (*domain.Content, error)
}

// EntityStore é o lado de comandos do store usado pelo serviço
type EntityStore interface {
	CreateCampaign(req domain.CreateCampaignRequest) (*domain.Campaign, error)
	GetCampaign(id string) (*domain.Campaign, error)
	ListCampaigns() []*domain.Campaign
	UpdateCampaign(id string, patch domain.CampaignPatch) (*domain.Campaign, error)
	ActivateCampaign(id string) (*domain.Campaign, error)
	DeleteCampaign(id string) (*domain.CampaignDeletion, error)

	CreateContent(req domain.CreateContentRequest) (*domain.Content, error)
	GetContent(id string) (*domain.Content, error)
	ListContent(filter domain.ContentFilter) []*domain.Content
	UpdateContent(id string, patch domain.ContentPatch) (*domain.Content, error)
	DeleteContent(id string) error
	RecordMetrics(contentID string, delta domain.MetricsDelta) (*domain.Content, error)
}

// OverviewProvider fornece os totais correntes de uma campanha
type OverviewProvider interface {
	CampaignOverview(campaignID string) (domain.Overview, bool)
}

type Service struct {
	store    EntityStore
	overview OverviewProvider
}

func NewService(store EntityStore, overview OverviewProvider) CampaignService {
	return &Service{
		store:    store,
		overview: overview,
	}
}

func (s *Service) CreateCampaign(req domain.CreateCampaignRequest) (*domain.Campaign, error) {
	campaign, err := s.store.CreateCampaign(req)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"campaign_id": campaign.ID,
		"channels":    domain.ChannelNames(campaign.Channels),
	}).Info("Campanha criada")

	return s.withMetrics(campaign), nil
}

func (s *Service) GetCampaign(id string) (*domain.Campaign, error) {
	campaign, err := s.store.GetCampaign(id)
	if err != nil {
		return nil, err
	}
	return s.withMetrics(campaign), nil
}

func (s *Service) ListCampaigns() []*domain.Campaign {
	campaigns := s.store.ListCampaigns()
	for i, campaign := range campaigns {
		campaigns[i] = s.withMetrics(campaign)
	}
	return campaigns
}

func (s *Service) UpdateCampaign(id string, patch domain.CampaignPatch) (*domain.Campaign, error) {
	campaign, err := s.store.UpdateCampaign(id, patch)
	if err != nil {
		return nil, err
	}
	return s.withMetrics(campaign), nil
}

func (s *Service) ActivateCampaign(id string) (*domain.Campaign, error) {
	campaign, err := s.store.ActivateCampaign(id)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"campaign_id": campaign.ID,
		"status":      campaign.Status,
	}).Info("Campanha ativada")

	return s.withMetrics(campaign), nil
}

func (s *Service) DeleteCampaign(id string) (*domain.CampaignDeletion, error) {
	deletion, err := s.store.DeleteCampaign(id)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"campaign_id": id,
		"policy":      deletion.Policy,
		"contents":    len(deletion.ContentIDs),
	}).Info("Campanha removida")

	return deletion, nil
}

func (s *Service) CreateContent(req domain.CreateContentRequest) (*domain.Content, error) {
	return s.store.CreateContent(req)
}

func (s *Service) GetContent(id string) (*domain.Content, error) {
	return s.store.GetContent(id)
}

func (s *Service) ListContent(filter domain.ContentFilter) []*domain.Content {
	return s.store.ListContent(filter)
}

func (s *Service) UpdateContent(id string, patch domain.ContentPatch) (*domain.Content, error) {
	return s.store.UpdateContent(id, patch)
}

func (s *Service) DeleteContent(id string) error {
	if err := s.store.DeleteContent(id); err != nil {
		return err
	}

	logrus.WithField("content_id", id).Info("Conteúdo removido")
	return nil
}

func (s *Service) RecordMetrics(contentID string, delta domain.MetricsDelta) (*domain.Content, error) {
	return s.store.RecordMetrics(contentID, delta)
}

// withMetrics preenche o snapshot de métricas a partir do agregador
func (s *Service) withMetrics(campaign *domain.Campaign) *domain.Campaign {
	if s.overview == nil {
		return campaign
	}

	overview, ok := s.overview.CampaignOverview(campaign.ID)
	if !ok {
		return campaign
	}

	campaign.Metrics = domain.CampaignMetrics{
		Impressions: overview.TotalImpressions,
		Clicks:      overview.TotalClicks,
		Engagement:  overview.TotalEngagement,
		Conversions: overview.TotalConversions,
	}
	return campaign
}
