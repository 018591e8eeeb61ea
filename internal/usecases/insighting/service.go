package insighting

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-hub-api/internal/domain"
)

const DefaultTopContentLimit = 5

var ErrReportStorageDisabled = errors.New("report storage is not configured")

// Service implementa Insighter sobre o agregador incremental e o store
type Service struct {
	entities   EntityReader
	aggregator *Aggregator
	uploader   ReportUploader
}

// NewService cria uma nova instância do serviço de analytics
func NewService(entities EntityReader, aggregator *Aggregator) *Service {
	return &Service{
		entities:   entities,
		aggregator: aggregator,
	}
}

// WithReportUploader habilita o envio dos relatórios para o storage
func (s *Service) WithReportUploader(uploader ReportUploader) *Service {
	s.uploader = uploader
	return s
}

func (s *Service) GetAnalytics(campaignID string) (*domain.AnalyticsSnapshot, error) {
	var (
		snapshot *domain.AnalyticsSnapshot
		err      error
	)

	s.entities.ReadLocked(func() {
		snapshot, err = s.aggregator.Snapshot(campaignID)
	})
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

func (s *Service) CampaignOverview(campaignID string) (domain.Overview, bool) {
	return s.aggregator.Overview(campaignID)
}

// TopContent ranks published content by impressions plus clicks, descending,
// with ties broken by id. n <= 0 uses the default limit.
func (s *Service) TopContent(campaignID string, n int) ([]domain.TopContentItem, error) {
	if n <= 0 {
		n = DefaultTopContentLimit
	}

	if campaignID != "" {
		if _, err := s.entities.GetCampaign(campaignID); err != nil {
			return nil, err
		}
	}

	published := s.entities.ListContent(domain.ContentFilter{
		CampaignID: campaignID,
		Status:     domain.ContentStatusPublished,
	})

	sort.SliceStable(published, func(i, j int) bool {
		si, sj := score(published[i]), score(published[j])
		if si != sj {
			return si > sj
		}
		return published[i].ID < published[j].ID
	})

	if len(published) > n {
		published = published[:n]
	}

	items := make([]domain.TopContentItem, 0, len(published))
	for i, content := range published {
		items = append(items, domain.TopContentItem{
			Position:   i + 1,
			ContentID:  content.ID,
			CampaignID: content.CampaignID,
			Title:      content.Title,
			Type:       content.Type,
			Channels:   content.Channels,
			Score:      score(content),
			Metrics:    content.Metrics,
		})
	}

	return items, nil
}

func score(content *domain.Content) int64 {
	return content.Metrics.Impressions + content.Metrics.Clicks
}

// ExportTimelineCSV renders the daily timeline with the header
// Date,Impressions,Clicks,Engagement.
func (s *Service) ExportTimelineCSV(campaignID string) ([]byte, error) {
	snapshot, err := s.GetAnalytics(campaignID)
	if err != nil {
		return nil, err
	}

	rows := make([]*domain.TimelineReportRow, 0, len(snapshot.Timeline))
	for _, point := range snapshot.Timeline {
		rows = append(rows, &domain.TimelineReportRow{
			Date:        point.Date,
			Impressions: point.Impressions,
			Clicks:      point.Clicks,
			Engagement:  point.Engagement,
		})
	}

	out, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("error encoding timeline report: %w", err)
	}

	return out, nil
}

// UploadTimelineReport exports the timeline and hands it to the report storage.
func (s *Service) UploadTimelineReport(ctx context.Context, campaignID string) (string, error) {
	if s.uploader == nil {
		return "", ErrReportStorageDisabled
	}

	report, err := s.ExportTimelineCSV(campaignID)
	if err != nil {
		return "", err
	}

	location, err := s.uploader.Upload(ctx, ReportKey(campaignID, s.aggregator.clock.Now()), report, "text/csv")
	if err != nil {
		return "", fmt.Errorf("error uploading timeline report: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"campaignId": campaignID,
		"location":   location,
	}).Info("timeline report uploaded")

	return location, nil
}

// ReportKey names a timeline report object.
func ReportKey(campaignID string, at time.Time) string {
	scope := campaignID
	if scope == "" {
		scope = "all"
	}
	return fmt.Sprintf("analytics-%s-%s.csv", scope, at.Format(time.DateOnly))
}
