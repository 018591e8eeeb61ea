package insighting

import (
	"context"

	"github.com/vfg2006/campaign-hub-api/internal/domain"
)

// Insighter expõe as consultas de analytics e os relatórios
type Insighter interface {
	// GetAnalytics returns the snapshot of a campaign, or of everything when campaignID is empty
	GetAnalytics(campaignID string) (*domain.AnalyticsSnapshot, error)

	// TopContent ranks published content by impressions plus clicks
	TopContent(campaignID string, n int) ([]domain.TopContentItem, error)

	// ExportTimelineCSV renders the daily timeline as CSV
	ExportTimelineCSV(campaignID string) ([]byte, error)

	// UploadTimelineReport stores the CSV report and returns its location
	UploadTimelineReport(ctx context.Context, campaignID string) (string, error)

	// CampaignOverview returns the running totals of a campaign
	CampaignOverview(campaignID string) (domain.Overview, bool)
}

// EntityReader is the read side of the entity store used by the reports.
type EntityReader interface {
	GetCampaign(id string) (*domain.Campaign, error)
	ListContent(filter domain.ContentFilter) []*domain.Content
	ReadLocked(fn func())
}

// ReportUploader persists exported reports.
type ReportUploader interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
}
