package domain

import (
	"time"

	"github.com/vfg2006/campaign-hub-api/pkg/utils"
)

// Counters é o acumulador comum a totais, canais e dias
type Counters struct {
	Impressions int64 `json:"impressions"`
	Clicks      int64 `json:"clicks"`
	Engagement  int64 `json:"engagement"`
	Conversions int64 `json:"conversions"`
}

func (c *Counters) Add(other Counters) {
	c.Impressions += other.Impressions
	c.Clicks += other.Clicks
	c.Engagement += other.Engagement
	c.Conversions += other.Conversions
}

type Overview struct {
	TotalImpressions int64   `json:"totalImpressions"`
	TotalClicks      int64   `json:"totalClicks"`
	TotalEngagement  int64   `json:"totalEngagement"`
	TotalConversions int64   `json:"totalConversions"`
	CTR              float64 `json:"ctr"`
	ConversionRate   float64 `json:"conversionRate"`
	EngagementRate   float64 `json:"engagementRate"`
}

// NewOverview computes the rates from current totals; rates are percentages
// with two decimals and zero whenever the denominator is zero.
func NewOverview(totals Counters) Overview {
	return Overview{
		TotalImpressions: totals.Impressions,
		TotalClicks:      totals.Clicks,
		TotalEngagement:  totals.Engagement,
		TotalConversions: totals.Conversions,
		CTR:              percentage(totals.Clicks, totals.Impressions),
		ConversionRate:   percentage(totals.Conversions, totals.Clicks),
		EngagementRate:   percentage(totals.Engagement, totals.Impressions),
	}
}

func percentage(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return utils.RoundWithTwoDecimalPlace(float64(part) / float64(whole) * 100)
}

type PlatformMetrics struct {
	Platform    Channel `json:"platform"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Engagement  int64   `json:"engagement"`
}

type TimelinePoint struct {
	Date        string `json:"date"`
	Impressions int64  `json:"impressions"`
	Clicks      int64  `json:"clicks"`
	Engagement  int64  `json:"engagement"`
}

// AnalyticsSnapshot is derived from the aggregator accumulators at query time.
type AnalyticsSnapshot struct {
	CampaignID  string            `json:"campaignId,omitempty"`
	Overview    Overview          `json:"overview"`
	ByPlatform  []PlatformMetrics `json:"byPlatform"`
	Timeline    []TimelinePoint   `json:"timeline"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

// TopContentItem is one row of the top performing content ranking.
type TopContentItem struct {
	Position   int            `json:"position"`
	ContentID  string         `json:"contentId"`
	CampaignID *string        `json:"campaignId"`
	Title      string         `json:"title"`
	Type       ContentType    `json:"type"`
	Channels   []Channel      `json:"channels"`
	Score      int64          `json:"score"`
	Metrics    ContentMetrics `json:"metrics"`
}

// TimelineReportRow é a linha do relatório exportado
type TimelineReportRow struct {
	Date        string `csv:"Date"`
	Impressions int64  `csv:"Impressions"`
	Clicks      int64  `csv:"Clicks"`
	Engagement  int64  `csv:"Engagement"`
}

// DateKey formats the calendar day used by the timeline accumulators.
func DateKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}
