package domain

import "time"

type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusScheduled CampaignStatus = "scheduled"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusCompleted CampaignStatus = "completed"
)

// CampaignMetrics é o snapshot agregado exposto junto da campanha
type CampaignMetrics struct {
	Impressions int64 `json:"impressions"`
	Clicks      int64 `json:"clicks"`
	Engagement  int64 `json:"engagement"`
	Conversions int64 `json:"conversions"`
}

// Campaign groups content items under a date window and a channel set.
// Status is not stored: it is derived from ActivatedAt and the clock on every read.
type Campaign struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     time.Time       `json:"endDate"`
	Goals       string          `json:"goals"`
	Channels    []Channel       `json:"channels"`
	Status      CampaignStatus  `json:"status"`
	Metrics     CampaignMetrics `json:"metrics"`
	ActivatedAt *time.Time      `json:"activatedAt,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// CampaignStatusAt derives the status of a campaign at the given instant.
// Dates are calendar days, so the campaign stays active through the whole end day.
func CampaignStatusAt(c *Campaign, now time.Time) CampaignStatus {
	if c.ActivatedAt == nil {
		return CampaignStatusDraft
	}

	start := TruncateToDay(c.StartDate)
	endExclusive := TruncateToDay(c.EndDate).AddDate(0, 0, 1)

	switch {
	case now.Before(start):
		return CampaignStatusScheduled
	case now.Before(endExclusive):
		return CampaignStatusActive
	default:
		return CampaignStatusCompleted
	}
}

// Clone returns a deep copy safe to hand out of the store.
func (c *Campaign) Clone() *Campaign {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Channels = append([]Channel(nil), c.Channels...)
	if c.ActivatedAt != nil {
		activatedAt := *c.ActivatedAt
		clone.ActivatedAt = &activatedAt
	}
	return &clone
}

type CreateCampaignRequest struct {
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Goals     string    `json:"goals"`
	Channels  []Channel `json:"channels"`
}

// CampaignPatch lists the mutable fields of a campaign; nil means unchanged.
type CampaignPatch struct {
	Name      *string    `json:"name,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Goals     *string    `json:"goals,omitempty"`
	Channels  []Channel  `json:"channels,omitempty"`
	Activate  bool       `json:"activate,omitempty"`
}

// CascadePolicy decide o destino do conteúdo quando a campanha é removida
type CascadePolicy string

const (
	CascadeOrphan CascadePolicy = "orphan"
	CascadeDelete CascadePolicy = "delete"
)

// TruncateToDay drops the time of day, in UTC.
func TruncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CampaignDeletion reports what deleting a campaign did to its content.
type CampaignDeletion struct {
	CampaignID string        `json:"campaignId"`
	Policy     CascadePolicy `json:"policy"`
	ContentIDs []string      `json:"contentIds"`
}
