package domain

import (
	"math"
	"time"
)

type ContentType string

const (
	ContentTypePost  ContentType = "post"
	ContentTypeImage ContentType = "image"
	ContentTypeVideo ContentType = "video"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentTypePost, ContentTypeImage, ContentTypeVideo:
		return true
	}
	return false
}

type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusScheduled ContentStatus = "scheduled"
	ContentStatusPublished ContentStatus = "published"
)

// contentTransitions is the content lifecycle. scheduled -> draft only happens
// when the last schedule entry of a not yet published item is removed.
var contentTransitions = map[ContentStatus][]ContentStatus{
	ContentStatusDraft:     {ContentStatusScheduled},
	ContentStatusScheduled: {ContentStatusScheduled, ContentStatusPublished, ContentStatusDraft},
	ContentStatusPublished: {},
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s ContentStatus) CanTransitionTo(next ContentStatus) bool {
	for _, allowed := range contentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ContentMetrics são monotônicas a partir da primeira publicação
type ContentMetrics struct {
	Impressions int64 `json:"impressions"`
	Clicks      int64 `json:"clicks"`
	Likes       int64 `json:"likes"`
	Shares      int64 `json:"shares"`
	Conversions int64 `json:"conversions"`
}

// Engagement counts the interactions that are neither impressions nor clicks.
func (m ContentMetrics) Engagement() int64 {
	return m.Likes + m.Shares
}

func (m ContentMetrics) IsZero() bool {
	return m == ContentMetrics{}
}

// Add returns m increased by delta.
func (m ContentMetrics) Add(delta MetricsDelta) ContentMetrics {
	return ContentMetrics{
		Impressions: m.Impressions + delta.Impressions,
		Clicks:      m.Clicks + delta.Clicks,
		Likes:       m.Likes + delta.Likes,
		Shares:      m.Shares + delta.Shares,
		Conversions: m.Conversions + delta.Conversions,
	}
}

// Sub returns the per-field difference m - previous.
func (m ContentMetrics) Sub(previous ContentMetrics) MetricsDelta {
	return MetricsDelta{
		Impressions: m.Impressions - previous.Impressions,
		Clicks:      m.Clicks - previous.Clicks,
		Likes:       m.Likes - previous.Likes,
		Shares:      m.Shares - previous.Shares,
		Conversions: m.Conversions - previous.Conversions,
	}
}

// Overflows devolve o nome da primeira métrica que passaria de math.MaxInt64
// ao somar delta, ou "" quando todas cabem. Engajamento é likes + shares.
func (m ContentMetrics) Overflows(delta MetricsDelta) string {
	checks := []struct {
		field   string
		current int64
		inc     int64
	}{
		{"impressions", m.Impressions, delta.Impressions},
		{"clicks", m.Clicks, delta.Clicks},
		{"likes", m.Likes, delta.Likes},
		{"shares", m.Shares, delta.Shares},
		{"conversions", m.Conversions, delta.Conversions},
	}
	for _, c := range checks {
		if c.inc > math.MaxInt64-c.current {
			return c.field
		}
	}

	if delta.Likes > math.MaxInt64-delta.Shares ||
		delta.Likes+delta.Shares > math.MaxInt64-(m.Likes+m.Shares) {
		return "engagement"
	}

	return ""
}

// MetricsDelta is an increment recorded against a published content item.
type MetricsDelta struct {
	Impressions int64 `json:"impressions"`
	Clicks      int64 `json:"clicks"`
	Likes       int64 `json:"likes"`
	Shares      int64 `json:"shares"`
	Conversions int64 `json:"conversions"`
}

func (d MetricsDelta) IsZero() bool {
	return d == MetricsDelta{}
}

// HasNegative reports whether any component would make a metric decrease.
func (d MetricsDelta) HasNegative() bool {
	return d.Impressions < 0 || d.Clicks < 0 || d.Likes < 0 || d.Shares < 0 || d.Conversions < 0
}

type Content struct {
	ID          string         `json:"id"`
	CampaignID  *string        `json:"campaignId"`
	Type        ContentType    `json:"type"`
	Title       string         `json:"title"`
	Body        string         `json:"body"`
	Channels    []Channel      `json:"channels"`
	Status      ContentStatus  `json:"status"`
	ScheduledAt *time.Time     `json:"scheduledAt,omitempty"`
	PublishedAt *time.Time     `json:"publishedAt,omitempty"`
	Metrics     ContentMetrics `json:"metrics"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// BelongsTo reports whether the content is owned by the given campaign.
func (c *Content) BelongsTo(campaignID string) bool {
	return c.CampaignID != nil && *c.CampaignID == campaignID
}

func (c *Content) Clone() *Content {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Channels = append([]Channel(nil), c.Channels...)
	clone.CampaignID = cloneString(c.CampaignID)
	clone.ScheduledAt = cloneTime(c.ScheduledAt)
	clone.PublishedAt = cloneTime(c.PublishedAt)
	return &clone
}

type CreateContentRequest struct {
	CampaignID *string     `json:"campaignId"`
	Type       ContentType `json:"type"`
	Title      string      `json:"title"`
	Body       string      `json:"body"`
	Channels   []Channel   `json:"channels"`
}

// ContentPatch lists the editable fields of a content item. CampaignID pointing
// to an empty string detaches the content from its campaign.
type ContentPatch struct {
	CampaignID *string      `json:"campaignId,omitempty"`
	Type       *ContentType `json:"type,omitempty"`
	Title      *string      `json:"title,omitempty"`
	Body       *string      `json:"body,omitempty"`
	Channels   []Channel    `json:"channels,omitempty"`
}

// ContentFilter filtra a listagem de conteúdo; campos vazios não filtram
type ContentFilter struct {
	CampaignID string
	Status     ContentStatus
}

func (f ContentFilter) Matches(c *Content) bool {
	if f.CampaignID != "" && !c.BelongsTo(f.CampaignID) {
		return false
	}
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	return true
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
