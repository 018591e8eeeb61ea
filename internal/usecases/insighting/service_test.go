package insighting

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-hub-api/internal/domain"
)

func TestService_TopContent(t *testing.T) {
	f := newFixture(t)
	campaign := f.campaign(t, domain.ChannelSlack, domain.ChannelTwitter)

	metrics := []domain.MetricsDelta{
		{Impressions: 100, Clicks: 10},
		{Impressions: 500},
		{Impressions: 105, Clicks: 5},
		{Impressions: 1},
		{},
		{Impressions: 200, Clicks: 30},
	}

	var ids []string
	for _, delta := range metrics {
		content := f.published(t, &campaign.ID, domain.ChannelSlack)
		_, err := f.store.RecordMetrics(content.ID, delta)
		require.NoError(t, err)
		ids = append(ids, content.ID)
	}

	// rascunho nunca entra no ranking
	_, err := f.store.CreateContent(domain.CreateContentRequest{
		CampaignID: &campaign.ID, Title: "draft", Body: "draft", Channels: []domain.Channel{domain.ChannelSlack},
	})
	require.NoError(t, err)

	tests := []struct {
		name       string
		campaignID string
		n          int
		validate   func(t *testing.T, items []domain.TopContentItem)
	}{
		{
			name:       "limite padrão de 5",
			campaignID: campaign.ID,
			validate: func(t *testing.T, items []domain.TopContentItem) {
				require.Len(t, items, 5)
				assert.Equal(t, ids[1], items[0].ContentID)
				assert.Equal(t, int64(500), items[0].Score)
				assert.Equal(t, ids[5], items[1].ContentID)
				// empate 110 x 110 desempata pelo id
				tied := []string{ids[0], ids[2]}
				if tied[1] < tied[0] {
					tied[0], tied[1] = tied[1], tied[0]
				}
				assert.Equal(t, tied[0], items[2].ContentID)
				assert.Equal(t, tied[1], items[3].ContentID)
				assert.Equal(t, ids[3], items[4].ContentID)
				for i, item := range items {
					assert.Equal(t, i+1, item.Position)
				}
			},
		},
		{
			name: "top 2 global",
			n:    2,
			validate: func(t *testing.T, items []domain.TopContentItem) {
				require.Len(t, items, 2)
				assert.Equal(t, ids[1], items[0].ContentID)
				assert.Equal(t, ids[5], items[1].ContentID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := f.service.TopContent(tt.campaignID, tt.n)
			require.NoError(t, err)
			tt.validate(t, items)
		})
	}

	_, err = f.service.TopContent("unknown", 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_ExportTimelineCSV(t *testing.T) {
	f := newFixture(t)
	content := f.published(t, nil, domain.ChannelSlack)

	_, err := f.store.RecordMetrics(content.ID, domain.MetricsDelta{Impressions: 100, Clicks: 7, Likes: 3})
	require.NoError(t, err)
	f.clock.Advance(24 * time.Hour)
	_, err = f.store.RecordMetrics(content.ID, domain.MetricsDelta{Impressions: 20, Shares: 1})
	require.NoError(t, err)

	out, err := f.service.ExportTimelineCSV("")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Impressions,Clicks,Engagement", lines[0])
	assert.Equal(t, "2024-01-15,100,7,3", lines[1])
	assert.Equal(t, "2024-01-16,20,0,1", lines[2])
}

type fakeUploader struct {
	key         string
	body        []byte
	contentType string
	err         error
}

func (u *fakeUploader) Upload(_ context.Context, key string, body []byte, contentType string) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.key, u.body, u.contentType = key, body, contentType
	return "s3://reports/" + key, nil
}

func TestService_UploadTimelineReport(t *testing.T) {
	f := newFixture(t)
	campaign := f.campaign(t, domain.ChannelSlack)

	_, err := f.service.UploadTimelineReport(context.Background(), campaign.ID)
	assert.ErrorIs(t, err, ErrReportStorageDisabled)

	uploader := &fakeUploader{}
	f.service.WithReportUploader(uploader)

	location, err := f.service.UploadTimelineReport(context.Background(), campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, "analytics-"+campaign.ID+"-2024-01-15.csv", uploader.key)
	assert.Equal(t, "s3://reports/"+uploader.key, location)
	assert.Equal(t, "text/csv", uploader.contentType)

	uploader.err = errors.New("access denied")
	_, err = f.service.UploadTimelineReport(context.Background(), campaign.ID)
	assert.ErrorContains(t, err, "access denied")

	_, err = f.service.UploadTimelineReport(context.Background(), "unknown")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReportKey(t *testing.T) {
	at := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "analytics-all-2024-02-01.csv", ReportKey("", at))
	assert.Equal(t, "analytics-abc-2024-02-01.csv", ReportKey("abc", at))
}
