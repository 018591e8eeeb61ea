package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-hub-api/internal/api/handler/router"
	"github.com/vfg2006/campaign-hub-api/internal/domain"
	"github.com/vfg2006/campaign-hub-api/internal/scheduler"
	"github.com/vfg2006/campaign-hub-api/internal/store"
	"github.com/vfg2006/campaign-hub-api/internal/usecases/campaigning"
	"github.com/vfg2006/campaign-hub-api/internal/usecases/insighting"
	"github.com/vfg2006/campaign-hub-api/pkg/apiErrors"
	"github.com/vfg2006/campaign-hub-api/pkg/clock"
)

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type stubGateway struct {
	healthErr error
}

func (g *stubGateway) Publish(_ context.Context, channel domain.Channel, content domain.Content) (*domain.PublishResult, error) {
	return &domain.PublishResult{Success: true, ExternalID: string(channel) + "-" + content.ID}, nil
}

func (g *stubGateway) CheckHealth(context.Context) (*domain.HealthStatus, error) {
	if g.healthErr != nil {
		return nil, g.healthErr
	}
	return &domain.HealthStatus{Healthy: true, Message: "ok"}, nil
}

type stubSweeps struct {
	accept bool
}

func (s *stubSweeps) TriggerManualSweep() bool { return s.accept }

func (s *stubSweeps) GetStatus() map[string]any {
	return map[string]any{"sweep_enabled": true}
}

type apiFixture struct {
	handler http.Handler
	clock   *clock.Fake
	engine  *scheduler.Engine
	sweeps  *stubSweeps
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	fake := clock.NewFake(baseTime)
	aggregator := insighting.NewAggregator(fake)
	s := store.New(store.WithClock(fake), store.WithListener(aggregator))
	insights := insighting.NewService(s, aggregator)
	engine := scheduler.NewEngine(s, &stubGateway{}, fake, scheduler.EngineConfig{})
	sweeps := &stubSweeps{accept: true}
	campaigns := campaigning.NewService(s, insights)

	rt := router.New(
		router.WithRoutes(Healthcheck()...),
		router.WithRoutes(Campaigns(campaigns)...),
		router.WithRoutes(Content(campaigns)...),
		router.WithRoutes(Schedule(engine)...),
		router.WithRoutes(Analytics(insights)...),
		router.WithRoutes(CronJobs(sweeps)...),
	)

	return &apiFixture{handler: rt, clock: fake, engine: engine, sweeps: sweeps}
}

func (f *apiFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (f *apiFixture) createCampaign(t *testing.T) domain.Campaign {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/v1/campaigns",
		`{"name":"Spring Launch","startDate":"2024-03-01","endDate":"2024-03-31","goals":"awareness","channels":["linkedin","twitter"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[domain.Campaign](t, rec)
}

func (f *apiFixture) createContent(t *testing.T, campaignID string) domain.Content {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/v1/content",
		`{"campaignId":"`+campaignID+`","title":"Launch post","body":"We are live","channels":["linkedin","twitter"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[domain.Content](t, rec)
}

func TestCampaignHandlers(t *testing.T) {
	f := newAPIFixture(t)
	campaign := f.createCampaign(t)

	assert.Equal(t, domain.CampaignStatusDraft, campaign.Status)
	assert.Equal(t, []domain.Channel{domain.ChannelLinkedIn, domain.ChannelTwitter}, campaign.Channels)

	rec := f.do(t, http.MethodGet, "/v1/campaigns", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.Campaign](t, rec), 1)

	rec = f.do(t, http.MethodPut, "/v1/campaigns/"+campaign.ID, `{"name":"Spring Launch 2"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Spring Launch 2", decode[domain.Campaign](t, rec).Name)

	rec = f.do(t, http.MethodPost, "/v1/campaigns/"+campaign.ID+"/activate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.CampaignStatusActive, decode[domain.Campaign](t, rec).Status)

	rec = f.do(t, http.MethodDelete, "/v1/campaigns/"+campaign.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, campaign.ID, decode[domain.CampaignDeletion](t, rec).CampaignID)

	rec = f.do(t, http.MethodGet, "/v1/campaigns/"+campaign.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apiErrors.ErrNotFound, decode[apiErrors.APIError](t, rec).Code)
}

func TestCampaignHandlers_Validation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{
			name:      "corpo vazio",
			body:      "",
			wantField: "body",
		},
		{
			name:      "data inválida",
			body:      `{"name":"X","startDate":"01/03/2024","endDate":"2024-03-31","channels":["slack"]}`,
			wantField: "startDate",
		},
		{
			name:      "nome ausente",
			body:      `{"name":"","startDate":"2024-03-01","endDate":"2024-03-31","channels":["slack"]}`,
			wantField: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t)
			rec := f.do(t, http.MethodPost, "/v1/campaigns", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			body := decode[apiErrors.APIError](t, rec)
			assert.Equal(t, apiErrors.ErrInvalidRequest, body.Code)
			assert.Equal(t, map[string]any{"field": tt.wantField}, body.Details)
		})
	}
}

func TestScheduleDispatchAndAnalytics(t *testing.T) {
	f := newAPIFixture(t)
	campaign := f.createCampaign(t)
	content := f.createContent(t, campaign.ID)

	rec := f.do(t, http.MethodPost, "/v1/schedule",
		`{"contentId":"`+content.ID+`","platform":"linkedin","scheduledAt":"2024-03-01T10:00:00Z"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	entry := decode[domain.ScheduleEntry](t, rec)
	assert.Equal(t, domain.DispatchStatusPending, entry.DispatchStatus)

	rec = f.do(t, http.MethodGet, "/v1/content/"+content.ID, "")
	assert.Equal(t, domain.ContentStatusScheduled, decode[domain.Content](t, rec).Status)

	// métricas só são aceitas depois da publicação
	rec = f.do(t, http.MethodPost, "/v1/content/"+content.ID+"/metrics", `{"impressions":10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.clock.Set(baseTime.Add(2 * time.Hour))
	report, err := f.engine.Sweep(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Dispatched, 1)

	rec = f.do(t, http.MethodPost, "/v1/content/"+content.ID+"/metrics",
		`{"impressions":100,"clicks":10,"likes":4,"shares":2,"conversions":1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, domain.ContentStatusPublished, decode[domain.Content](t, rec).Status)

	rec = f.do(t, http.MethodGet, "/v1/analytics?campaignId="+campaign.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	snapshot := decode[domain.AnalyticsSnapshot](t, rec)
	assert.Equal(t, int64(100), snapshot.Overview.TotalImpressions)
	assert.Equal(t, int64(6), snapshot.Overview.TotalEngagement)
	assert.Equal(t, 10.0, snapshot.Overview.CTR)
	assert.Len(t, snapshot.ByPlatform, 2)

	rec = f.do(t, http.MethodGet, "/v1/analytics/top?limit=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	top := decode[[]domain.TopContentItem](t, rec)
	require.Len(t, top, 1)
	assert.Equal(t, int64(110), top[0].Score)

	rec = f.do(t, http.MethodGet, "/v1/analytics/top?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/analytics/export?campaignId="+campaign.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Date,Impressions,Clicks,Engagement"))

	rec = f.do(t, http.MethodPost, "/v1/analytics/export/s3", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/campaigns/"+campaign.ID, "")
	assert.Equal(t, int64(100), decode[domain.Campaign](t, rec).Metrics.Impressions)

	// entrada despachada não pode ser removida
	rec = f.do(t, http.MethodDelete, "/v1/content/"+content.ID+"/schedule/linkedin", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestScheduleBatch(t *testing.T) {
	f := newAPIFixture(t)
	campaign := f.createCampaign(t)
	content := f.createContent(t, campaign.ID)

	rec := f.do(t, http.MethodPost, "/v1/schedule", `{"items":[
		{"contentId":"`+content.ID+`","platform":"linkedin","scheduledAt":"2024-03-02T10:00:00Z"},
		{"contentId":"`+content.ID+`","platform":"slack","scheduledAt":"2024-03-02T10:00:00Z"},
		{"contentId":"missing","platform":"twitter","scheduledAt":"2024-03-02T10:00:00Z"}
	]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	result := decode[scheduler.BatchResult](t, rec)
	assert.Equal(t, 1, result.ScheduledCount)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.Equal(t, 2, result.Errors[1].Index)

	rec = f.do(t, http.MethodGet, "/v1/schedule?contentId="+content.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.ScheduleEntry](t, rec), 1)

	rec = f.do(t, http.MethodPost, "/v1/schedule", `{"items":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodDelete, "/v1/content/"+content.ID+"/schedule/linkedin", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodDelete, "/v1/content/"+content.ID+"/schedule/linkedin", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/content/"+content.ID, "")
	assert.Equal(t, domain.ContentStatusDraft, decode[domain.Content](t, rec).Status)
}

func TestContentHandlers(t *testing.T) {
	f := newAPIFixture(t)
	campaign := f.createCampaign(t)
	content := f.createContent(t, campaign.ID)

	assert.Equal(t, domain.ContentTypePost, content.Type)

	rec := f.do(t, http.MethodPut, "/v1/content/"+content.ID, `{"title":"Launch post v2","channels":["twitter"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []domain.Channel{domain.ChannelTwitter}, decode[domain.Content](t, rec).Channels)

	rec = f.do(t, http.MethodGet, "/v1/content?campaignId="+campaign.ID+"&status=draft", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.Content](t, rec), 1)

	rec = f.do(t, http.MethodGet, "/v1/content?status=published", "")
	assert.Empty(t, decode[[]domain.Content](t, rec))

	rec = f.do(t, http.MethodDelete, "/v1/content/"+content.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/content/"+content.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConnectionAndCronHandlers(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/connection/test", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[domain.HealthStatus](t, rec).Healthy)

	rec = f.do(t, http.MethodPost, "/v1/cron/sweep/run", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)

	f.sweeps.accept = false
	rec = f.do(t, http.MethodPost, "/v1/cron/sweep/run", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/cron/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dispatch-sweep")

	rec = f.do(t, http.MethodGet, "/healthcheck", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterFallbacks(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/v1/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apiErrors.ErrNotFound, decode[apiErrors.APIError](t, rec).Code)

	rec = f.do(t, http.MethodPatch, "/v1/campaigns", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
