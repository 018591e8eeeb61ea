package handler

import (
	"net/http"

	"github.com/vfg2006/campaign-hub-api/internal/api/handler/router"
	"github.com/vfg2006/campaign-hub-api/internal/usecases/campaigning"
	"github.com/vfg2006/campaign-hub-api/internal/usecases/insighting"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Campaigns(service campaigning.CampaignService) []router.Route {
	return []router.Route{
		{Path: "/v1/campaigns", Method: http.MethodGet, Handler: ListCampaigns(service)},
		{Path: "/v1/campaigns", Method: http.MethodPost, Handler: CreateCampaign(service)},
		{Path: "/v1/campaigns/:id", Method: http.MethodGet, Handler: GetCampaign(service)},
		{Path: "/v1/campaigns/:id", Method: http.MethodPut, Handler: UpdateCampaign(service)},
		{Path: "/v1/campaigns/:id", Method: http.MethodDelete, Handler: DeleteCampaign(service)},
		{Path: "/v1/campaigns/:id/activate", Method: http.MethodPost, Handler: ActivateCampaign(service)},
	}
}

func Content(service campaigning.CampaignService) []router.Route {
	return []router.Route{
		{Path: "/v1/content", Method: http.MethodGet, Handler: ListContent(service)},
		{Path: "/v1/content", Method: http.MethodPost, Handler: CreateContent(service)},
		{Path: "/v1/content/:id", Method: http.MethodGet, Handler: GetContent(service)},
		{Path: "/v1/content/:id", Method: http.MethodPut, Handler: UpdateContent(service)},
		{Path: "/v1/content/:id", Method: http.MethodDelete, Handler: DeleteContent(service)},
		{Path: "/v1/content/:id/metrics", Method: http.MethodPost, Handler: RecordContentMetrics(service)},
	}
}

func Schedule(service Scheduling) []router.Route {
	return []router.Route{
		{Path: "/v1/schedule", Method: http.MethodGet, Handler: ListSchedule(service)},
		{Path: "/v1/schedule", Method: http.MethodPost, Handler: ScheduleContent(service)},
		{Path: "/v1/content/:id/schedule/:channel", Method: http.MethodDelete, Handler: UnscheduleContent(service)},
		{Path: "/v1/connection/test", Method: http.MethodPost, Handler: TestConnection(service)},
	}
}

func Analytics(service insighting.Insighter) []router.Route {
	return []router.Route{
		{Path: "/v1/analytics", Method: http.MethodGet, Handler: GetAnalytics(service)},
		{Path: "/v1/analytics/top", Method: http.MethodGet, Handler: GetTopContent(service)},
		{Path: "/v1/analytics/export", Method: http.MethodGet, Handler: ExportTimeline(service)},
		{Path: "/v1/analytics/export/s3", Method: http.MethodPost, Handler: UploadTimelineReport(service)},
	}
}

func CronJobs(controller SweepController) []router.Route {
	return []router.Route{
		{Path: "/v1/cron/sweep/run", Method: http.MethodPost, Handler: RunDispatchSweep(controller)},
		{Path: "/v1/cron/status", Method: http.MethodGet, Handler: GetCronStatus(controller)},
	}
}
