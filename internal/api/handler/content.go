package handler

import (
	"net/http"

	"github.com/vfg2006/campaign-hub-api/internal/domain"
	"github.com/vfg2006/campaign-hub-api/internal/usecases/campaigning"
)

// ListContent aceita os filtros campaignId e status
func ListContent(service campaigning.CampaignService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		filter := domain.ContentFilter{
			CampaignID: query.Get("campaignId"),
			Status:     domain.ContentStatus(query.Get("status")),
		}

		writeJSON(w, http.StatusOK, service.ListContent(filter))
	})
}

func CreateContent(service campaigning.CampaignService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.CreateContentRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, r, "create_content", err)
			return
		}

		content, err := service.CreateContent(req)
		if err != nil {
			writeError(w, r, "create_content", err)
			return
		}

		writeJSON(w, http.StatusCreated, content)
	})
}

func GetContent(service campaigning.CampaignService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content, err := service.GetContent(param(r, "id"))
		if err != nil {
			writeError(w, r, "get_content", err)
			return
		}

		writeJSON(w, http.StatusOK, content)
	})
}

func UpdateContent(service campaigning.CampaignService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var patch domain.ContentPatch
		if err := decodeBody(r, &patch); err != nil {
			writeError(w, r, "update_content", err)
			return
		}

		content, err := service.UpdateContent(param(r, "id"), patch)
		if err != nil {
			writeError(w, r, "update_content", err)
			return
		}

		writeJSON(w, http.StatusOK, content)
	})
}

func DeleteContent(service campaigning.CampaignService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := service.DeleteContent(param(r, "id")); err != nil {
			writeError(w, r, "delete_content", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

// RecordContentMetrics soma um delta às métricas de um conteúdo publicado
func RecordContentMetrics(service campaigning.CampaignService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var delta domain.MetricsDelta
		if err := decodeBody(r, &delta); err != nil {
			writeError(w, r, "record_metrics", err)
			return
		}

		content, err := service.RecordMetrics(param(r, "id"), delta)
		if err != nil {
			writeError(w, r, "record_metrics", err)
			return
		}

		writeJSON(w, http.StatusOK, content)
	})
}
