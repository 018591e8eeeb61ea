package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/vfg2006/campaign-hub-api/internal/domain"
	"github.com/vfg2006/campaign-hub-api/internal/usecases/insighting"
	"github.com/vfg2006/campaign-hub-api/pkg/apiErrors"
)

func GetAnalytics(service insighting.Insighter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := service.GetAnalytics(r.URL.Query().Get("campaignId"))
		if err != nil {
			writeError(w, r, "get_analytics", err)
			return
		}

		writeJSON(w, http.StatusOK, snapshot)
	})
}

func GetTopContent(service insighting.Insighter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		limit := insighting.DefaultTopContentLimit
		if raw := query.Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				writeError(w, r, "top_content", domain.NewValidationError("limit", "must be a positive integer"))
				return
			}
			limit = parsed
		}

		items, err := service.TopContent(query.Get("campaignId"), limit)
		if err != nil {
			writeError(w, r, "top_content", err)
			return
		}

		writeJSON(w, http.StatusOK, items)
	})
}

// ExportTimeline devolve a linha do tempo diária como anexo CSV
func ExportTimeline(service insighting.Insighter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		campaignID := r.URL.Query().Get("campaignId")

		body, err := service.ExportTimelineCSV(campaignID)
		if err != nil {
			writeError(w, r, "export_timeline", err)
			return
		}

		filename := insighting.ReportKey(campaignID, time.Now().UTC())
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	})
}

func UploadTimelineReport(service insighting.Insighter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		location, err := service.UploadTimelineReport(r.Context(), r.URL.Query().Get("campaignId"))
		if err != nil {
			if errors.Is(err, insighting.ErrReportStorageDisabled) {
				apiErrors.WriteError(w, apiErrors.ErrUnavailable, err.Error(), nil)
				return
			}
			writeError(w, r, "upload_timeline_report", err)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]string{"location": location})
	})
}
