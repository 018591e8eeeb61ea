package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/vfg2006/campaign-hub-api/internal/domain"
	"github.com/vfg2006/campaign-hub-api/internal/scheduler"
)

// Scheduling é o lado do motor de agendamento exposto pela API
type Scheduling interface {
	ScheduleContent(contentID string, channel domain.Channel, at time.Time) (*domain.ScheduleEntry, error)
	ScheduleBatch(items []domain.ScheduleItem) *scheduler.BatchResult
	UnscheduleContent(contentID string, channel domain.Channel) error
	ListSchedule(contentID string) []*domain.ScheduleEntry
	TestConnection(ctx context.Context) (*domain.HealthStatus, error)
}

type scheduleItemRequest struct {
	ContentID   string         `json:"contentId"`
	Platform    domain.Channel `json:"platform"`
	ScheduledAt string         `json:"scheduledAt"`
}

func (req scheduleItemRequest) toDomain(field string) (domain.ScheduleItem, error) {
	at, err := parseTime(field, req.ScheduledAt)
	if err != nil {
		return domain.ScheduleItem{}, err
	}
	return domain.ScheduleItem{ContentID: req.ContentID, Channel: req.Platform, ScheduledAt: at}, nil
}

// scheduleRequest aceita um item único ou o lote {items: [...]}
type scheduleRequest struct {
	scheduleItemRequest
	Items []scheduleItemRequest `json:"items"`
}

func ScheduleContent(service Scheduling) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body scheduleRequest
		if err := decodeBody(r, &body); err != nil {
			writeError(w, r, "schedule_content", err)
			return
		}

		if body.Items == nil {
			item, err := body.scheduleItemRequest.toDomain("scheduledAt")
			if err != nil {
				writeError(w, r, "schedule_content", err)
				return
			}

			entry, err := service.ScheduleContent(item.ContentID, item.Channel, item.ScheduledAt)
			if err != nil {
				writeError(w, r, "schedule_content", err)
				return
			}

			writeJSON(w, http.StatusCreated, entry)
			return
		}

		if len(body.Items) == 0 {
			writeError(w, r, "schedule_batch", domain.NewValidationError("items", "at least one item is required"))
			return
		}

		items := make([]domain.ScheduleItem, 0, len(body.Items))
		for i, raw := range body.Items {
			item, err := raw.toDomain(fmt.Sprintf("items[%d].scheduledAt", i))
			if err != nil {
				writeError(w, r, "schedule_batch", err)
				return
			}
			items = append(items, item)
		}

		result := service.ScheduleBatch(items)

		status := http.StatusOK
		if result.ScheduledCount > 0 {
			status = http.StatusCreated
		}
		writeJSON(w, status, result)
	})
}

func ListSchedule(service Scheduling) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, service.ListSchedule(r.URL.Query().Get("contentId")))
	})
}

func UnscheduleContent(service Scheduling) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := service.UnscheduleContent(param(r, "id"), domain.Channel(param(r, "channel")))
		if err != nil {
			writeError(w, r, "unschedule_content", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

// TestConnection verifica o gateway; falhas do gateway voltam no corpo, não como erro HTTP
func TestConnection(service Scheduling) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status, err := service.TestConnection(r.Context())
		if err != nil {
			writeError(w, r, "test_connection", err)
			return
		}

		writeJSON(w, http.StatusOK, status)
	})
}
