package handler

import (
	"net/http"

	"github.com/vfg2006/campaign-hub-api/pkg/apiErrors"
	"github.com/vfg2006/campaign-hub-api/pkg/log"
)

// SweepController controla a varredura de despacho agendada
type SweepController interface {
	TriggerManualSweep() bool
	GetStatus() map[string]any
}

// RunDispatchSweep dispara uma varredura fora do cron
func RunDispatchSweep(controller SweepController) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !controller.TriggerManualSweep() {
			apiErrors.WriteError(w, apiErrors.ErrConflict, "Varredura de despacho já está em execução", nil)
			return
		}

		log.ForContext(r.Context()).Info("Varredura de despacho disparada manualmente")

		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "Varredura de despacho iniciada com sucesso",
			"type":    "dispatch-sweep",
		})
	})
}

func GetCronStatus(controller SweepController) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"dispatch-sweep": controller.GetStatus(),
		})
	})
}
