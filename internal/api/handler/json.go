package handler

import (
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/campaign-hub-api/internal/domain"
	"github.com/vfg2006/campaign-hub-api/pkg/apiErrors"
	"github.com/vfg2006/campaign-hub-api/pkg/log"
	"github.com/vfg2006/campaign-hub-api/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.L.WithError(err).Error("Erro ao codificar resposta")
	}
}

// decodeBody lê o corpo JSON; corpo vazio ou inválido vira erro de validação
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return domain.NewValidationError("body", "request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.NewValidationError("body", "invalid JSON: %v", err)
	}
	return nil
}

// writeError registra o erro com o ID de correlação e responde com o envelope padrão
func writeError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	apiErr := apiErrors.FromError(err)
	logger := log.ForContext(r.Context()).WithFields(log.Fields{
		"error":     err.Error(),
		"operation": operation,
	})
	if apiErrors.StatusFor(apiErr.Code) >= http.StatusInternalServerError {
		logger.Error("Falha ao processar requisição")
	} else {
		logger.Warn("Requisição rejeitada")
	}

	apiErrors.WriteError(w, apiErr.Code, apiErr.Message, apiErr.Details)
}

func param(r *http.Request, name string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(name)
}

func parseTime(field, value string) (time.Time, error) {
	t, err := utils.ParseTimestamp(strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "%v", err)
	}
	return t, nil
}

func parseOptionalTime(field string, value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := parseTime(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
