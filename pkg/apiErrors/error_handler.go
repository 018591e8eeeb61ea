package apiErrors

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/campaign-hub-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// Erros de autenticação (1000-1999)
	ErrInvalidToken = "AUTH_006" // Token inválido
	ErrExpiredToken = "AUTH_007" // Token expirado

	// Erros de validação (2000-2999)
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de dados inválido
	ErrMethodNotAllowed    = "VAL_004" // Método HTTP não suportado na rota

	// Erros de estado (3000-4999)
	ErrNotFound = "NF_001"   // Recurso não encontrado
	ErrConflict = "CONF_001" // Conflito com o estado atual

	// Erros do servidor (5000-5999)
	ErrInternalServer  = "SRV_001" // Erro interno do servidor
	ErrExternalService = "SRV_003" // Erro em serviço externo
	ErrUnavailable     = "SRV_004" // Recurso desabilitado ou indisponível
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrInvalidToken:        http.StatusUnauthorized,
	ErrExpiredToken:        http.StatusUnauthorized,
	ErrInvalidRequest:      http.StatusBadRequest,
	ErrMissingRequiredData: http.StatusBadRequest,
	ErrInvalidFormat:       http.StatusBadRequest,
	ErrMethodNotAllowed:    http.StatusMethodNotAllowed,
	ErrNotFound:            http.StatusNotFound,
	ErrConflict:            http.StatusConflict,
	ErrInternalServer:      http.StatusInternalServerError,
	ErrExternalService:     http.StatusBadGateway,
	ErrUnavailable:         http.StatusServiceUnavailable,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`              // Código de erro para o cliente
	Message string `json:"message,omitempty"` // Mensagem descritiva (opcional)
	Details any    `json:"details,omitempty"` // Detalhes adicionais (opcional)
}

// StatusFor devolve o status HTTP associado ao código
func StatusFor(code string) int {
	status, exists := httpStatusMap[code]
	if !exists {
		return http.StatusInternalServerError
	}
	return status
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(code))
	json.NewEncoder(w).Encode(apiErr)
}

// WriteDomainError traduz a taxonomia de erros do domínio para o envelope da API
func WriteDomainError(w http.ResponseWriter, err error) {
	apiErr := FromError(err)
	WriteError(w, apiErr.Code, apiErr.Message, apiErr.Details)
}

// FromError cria um erro de API a partir de um erro Go
func FromError(err error) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "Erro desconhecido",
		}
	}

	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		var details any
		if validation.Field != "" {
			details = map[string]string{"field": validation.Field}
		}
		return APIError{Code: ErrInvalidRequest, Message: err.Error(), Details: details}
	}

	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		return APIError{
			Code:    ErrNotFound,
			Message: err.Error(),
			Details: map[string]string{"entity": string(notFound.Entity), "id": notFound.ID},
		}
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return APIError{Code: ErrInvalidRequest, Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return APIError{Code: ErrNotFound, Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return APIError{Code: ErrConflict, Message: err.Error()}
	case errors.Is(err, domain.ErrGateway):
		return APIError{Code: ErrExternalService, Message: err.Error()}
	}

	return APIError{Code: ErrInternalServer, Message: err.Error()}
}
