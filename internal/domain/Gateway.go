package domain

// PublishResult is returned by a channel gateway when a delivery succeeds.
type PublishResult struct {
	Success    bool   `json:"success"`
	ExternalID string `json:"externalId,omitempty"`
	Error      string `json:"error,omitempty"`
}

// HealthStatus é a resposta do checkHealth do gateway
type HealthStatus struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message"`
}
