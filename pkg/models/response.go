package models

import "time"

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents a non-streamed error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ProviderConfigStatus reports whether one provider has credentials configured
type ProviderConfigStatus struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
}

// ProvidersResponse is the read-only configuration report for all known providers
type ProvidersResponse struct {
	Providers []ProviderConfigStatus `json:"providers"`
	Total     int                    `json:"total"`
	Available int                    `json:"available"`
}

// ExtractProfileResponse is returned by the profile extraction endpoint
type ExtractProfileResponse struct {
	Success        bool              `json:"success"`
	Profile        *CandidateProfile `json:"profile,omitempty"`
	ProcessingTime time.Duration     `json:"processing_time"`
	RequestID      string            `json:"request_id"`
}
