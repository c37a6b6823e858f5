package models

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Transport string `json:"transport"`
	Tools     int    `json:"tools"`
	Timestamp int64  `json:"timestamp"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
