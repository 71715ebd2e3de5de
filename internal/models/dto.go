package models

// ===== RESPONSES =====

type SchoolListResponse struct {
	Schools []School `json:"schools"`
}

type CreateSchoolResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Error   string `json:"error,omitempty"`
}

// ===== ERROR RESPONSES =====

type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// ===== EVENTS =====

type SchoolCreatedEvent struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	State   string `json:"state"`
	Image   string `json:"image"`
	EmailID string `json:"email_id"`
}
