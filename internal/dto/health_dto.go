package dto

type RootHealthResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	ModelLoaded bool   `json:"model_loaded"`
}

type HealthResponse struct {
	Status            string `json:"status"`
	ModelLoaded       bool   `json:"model_loaded"`
	ChatAvailable     bool   `json:"chat_available"`
	SessionsProcessed int64  `json:"sessions_processed"`
	SessionsActive    int    `json:"sessions_active"`
}
