package dto

type ChatRequest struct {
	SessionId string `json:"session_id" validate:"required"`
	Question  string `json:"question" validate:"required"`
}

type ChatResponse struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	ModelUsed string `json:"model_used,omitempty"`
	Error     string `json:"error,omitempty"`
}
