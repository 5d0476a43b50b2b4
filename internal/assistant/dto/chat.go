package dto

// ChatRequest is the body for the chat endpoints.
type ChatRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// ChatResponse carries the agent's reply and which assistant produced it.
type ChatResponse struct {
	Response string `json:"response"`
	Source   string `json:"source"`
}
