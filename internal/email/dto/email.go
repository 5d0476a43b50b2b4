package dto

import emaildomain "assistant-backend/internal/email/domain"

// SendEmailRequest is the body for POST /api/email/send.
type SendEmailRequest struct {
	To      string `json:"to" binding:"required"`
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
	CC      string `json:"cc"`
	BCC     string `json:"bcc"`
}

// SendEmailResponse carries the sent message id.
type SendEmailResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

// EmailListResponse wraps a list of emails.
type EmailListResponse struct {
	Emails []*emaildomain.Email `json:"emails"`
	Count  int                  `json:"count"`
}
