package domain

// Email is the normalized shape returned by the Gmail wrapper.
// It is created per API call and never persisted.
type Email struct {
	ID       string `json:"id"`
	ThreadID string `json:"threadId"`
	Sender   string `json:"sender"`
	Subject  string `json:"subject"`
	Date     string `json:"date"`
	Snippet  string `json:"snippet"`
	Body     string `json:"body,omitempty"`
}
