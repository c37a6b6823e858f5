package models

// DraftRequest represents an email draft to be saved with the mail provider
type DraftRequest struct {
	To      []string `json:"to" yaml:"to"`
	Subject string   `json:"subject" yaml:"subject"`
	Content string   `json:"content" yaml:"content"`
}

// DraftResult identifies the draft created by the mail provider
type DraftResult struct {
	ID        string `json:"id" yaml:"id"`
	MessageID string `json:"message_id,omitempty" yaml:"message_id,omitempty"`
}
