package types

import "time"

// Message is one entry of an assistant conversation.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"` // "user" or "ai"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// SendMessageRequest posts a message to the assistant.
type SendMessageRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

// Validate checks the request fields.
func (r *SendMessageRequest) Validate() error {
	return validate.Struct(r)
}

// AskResponse is the reply to a one-shot question.
type AskResponse struct {
	Status string `json:"status"`
	Reply  string `json:"reply"`
	Source string `json:"source"`
}

// FAQ is a frequently asked question with its canned answer.
type FAQ struct {
	ID       int    `json:"id" yaml:"id"`
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// AskRequest is the body of a one-shot question.
type AskRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

// Validate checks the request fields.
func (r *AskRequest) Validate() error {
	return validate.Struct(r)
}
