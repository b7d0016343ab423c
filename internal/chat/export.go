package chat

import (
	"encoding/json"
	"fmt"
	"io"
)

// Export is a single chat history as produced by the messenger's JSON export.
type Export struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Messages []Message `json:"messages"`
}

// Message is one entry of the export. Service messages have no sender.
type Message struct {
	ID           int64        `json:"id"`
	Type         string       `json:"type"`
	Date         string       `json:"date"`
	DateUnixtime string       `json:"date_unixtime"`
	From         string       `json:"from"`
	FromID       string       `json:"from_id"`
	Title        string       `json:"title,omitempty"`
	TextEntities []TextEntity `json:"text_entities"`
}

// TextEntity is a fragment of message text with its formatting type.
type TextEntity struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Decode reads an export from r.
func Decode(r io.Reader) (*Export, error) {
	var export Export
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExport, err)
	}
	return &export, nil
}
