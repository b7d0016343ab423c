package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/eugenenazirov/chat-bubbles/internal/chat"
)

var (
	// ErrNoExport indicates no chat export has been uploaded yet.
	ErrNoExport = errors.New("no chat export uploaded")
	// ErrInvalidExport indicates the provided export is nil or carries no messages.
	ErrInvalidExport = errors.New("chat export must contain at least one message")
)

// Summary describes the currently stored export.
type Summary struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Messages  int       `json:"messages"`
	Senders   int       `json:"senders"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Storage provides access to the chat export that statistics are computed from.
type Storage interface {
	SetExport(export *chat.Export) error
	GetMessages() ([]chat.Message, error)
	Summary() (Summary, error)
}

// MemoryStorage keeps the latest export in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu      sync.RWMutex
	export  *chat.Export
	summary Summary
	clock   func() time.Time
}

// Option configures a MemoryStorage.
type Option func(*MemoryStorage)

// WithClock overrides the time source used for UpdatedAt, primarily for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *MemoryStorage) {
		s.clock = clock
	}
}

// NewMemoryStorage returns an empty store.
func NewMemoryStorage(opts ...Option) *MemoryStorage {
	s := &MemoryStorage{
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetExport validates and replaces the stored export. The store keeps its own copy.
func (s *MemoryStorage) SetExport(export *chat.Export) error {
	if export == nil || len(export.Messages) == 0 {
		return ErrInvalidExport
	}

	stored := cloneExport(export)
	summary := summarize(stored)
	summary.UpdatedAt = s.clock()

	s.mu.Lock()
	s.export = stored
	s.summary = summary
	s.mu.Unlock()

	return nil
}

// GetMessages returns a defensive copy of the stored messages.
func (s *MemoryStorage) GetMessages() ([]chat.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.export == nil {
		return nil, ErrNoExport
	}
	return cloneMessages(s.export.Messages), nil
}

// Summary reports what is currently stored.
func (s *MemoryStorage) Summary() (Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.export == nil {
		return Summary{}, ErrNoExport
	}
	return s.summary, nil
}

func summarize(export *chat.Export) Summary {
	senders := make(map[string]struct{})
	for _, m := range export.Messages {
		if m.From != "" {
			senders[m.From] = struct{}{}
		}
	}
	return Summary{
		ID:       export.ID,
		Name:     export.Name,
		Type:     export.Type,
		Messages: len(export.Messages),
		Senders:  len(senders),
	}
}

func cloneExport(src *chat.Export) *chat.Export {
	out := *src
	out.Messages = cloneMessages(src.Messages)
	return &out
}

func cloneMessages(src []chat.Message) []chat.Message {
	if len(src) == 0 {
		return []chat.Message{}
	}

	out := make([]chat.Message, len(src))
	copy(out, src)
	for i := range out {
		if src[i].TextEntities != nil {
			out[i].TextEntities = append([]chat.TextEntity(nil), src[i].TextEntities...)
		}
	}
	return out
}
