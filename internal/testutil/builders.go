package testutil

import (
	"time"

	"github.com/contactdesk/contactdesk/internal/dashboard"
)

// MessageBuilder provides a fluent API for constructing dashboard.Message in tests.
type MessageBuilder struct {
	m dashboard.Message
}

// NewMessage creates a builder with sensible defaults.
func NewMessage(id string) *MessageBuilder {
	return &MessageBuilder{
		m: dashboard.Message{
			ID:        id,
			Name:      "Sender " + id,
			Email:     "sender" + id + "@example.com",
			Message:   "Hello from " + id,
			CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func (b *MessageBuilder) WithName(n string) *MessageBuilder {
	b.m.Name = n
	return b
}

func (b *MessageBuilder) WithEmail(e string) *MessageBuilder {
	b.m.Email = e
	return b
}

func (b *MessageBuilder) WithBody(s string) *MessageBuilder {
	b.m.Message = s
	return b
}

func (b *MessageBuilder) WithCreatedAt(t time.Time) *MessageBuilder {
	b.m.CreatedAt = t
	return b
}

// Build returns the constructed message.
func (b *MessageBuilder) Build() dashboard.Message {
	return b.m
}

// Messages builds one default message per id, in order.
func Messages(ids ...string) []dashboard.Message {
	out := make([]dashboard.Message, len(ids))
	for i, id := range ids {
		out[i] = NewMessage(id).Build()
	}
	return out
}
