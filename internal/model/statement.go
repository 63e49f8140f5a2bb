package model

import (
	"time"

	"github.com/google/uuid"
)

// StatementType categorizes a conversational statement
type StatementType string

const (
	StatementFunctional    StatementType = "functional"     // Describes something the system must do
	StatementNonFunctional StatementType = "non_functional" // Describes a quality attribute
	StatementConstraint    StatementType = "constraint"     // Limits the solution space
	StatementUnknown       StatementType = "unknown"        // Not yet classified
)

// Statement is a single timestamped utterance. Immutable once ingested.
type Statement struct {
	Content   string            `json:"content"`             // Normalized statement text
	Speaker   string            `json:"speaker"`             // Who said it
	Timestamp time.Time         `json:"timestamp"`           // When it was said
	Context   map[string]string `json:"context,omitempty"`   // Caller-supplied metadata
	Type      StatementType     `json:"statement_type"`      // Classification hint
}

// Conversation is an ordered, append-only sequence of statements.
// Order is semantically meaningful: later statements extend or override
// earlier ones.
type Conversation struct {
	ID         string            `json:"conversation_id"`
	SessionID  string            `json:"session_id,omitempty"`
	Statements []Statement       `json:"statements"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// NewConversation creates an empty conversation. A fresh id is minted
// when the caller does not provide one.
func NewConversation(id string) *Conversation {
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()
	return &Conversation{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append adds a statement to the conversation
func (c *Conversation) Append(s Statement) {
	c.Statements = append(c.Statements, s)
	c.UpdatedAt = time.Now().UTC()
}

// StatementsByType returns all statements of the given type, in order
func (c *Conversation) StatementsByType(t StatementType) []Statement {
	var out []Statement
	for _, s := range c.Statements {
		if s.Type == t {
			out = append(out, s)
		}
	}
	return out
}
