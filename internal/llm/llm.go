package llm

import (
	"context"
	"fmt"
	"strings"

	"resume-parser/internal/shared/util"
)

// Completer sends a prompt to a chat-completion model and returns its raw text reply.
type Completer interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// Message is one chat message.
type Message struct {
	Role    string
	Content string
}

// Prompt is the system/user instruction pair sent for one completion.
type Prompt struct {
	System string
	User   string
}

// Messages returns the prompt in chat order.
func (p Prompt) Messages() []Message {
	return []Message{
		{Role: "system", Content: p.System},
		{Role: "user", Content: p.User},
	}
}

// Hash returns a stable sha256 of the rendered prompt, for logs and audit records.
func (p Prompt) Hash() string {
	var b strings.Builder
	for i, m := range p.Messages() {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.Role)
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return util.SHA256Hex(b.String())
}

// CompletionError reports a failed call to the completion service.
type CompletionError struct {
	Message    string
	StatusCode int  // HTTP status when the service answered, else zero
	Transient  bool // timeout, throttling, 5xx or dropped connection
	Cause      error
}

func (e *CompletionError) Error() string {
	msg := "LLM API call failed: " + e.Message
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *CompletionError) Unwrap() error {
	return e.Cause
}
