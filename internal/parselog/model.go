package parselog

import (
	"time"

	"github.com/google/uuid"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Entry is the audit record of one parse request. It never holds resume content.
type Entry struct {
	ID         string    `json:"id"`
	RequestID  string    `json:"requestId"`
	FileName   string    `json:"fileName"`
	FileBytes  int64     `json:"fileBytes"`
	TextChars  int       `json:"textChars"`
	PromptHash string    `json:"promptHash"`
	Model      string    `json:"model"`
	Outcome    string    `json:"outcome"`
	ErrorKind  string    `json:"errorKind,omitempty"`
	DurationMs int64     `json:"durationMs"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewEntry returns an Entry with a fresh id and creation time.
func NewEntry() Entry {
	return Entry{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
}
