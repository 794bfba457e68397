package resumes

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
)

const fence = "```"

// Recover extracts the first JSON object from a raw model reply.
//
// Markdown fences (with an optional language tag) are stripped once, leading
// prose is skipped up to the first '{', and the object ends where a plain
// brace count returns to zero. The count ignores string literals, so a brace
// inside a string value can end the object early or let it run to the end of
// the reply; either way the slice must be exactly one JSON value or the
// decode fails with ReasonInvalidJSON.
func Recover(raw string) (Resume, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &RecoveryError{Reason: ReasonEmptyReply}
	}

	text := stripFences(raw)
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return nil, &RecoveryError{Reason: ReasonNoObject}
	}
	candidate := text[start:objectEnd(text, start)]

	dec := json.NewDecoder(strings.NewReader(candidate))
	dec.UseNumber()
	var out Resume
	if err := dec.Decode(&out); err != nil {
		return nil, &RecoveryError{Reason: ReasonInvalidJSON, Cause: err}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after JSON object")
		}
		return nil, &RecoveryError{Reason: ReasonInvalidJSON, Cause: err}
	}
	return out, nil
}

func stripFences(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, fence) {
		text = text[len(fence):]
		i := 0
		for i < len(text) && isLangTagByte(text[i]) {
			i++
		}
		text = text[i:]
	}
	text = strings.TrimSuffix(text, fence)
	return strings.TrimSpace(text)
}

func isLangTagByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '-' || b == '_' || b == '+':
		return true
	}
	return false
}

// objectEnd returns the index just past the brace that balances text[start].
func objectEnd(text string, start int) int {
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(text)
}
