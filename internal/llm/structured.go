package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	replyValidatorOnce sync.Once
	replyValidator     *validator.Validate
)

// DecodeReply pulls the first JSON object out of a model reply and decodes
// it into T, then checks T's validate tags. Markdown fences, prose around
// the object, // and /* */ comments, and numbers written as ".5" are
// tolerated.
func DecodeReply[T any](raw string) (T, error) {
	var zero T
	obj := scanObject(raw)
	if obj == "" {
		return zero, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}
	var out T
	if err := json.Unmarshal([]byte(obj), &out); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	replyValidatorOnce.Do(func() { replyValidator = validator.New() })
	if err := replyValidator.Struct(out); err != nil {
		// Non-struct targets have nothing to validate.
		var invalid *validator.InvalidValidationError
		if !errors.As(err, &invalid) {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}
	return out, nil
}

// scanObject copies the first balanced {...} block of s, dropping comments
// and prefixing bare leading decimals with 0. Fence markers never contain
// braces so they fall away naturally.
func scanObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	var b strings.Builder
	depth := 0
	inString, escaped := false, false
	var prev byte // last significant byte written outside strings

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
				prev = c
			}
			continue
		}

		switch {
		case c == '"':
			inString = true
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i+1 < len(s) && s[i+1] != '\n' {
				i++
			}
			continue
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				return ""
			}
			i += end + 3
			continue
		case c == '.' && i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '9' && strings.IndexByte(":,[{-", prev) >= 0:
			b.WriteByte('0')
		case c == '{':
			depth++
		case c == '}':
			depth--
		}

		b.WriteByte(c)
		if c != ' ' && c != '\n' && c != '\r' && c != '\t' {
			prev = c
		}
		if depth == 0 {
			return b.String()
		}
	}
	return ""
}
