// Package recognition describes the boundary to the external recognition
// service: what is sent, what comes back, and how a call can fail.
package recognition

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// FormField is the multipart part name the recognition service reads the image from.
const FormField = "file"

// ErrMalformedPayload reports a success response whose body is not structured JSON.
var ErrMalformedPayload = errors.New("recognition response is not structured JSON")

// File is an image picked by the user.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Payload is the raw structured body returned by the recognition service.
// Its schema belongs to the service; it is rendered, never interpreted.
type Payload json.RawMessage

// ParsePayload accepts a JSON object or array and rejects anything else.
func ParsePayload(body []byte) (Payload, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') || !json.Valid(trimmed) {
		return nil, ErrMalformedPayload
	}
	out := make([]byte, len(trimmed))
	copy(out, trimmed)
	return Payload(out), nil
}

// Pretty renders the payload with two-space indentation.
func (p Payload) Pretty() string {
	if len(p) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, p, "", "  "); err != nil {
		return string(p)
	}
	return buf.String()
}

// MarshalJSON embeds the payload verbatim.
func (p Payload) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("null"), nil
	}
	return p, nil
}

// StatusError reports a non-2xx answer from the recognition service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("recognition service responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("recognition service responded with status %d: %s", e.StatusCode, e.Body)
}

// Client exposes the single call the upload flow makes.
type Client interface {
	Recognize(ctx context.Context, attemptID string, file File) (Payload, error)
}
