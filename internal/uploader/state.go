package uploader

import (
	"errors"

	"github.com/example/lookalike/internal/recognition"
)

// Phase is the lifecycle of the current upload attempt.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText renders the phase by name in JSON documents.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// User-facing messages. Every failure cause collapses into MessageRequestFailed.
const (
	MessageNoFileSelected = "Please select a file first!"
	MessageRequestFailed  = "An error occurred while uploading the image."
)

var (
	// ErrNoFileSelected is returned when submit is attempted before a file was picked.
	ErrNoFileSelected = errors.New("no file selected")
	// ErrSubmitInProgress is returned when submit is attempted while a request is in flight.
	ErrSubmitInProgress = errors.New("upload already in progress")
	// ErrRequestFailed wraps every failed upload regardless of cause.
	ErrRequestFailed = errors.New("upload request failed")

	errClientPanic = errors.New("recognition client panicked")
)

// NoticeKind identifies a user notification.
type NoticeKind int

const (
	NoticeNoFileSelected NoticeKind = iota + 1
	NoticeRequestFailed
)

// Notice is a blocking message for the user.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Notifier delivers notices to whatever surface the user is looking at.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(n Notice)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notice) { f(n) }

// Snapshot is a point-in-time copy of the controller state for rendering.
type Snapshot struct {
	HasFile   bool                `json:"has_file"`
	FileName  string              `json:"file_name,omitempty"`
	FileType  string              `json:"file_type,omitempty"`
	Phase     Phase               `json:"phase"`
	AttemptID string              `json:"attempt_id,omitempty"`
	Result    recognition.Payload `json:"result,omitempty"`
}

// Loading reports whether a request is in flight.
func (s Snapshot) Loading() bool {
	return s.Phase == PhaseLoading
}

// ShowResult reports whether the results area should be displayed.
func (s Snapshot) ShowResult() bool {
	return s.Phase == PhaseSucceeded && len(s.Result) > 0
}
