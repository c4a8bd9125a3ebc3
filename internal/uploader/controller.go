package uploader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/lookalike/internal/logging"
	"github.com/example/lookalike/internal/recognition"
)

// Controller owns the selected file, the upload phase and the last result.
// At most one upload is in flight at any time.
type Controller struct {
	client   recognition.Client
	notifier Notifier
	logger   *zap.Logger
	metrics  *Metrics

	mu        sync.Mutex
	file      *recognition.File
	phase     Phase
	attemptID string
	result    recognition.Payload
}

// Option customizes a Controller.
type Option func(*Controller)

// WithMetrics records upload outcomes on m.
func WithMetrics(m *Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// NewController constructs a controller in the Idle phase with no file selected.
func NewController(client recognition.Client, notifier Notifier, logger *zap.Logger, opts ...Option) *Controller {
	if notifier == nil {
		notifier = NotifierFunc(func(Notice) {})
	}
	c := &Controller{
		client:   client,
		notifier: notifier,
		logger:   logger.Named("upload_controller"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SelectFile replaces the selected file. Any file type is accepted.
func (c *Controller) SelectFile(file recognition.File) {
	c.mu.Lock()
	c.file = &file
	c.mu.Unlock()

	c.logger.Debug("file selected",
		zap.String("file_name", file.Name),
		zap.String("content_type", file.ContentType),
		zap.Int("file_bytes", len(file.Data)),
	)
}

// Start validates the selection, moves to Loading and issues the upload in
// the background. The returned channel receives the outcome exactly once.
func (c *Controller) Start(ctx context.Context) (<-chan error, error) {
	c.mu.Lock()
	if c.file == nil {
		c.mu.Unlock()
		c.metrics.rejected(outcomeNoFile)
		c.logger.Info("submit without a selected file")
		c.notifier.Notify(Notice{Kind: NoticeNoFileSelected, Message: MessageNoFileSelected})
		return nil, ErrNoFileSelected
	}
	if c.phase == PhaseLoading {
		inFlight := c.attemptID
		c.mu.Unlock()
		c.metrics.rejected(outcomeInProgress)
		logging.WithOperation(c.logger, "uploader.submit", inFlight).Warn("submit rejected while upload in flight")
		return nil, ErrSubmitInProgress
	}

	attemptID := uuid.NewString()
	file := *c.file
	c.phase = PhaseLoading
	c.attemptID = attemptID
	c.mu.Unlock()

	c.metrics.started()
	done := make(chan error, 1)
	go func() {
		done <- c.run(ctx, attemptID, file)
	}()
	return done, nil
}

// Submit is the blocking form of Start.
func (c *Controller) Submit(ctx context.Context) error {
	done, err := c.Start(ctx)
	if err != nil {
		return err
	}
	return <-done
}

// State returns the current snapshot. It has no side effects.
// The result is only part of the snapshot while the phase is Succeeded;
// the last successful payload is retained internally otherwise.
func (c *Controller) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Phase:     c.phase,
		AttemptID: c.attemptID,
	}
	if c.phase == PhaseSucceeded {
		s.Result = c.result
	}
	if c.file != nil {
		s.HasFile = true
		s.FileName = c.file.Name
		s.FileType = c.file.ContentType
	}
	return s
}

func (c *Controller) run(ctx context.Context, attemptID string, file recognition.File) (err error) {
	started := time.Now()
	var payload recognition.Payload

	defer func() {
		if r := recover(); r != nil {
			payload = nil
			err = fmt.Errorf("%w: %v", errClientPanic, r)
		}
		err = c.finish(attemptID, payload, err, time.Since(started))
	}()

	logging.WithOperation(c.logger, "uploader.submit", attemptID).Info("upload started",
		zap.String("file_name", file.Name),
		zap.Int("file_bytes", len(file.Data)),
	)
	payload, err = c.client.Recognize(ctx, attemptID, file)
	return err
}

// finish leaves the Loading phase. A failure never touches the stored result.
func (c *Controller) finish(attemptID string, payload recognition.Payload, cause error, elapsed time.Duration) error {
	opLogger := logging.WithOperation(c.logger, "uploader.submit", attemptID)
	if cause == nil && len(payload) == 0 {
		cause = recognition.ErrMalformedPayload
	}

	c.mu.Lock()
	if cause != nil {
		c.phase = PhaseFailed
	} else {
		c.phase = PhaseSucceeded
		c.result = payload
	}
	c.mu.Unlock()

	if cause != nil {
		err := fmt.Errorf("%w: %w", ErrRequestFailed, logging.NewOperationError("uploader.submit", attemptID, cause))
		reason := failureReason(cause)
		c.metrics.failed(reason, elapsed)
		opLogger.Error("upload failed", zap.Error(err), zap.String("reason", reason), zap.Duration("elapsed", elapsed))
		c.notifier.Notify(Notice{Kind: NoticeRequestFailed, Message: MessageRequestFailed})
		return err
	}

	c.metrics.succeeded(elapsed)
	opLogger.Info("upload succeeded", zap.Duration("elapsed", elapsed), zap.Int("payload_bytes", len(payload)))
	return nil
}
