package logging

import (
	"go.uber.org/zap"
)

// NewLogger builds the JSON logger shared by the controller, the upload client and the web surface.
// Every entry carries the service name so uploads can be traced next to recognizer logs.
func NewLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.InitialFields = map[string]interface{}{"service": "lookalike"}
	return cfg.Build()
}

// WithOperation scopes a logger to one step of an upload attempt.
// The attempt id is omitted for steps that happen outside an attempt, like file selection.
func WithOperation(logger *zap.Logger, operation, attemptID string) *zap.Logger {
	fields := []zap.Field{zap.String("operation", operation)}
	if attemptID != "" {
		fields = append(fields, zap.String("attempt_id", attemptID))
	}
	return logger.With(fields...)
}
