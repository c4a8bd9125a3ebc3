package httpclient

import (
	"bytes"
	"context"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/example/lookalike/internal/logging"
	"github.com/example/lookalike/internal/recognition"
)

var _ recognition.Client = (*UploadClient)(nil)

// maxErrorBody bounds how much of a failed response body ends up in errors and logs.
const maxErrorBody = 512

// UploadClient posts picked images to the recognition service as multipart form data.
type UploadClient struct {
	http     *resty.Client
	endpoint string
	logger   *zap.Logger
}

// NewUploadClient returns a client bound to a single upload endpoint.
// No timeout and no retries are configured: a request runs until the
// service answers or the context is done.
func NewUploadClient(endpoint string, logger *zap.Logger) *UploadClient {
	rc := resty.New().
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	return &UploadClient{
		http:     rc,
		endpoint: endpoint,
		logger:   logger.Named("upload_client"),
	}
}

// Recognize sends the file under the "file" form field and parses the structured response.
func (c *UploadClient) Recognize(ctx context.Context, attemptID string, file recognition.File) (recognition.Payload, error) {
	opLogger := logging.WithOperation(c.logger, "httpclient.upload", attemptID)

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", attemptID).
		SetMultipartField(recognition.FormField, file.Name, contentType, bytes.NewReader(file.Data)).
		Post(c.endpoint)
	if err != nil {
		wrapped := logging.NewOperationError("httpclient.upload", attemptID, err)
		opLogger.Error("upload request failed", zap.Error(wrapped), zap.String("endpoint", c.endpoint))
		return nil, wrapped
	}

	if !resp.IsSuccess() {
		statusErr := &recognition.StatusError{StatusCode: resp.StatusCode(), Body: truncate(resp.String(), maxErrorBody)}
		wrapped := logging.NewOperationError("httpclient.upload", attemptID, statusErr)
		opLogger.Error("recognition service rejected upload", zap.Int("status", resp.StatusCode()))
		return nil, wrapped
	}

	payload, err := recognition.ParsePayload(resp.Body())
	if err != nil {
		wrapped := logging.NewOperationError("httpclient.decode_response", attemptID, err)
		opLogger.Error("failed to decode recognition response",
			zap.Error(wrapped),
			zap.String("content_type", resp.Header().Get("Content-Type")),
		)
		return nil, wrapped
	}

	opLogger.Info("upload completed",
		zap.Int("status", resp.StatusCode()),
		zap.Int("payload_bytes", len(payload)),
		zap.Duration("elapsed", resp.Time()),
	)
	return payload, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
