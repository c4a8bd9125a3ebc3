package handlers

import (
	"context"
	"embed"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/example/lookalike/internal/recognition"
	"github.com/example/lookalike/internal/uploader"
)

// MaxUploadMemory is the multipart memory threshold for picked files.
// Larger files spill to disk; no size limit is enforced.
const MaxUploadMemory = 8 << 20

const (
	labelIdle    = "Find My Match"
	labelLoading = "Processing..."
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	State       uploader.Snapshot
	ButtonLabel string
	Pretty      string
	Notices     []string
}

// RegisterRoutes wires the browser surface and the JSON state view to the Gin router.
func RegisterRoutes(router *gin.Engine, ctrl *uploader.Controller, notices *Notices, gatherer prometheus.Gatherer, logger *zap.Logger) {
	logger = logger.Named("handlers")
	router.SetHTMLTemplate(pageTemplate)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	router.GET("/", func(c *gin.Context) {
		state := ctrl.State()
		data := pageData{
			State:       state,
			ButtonLabel: labelIdle,
			Notices:     notices.Drain(),
		}
		if state.Loading() {
			data.ButtonLabel = labelLoading
		}
		if state.ShowResult() {
			data.Pretty = state.Result.Pretty()
		}
		c.Header("Cache-Control", "no-store")
		c.HTML(http.StatusOK, "index.html", data)
	})

	router.GET("/api/state", func(c *gin.Context) {
		c.JSON(http.StatusOK, ctrl.State())
	})

	router.POST("/select", func(c *gin.Context) {
		header, err := c.FormFile(recognition.FormField)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}

		file, err := readPickedFile(header)
		if err != nil {
			logger.Error("failed to read picked file", zap.Error(err), zap.String("file_name", header.Filename))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file"})
			return
		}

		ctrl.SelectFile(file)
		c.Redirect(http.StatusSeeOther, "/")
	})

	router.POST("/submit", func(c *gin.Context) {
		// The upload outlives this request and is never cancelled by the browser.
		ctx := context.WithoutCancel(c.Request.Context())
		if _, err := ctrl.Start(ctx); err != nil {
			logger.Debug("submit not started", zap.Error(err))
		}
		c.Redirect(http.StatusSeeOther, "/")
	})
}

// readPickedFile loads a multipart file part and fills in its MIME type
// from the content when the browser did not send a specific one.
func readPickedFile(header *multipart.FileHeader) (recognition.File, error) {
	src, err := header.Open()
	if err != nil {
		return recognition.File{}, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return recognition.File{}, err
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(data).String()
	}

	return recognition.File{
		Name:        header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
