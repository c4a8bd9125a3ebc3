package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/example/lookalike/internal/config"
	"github.com/example/lookalike/internal/handlers"
	"github.com/example/lookalike/internal/httpclient"
	"github.com/example/lookalike/internal/logging"
	"github.com/example/lookalike/internal/uploader"
)

func main() {
	logger, err := logging.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	client := httpclient.NewUploadClient(cfg.Endpoint, logger)
	notices := handlers.NewNotices()
	ctrl := uploader.NewController(client, notices, logger, uploader.WithMetrics(uploader.NewMetrics(registry)))

	r := gin.Default()
	r.MaxMultipartMemory = handlers.MaxUploadMemory
	handlers.RegisterRoutes(r, ctrl, notices, registry, logger)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	logger.Info("look-alike client listening",
		zap.String("addr", cfg.ListenAddr),
		zap.String("recognizer_endpoint", cfg.Endpoint),
	)
	if err := serveUntilSignal(server, cfg.ShutdownTimeout, logger, nil, nil); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

// serveUntilSignal runs the UI server until it fails or a shutdown signal arrives.
// A nil listener means ListenAndServe on server.Addr; a nil signalCh means SIGINT/SIGTERM.
// An upload already in flight is not waited for: it ends with the process.
func serveUntilSignal(server *http.Server, shutdownTimeout time.Duration, logger *zap.Logger, listener net.Listener, signalCh <-chan os.Signal) error {
	serveErr := make(chan error, 1)
	go func() {
		var err error
		if listener != nil {
			err = server.Serve(listener)
		} else {
			err = server.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serveErr <- err
	}()

	if signalCh == nil {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(ch)
		signalCh = ch
	}

	select {
	case err := <-serveErr:
		return err
	case sig, ok := <-signalCh:
		if !ok {
			return <-serveErr
		}
		logger.Info("shutting down UI server", zap.String("signal", sig.String()), zap.Duration("timeout", shutdownTimeout))
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return <-serveErr
	}
}
