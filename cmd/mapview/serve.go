package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/mapview/internal/config"
	"github.com/Faultbox/mapview/internal/hostlink"
	"github.com/Faultbox/mapview/internal/logger"
	"github.com/Faultbox/mapview/internal/viewport"
)

// runServe exposes the controller to a host application over websocket.
func runServe(cfg *config.Config) error {
	r, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	hub := hostlink.NewHub(newExporter(cfg))
	ctrl := viewport.New(r, settings(cfg), hub)
	if err := applyScene(ctrl); err != nil {
		return err
	}
	hub.Attach(ctrl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hubDone := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(hubDone)
	}()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           hostlink.NewServer(hub).Mux(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("host bridge listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		stop()
		<-hubDone
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down host bridge")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	<-hubDone
	return err
}
