package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/youruser/templatecomposer/internal/api"
	"github.com/youruser/templatecomposer/internal/config"
	imagepkg "github.com/youruser/templatecomposer/internal/image"
	"github.com/youruser/templatecomposer/internal/storage"
	"github.com/youruser/templatecomposer/internal/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %v", err)
	}
	log := logrus.New()
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("storage")
	}
	if _, err := os.Stat(cfg.FontPath); err != nil {
		log.WithField("path", cfg.FontPath).Warn("font file not found, built-in font will be used")
	}

	composer := imagepkg.NewComposer(imagepkg.NewFontProvider(log), log)
	h := api.NewHandler(cfg, composer, store, util.NewHTTPFetcher(cfg.FetchTimeout), log)

	r := gin.Default()
	api.RegisterRoutes(r, h)

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: r}
	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithField("event", "start server").Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}
