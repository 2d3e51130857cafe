package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/AbrarZaved/EduTutor/internal/app"
	"github.com/AbrarZaved/EduTutor/internal/config"
	"github.com/AbrarZaved/EduTutor/internal/utils/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck

	application, err := app.New(context.Background(), cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := application.Run(); err != nil {
		zapLogger.Fatal("application terminated", zap.Error(err))
	}
}
