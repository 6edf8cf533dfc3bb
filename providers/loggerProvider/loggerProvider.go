package loggerProvider

import (
	"lending/providers"
	"log"

	"go.uber.org/zap"
)

type LogProvider struct {
	env    string
	logger *zap.Logger
}

func NewLogProvider(env string) providers.ZapLoggerProvider {
	return &LogProvider{env: env}
}

func (l *LogProvider) InitLogger() {
	var err error
	if l.env == "prod" || l.env == "production" {
		l.logger, err = zap.NewProduction()
	} else {
		l.logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	zap.ReplaceGlobals(l.logger)
}

func (l *LogProvider) SyncLogger() {
	if l.logger != nil {
		_ = l.logger.Sync()
	}
}

// GetLogger never returns nil; before InitLogger it hands out a no-op logger.
func (l *LogProvider) GetLogger() *zap.Logger {
	if l.logger == nil {
		return zap.NewNop()
	}
	return l.logger
}
