package internal

import (
	"os"

	"go.uber.org/zap"
)

// NewLogger returns a new logger. Output is human-readable unless the
// service runs with ENVIRONMENT=production.
func NewLogger() (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error

	if os.Getenv("ENVIRONMENT") == "production" {
		logger, err = zap.NewProduction()
		if err != nil {
			return nil, err
		}
	} else {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
	}

	return logger.Sugar(), nil
}
