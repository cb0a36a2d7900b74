package main

import (
	"context"

	"go-chi-keypad/internal/calculator"
	"go-chi-keypad/internal/config"
	"go-chi-keypad/internal/observability"
)

// initTelemetry starts the OTel pipelines and the application-specific
// metric instruments. Add new domain InitMetrics calls here as the project grows.
func initTelemetry(ctx context.Context, cfg config.Config) (func(context.Context) error, error) {
	shutdown, err := observability.Setup(ctx, observability.Settings{
		ServiceName: cfg.ServiceName,
		OTLP:        cfg.OTelEnabled,
	})
	if err != nil {
		return nil, err
	}

	if err := calculator.InitMetrics(); err != nil {
		return nil, err
	}

	return shutdown, nil
}
