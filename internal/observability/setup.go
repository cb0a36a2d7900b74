package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Settings selects which telemetry pipelines Setup starts.
type Settings struct {
	ServiceName string
	// OTLP enables trace, metric and log export. When false the global
	// providers stay no-op and only stdout logging is active.
	OTLP bool
}

// Setup starts the OTLP pipelines and returns a function that flushes and
// stops all of them. The logger must already be initialised.
func Setup(ctx context.Context, s Settings) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error

	shutdown := func(ctx context.Context) error {
		var err error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			err = multierr.Append(err, shutdowns[i](ctx))
		}
		return err
	}

	if !s.OTLP {
		Logger.Info("otlp export disabled")
		return shutdown, nil
	}

	res, err := NewResource(ctx, s.ServiceName)
	if err != nil {
		return nil, fmt.Errorf("building resource: %w", err)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	steps := []struct {
		name string
		init func(context.Context) (func(context.Context) error, error)
	}{
		{"tracing", func(ctx context.Context) (func(context.Context) error, error) { return InitTracing(ctx, res) }},
		{"metrics", func(ctx context.Context) (func(context.Context) error, error) { return InitMetrics(ctx, res) }},
		{"logging", func(ctx context.Context) (func(context.Context) error, error) {
			return InitLogging(ctx, res, s.ServiceName)
		}},
	}

	for _, step := range steps {
		fn, err := step.init(ctx)
		if err != nil {
			return nil, multierr.Append(fmt.Errorf("initialising %s: %w", step.name, err), shutdown(ctx))
		}
		shutdowns = append(shutdowns, fn)
	}

	Logger.Info("otlp export enabled", zap.String("service", s.ServiceName))
	return shutdown, nil
}
