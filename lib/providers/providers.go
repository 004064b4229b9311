package providers

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/onkernel/hdimage/cmd/hdimage/config"
	"github.com/onkernel/hdimage/lib/build"
	"github.com/onkernel/hdimage/lib/hdimage"
	"github.com/onkernel/hdimage/lib/imageconfig"
	"github.com/onkernel/hdimage/lib/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// ProvideConfig provides the application configuration
func ProvideConfig() *config.Config {
	return config.Load()
}

// ProvideLogger provides a structured logger
func ProvideLogger(cfg *config.Config) *slog.Logger {
	return logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
}

// ProvideContext provides a base context carrying the logger
func ProvideContext(log *slog.Logger) context.Context {
	return logger.AddToContext(context.Background(), log)
}

// ProvideMeter provides the meter from the global provider
func ProvideMeter() metric.Meter {
	return otel.Meter("github.com/onkernel/hdimage")
}

// ProvideMetrics provides hdimage metrics
func ProvideMetrics(meter metric.Meter) (*hdimage.Metrics, error) {
	return hdimage.NewMetrics(meter)
}

// ProvideBuilder provides the image builder
func ProvideBuilder(cfg *config.Config, metrics *hdimage.Metrics) *build.Builder {
	return build.NewBuilder(cfg.InputPath, metrics)
}

// ProvideTargets loads the image description and selects the images to build
func ProvideTargets(cfg *config.Config) ([]build.Target, error) {
	f, err := imageconfig.Load(cfg.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("load image config: %w", err)
	}
	return build.Select(f.Targets(cfg.OutputPath), cfg.Images)
}
