package telemetry

import (
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
)

var Sampler = sampler

// NewLoggerProviderFrom wraps an existing SDK provider
func NewLoggerProviderFrom(name string, p *sdklog.LoggerProvider) *LoggerProvider {
	return &LoggerProvider{provider: p, name: name, logger: zap.NewNop()}
}
