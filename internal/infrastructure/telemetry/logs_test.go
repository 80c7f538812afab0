package telemetry_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/swissbill/backend/internal/infrastructure/telemetry"
)

type recordingExporter struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (e *recordingExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.records = append(e.records, r.Clone())
	}
	return nil
}

func (e *recordingExporter) Shutdown(context.Context) error   { return nil }
func (e *recordingExporter) ForceFlush(context.Context) error { return nil }

func TestNewLoggerProvider_Disabled(t *testing.T) {
	lp, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{ServiceName: "swissbill"}, nil)
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())

	base := zap.NewNop()
	assert.Same(t, base, lp.Bridge(base))
	assert.NoError(t, lp.Shutdown(context.Background()))
}

func TestLoggerProvider_Bridge(t *testing.T) {
	exporter := &recordingExporter{}
	provider := sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exporter)))
	lp := telemetry.NewLoggerProviderFrom("swissbill", provider)
	t.Cleanup(func() { _ = lp.Shutdown(context.Background()) })

	core, local := observer.New(zapcore.InfoLevel)
	bridged := lp.Bridge(zap.New(core))

	bridged.Debug("below level")
	bridged.Warn("payment slip skipped", zap.String("reason", "invalid_iban"))

	assert.Equal(t, 1, local.Len(), "local output keeps working")

	exporter.mu.Lock()
	defer exporter.mu.Unlock()
	require.Len(t, exporter.records, 1)
	rec := exporter.records[0]
	assert.Equal(t, "payment slip skipped", rec.Body().AsString())
	assert.Equal(t, log.SeverityWarn, rec.Severity())

	var reason string
	rec.WalkAttributes(func(kv log.KeyValue) bool {
		if kv.Key == "reason" {
			reason = kv.Value.AsString()
		}
		return true
	})
	assert.Equal(t, "invalid_iban", reason)
}
