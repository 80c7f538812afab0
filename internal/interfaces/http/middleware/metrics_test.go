package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func setupTestMeter(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = mp.Shutdown(context.Background())
	})
	return mp, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetricByName(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func attrValue(set attribute.Set, key string) string {
	v, ok := set.Value(attribute.Key(key))
	if !ok {
		return ""
	}
	return v.Emit()
}

func metricsRouter(t *testing.T) (*gin.Engine, *sdkmetric.ManualReader) {
	mp, reader := setupTestMeter(t)

	router := gin.New()
	router.Use(Account(DefaultAccountConfig()), HTTPMetrics(HTTPMetricsConfig{
		Meter:   mp.Meter("test"),
		Enabled: true,
	}))
	router.POST("/api/v1/documents/render", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/pdf", []byte("%PDF-1.3 fake"))
	})
	router.POST("/api/v1/documents/totals", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false})
	})
	return router, reader
}

func TestHTTPMetrics_RecordsRequests(t *testing.T) {
	router, reader := metricsRouter(t)

	for _, path := range []string{"/api/v1/documents/render", "/api/v1/documents/render", "/api/v1/documents/totals"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("{}"))
		req.Header.Set(AccountHeaderKey, "acme")
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	rm := collectMetrics(t, reader)

	total := findMetricByName(rm, "swb_http_requests_total")
	require.NotNil(t, total)
	sum, ok := total.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	counts := map[string]int64{}
	for _, dp := range sum.DataPoints {
		assert.Equal(t, "POST", attrValue(dp.Attributes, "http.method"))
		assert.Equal(t, "acme", attrValue(dp.Attributes, "account"))
		counts[attrValue(dp.Attributes, "http.route")+" "+attrValue(dp.Attributes, "http.status_class")] = dp.Value
	}
	assert.Equal(t, int64(2), counts["/api/v1/documents/render 2xx"])
	assert.Equal(t, int64(1), counts["/api/v1/documents/totals 4xx"])

	duration := findMetricByName(rm, "swb_http_request_duration_ms")
	require.NotNil(t, duration)
	hist, ok := duration.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var observed uint64
	for _, dp := range hist.DataPoints {
		observed += dp.Count
	}
	assert.Equal(t, uint64(3), observed)

	size := findMetricByName(rm, "swb_http_response_size_bytes")
	require.NotNil(t, size)

	active := findMetricByName(rm, "swb_http_active_requests")
	require.NotNil(t, active)
	activeSum, ok := active.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	for _, dp := range activeSum.DataPoints {
		assert.Zero(t, dp.Value)
	}
}

func TestHTTPMetrics_UnknownRoute(t *testing.T) {
	router, reader := metricsRouter(t)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/123", nil))

	rm := collectMetrics(t, reader)
	total := findMetricByName(rm, "swb_http_requests_total")
	require.NotNil(t, total)
	sum := total.Data.(metricdata.Sum[int64])
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, "unknown", attrValue(sum.DataPoints[0].Attributes, "http.route"))
	assert.Equal(t, "404", attrValue(sum.DataPoints[0].Attributes, "http.status_code"))
}

func TestHTTPMetrics_PassThrough(t *testing.T) {
	mp, reader := setupTestMeter(t)

	tests := []struct {
		name string
		cfg  HTTPMetricsConfig
	}{
		{"disabled", HTTPMetricsConfig{Meter: mp.Meter("test"), Enabled: false}},
		{"nil meter", HTTPMetricsConfig{Enabled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(HTTPMetrics(tt.cfg))
			router.GET("/test", func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}

	assert.Nil(t, findMetricByName(collectMetrics(t, reader), "swb_http_requests_total"))
}

func TestStatusClass(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusOK, "2xx"},
		{http.StatusCreated, "2xx"},
		{http.StatusFound, "3xx"},
		{http.StatusConflict, "4xx"},
		{http.StatusUnprocessableEntity, "4xx"},
		{http.StatusInternalServerError, "5xx"},
		{http.StatusGatewayTimeout, "5xx"},
		{100, "other"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusClass(tt.status))
		})
	}
}
