package printing_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/swissbill/backend/internal/application/printing"
	"github.com/swissbill/backend/internal/domain/document"
	"github.com/swissbill/backend/internal/domain/shared"
	infra "github.com/swissbill/backend/internal/infrastructure/printing"
	"github.com/swissbill/backend/internal/infrastructure/qrbill"
	"github.com/swissbill/backend/internal/infrastructure/telemetry"
)

// =============================================================================
// Mock Implementations
// =============================================================================

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, doc *infra.Document) (*infra.RenderResult, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infra.RenderResult), args.Error(1)
}

type MockArchive struct {
	mock.Mock
}

func (m *MockArchive) Store(ctx context.Context, req *infra.StoreRequest) (*infra.StoreResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infra.StoreResult), args.Error(1)
}

type MockRegistry struct {
	mock.Mock
}

func (m *MockRegistry) Reserve(ctx context.Context, account, number string) error {
	args := m.Called(ctx, account, number)
	return args.Error(0)
}

// =============================================================================
// Helper Functions
// =============================================================================

const validIBAN = "CH4431999123000889012"

type fixture struct {
	service  *printing.DocumentService
	renderer *MockRenderer
	archive  *MockArchive
	registry *MockRegistry
	reader   *metric.ManualReader
	logs     *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	metrics, err := telemetry.NewDocumentMetrics(telemetry.DocumentMetricsConfig{Meter: provider.Meter("test")})
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	var seq atomic.Int64
	numbers := document.NewNumberGenerator(
		document.SequenceFunc(func(context.Context, string) (int64, error) { return seq.Add(1), nil }),
		document.WithClock(func() time.Time { return time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC) }),
	)

	f := &fixture{
		renderer: new(MockRenderer),
		archive:  new(MockArchive),
		registry: new(MockRegistry),
		reader:   reader,
		logs:     logs,
	}
	f.service = printing.NewDocumentService(printing.ServiceDeps{
		Renderer:   f.renderer,
		Calculator: document.NewTotalsCalculator(document.DefaultStandardTaxRate),
		Encoder:    qrbill.NewEncoder(qrbill.EncoderConfig{}, logger),
		Numbers:    numbers,
		Registry:   f.registry,
		Archive:    f.archive,
		Metrics:    metrics,
		Logger:     logger,
	})
	return f
}

func (f *fixture) metric(t *testing.T, name string) (metricdata.Metrics, bool) {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, f.reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

func (f *fixture) counter(t *testing.T, name, key, value string) int64 {
	t.Helper()
	m, ok := f.metric(t, name)
	if !ok {
		return 0
	}
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == value {
			return dp.Value
		}
	}
	return 0
}

func issuer() printing.PartyDTO {
	return printing.PartyDTO{
		Name:       "Muster AG",
		Address:    "Bahnhofstrasse 1",
		PostalCode: "8001",
		City:       "Zürich",
		Country:    "CH",
		IBAN:       validIBAN,
	}
}

func item(qty, price string, rate *string) printing.LineItemDTO {
	li := printing.LineItemDTO{
		Description: "Consulting",
		Quantity:    decimal.RequireFromString(qty),
		UnitPrice:   decimal.RequireFromString(price),
	}
	if rate != nil {
		r := decimal.RequireFromString(*rate)
		li.TaxRate = &r
	}
	return li
}

func rate(s string) *string { return &s }

func renderRequest() printing.RenderRequest {
	return printing.RenderRequest{
		DocumentNumber: "INV-2501-003",
		Date:           "2025-01-15",
		DueDate:        "2025-02-14",
		Status:         "sent",
		Issuer:         issuer(),
		Party:          printing.PartyDTO{Name: "Client SA", Address: "Via Roma 2", PostalCode: "6900", City: "Lugano"},
		Items:          []printing.LineItemDTO{item("2", "50", nil)},
		Locale:         "it-CH",
	}
}

func renderResult(slip qrbill.SlipResult) *infra.RenderResult {
	calc := document.NewTotalsCalculator(document.DefaultStandardTaxRate)
	totals, _ := calc.Calculate([]document.LineItem{{
		Quantity:  decimal.NewFromInt(2),
		UnitPrice: decimal.NewFromInt(50),
	}})
	return &infra.RenderResult{
		PDFData:        []byte("%PDF-1.3 test"),
		PageCount:      1,
		Totals:         totals,
		Slip:           slip,
		Language:       qrbill.Italian,
		RenderDuration: 12 * time.Millisecond,
	}
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %v", err)
	assert.Equal(t, code, domainErr.Code)
}

// =============================================================================
// Render Tests
// =============================================================================

func TestRender_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rendered := qrbill.SlipResult{Status: qrbill.SlipRendered, Bill: &qrbill.Bill{IBAN: validIBAN}}
	f.renderer.On("Render", mock.Anything, mock.MatchedBy(func(doc *infra.Document) bool {
		return doc.Identity.Type == document.TypeInvoice &&
			doc.Identity.Number == "INV-2501-003" &&
			doc.Identity.Date.Equal(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)) &&
			doc.Identity.DueDate != nil &&
			doc.Identity.Status == document.StatusSent &&
			doc.Issuer.IBAN == validIBAN &&
			doc.Client.Name == "Client SA" &&
			len(doc.Items) == 1 &&
			doc.Locale == "it-CH"
	})).Return(renderResult(rendered), nil)
	f.archive.On("Store", mock.Anything, mock.MatchedBy(func(req *infra.StoreRequest) bool {
		return req.Account == "acme" && req.Number == "INV-2501-003" && req.DocType == document.TypeInvoice
	})).Return(&infra.StoreResult{Path: "acme/2025/01/INV-2501-003-abc.pdf", URL: "memory://documents/x"}, nil)

	out, err := f.service.Render(ctx, "acme", renderRequest())
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-1.3 test"), out.PDFData)
	assert.Equal(t, "INV-2501-003.pdf", out.Filename)
	assert.Equal(t, 1, out.PageCount)
	assert.Equal(t, "rendered", out.SlipStatus)
	assert.Equal(t, "it", out.Language)
	assert.Equal(t, "100.00", out.Totals.Subtotal)
	assert.Equal(t, "8.10", out.Totals.TaxAmount)
	assert.Equal(t, "108.10", out.Totals.Total)
	assert.Equal(t, "CHF", out.Totals.Currency)
	assert.Equal(t, "memory://documents/x", out.ArchiveURL)

	assert.Equal(t, int64(1), f.counter(t, "swb_documents_rendered_total", "type", "invoice"))
	assert.Zero(t, f.counter(t, "swb_payment_slips_skipped_total", "reason", "missing_creditor_data"))

	f.renderer.AssertExpectations(t)
	f.archive.AssertExpectations(t)
}

func TestRender_SkippedSlipIsCounted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	slip := qrbill.SlipResult{Status: qrbill.SlipSkipped, Reason: qrbill.ReasonMissingCreditorData}
	f.renderer.On("Render", mock.Anything, mock.Anything).Return(renderResult(slip), nil)
	f.archive.On("Store", mock.Anything, mock.Anything).Return(&infra.StoreResult{Path: "p"}, nil)

	out, err := f.service.Render(ctx, "", renderRequest())
	require.NoError(t, err)
	assert.Equal(t, "skipped:missing_creditor_data", out.SlipStatus)
	assert.Equal(t, int64(1), f.counter(t, "swb_payment_slips_skipped_total", "reason", "missing_creditor_data"))
}

func TestRender_ArchiveFailureStillReturnsPDF(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.renderer.On("Render", mock.Anything, mock.Anything).
		Return(renderResult(qrbill.SlipResult{Status: qrbill.SlipRendered, Bill: &qrbill.Bill{}}), nil)
	f.archive.On("Store", mock.Anything, mock.Anything).
		Return(nil, infra.NewRenderError(infra.ErrCodeStorageFailed, "failed to upload PDF", errors.New("boom")))

	out, err := f.service.Render(ctx, "acme", renderRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, out.PDFData)
	assert.Empty(t, out.ArchiveURL)

	warnings := f.logs.FilterMessage("failed to archive rendered PDF").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, zapcore.WarnLevel, warnings[0].Level)
	fields := warnings[0].ContextMap()
	assert.Equal(t, "INV-2501-003", fields["document_number"])
	assert.Equal(t, "invoice", fields["document_type"])
}

func TestRender_DefaultsAndCurrency(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := renderRequest()
	req.Type = "quote"
	req.Status = "Accepted"
	req.DueDate = ""
	req.ValidUntil = "2025-03-01"
	req.Currency = "eur"
	req.DocumentNumber = " QT-2501-001 "

	f.renderer.On("Render", mock.Anything, mock.MatchedBy(func(doc *infra.Document) bool {
		return doc.Identity.Type == document.TypeQuote &&
			doc.Identity.Number == "QT-2501-001" &&
			doc.Identity.Status == document.StatusAccepted &&
			doc.Identity.ValidUntil != nil &&
			doc.Identity.DueDate == nil &&
			doc.Currency == "EUR"
	})).Return(renderResult(qrbill.SlipResult{Status: qrbill.SlipRendered, Bill: &qrbill.Bill{}}), nil)
	f.archive.On("Store", mock.Anything, mock.Anything).Return(&infra.StoreResult{}, nil)

	out, err := f.service.Render(ctx, "acme", req)
	require.NoError(t, err)
	assert.Equal(t, "EUR", out.Totals.Currency)
	assert.Equal(t, "QT-2501-001.pdf", out.Filename)
	f.renderer.AssertExpectations(t)
}

func TestRender_InvalidRequest(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*printing.RenderRequest)
	}{
		{"bad date", func(r *printing.RenderRequest) { r.Date = "15.01.2025" }},
		{"bad due date", func(r *printing.RenderRequest) { r.DueDate = "tomorrow" }},
		{"missing date", func(r *printing.RenderRequest) { r.Date = "" }},
		{"unknown type", func(r *printing.RenderRequest) { r.Type = "receipt" }},
		{"unsupported currency", func(r *printing.RenderRequest) { r.Currency = "USD" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := renderRequest()
			tt.modify(&req)

			_, err := f.service.Render(context.Background(), "acme", req)
			assertDomainCode(t, err, document.CodeInvalidInput)
			f.renderer.AssertNotCalled(t, "Render", mock.Anything, mock.Anything)
			f.archive.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
		})
	}
}

func TestRender_RendererErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		loggedErr bool
	}{
		{"domain error passes through", document.ErrMissingIssuerData, false},
		{"render failure is logged", infra.NewRenderError(infra.ErrCodeRenderFailed, "failed to write PDF", errors.New("disk")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.renderer.On("Render", mock.Anything, mock.Anything).Return(nil, tt.err)

			_, err := f.service.Render(context.Background(), "acme", renderRequest())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			f.archive.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)

			logged := f.logs.FilterMessage("document render failed").Len()
			if tt.loggedErr {
				assert.Equal(t, 1, logged)
			} else {
				assert.Zero(t, logged)
			}

			m, ok := f.metric(t, "swb_render_duration_ms")
			require.True(t, ok)
			hist, ok := m.Data.(metricdata.Histogram[float64])
			require.True(t, ok)
			require.Len(t, hist.DataPoints, 1)
			outcome, _ := hist.DataPoints[0].Attributes.Value(attribute.Key("outcome"))
			assert.Equal(t, telemetry.OutcomeFailed, outcome.AsString())
		})
	}
}

func TestRender_WithoutArchive(t *testing.T) {
	renderer := new(MockRenderer)
	renderer.On("Render", mock.Anything, mock.Anything).
		Return(renderResult(qrbill.SlipResult{Status: qrbill.SlipRendered, Bill: &qrbill.Bill{}}), nil)

	service := printing.NewDocumentService(printing.ServiceDeps{Renderer: renderer})
	out, err := service.Render(context.Background(), "acme", renderRequest())
	require.NoError(t, err)
	assert.Empty(t, out.ArchivePath)
}

func TestRender_EndToEndWithRealRenderer(t *testing.T) {
	calc := document.NewTotalsCalculator(document.DefaultStandardTaxRate)
	encoder := qrbill.NewEncoder(qrbill.EncoderConfig{}, nil)
	renderer := infra.NewRenderer(infra.RendererConfig{}, infra.RendererDeps{Calculator: calc, Encoder: encoder})
	archive := new(MockArchive)
	archive.On("Store", mock.Anything, mock.Anything).Return(&infra.StoreResult{Path: "p"}, nil)

	service := printing.NewDocumentService(printing.ServiceDeps{
		Renderer:   renderer,
		Calculator: calc,
		Encoder:    encoder,
		Archive:    archive,
	})

	out, err := service.Render(context.Background(), "acme", renderRequest())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out.PDFData, []byte("%PDF")))
	assert.Equal(t, "rendered", out.SlipStatus)
	assert.GreaterOrEqual(t, out.PageCount, 1)
}

// =============================================================================
// Totals Tests
// =============================================================================

func TestCalculateTotals(t *testing.T) {
	f := newFixture(t)

	resp, err := f.service.CalculateTotals(context.Background(), printing.TotalsRequest{
		Items: []printing.LineItemDTO{
			item("3", "33.33", nil),
			item("1", "200", rate("2.6")),
			item("1", "10", rate("0")),
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Lines, 3)
	assert.Equal(t, "99.99", resp.Lines[0].Subtotal)
	assert.Equal(t, "8.10", resp.Lines[0].Tax)
	assert.Equal(t, "108.09", resp.Lines[0].Total)
	assert.Equal(t, "8.1", resp.Lines[0].TaxRate)
	assert.Equal(t, "5.20", resp.Lines[1].Tax)

	assert.Equal(t, "309.99", resp.Subtotal)
	assert.Equal(t, "13.30", resp.TaxAmount)
	assert.Equal(t, "323.29", resp.Total)
	assert.True(t, resp.MixedTaxRates)
	assert.Equal(t, "3.57", resp.AverageTaxRate)
	assert.Equal(t, "4.29", resp.EffectiveTaxRate)
	assert.Equal(t, "CHF", resp.Currency)
}

func TestCalculateTotals_Errors(t *testing.T) {
	f := newFixture(t)

	t.Run("negative quantity", func(t *testing.T) {
		_, err := f.service.CalculateTotals(context.Background(), printing.TotalsRequest{
			Items: []printing.LineItemDTO{item("-1", "10", nil)},
		})
		assertDomainCode(t, err, document.CodeInvalidLineItem)
		assert.Contains(t, err.Error(), "line 1")
	})

	t.Run("unsupported currency", func(t *testing.T) {
		_, err := f.service.CalculateTotals(context.Background(), printing.TotalsRequest{Currency: "GBP"})
		assertDomainCode(t, err, document.CodeInvalidInput)
	})

	t.Run("no items", func(t *testing.T) {
		resp, err := f.service.CalculateTotals(context.Background(), printing.TotalsRequest{})
		require.NoError(t, err)
		assert.Equal(t, "0.00", resp.Total)
		assert.False(t, resp.MixedTaxRates)
	})
}

// =============================================================================
// Number Tests
// =============================================================================

func TestGenerateNumber_ReservesNumber(t *testing.T) {
	f := newFixture(t)
	f.registry.On("Reserve", mock.Anything, "acme", "INV-2501-001").Return(nil)

	resp, err := f.service.GenerateNumber(context.Background(), "acme", printing.GenerateNumberRequest{Type: "invoice"})
	require.NoError(t, err)
	assert.Equal(t, "INV-2501-001", resp.Number)
	assert.Equal(t, "invoice", resp.Type)
	assert.Equal(t, int64(1), f.counter(t, "swb_document_numbers_generated_total", "type", "invoice"))
	f.registry.AssertExpectations(t)
}

func TestGenerateNumber_RetriesDuplicates(t *testing.T) {
	f := newFixture(t)
	f.registry.On("Reserve", mock.Anything, "acme", "QT-2501-001").Return(document.ErrDuplicateDocumentNumber).Once()
	f.registry.On("Reserve", mock.Anything, "acme", "QT-2501-002").Return(nil).Once()

	resp, err := f.service.GenerateNumber(context.Background(), "acme", printing.GenerateNumberRequest{Type: "quote"})
	require.NoError(t, err)
	assert.Equal(t, "QT-2501-002", resp.Number)
	f.registry.AssertExpectations(t)
}

func TestGenerateNumber_GivesUpAfterRetries(t *testing.T) {
	f := newFixture(t)
	f.registry.On("Reserve", mock.Anything, "acme", mock.AnythingOfType("string")).Return(document.ErrDuplicateDocumentNumber)

	_, err := f.service.GenerateNumber(context.Background(), "acme", printing.GenerateNumberRequest{Type: "order"})
	assertDomainCode(t, err, document.CodeDuplicateDocumentNumber)
	f.registry.AssertNumberOfCalls(t, "Reserve", document.DefaultNumberMaxRetries)
	assert.Zero(t, f.counter(t, "swb_document_numbers_generated_total", "type", "order"))
}

func TestGenerateNumber_InvalidType(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.GenerateNumber(context.Background(), "acme", printing.GenerateNumberRequest{Type: "receipt"})
	assertDomainCode(t, err, document.CodeInvalidInput)
	f.registry.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything)
}

// =============================================================================
// QR Payload Tests
// =============================================================================

func TestQRPayload_Valid(t *testing.T) {
	f := newFixture(t)

	resp, err := f.service.QRPayload(context.Background(), printing.QRPayloadRequest{
		DocumentNumber: "INV-2501-003",
		Issuer:         issuer(),
		Items:          []printing.LineItemDTO{item("1", "100", rate("0"))},
		Locale:         "de-CH",
	})
	require.NoError(t, err)

	assert.Equal(t, "rendered", resp.Status)
	assert.Equal(t, "100.00", resp.Amount)
	assert.Equal(t, "CHF", resp.Currency)
	assert.Equal(t, "de", resp.Language)
	assert.Equal(t, "CH44 3199 9123 0008 8901 2", resp.IBAN)
	assert.Len(t, resp.Fields, qrbill.PayloadFieldCount)
	assert.True(t, strings.HasPrefix(resp.Payload, "SPC\r\n0200\r\n1\r\n"+validIBAN+"\r\n"))
	assert.True(t, strings.HasSuffix(resp.Payload, "\r\nEPD"))
	assert.Contains(t, resp.Payload, "\r\n100.00\r\nCHF\r\n")
	assert.Equal(t, strings.Join(resp.Fields, "\r\n"), resp.Payload)
}

func TestQRPayload_Skipped(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*printing.QRPayloadRequest)
		reason qrbill.SkipReason
	}{
		{"missing iban", func(r *printing.QRPayloadRequest) { r.Issuer.IBAN = "" }, qrbill.ReasonMissingCreditorData},
		{"invalid iban", func(r *printing.QRPayloadRequest) { r.Issuer.IBAN = "DE89370400440532013000" }, qrbill.ReasonInvalidIBAN},
		{"zero amount", func(r *printing.QRPayloadRequest) { r.Items = nil }, qrbill.ReasonInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := printing.QRPayloadRequest{
				DocumentNumber: "INV-2501-003",
				Issuer:         issuer(),
				Items:          []printing.LineItemDTO{item("1", "100", nil)},
			}
			tt.modify(&req)

			resp, err := f.service.QRPayload(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, "skipped", resp.Status)
			assert.Equal(t, string(tt.reason), resp.Reason)
			assert.NotEmpty(t, resp.Detail)
			assert.Empty(t, resp.Payload)
		})
	}
}

func TestQRPayload_InvalidLineItem(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.QRPayload(context.Background(), printing.QRPayloadRequest{
		Issuer: issuer(),
		Items:  []printing.LineItemDTO{item("1", "-5", nil)},
	})
	assertDomainCode(t, err, document.CodeInvalidLineItem)
}

// =============================================================================
// Reference Data Tests
// =============================================================================

func TestGetDocumentTypes(t *testing.T) {
	f := newFixture(t)
	types := f.service.GetDocumentTypes()

	require.Len(t, types, 3)
	assert.Equal(t, "invoice", types[0].Code)
	assert.Equal(t, "INV", types[0].Prefix)
	assert.Contains(t, types[0].Statuses, "overdue")
	assert.Equal(t, "QT", types[1].Prefix)
	assert.Contains(t, types[1].Statuses, "accepted")
	assert.Equal(t, "ORD", types[2].Prefix)
	assert.Contains(t, types[2].Statuses, "shipped")
}

func TestFilename(t *testing.T) {
	tests := []struct {
		number string
		want   string
	}{
		{"INV-2501-003", "INV-2501-003.pdf"},
		{"INV/2025 \"03\"", "INV_2025__03.pdf"},
		{"   ", "document.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			assert.Equal(t, tt.want, printing.Filename(tt.number))
		})
	}
}
