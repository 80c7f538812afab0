// Package printing orchestrates document rendering: request validation,
// totals, payment slips, number generation, archiving and metrics.
package printing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/swissbill/backend/internal/domain/document"
	"github.com/swissbill/backend/internal/domain/shared"
	"github.com/swissbill/backend/internal/domain/shared/valueobject"
	infra "github.com/swissbill/backend/internal/infrastructure/printing"
	"github.com/swissbill/backend/internal/infrastructure/logger"
	"github.com/swissbill/backend/internal/infrastructure/qrbill"
	"github.com/swissbill/backend/internal/infrastructure/telemetry"
)

const serviceName = "DocumentService"

// ServiceDeps are the collaborators of DocumentService. Renderer,
// Calculator, Encoder and Numbers are required; the rest are optional.
type ServiceDeps struct {
	Renderer   infra.DocumentRenderer
	Calculator *document.TotalsCalculator
	Encoder    *qrbill.Encoder
	Numbers    *document.NumberGenerator
	Registry   document.NumberRegistry
	Archive    infra.Archive
	Metrics    *telemetry.DocumentMetrics
	Currency   valueobject.Currency
	Logger     *zap.Logger
}

// DocumentService handles document rendering operations
type DocumentService struct {
	renderer infra.DocumentRenderer
	calc     *document.TotalsCalculator
	encoder  *qrbill.Encoder
	numbers  *document.NumberGenerator
	registry document.NumberRegistry
	archive  infra.Archive
	metrics  *telemetry.DocumentMetrics
	currency valueobject.Currency
	logger   *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(deps ServiceDeps) *DocumentService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Calculator == nil {
		deps.Calculator = document.NewTotalsCalculator(document.DefaultStandardTaxRate)
	}
	if deps.Encoder == nil {
		deps.Encoder = qrbill.NewEncoder(qrbill.EncoderConfig{Currency: string(deps.Currency)}, deps.Logger)
	}
	if deps.Numbers == nil {
		deps.Numbers = document.NewNumberGenerator(document.RandomSequence{})
	}
	if deps.Currency == "" {
		deps.Currency = valueobject.DefaultCurrency
	}
	return &DocumentService{
		renderer: deps.Renderer,
		calc:     deps.Calculator,
		encoder:  deps.Encoder,
		numbers:  deps.Numbers,
		registry: deps.Registry,
		archive:  deps.Archive,
		metrics:  deps.Metrics,
		currency: deps.Currency,
		logger:   deps.Logger,
	}
}

// log prefers the request-scoped logger installed by the HTTP middleware
func (s *DocumentService) log(ctx context.Context) *logger.ContextLogger {
	if _, ok := ctx.Value(logger.LoggerKey).(*zap.Logger); ok {
		return logger.L(ctx)
	}
	return logger.WithLogger(ctx, s.logger)
}

// =============================================================================
// Rendering
// =============================================================================

// Render renders a document to PDF for account. A skipped payment slip or
// logo degrades the document but never fails it. Archive failures are
// logged and the PDF is still returned.
func (s *DocumentService) Render(ctx context.Context, account string, req RenderRequest) (out *RenderOutput, err error) {
	ctx, span := telemetry.StartSpan(ctx, serviceName, "Render",
		telemetry.SpanDocNumber.String(req.DocumentNumber),
		telemetry.SpanLineCount.Int(len(req.Items)))
	defer span.End()

	doc, err := s.toDocument(req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	docType := doc.Identity.Type.String()
	span.SetAttributes(telemetry.SpanDocType.String(docType))
	ctx = logger.WithDocument(ctx, docType, doc.Identity.Number)

	start := time.Now()
	result, err := s.renderer.Render(ctx, doc)
	if err != nil {
		telemetry.RecordError(span, err)
		s.metrics.RecordRenderFailed(ctx, docType, time.Since(start))
		var domainErr *shared.DomainError
		if !errors.As(err, &domainErr) {
			s.log(ctx).Error("document render failed", zap.Error(err))
		}
		return nil, err
	}

	s.metrics.RecordRendered(ctx, docType, result.RenderDuration)
	if !result.Slip.Rendered() {
		s.metrics.RecordSlipSkipped(ctx, string(result.Slip.Reason))
	}
	span.SetAttributes(
		telemetry.SpanSlipStatus.String(result.Slip.String()),
		telemetry.SpanPageCount.Int(result.PageCount),
	)

	out = &RenderOutput{
		PDFData:    result.PDFData,
		Filename:   Filename(doc.Identity.Number),
		PageCount:  result.PageCount,
		SlipStatus: result.Slip.String(),
		Language:   string(result.Language),
		Totals:     toTotalsResponse(result.Totals, s.currencyOr(doc.Currency)),
	}

	if s.archive != nil {
		stored, err := s.archive.Store(ctx, &infra.StoreRequest{
			Account: account,
			DocType: doc.Identity.Type,
			Number:  doc.Identity.Number,
			PDFData: result.PDFData,
		})
		if err != nil {
			s.log(ctx).Warn("failed to archive rendered PDF", zap.Error(err))
		} else if stored != nil {
			out.ArchiveURL = stored.URL
			out.ArchivePath = stored.Path
		}
	}

	s.log(ctx).Info("document rendered",
		zap.Int("pages", result.PageCount),
		zap.String("payment_slip", out.SlipStatus),
		zap.Duration("duration", result.RenderDuration))

	telemetry.SetOK(span)
	return out, nil
}

// Filename returns the attachment file name for a document number
func Filename(number string) string {
	name := infra.SafeName(number)
	if name == "" {
		name = "document"
	}
	return name + ".pdf"
}

// =============================================================================
// Totals
// =============================================================================

// CalculateTotals computes line and document totals
func (s *DocumentService) CalculateTotals(ctx context.Context, req TotalsRequest) (*TotalsResponse, error) {
	currency, err := parseCurrency(req.Currency)
	if err != nil {
		return nil, err
	}
	totals, err := s.calc.Calculate(toLineItems(req.Items))
	if err != nil {
		return nil, err
	}
	resp := toTotalsResponse(totals, s.currencyOr(currency))
	return &resp, nil
}

// =============================================================================
// Numbers
// =============================================================================

// GenerateNumber returns a new document number for account. With a
// registry configured the number is reserved, and duplicates are retried
// up to the generator's retry limit.
func (s *DocumentService) GenerateNumber(ctx context.Context, account string, req GenerateNumberRequest) (*NumberResponse, error) {
	t, err := document.ParseDocType(req.Type)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, serviceName, "GenerateNumber",
		telemetry.SpanDocType.String(t.String()))
	defer span.End()

	number, err := s.numbers.GenerateUnique(ctx, account, t, document.ReserveIn(s.registry, account))
	if err != nil {
		telemetry.RecordError(span, err)
		s.log(ctx).Warn("document number generation failed",
			zap.String("document_type", t.String()),
			zap.Error(err))
		return nil, err
	}

	s.metrics.RecordNumberGenerated(ctx, t.String())
	telemetry.SetOK(span)
	return &NumberResponse{Number: number, Type: t.String()}, nil
}

// =============================================================================
// QR payload
// =============================================================================

// QRPayload returns the QR-bill payload the document's slip would carry,
// or the reason the slip would be skipped.
func (s *DocumentService) QRPayload(ctx context.Context, req QRPayloadRequest) (*QRPayloadResponse, error) {
	t := document.TypeInvoice
	if req.Type != "" {
		parsed, err := document.ParseDocType(req.Type)
		if err != nil {
			return nil, err
		}
		t = parsed
	}
	currency, err := parseCurrency(req.Currency)
	if err != nil {
		return nil, err
	}
	totals, err := s.calc.Calculate(toLineItems(req.Items))
	if err != nil {
		return nil, err
	}

	slip := s.encoder.Encode(qrbill.SlipInput{
		Creditor: toParty(req.Issuer),
		Debtor:   toParty(req.Party),
		Amount:   totals.Total,
		Currency: string(currency),
		DocType:  t,
		Number:   req.DocumentNumber,
		Locale:   req.Locale,
	})

	resp := &QRPayloadResponse{
		Status: string(slip.Status),
		Amount: totals.Total.StringFixed(2),
	}
	if !slip.Rendered() {
		resp.Reason = string(slip.Reason)
		resp.Detail = slip.Detail
		s.log(ctx).Debug("payment slip would be skipped",
			zap.String("reason", resp.Reason),
			zap.String("detail", resp.Detail))
		return resp, nil
	}

	bill := slip.Bill
	resp.Payload = bill.Payload()
	resp.Fields = bill.Fields()
	resp.IBAN = qrbill.FormatIBAN(bill.IBAN)
	resp.Currency = bill.Currency
	resp.Language = string(bill.Language)
	resp.Message = bill.Message
	return resp, nil
}

// =============================================================================
// Reference data
// =============================================================================

// GetDocumentTypes returns the supported document types
func (s *DocumentService) GetDocumentTypes() []DocumentTypeResponse {
	types := []document.DocType{document.TypeInvoice, document.TypeQuote, document.TypeOrder}
	out := make([]DocumentTypeResponse, 0, len(types))
	for _, t := range types {
		statuses := t.Statuses()
		codes := make([]string, len(statuses))
		for i, st := range statuses {
			codes[i] = st.String()
		}
		out = append(out, DocumentTypeResponse{Code: t.String(), Prefix: t.Prefix(), Statuses: codes})
	}
	return out
}

// =============================================================================
// Mapping
// =============================================================================

func (s *DocumentService) toDocument(req RenderRequest) (*infra.Document, error) {
	t := document.TypeInvoice
	if req.Type != "" {
		parsed, err := document.ParseDocType(req.Type)
		if err != nil {
			return nil, err
		}
		t = parsed
	}

	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	if date == nil {
		return nil, shared.NewDomainError(document.CodeInvalidInput, "date is required")
	}
	dueDate, err := parseDate("due_date", req.DueDate)
	if err != nil {
		return nil, err
	}
	validUntil, err := parseDate("valid_until", req.ValidUntil)
	if err != nil {
		return nil, err
	}
	currency, err := parseCurrency(req.Currency)
	if err != nil {
		return nil, err
	}

	return &infra.Document{
		Identity: document.Identity{
			Type:       t,
			Number:     strings.TrimSpace(req.DocumentNumber),
			Date:       *date,
			DueDate:    dueDate,
			ValidUntil: validUntil,
			Status:     document.Status(strings.ToLower(strings.TrimSpace(req.Status))),
			Notes:      req.Notes,
		},
		Issuer:         toParty(req.Issuer),
		Client:         toParty(req.Party),
		Items:          toLineItems(req.Items),
		Currency:       currency,
		Locale:         req.Locale,
		PaymentTerms:   req.PaymentTerms,
		PaymentMethods: req.PaymentMethods,
		LateFeeNotice:  req.LateFeeNotice,
		Footer:         req.Footer,
		LogoURL:        strings.TrimSpace(req.LogoURL),
	}, nil
}

func (s *DocumentService) currencyOr(c valueobject.Currency) valueobject.Currency {
	if c == "" {
		return s.currency
	}
	return c
}

func parseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, shared.NewDomainError(document.CodeInvalidInput,
			fmt.Sprintf("%s must be a date in YYYY-MM-DD format, got %q", field, value))
	}
	return &t, nil
}

func parseCurrency(value string) (valueobject.Currency, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	c, err := valueobject.ParseCurrency(value)
	if err != nil {
		return "", shared.NewDomainError(document.CodeInvalidInput, err.Error())
	}
	return c, nil
}

func toParty(p PartyDTO) document.Party {
	return document.Party{
		Name:       p.Name,
		Address:    p.Address,
		PostalCode: p.PostalCode,
		City:       p.City,
		Country:    p.Country,
		IBAN:       p.IBAN,
		Email:      p.Email,
		Phone:      p.Phone,
		VATNumber:  p.VATNumber,
	}
}

func toLineItems(items []LineItemDTO) []document.LineItem {
	out := make([]document.LineItem, len(items))
	for i, item := range items {
		out[i] = document.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TaxRate:     item.TaxRate,
		}
	}
	return out
}

func toTotalsResponse(t *document.Totals, currency valueobject.Currency) TotalsResponse {
	resp := TotalsResponse{Currency: currency.String()}
	if t == nil {
		return resp
	}
	resp.Lines = make([]LineTotalsResponse, len(t.Lines))
	for i, l := range t.Lines {
		resp.Lines[i] = LineTotalsResponse{
			Subtotal: l.Subtotal.StringFixed(2),
			Tax:      l.Tax.StringFixed(2),
			Total:    l.Total.StringFixed(2),
			TaxRate:  l.TaxRate.String(),
		}
	}
	resp.Subtotal = t.Subtotal.StringFixed(2)
	resp.TaxAmount = t.TaxAmount.StringFixed(2)
	resp.Total = t.Total.StringFixed(2)
	resp.AverageTaxRate = t.AverageTaxRate.StringFixed(2)
	resp.EffectiveTaxRate = t.EffectiveTaxRate().StringFixed(2)
	resp.BlendedTax = t.BlendedTax().StringFixed(2)
	resp.MixedTaxRates = t.MixedTaxRates
	return resp
}
