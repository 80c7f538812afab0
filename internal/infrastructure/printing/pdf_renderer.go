package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/swissbill/backend/internal/domain/document"
	domain "github.com/swissbill/backend/internal/domain/printing"
	"github.com/swissbill/backend/internal/domain/shared"
	"github.com/swissbill/backend/internal/domain/shared/valueobject"
	"github.com/swissbill/backend/internal/infrastructure/logger"
	"github.com/swissbill/backend/internal/infrastructure/pdf"
	"github.com/swissbill/backend/internal/infrastructure/qrbill"
)

// RendererConfig holds page geometry and document defaults
type RendererConfig struct {
	PaperSize domain.PaperSize
	Margins   domain.Margins
	Currency  valueobject.Currency
	Creator   string
}

// RendererDeps are the collaborators of Renderer. Only Calculator and
// Encoder are required.
type RendererDeps struct {
	Calculator *document.TotalsCalculator
	Encoder    *qrbill.Encoder
	Logos      LogoSource
	Labels     LocaleFormatter
	// NewCanvas creates the drawing surface; defaults to gofpdf
	NewCanvas func(width, height float64) pdf.Document
	Logger    *zap.Logger
}

// Renderer lays out documents and writes them as PDF. It holds no
// per-request state and is safe for concurrent use.
type Renderer struct {
	cfg       RendererConfig
	calc      *document.TotalsCalculator
	encoder   *qrbill.Encoder
	logos     LogoSource
	labels    LocaleFormatter
	newCanvas func(width, height float64) pdf.Document
	logger    *zap.Logger
}

var _ DocumentRenderer = (*Renderer)(nil)

// NewRenderer creates a renderer
func NewRenderer(cfg RendererConfig, deps RendererDeps) *Renderer {
	if !cfg.PaperSize.IsValid() {
		cfg.PaperSize = domain.PaperSizeA4
	}
	if cfg.Margins.IsZero() {
		cfg.Margins = domain.DefaultMargins()
	}
	if cfg.Currency == "" {
		cfg.Currency = valueobject.DefaultCurrency
	}
	if cfg.Creator == "" {
		cfg.Creator = "swissbill"
	}
	r := &Renderer{
		cfg:       cfg,
		calc:      deps.Calculator,
		encoder:   deps.Encoder,
		logos:     deps.Logos,
		labels:    deps.Labels,
		newCanvas: deps.NewCanvas,
		logger:    deps.Logger,
	}
	if r.calc == nil {
		r.calc = document.NewTotalsCalculator(document.DefaultStandardTaxRate)
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.encoder == nil {
		r.encoder = qrbill.NewEncoder(qrbill.EncoderConfig{}, r.logger)
	}
	if r.labels == nil {
		r.labels = StaticLabels{}
	}
	if r.newCanvas == nil {
		r.newCanvas = func(w, h float64) pdf.Document { return pdf.NewGoFPDF(w, h) }
	}
	return r
}

// Render validates the document, computes its totals and produces the PDF.
// Validation failures are domain errors; anything unexpected during layout
// or output is a RenderError with code RENDER_FAILED.
func (r *Renderer) Render(ctx context.Context, doc *Document) (result *RenderResult, err error) {
	start := time.Now()
	if doc == nil {
		return nil, shared.NewDomainError(document.CodeInvalidInput, "render request is empty")
	}
	if err := doc.Identity.Validate(); err != nil {
		return nil, err
	}
	if !doc.Issuer.HasName() {
		return nil, document.ErrMissingIssuerData
	}

	totals, err := r.calc.Calculate(doc.Items)
	if err != nil {
		return nil, err
	}

	currency := doc.Currency
	if currency == "" {
		currency = r.cfg.Currency
	}
	lang := r.encoder.Language(doc.Locale)
	log := logger.WithLogger(
		logger.WithDocument(ctx, doc.Identity.Type.String(), doc.Identity.Number), r.logger)

	logo := LogoOutcome{Status: LogoNone}
	if doc.LogoURL != "" && r.logos != nil {
		logo = r.logos.Fetch(ctx, doc.LogoURL)
		if logo.Status == LogoSkipped {
			log.Warn("logo skipped", zap.String("reason", logo.Reason))
		}
	}

	slip := r.encoder.Encode(qrbill.SlipInput{
		Creditor: doc.Issuer,
		Debtor:   doc.Client,
		Amount:   totals.Total,
		Currency: string(currency),
		DocType:  doc.Identity.Type,
		Number:   doc.Identity.Number,
		Locale:   doc.Locale,
	})
	if !slip.Rendered() {
		log.Warn("payment slip skipped",
			zap.String("reason", string(slip.Reason)),
			zap.String("detail", slip.Detail))
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("panic during document layout", zap.Any("panic", rec))
			result = nil
			err = NewRenderError(ErrCodeRenderFailed, "unexpected failure during layout", fmt.Errorf("%v", rec))
		}
	}()

	w, h := r.cfg.PaperSize.Dimensions()
	canvas := r.newCanvas(w, h)
	title := r.labels.Title(lang, doc.Identity.Type)
	canvas.SetMetadata(pdf.Metadata{
		Title:     strings.TrimSpace(title + " " + doc.Identity.Number),
		Author:    doc.Issuer.Name,
		Subject:   doc.Client.Name,
		Creator:   r.cfg.Creator,
		CreatedAt: doc.Identity.Date,
	})
	canvas.AddPage()

	blocks := r.compose(doc, composeInput{
		totals:   totals,
		lang:     lang,
		title:    title,
		currency: currency,
		slip:     slip,
		logo:     &logo,
	})

	layout := Layout{
		Top:           float64(r.cfg.Margins.Top),
		ContentBottom: r.cfg.Margins.ContentBottom(r.cfg.PaperSize),
		PageBottom:    h,
	}
	if err := layout.Run(ctx, canvas, blocks); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, NewRenderError(ErrCodeRenderFailed, "render cancelled", err)
		}
		return nil, NewRenderError(ErrCodeRenderFailed, "document layout failed", err)
	}

	var buf bytes.Buffer
	if err := canvas.Output(&buf); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to write PDF", err)
	}

	return &RenderResult{
		PDFData:        buf.Bytes(),
		PageCount:      canvas.PageCount(),
		Totals:         totals,
		Slip:           slip,
		Logo:           logo,
		Language:       lang,
		RenderDuration: time.Since(start),
	}, nil
}

type composeInput struct {
	totals   *document.Totals
	lang     qrbill.Language
	title    string
	currency valueobject.Currency
	slip     qrbill.SlipResult
	logo     *LogoOutcome
}

// compose builds the fixed block sequence. Blocks without content are
// omitted.
func (r *Renderer) compose(doc *Document, in composeInput) []Block {
	pageW, _ := r.cfg.PaperSize.Dimensions()
	left := float64(r.cfg.Margins.Left)
	width := r.cfg.Margins.ContentWidth(r.cfg.PaperSize)
	label := func(k LabelKey) string { return r.labels.Label(in.lang, k) }

	var blocks []Block

	if in.logo.Status == LogoLoaded {
		blocks = append(blocks, &logoBlock{
			x: left, maxW: 60, maxH: 18, logo: in.logo.Logo,
			onError: func(err error) {
				*in.logo = LogoOutcome{Status: LogoSkipped, Reason: "logo could not be embedded: " + err.Error()}
				r.logger.Warn("logo skipped", zap.Error(err))
			},
		})
	}

	blocks = append(blocks, &linesBlock{
		x: left, width: windowX - left - 5, lineH: 4.2, align: pdf.AlignLeft, wrap: true,
		lines: issuerLines(doc.Issuer, label(LabelVATNumber)),
	})

	if lines := doc.Client.AddressLines(); len(lines) > 0 {
		blocks = append(blocks, &windowBlock{width: pageW - windowX - float64(r.cfg.Margins.Right), lines: lines})
	}

	blocks = append(blocks, &linesBlock{
		x: left, width: width, lineH: 8, align: pdf.AlignLeft,
		lines: []textLine{{text: in.title, style: pdf.StyleBold, size: 16}},
	})

	id := doc.Identity
	rows := [][2]string{
		{label(LabelNumber), id.Number},
		{label(LabelDate), r.labels.FormatDate(in.lang, id.Date)},
	}
	if deadline := id.Deadline(); deadline != nil {
		key := LabelDueDate
		if id.Type == document.TypeQuote {
			key = LabelValidUntil
		}
		rows = append(rows, [2]string{label(key), r.labels.FormatDate(in.lang, *deadline)})
	}
	if id.Status != "" {
		rows = append(rows, [2]string{label(LabelStatus), r.labels.Status(in.lang, id.Status)})
	}
	blocks = append(blocks, &pairsBlock{x: left, labelW: 35, valueW: width - 35, rows: rows})

	cols := newTableColumns(left, width)
	header := &tableHeaderBlock{cols: cols, titles: [5]string{
		label(LabelDescription), label(LabelQuantity), label(LabelUnitPrice), label(LabelVATRate), label(LabelAmount),
	}}
	blocks = append(blocks, header)
	for i, item := range doc.Items {
		blocks = append(blocks, newTableRow(cols, header, item, in.totals.Lines[i]))
	}

	vatLabel := label(LabelVAT)
	if in.totals.MixedTaxRates {
		vatLabel = label(LabelVATAverage)
	}
	blocks = append(blocks, &totalsBlock{cols: cols, rows: [][2]string{
		{label(LabelSubtotal), FormatMoney(in.totals.Subtotal, in.currency)},
		{vatLabel + " " + FormatRate(in.totals.AverageTaxRate), FormatMoney(in.totals.TaxAmount, in.currency)},
		{label(LabelTotal), FormatMoney(in.totals.Total, in.currency)},
	}})

	for _, p := range []struct {
		key  LabelKey
		body string
	}{
		{LabelNotes, id.Notes},
		{LabelPaymentTerms, doc.PaymentTerms},
		{LabelPaymentMethods, doc.PaymentMethods},
		{LabelLateFee, doc.LateFeeNotice},
	} {
		blocks = append(blocks, &paragraphBlock{
			x: left, width: width, heading: label(p.key), body: p.body, size: bodySize, align: pdf.AlignLeft,
		})
	}
	blocks = append(blocks, &paragraphBlock{
		x: left, width: width, body: doc.Footer, size: 7.5, align: pdf.AlignCenter, grey: true,
	})

	if in.slip.Rendered() {
		blocks = append(blocks, &slipBlock{bill: in.slip.Bill})
	}
	return blocks
}

func issuerLines(p document.Party, vatLabel string) []textLine {
	lines := []textLine{{text: strings.TrimSpace(p.Name), style: pdf.StyleBold, size: 11}}
	for _, l := range p.AddressLines()[1:] {
		lines = append(lines, textLine{text: l, size: bodySize})
	}
	for _, contact := range []string{p.Email, p.Phone} {
		if s := strings.TrimSpace(contact); s != "" {
			lines = append(lines, textLine{text: s, size: 8})
		}
	}
	if s := strings.TrimSpace(p.VATNumber); s != "" {
		lines = append(lines, textLine{text: vatLabel + " " + s, size: 8})
	}
	return lines
}
