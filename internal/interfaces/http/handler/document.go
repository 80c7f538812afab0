package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	printingapp "github.com/swissbill/backend/internal/application/printing"
	"github.com/swissbill/backend/internal/interfaces/http/middleware"
)

// Response headers of a rendered document
const (
	HeaderPaymentSlip = "X-Payment-Slip"
	HeaderPageCount   = "X-Page-Count"
	HeaderArchiveURL  = "X-Archive-URL"
)

// DocumentService is the application service behind DocumentHandler
type DocumentService interface {
	Render(ctx context.Context, account string, req printingapp.RenderRequest) (*printingapp.RenderOutput, error)
	CalculateTotals(ctx context.Context, req printingapp.TotalsRequest) (*printingapp.TotalsResponse, error)
	GenerateNumber(ctx context.Context, account string, req printingapp.GenerateNumberRequest) (*printingapp.NumberResponse, error)
	QRPayload(ctx context.Context, req printingapp.QRPayloadRequest) (*printingapp.QRPayloadResponse, error)
	GetDocumentTypes() []printingapp.DocumentTypeResponse
}

// DocumentHandler serves document rendering, totals, numbering and
// QR-bill payload endpoints
type DocumentHandler struct {
	BaseHandler
	service DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(service DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// Render renders an invoice, quote or order and streams the PDF.
//
// POST /api/v1/documents/render
//
// Totals are always recomputed from the items. The X-Payment-Slip header
// reports "rendered" or "skipped:<reason>".
func (h *DocumentHandler) Render(c *gin.Context) {
	var req printingapp.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	out, err := h.service.Render(c.Request.Context(), getAccountID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, out.Filename))
	c.Header("Content-Length", strconv.Itoa(len(out.PDFData)))
	c.Header("Cache-Control", "no-store")
	c.Header(HeaderPaymentSlip, out.SlipStatus)
	c.Header(HeaderPageCount, strconv.Itoa(out.PageCount))
	if out.ArchiveURL != "" {
		c.Header(HeaderArchiveURL, out.ArchiveURL)
	}
	c.Data(http.StatusOK, "application/pdf", out.PDFData)
}

// CalculateTotals returns the line and document totals of a set of items.
//
// POST /api/v1/documents/totals
func (h *DocumentHandler) CalculateTotals(c *gin.Context) {
	var req printingapp.TotalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.service.CalculateTotals(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GenerateNumber generates and reserves the next document number of the
// caller's account.
//
// POST /api/v1/documents/numbers
func (h *DocumentHandler) GenerateNumber(c *gin.Context) {
	var req printingapp.GenerateNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.service.GenerateNumber(c.Request.Context(), getAccountID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// QRPayload returns the QR-bill payload a rendered invoice would carry, or
// the reason its payment slip would be skipped.
//
// POST /api/v1/documents/qr-payload
func (h *DocumentHandler) QRPayload(c *gin.Context) {
	var req printingapp.QRPayloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.service.QRPayload(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetDocumentTypes lists document types with their number prefix and
// statuses.
//
// GET /api/v1/documents/types
func (h *DocumentHandler) GetDocumentTypes(c *gin.Context) {
	h.Success(c, h.service.GetDocumentTypes())
}
