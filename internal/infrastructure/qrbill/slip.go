package qrbill

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/swissbill/backend/internal/domain/shared/valueobject"
	"github.com/swissbill/backend/internal/infrastructure/pdf"
)

// Slip geometry in mm
const (
	SlipHeight       = 105.0
	SlipWidth        = 210.0
	receiptWidth     = 62.0
	margin           = 5.0
	qrSize           = 46.0
	crossSize        = 7.0
	paymentInfoX     = receiptWidth + margin + qrSize + margin
	scissorsFontSize = 10.0
	fontFamily       = "Helvetica"
	scissorsFont     = "ZapfDingbats"
	scissorsGlyph    = "\x22"
)

// DrawSlip draws the receipt and payment part of the bill with its top edge
// at top. The slip spans the full page width.
func DrawSlip(c pdf.Canvas, b *Bill, top float64) error {
	png, err := b.QRCodePNG()
	if err != nil {
		return err
	}
	l := labelsFor(b.Language)

	drawSeparators(c, top, l)
	drawReceipt(c, b, l, top)
	return drawPaymentPart(c, b, l, top, png)
}

func drawSeparators(c pdf.Canvas, top float64, l slipLabels) {
	c.SetDrawColor(0, 0, 0)
	c.SetLineWidth(0.2)
	c.SetDash([]float64{1, 1})
	c.Line(0, top, SlipWidth, top)
	c.Line(receiptWidth, top, receiptWidth, top+SlipHeight)
	c.SetDash(nil)

	c.SetFont(fontFamily, pdf.StyleRegular, 7)
	c.Cell(0, top-3.5, SlipWidth, 3, l.SeparateBeforePay, pdf.AlignCenter)

	c.SetFont(scissorsFont, pdf.StyleRegular, scissorsFontSize)
	c.Cell(margin, top-2, 5, 4, scissorsGlyph, pdf.AlignLeft)
	c.Cell(receiptWidth-2.5, top+margin, 5, 4, scissorsGlyph, pdf.AlignCenter)
}

func drawReceipt(c pdf.Canvas, b *Bill, l slipLabels, top float64) {
	x := margin
	w := receiptWidth - 2*margin
	y := top + margin

	c.SetFont(fontFamily, pdf.StyleBold, 11)
	c.Cell(x, y, w, 5, l.Receipt, pdf.AlignLeft)
	y += 7

	y = section(c, x, y, w, 6, 8, 3.5, l.AccountPayableTo, append([]string{FormatIBAN(b.IBAN)}, b.Creditor.Lines()...))
	if b.Debtor != nil {
		section(c, x, y, w, 6, 8, 3.5, l.PayableBy, b.Debtor.Lines())
	} else {
		c.SetFont(fontFamily, pdf.StyleBold, 6)
		c.Cell(x, y, w, 3, l.PayableByBlank, pdf.AlignLeft)
		cornerBox(c, x, y+3.5, 52, 20)
	}

	amountTop := top + 68
	drawAmount(c, b, l, x, amountTop, 6, 8, 13)

	c.SetFont(fontFamily, pdf.StyleBold, 6)
	c.Cell(x, top+82, w, 3, l.AcceptancePoint, pdf.AlignRight)
}

func drawPaymentPart(c pdf.Canvas, b *Bill, l slipLabels, top float64, png []byte) error {
	x := receiptWidth + margin
	y := top + margin

	c.SetFont(fontFamily, pdf.StyleBold, 11)
	c.Cell(x, y, qrSize, 5, l.PaymentPart, pdf.AlignLeft)

	qrTop := top + 17
	if err := c.Image("qrbill-"+b.IBAN+"-"+b.Amount.StringFixed(2), png, "PNG", x, qrTop, qrSize, qrSize); err != nil {
		return err
	}
	drawSwissCross(c, x+(qrSize-crossSize)/2, qrTop+(qrSize-crossSize)/2)

	drawAmount(c, b, l, x, top+68, 8, 10, 14)

	infoX := paymentInfoX
	infoW := SlipWidth - infoX - margin
	y = top + margin
	y = section(c, infoX, y, infoW, 8, 10, 4.2, l.AccountPayableTo, append([]string{FormatIBAN(b.IBAN)}, b.Creditor.Lines()...))
	if b.Message != "" {
		y = section(c, infoX, y, infoW, 8, 10, 4.2, l.AdditionalInfo, wrapMessage(c, b.Message, infoW))
	}
	if b.Debtor != nil {
		section(c, infoX, y, infoW, 8, 10, 4.2, l.PayableBy, b.Debtor.Lines())
	} else {
		c.SetFont(fontFamily, pdf.StyleBold, 8)
		c.Cell(infoX, y, infoW, 4, l.PayableByBlank, pdf.AlignLeft)
		cornerBox(c, infoX, y+4.5, 65, 25)
	}
	return nil
}

// section draws a bold heading followed by value lines and returns the y
// below it including a paragraph gap.
func section(c pdf.Canvas, x, y, w, headSize, valueSize, lineH float64, heading string, lines []string) float64 {
	c.SetFont(fontFamily, pdf.StyleBold, headSize)
	c.Cell(x, y, w, lineH, heading, pdf.AlignLeft)
	y += lineH
	c.SetFont(fontFamily, pdf.StyleRegular, valueSize)
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		c.Cell(x, y, w, lineH, line, pdf.AlignLeft)
		y += lineH
	}
	return y + lineH/2
}

func drawAmount(c pdf.Canvas, b *Bill, l slipLabels, x, y, headSize, valueSize, amountOffset float64) {
	c.SetFont(fontFamily, pdf.StyleBold, headSize)
	c.Cell(x, y, 15, 4, l.Currency, pdf.AlignLeft)
	c.Cell(x+amountOffset, y, 25, 4, l.Amount, pdf.AlignLeft)
	c.SetFont(fontFamily, pdf.StyleRegular, valueSize)
	c.Cell(x, y+4.5, 15, 4, b.Currency, pdf.AlignLeft)
	c.Cell(x+amountOffset, y+4.5, 30, 4, FormatSlipAmount(b.Amount), pdf.AlignLeft)
}

func wrapMessage(c pdf.Canvas, msg string, w float64) []string {
	c.SetFont(fontFamily, pdf.StyleRegular, 10)
	return pdf.Wrap(c, msg, w)
}

// drawSwissCross overlays the Swiss cross at the centre of the QR code
func drawSwissCross(c pdf.Canvas, x, y float64) {
	c.SetFillColor(255, 255, 255)
	c.Rect(x, y, crossSize, crossSize, pdf.FillOnly)
	inner := crossSize - 1.0
	ix, iy := x+0.5, y+0.5
	c.SetFillColor(0, 0, 0)
	c.Rect(ix, iy, inner, inner, pdf.FillOnly)

	arm := inner * 0.6
	bar := inner * 0.19
	c.SetFillColor(255, 255, 255)
	c.Rect(ix+(inner-bar)/2, iy+(inner-arm)/2, bar, arm, pdf.FillOnly)
	c.Rect(ix+(inner-arm)/2, iy+(inner-bar)/2, arm, bar, pdf.FillOnly)
	c.SetFillColor(0, 0, 0)
}

// cornerBox draws the corner marks of a blank field
func cornerBox(c pdf.Canvas, x, y, w, h float64) {
	const mark = 3.0
	c.SetLineWidth(0.3)
	c.Line(x, y, x+mark, y)
	c.Line(x, y, x, y+mark)
	c.Line(x+w-mark, y, x+w, y)
	c.Line(x+w, y, x+w, y+mark)
	c.Line(x, y+h, x+mark, y+h)
	c.Line(x, y+h-mark, x, y+h)
	c.Line(x+w-mark, y+h, x+w, y+h)
	c.Line(x+w, y+h-mark, x+w, y+h)
	c.SetLineWidth(0.2)
}

// FormatSlipAmount formats an amount with a space as thousands separator,
// as the payment part requires.
func FormatSlipAmount(amount decimal.Decimal) string {
	return valueobject.FormatAmount(amount, true)
}
