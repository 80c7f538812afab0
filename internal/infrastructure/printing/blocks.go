package printing

import (
	"strings"

	"github.com/swissbill/backend/internal/infrastructure/pdf"
	"github.com/swissbill/backend/internal/infrastructure/qrbill"
)

const (
	fontFamily = "Helvetica"
	bodySize   = 9.0
	bodyLineH  = 4.2
	blockGap   = 4.0
)

// Envelope window for C5/DL windowed envelopes (right window)
const (
	windowX      = 120.0
	windowY      = 50.0
	windowHeight = 40.0
)

type textLine struct {
	text  string
	style string
	size  float64
}

// linesBlock draws pre-built lines of text. With wrap set, each line is
// broken to the block width in its own font.
type linesBlock struct {
	x, width float64
	lineH    float64
	align    string
	wrap     bool
	lines    []textLine
}

func (b *linesBlock) layout(c pdf.Canvas) []textLine {
	if !b.wrap {
		return b.lines
	}
	out := make([]textLine, 0, len(b.lines))
	for _, l := range b.lines {
		c.SetFont(fontFamily, l.style, l.size)
		for _, part := range pdf.Wrap(c, l.text, b.width) {
			out = append(out, textLine{text: part, style: l.style, size: l.size})
		}
	}
	return out
}

func (b *linesBlock) Height(c pdf.Canvas, _ float64) float64 {
	if len(b.lines) == 0 {
		return 0
	}
	return float64(len(b.layout(c)))*b.lineH + blockGap
}

func (b *linesBlock) Draw(c pdf.Canvas, y float64) error {
	for _, l := range b.layout(c) {
		c.SetFont(fontFamily, l.style, l.size)
		c.Cell(b.x, y, b.width, b.lineH, l.text, b.align)
		y += b.lineH
	}
	return nil
}

// logoBlock draws the issuer logo scaled into a fixed box
type logoBlock struct {
	x          float64
	maxW, maxH float64
	logo       *Logo
	onError    func(error)
}

func (b *logoBlock) size() (float64, float64) {
	w := b.maxH * float64(b.logo.Width) / float64(b.logo.Height)
	h := b.maxH
	if w > b.maxW {
		w = b.maxW
		h = b.maxW * float64(b.logo.Height) / float64(b.logo.Width)
	}
	return w, h
}

func (b *logoBlock) Height(pdf.Canvas, float64) float64 {
	_, h := b.size()
	return h + blockGap
}

func (b *logoBlock) Draw(c pdf.Canvas, y float64) error {
	w, h := b.size()
	if err := c.Image("logo", b.logo.Data, b.logo.ImageType, b.x, y, w, h); err != nil && b.onError != nil {
		b.onError(err)
	}
	return nil
}

// windowBlock places the recipient address in the envelope window. Its
// height moves the cursor below the window; once the cursor is past the
// window it is zero and the address is still drawn.
type windowBlock struct {
	width float64
	lines []string
}

func (b *windowBlock) pinned() bool { return len(b.lines) > 0 }

func (b *windowBlock) Height(_ pdf.Canvas, y float64) float64 {
	return max(0, windowY+windowHeight-y)
}

func (b *windowBlock) Draw(c pdf.Canvas, _ float64) error {
	y := windowY
	for i, line := range b.lines {
		style := pdf.StyleRegular
		if i == 0 {
			style = pdf.StyleBold
		}
		c.SetFont(fontFamily, style, 10)
		c.Cell(windowX, y, b.width, 4.8, line, pdf.AlignLeft)
		y += 4.8
	}
	return nil
}

// pairsBlock draws label/value rows such as number and dates
type pairsBlock struct {
	x, labelW, valueW float64
	rows              [][2]string
}

func (b *pairsBlock) Height(pdf.Canvas, float64) float64 {
	return float64(len(b.rows))*bodyLineH + blockGap
}

func (b *pairsBlock) Draw(c pdf.Canvas, y float64) error {
	for _, row := range b.rows {
		c.SetFont(fontFamily, pdf.StyleBold, bodySize)
		c.Cell(b.x, y, b.labelW, bodyLineH, row[0], pdf.AlignLeft)
		c.SetFont(fontFamily, pdf.StyleRegular, bodySize)
		c.Cell(b.x+b.labelW, y, b.valueW, bodyLineH, row[1], pdf.AlignLeft)
		y += bodyLineH
	}
	return nil
}

// paragraphBlock draws an optional heading followed by wrapped text
type paragraphBlock struct {
	x, width float64
	heading  string
	body     string
	size     float64
	align    string
	grey     bool
}

func (b *paragraphBlock) lines(c pdf.Canvas) []string {
	c.SetFont(fontFamily, pdf.StyleRegular, b.size)
	return pdf.Wrap(c, strings.TrimSpace(b.body), b.width)
}

func (b *paragraphBlock) lineH() float64 {
	return b.size * 0.47
}

func (b *paragraphBlock) Height(c pdf.Canvas, _ float64) float64 {
	if strings.TrimSpace(b.body) == "" {
		return 0
	}
	h := float64(len(b.lines(c))) * b.lineH()
	if b.heading != "" {
		h += b.lineH()
	}
	return h + blockGap
}

func (b *paragraphBlock) Draw(c pdf.Canvas, y float64) error {
	if b.grey {
		c.SetTextColor(110, 110, 110)
		defer c.SetTextColor(0, 0, 0)
	}
	if b.heading != "" {
		c.SetFont(fontFamily, pdf.StyleBold, b.size)
		c.Cell(b.x, y, b.width, b.lineH(), b.heading, b.align)
		y += b.lineH()
	}
	lines := b.lines(c)
	for _, line := range lines {
		c.Cell(b.x, y, b.width, b.lineH(), line, b.align)
		y += b.lineH()
	}
	return nil
}

// slipBlock draws the QR-bill payment slip at the bottom of a page
type slipBlock struct {
	bill *qrbill.Bill
}

// slipClearance leaves room for the cut instruction above the slip
const slipClearance = 5.0

func (b *slipBlock) anchoredToBottom() bool { return true }

func (b *slipBlock) Height(pdf.Canvas, float64) float64 {
	return qrbill.SlipHeight + slipClearance
}

func (b *slipBlock) Draw(c pdf.Canvas, y float64) error {
	return qrbill.DrawSlip(c, b.bill, y+slipClearance)
}
