package printing

import (
	"github.com/swissbill/backend/internal/domain/document"
	"github.com/swissbill/backend/internal/infrastructure/pdf"
)

const (
	rowPadding   = 1.5
	headerHeight = 7.0
)

// tableColumns holds the x positions and widths of the item table
type tableColumns struct {
	x                                   float64
	descW, qtyW, priceW, rateW, amountW float64
}

func newTableColumns(x, width float64) tableColumns {
	cols := tableColumns{x: x, qtyW: 16, priceW: 26, rateW: 16, amountW: 28}
	cols.descW = width - cols.qtyW - cols.priceW - cols.rateW - cols.amountW
	return cols
}

func (t tableColumns) width() float64 {
	return t.descW + t.qtyW + t.priceW + t.rateW + t.amountW
}

// cells returns the x and width of the numeric columns in order
func (t tableColumns) numeric() [4][2]float64 {
	x := t.x + t.descW
	return [4][2]float64{
		{x, t.qtyW},
		{x + t.qtyW, t.priceW},
		{x + t.qtyW + t.priceW, t.rateW},
		{x + t.qtyW + t.priceW + t.rateW, t.amountW},
	}
}

type tableHeaderBlock struct {
	cols   tableColumns
	titles [5]string
}

func (b *tableHeaderBlock) Height(pdf.Canvas, float64) float64 {
	return headerHeight
}

func (b *tableHeaderBlock) Draw(c pdf.Canvas, y float64) error {
	c.SetFillColor(235, 235, 235)
	c.Rect(b.cols.x, y, b.cols.width(), headerHeight-1, pdf.FillOnly)
	c.SetFont(fontFamily, pdf.StyleBold, bodySize)
	c.Cell(b.cols.x+1, y, b.cols.descW-2, headerHeight-1, b.titles[0], pdf.AlignLeft)
	for i, cell := range b.cols.numeric() {
		c.Cell(cell[0], y, cell[1]-1, headerHeight-1, b.titles[i+1], pdf.AlignRight)
	}
	return nil
}

// tableRowBlock is one line item. Its description wraps inside the
// description column and the row is never split across pages.
type tableRowBlock struct {
	cols        tableColumns
	description string
	values      [4]string
	hdr         *tableHeaderBlock
}

func newTableRow(cols tableColumns, hdr *tableHeaderBlock, item document.LineItem, line document.LineTotals) *tableRowBlock {
	return &tableRowBlock{
		cols:        cols,
		description: item.Description,
		values: [4]string{
			FormatQuantity(item.Quantity),
			FormatAmount(item.UnitPrice),
			FormatRate(line.TaxRate),
			FormatAmount(line.Subtotal),
		},
		hdr: hdr,
	}
}

func (b *tableRowBlock) header() Block {
	return b.hdr
}

func (b *tableRowBlock) lines(c pdf.Canvas) []string {
	c.SetFont(fontFamily, pdf.StyleRegular, bodySize)
	return pdf.Wrap(c, b.description, b.cols.descW-2)
}

func (b *tableRowBlock) Height(c pdf.Canvas, _ float64) float64 {
	return float64(len(b.lines(c)))*bodyLineH + 2*rowPadding
}

func (b *tableRowBlock) Draw(c pdf.Canvas, y float64) error {
	lines := b.lines(c)
	top := y + rowPadding
	for i, line := range lines {
		c.Cell(b.cols.x+1, top+float64(i)*bodyLineH, b.cols.descW-2, bodyLineH, line, pdf.AlignLeft)
	}
	for i, cell := range b.cols.numeric() {
		c.Cell(cell[0], top, cell[1]-1, bodyLineH, b.values[i], pdf.AlignRight)
	}
	bottom := y + float64(len(lines))*bodyLineH + 2*rowPadding
	c.SetDrawColor(210, 210, 210)
	c.SetLineWidth(0.1)
	c.Line(b.cols.x, bottom, b.cols.x+b.cols.width(), bottom)
	c.SetDrawColor(0, 0, 0)
	return nil
}

// totalsBlock prints subtotal, VAT at the average rate and the total
type totalsBlock struct {
	cols tableColumns
	rows [][2]string
}

func (b *totalsBlock) Height(pdf.Canvas, float64) float64 {
	return float64(len(b.rows))*5.5 + 2 + blockGap
}

func (b *totalsBlock) Draw(c pdf.Canvas, y float64) error {
	labelX := b.cols.x + b.cols.descW
	labelW := b.cols.qtyW + b.cols.priceW + b.cols.rateW
	valueX := labelX + labelW
	y += 2
	for i, row := range b.rows {
		style := pdf.StyleRegular
		if i == len(b.rows)-1 {
			style = pdf.StyleBold
			c.SetLineWidth(0.3)
			c.Line(labelX, y, valueX+b.cols.amountW, y)
		}
		c.SetFont(fontFamily, style, 10)
		c.Cell(labelX, y+0.5, labelW-1, 5, row[0], pdf.AlignRight)
		c.Cell(valueX, y+0.5, b.cols.amountW-1, 5, row[1], pdf.AlignRight)
		y += 5.5
	}
	return nil
}
