package pdf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// GoFPDF is a Canvas backed by gofpdf. Text is converted to the cp1252
// encoding of the core fonts.
type GoFPDF struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

var _ Document = (*GoFPDF)(nil)

// NewGoFPDF creates a portrait document with the given page size in mm.
// Automatic page breaks are disabled; the layout owns pagination.
func NewGoFPDF(width, height float64) *GoFPDF {
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	return &GoFPDF{
		pdf: p,
		tr:  p.UnicodeTranslatorFromDescriptor(""),
	}
}

func (g *GoFPDF) PageSize() (float64, float64) {
	w, h := g.pdf.GetPageSize()
	return w, h
}

func (g *GoFPDF) AddPage() { g.pdf.AddPage() }

func (g *GoFPDF) PageCount() int { return g.pdf.PageCount() }

func (g *GoFPDF) SetFont(family, style string, size float64) {
	g.pdf.SetFont(family, style, size)
}

func (g *GoFPDF) FontSize() float64 {
	pt, _ := g.pdf.GetFontSize()
	return pt
}

func (g *GoFPDF) SetTextColor(r, gr, b int) { g.pdf.SetTextColor(r, gr, b) }

func (g *GoFPDF) SetDrawColor(r, gr, b int) { g.pdf.SetDrawColor(r, gr, b) }

func (g *GoFPDF) SetFillColor(r, gr, b int) { g.pdf.SetFillColor(r, gr, b) }

func (g *GoFPDF) SetLineWidth(w float64) { g.pdf.SetLineWidth(w) }

func (g *GoFPDF) SetDash(pattern []float64) {
	if pattern == nil {
		pattern = []float64{}
	}
	g.pdf.SetDashPattern(pattern, 0)
}

func (g *GoFPDF) StringWidth(text string) float64 {
	return g.pdf.GetStringWidth(g.tr(text))
}

func (g *GoFPDF) Cell(x, y, w, h float64, text, align string) {
	g.pdf.SetXY(x, y)
	g.pdf.CellFormat(w, h, g.tr(text), "", 0, align, false, 0, "")
}

func (g *GoFPDF) Line(x1, y1, x2, y2 float64) { g.pdf.Line(x1, y1, x2, y2) }

func (g *GoFPDF) Rect(x, y, w, h float64, style string) { g.pdf.Rect(x, y, w, h, style) }

func (g *GoFPDF) Image(name string, data []byte, imageType string, x, y, w, h float64) error {
	opts := gofpdf.ImageOptions{ImageType: imageType, ReadDpi: false}
	info := g.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if g.pdf.Err() {
		err := g.pdf.Error()
		g.pdf.ClearError()
		return fmt.Errorf("failed to register image %s: %w", name, err)
	}
	if info == nil {
		return fmt.Errorf("failed to register image %s", name)
	}
	g.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	return nil
}

func (g *GoFPDF) SetMetadata(meta Metadata) {
	g.pdf.SetTitle(meta.Title, true)
	g.pdf.SetAuthor(meta.Author, true)
	g.pdf.SetSubject(meta.Subject, true)
	g.pdf.SetCreator(meta.Creator, true)
	if !meta.CreatedAt.IsZero() {
		g.pdf.SetCreationDate(meta.CreatedAt)
	}
}

// Output writes the finished PDF to w
func (g *GoFPDF) Output(w io.Writer) error {
	if g.pdf.Err() {
		return fmt.Errorf("pdf generation failed: %w", g.pdf.Error())
	}
	if err := g.pdf.Output(w); err != nil {
		return fmt.Errorf("pdf output failed: %w", err)
	}
	return nil
}
