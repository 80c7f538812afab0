// Package pdf provides the drawing surface used by document layout and the
// payment slip. Coordinates are millimetres from the top-left page corner;
// text positions refer to the top edge of the text cell.
package pdf

import (
	"io"
	"time"
)

// Text alignment values accepted by Canvas.Cell
const (
	AlignLeft   = "L"
	AlignCenter = "C"
	AlignRight  = "R"
)

// Rect styles
const (
	StrokeOnly = "D"
	FillOnly   = "F"
	FillStroke = "FD"
)

// Font styles
const (
	StyleRegular = ""
	StyleBold    = "B"
	StyleItalic  = "I"
)

// Metadata is written into the document information dictionary
type Metadata struct {
	Title     string
	Author    string
	Subject   string
	Creator   string
	CreatedAt time.Time
}

// Measurer measures text in the current font
type Measurer interface {
	StringWidth(text string) float64
}

// Canvas is the drawing surface the layout writes to.
type Canvas interface {
	Measurer

	PageSize() (w, h float64)
	AddPage()
	PageCount() int

	SetFont(family, style string, size float64)
	FontSize() float64
	SetTextColor(r, g, b int)
	SetDrawColor(r, g, b int)
	SetFillColor(r, g, b int)
	SetLineWidth(w float64)
	// SetDash sets a dash pattern; nil restores solid lines.
	SetDash(pattern []float64)

	Cell(x, y, w, h float64, text, align string)
	Line(x1, y1, x2, y2 float64)
	Rect(x, y, w, h float64, style string)
	// Image draws PNG/JPEG/GIF data registered under name.
	Image(name string, data []byte, imageType string, x, y, w, h float64) error

	SetMetadata(meta Metadata)
}

// Document is a Canvas that can be serialised
type Document interface {
	Canvas
	Output(w io.Writer) error
}
