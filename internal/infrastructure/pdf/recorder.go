package pdf

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// OpKind identifies a recorded drawing operation
type OpKind string

const (
	OpPage  OpKind = "page"
	OpText  OpKind = "text"
	OpLine  OpKind = "line"
	OpRect  OpKind = "rect"
	OpImage OpKind = "image"
)

// Op is one drawing operation captured by Recorder
type Op struct {
	Kind  OpKind
	Page  int
	X, Y  float64
	W, H  float64
	Text  string
	Style string
}

// Recorder is an in-memory Canvas that records operations instead of
// producing PDF bytes. Text width is approximated from rune count and font
// size so wrapping is deterministic.
type Recorder struct {
	width, height float64
	fontSize      float64
	pages         int
	Ops           []Op
	Meta          Metadata

	// ImageErr, when set, is returned by Image.
	ImageErr error
}

var _ Document = (*Recorder)(nil)

// NewRecorder creates a recorder with the given page size in mm
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{width: width, height: height, fontSize: 10}
}

// charWidth is the approximate advance of one character per point of font
// size, in mm.
const charWidth = 0.2

func (r *Recorder) StringWidth(text string) float64 {
	return float64(utf8.RuneCountInString(text)) * r.fontSize * charWidth
}

func (r *Recorder) PageSize() (float64, float64) { return r.width, r.height }

func (r *Recorder) AddPage() {
	r.pages++
	r.Ops = append(r.Ops, Op{Kind: OpPage, Page: r.pages})
}

func (r *Recorder) PageCount() int { return r.pages }

func (r *Recorder) SetFont(_, _ string, size float64) { r.fontSize = size }

func (r *Recorder) FontSize() float64 { return r.fontSize }

func (r *Recorder) SetTextColor(int, int, int) {}

func (r *Recorder) SetDrawColor(int, int, int) {}

func (r *Recorder) SetFillColor(int, int, int) {}

func (r *Recorder) SetLineWidth(float64) {}

func (r *Recorder) SetDash([]float64) {}

func (r *Recorder) Cell(x, y, w, h float64, text, align string) {
	r.Ops = append(r.Ops, Op{Kind: OpText, Page: r.pages, X: x, Y: y, W: w, H: h, Text: text, Style: align})
}

func (r *Recorder) Line(x1, y1, x2, y2 float64) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, Page: r.pages, X: x1, Y: y1, W: x2 - x1, H: y2 - y1})
}

func (r *Recorder) Rect(x, y, w, h float64, style string) {
	r.Ops = append(r.Ops, Op{Kind: OpRect, Page: r.pages, X: x, Y: y, W: w, H: h, Style: style})
}

func (r *Recorder) Image(name string, _ []byte, imageType string, x, y, w, h float64) error {
	if r.ImageErr != nil {
		return r.ImageErr
	}
	r.Ops = append(r.Ops, Op{Kind: OpImage, Page: r.pages, X: x, Y: y, W: w, H: h, Text: name, Style: imageType})
	return nil
}

func (r *Recorder) SetMetadata(meta Metadata) { r.Meta = meta }

// Output writes a plain-text dump of the recorded operations
func (r *Recorder) Output(w io.Writer) error {
	for _, op := range r.Ops {
		if _, err := fmt.Fprintf(w, "%d %s %.2f %.2f %q\n", op.Page, op.Kind, op.X, op.Y, op.Text); err != nil {
			return err
		}
	}
	return nil
}

// Texts returns the text operations, optionally restricted to one page
// (page <= 0 means all pages).
func (r *Recorder) Texts(page int) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == OpText && (page <= 0 || op.Page == page) {
			out = append(out, op)
		}
	}
	return out
}

// ContainsText reports whether any text operation contains sub
func (r *Recorder) ContainsText(sub string) bool {
	for _, op := range r.Texts(0) {
		if strings.Contains(op.Text, sub) {
			return true
		}
	}
	return false
}

// CountText returns how many text operations equal text exactly
func (r *Recorder) CountText(text string) int {
	n := 0
	for _, op := range r.Texts(0) {
		if op.Text == text {
			n++
		}
	}
	return n
}
