package printing

import "strings"

// PaperSize represents the paper size of rendered documents
type PaperSize string

const (
	// PaperSizeA4 is the only size that carries a full-width payment slip
	PaperSizeA4 PaperSize = "A4" // 210mm x 297mm
)

// ParsePaperSize parses a paper size name, case-insensitively
func ParsePaperSize(s string) (PaperSize, bool) {
	p := PaperSize(strings.ToUpper(strings.TrimSpace(s)))
	return p, p.IsValid()
}

// IsValid checks if the PaperSize is a valid value
func (p PaperSize) IsValid() bool {
	return p == PaperSizeA4
}

// String returns the string representation of PaperSize
func (p PaperSize) String() string {
	return string(p)
}

// Dimensions returns the paper dimensions in millimeters (width, height)
func (p PaperSize) Dimensions() (width, height float64) {
	switch p {
	case PaperSizeA4:
		return 210, 297
	default:
		return 210, 297 // Default to A4
	}
}
