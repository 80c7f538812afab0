package printing

import "github.com/swissbill/backend/internal/domain/shared"

// Margins represents the page margins in millimeters
type Margins struct {
	Top    int `json:"top"`    // Top margin in mm
	Right  int `json:"right"`  // Right margin in mm
	Bottom int `json:"bottom"` // Bottom margin in mm
	Left   int `json:"left"`   // Left margin in mm
}

// NewMargins creates a new Margins value object
func NewMargins(top, right, bottom, left int) (Margins, error) {
	if top < 0 || right < 0 || bottom < 0 || left < 0 {
		return Margins{}, shared.NewDomainError("INVALID_MARGINS", "Margins cannot be negative")
	}
	if top > 60 || right > 60 || bottom > 60 || left > 60 {
		return Margins{}, shared.NewDomainError("INVALID_MARGINS", "Margins cannot exceed 60mm")
	}
	return Margins{
		Top:    top,
		Right:  right,
		Bottom: bottom,
		Left:   left,
	}, nil
}

// DefaultMargins returns the default page margins for A4 paper. The left
// margin lines the debtor block up with the envelope window.
func DefaultMargins() Margins {
	return Margins{
		Top:    15,
		Right:  15,
		Bottom: 20,
		Left:   20,
	}
}

// IsZero returns true if all margins are zero
func (m Margins) IsZero() bool {
	return m.Top == 0 && m.Right == 0 && m.Bottom == 0 && m.Left == 0
}

// ContentWidth returns the printable width for the given paper size
func (m Margins) ContentWidth(p PaperSize) float64 {
	w, _ := p.Dimensions()
	return w - float64(m.Left+m.Right)
}

// ContentBottom returns the lowest printable y position
func (m Margins) ContentBottom(p PaperSize) float64 {
	_, h := p.Dimensions()
	return h - float64(m.Bottom)
}
