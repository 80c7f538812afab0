package printing

import (
	"context"

	"github.com/swissbill/backend/internal/infrastructure/pdf"
)

// Block is one element of the document layout. Height must not draw and
// must return the same value Draw will consume at the same position.
type Block interface {
	Height(c pdf.Canvas, y float64) float64
	Draw(c pdf.Canvas, y float64) error
}

// bottomAnchored blocks are drawn flush with the physical page bottom and
// may use the bottom margin.
type bottomAnchored interface {
	anchoredToBottom() bool
}

// pinned blocks sit at a fixed page position. They are drawn even when
// the cursor has already passed them; their height only advances the cursor.
type pinned interface {
	pinned() bool
}

// repeatsHeader blocks redraw a header when they start a new page
type repeatsHeader interface {
	header() Block
}

// Layout paginates blocks greedily. It never splits a block and never
// backtracks.
type Layout struct {
	Top           float64 // first usable y on every page
	ContentBottom float64 // last usable y for regular blocks
	PageBottom    float64 // physical page height, limit for anchored blocks
}

// Run draws blocks in order starting on the canvas's current page. Before
// each new page the context is checked so cancelled renders stop early.
func (l Layout) Run(ctx context.Context, c pdf.Canvas, blocks []Block) error {
	y := l.Top
	for _, b := range blocks {
		h := b.Height(c, y)
		if p, ok := b.(pinned); ok && p.pinned() {
			if err := b.Draw(c, y); err != nil {
				return err
			}
			if h > 0 {
				y += h
			}
			continue
		}
		if h <= 0 {
			continue
		}

		anchored := false
		if a, ok := b.(bottomAnchored); ok {
			anchored = a.anchoredToBottom()
		}
		limit := l.ContentBottom
		if anchored {
			limit = l.PageBottom
		}

		if y+h > limit && y > l.Top {
			if err := ctx.Err(); err != nil {
				return err
			}
			c.AddPage()
			y = l.Top
			if r, ok := b.(repeatsHeader); ok {
				if hdr := r.header(); hdr != nil {
					hh := hdr.Height(c, y)
					if err := hdr.Draw(c, y); err != nil {
						return err
					}
					y += hh
				}
			}
		}

		if anchored {
			if err := b.Draw(c, l.PageBottom-h); err != nil {
				return err
			}
			y = l.PageBottom
			continue
		}
		if err := b.Draw(c, y); err != nil {
			return err
		}
		y += h
	}
	return nil
}
