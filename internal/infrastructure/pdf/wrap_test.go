package pdf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	r := NewRecorder(210, 297)
	r.SetFont("Helvetica", "", 10) // 2 mm per rune

	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{"fits", "short text", 40, []string{"short text"}},
		{"wraps on words", "alpha beta gamma", 22, []string{"alpha beta", "gamma"}},
		{"keeps explicit breaks", "one\ntwo", 40, []string{"one", "two"}},
		{"splits long word", "abcdefghij", 10, []string{"abcde", "fghij"}},
		{"empty", "", 40, []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Wrap(r, tt.text, tt.width))
		})
	}
}

func TestWrap_NoLineExceedsWidth(t *testing.T) {
	r := NewRecorder(210, 297)
	r.SetFont("Helvetica", "", 9)
	text := strings.Repeat("Lorem ipsum dolor sit amet consectetur ", 20)
	for _, line := range Wrap(r, text, 50) {
		assert.LessOrEqual(t, r.StringWidth(line), 50.0)
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(210, 297)
	r.AddPage()
	r.Cell(10, 20, 50, 5, "Hello", AlignLeft)
	r.AddPage()
	r.Cell(10, 20, 50, 5, "World", AlignRight)
	r.Rect(0, 0, 5, 5, FillOnly)

	assert.Equal(t, 2, r.PageCount())
	assert.Len(t, r.Texts(1), 1)
	assert.Equal(t, "World", r.Texts(2)[0].Text)
	assert.True(t, r.ContainsText("Hell"))
	assert.Equal(t, 1, r.CountText("World"))

	var buf bytes.Buffer
	require.NoError(t, r.Output(&buf))
	assert.Contains(t, buf.String(), `"Hello"`)
}

func TestGoFPDF_Output(t *testing.T) {
	doc := NewGoFPDF(210, 297)
	doc.SetMetadata(Metadata{Title: "Rechnung", Author: "Muster AG", Creator: "test"})
	doc.AddPage()
	doc.SetFont("Helvetica", StyleBold, 12)
	doc.Cell(20, 20, 100, 6, "Grüezi Zürich", AlignLeft)
	doc.SetDash([]float64{1, 1})
	doc.Line(0, 100, 210, 100)
	doc.SetDash(nil)
	doc.Rect(10, 10, 20, 20, StrokeOnly)

	w, h := doc.PageSize()
	assert.InDelta(t, 210, w, 0.01)
	assert.InDelta(t, 297, h, 0.01)
	assert.Equal(t, 1, doc.PageCount())
	assert.Greater(t, doc.StringWidth("Zürich"), 0.0)

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestGoFPDF_ImageRejectsGarbage(t *testing.T) {
	doc := NewGoFPDF(210, 297)
	doc.AddPage()
	err := doc.Image("logo", []byte("not an image"), "PNG", 10, 10, 20, 20)
	assert.Error(t, err)

	var buf bytes.Buffer
	assert.NoError(t, doc.Output(&buf))
}
