// Package printing renders business documents (invoices, quotes, orders)
// to PDF.
//
// A document is turned into an ordered list of layout blocks. Each block
// reports the height it needs and draws itself at a given vertical
// position; Layout.Run is the only place that decides page breaks. Blocks
// draw onto a pdf.Canvas, so pagination can be tested against a recording
// canvas without producing PDF bytes.
//
// Example usage:
//
//	renderer := NewRenderer(RendererConfig{}, RendererDeps{
//	    Calculator: document.NewTotalsCalculator(document.DefaultStandardTaxRate),
//	    Encoder:    qrbill.NewEncoder(qrbill.EncoderConfig{}, logger),
//	})
//	result, err := renderer.Render(ctx, &Document{...})
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Generated PDF: %d bytes, %d pages\n", len(result.PDFData), result.PageCount)
package printing
