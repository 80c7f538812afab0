package qrbill

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// qrPixelSize is the PNG edge length. At 46 mm it is roughly 280 dpi.
const qrPixelSize = 512

// QRCodePNG encodes the bill payload as a PNG with error correction level M
// and no quiet zone; the slip layout provides the margin.
func (b *Bill) QRCodePNG() ([]byte, error) {
	q, err := qrcode.New(b.Payload(), qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	q.DisableBorder = true
	png, err := q.PNG(qrPixelSize)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	return png, nil
}
