package qrcode

import (
	"fmt"

	qr "github.com/skip2/go-qrcode"
)

// DefaultSize is the generated image edge length in pixels.
const DefaultSize = 256

// EncodePNG renders content as a QR code PNG.
func EncodePNG(content string) ([]byte, error) {
	png, err := qr.Encode(content, qr.Medium, DefaultSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}
