// Package qr renders verification links as QR code images.
package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/custodia-labs/docproof/internal/core/ports/driven"
)

// Ensure Renderer implements the interface.
var _ driven.QRRenderer = Renderer{}

// Renderer encodes content as PNG at the High recovery level, so a code
// printed on a document survives some damage.
type Renderer struct{}

// PNG renders content as a size x size image.
func (Renderer) PNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("qr: nothing to encode")
	}
	png, err := qrcode.Encode(content, qrcode.High, size)
	if err != nil {
		return nil, fmt.Errorf("qr: encode: %w", err)
	}
	return png, nil
}
