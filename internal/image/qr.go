package imagepkg

import (
	"errors"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// MaxQRSize is the largest QR edge in pixels.
const MaxQRSize = 4096

// QRSpec places a generated QR code of Size x Size pixels.
type QRSpec struct {
	Text string
	X, Y int
	Size int
}

// GenerateQRPNG returns PNG bytes of a QR code for the given text.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	if text == "" {
		return nil, errors.New("empty qr text")
	}
	if size > MaxQRSize {
		return nil, fmt.Errorf("qr size %d exceeds %d", size, MaxQRSize)
	}
	return qrcode.Encode(text, qrcode.Medium, size)
}

// CompositeQR draws the code through CompositeLogo so it shares its fit and
// failure semantics.
func CompositeQR(c *Canvas, spec QRSpec) error {
	data, err := GenerateQRPNG(spec.Text, spec.Size)
	if err != nil {
		return &LogoError{Op: "qr", Err: err}
	}
	return CompositeLogo(c, LogoSpec{
		Data:   data,
		X:      spec.X,
		Y:      spec.Y,
		Width:  spec.Size,
		Height: spec.Size,
	})
}
