package imagepkg

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// MaxLogoPixels bounds the resized overlay, Width x Height.
const MaxLogoPixels = 4096 * 4096

// LogoSpec places an overlay image. The source is stretched to exactly
// Width x Height.
type LogoSpec struct {
	Data          []byte
	X, Y          int
	Width, Height int
}

// LogoError reports why an overlay image could not be composited.
type LogoError struct {
	Op  string
	Err error
}

func (e *LogoError) Error() string { return "logo " + e.Op + ": " + e.Err.Error() }

func (e *LogoError) Unwrap() error { return e.Err }

// CompositeLogo decodes spec.Data, resizes it and alpha-composites it onto c
// using its own alpha channel. On error c is left untouched.
func CompositeLogo(c *Canvas, spec LogoSpec) error {
	if spec.Width <= 0 || spec.Height <= 0 {
		return &LogoError{Op: "resize", Err: fmt.Errorf("invalid size %dx%d", spec.Width, spec.Height)}
	}
	if int64(spec.Width)*int64(spec.Height) > MaxLogoPixels {
		return &LogoError{Op: "resize", Err: fmt.Errorf("size %dx%d exceeds %d pixels", spec.Width, spec.Height, MaxLogoPixels)}
	}
	src, err := DecodeImage(spec.Data)
	if err != nil {
		return &LogoError{Op: "decode", Err: err}
	}

	// Resize always yields NRGBA, so the mask is the logo's own alpha.
	logo := imaging.Resize(src, spec.Width, spec.Height, imaging.Lanczos)
	c.Overlay(logo, image.Pt(spec.X, spec.Y))
	return nil
}
