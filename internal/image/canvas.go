package imagepkg

import (
	"bytes"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Canvas is the mutable NRGBA buffer of a single render. Positions are
// pixel offsets from the top-left corner and are never rescaled here.
type Canvas struct {
	img *image.NRGBA
}

// NewCanvas copies src into an alpha-capable buffer, stretched to size
// when size is non-nil.
func NewCanvas(src image.Image, size *image.Point) *Canvas {
	if size != nil && size.X > 0 && size.Y > 0 {
		return &Canvas{img: imaging.Resize(src, size.X, size.Y, imaging.CatmullRom)}
	}
	return &Canvas{img: imaging.Clone(src)}
}

func (c *Canvas) Bounds() image.Rectangle { return c.img.Bounds() }

// Image exposes the underlying buffer. Callers must not retain it across draws.
func (c *Canvas) Image() *image.NRGBA { return c.img }

// DrawLine draws line.Text with its line box top-left at (line.X, line.Y).
func (c *Canvas) DrawLine(line Line, f *Font, col color.Color) {
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: f.Face,
		Dot:  fixed.P(line.X, line.Y+f.Ascent()),
	}
	d.DrawString(line.Text)
}

// Overlay alpha-composites src over the canvas with src's top-left at pos.
// Pixels where src is fully transparent keep their exact prior value.
func (c *Canvas) Overlay(src *image.NRGBA, pos image.Point) {
	out := imaging.Overlay(c.img, src, pos, 1.0)

	// imaging turns a transparent-over-transparent pair into (0,0,0,0).
	sb := src.Bounds()
	r := image.Rectangle{Min: pos, Max: pos.Add(sb.Size())}.Intersect(c.img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if src.NRGBAAt(sb.Min.X+x-pos.X, sb.Min.Y+y-pos.Y).A == 0 {
				out.SetNRGBA(x, y, c.img.NRGBAAt(x, y))
			}
		}
	}
	c.img = out
}

// Encode writes the canvas as PNG. It does not modify the canvas.
func (c *Canvas) Encode(w io.Writer) error {
	return imaging.Encode(w, c.img, imaging.PNG)
}

func (c *Canvas) EncodePNG() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := c.Encode(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
