package imagepkg

import (
	"image"
	"io"

	"github.com/sirupsen/logrus"
)

// TextBlock is one text layer.
type TextBlock struct {
	Text     string
	X, Y     int
	Size     int
	Color    string
	FontPath string
	Bounds   *Bounds
}

// Request describes every layer of one render. Layers are drawn in the
// order title, content, contact, logo, qr.
type Request struct {
	Title   TextBlock
	Content TextBlock
	Contact TextBlock
	Logo    *LogoSpec
	QR      *QRSpec

	// OutputSize, when set, stretches the template before any drawing.
	OutputSize *image.Point
}

// RenderError is returned when no image can be produced at all.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string { return "render " + e.Op + ": " + e.Err.Error() }

func (e *RenderError) Unwrap() error { return e.Err }

// Composer runs the render pipeline. It holds no per-request state and is
// safe for concurrent use.
type Composer struct {
	fonts *FontProvider
	log   logrus.FieldLogger
}

func NewComposer(fonts *FontProvider, log logrus.FieldLogger) *Composer {
	log = orDiscard(log)
	if fonts == nil {
		fonts = NewFontProvider(log)
	}
	return &Composer{fonts: fonts, log: log}
}

// Render decodes template, draws every layer of req and returns PNG bytes.
// Only an undecodable template or an encode failure is an error; layer
// problems are logged and the layer is degraded or skipped.
func (c *Composer) Render(template []byte, req Request) ([]byte, error) {
	src, err := DecodeImage(template)
	if err != nil {
		return nil, &RenderError{Op: "decode template", Err: err}
	}
	out, err := c.Compose(src, req).EncodePNG()
	if err != nil {
		return nil, &RenderError{Op: "encode", Err: err}
	}
	return out, nil
}

// Compose draws req onto a fresh canvas built from template.
func (c *Composer) Compose(template image.Image, req Request) *Canvas {
	canvas := NewCanvas(template, req.OutputSize)
	c.log.WithField("bounds", canvas.Bounds().Size()).Debug("canvas ready")

	c.drawText(canvas, "title", req.Title)
	c.drawText(canvas, "content", req.Content)
	c.drawText(canvas, "contact", req.Contact)

	if req.Logo != nil {
		if err := CompositeLogo(canvas, *req.Logo); err != nil {
			c.log.WithError(err).WithField("layer", "logo").Warn("skipping layer")
		}
	}
	if req.QR != nil {
		if err := CompositeQR(canvas, *req.QR); err != nil {
			c.log.WithError(err).WithField("layer", "qr").Warn("skipping layer")
		}
	}
	return canvas
}

func (c *Composer) drawText(canvas *Canvas, layer string, b TextBlock) {
	if b.Text == "" {
		return
	}
	log := c.log.WithField("layer", layer)

	if _, err := ParseColor(b.Color); err != nil {
		log.WithError(err).Warn("invalid color, using " + DefaultColor)
	}
	f := c.fonts.Load(b.FontPath, b.Size)
	col := textColor(b.Color)
	layout := LayoutText(b.Text, f, image.Pt(b.X, b.Y), b.Bounds, log)
	for _, line := range layout.Lines {
		canvas.DrawLine(line, f, col)
	}
	log.WithField("lines", len(layout.Lines)).Debug("text drawn")
}

func orDiscard(log logrus.FieldLogger) logrus.FieldLogger {
	if log != nil {
		return log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
