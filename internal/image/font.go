package imagepkg

import (
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

const fontDPI = 72

// MaxFontSize is the largest size a face is built at. Larger requests are
// clamped.
const MaxFontSize = 1000

// Font is a face resolved for one (path, size) pair.
type Font struct {
	Face font.Face
	Path string
	Size int

	// Fallback is set when the requested file could not be used.
	Fallback bool
}

// Measure returns the rendered advance of s in pixels.
func (f *Font) Measure(s string) int {
	return font.MeasureString(f.Face, s).Ceil()
}

// Ascent is the distance from the top of a line to its baseline.
func (f *Font) Ascent() int {
	return f.Face.Metrics().Ascent.Ceil()
}

// LineHeight is the measured height of one line of text.
func (f *Font) LineHeight() int {
	m := f.Face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

// FontProvider resolves font files to faces. Parsed files are cached by
// path; faces are built per call because a font.Face is not safe for
// concurrent use.
type FontProvider struct {
	log logrus.FieldLogger

	mu     sync.RWMutex
	parsed map[string]*opentype.Font
}

var (
	builtinOnce sync.Once
	builtin     *opentype.Font
	builtinErr  error
)

func builtinFont() (*opentype.Font, error) {
	builtinOnce.Do(func() {
		builtin, builtinErr = opentype.Parse(gobold.TTF)
	})
	return builtin, builtinErr
}

func NewFontProvider(log logrus.FieldLogger) *FontProvider {
	return &FontProvider{
		log:    orDiscard(log),
		parsed: make(map[string]*opentype.Font),
	}
}

// Load returns a usable font for path at size. It never fails: an unusable
// file falls back to the embedded Go Bold face at the same size, and if that
// is impossible (size <= 0) to the fixed 7x13 bitmap face, which ignores size.
// Sizes above MaxFontSize are clamped.
func (p *FontProvider) Load(path string, size int) *Font {
	log := p.log.WithFields(logrus.Fields{"path": path, "size": size})

	if size <= 0 {
		log.Warn("invalid font size, using fixed bitmap font")
		return &Font{Face: basicfont.Face7x13, Path: path, Size: size, Fallback: true}
	}
	if size > MaxFontSize {
		log.Warnf("font size clamped to %d", MaxFontSize)
		size = MaxFontSize
	}

	if path != "" {
		f, err := p.parse(path)
		if err == nil {
			face, err := newFace(f, size)
			if err == nil {
				return &Font{Face: face, Path: path, Size: size}
			}
			log.WithError(err).Warn("font face creation failed, using built-in font")
		} else {
			log.WithError(err).Warn("font load failed, using built-in font")
		}
	}

	face, err := builtinFace(size)
	if err == nil {
		return &Font{Face: face, Path: path, Size: size, Fallback: path != ""}
	}
	log.WithError(err).Warn("built-in font unavailable, using fixed bitmap font")
	return &Font{Face: basicfont.Face7x13, Path: path, Size: size, Fallback: true}
}

func (p *FontProvider) parse(path string) (*opentype.Font, error) {
	p.mu.RLock()
	f, ok := p.parsed[path]
	p.mu.RUnlock()
	if ok {
		return f, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	f, err = opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}

	p.mu.Lock()
	p.parsed[path] = f
	p.mu.Unlock()
	return f, nil
}

func builtinFace(size int) (font.Face, error) {
	f, err := builtinFont()
	if err != nil {
		return nil, err
	}
	return newFace(f, size)
}

func newFace(f *opentype.Font, size int) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     fontDPI,
		Hinting: font.HintingFull,
	})
}
