package imagepkg

import (
	"image"
	"strings"

	"github.com/sirupsen/logrus"
)

// LineGap is the vertical space in pixels added between consecutive lines.
const LineGap = 8

// Bounds constrains a text block. A zero field is unset.
type Bounds struct {
	MaxWidth  int
	MaxHeight int
}

// Line is one laid-out line. X, Y is the top-left corner of the line box.
type Line struct {
	Text   string
	X, Y   int
	Width  int
	Height int
}

// TextLayout is the result of laying out one text block.
type TextLayout struct {
	Lines []Line

	// Height covers all lines and the gaps between them.
	Height   int
	Overflow bool
}

// LayoutText greedily word-wraps text to bounds.MaxWidth and stacks the
// lines downward from origin. Each newline starts a new paragraph. Without
// a width bound every paragraph is one line. Words are never split, so a
// word wider than MaxWidth gets a line of its own.
//
// Exceeding bounds.MaxHeight is reported in the result and logged, but all
// lines are still returned.
func LayoutText(text string, f *Font, origin image.Point, bounds *Bounds, log logrus.FieldLogger) TextLayout {
	maxWidth := 0
	if bounds != nil {
		maxWidth = bounds.MaxWidth
	}

	var rows []string
	for _, para := range strings.Split(text, "\n") {
		rows = append(rows, wrapWords(strings.Fields(para), maxWidth, f)...)
	}

	var out TextLayout
	y := origin.Y
	for i, row := range rows {
		if i > 0 {
			y += LineGap
		}
		h := f.LineHeight()
		out.Lines = append(out.Lines, Line{
			Text:   row,
			X:      origin.X,
			Y:      y,
			Width:  f.Measure(row),
			Height: h,
		})
		y += h
	}
	out.Height = y - origin.Y

	if bounds != nil && bounds.MaxHeight > 0 && out.Height > bounds.MaxHeight {
		out.Overflow = true
		orDiscard(log).WithFields(logrus.Fields{
			"height":     out.Height,
			"max_height": bounds.MaxHeight,
			"lines":      len(out.Lines),
		}).Warn("text exceeds bounding box height")
	}
	return out
}

func wrapWords(words []string, maxWidth int, f *Font) []string {
	if len(words) == 0 {
		return nil
	}
	if maxWidth <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if f.Measure(candidate) > maxWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	return append(lines, current)
}
