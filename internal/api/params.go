package api

import (
	"image"
	"net/url"
	"strings"

	"github.com/youruser/templatecomposer/internal/config"
	imagepkg "github.com/youruser/templatecomposer/internal/image"
)

// generateParams mirrors the query string of the render routes. Positions
// and sizes are in output-canvas pixels.
type generateParams struct {
	Template string `form:"template" binding:"required"`
	Filename string `form:"filename"`
	LogoURL  string `form:"logo_url"`

	Title          string `form:"title"`
	TitleX         int    `form:"title_x"`
	TitleY         int    `form:"title_y"`
	TitleSize      int    `form:"title_size,default=60" binding:"max=1000"`
	TitleColor     string `form:"title_color,default=#000000"`
	TitleMaxWidth  int    `form:"title_max_width"`
	TitleMaxHeight int    `form:"title_max_height"`

	Content          string `form:"content"`
	ContentX         int    `form:"content_x"`
	ContentY         int    `form:"content_y"`
	ContentSize      int    `form:"content_size,default=40" binding:"max=1000"`
	ContentColor     string `form:"content_color,default=#000000"`
	ContentMaxWidth  int    `form:"content_max_width"`
	ContentMaxHeight int    `form:"content_max_height"`

	Contact          string `form:"contact"`
	ContactX         int    `form:"contact_x"`
	ContactY         int    `form:"contact_y"`
	ContactSize      int    `form:"contact_size,default=30" binding:"max=1000"`
	ContactColor     string `form:"contact_color,default=#000000"`
	ContactMaxWidth  int    `form:"contact_max_width"`
	ContactMaxHeight int    `form:"contact_max_height"`

	LogoX      int `form:"logo_x"`
	LogoY      int `form:"logo_y"`
	LogoWidth  int `form:"logo_width,default=100" binding:"max=4096"`
	LogoHeight int `form:"logo_height,default=100" binding:"max=4096"`

	QRText string `form:"qr_text"`
	QRX    int    `form:"qr_x"`
	QRY    int    `form:"qr_y"`
	QRSize int    `form:"qr_size,default=150" binding:"max=4096"`
}

// request converts the parameters into a render request. logo may be nil.
func (p *generateParams) request(cfg *config.Config, logo []byte) imagepkg.Request {
	block := func(text string, x, y, size int, color string, maxW, maxH int) imagepkg.TextBlock {
		return imagepkg.TextBlock{
			Text:     text,
			X:        x,
			Y:        y,
			Size:     size,
			Color:    color,
			FontPath: cfg.FontPath,
			Bounds:   textBounds(cfg, x, maxW, maxH),
		}
	}

	req := imagepkg.Request{
		Title:   block(p.Title, p.TitleX, p.TitleY, p.TitleSize, p.TitleColor, p.TitleMaxWidth, p.TitleMaxHeight),
		Content: block(p.Content, p.ContentX, p.ContentY, p.ContentSize, p.ContentColor, p.ContentMaxWidth, p.ContentMaxHeight),
		Contact: block(p.Contact, p.ContactX, p.ContactY, p.ContactSize, p.ContactColor, p.ContactMaxWidth, p.ContactMaxHeight),
	}
	if cfg.HasOutputSize() {
		req.OutputSize = &image.Point{X: cfg.OutputWidth, Y: cfg.OutputHeight}
	}
	if logo != nil {
		req.Logo = &imagepkg.LogoSpec{Data: logo, X: p.LogoX, Y: p.LogoY, Width: p.LogoWidth, Height: p.LogoHeight}
	}
	if p.QRText != "" {
		req.QR = &imagepkg.QRSpec{Text: p.QRText, X: p.QRX, Y: p.QRY, Size: p.QRSize}
	}
	return req
}

// textBounds wraps at the right canvas edge unless a width is given. The
// edge is only known up front when the output size is fixed.
func textBounds(cfg *config.Config, x, maxW, maxH int) *imagepkg.Bounds {
	if maxW <= 0 && cfg.HasOutputSize() && x < cfg.OutputWidth {
		maxW = cfg.OutputWidth - x
	}
	if maxW <= 0 && maxH <= 0 {
		return nil
	}
	return &imagepkg.Bounds{MaxWidth: maxW, MaxHeight: maxH}
}

// escapePath escapes each segment of p and keeps the slashes.
func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}
