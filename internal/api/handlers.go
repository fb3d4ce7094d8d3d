package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	"github.com/youruser/templatecomposer/internal/config"
	imagepkg "github.com/youruser/templatecomposer/internal/image"
	"github.com/youruser/templatecomposer/internal/storage"
	"github.com/youruser/templatecomposer/internal/util"
)

// Handler serves the render routes.
type Handler struct {
	cfg      *config.Config
	composer *imagepkg.Composer
	store    storage.Store
	fetcher  util.Fetcher
	log      logrus.FieldLogger
}

func NewHandler(cfg *config.Config, composer *imagepkg.Composer, store storage.Store, fetcher util.Fetcher, log logrus.FieldLogger) *Handler {
	return &Handler{cfg: cfg, composer: composer, store: store, fetcher: fetcher, log: log}
}

func root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Template composer is running"})
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// generateAndUpload renders the request, uploads the PNG and returns its public URL.
func (h *Handler) generateAndUpload(c *gin.Context) {
	var p generateParams
	if err := c.ShouldBindQuery(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	key := p.Filename
	if key == "" {
		key = ulid.Make().String() + ".png"
	}
	if err := storage.ValidKey(key); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, ok := h.render(c, &p)
	if !ok {
		return
	}

	if err := h.store.Put(c.Request.Context(), key, out, "image/png"); err != nil {
		h.log.WithError(err).WithField("key", key).Error("upload failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Upload failed", "details": err.Error()})
		return
	}
	publicURL := h.store.PublicURL(key)
	h.log.WithField("url", publicURL).Info("image uploaded")
	c.JSON(http.StatusOK, gin.H{"image_url": publicURL})
}

// renderImage returns the rendered PNG without uploading it.
func (h *Handler) renderImage(c *gin.Context) {
	var p generateParams
	if err := c.ShouldBindQuery(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, ok := h.render(c, &p)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "image/png", out)
}

// render fetches the template and logo and runs the pipeline. On failure it
// writes the error response and returns false.
func (h *Handler) render(c *gin.Context, p *generateParams) ([]byte, bool) {
	ctx := c.Request.Context()
	log := h.log.WithField("template", p.Template)
	log.WithFields(logrus.Fields{
		"title":   p.Title,
		"content": p.Content,
		"contact": p.Contact,
		"logo":    p.LogoURL,
		"qr":      p.QRText,
	}).Info("render request")

	templateURL := h.cfg.TemplateBaseURL + escapePath(p.Template)
	tmpl, err := h.fetcher.GetBytes(ctx, templateURL)
	if err != nil {
		log.WithError(err).Warn("template fetch failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Template image failed to load", "url": templateURL})
		return nil, false
	}

	var logo []byte
	if p.LogoURL != "" {
		logoURL := util.NormalizeURL(p.LogoURL)
		logo, err = h.fetcher.GetBytes(ctx, logoURL)
		if err != nil {
			log.WithError(err).WithField("logo", logoURL).Warn("logo fetch failed, skipping logo")
			logo = nil
		}
	}

	out, err := h.composer.Render(tmpl, p.request(h.cfg, logo))
	if err != nil {
		var renderErr *imagepkg.RenderError
		if errors.As(err, &renderErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Template image could not be rendered", "details": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return nil, false
	}
	return out, true
}
