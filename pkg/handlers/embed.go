package handlers

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html"
	"html/template"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"video-platform/pkg/apperr"
	"video-platform/pkg/database"
	"video-platform/pkg/models"
)

//go:embed templates/embed.html
var templateFS embed.FS

// Values are escaped per context (HTML, attribute, script).
var embedTemplate = template.Must(template.ParseFS(templateFS, "templates/embed.html"))

var preloadValues = map[string]bool{"none": true, "metadata": true, "auto": true}

const maxThemeLength = 20

// EmbedRequest holds the optional player options; nil fields take defaults.
type EmbedRequest struct {
	Width    *int    `json:"width"`
	Height   *int    `json:"height"`
	Theme    *string `json:"theme"`
	Controls *bool   `json:"controls"`
	Autoplay *bool   `json:"autoplay"`
	Loop     *bool   `json:"loop"`
	Preload  *string `json:"preload"`
}

func (r EmbedRequest) config(videoID uint) (models.EmbedConfig, error) {
	cfg := models.DefaultEmbedConfig()
	cfg.VideoID = videoID
	if r.Width != nil {
		cfg.Width = *r.Width
	}
	if r.Height != nil {
		cfg.Height = *r.Height
	}
	if r.Theme != nil {
		cfg.Theme = *r.Theme
	}
	if r.Controls != nil {
		cfg.Controls = *r.Controls
	}
	if r.Autoplay != nil {
		cfg.Autoplay = *r.Autoplay
	}
	if r.Loop != nil {
		cfg.Loop = *r.Loop
	}
	if r.Preload != nil {
		cfg.Preload = *r.Preload
	}

	switch {
	case cfg.Width <= 0 || cfg.Height <= 0:
		return cfg, apperr.Validation("El ancho y el alto deben ser positivos")
	case cfg.Theme == "" || len(cfg.Theme) > maxThemeLength:
		return cfg, apperr.Validation("Tema inválido")
	case !preloadValues[cfg.Preload]:
		return cfg, apperr.Validation("Valor de preload inválido")
	}
	return cfg, nil
}

func embedURL(videoSlug string, configID uint) string {
	return fmt.Sprintf("/embed/%s?config=%d", videoSlug, configID)
}

func embedCode(videoSlug string, cfg models.EmbedConfig) string {
	return fmt.Sprintf(`<iframe src="%s" width="%d" height="%d" frameborder="0" allowfullscreen></iframe>`,
		html.EscapeString(embedURL(videoSlug, cfg.ID)), cfg.Width, cfg.Height)
}

// CreateEmbed stores a player preset for a video and returns its iframe snippet.
func (h *Handler) CreateEmbed(c *gin.Context) {
	video, err := h.videoFromParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	var req EmbedRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.fail(c, apperr.Validation("Datos de configuración inválidos"))
		return
	}
	cfg, err := req.config(video.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.store.CreateEmbedConfig(&cfg); err != nil {
		h.fail(c, apperr.Internal("Error al guardar la configuración", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"embed_code": embedCode(video.Slug, cfg),
		"embed_url":  embedURL(video.Slug, cfg.ID),
	})
}

// playerConfig picks the stored preset named by ?config= when it belongs to
// video, and the defaults otherwise.
func (h *Handler) playerConfig(c *gin.Context, video *models.Video) (models.EmbedConfig, error) {
	raw := c.Query("config")
	if raw == "" {
		return models.DefaultEmbedConfig(), nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return models.DefaultEmbedConfig(), nil
	}
	cfg, err := h.store.EmbedConfigByID(uint(id))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return models.DefaultEmbedConfig(), nil
		}
		return models.EmbedConfig{}, apperr.Internal("Error al cargar la configuración", err)
	}
	if cfg.VideoID != video.ID {
		return models.DefaultEmbedConfig(), nil
	}
	return *cfg, nil
}

// EmbedPage serves the standalone player document loaded by the iframe.
func (h *Handler) EmbedPage(c *gin.Context) {
	video, err := h.store.VideoBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			h.fail(c, apperr.NotFound("Video no encontrado"))
			return
		}
		h.fail(c, apperr.Internal("Error al cargar el video", err))
		return
	}

	cfg, err := h.playerConfig(c, video)
	if err != nil {
		h.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := embedTemplate.Execute(&buf, struct {
		Video  *models.Video
		Config models.EmbedConfig
	}{video, cfg}); err != nil {
		h.fail(c, apperr.Internal("Error al generar el reproductor", err))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
