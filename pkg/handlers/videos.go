package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"video-platform/pkg/apperr"
	"video-platform/pkg/database"
	"video-platform/pkg/middleware"
	"video-platform/pkg/models"
	"video-platform/pkg/s3"
	"video-platform/pkg/slug"
)

const (
	defaultTitle     = "Video sin título"
	defaultExtension = "mp4"
	// maxSlugAttempts bounds retries when a concurrent upload takes the slug
	// between the probe and the insert.
	maxSlugAttempts = 5
)

func (h *Handler) ListVideos(c *gin.Context) {
	videos, err := h.store.ListPublicVideos()
	if err != nil {
		h.fail(c, apperr.Internal("Error al listar videos", err))
		return
	}
	out := make([]models.VideoSummary, len(videos))
	for i, v := range videos {
		out[i] = v.Summary()
	}
	c.JSON(http.StatusOK, out)
}

// GetVideo returns a public video and counts the fetch as a view.
func (h *Handler) GetVideo(c *gin.Context) {
	video, err := h.videoFromParam(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !video.IsPublic {
		h.fail(c, apperr.NotFound("Video no disponible"))
		return
	}

	if err := h.store.IncrementViews(video.ID); err != nil {
		h.fail(c, apperr.Internal("Error al actualizar las vistas", err))
		return
	}
	if video, err = h.store.VideoByID(video.ID); err != nil {
		h.fail(c, apperr.Internal("Error al cargar el video", err))
		return
	}

	c.JSON(http.StatusOK, video.Detail())
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

// Upload stores the "video" form file and records it under a unique slug.
// The thumbnail URL points at a key nothing writes to.
func (h *Handler) Upload(c *gin.Context) {
	userID := middleware.UserID(c)

	header, err := c.FormFile("video")
	if err != nil {
		if isBodyTooLarge(err) {
			h.fail(c, apperr.TooLarge("El archivo excede el tamaño máximo permitido"))
			return
		}
		h.fail(c, apperr.Validation("No se proporcionó archivo de video"))
		return
	}
	if strings.TrimSpace(header.Filename) == "" {
		h.fail(c, apperr.Validation("No se seleccionó ningún archivo"))
		return
	}
	// May be empty for names with no ASCII left; the extension then defaults.
	filename := secureFilename(header.Filename)

	title := c.PostForm("title")
	if title == "" {
		title = defaultTitle
	}
	description := c.PostForm("description")

	ext := defaultExtension
	if e := strings.TrimPrefix(filepath.Ext(filename), "."); e != "" {
		ext = strings.ToLower(e)
	}
	videoKey := fmt.Sprintf("videos/%s.%s", h.newKey(), ext)
	thumbnailKey := fmt.Sprintf("thumbnails/%s.jpg", h.newKey())

	src, err := header.Open()
	if err != nil {
		h.fail(c, apperr.Internal("Error al leer el archivo", err))
		return
	}
	defer src.Close()

	videoURL, err := h.storage.Upload(c.Request.Context(), src, header.Size, videoKey,
		s3.ContentType(videoKey, header.Header.Get("Content-Type")))
	if err != nil {
		h.fail(c, err)
		return
	}

	size := header.Size
	video := &models.Video{
		Title:        title,
		Description:  description,
		VideoURL:     videoURL,
		ThumbnailURL: h.storage.URL(thumbnailKey),
		Size:         &size,
		Format:       ext,
		UploaderID:   userID,
		IsPublic:     true,
	}
	if err := h.createWithUniqueSlug(video); err != nil {
		h.fail(c, err)
		return
	}

	h.log.WithFields(logrus.Fields{"video_id": video.ID, "slug": video.Slug, "user_id": userID}).Info("video uploaded")
	c.JSON(http.StatusCreated, gin.H{
		"message": "Video subido exitosamente",
		"video":   video.Uploaded(),
	})
}

func (h *Handler) createWithUniqueSlug(video *models.Video) error {
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		s, err := slug.Unique(h.store, video.Title)
		if err != nil {
			return apperr.Internal("Error al generar el slug", err)
		}
		video.Slug = s
		err = h.store.CreateVideo(video)
		if err == nil {
			return nil
		}
		if !errors.Is(err, database.ErrDuplicate) {
			return apperr.Internal("Error al guardar el video", err)
		}
		h.log.WithField("slug", s).Warn("slug taken by concurrent upload, retrying")
	}
	return apperr.Internal("Error al guardar el video", fmt.Errorf("no free slug for %q after %d attempts", video.Title, maxSlugAttempts))
}

func (h *Handler) UserVideos(c *gin.Context) {
	videos, err := h.store.ListVideosByUploader(middleware.UserID(c))
	if err != nil {
		h.fail(c, apperr.Internal("Error al listar videos", err))
		return
	}
	out := make([]models.OwnVideo, len(videos))
	for i, v := range videos {
		out[i] = v.Own()
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) AdminVideos(c *gin.Context) {
	videos, err := h.store.ListVideosWithUploader()
	if err != nil {
		h.fail(c, apperr.Internal("Error al listar videos", err))
		return
	}
	out := make([]models.AdminVideo, len(videos))
	for i, v := range videos {
		out[i] = v.Admin()
	}
	c.JSON(http.StatusOK, out)
}

// secureFilename keeps the base name of a client supplied path, reduced to
// ASCII letters, digits, '.', '-' and '_'. Leading dots are dropped so the
// result is never a hidden or relative path.
func secureFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	return strings.TrimLeft(b.String(), "._")
}
