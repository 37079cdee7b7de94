package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"video-platform/pkg/apperr"
	"video-platform/pkg/database"
	"video-platform/pkg/middleware"
	"video-platform/pkg/models"
	"video-platform/pkg/s3"
	"video-platform/pkg/slug"
)

// Store is the persistence surface used by the video and embed routes.
type Store interface {
	slug.Checker
	CreateVideo(v *models.Video) error
	VideoByID(id uint) (*models.Video, error)
	VideoBySlug(slug string) (*models.Video, error)
	ListPublicVideos() ([]models.Video, error)
	ListVideosByUploader(uploaderID uint) ([]models.Video, error)
	ListVideosWithUploader() ([]models.Video, error)
	IncrementViews(id uint) error
	CreateEmbedConfig(cfg *models.EmbedConfig) error
	EmbedConfigByID(id uint) (*models.EmbedConfig, error)
}

type AuthService interface {
	middleware.Authenticator
	Register(username, email, password string) (*models.User, error)
	Login(username, password string) (string, models.PublicUser, error)
}

type Handler struct {
	store   Store
	auth    AuthService
	storage s3.Uploader
	log     logrus.FieldLogger
	newKey  func() string

	requireAuth  gin.HandlerFunc
	requireAdmin gin.HandlerFunc
}

func New(store Store, authSvc AuthService, storage s3.Uploader, log logrus.FieldLogger) *Handler {
	return &Handler{
		store:        store,
		auth:         authSvc,
		storage:      storage,
		log:          log,
		newKey:       func() string { return uuid.New().String() },
		requireAuth:  middleware.RequireAuth(authSvc, log),
		requireAdmin: middleware.RequireAdmin(authSvc, log),
	}
}

// Routes registers every endpoint on r.
func (h *Handler) Routes(r gin.IRouter) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)

	api.GET("/videos", h.ListVideos)
	api.GET("/videos/:id", h.GetVideo)
	api.POST("/videos", h.requireAuth, h.Upload)
	api.POST("/videos/:id/embed", h.CreateEmbed)

	api.GET("/user/videos", h.requireAuth, h.UserVideos)
	api.GET("/admin/videos", h.requireAuth, h.requireAdmin, h.AdminVideos)

	r.GET("/embed/:slug", h.EmbedPage)
}

func (h *Handler) fail(c *gin.Context, err error) {
	middleware.Abort(c, h.log, err)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// videoFromParam loads the video named by the :id path parameter.
// Non-numeric ids are reported as not found.
func (h *Handler) videoFromParam(c *gin.Context) (*models.Video, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return nil, apperr.NotFound("Video no encontrado")
	}
	video, err := h.store.VideoByID(uint(id))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperr.NotFound("Video no encontrado")
		}
		return nil, apperr.Internal("Error al cargar el video", err)
	}
	return video, nil
}
