package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"video-platform/pkg/apperr"
	"video-platform/pkg/models"
)

const (
	UserIDKey = "userID"
	UserKey   = "user"
)

// Authenticator resolves bearer tokens to users.
type Authenticator interface {
	Authenticate(token string) (uint, error)
	CurrentUser(id uint) (*models.User, error)
}

// Abort renders err as {"error": message} with the status of its kind.
// Internal and storage failures are logged with their cause.
func Abort(c *gin.Context, log logrus.FieldLogger, err error) {
	e := apperr.As(err)
	status := e.Status()
	if status >= http.StatusInternalServerError {
		log.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).WithError(err).Error("request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": e.Message})
}

// Logger writes one structured line per request.
func Logger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		})
		if id, ok := c.Get(UserIDKey); ok {
			entry = entry.WithField("user_id", id)
		}
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("request")
		case status >= http.StatusBadRequest:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}

// BodyLimit caps the number of bytes read from any request body.
func BodyLimit(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// RequireAuth verifies the bearer token and stores the user id under UserIDKey.
func RequireAuth(authn Authenticator, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := authn.Authenticate(bearerToken(c.GetHeader("Authorization")))
		if err != nil {
			Abort(c, log, err)
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth. It loads the caller and rejects
// anyone without the admin flag.
func RequireAdmin(authn Authenticator, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := authn.CurrentUser(UserID(c))
		if err != nil {
			Abort(c, log, err)
			return
		}
		if !user.IsAdmin {
			Abort(c, log, apperr.Forbidden("Acceso denegado"))
			return
		}
		c.Set(UserKey, user)
		c.Next()
	}
}

// UserID returns the authenticated user id, or 0 outside RequireAuth.
func UserID(c *gin.Context) uint {
	id, _ := c.Get(UserIDKey)
	userID, _ := id.(uint)
	return userID
}
