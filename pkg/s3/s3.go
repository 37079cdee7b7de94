package s3

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/sirupsen/logrus"

	"video-platform/pkg/apperr"
)

const uploadFailed = "Error al subir el video"

// Uploader stores an object under key and returns the URL it is served from.
// Size may be -1 when the length of body is unknown.
type Uploader interface {
	Upload(ctx context.Context, body io.Reader, size int64, key, contentType string) (string, error)
	URL(key string) string
}

type Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint overrides the AWS endpoint for S3 compatible services.
	Endpoint string
}

type S3 struct {
	uploader *s3manager.Uploader
	cfg      Config
	log      logrus.FieldLogger
}

// New builds an S3 backend. Static credentials are used when configured,
// otherwise the SDK default chain applies. Uploads are attempted once.
func New(cfg Config, log logrus.FieldLogger) (*S3, error) {
	awsCfg := &aws.Config{
		Region:     aws.String(cfg.Region),
		MaxRetries: aws.Int(0),
	}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return &S3{uploader: s3manager.NewUploader(sess), cfg: cfg, log: log}, nil
}

func (s *S3) Upload(ctx context.Context, body io.Reader, size int64, key, contentType string) (string, error) {
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         aws.String("public-read"),
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{"bucket": s.cfg.Bucket, "key": key, "size": size}).
			WithError(err).Error("failed to upload object to S3")
		return "", apperr.Storage(uploadFailed, err)
	}
	return s.URL(key), nil
}

// URL is derived from bucket, region and key; S3 is never asked for it.
func (s *S3) URL(key string) string {
	if s.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}

// videoTypes covers formats missing from minimal mime.types installs.
var videoTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".ogv":  "video/ogg",
}

// ContentType prefers the type declared by the client and falls back to the
// one registered for the file extension.
func ContentType(filename, declared string) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if t, ok := videoTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	if declared != "" {
		return declared
	}
	return "application/octet-stream"
}
