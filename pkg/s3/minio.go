package s3

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"

	"video-platform/pkg/apperr"
)

// streamPartSize bounds the buffer minio allocates when the body length is unknown.
const streamPartSize = 64 * 1024 * 1024

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string // skips the bucket location lookup when set
	UseSSL    bool
}

type Minio struct {
	client *minio.Client
	cfg    MinioConfig
	log    logrus.FieldLogger
}

func NewMinio(cfg MinioConfig, log logrus.FieldLogger) (*Minio, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &Minio{client: client, cfg: cfg, log: log}, nil
}

// EnsureBucket creates the configured bucket when it does not exist yet.
func (m *Minio) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("minio bucket check: %w", err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("minio make bucket: %w", err)
	}
	return nil
}

func (m *Minio) Upload(ctx context.Context, body io.Reader, size int64, key, contentType string) (string, error) {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if size < 0 {
		opts.PartSize = streamPartSize
	}
	if _, err := m.client.PutObject(ctx, m.cfg.Bucket, key, body, size, opts); err != nil {
		m.log.WithFields(logrus.Fields{"bucket": m.cfg.Bucket, "key": key, "size": size}).
			WithError(err).Error("failed to upload object to minio")
		return "", apperr.Storage(uploadFailed, err)
	}
	return m.URL(key), nil
}

func (m *Minio) URL(key string) string {
	scheme := "http"
	if m.cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, m.cfg.Endpoint, m.cfg.Bucket, key)
}
