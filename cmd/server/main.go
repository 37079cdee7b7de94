package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"video-platform/cmd/config"
	"video-platform/pkg/auth"
	"video-platform/pkg/database"
	"video-platform/pkg/handlers"
	"video-platform/pkg/middleware"
	"video-platform/pkg/s3"
)

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func newStorage(ctx context.Context, cfg *config.Config, log *logrus.Logger) (s3.Uploader, error) {
	entry := log.WithField("component", "storage")
	if cfg.StorageDriver == config.StorageMinio {
		m, err := s3.NewMinio(s3.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.AWSAccessKeyID,
			SecretKey: cfg.AWSSecretAccessKey,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.AWSRegion,
			UseSSL:    cfg.MinioUseSSL,
		}, entry)
		if err != nil {
			return nil, err
		}
		return m, m.EnsureBucket(ctx)
	}
	return s3.New(s3.Config{
		Region:          cfg.AWSRegion,
		Bucket:          cfg.S3Bucket,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
		Endpoint:        cfg.S3Endpoint,
	}, entry)
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        5 * time.Minute,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = origins
	return c
}

func main() {
	cfg, err := config.Load("cmd/config", ".")
	if err != nil {
		logrus.Fatalf("Error loading configuration: %v", err)
	}
	log := newLogger(cfg)
	gin.SetMode(cfg.GinMode)

	// Initialize the database
	db, err := database.Open(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	ctx := context.Background()
	storage, err := newStorage(ctx, cfg, log)
	if err != nil {
		log.Fatalf("failed to initialise %s storage: %v", cfg.StorageDriver, err)
	}

	store := database.NewStore(db)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpires)
	authSvc := auth.NewService(store, tokens, log.WithField("component", "auth"))

	// Set up Gin router
	r := gin.New()
	r.MaxMultipartMemory = 32 << 20
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(log))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	r.Use(middleware.BodyLimit(cfg.MaxUploadBytes))

	handlers.New(store, authSvc, storage, log.WithField("component", "http")).Routes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"port":    cfg.Port,
			"storage": cfg.StorageDriver,
		}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
