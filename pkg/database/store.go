package database

import (
	"errors"
	"fmt"

	"github.com/jinzhu/gorm"

	"video-platform/pkg/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate value")
)

// Store is the per-entity CRUD surface over a shared gorm connection pool.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case gorm.IsRecordNotFoundError(err):
		return ErrNotFound
	case IsUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

func (s *Store) CreateUser(u *models.User) error {
	return translate(s.db.Create(u).Error)
}

func (s *Store) UserByID(id uint) (*models.User, error) {
	var u models.User
	if err := s.db.Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) UserByUsername(username string) (*models.User, error) {
	var u models.User
	if err := s.db.Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) UserByEmail(email string) (*models.User, error) {
	var u models.User
	if err := s.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) CreateVideo(v *models.Video) error {
	return translate(s.db.Create(v).Error)
}

func (s *Store) VideoByID(id uint) (*models.Video, error) {
	var v models.Video
	if err := s.db.Where("id = ?", id).First(&v).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (s *Store) VideoBySlug(slug string) (*models.Video, error) {
	var v models.Video
	if err := s.db.Where("slug = ?", slug).First(&v).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

// SlugExists reports whether any video already uses slug.
func (s *Store) SlugExists(slug string) (bool, error) {
	var n int
	if err := s.db.Model(&models.Video{}).Where("slug = ?", slug).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) ListPublicVideos() ([]models.Video, error) {
	videos := []models.Video{}
	err := s.db.Where("is_public = ?", true).Order("id").Find(&videos).Error
	return videos, translate(err)
}

func (s *Store) ListVideosByUploader(uploaderID uint) ([]models.Video, error) {
	videos := []models.Video{}
	err := s.db.Where("uploader_id = ?", uploaderID).Order("id").Find(&videos).Error
	return videos, translate(err)
}

// ListVideosWithUploader returns every video, public or not, with Uploader loaded.
func (s *Store) ListVideosWithUploader() ([]models.Video, error) {
	videos := []models.Video{}
	err := s.db.Preload("Uploader").Order("id").Find(&videos).Error
	return videos, translate(err)
}

// IncrementViews bumps the view counter in a single UPDATE so concurrent
// readers never lose an increment.
func (s *Store) IncrementViews(id uint) error {
	res := s.db.Model(&models.Video{}).Where("id = ?", id).UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CreateEmbedConfig(cfg *models.EmbedConfig) error {
	return translate(s.db.Create(cfg).Error)
}

func (s *Store) EmbedConfigByID(id uint) (*models.EmbedConfig, error) {
	var cfg models.EmbedConfig
	if err := s.db.Where("id = ?", id).First(&cfg).Error; err != nil {
		return nil, translate(err)
	}
	return &cfg, nil
}
