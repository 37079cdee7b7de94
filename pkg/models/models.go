package models

import (
	"time"
)

const (
	DefaultEmbedWidth   = 800
	DefaultEmbedHeight  = 450
	DefaultEmbedTheme   = "default"
	DefaultEmbedPreload = "metadata"
)

type User struct {
	ID           uint      `gorm:"primary_key" json:"id"`
	Username     string    `gorm:"type:varchar(80);unique_index;not null" json:"username"`
	Email        string    `gorm:"type:varchar(120);unique_index;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(128);not null" json:"-"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	Videos       []Video   `gorm:"foreignkey:UploaderID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

type Video struct {
	ID           uint      `gorm:"primary_key" json:"id"`
	Title        string    `gorm:"type:varchar(200);not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	Slug         string    `gorm:"type:varchar(200);unique_index;not null" json:"slug"`
	VideoURL     string    `gorm:"type:varchar(500);not null" json:"video_url"`
	ThumbnailURL string    `gorm:"type:varchar(500)" json:"thumbnail_url"`
	Duration     *int      `json:"duration"` // seconds
	Size         *int64    `json:"size"`     // bytes
	Format       string    `gorm:"type:varchar(20)" json:"format"`
	UploaderID   uint      `gorm:"not null;index" json:"uploader_id"`
	Uploader     *User     `gorm:"foreignkey:UploaderID" json:"-"`
	IsPublic     bool      `gorm:"not null" json:"is_public"`
	CreatedAt    time.Time `json:"created_at"`
	Views        int       `gorm:"not null;default:0" json:"views"`
}

func (Video) TableName() string {
	return "videos"
}

type EmbedConfig struct {
	ID        uint      `gorm:"primary_key" json:"id"`
	VideoID   uint      `gorm:"not null;index" json:"video_id"`
	Width     int       `gorm:"not null" json:"width"`
	Height    int       `gorm:"not null" json:"height"`
	Theme     string    `gorm:"type:varchar(20);not null" json:"theme"`
	Controls  bool      `gorm:"not null" json:"controls"`
	Autoplay  bool      `gorm:"not null" json:"autoplay"`
	Loop      bool      `gorm:"not null" json:"loop"`
	Preload   string    `gorm:"type:varchar(10);not null" json:"preload"`
	CreatedAt time.Time `json:"created_at"`
}

func (EmbedConfig) TableName() string {
	return "embed_configs"
}

// DefaultEmbedConfig is the player setup used when no stored config applies.
func DefaultEmbedConfig() EmbedConfig {
	return EmbedConfig{
		Width:    DefaultEmbedWidth,
		Height:   DefaultEmbedHeight,
		Theme:    DefaultEmbedTheme,
		Controls: true,
		Preload:  DefaultEmbedPreload,
	}
}
