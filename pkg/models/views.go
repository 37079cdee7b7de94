package models

import "time"

// PublicUser is the part of a User returned after login.
type PublicUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email, IsAdmin: u.IsAdmin}
}

// VideoSummary is a public listing entry.
type VideoSummary struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Slug         string    `json:"slug"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Duration     *int      `json:"duration"`
	Size         *int64    `json:"size"`
	Format       string    `json:"format"`
	Views        int       `json:"views"`
	CreatedAt    time.Time `json:"created_at"`
}

// VideoDetail adds the playable URL to the summary.
type VideoDetail struct {
	VideoSummary
	VideoURL string `json:"video_url"`
}

// OwnVideo is an entry in the caller's own video list.
type OwnVideo struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Slug         string    `json:"slug"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Views        int       `json:"views"`
	IsPublic     bool      `json:"is_public"`
	CreatedAt    time.Time `json:"created_at"`
}

// AdminVideo is an entry in the admin listing.
type AdminVideo struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Slug        string    `json:"slug"`
	Uploader    string    `json:"uploader"`
	Views       int       `json:"views"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
}

// UploadedVideo is returned after a successful upload.
type UploadedVideo struct {
	ID           uint   `json:"id"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	VideoURL     string `json:"video_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

func (v Video) Summary() VideoSummary {
	return VideoSummary{
		ID:           v.ID,
		Title:        v.Title,
		Description:  v.Description,
		Slug:         v.Slug,
		ThumbnailURL: v.ThumbnailURL,
		Duration:     v.Duration,
		Size:         v.Size,
		Format:       v.Format,
		Views:        v.Views,
		CreatedAt:    v.CreatedAt,
	}
}

func (v Video) Detail() VideoDetail {
	return VideoDetail{VideoSummary: v.Summary(), VideoURL: v.VideoURL}
}

func (v Video) Own() OwnVideo {
	return OwnVideo{
		ID:           v.ID,
		Title:        v.Title,
		Description:  v.Description,
		Slug:         v.Slug,
		ThumbnailURL: v.ThumbnailURL,
		Views:        v.Views,
		IsPublic:     v.IsPublic,
		CreatedAt:    v.CreatedAt,
	}
}

// Admin requires Uploader to be loaded.
func (v Video) Admin() AdminVideo {
	av := AdminVideo{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		Slug:        v.Slug,
		Views:       v.Views,
		IsPublic:    v.IsPublic,
		CreatedAt:   v.CreatedAt,
	}
	if v.Uploader != nil {
		av.Uploader = v.Uploader.Username
	}
	return av
}

func (v Video) Uploaded() UploadedVideo {
	return UploadedVideo{
		ID:           v.ID,
		Title:        v.Title,
		Slug:         v.Slug,
		VideoURL:     v.VideoURL,
		ThumbnailURL: v.ThumbnailURL,
	}
}
