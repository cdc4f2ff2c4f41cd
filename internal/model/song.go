package model

import (
	"errors"
	"time"
)

// Song is public catalog metadata; songs have no owner.
type Song struct {
	ID              int64     `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	Artist          string    `db:"artist" json:"artist"`
	Album           *string   `db:"album" json:"album"`
	DurationSeconds int       `db:"duration_seconds" json:"duration_seconds"`
	ArtworkURL      *string   `db:"artwork_url" json:"artwork_url"`
	ArtworkKey      *string   `db:"artwork_key" json:"-"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// CreateSongRequest carries the multipart form fields for POST /songs.
type CreateSongRequest struct {
	Title           string
	Artist          string
	Album           string
	DurationSeconds int
	ArtworkURL      *string
	ArtworkKey      *string
}

const (
	MaxArtworkSizeBytes = 5 * 1024 * 1024 // 5MB upload limit
	ArtworkWidth        = 500
	ArtworkHeight       = 500
	ArtworkFolder       = "artwork"
	ArtworkExt          = ".jpg"
	ArtworkCacheControl = "public, max-age=31536000" // 1 year
)

// Supported image content types for artwork validation
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
	ContentTypeWebP = "image/webp"
)

var allowedImageTypes = map[string]struct{}{
	ContentTypeJPEG: {},
	ContentTypePNG:  {},
	ContentTypeGIF:  {},
	ContentTypeWebP: {},
}

// IsAllowedImageType reports if the provided content type is supported
func IsAllowedImageType(contentType string) bool {
	_, ok := allowedImageTypes[contentType]
	return ok
}

// UploadResult represents the uploaded object location.
// URL is the public-facing URL, Key the object key inside the bucket.
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

var (
	// ErrSongNotFound is returned when a song cannot be found
	ErrSongNotFound = errors.New("song not found")

	// ErrSongFieldsRequired is returned when title or artist is missing
	ErrSongFieldsRequired = errors.New("title and artist are required")

	// ErrFileTooLarge is returned when an artwork upload exceeds the limit
	ErrFileTooLarge = errors.New("file too large")

	// ErrInvalidImageType is returned for unsupported artwork content types
	ErrInvalidImageType = errors.New("invalid image type")
)
