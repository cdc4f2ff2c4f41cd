package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"taskmate/internal/cache"
	"taskmate/internal/model"
	"taskmate/internal/repository"
)

// SongService serves the public song catalog with a Redis read-through
// cache in front of the listing.
type SongService struct {
	songs repository.SongRepository
	cache cache.SongCache // Can be nil if Redis not configured
}

// NewSongService creates a new SongService.
func NewSongService(songs repository.SongRepository, songCache cache.SongCache) *SongService {
	return &SongService{
		songs: songs,
		cache: songCache,
	}
}

// List returns the full catalog, from cache when possible.
// Cache failures degrade to a direct DB read.
func (s *SongService) List(ctx context.Context) ([]model.Song, error) {
	if s.cache != nil {
		cached, found, err := s.cache.GetList(ctx)
		if err == nil && found {
			return cached, nil
		}
	}

	songs, err := s.songs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetList(ctx, songs); err != nil {
			log.Printf("[Song] Cache fill FAILED: err=%v", err)
		}
	}

	return songs, nil
}

// Get returns a single song by ID.
func (s *SongService) Get(ctx context.Context, id int64) (*model.Song, error) {
	return s.songs.GetByID(ctx, id)
}

// Create adds a song to the catalog and invalidates the cached listing.
func (s *SongService) Create(ctx context.Context, req *model.CreateSongRequest) (*model.Song, error) {
	title := strings.TrimSpace(req.Title)
	artist := strings.TrimSpace(req.Artist)
	if title == "" || artist == "" {
		return nil, model.ErrSongFieldsRequired
	}

	song := &model.Song{
		Title:           title,
		Artist:          artist,
		DurationSeconds: req.DurationSeconds,
		ArtworkURL:      req.ArtworkURL,
		ArtworkKey:      req.ArtworkKey,
	}
	if album := strings.TrimSpace(req.Album); album != "" {
		song.Album = &album
	}

	if err := s.songs.Create(ctx, song); err != nil {
		return nil, fmt.Errorf("create song: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			log.Printf("[Song] Cache invalidate FAILED: err=%v", err)
		}
	}

	log.Printf("[Song] Created: id=%d title=%q", song.ID, song.Title)
	return song, nil
}
