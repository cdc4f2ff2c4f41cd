package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"taskmate/internal/model"
)

type songRepository struct {
	db *sqlx.DB
}

func NewSongRepository(db *sqlx.DB) SongRepository {
	return &songRepository{db: db}
}

// Create inserts a new song into the catalog.
func (r *songRepository) Create(ctx context.Context, s *model.Song) error {
	query := `
		INSERT INTO songs (title, artist, album, duration_seconds, artwork_url, artwork_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		s.Title,
		s.Artist,
		s.Album,
		s.DurationSeconds,
		s.ArtworkURL,
		s.ArtworkKey,
	)

	if err := row.Scan(&s.ID, &s.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	return nil
}

// GetByID retrieves a single song.
func (r *songRepository) GetByID(ctx context.Context, id int64) (*model.Song, error) {
	query := `
		SELECT id, title, artist, album, duration_seconds, artwork_url, artwork_key, created_at
		FROM songs
		WHERE id = $1
	`

	var s model.Song
	err := r.db.GetContext(ctx, &s, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrSongNotFound
		}
		return nil, fmt.Errorf("failed to get song: %w", err)
	}

	return &s, nil
}

// List returns the whole catalog ordered by artist then title.
func (r *songRepository) List(ctx context.Context) ([]model.Song, error) {
	query := `
		SELECT id, title, artist, album, duration_seconds, artwork_url, artwork_key, created_at
		FROM songs
		ORDER BY artist, title
	`

	var songs []model.Song
	err := r.db.SelectContext(ctx, &songs, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}

	return songs, nil
}
