package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"taskmate/internal/httputil"
	"taskmate/internal/model"
	"taskmate/internal/service"
)

// SongHandler serves the public song catalog. Listing and reads are open;
// adding a song requires authentication (enforced by the router).
type SongHandler struct {
	songs   *service.SongService
	artwork *service.ArtworkService // Can be nil if R2 not configured
}

// NewSongHandler creates a new SongHandler.
func NewSongHandler(songs *service.SongService, artwork *service.ArtworkService) *SongHandler {
	return &SongHandler{
		songs:   songs,
		artwork: artwork,
	}
}

// List handles GET /songs.
func (h *SongHandler) List(w http.ResponseWriter, r *http.Request) {
	songs, err := h.songs.List(r.Context())
	if err != nil {
		log.Printf("[Song] List error: %v", err)
		httputil.WriteInternalError(w, "Failed to list songs")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, songs)
}

// Get handles GET /songs/{id}.
func (h *SongHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		httputil.WriteBadRequest(w, "Invalid song ID")
		return
	}

	song, err := h.songs.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrSongNotFound) {
			httputil.WriteNotFound(w, "Song not found")
			return
		}
		log.Printf("[Song] Get error: %v", err)
		httputil.WriteInternalError(w, "Failed to get song")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, song)
}

// Create handles POST /songs as a multipart form: title, artist, album,
// duration_seconds fields plus an optional artwork image.
func (h *SongHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(model.MaxArtworkSizeBytes + 1024*1024); err != nil {
		httputil.WriteBadRequest(w, "Invalid multipart form")
		return
	}

	req := &model.CreateSongRequest{
		Title:  r.FormValue("title"),
		Artist: r.FormValue("artist"),
		Album:  r.FormValue("album"),
	}

	if durStr := r.FormValue("duration_seconds"); durStr != "" {
		dur, err := strconv.Atoi(durStr)
		if err != nil || dur < 0 {
			httputil.WriteBadRequest(w, "Invalid duration")
			return
		}
		req.DurationSeconds = dur
	}

	file, header, err := r.FormFile("artwork")
	if err == nil {
		defer file.Close()

		if h.artwork == nil {
			httputil.WriteInternalError(w, "Artwork storage not configured")
			return
		}

		result, err := h.artwork.UploadArtwork(r.Context(), file, header)
		if err != nil {
			switch {
			case errors.Is(err, model.ErrFileTooLarge):
				httputil.WriteBadRequest(w, "Artwork too large")
			case errors.Is(err, model.ErrInvalidImageType):
				httputil.WriteBadRequest(w, "Unsupported artwork type")
			default:
				log.Printf("[Song] Artwork upload error: %v", err)
				httputil.WriteInternalError(w, "Failed to upload artwork")
			}
			return
		}
		req.ArtworkURL = &result.URL
		req.ArtworkKey = &result.Key
	}

	song, err := h.songs.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, model.ErrSongFieldsRequired) {
			httputil.WriteBadRequest(w, "Title and artist are required")
			return
		}
		log.Printf("[Song] Create error: %v", err)
		httputil.WriteInternalError(w, "Failed to create song")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, song)
}
