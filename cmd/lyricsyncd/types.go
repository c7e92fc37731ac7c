package main

import (
	"time"

	"lyricsync/internal/lyrics"
	"lyricsync/internal/registry"
)

// MaxUploadBytes caps the multipart form size for POST /api/upload.
const MaxUploadBytes = 50 << 20

// FileRecordDTO represents one registered file in API responses.
type FileRecordDTO struct {
	ContentHash  string    `json:"content_hash"`
	StoredName   string    `json:"stored_name"`
	OriginalName string    `json:"original_name"`
	RegisteredAt time.Time `json:"registered_at"`
	URL          string    `json:"url"`
}

func toFileRecordDTO(rec registry.FileRecord) FileRecordDTO {
	return FileRecordDTO{
		ContentHash:  rec.ContentHash,
		StoredName:   rec.StoredName,
		OriginalName: rec.OriginalName,
		RegisteredAt: rec.RegisteredAt,
		URL:          "/media/" + rec.StoredName,
	}
}

// TrackDTO describes the audio half of an upload.
type TrackDTO struct {
	FileRecordDTO
	Duplicate   bool    `json:"duplicate"`
	DurationSec float64 `json:"duration_sec,omitempty"`
}

// LyricsDTO describes the lyrics half of an upload.
type LyricsDTO struct {
	FileRecordDTO
	Duplicate bool          `json:"duplicate"`
	Lines     []lyrics.Line `json:"lines"`
}

// UploadResponse is the response for POST /api/upload.
type UploadResponse struct {
	Message string    `json:"message"`
	Track   TrackDTO  `json:"track"`
	Lyrics  LyricsDTO `json:"lyrics"`
}

// LibraryResponse is the response for GET /api/library.
type LibraryResponse struct {
	Files []FileRecordDTO `json:"files"`
	Count int             `json:"count"`
}

// LyricsResponse is the response for GET /api/lyrics/{storedName}.
type LyricsResponse struct {
	StoredName string        `json:"stored_name"`
	Lines      []lyrics.Line `json:"lines"`
	Count      int           `json:"count"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
