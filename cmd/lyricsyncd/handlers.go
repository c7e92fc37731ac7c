package main

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"lyricsync/internal/service"
	"lyricsync/pkg/logger"
)

// Server encapsulates the HTTP server and its dependencies
type Server struct {
	library *service.Library
	config  *ServerConfig
	log     *logger.Logger
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	DataDir        string
	AllowedOrigins []string
}

// NewServer creates a new server instance
func NewServer(library *service.Library, config *ServerConfig) *Server {
	return &Server{
		library: library,
		config:  config,
		log:     logger.GetLogger(),
	}
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("Failed to encode JSON response: %v", err)
	}
}

// respondError writes an error response
func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "LyricSync API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":  "GET /health",
			"upload":  "POST /api/upload",
			"library": "GET /api/library",
			"lyrics":  "GET /api/lyrics/{storedName}",
			"media":   "GET /media/{storedName}",
		},
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// readFormFile reads the named multipart file part in full.
func readFormFile(r *http.Request, field string) ([]byte, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return data, header.Filename, nil
}

// handleUpload handles POST /api/upload (multipart: audio + lyrics)
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		s.log.Errorf("Failed to parse form: %v", err)
		s.respondError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	audioData, audioName, err := readFormFile(r, "audio")
	if err != nil {
		s.log.Errorf("Failed to get audio file: %v", err)
		s.respondError(w, http.StatusBadRequest, "audio file is required")
		return
	}

	lyricsData, lyricsName, err := readFormFile(r, "lyrics")
	if err != nil {
		s.log.Errorf("Failed to get lyrics file: %v", err)
		s.respondError(w, http.StatusBadRequest, "lyrics file is required")
		return
	}

	lyricsUpload, err := s.library.IngestLyrics(lyricsData, lyricsName)
	if err != nil {
		s.log.Errorf("Failed to ingest lyrics: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to store lyrics file")
		return
	}
	if len(lyricsUpload.Lines) == 0 {
		s.respondError(w, http.StatusUnprocessableEntity, "No timestamped lines found in lyrics file")
		return
	}

	trackUpload, err := s.library.IngestAudio(audioData, audioName)
	if err != nil {
		s.log.Errorf("Failed to ingest audio: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to store audio file")
		return
	}

	message := "Upload accepted"
	if trackUpload.Duplicate && lyricsUpload.Duplicate {
		message = "Upload matched existing files"
	}
	s.log.Infof("Upload complete: %s + %s (%d lyric lines)", audioName, lyricsName, len(lyricsUpload.Lines))

	s.respondJSON(w, http.StatusCreated, UploadResponse{
		Message: message,
		Track: TrackDTO{
			FileRecordDTO: toFileRecordDTO(*trackUpload.Record),
			Duplicate:     trackUpload.Duplicate,
			DurationSec:   trackUpload.DurationSec,
		},
		Lyrics: LyricsDTO{
			FileRecordDTO: toFileRecordDTO(*lyricsUpload.Record),
			Duplicate:     lyricsUpload.Duplicate,
			Lines:         lyricsUpload.Lines,
		},
	})
}

// handleLibrary handles GET /api/library
func (s *Server) handleLibrary(w http.ResponseWriter, r *http.Request) {
	records := s.library.Records()

	files := make([]FileRecordDTO, len(records))
	for i, rec := range records {
		files[i] = toFileRecordDTO(rec)
	}

	s.respondJSON(w, http.StatusOK, LibraryResponse{
		Files: files,
		Count: len(files),
	})
}

// handleLyrics handles GET /api/lyrics/{storedName}
func (s *Server) handleLyrics(w http.ResponseWriter, r *http.Request) {
	storedName := r.URL.Path[len("/api/lyrics/"):]
	if storedName == "" {
		s.respondError(w, http.StatusBadRequest, "Stored name required")
		return
	}

	lines, err := s.library.Lyrics(storedName)
	if err != nil {
		s.log.Warnf("Lyrics not found: %s (%v)", storedName, err)
		s.respondError(w, http.StatusNotFound, "Lyrics file not found")
		return
	}

	s.respondJSON(w, http.StatusOK, LyricsResponse{
		StoredName: storedName,
		Lines:      lines,
		Count:      len(lines),
	})
}

// handleMedia handles GET /media/{storedName}
func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	storedName := r.URL.Path[len("/media/"):]
	path, err := s.library.MediaPath(storedName)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid media name")
		return
	}
	http.ServeFile(w, r, path)
}

// handleUploadRoute routes requests to /api/upload
func (s *Server) handleUploadRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.handleUpload(w, r)
}

// handleLibraryRoute routes requests to /api/library
func (s *Server) handleLibraryRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.handleLibrary(w, r)
}
