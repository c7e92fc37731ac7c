// Package service composes the byte store, hash registry, lyrics parser
// and audio probe into the upload and startup flows the outer surfaces
// (HTTP server, CLI) consume.
package service

import (
	"fmt"
	"io"

	"lyricsync/internal/lyrics"
	"lyricsync/internal/media"
	"lyricsync/internal/registry"
	"lyricsync/internal/store"
	"lyricsync/pkg/logger"
)

// Library owns the content-addressed upload flow.
type Library struct {
	store    *store.Store
	registry *registry.Registry
	parse    []lyrics.ParseOption
	log      *logger.Logger
}

// New builds a Library from the given options.
func New(opts ...Option) (*Library, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}

	st, err := store.New(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	return &Library{
		store:    st,
		registry: registry.New(),
		parse:    cfg.ParseOptions,
		log:      cfg.Logger,
	}, nil
}

// Bootstrap rebuilds the registry from the files already in the store.
// Unreadable files are skipped; the scan itself failing is fatal.
func (l *Library) Bootstrap() error {
	names, err := l.store.List()
	if err != nil {
		return fmt.Errorf("scanning store: %w", err)
	}

	files := make([]registry.StoredFile, 0, len(names))
	for _, name := range names {
		name := name
		files = append(files, registry.StoredFile{
			StoredName: name,
			Open: func() (io.ReadCloser, error) {
				return l.store.Open(name)
			},
		})
	}

	loaded := l.registry.BulkLoad(files)
	l.log.Infof("registry ready: %d record(s) (%d loaded from %s)", l.registry.Len(), loaded, l.store.Dir())
	return nil
}

// TrackUpload is the outcome of ingesting an audio upload.
type TrackUpload struct {
	Record      *registry.FileRecord
	Duplicate   bool
	DurationSec float64
}

// LyricsUpload is the outcome of ingesting a lyrics upload.
type LyricsUpload struct {
	Record    *registry.FileRecord
	Duplicate bool
	Lines     []lyrics.Line
}

// IngestAudio stores an uploaded audio file unless identical content is
// already registered, in which case the existing artifact is reused.
// The WAV header, when present, supplies the track duration; other
// formats upload fine with an unknown duration.
func (l *Library) IngestAudio(data []byte, originalName string) (*TrackUpload, error) {
	rec, dup, err := l.ingest(data, originalName)
	if err != nil {
		return nil, err
	}

	up := &TrackUpload{Record: rec, Duplicate: dup}
	if path, err := l.store.Path(rec.StoredName); err == nil {
		if info, err := media.Probe(path); err == nil {
			up.DurationSec = info.DurationSec
		} else {
			l.log.Debugf("no WAV header in %s: %v", rec.StoredName, err)
		}
	}
	return up, nil
}

// IngestLyrics stores an uploaded lyrics file with the same dedup flow
// and parses it. An empty parse result is not an error here; rejecting
// it is the upload handler's decision.
func (l *Library) IngestLyrics(data []byte, originalName string) (*LyricsUpload, error) {
	rec, dup, err := l.ingest(data, originalName)
	if err != nil {
		return nil, err
	}

	return &LyricsUpload{
		Record:    rec,
		Duplicate: dup,
		Lines:     lyrics.Parse(string(data), l.parse...),
	}, nil
}

// ingest hashes data and either reuses the record already holding that
// digest or saves the bytes and registers them. The save-then-register
// order means a lost race leaves a redundant file, which is removed.
func (l *Library) ingest(data []byte, originalName string) (*registry.FileRecord, bool, error) {
	digest := registry.Hash(data)
	if rec, ok := l.registry.Lookup(digest); ok {
		l.log.Debugf("duplicate upload %s matches %s", originalName, rec.StoredName)
		return rec, true, nil
	}

	storedName, err := l.store.Save(data, originalName)
	if err != nil {
		return nil, false, fmt.Errorf("storing %s: %w", originalName, err)
	}

	rec, created := l.registry.GetOrRegister(digest, storedName, originalName)
	if !created {
		// An identical upload won the race; keep the winner's copy.
		if err := l.store.Remove(storedName); err != nil {
			l.log.Warnf("removing redundant copy %s: %v", storedName, err)
		}
		return rec, true, nil
	}

	l.log.Infof("stored %s as %s", originalName, storedName)
	return rec, false, nil
}

// Lyrics re-reads and re-parses a stored lyrics file.
func (l *Library) Lyrics(storedName string) ([]lyrics.Line, error) {
	data, err := l.store.Read(storedName)
	if err != nil {
		return nil, fmt.Errorf("reading lyrics %s: %w", storedName, err)
	}
	return lyrics.Parse(string(data), l.parse...), nil
}

// Records returns a snapshot of every registered file.
func (l *Library) Records() []registry.FileRecord {
	return l.registry.Records()
}

// MediaPath resolves a stored name to its on-disk path for serving.
func (l *Library) MediaPath(storedName string) (string, error) {
	return l.store.Path(storedName)
}
