// Package registry is the content-addressed deduplication index: one
// FileRecord per distinct content digest, process lifetime, rebuilt at
// startup from whatever the byte store already holds.
package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"lyricsync/pkg/logger"
)

// ErrDuplicateHash is returned by Register when a record for the digest
// already exists. Callers that cannot guarantee a prior Lookup should
// use GetOrRegister instead.
var ErrDuplicateHash = errors.New("content hash already registered")

// FileRecord describes one distinct piece of stored content. Records
// are never mutated after insertion.
type FileRecord struct {
	ContentHash  string
	StoredName   string
	OriginalName string
	RegisteredAt time.Time
}

// Hash returns the lowercase hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashReader digests everything readable from r.
func HashReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("hashing content: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Registry maps content digests to file records. All methods are safe
// for concurrent use; GetOrRegister performs lookup-then-insert as one
// critical section so two simultaneous uploads of identical content
// produce exactly one record.
type Registry struct {
	mu      sync.Mutex
	records map[string]*FileRecord
	log     *logger.Logger
	now     func() time.Time
}

func New() *Registry {
	return &Registry{
		records: make(map[string]*FileRecord),
		log:     logger.GetLogger(),
		now:     time.Now,
	}
}

// Lookup returns the record for digest, if one exists.
func (r *Registry) Lookup(digest string) (*FileRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[digest]
	return rec, ok
}

// Register inserts a new record for digest. It fails with
// ErrDuplicateHash if the digest is already present.
func (r *Registry) Register(digest, storedName, originalName string) (*FileRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[digest]; ok {
		return nil, fmt.Errorf("digest %s: %w", shortDigest(digest), ErrDuplicateHash)
	}
	return r.insert(digest, storedName, originalName), nil
}

// GetOrRegister returns the existing record for digest or inserts a new
// one atomically. created reports whether a new record was inserted.
func (r *Registry) GetOrRegister(digest, storedName, originalName string) (rec *FileRecord, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.records[digest]; ok {
		return rec, false
	}
	return r.insert(digest, storedName, originalName), true
}

// insert expects the caller to hold r.mu.
func (r *Registry) insert(digest, storedName, originalName string) *FileRecord {
	rec := &FileRecord{
		ContentHash:  digest,
		StoredName:   storedName,
		OriginalName: originalName,
		RegisteredAt: r.now(),
	}
	r.records[digest] = rec
	return rec
}

// Len returns the number of registered records.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Records returns a snapshot of all registered records, in no
// particular order.
func (r *Registry) Records() []FileRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]FileRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, *rec)
	}
	return out
}

// StoredFile is one startup-scan entry handed to BulkLoad. Open is
// called once; the returned reader is closed by BulkLoad.
type StoredFile struct {
	StoredName string
	Open       func() (io.ReadCloser, error)
}

// BulkLoad hashes every file and registers the digests not already
// present, using the stored name as the original name. Files that
// cannot be read or hashed are logged and skipped; the load never
// aborts. Returns the number of records inserted.
func (r *Registry) BulkLoad(files []StoredFile) int {
	loaded := 0
	for _, f := range files {
		rc, err := f.Open()
		if err != nil {
			r.log.Warnf("skipping %s: %v", f.StoredName, err)
			continue
		}
		digest, err := HashReader(rc)
		rc.Close()
		if err != nil {
			r.log.Warnf("skipping %s: %v", f.StoredName, err)
			continue
		}
		if _, created := r.GetOrRegister(digest, f.StoredName, f.StoredName); created {
			loaded++
		} else {
			r.log.Debugf("duplicate content in store: %s", f.StoredName)
		}
	}
	return loaded
}

func shortDigest(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}
