package registry

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestHashDeterministic(t *testing.T) {
	data := []byte("the same bytes every time")

	if Hash(data) != Hash(data) {
		t.Error("Expected identical digests for identical content")
	}
	if Hash(data) == Hash([]byte("different bytes")) {
		t.Error("Expected different digests for different content")
	}
	if len(Hash(data)) != 64 {
		t.Errorf("Expected 64 hex chars, got %d", len(Hash(data)))
	}
}

func TestHashReaderMatchesHash(t *testing.T) {
	data := []byte("streamed or buffered, same digest")

	digest, err := HashReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("HashReader failed: %v", err)
	}
	if digest != Hash(data) {
		t.Errorf("HashReader = %s, Hash = %s", digest, Hash(data))
	}
}

func TestLookupAbsent(t *testing.T) {
	r := New()

	if rec, ok := r.Lookup(Hash([]byte("never registered"))); ok {
		t.Errorf("Expected absent, got %+v", rec)
	}
}

func TestRegisterAndLookup(t *testing.T) {
	r := New()
	digest := Hash([]byte("song.wav bytes"))

	rec, err := r.Register(digest, "stored.wav", "song.wav")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if rec.ContentHash != digest {
		t.Errorf("Expected digest %s, got %s", digest, rec.ContentHash)
	}
	if rec.StoredName != "stored.wav" || rec.OriginalName != "song.wav" {
		t.Errorf("Unexpected names: %+v", rec)
	}
	if rec.RegisteredAt.IsZero() {
		t.Error("Expected RegisteredAt to be set")
	}

	got, ok := r.Lookup(digest)
	if !ok {
		t.Fatal("Expected record after Register")
	}
	if got != rec {
		t.Error("Lookup returned a different record")
	}
}

func TestRegisterDuplicateFails(t *testing.T) {
	r := New()
	digest := Hash([]byte("dup"))

	if _, err := r.Register(digest, "a.wav", "a.wav"); err != nil {
		t.Fatalf("First Register failed: %v", err)
	}

	_, err := r.Register(digest, "b.wav", "b.wav")
	if !errors.Is(err, ErrDuplicateHash) {
		t.Errorf("Expected ErrDuplicateHash, got %v", err)
	}

	// The original record must be untouched.
	rec, _ := r.Lookup(digest)
	if rec.StoredName != "a.wav" {
		t.Errorf("Expected first registration to win, got %s", rec.StoredName)
	}
}

func TestGetOrRegister(t *testing.T) {
	r := New()
	digest := Hash([]byte("once"))

	first, created := r.GetOrRegister(digest, "a.txt", "original.txt")
	if !created {
		t.Error("Expected created=true on first call")
	}

	second, created := r.GetOrRegister(digest, "b.txt", "other.txt")
	if created {
		t.Error("Expected created=false on second call")
	}
	if second != first {
		t.Error("Expected the existing record back")
	}
	if second.StoredName != "a.txt" {
		t.Errorf("Expected stored name a.txt, got %s", second.StoredName)
	}
}

func TestGetOrRegisterConcurrent(t *testing.T) {
	r := New()
	digest := Hash([]byte("raced"))

	const workers = 16
	createdCount := make(chan bool, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, created := r.GetOrRegister(digest, "x.wav", "x.wav")
			createdCount <- created
		}()
	}
	wg.Wait()
	close(createdCount)

	total := 0
	for created := range createdCount {
		if created {
			total++
		}
	}
	if total != 1 {
		t.Errorf("Expected exactly one creation, got %d", total)
	}
	if r.Len() != 1 {
		t.Errorf("Expected 1 record, got %d", r.Len())
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }
func (failingReader) Close() error             { return nil }

func TestBulkLoad(t *testing.T) {
	r := New()

	files := []StoredFile{
		{StoredName: "one.lrc", Open: openString("[00:01.00] a")},
		{StoredName: "two.lrc", Open: openString("[00:02.00] b")},
		// Same content as one.lrc under another name: registered once.
		{StoredName: "copy.lrc", Open: openString("[00:01.00] a")},
		// Unreadable entries are skipped, not fatal.
		{StoredName: "broken.lrc", Open: func() (io.ReadCloser, error) {
			return nil, errors.New("permission denied")
		}},
		{StoredName: "truncated.lrc", Open: func() (io.ReadCloser, error) {
			return failingReader{}, nil
		}},
	}

	loaded := r.BulkLoad(files)
	if loaded != 2 {
		t.Errorf("Expected 2 records loaded, got %d", loaded)
	}
	if r.Len() != 2 {
		t.Errorf("Expected registry size 2, got %d", r.Len())
	}

	rec, ok := r.Lookup(Hash([]byte("[00:01.00] a")))
	if !ok {
		t.Fatal("Expected record for shared content")
	}
	if rec.StoredName != "one.lrc" {
		t.Errorf("Expected first-seen file to own the digest, got %s", rec.StoredName)
	}
	if rec.OriginalName != "one.lrc" {
		t.Errorf("Expected original name to fall back to stored name, got %s", rec.OriginalName)
	}
}

func TestRecordsSnapshot(t *testing.T) {
	r := New()
	r.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

	r.Register(Hash([]byte("a")), "a.wav", "a.wav")
	r.Register(Hash([]byte("b")), "b.wav", "b.wav")

	records := r.Records()
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	for _, rec := range records {
		if !rec.RegisteredAt.Equal(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)) {
			t.Errorf("Expected injected clock time, got %v", rec.RegisteredAt)
		}
	}
}

func openString(content string) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(content)), nil
	}
}
