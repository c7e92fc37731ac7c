package store

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return s
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	if _, err := New(dir); err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("Expected store dir to exist: %v", err)
	}
}

func TestSaveAndRead(t *testing.T) {
	s := setupStore(t)
	data := []byte("[00:01.00] hello")

	name, err := s.Save(data, "song.lrc")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.HasSuffix(name, ".lrc") {
		t.Errorf("Expected original extension kept, got %s", name)
	}

	got, err := s.Read(name)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("Read returned %q, want %q", got, data)
	}
}

func TestSaveGeneratesUniqueNames(t *testing.T) {
	s := setupStore(t)
	data := []byte("same bytes")

	first, err := s.Save(data, "a.wav")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	second, err := s.Save(data, "a.wav")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if first == second {
		t.Errorf("Expected distinct generated names, got %s twice", first)
	}
}

func TestSaveUppercaseExtensionLowered(t *testing.T) {
	s := setupStore(t)

	name, err := s.Save([]byte("x"), "TRACK.WAV")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.HasSuffix(name, ".wav") {
		t.Errorf("Expected lowercase extension, got %s", name)
	}
}

func TestList(t *testing.T) {
	s := setupStore(t)

	if names, err := s.List(); err != nil || len(names) != 0 {
		t.Fatalf("Expected empty store, got %v (err %v)", names, err)
	}

	saved := map[string]bool{}
	for i := 0; i < 3; i++ {
		name, err := s.Save([]byte{byte(i)}, "f.txt")
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		saved[name] = true
	}

	// Subdirectories are not store entries.
	if err := os.Mkdir(filepath.Join(s.Dir(), "subdir"), 0o755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}

	names, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(names))
	}
	for _, name := range names {
		if !saved[name] {
			t.Errorf("Unexpected entry %s", name)
		}
	}
}

func TestRemove(t *testing.T) {
	s := setupStore(t)

	name, err := s.Save([]byte("bye"), "x.txt")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Remove(name); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := s.Read(name); err == nil {
		t.Error("Expected Read to fail after Remove")
	}
}

func TestPathRejectsTraversal(t *testing.T) {
	s := setupStore(t)

	for _, bad := range []string{"", "../escape", "a/b.txt", "..", "/etc/passwd"} {
		if _, err := s.Path(bad); err == nil {
			t.Errorf("Expected Path(%q) to be rejected", bad)
		}
	}
}

func TestOpenStreams(t *testing.T) {
	s := setupStore(t)
	data := []byte("stream me")

	name, err := s.Save(data, "s.txt")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	rc, err := s.Open(name)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rc); err != nil {
		t.Fatalf("ReadFrom failed: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), data) {
		t.Errorf("Open returned %q, want %q", buf.Bytes(), data)
	}
}
