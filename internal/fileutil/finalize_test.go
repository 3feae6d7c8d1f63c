package fileutil_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/idelchi/unveil/internal/fileutil"
)

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "in.mp4")
	out := filepath.Join(dir, "out.mp4")

	if err := os.WriteFile(src, []byte("source"), 0o600); err != nil {
		t.Fatal(err)
	}

	modTime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := os.Chtimes(src, modTime, modTime); err != nil {
		t.Fatal(err)
	}

	data := []byte("decrypted payload")

	size, err := fileutil.WriteAtomic(src, out, data, true)
	if err != nil {
		t.Fatalf("WriteAtomic() error: %v", err)
	}

	if size != int64(len(data)) {
		t.Errorf("WriteAtomic() size = %d, want %d", size, len(data))
	}

	got, err := os.ReadFile(out) //nolint:gosec // test file
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(got, data) {
		t.Errorf("output = %q, want %q", got, data)
	}

	info, err := os.Stat(out)
	if err != nil {
		t.Fatal(err)
	}

	if !info.ModTime().Equal(modTime) {
		t.Errorf("output mtime = %v, want %v", info.ModTime(), modTime)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 2 {
		t.Errorf("directory has %d entries, want 2 (temp file left behind?)", len(entries))
	}
}

func TestWriteAtomicMissingSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := fileutil.WriteAtomic(filepath.Join(dir, "absent"), filepath.Join(dir, "out"), nil, false)
	if err == nil {
		t.Fatal("WriteAtomic() expected an error for a missing source")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 0 {
		t.Errorf("directory has %d entries, want 0", len(entries))
	}
}
