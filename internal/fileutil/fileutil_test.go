package fileutil_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"cinepress/internal/fileutil"
)

func TestWriteViaTempRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "frame.j2c")
	payload := []byte{0x00, 0x01, 0x02, 0xff}
	if err := fileutil.WriteViaTemp(path, payload); err != nil {
		t.Fatalf("WriteViaTemp: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: got %v want %v", got, payload)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp file left behind: %v", entries)
	}
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.bin")
	dst := filepath.Join(dir, "out", "b.bin")
	if err := os.WriteFile(src, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := fileutil.MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatal("source still exists")
	}
	if got, err := os.ReadFile(dst); err != nil || string(got) != "data" {
		t.Fatalf("destination content: %q, %v", got, err)
	}
}

func TestTreeSize(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a"), make([]byte, 10), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "b"), make([]byte, 32), 0o644); err != nil {
		t.Fatal(err)
	}
	size, err := fileutil.TreeSize(dir)
	if err != nil {
		t.Fatalf("TreeSize: %v", err)
	}
	if size != 42 {
		t.Fatalf("TreeSize: got %d want 42", size)
	}
}
