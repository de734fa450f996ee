package workers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nodego-run/nodego/internal/engine"
	"github.com/nodego-run/nodego/internal/envelope"
)

func TestReadFileOk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.txt")
	if err := os.WriteFile(path, []byte("hello world"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	pool := NewPool(nil)
	ch := make(envelope.Chan, 1)
	ReadFile(pool, ch, path, engine.Callback{})
	pool.Wait()

	switch e := (<-ch).(type) {
	case envelope.ReadOk:
		if e.Contents != "hello world" {
			t.Fatalf("Contents = %q, want %q", e.Contents, "hello world")
		}
	default:
		t.Fatalf("unexpected envelope: %#v", e)
	}
}

func TestReadFileMissingYieldsReadErr(t *testing.T) {
	pool := NewPool(nil)
	ch := make(envelope.Chan, 1)
	ReadFile(pool, ch, filepath.Join(t.TempDir(), "missing.txt"), engine.Callback{})
	pool.Wait()

	switch e := (<-ch).(type) {
	case envelope.ReadErr:
		if e.Message == "" {
			t.Fatal("expected a non-empty error message")
		}
	default:
		t.Fatalf("unexpected envelope: %#v", e)
	}
}

func TestWriteFileThenReadBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	pool := NewPool(nil)
	ch := make(envelope.Chan, 1)
	WriteFile(pool, ch, path, "round trip", engine.Callback{})
	pool.Wait()

	if _, ok := (<-ch).(envelope.WriteOk); !ok {
		t.Fatal("expected WriteOk")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "round trip" {
		t.Fatalf("content = %q, want %q", data, "round trip")
	}
}

func TestWriteFileBadPathYieldsWriteErr(t *testing.T) {
	pool := NewPool(nil)
	ch := make(envelope.Chan, 1)
	// A directory that does not exist: the write must fail rather than
	// silently creating intermediate directories.
	badPath := filepath.Join(t.TempDir(), "missing-dir", "out.txt")
	WriteFile(pool, ch, badPath, "data", engine.Callback{})
	pool.Wait()

	switch e := (<-ch).(type) {
	case envelope.WriteErr:
		if e.Message == "" {
			t.Fatal("expected a non-empty error message")
		}
	default:
		t.Fatalf("unexpected envelope: %#v", e)
	}
}
