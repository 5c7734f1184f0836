package ldmapper

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestDetectDataType(t *testing.T) {
	if dt := DetectDataType([]byte{0x1f, 0x8b, 0x08, 0, 0, 0}); dt != DataTypeGzip {
		t.Errorf("Expected gzip, got %v", dt)
	}
	if dt := DetectDataType([]byte("rs1\n")); dt != DataTypeNoCompression {
		t.Errorf("Expected no compression, got %v", dt)
	}
	if dt := DetectDataType(nil); dt != DataTypeNoCompression {
		t.Errorf("Expected no compression for empty input, got %v", dt)
	}
}

func TestOpenInputPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocklist.txt")
	if err := os.WriteFile(path, []byte("rs1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	r, err := OpenInput(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "rs1\n" {
		t.Errorf("Unexpected contents %q", b)
	}
}

func TestOpenInputGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "participants.tsv.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte("participant_id\tvariant_id\nP001\trs11\n")); err != nil {
		t.Fatal(err)
	}
	gz.Close()
	f.Close()

	r, err := OpenInput(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "participant_id\tvariant_id\nP001\trs11\n" {
		t.Errorf("Unexpected contents %q", b)
	}
}

func TestOpenInputErrors(t *testing.T) {
	if _, err := OpenInput(filepath.Join(t.TempDir(), "missing.txt"), nil); err == nil {
		t.Error("Expected an error for a missing file")
	}

	if _, err := OpenInput("gs://bucket/object", nil); err == nil {
		t.Error("Expected an error for a gs:// path without a storage client")
	}
}
