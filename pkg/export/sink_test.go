package export

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSink_Write(t *testing.T) {
	dir := t.TempDir()
	sink := FileSink{Dir: dir}

	if err := sink.Write("out.csv", []byte("a,b\n1,2\n")); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	if err != nil {
		t.Fatalf("ReadFile() unexpected error: %v", err)
	}
	if string(got) != "a,b\n1,2\n" {
		t.Errorf("content = %q, want %q", got, "a,b\n1,2\n")
	}
}

func TestFileSink_Overwrites(t *testing.T) {
	dir := t.TempDir()
	sink := FileSink{Dir: dir}

	if err := sink.Write("out.json", []byte("first")); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}
	if err := sink.Write("out.json", []byte("second")); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}

	got, _ := os.ReadFile(filepath.Join(dir, "out.json"))
	if string(got) != "second" {
		t.Errorf("content = %q, want full-content overwrite", got)
	}
}

func TestFileSink_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports", "daily")
	sink := FileSink{Dir: dir}

	if err := sink.Write("out.csv", []byte("x")); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out.csv")); err != nil {
		t.Errorf("artifact missing: %v", err)
	}
}
