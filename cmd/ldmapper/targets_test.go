package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadTargets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.txt")
	if err := os.WriteFile(path, []byte("# Targets of interest\nrs7782915\n\n rs6965954 \nrs149169037\n"), 0644); err != nil {
		t.Fatal(err)
	}

	targets, err := readTargets("rs149169037, rs143275498,,", path)
	if err != nil {
		t.Fatal(err)
	}

	expected := []string{"rs149169037", "rs143275498", "rs7782915", "rs6965954"}
	if !reflect.DeepEqual(targets, expected) {
		t.Errorf("Expected %v, got %v", expected, targets)
	}

	if _, err := readTargets("", filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("Expected an error for a missing targets file")
	}
}

func TestNeedsStorage(t *testing.T) {
	if needsStorage("participants.csv", "") {
		t.Error("Local paths should not need a storage client")
	}
	if !needsStorage("participants.csv", "gs://bucket/blocklist.txt") {
		t.Error("gs:// paths need a storage client")
	}
}
