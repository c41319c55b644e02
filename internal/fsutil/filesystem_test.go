package fsutil

import "testing"

func TestOSFileSystem_Exists(t *testing.T) {
	fs := OSFileSystem{}

	if !fs.Exists("filesystem.go") {
		t.Error("expected filesystem.go to exist")
	}

	if fs.Exists("nonexistent_file_xyz.go") {
		t.Error("expected nonexistent file to not exist")
	}
}

func TestMemoryFileSystem_Exists(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if mfs.Exists("/input.hist") {
		t.Error("expected file to not exist before Put")
	}

	mfs.Put("/input.hist")
	if !mfs.Exists("/input.hist") {
		t.Error("expected file to exist after Put")
	}
}

func TestMemoryFileSystem_PathCleaning(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.Put("./dirty/../clean.hist")

	if !mfs.Exists("clean.hist") {
		t.Error("expected cleaned path to match")
	}
}
