package fsutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestOSFileSystem_Exists(t *testing.T) {
	fs := OSFileSystem{}

	if !fs.Exists("filesystem.go") {
		t.Error("expected filesystem.go to exist")
	}

	if fs.Exists("nonexistent_file_xyz.go") {
		t.Error("expected nonexistent file to not exist")
	}
}

func TestOSFileSystem_WriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "data", "out.csv")

	err := WriteAtomic(OSFileSystem{}, path, func(w io.Writer) error {
		_, err := io.WriteString(w, "front,left\n1,2\n")
		return err
	})
	if err != nil {
		t.Fatalf("WriteAtomic failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "front,left\n1,2\n" {
		t.Errorf("unexpected content %q", data)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
}

func TestOSFileSystem_WriteAtomicFailureKeepsOldFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	if err := os.WriteFile(path, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := WriteAtomic(OSFileSystem{}, path, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "previous" {
		t.Errorf("existing file modified: %q", data)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
}

func TestMemoryFileSystem_WriteAtomic(t *testing.T) {
	mfs := NewMemoryFileSystem()

	err := WriteAtomic(mfs, "data/out.csv", func(w io.Writer) error {
		_, err := io.WriteString(w, "hello")
		return err
	})
	if err != nil {
		t.Fatalf("WriteAtomic failed: %v", err)
	}

	if !mfs.Exists("data") {
		t.Error("expected output directory to be created")
	}
	data, err := mfs.ReadFile("data/out.csv")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("expected hello, got %q", data)
	}
	if files := mfs.Files(); len(files) != 1 {
		t.Errorf("expected exactly one file, got %v", files)
	}
}

func TestMemoryFileSystem_WriteAtomicFailureLeavesNothing(t *testing.T) {
	mfs := NewMemoryFileSystem()

	err := WriteAtomic(mfs, "data/out.csv", func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return errors.New("row 3: malformed")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if files := mfs.Files(); len(files) != 0 {
		t.Errorf("expected no files, got %v", files)
	}
}

func TestMemoryFileSystem_OpenAndRead(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.WriteFile("/in.csv", []byte("a,b\n"))

	f, err := mfs.Open("/in.csv")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(data) != "a,b\n" {
		t.Errorf("unexpected content %q", data)
	}

	info, err := f.Stat()
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Name() != "in.csv" || info.Size() != 4 {
		t.Errorf("unexpected info %s/%d", info.Name(), info.Size())
	}

	if _, err := mfs.Open("/missing.csv"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestMemoryFileSystem_CreateRequiresDirectory(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if _, err := mfs.Create("missing/out.csv"); err == nil {
		t.Error("expected error creating file in missing directory")
	}

	if err := mfs.MkdirAll("a/b/c", 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	for _, d := range []string{"a", "a/b", "a/b/c"} {
		if !mfs.Exists(d) {
			t.Errorf("expected %s to exist", d)
		}
	}
	if _, err := mfs.Create("a/b/c/out.csv"); err != nil {
		t.Errorf("Create failed: %v", err)
	}
}

func TestMemoryFileSystem_RenameAndRemove(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.WriteFile("/a", []byte("x"))

	if err := mfs.Rename("/a", "/b"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if mfs.Exists("/a") || !mfs.Exists("/b") {
		t.Error("rename did not move file")
	}
	if err := mfs.Rename("/a", "/c"); err == nil {
		t.Error("expected error renaming missing file")
	}
	if err := mfs.Remove("/b"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := mfs.Remove("/b"); err == nil {
		t.Error("expected error removing missing file")
	}
}
