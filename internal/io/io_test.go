package ioutils

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestListFolders_IgnoresFiles(t *testing.T) {
	base := t.TempDir()
	for _, dir := range []string{"item1", "item2", "item3"} {
		if err := os.Mkdir(filepath.Join(base, dir), 0755); err != nil {
			t.Fatal(err)
		}
	}
	for _, file := range []string{"notes.txt", "image.png"} {
		if err := os.WriteFile(filepath.Join(base, file), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := ListFolders(base)
	if err != nil {
		t.Fatalf("ListFolders() error = %v", err)
	}
	sort.Strings(got)

	want := []string{
		filepath.Join(base, "item1"),
		filepath.Join(base, "item2"),
		filepath.Join(base, "item3"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListFolders() mismatch (-want +got):\n%s", diff)
	}
}

func TestListFolders_Empty(t *testing.T) {
	got, err := ListFolders(t.TempDir())
	if err != nil {
		t.Fatalf("ListFolders() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ListFolders() = %v, want empty", got)
	}
}

func TestListFolders_MissingPath(t *testing.T) {
	_, err := ListFolders(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ListFolders() error = %v, want fs.ErrNotExist", err)
	}
}

func TestReadTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.txt")
	content := "Un gato en la luna\n\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadTextFile(path)
	if err != nil {
		t.Fatalf("ReadTextFile() error = %v", err)
	}
	if got != content {
		t.Errorf("ReadTextFile() = %q, want %q", got, content)
	}

	if _, err := ReadTextFile(filepath.Join(t.TempDir(), "nope.txt")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadTextFile(missing) error = %v, want fs.ErrNotExist", err)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "output.png")

	if FileExists(path) {
		t.Error("FileExists() = true before creation")
	}
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if !FileExists(path) {
		t.Error("FileExists() = false after creation")
	}
}

func TestEnsureDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b")

	for i := 0; i < 2; i++ {
		if err := EnsureDir(path); err != nil {
			t.Fatalf("EnsureDir() call %d error = %v", i+1, err)
		}
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		t.Errorf("EnsureDir() did not create %s: %v", path, err)
	}
}

func TestImageService_PasteReplacesPixels(t *testing.T) {
	svc := NewImageService()

	canvas := svc.NewCanvas(4, 4, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	layer := svc.NewCanvas(2, 2, color.NRGBA{R: 255, G: 255, B: 255, A: 0})

	out := svc.Paste(canvas, layer, image.Pt(1, 1))

	if got := out.NRGBAAt(1, 1); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 0}) {
		t.Errorf("pasted pixel = %v, want transparent white", got)
	}
	if got := out.NRGBAAt(0, 0); got != (color.NRGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("untouched pixel = %v, want background", got)
	}
}

func TestImageService_SaveAndOpen(t *testing.T) {
	svc := NewImageService()
	dir := t.TempDir()
	path := filepath.Join(dir, "output.png")

	img := svc.NewCanvas(3, 5, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	if err := svc.Save(context.Background(), img, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	decoded, err := svc.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got := decoded.Bounds().Size(); got != image.Pt(3, 5) {
		t.Errorf("decoded size = %v, want 3x5", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the output file, found %d entries", len(entries))
	}
}

func TestImageService_SaveUnsupportedExtension(t *testing.T) {
	svc := NewImageService()
	path := filepath.Join(t.TempDir(), "output.webp")

	err := svc.Save(context.Background(), svc.NewCanvas(1, 1, color.Black), path)
	if err == nil {
		t.Fatal("Save() with .webp should fail")
	}
	if FileExists(path) {
		t.Error("no file should be written for an unsupported format")
	}
}
