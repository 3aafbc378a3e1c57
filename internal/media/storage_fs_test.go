package media

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestFilesystemStoreAndOpen(t *testing.T) {
	root := t.TempDir()
	fs := NewFilesystemStorage(root, zerolog.Nop())
	ctx := context.Background()

	path, err := fs.Store(ctx, CategoryImages, "/uploads/../sunrise.jpg", strings.NewReader("jpeg-bytes"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	// Only the base name survives; callers cannot escape the category dir.
	if want := filepath.Join(root, CategoryImages, "sunrise.jpg"); path != want {
		t.Errorf("stored path = %q, want %q", path, want)
	}

	rc, err := fs.Open(ctx, CategoryImages, "sunrise.jpg")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("content = %q", data)
	}
}

func TestFilesystemStoreRejectsUnknownCategory(t *testing.T) {
	fs := NewFilesystemStorage(t.TempDir(), zerolog.Nop())
	if _, err := fs.Store(context.Background(), "etc", "passwd", strings.NewReader("x")); err == nil {
		t.Error("unknown category accepted")
	}
}

func TestFilesystemDeleteRemovesVideoSidecar(t *testing.T) {
	root := t.TempDir()
	fs := NewFilesystemStorage(root, zerolog.Nop())
	ctx := context.Background()

	if _, err := fs.Store(ctx, CategoryVideos, "clip.mp4", strings.NewReader("mp4")); err != nil {
		t.Fatalf("store: %v", err)
	}
	thumb := filepath.Join(root, CategoryVideos, "clip.jpg")
	if err := os.WriteFile(thumb, []byte("jpg"), 0o644); err != nil {
		t.Fatalf("write thumbnail: %v", err)
	}

	if err := fs.Delete(ctx, CategoryVideos, "clip.mp4"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(thumb); !os.IsNotExist(err) {
		t.Error("thumbnail sidecar survived the delete")
	}

	// Deleting an absent file is not an error.
	if err := fs.Delete(ctx, CategoryVideos, "clip.mp4"); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestFilesystemList(t *testing.T) {
	root := t.TempDir()
	fs := NewFilesystemStorage(root, zerolog.Nop())
	ctx := context.Background()

	// A category that was never written lists as empty, not as an error.
	names, err := fs.List(ctx, CategoryBackgrounds)
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("names = %v", names)
	}

	for _, name := range []string{"b.jpg", "a.jpg", "c.png"} {
		if _, err := fs.Store(ctx, CategoryBackgrounds, name, strings.NewReader("x")); err != nil {
			t.Fatalf("store %s: %v", name, err)
		}
	}
	// Subdirectories are not media files.
	if err := os.Mkdir(filepath.Join(root, CategoryBackgrounds, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	names, err = fs.List(ctx, CategoryBackgrounds)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"a.jpg", "b.jpg", "c.png"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestEnsureLayout(t *testing.T) {
	root := t.TempDir()
	fs := NewFilesystemStorage(root, zerolog.Nop())
	if err := fs.EnsureLayout(); err != nil {
		t.Fatalf("ensure layout: %v", err)
	}
	for _, cat := range []string{CategoryBackgrounds, CategoryImages, CategoryVideos, CategoryBibles} {
		info, err := os.Stat(filepath.Join(root, cat))
		if err != nil || !info.IsDir() {
			t.Errorf("category %s missing after EnsureLayout", cat)
		}
	}
	if err := fs.CheckAccess(context.Background()); err != nil {
		t.Errorf("check access: %v", err)
	}
}
