package catalog

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/friendsincode/projecton/internal/models"
	"github.com/friendsincode/projecton/internal/slides"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Song{},
		&models.CustomSlide{},
		&models.WebEntry{},
		&models.BackgroundThumbnail{},
		&models.ImageThumbnail{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func testService(t *testing.T) *Service {
	t.Helper()
	return New(setupTestDB(t), zerolog.Nop())
}

func TestSaveSongAndGet(t *testing.T) {
	svc := testService(t)

	song := &models.Song{Title: "Amazing Grace", Author: "John Newton", Lyrics: "[v1]\nAmazing grace"}
	if err := svc.SaveSong(song, ""); err != nil {
		t.Fatalf("SaveSong: %v", err)
	}
	if song.ID == "" {
		t.Error("SaveSong did not assign an ID")
	}

	got, err := svc.GetSongData("Amazing Grace")
	if err != nil {
		t.Fatalf("GetSongData: %v", err)
	}
	if got.Author != "John Newton" {
		t.Errorf("author = %q", got.Author)
	}
}

func TestSaveSongDuplicateTitle(t *testing.T) {
	svc := testService(t)

	if err := svc.SaveSong(&models.Song{Title: "Taken"}, ""); err != nil {
		t.Fatalf("SaveSong: %v", err)
	}
	err := svc.SaveSong(&models.Song{Title: "Taken"}, "")
	if !errors.Is(err, ErrTitleExists) {
		t.Errorf("duplicate insert err = %v, want ErrTitleExists", err)
	}
}

func TestSaveSongRename(t *testing.T) {
	svc := testService(t)

	orig := &models.Song{Title: "Old Name", Lyrics: "body"}
	if err := svc.SaveSong(orig, ""); err != nil {
		t.Fatalf("SaveSong: %v", err)
	}

	renamed := &models.Song{Title: "New Name", Lyrics: "body"}
	if err := svc.SaveSong(renamed, "Old Name"); err != nil {
		t.Fatalf("SaveSong rename: %v", err)
	}
	if renamed.ID != orig.ID {
		t.Errorf("rename changed the row ID: %q vs %q", renamed.ID, orig.ID)
	}

	if _, err := svc.GetSongData("Old Name"); !errors.Is(err, ErrNotFound) {
		t.Errorf("old title still resolves: %v", err)
	}
	if _, err := svc.GetSongData("New Name"); err != nil {
		t.Errorf("new title does not resolve: %v", err)
	}
}

func TestSaveSongUpdateMissing(t *testing.T) {
	svc := testService(t)
	err := svc.SaveSong(&models.Song{Title: "X"}, "Never Existed")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("update of missing row err = %v, want ErrNotFound", err)
	}
}

func TestSaveWebUpsert(t *testing.T) {
	svc := testService(t)

	if err := svc.SaveWeb("Church Site", "https://example.org"); err != nil {
		t.Fatalf("SaveWeb: %v", err)
	}
	if err := svc.SaveWeb("Church Site", "https://example.org/new"); err != nil {
		t.Fatalf("SaveWeb update: %v", err)
	}

	entry, err := svc.GetWebEntry("Church Site")
	if err != nil {
		t.Fatalf("GetWebEntry: %v", err)
	}
	if entry.URL != "https://example.org/new" {
		t.Errorf("url = %q", entry.URL)
	}

	entries, err := svc.db.Model(&models.WebEntry{}).Rows()
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	defer entries.Close()
	count := 0
	for entries.Next() {
		count++
	}
	if count != 1 {
		t.Errorf("upsert left %d rows, want 1", count)
	}
}

func TestGetTitlesOrdered(t *testing.T) {
	svc := testService(t)
	for _, title := range []string{"Zeal", "Alpha", "Middle"} {
		if err := svc.SaveSong(&models.Song{Title: title}, ""); err != nil {
			t.Fatalf("SaveSong: %v", err)
		}
	}

	titles, err := svc.GetSongTitles()
	if err != nil {
		t.Fatalf("GetSongTitles: %v", err)
	}
	want := []string{"Alpha", "Middle", "Zeal"}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("titles[%d] = %q, want %q", i, titles[i], want[i])
		}
	}
}

func TestDeleteItem(t *testing.T) {
	svc := testService(t)
	if err := svc.SaveSong(&models.Song{Title: "Doomed"}, ""); err != nil {
		t.Fatalf("SaveSong: %v", err)
	}

	if err := svc.DeleteItem(ItemRef{Kind: slides.KindSong, Title: "Doomed"}); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if _, err := svc.GetSongData("Doomed"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted song still resolves: %v", err)
	}

	err := svc.DeleteItem(ItemRef{Kind: slides.KindSong, Title: "Doomed"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestNextFreeTitle(t *testing.T) {
	svc := testService(t)

	if got := svc.NextFreeTitle("Fresh", slides.KindSong); got != "Fresh" {
		t.Errorf("free title suggestion = %q", got)
	}

	for _, title := range []string{"Hymn", "Hymn (2)"} {
		if err := svc.SaveSong(&models.Song{Title: title}, ""); err != nil {
			t.Fatalf("SaveSong: %v", err)
		}
	}
	if got := svc.NextFreeTitle("Hymn", slides.KindSong); got != "Hymn (3)" {
		t.Errorf("NextFreeTitle = %q, want Hymn (3)", got)
	}
}
