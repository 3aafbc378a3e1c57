package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/friendsincode/projecton/internal/models"
)

const openLyricsSample = `<?xml version="1.0" encoding="UTF-8"?>
<song xmlns="http://openlyrics.info/namespace/2009/song" version="0.8">
  <properties>
    <titles>
      <title>Amazing Grace</title>
      <title>Grace</title>
    </titles>
    <authors>
      <author>John Newton</author>
      <author>Trad.</author>
    </authors>
    <copyright>Public Domain</copyright>
    <ccliNo>22025</ccliNo>
    <verseOrder>v1 c1 v2 c1</verseOrder>
  </properties>
  <lyrics>
    <verse name="v1">
      <lines>Amazing grace how sweet the sound<br/>That saved a wretch like me</lines>
    </verse>
    <verse name="c1">
      <lines>Praise God <chord name="D"/>&amp; sing</lines>
    </verse>
  </lyrics>
</song>
`

func TestParseOpenLyrics(t *testing.T) {
	song, err := parseOpenLyrics([]byte(openLyricsSample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if song.Title != "Amazing Grace" {
		t.Errorf("Title = %q, first title wins", song.Title)
	}
	if song.Author != "John Newton, Trad." {
		t.Errorf("Author = %q", song.Author)
	}
	if song.Copyright != "Public Domain" || song.CCLI != "22025" {
		t.Errorf("Copyright = %q, CCLI = %q", song.Copyright, song.CCLI)
	}
	if song.VerseOrder != "v1 c1 v2 c1" {
		t.Errorf("VerseOrder = %q", song.VerseOrder)
	}
	want := "[v1]\nAmazing grace how sweet the sound\nThat saved a wretch like me\n\n[c1]\nPraise God & sing"
	if song.Lyrics != want {
		t.Errorf("Lyrics = %q, want %q", song.Lyrics, want)
	}
}

func TestParseOpenLyricsUnknownVerseName(t *testing.T) {
	src := `<song><properties><titles><title>X</title></titles></properties>
<lyrics>
<verse name="intro"><lines>first</lines></verse>
<verse name="c1"><lines>second</lines></verse>
</lyrics></song>`

	song, err := parseOpenLyrics([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// Unparseable names fall back to a positional verse tag.
	want := "[v1]\nfirst\n\n[c1]\nsecond"
	if song.Lyrics != want {
		t.Errorf("Lyrics = %q, want %q", song.Lyrics, want)
	}
}

func TestExportOpenLyricsRoundTrip(t *testing.T) {
	rec := models.Song{
		Title:      "Round & Round",
		Author:     "A. Writer",
		Copyright:  "2001 Test Music",
		CCLI:       "1234567",
		VerseOrder: "v1 c1 v1",
		Lyrics:     "[v1]\nFirst line <with> markers\nSecond line\n\n[c1]\nChorus line",
	}

	dir := t.TempDir()
	written, err := ExportOpenLyrics(dir, []models.Song{rec})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(written) != 1 {
		t.Fatalf("wrote %d files, want 1", len(written))
	}

	back, err := ImportOpenLyrics(written[0])
	if err != nil {
		t.Fatalf("reimport: %v", err)
	}
	if back.Title != rec.Title {
		t.Errorf("Title = %q, want %q", back.Title, rec.Title)
	}
	if back.Author != rec.Author {
		t.Errorf("Author = %q, want %q", back.Author, rec.Author)
	}
	if back.Copyright != rec.Copyright || back.CCLI != rec.CCLI {
		t.Errorf("Copyright = %q, CCLI = %q", back.Copyright, back.CCLI)
	}
	if back.VerseOrder != rec.VerseOrder {
		t.Errorf("VerseOrder = %q, want %q", back.VerseOrder, rec.VerseOrder)
	}
	if back.Lyrics != rec.Lyrics {
		t.Errorf("Lyrics = %q, want %q", back.Lyrics, rec.Lyrics)
	}
}

func TestChordProToOpenLyricsRoundTrip(t *testing.T) {
	src := `{title: Round Trip}
{artist: A. Writer}
{copyright: 2001 Test Music}
{ccli: 1234567}
{comment: Verse 1}
[G]First [C]line
Second line
{comment: Chorus}
Chorus line`

	chordproPath := filepath.Join(t.TempDir(), "song.cho")
	if err := os.WriteFile(chordproPath, []byte(src), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	imported, err := ImportChordPro(chordproPath)
	if err != nil {
		t.Fatalf("import chordpro: %v", err)
	}

	written, err := ExportOpenLyrics(t.TempDir(), []models.Song{*toModel(&imported)})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	back, err := ImportOpenLyrics(written[0])
	if err != nil {
		t.Fatalf("reimport: %v", err)
	}

	if back.Title != imported.Title || back.Author != imported.Author {
		t.Errorf("identity drifted: %q/%q vs %q/%q", back.Title, back.Author, imported.Title, imported.Author)
	}
	if back.Copyright != imported.Copyright || back.CCLI != imported.CCLI {
		t.Errorf("rights drifted: %q/%q vs %q/%q", back.Copyright, back.CCLI, imported.Copyright, imported.CCLI)
	}
	if back.VerseOrder != imported.VerseOrder {
		t.Errorf("VerseOrder = %q, want %q", back.VerseOrder, imported.VerseOrder)
	}
	if back.Lyrics != imported.Lyrics {
		t.Errorf("Lyrics = %q, want %q", back.Lyrics, imported.Lyrics)
	}
}

func TestExportOpenLyricsUntaggedLyrics(t *testing.T) {
	rec := models.Song{Title: "Plain", Lyrics: "one line\nanother line"}

	dir := t.TempDir()
	written, err := ExportOpenLyrics(dir, []models.Song{rec})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(written[0])
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `name="v1"`) {
		t.Errorf("untagged lyrics did not get an implicit v1 verse:\n%s", data)
	}
}

func TestSafeFileName(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Amazing Grace", "Amazing Grace"},
		{"What A / Day: Part 2", "What A - Day- Part 2"},
		{`Why? "Quoted" <Title>`, "Why Quoted Title"},
		{"", "untitled"},
	}
	for _, tc := range cases {
		if got := safeFileName(tc.title); got != tc.want {
			t.Errorf("safeFileName(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestExportFileNaming(t *testing.T) {
	dir := t.TempDir()
	written, err := ExportOpenLyrics(dir, []models.Song{{Title: "A/B", Lyrics: "[v1]\nx"}})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if got := filepath.Base(written[0]); got != "A-B.xml" {
		t.Errorf("file name = %q", got)
	}
}
