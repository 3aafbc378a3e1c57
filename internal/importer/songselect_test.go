package importer

import "testing"

const songSelectSample = `Living Hope
Brian Johnson, Phil Wickham

Verse 1
How great the chasm that lay between us
How high the mountain I could not climb

Chorus
Hallelujah praise the One who set me free
Hallelujah death has lost its grip on me

Verse 2
Then came the morning that sealed the promise

CCLI Song # 7106807
© 2017 Phil Wickham Music
For use solely with the SongSelect Terms of Use`

func TestParseSongSelectText(t *testing.T) {
	song := ParseSongSelectText(songSelectSample)

	if song.Title != "Living Hope" {
		t.Errorf("Title = %q", song.Title)
	}
	if song.Author != "Brian Johnson, Phil Wickham" {
		t.Errorf("Author = %q", song.Author)
	}
	if song.CCLI != "7106807" {
		t.Errorf("CCLI = %q", song.CCLI)
	}
	if song.Copyright != "2017 Phil Wickham Music" {
		t.Errorf("Copyright = %q", song.Copyright)
	}
	want := "[v1]\nHow great the chasm that lay between us\nHow high the mountain I could not climb\n\n[c1]\nHallelujah praise the One who set me free\nHallelujah death has lost its grip on me\n\n[v2]\nThen came the morning that sealed the promise"
	if song.Lyrics != want {
		t.Errorf("Lyrics = %q, want %q", song.Lyrics, want)
	}
}

func TestParseSongSelectCRLF(t *testing.T) {
	src := "Title\r\n\r\nVerse 1\r\nbody line\r\n"
	song := ParseSongSelectText(src)
	if song.Title != "Title" {
		t.Errorf("Title = %q", song.Title)
	}
	if song.Lyrics != "[v1]\nbody line" {
		t.Errorf("Lyrics = %q", song.Lyrics)
	}
}

func TestParseSongSelectContinuationParagraph(t *testing.T) {
	// A blank line inside an unmarked passage continues the open segment.
	src := "Title\n\nVerse 1\nfirst half\n\nsecond half"
	song := ParseSongSelectText(src)
	want := "[v1]\nfirst half\nsecond half"
	if song.Lyrics != want {
		t.Errorf("Lyrics = %q, want %q", song.Lyrics, want)
	}
}

func TestParseSongSelectRepeatedMarkers(t *testing.T) {
	src := "Title\n\nChorus\nfirst chorus\n\nChorus\nsecond chorus"
	song := ParseSongSelectText(src)
	want := "[c1]\nfirst chorus\n\n[c2]\nsecond chorus"
	if song.Lyrics != want {
		t.Errorf("Lyrics = %q, want %q", song.Lyrics, want)
	}
}
