package importer

import "testing"

func TestParseChordProDirectives(t *testing.T) {
	src := `{title: Amazing Grace}
{artist: John Newton}
{composer: Someone Else}
{copyright: Public Domain}
{ccli: 22025}
{comment: Verse 1}
Amazing grace how sweet the sound
That saved a wretch like me`

	song := parseChordPro(src)
	if song.Title != "Amazing Grace" {
		t.Errorf("Title = %q", song.Title)
	}
	if song.Author != "John Newton" {
		t.Errorf("Author = %q, first author directive wins", song.Author)
	}
	if song.Copyright != "Public Domain" {
		t.Errorf("Copyright = %q", song.Copyright)
	}
	if song.CCLI != "22025" {
		t.Errorf("CCLI = %q", song.CCLI)
	}
	want := "[v1]\nAmazing grace how sweet the sound\nThat saved a wretch like me"
	if song.Lyrics != want {
		t.Errorf("Lyrics = %q, want %q", song.Lyrics, want)
	}
}

func TestParseChordProStripsChords(t *testing.T) {
	src := `{t: Chords}
{c: Verse 1}
[G]Amazing [G7]grace how [C]sweet the [G]sound`

	song := parseChordPro(src)
	want := "[v1]\nAmazing grace how sweet the sound"
	if song.Lyrics != want {
		t.Errorf("Lyrics = %q, want %q", song.Lyrics, want)
	}
}

func TestParseChordProSections(t *testing.T) {
	src := `{title: Sections}
{comment: Verse 1}
line one
{comment: Chorus}
chorus line
{comment: Pre-Chorus}
pre line
{comment: Bridge}
bridge line
{comment: Verse 2}
line two
{comment: Chorus}
chorus again`

	song := parseChordPro(src)
	want := "[v1]\nline one\n\n[c1]\nchorus line\n\n[p1]\npre line\n\n[b1]\nbridge line\n\n[v2]\nline two\n\n[c2]\nchorus again"
	if song.Lyrics != want {
		t.Errorf("Lyrics = %q, want %q", song.Lyrics, want)
	}
}

func TestParseChordProImplicitVerse(t *testing.T) {
	src := `{title: Untagged}
Just some lyric text
second line`

	song := parseChordPro(src)
	want := "[v1]\nJust some lyric text\nsecond line"
	if song.Lyrics != want {
		t.Errorf("Lyrics = %q, want %q", song.Lyrics, want)
	}
}

func TestParseChordProNumberedComment(t *testing.T) {
	src := `{title: Jump}
{comment: Verse 3}
starts at three`

	song := parseChordPro(src)
	want := "[v3]\nstarts at three"
	if song.Lyrics != want {
		t.Errorf("Lyrics = %q, want %q", song.Lyrics, want)
	}
}

func TestSectionLetter(t *testing.T) {
	cases := []struct {
		name string
		want byte
	}{
		{"verse", 'v'},
		{"Chorus", 'c'},
		{"pre-chorus", 'p'},
		{"Pre Chorus", 'p'},
		{"bridge", 'b'},
		{"tag", 't'},
		{"ending", 'e'},
		{"outro", 'e'},
		{"interlude", 'v'},
	}
	for _, tc := range cases {
		if got := sectionLetter(tc.name); got != tc.want {
			t.Errorf("sectionLetter(%q) = %c, want %c", tc.name, got, tc.want)
		}
	}
}
