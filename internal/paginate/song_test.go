package paginate

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/friendsincode/projecton/internal/slides"
)

// lineMeasurer counts 20px per logical line, ignoring fonts. It makes
// pagination outcomes exact in tests.
type lineMeasurer struct{}

func (lineMeasurer) Height(body string, font FontSpec, width int) int {
	if strings.TrimSpace(body) == "" {
		return 0
	}
	return 20 * len(strings.Split(body, "<br/>"))
}

func testTarget(lines int) Target {
	// UsableHeight = Height - FooterHeight - safety margin.
	return Target{Width: 1280, Height: lines*20 + 40, FooterHeight: 0}
}

func testPaginator() *Paginator {
	return New(lineMeasurer{}, zerolog.Nop())
}

func TestSongTaggedSegments(t *testing.T) {
	song := &slides.Slide{
		Kind:    slides.KindSong,
		RawText: "[v1]\nAmazing grace\nhow sweet the sound\n[c1]\nPraise God\n[v2]\nThrough many dangers",
	}

	segs := testPaginator().Song(song, slides.Layout{FontSize: 40}, testTarget(10))
	want := []string{"Verse 1", "Chorus 1", "Verse 2"}
	if len(segs) != len(want) {
		t.Fatalf("got %d segments, want %d", len(segs), len(want))
	}
	for i, title := range want {
		if segs[i].Title != title {
			t.Errorf("segment %d title = %q, want %q", i, segs[i].Title, title)
		}
	}
	if segs[0].HTML != "Amazing grace<br/>how sweet the sound" {
		t.Errorf("verse 1 body = %q", segs[0].HTML)
	}
}

func TestSongVerseOrder(t *testing.T) {
	song := &slides.Slide{
		Kind:       slides.KindSong,
		RawText:    "[v1]\none\n[c1]\nchorus\n[v2]\ntwo",
		VerseOrder: "v1 c1 v2 c1",
	}

	segs := testPaginator().Song(song, slides.Layout{FontSize: 40}, testTarget(10))
	want := []string{"Verse 1", "Chorus 1", "Verse 2", "Chorus 1"}
	if len(segs) != len(want) {
		t.Fatalf("got %d segments, want %d", len(segs), len(want))
	}
	for i, title := range want {
		if segs[i].Title != title {
			t.Errorf("segment %d title = %q, want %q", i, segs[i].Title, title)
		}
	}
}

func TestSongVerseOrderSkipsUndefinedTags(t *testing.T) {
	song := &slides.Slide{
		Kind:       slides.KindSong,
		RawText:    "[v1]\none\n[c1]\nchorus",
		VerseOrder: "v1 b1 c1",
	}

	segs := testPaginator().Song(song, slides.Layout{FontSize: 40}, testTarget(10))
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2 (undefined b1 skipped)", len(segs))
	}
	if segs[0].Title != "Verse 1" || segs[1].Title != "Chorus 1" {
		t.Errorf("titles = %q, %q", segs[0].Title, segs[1].Title)
	}
}

func TestSongUntaggedBlankGroups(t *testing.T) {
	song := &slides.Slide{
		Kind:    slides.KindSong,
		RawText: "first stanza line one\nline two\n\nsecond stanza",
	}

	segs := testPaginator().Song(song, slides.Layout{FontSize: 40}, testTarget(10))
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	if segs[0].Title != "Verse 1" || segs[1].Title != "Verse 2" {
		t.Errorf("titles = %q, %q", segs[0].Title, segs[1].Title)
	}
}

func TestFitMidpointSplit(t *testing.T) {
	// Six lines against a four-line budget: one midpoint split, halves
	// titled " - 1"/" - 2".
	song := &slides.Slide{
		Kind:    slides.KindSong,
		RawText: "[v1]\na\nb\nc\nd\ne\nf",
	}

	segs := testPaginator().Song(song, slides.Layout{FontSize: 40}, testTarget(4))
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	if segs[0].Title != "Verse 1 - 1" || segs[1].Title != "Verse 1 - 2" {
		t.Errorf("titles = %q, %q", segs[0].Title, segs[1].Title)
	}
	if segs[0].HTML != "a<br/>b<br/>c" || segs[1].HTML != "d<br/>e<br/>f" {
		t.Errorf("halves = %q, %q", segs[0].HTML, segs[1].HTML)
	}
}

func TestFitNeverSplitsTwice(t *testing.T) {
	// Ten lines against a two-line budget: halves still overflow, but a
	// single split is all that happens.
	song := &slides.Slide{
		Kind:    slides.KindSong,
		RawText: "[v1]\na\nb\nc\nd\ne\nf\ng\nh\ni\nj",
	}

	segs := testPaginator().Song(song, slides.Layout{FontSize: 40}, testTarget(2))
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
}

func TestFitSplitRebalancesMarkup(t *testing.T) {
	song := &slides.Slide{
		Kind:    slides.KindSong,
		RawText: "[v1]\n<b>a\nb\nc\nd</b>",
	}

	segs := testPaginator().Song(song, slides.Layout{FontSize: 40}, testTarget(3))
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	if !strings.HasSuffix(segs[0].HTML, "</b>") {
		t.Errorf("first half leaves bold open: %q", segs[0].HTML)
	}
	if !strings.HasPrefix(segs[1].HTML, "<b>") {
		t.Errorf("second half does not reopen bold: %q", segs[1].HTML)
	}
}

func TestCustomSplitSlides(t *testing.T) {
	custom := &slides.Slide{
		Kind:        slides.KindCustom,
		RawText:     "announcement one\n\nannouncement two\n\nannouncement three",
		SplitSlides: true,
	}

	segs := testPaginator().Custom(custom, slides.Layout{FontSize: 40}, testTarget(10))
	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3", len(segs))
	}
	for i, want := range []string{"Slide 1", "Slide 2", "Slide 3"} {
		if segs[i].Title != want {
			t.Errorf("segment %d title = %q, want %q", i, segs[i].Title, want)
		}
	}
}

func TestCustomWithoutSplitIsOneSlide(t *testing.T) {
	custom := &slides.Slide{
		Kind:    slides.KindCustom,
		RawText: "line one\n\nline two",
	}

	segs := testPaginator().Custom(custom, slides.Layout{FontSize: 40}, testTarget(10))
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
}

func TestNormalizeBodyEnvelope(t *testing.T) {
	raw := `<html><body style="x"><p>first line</p><p>second <span style="font-weight:600">bold</span></p></body></html>`
	got := NormalizeBody(raw)
	want := "first line<br/>second <b>bold</b>"
	if got != want {
		t.Errorf("NormalizeBody = %q, want %q", got, want)
	}
}

func TestConvertSpansNested(t *testing.T) {
	raw := `<span style="font-weight:600; font-style:italic">both</span>`
	got := convertSpans(raw)
	if got != "<i><b>both</b></i>" {
		t.Errorf("convertSpans = %q", got)
	}
}

func TestStripMarkup(t *testing.T) {
	got := StripMarkup("<b>bold</b> and <i>italic</i><br/><u>under</u>")
	if got != "bold and italic<br/>under" {
		t.Errorf("StripMarkup = %q", got)
	}
}
