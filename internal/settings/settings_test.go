package settings

import (
	"testing"

	"github.com/friendsincode/projecton/internal/events"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	st, err := NewStore(dir, events.NewBus())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return st, dir
}

func TestDefaultsApplied(t *testing.T) {
	st, _ := newTestStore(t)
	s := st.Snapshot()
	if s.FontSize <= 0 {
		t.Errorf("default font size = %d", s.FontSize)
	}
	if s.StageFontSize <= 0 {
		t.Errorf("default stage font size = %d", s.StageFontSize)
	}
}

func TestUpdatePersistsAcrossReopen(t *testing.T) {
	st, dir := newTestStore(t)

	err := st.Update(func(s *Settings) {
		s.FontFace = "Georgia"
		s.CCLILicense = "123456"
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	reopened, err := NewStore(dir, events.NewBus())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	s := reopened.Snapshot()
	if s.FontFace != "Georgia" || s.CCLILicense != "123456" {
		t.Errorf("settings did not survive reopen: %+v", s)
	}
}

func TestUpdatePublishesChange(t *testing.T) {
	bus := events.NewBus()
	sub := bus.Subscribe(events.EventSettingsChange)
	st, err := NewStore(t.TempDir(), bus)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if err := st.Update(func(s *Settings) { s.FontSize = 50 }); err != nil {
		t.Fatalf("Update: %v", err)
	}

	select {
	case <-sub:
	default:
		t.Error("no settings-changed event published")
	}
}

func TestRecentServicesMRU(t *testing.T) {
	st, _ := newTestStore(t)

	for _, p := range []string{"a.pro", "b.pro", "c.pro", "d.pro", "e.pro", "f.pro"} {
		if err := st.AddRecentService(p); err != nil {
			t.Fatalf("AddRecentService: %v", err)
		}
	}

	recent := st.RecentServices()
	if len(recent) != maxRecentServices {
		t.Fatalf("MRU holds %d entries, want %d", len(recent), maxRecentServices)
	}
	if recent[0] != "f.pro" {
		t.Errorf("most recent = %q, want f.pro", recent[0])
	}
	for _, p := range recent {
		if p == "a.pro" {
			t.Error("oldest entry not evicted")
		}
	}
}

func TestRecentServicesDedupe(t *testing.T) {
	st, _ := newTestStore(t)

	for _, p := range []string{"a.pro", "b.pro", "a.pro"} {
		if err := st.AddRecentService(p); err != nil {
			t.Fatalf("AddRecentService: %v", err)
		}
	}

	recent := st.RecentServices()
	if len(recent) != 2 {
		t.Fatalf("MRU holds %d entries, want 2", len(recent))
	}
	if recent[0] != "a.pro" || recent[1] != "b.pro" {
		t.Errorf("MRU order = %v", recent)
	}
}

func TestGlobalLayout(t *testing.T) {
	st, _ := newTestStore(t)
	err := st.Update(func(s *Settings) {
		s.FontFace = "Helvetica"
		s.FontSize = 44
		s.GlobalSongBackground = "bg.jpg"
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	layout := st.Snapshot().GlobalLayout()
	if layout.FontFamily != "Helvetica" || layout.FontSize != 44 {
		t.Errorf("layout = %+v", layout)
	}
}
