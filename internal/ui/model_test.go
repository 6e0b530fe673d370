package ui

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"quelea-tui/internal/bible"
	"quelea-tui/internal/settings"
)

const testBible = `<?xml version="1.0" encoding="utf-8"?>
<XMLBIBLE biblename="Test Bible">
  <BIBLEBOOK bnumber="1" bname="Genesis">
    <CHAPTER cnumber="1">
      <VERS vnumber="1">In the beginning God created the heaven and the earth.</VERS>
      <VERS vnumber="2">And the earth was without form, and void.</VERS>
      <VERS vnumber="3">And God said, Let there be light.</VERS>
    </CHAPTER>
    <CHAPTER cnumber="2">
      <VERS vnumber="1">Thus the heavens and the earth were finished.</VERS>
    </CHAPTER>
  </BIBLEBOOK>
  <BIBLEBOOK bnumber="43" bname="John">
    <CHAPTER cnumber="3">
      <VERS vnumber="16">For God so loved the world.</VERS>
      <VERS vnumber="17">For God sent not his Son.</VERS>
      <VERS vnumber="18">He that believeth on him is not condemned.</VERS>
    </CHAPTER>
  </BIBLEBOOK>
</XMLBIBLE>`

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func newTestModel(t *testing.T, s settings.Settings) Model {
	t.Helper()
	b, err := bible.Parse(strings.NewReader(testBible))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m := NewModel(Options{Settings: s})
	return update(m, tea.WindowSizeMsg{Width: 120, Height: 40}, bibleLoadedMsg{b})
}

func search(m Model, ref string) Model {
	return update(m, key("/"), key(ref), key("enter"))
}

func TestBibleLoadedShowsFirstChapter(t *testing.T) {
	m := newTestModel(t, settings.Defaults())
	if m.chapter == nil || m.chapter.Name() != "Genesis 1" {
		t.Fatalf("chapter = %v, want Genesis 1", m.chapter)
	}
	if m.loading {
		t.Error("still loading after bibleLoadedMsg")
	}
	if !strings.Contains(m.View(), "In the beginning") {
		t.Error("view does not show the first chapter")
	}
}

func TestSearchAndChapterNavigation(t *testing.T) {
	m := newTestModel(t, settings.Defaults())

	m = search(m, "John 3:16-17")
	if m.searching {
		t.Error("still searching after a valid reference")
	}
	if m.ref.String() != "John 3:16-17" {
		t.Errorf("ref = %q", m.ref.String())
	}
	if m.book.Name() != "John" {
		t.Errorf("book = %q", m.book.Name())
	}

	m = search(m, "Exodus 1")
	if m.err == nil || !m.searching {
		t.Error("unknown book should keep the search open with an error")
	}
	m = update(m, key("esc"))
	if m.searching {
		t.Error("esc should close the search")
	}

	// p from John 3 crosses back into Genesis.
	m = update(m, key("p"))
	if m.chapter.Name() != "Genesis 2" {
		t.Errorf("previous chapter = %q, want Genesis 2", m.chapter.Name())
	}
	m = update(m, key("n"))
	if m.chapter.Name() != "John 3" {
		t.Errorf("next chapter = %q, want John 3", m.chapter.Name())
	}
	m = update(m, key("n"))
	if m.chapter.Name() != "John 3" {
		t.Errorf("n past the last chapter moved to %q", m.chapter.Name())
	}
}

func TestAddPassageFillsPreview(t *testing.T) {
	m := newTestModel(t, settings.Defaults())

	// Without a search the whole chapter is added.
	m = update(m, key("a"))
	m = search(m, "John 3:16-17")
	m = update(m, key("a"))

	items := m.sched.List()
	if len(items) != 2 {
		t.Fatalf("schedule has %d items, want 2", len(items))
	}
	if items[0].Name != "Genesis 1" || items[1].Name != "John 3:16-17" {
		t.Errorf("items = %q, %q", items[0].Name, items[1].Name)
	}
	if m.sched.SelectedIndex() != 0 {
		t.Errorf("selected = %d, want first item", m.sched.SelectedIndex())
	}
	if m.preview.Len() != 3 || m.preview.SelectedIndex() != 1 {
		t.Errorf("preview = %d slides, selected %d", m.preview.Len(), m.preview.SelectedIndex())
	}
}

func TestLiveAdvanceOverflowsIntoNextItem(t *testing.T) {
	s := settings.Defaults()
	s.AdvanceOnLive = true
	s.SongOverflow = true
	m := newTestModel(t, s)

	m = search(m, "John 3:16-17")
	m = update(m, key("a"))
	m = search(m, "Genesis 2")
	m = update(m, key("a"))

	// Schedule panel: go live with the first item.
	m = update(m, key("tab"), key("enter"))
	if live := m.sched.Live(); live == nil || live.Name != "John 3:16-17" {
		t.Fatalf("live item = %v", live)
	}
	if m.sched.SelectedIndex() != 1 {
		t.Errorf("advance on live left selection at %d", m.sched.SelectedIndex())
	}
	if m.screen.slide == nil || m.screen.slide.Title != "John 3:16" {
		t.Fatalf("projector shows %v", m.screen.slide)
	}

	// Live panel.
	m = update(m, key("tab"), key("tab"), key(" "))
	if m.screen.slide.Title != "John 3:17" {
		t.Errorf("after advance projector shows %q", m.screen.slide.Title)
	}

	m = update(m, key(" "))
	if live := m.sched.Live(); live == nil || live.Name != "Genesis 2" {
		t.Fatalf("overflow did not take the next item live: %v", live)
	}
	if m.screen.slide.Title != "Genesis 2:1" {
		t.Errorf("projector shows %q after overflow", m.screen.slide.Title)
	}

	// Back over the boundary lands on the last slide of the previous item.
	m = update(m, key("left"))
	if live := m.sched.Live(); live == nil || live.Name != "John 3:16-17" {
		t.Fatalf("backward overflow live item = %v", live)
	}
	if m.live.SelectedIndex() != 2 || m.screen.slide.Title != "John 3:17" {
		t.Errorf("backward overflow landed on %d (%q)", m.live.SelectedIndex(), m.screen.slide.Title)
	}

	m = update(m, key("c"))
	if m.screen.slide != nil || m.live.Len() != 0 {
		t.Error("c should clear the live panel")
	}
	if m.sched.Live() != nil {
		t.Error("c should take the item off the schedule's live marker")
	}
	if strings.Contains(m.View(), "●") {
		t.Error("view still marks an item live after clearing")
	}
}

func TestLiveLoopback(t *testing.T) {
	s := settings.Defaults()
	s.Loopback = true
	m := newTestModel(t, s)

	m = search(m, "John 3:16-17")
	m = update(m, key("a"), key("tab"), key("enter"), key("tab"), key("tab"))
	m = update(m, key(" "), key(" "))
	if m.live.SelectedIndex() != 1 {
		t.Errorf("loopback advance selected %d, want 1", m.live.SelectedIndex())
	}
}

func TestPreviewGoLiveKeepsSlide(t *testing.T) {
	m := newTestModel(t, settings.Defaults())
	m = search(m, "John 3")
	m = update(m, key("a"))

	m = update(m, key("tab"), key("tab"), key("3"), key("enter"))
	if m.live.SelectedIndex() != 3 {
		t.Errorf("live selected %d, want 3", m.live.SelectedIndex())
	}
	if m.screen.slide == nil || m.screen.slide.Title != "John 3:18" {
		t.Errorf("projector shows %v", m.screen.slide)
	}
}

func TestScheduleEditing(t *testing.T) {
	m := newTestModel(t, settings.Defaults())
	m = update(m, key("a"))
	m = search(m, "John 3")
	m = update(m, key("a"), key("tab"))

	m = update(m, key("j"), key("K"))
	if m.sched.List()[0].Name != "John 3" || m.sched.SelectedIndex() != 0 {
		t.Errorf("move up gave %q at %d", m.sched.List()[0].Name, m.sched.SelectedIndex())
	}
	if m.preview.Len() != 3 {
		t.Errorf("preview follows selection: %d slides", m.preview.Len())
	}

	m = update(m, key("enter"), key("k"), key("d"))
	if m.sched.Len() != 1 || m.sched.Live() != nil {
		t.Error("deleting the live item should clear it")
	}
	if m.live.Len() != 0 || m.screen.slide != nil {
		t.Error("live panel should be cleared with its item")
	}
}

func TestPolicyToggles(t *testing.T) {
	s := settings.Defaults()
	s.AdvanceOnLive = false
	m := newTestModel(t, s)

	m = update(m, key("o"), key("v"))
	p := m.sched.Policy()
	if !p.SongOverflow || !p.AdvanceOnLive {
		t.Errorf("policy = %+v, want both on", p)
	}
}

func TestThemeCycleSavesSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")
	b, err := bible.Parse(strings.NewReader(testBible))
	if err != nil {
		t.Fatal(err)
	}
	m := NewModel(Options{Settings: settings.Defaults(), ConfigPath: path})
	m = update(m, tea.WindowSizeMsg{Width: 100, Height: 30}, bibleLoadedMsg{b}, key("t"))

	if m.theme.Key == "catppuccin-mocha" {
		t.Fatal("t did not change the theme")
	}
	saved, err := settings.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if saved.Theme != m.theme.Key {
		t.Errorf("saved theme = %q, want %q", saved.Theme, m.theme.Key)
	}
}

func TestImagesLoaded(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "announcements")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"b.png", "a.png"} {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 3))); err != nil {
			t.Fatal(err)
		}
		f.Close()
	}

	m := newTestModel(t, settings.Defaults())
	m = update(m, loadImages(dir)())

	item := m.sched.Selected()
	if item == nil || item.Name != "announcements" || len(item.Slides) != 2 {
		t.Fatalf("image item = %+v", item)
	}
	if !strings.Contains(m.View(), "a (png 4x3)") {
		t.Error("preview does not list the first image")
	}

	m = update(m, loadImages(filepath.Join(dir, "missing"))())
	if m.err == nil {
		t.Error("missing image directory should set an error")
	}
}

func TestVisibleRange(t *testing.T) {
	tests := []struct {
		n, selected, height int
		start, end          int
	}{
		{3, 0, 5, 0, 3},
		{10, 0, 4, 0, 4},
		{10, 5, 4, 3, 7},
		{10, 9, 4, 6, 10},
		{10, -1, 4, 0, 4},
		{10, 3, 0, 0, 0},
	}
	for _, tt := range tests {
		start, end := visibleRange(tt.n, tt.selected, tt.height)
		if start != tt.start || end != tt.end {
			t.Errorf("visibleRange(%d, %d, %d) = %d, %d; want %d, %d",
				tt.n, tt.selected, tt.height, start, end, tt.start, tt.end)
		}
	}
}
