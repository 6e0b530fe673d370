package ui

import (
	"fmt"
	"os"
	"path/filepath"

	"quelea-tui/internal/bible"
	"quelea-tui/internal/cache"
	"quelea-tui/internal/log"
	"quelea-tui/internal/schedule"
	"quelea-tui/internal/settings"
	"quelea-tui/internal/slides"
	"quelea-tui/internal/theme"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type panel int

const (
	panelReader panel = iota
	panelSchedule
	panelPreview
	panelLive
	panelCount
)

func (p panel) String() string {
	return [...]string{"reader", "schedule", "preview", "live"}[p]
}

// Options wires the console to its collaborators.
type Options struct {
	Settings   settings.Settings
	ConfigPath string // empty disables saving
	Cache      *cache.Cache
	ImageDirs  []string
}

// projector holds what the live panel is currently showing. It is shared by
// pointer so navigator listeners can update it from outside Update.
type projector struct {
	slide   *slides.Slide
	changes int
}

type Model struct {
	cfg        settings.Settings
	configPath string
	cache      *cache.Cache
	imageDirs  []string

	bible   *bible.Bible
	book    *bible.Book
	chapter *bible.Chapter
	ref     bible.Reference

	sched   *schedule.Schedule
	preview *slides.Navigator
	live    *slides.Navigator
	screen  *projector

	viewport  viewport.Model
	textInput textinput.Model
	focus     panel
	searching bool

	theme  theme.Theme
	styles theme.Styles

	width   int
	height  int
	ready   bool
	err     error
	status  string
	loading bool
}

type errMsg struct{ err error }
type bibleLoadedMsg struct{ bible *bible.Bible }
type imagesLoadedMsg struct {
	name   string
	slides []*slides.Slide
}

func (e errMsg) Error() string { return e.err.Error() }

func NewModel(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Reference (e.g. John 3:16-18 or 43 3:16)"
	ti.CharLimit = 50
	ti.Width = 50

	sched := schedule.New(schedule.Policy{
		AdvanceOnLive: opts.Settings.AdvanceOnLive,
		SongOverflow:  opts.Settings.SongOverflow,
	})
	live := slides.NewNavigator("live", sched)
	screen := &projector{}
	live.AddListener(func(s *slides.Slide) {
		screen.slide = s
		screen.changes++
	})
	sched.OnLive(func(item *schedule.Item, last bool) {
		live.SetSlides(item.Slides)
		if last {
			live.SelectLast()
		}
		screen.slide = live.SelectedSlide()
		screen.changes++
	})

	th := theme.Get(opts.Settings.Theme)
	return Model{
		cfg:        opts.Settings,
		configPath: opts.ConfigPath,
		cache:      opts.Cache,
		imageDirs:  opts.ImageDirs,
		sched:      sched,
		preview:    slides.NewNavigator("preview", nil),
		live:       live,
		screen:     screen,
		textInput:  ti,
		theme:      th,
		styles:     th.Styles(),
		loading:    opts.Settings.Bible != "",
	}
}

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.cfg.Bible != "" {
		cmds = append(cmds, loadBible(m.cache, m.cfg.Bible))
	}
	for _, dir := range m.imageDirs {
		cmds = append(cmds, loadImages(dir))
	}
	return tea.Batch(cmds...)
}

func loadBible(c *cache.Cache, name string) tea.Cmd {
	return func() tea.Msg {
		var (
			b   *bible.Bible
			err error
		)
		if _, statErr := os.Stat(name); statErr == nil {
			b, err = bible.Load(name)
		} else if c != nil {
			b, err = c.Open(name)
		} else {
			err = fmt.Errorf("%s: %w", name, cache.ErrNotCached)
		}
		if err != nil {
			return errMsg{err}
		}
		return bibleLoadedMsg{b}
	}
}

func loadImages(dir string) tea.Cmd {
	return func() tea.Msg {
		s, err := slides.LoadImageGroup(dir)
		if err != nil {
			return errMsg{err}
		}
		return imagesLoadedMsg{name: filepath.Base(dir), slides: s}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			switch msg.String() {
			case "ctrl+c":
				return m, tea.Quit
			case "esc":
				m.searching = false
				m.textInput.Blur()
				return m, nil
			case "enter":
				m.search(m.textInput.Value())
				return m, nil
			}
			m.textInput, cmd = m.textInput.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.focus = (m.focus + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.focus = (m.focus + panelCount - 1) % panelCount
			return m, nil
		case "t":
			m.theme = theme.Next(m.theme)
			m.styles = m.theme.Styles()
			m.cfg.Theme = m.theme.Key
			m.saveSettings()
			m.refreshReader()
			return m, nil
		case "o":
			m.cfg.SongOverflow = !m.cfg.SongOverflow
			m.applyPolicy()
			return m, nil
		case "v":
			m.cfg.AdvanceOnLive = !m.cfg.AdvanceOnLive
			m.applyPolicy()
			return m, nil
		}

		switch m.focus {
		case panelReader:
			if m.updateReader(msg) {
				return m, nil
			}
		case panelSchedule:
			m.updateSchedule(msg)
			return m, nil
		case panelPreview:
			m.updatePreview(msg)
			return m, nil
		case panelLive:
			m.updateLive(msg)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		w, h := m.readerSize()
		if !m.ready {
			m.viewport = viewport.New(w, h)
			m.ready = true
		} else {
			m.viewport.Width = w
			m.viewport.Height = h
		}
		m.refreshReader()

	case bibleLoadedMsg:
		m.loading = false
		m.bible = msg.bible
		m.book = msg.bible.Books()[0]
		m.chapter = nil
		if chs := m.book.Chapters(); len(chs) > 0 {
			m.chapter = chs[0]
		}
		m.ref = bible.Reference{}
		m.status = fmt.Sprintf("Loaded %s (%d books)", msg.bible.Name(), len(msg.bible.Books()))
		m.refreshReader()
		m.viewport.GotoTop()

	case imagesLoadedMsg:
		m.sched.Add(schedule.NewItem(msg.name, schedule.KindImages, msg.slides))
		m.syncPreview()
		m.status = fmt.Sprintf("Added image group %s (%d slides)", msg.name, len(msg.slides))

	case errMsg:
		m.err = msg.err
		m.loading = false
		log.WithComponent("ui").Error("command failed", "err", msg.err)
	}

	if m.focus == panelReader && !m.searching {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// updateReader handles reader keys. It reports whether the key was consumed;
// unconsumed keys scroll the viewport.
func (m *Model) updateReader(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "/":
		if m.bible == nil {
			return true
		}
		m.searching = true
		m.textInput.Focus()
		return true
	case "n":
		if book, ch := nextChapter(m.bible, m.book, m.chapter); ch != nil {
			m.book, m.chapter, m.ref = book, ch, bible.Reference{}
			m.refreshReader()
			m.viewport.GotoTop()
		}
		return true
	case "p":
		if book, ch := prevChapter(m.bible, m.book, m.chapter); ch != nil {
			m.book, m.chapter, m.ref = book, ch, bible.Reference{}
			m.refreshReader()
			m.viewport.GotoTop()
		}
		return true
	case "a":
		m.addPassage()
		return true
	}
	return false
}

func (m *Model) search(input string) {
	ref, err := bible.ParseReference(m.bible, input)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.searching = false
	m.textInput.Blur()
	m.textInput.SetValue("")
	m.ref = ref
	m.chapter = ref.Chapter
	m.book = ref.Chapter.Book()
	m.refreshReader()
	m.viewport.GotoTop()
}

// addPassage puts the searched passage, or the whole chapter when nothing was
// searched, on the schedule.
func (m *Model) addPassage() {
	ref := m.ref
	if ref.Chapter == nil {
		if m.chapter == nil {
			return
		}
		ref = bible.Reference{Chapter: m.chapter}
	}
	verses := ref.Verses()
	if len(verses) == 0 {
		return
	}
	title := ref.String()
	m.sched.Add(schedule.NewItem(title, schedule.KindPassage, slides.FromVerses(ref.Chapter.Name(), verses)))
	m.syncPreview()
	m.status = "Added " + title
}

func (m *Model) updateSchedule(msg tea.KeyMsg) {
	i := m.sched.SelectedIndex()
	switch msg.String() {
	case "up", "k":
		m.sched.SetSelectedIndex(i - 1)
	case "down", "j":
		m.sched.SetSelectedIndex(i + 1)
	case "K":
		m.sched.Move(i, -1)
	case "J":
		m.sched.Move(i, 1)
	case "d", "delete":
		m.sched.Remove(i)
		if m.sched.Live() == nil {
			m.live.Clear()
			m.screen.slide = nil
		}
	case "enter":
		m.sched.GoLive()
	}
	m.syncPreview()
}

func (m *Model) updatePreview(msg tea.KeyMsg) {
	switch key := msg.String(); key {
	case "left", "h":
		m.preview.Back()
	case "right", "l":
		m.preview.Next()
	case "home":
		m.preview.Select(1)
	case "end":
		m.preview.SelectLast()
	case "enter":
		idx := m.preview.SelectedIndex()
		m.sched.GoLive()
		m.live.Select(idx)
		m.syncPreview()
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			m.preview.Select(int(key[0] - '0'))
		}
	}
}

func (m *Model) updateLive(msg tea.KeyMsg) {
	switch msg.String() {
	case "right", "l", " ":
		m.live.Advance(m.cfg.Loopback)
	case "left", "h":
		m.live.Previous()
	case "home":
		m.live.Select(1)
	case "end":
		m.live.SelectLast()
	case "c":
		m.live.Clear()
		m.sched.ClearLive()
		m.screen.slide = nil
		m.screen.changes++
	}
	// Overflow may have moved the schedule selection.
	m.syncPreview()
}

// syncPreview shows the selected schedule item in the preview panel.
func (m *Model) syncPreview() {
	item := m.sched.Selected()
	if item == nil {
		m.preview.Clear()
		return
	}
	m.preview.SetSlides(item.Slides)
}

func (m *Model) applyPolicy() {
	m.sched.SetPolicy(schedule.Policy{
		AdvanceOnLive: m.cfg.AdvanceOnLive,
		SongOverflow:  m.cfg.SongOverflow,
	})
	m.status = fmt.Sprintf("advance on live: %v, song overflow: %v", m.cfg.AdvanceOnLive, m.cfg.SongOverflow)
	m.saveSettings()
}

func (m *Model) saveSettings() {
	if m.configPath == "" {
		return
	}
	if err := settings.Save(m.configPath, m.cfg); err != nil {
		m.err = err
	}
}

func (m *Model) refreshReader() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.formatChapter())
}

func nextChapter(b *bible.Bible, book *bible.Book, ch *bible.Chapter) (*bible.Book, *bible.Chapter) {
	if b == nil || book == nil {
		return nil, nil
	}
	chs := book.Chapters()
	for i, c := range chs {
		if c == ch && i+1 < len(chs) {
			return book, chs[i+1]
		}
	}
	books := b.Books()
	for i, bk := range books {
		if bk == book && i+1 < len(books) && len(books[i+1].Chapters()) > 0 {
			return books[i+1], books[i+1].Chapters()[0]
		}
	}
	return nil, nil
}

func prevChapter(b *bible.Bible, book *bible.Book, ch *bible.Chapter) (*bible.Book, *bible.Chapter) {
	if b == nil || book == nil {
		return nil, nil
	}
	chs := book.Chapters()
	for i, c := range chs {
		if c == ch && i > 0 {
			return book, chs[i-1]
		}
	}
	books := b.Books()
	for i, bk := range books {
		if bk == book && i > 0 {
			if prev := books[i-1].Chapters(); len(prev) > 0 {
				return books[i-1], prev[len(prev)-1]
			}
		}
	}
	return nil, nil
}
