package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"quelea-tui/internal/slides"
)

var panelHelp = map[panel]string{
	panelReader:   "/: search | n/p: chapter | a: add to schedule",
	panelSchedule: "j/k: select | J/K: move | enter: go live | d: delete",
	panelPreview:  "←/→: slide | 1-9: pick | enter: go live",
	panelLive:     "space/→: advance | ←: previous | end: last | c: clear",
}

func (m Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	left := m.renderReader()
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.renderSchedule(),
		m.renderSlides("Preview", m.preview, panelPreview),
		m.renderSlides("Live", m.live, panelLive),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	return fmt.Sprintf("%s\n%s\n%s", m.renderHeader(), body, m.renderFooter())
}

func (m Model) renderHeader() string {
	title := "quelea-tui"
	if m.bible != nil {
		title += " · " + m.bible.Name()
	}
	out := m.styles.Title.Render(title)
	if s := m.screen.slide; s != nil {
		out += "  " + m.styles.Live.Render("● LIVE: "+firstLine(s))
	}
	return out
}

func (m Model) renderFooter() string {
	var help string
	switch {
	case m.loading:
		help = m.styles.Help.Render("Loading...")
	default:
		help = m.styles.Help.Render(panelHelp[m.focus] + " | tab: panel | t: theme | o/v: overflow/advance | q: quit")
	}
	if m.status != "" {
		help += "\n" + m.styles.Help.Render(m.status)
	}
	if m.err != nil {
		help += "\n" + m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	}
	return help
}

func (m Model) panelStyle(p panel) lipgloss.Style {
	if m.focus == p {
		return m.styles.Focused
	}
	return m.styles.Panel
}

func (m Model) renderReader() string {
	w, _ := m.readerSize()
	var header string
	switch {
	case m.searching:
		header = m.styles.Title.Render("Search") + "\n" + m.textInput.View()
	case m.ref.Chapter != nil:
		header = m.styles.Title.Render(m.ref.String())
	case m.chapter != nil:
		header = m.styles.Title.Render(m.chapter.Name())
	default:
		header = m.styles.Help.Render("No bible loaded")
	}
	return m.panelStyle(panelReader).Width(w).Render(header + "\n" + m.viewport.View())
}

func (m Model) renderSchedule() string {
	w, h := m.sideSize()
	items := m.sched.List()
	lines := make([]string, len(items))
	for i, item := range items {
		line := fmt.Sprintf("%-8s %s", item.Kind, item.Name)
		if m.sched.IsLive(item) {
			line = m.styles.Live.Render("● ") + line
		} else {
			line = "  " + line
		}
		lines[i] = line
	}
	body := m.renderList(lines, m.sched.SelectedIndex(), h)
	title := m.styles.Title.Render(fmt.Sprintf("Schedule (%d)", len(items)))
	return m.panelStyle(panelSchedule).Width(w).Render(title + "\n" + body)
}

func (m Model) renderSlides(name string, nav *slides.Navigator, p panel) string {
	w, h := m.sideSize()
	lines := make([]string, nav.Len())
	for i, s := range nav.Slides() {
		lines[i] = fmt.Sprintf("%2d %s", i+1, firstLine(s))
	}
	body := m.renderList(lines, nav.SelectedIndex()-1, h)
	title := m.styles.Title.Render(fmt.Sprintf("%s %d/%d", name, nav.SelectedIndex(), nav.Len()))
	return m.panelStyle(p).Width(w).Render(title + "\n" + body)
}

// renderList shows the part of lines that keeps the selected line visible.
func (m Model) renderList(lines []string, selected, height int) string {
	start, end := visibleRange(len(lines), selected, height)
	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		if i == selected {
			out = append(out, m.styles.Selected.Render(lines[i]))
		} else {
			out = append(out, m.styles.Item.Render(lines[i]))
		}
	}
	for len(out) < height {
		out = append(out, "")
	}
	return strings.Join(out, "\n")
}

// visibleRange returns the window [start, end) of n rows, at most height
// long, that contains selected and is centered on it where possible.
func visibleRange(n, selected, height int) (int, int) {
	if height <= 0 {
		return 0, 0
	}
	if n <= height {
		return 0, n
	}
	start := selected - height/2
	if start < 0 {
		start = 0
	}
	if start > n-height {
		start = n - height
	}
	return start, start + height
}

func firstLine(s *slides.Slide) string {
	if s.IsImage() {
		return s.String()
	}
	if len(s.Lines) > 0 {
		return s.Lines[0]
	}
	return s.Title
}

// readerSize is the viewport size inside the reader panel.
func (m Model) readerSize() (int, int) {
	w := m.width/2 - 4
	h := m.height - 8
	return max(w, 10), max(h, 3)
}

// sideSize is the list size inside each of the three right-hand panels.
func (m Model) sideSize() (int, int) {
	w := m.width - m.width/2 - 4
	h := (m.height-4)/3 - 3
	return max(w, 10), max(h, 1)
}

func (m Model) formatChapter() string {
	if m.chapter == nil {
		return ""
	}

	textWidth := max(m.viewport.Width-6, 20)
	textStyle := m.styles.Text.Width(textWidth)
	highlight := m.styles.Selected.Width(textWidth)

	var sb strings.Builder
	for _, v := range m.chapter.Verses() {
		style := textStyle
		if m.ref.Chapter == m.chapter && m.ref.From > 0 && v.Num() >= m.ref.From && v.Num() <= m.ref.To {
			style = highlight
		}
		verseNum := m.styles.VerseNum.Render(fmt.Sprintf("%3d", v.Num()))
		sb.WriteString(fmt.Sprintf("%s  %s\n\n", verseNum, style.Render(v.Text())))
	}
	return sb.String()
}
