// Package slides holds the slide model and the navigator that tracks which
// slide of a group is selected in the preview and live panels.
package slides

import (
	"log/slog"

	"quelea-tui/internal/log"
)

// Displayable is an item of the service schedule as the navigator sees it.
// Items are compared by identity.
type Displayable interface {
	Title() string
}

// Delegate is the schedule and live display the navigator hands off to when
// navigation runs past either end of its slides.
type Delegate interface {
	LiveItem() Displayable
	Items() []Displayable
	SelectedIndex() int
	SetSelectedIndex(i int)
	GoLive()
	SelectLastLyric()
	AdvanceOnLive() bool
	SongOverflow() bool
}

// Listener is called with the newly selected slide, or nil when nothing is
// selected.
type Listener func(*Slide)

// ListenerID identifies a registered listener for RemoveListener.
type ListenerID int

type listener struct {
	id ListenerID
	fn Listener
}

// Navigator tracks the selected slide of a slide list. Slides are addressed
// from 1; index 0 means nothing is selected. A Navigator is not safe for
// concurrent use; it lives on the UI goroutine.
type Navigator struct {
	slides    []*Slide
	selected  int
	delegate  Delegate
	listeners []listener
	nextID    ListenerID
	log       *slog.Logger
}

// NewNavigator returns an empty navigator. delegate may be nil, in which case
// navigation stops at the ends of the list.
func NewNavigator(name string, delegate Delegate) *Navigator {
	return &Navigator{
		delegate: delegate,
		log:      log.WithComponent("slides").With(slog.String("panel", name)),
	}
}

// AddListener registers fn for selection changes.
func (n *Navigator) AddListener(fn Listener) ListenerID {
	n.nextID++
	n.listeners = append(n.listeners, listener{id: n.nextID, fn: fn})
	return n.nextID
}

// RemoveListener unregisters a listener. Unknown ids are ignored.
func (n *Navigator) RemoveListener(id ListenerID) {
	for i, l := range n.listeners {
		if l.id == id {
			n.listeners = append(n.listeners[:i:i], n.listeners[i+1:]...)
			return
		}
	}
}

func (n *Navigator) fire() {
	// Listeners may add or remove listeners; iterate over a snapshot.
	snapshot := append([]listener(nil), n.listeners...)
	selected := n.SelectedSlide()
	for _, l := range snapshot {
		l.fn(selected)
	}
}

// SetSlides replaces the slides and selects the first one without notifying
// listeners. Passing the list already shown is a no-op.
func (n *Navigator) SetSlides(slides []*Slide) {
	if sameList(n.slides, slides) {
		return
	}
	n.slides = slides
	n.selected = 0
	if len(slides) > 0 {
		n.selected = 1
	}
	n.log.Debug("slides set", slog.Int("count", len(slides)))
}

// sameList reports whether a and b are the same list, not merely equal ones.
func sameList(a, b []*Slide) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return (a == nil) == (b == nil)
	}
	return &a[0] == &b[0]
}

// Slides returns the current slide list.
func (n *Navigator) Slides() []*Slide { return n.slides }

// Len returns the number of slides.
func (n *Navigator) Len() int { return len(n.slides) }

// SelectedIndex returns the 1-based index of the selected slide, or 0.
func (n *Navigator) SelectedIndex() int { return n.selected }

// SelectedSlide returns the selected slide, or nil.
func (n *Navigator) SelectedSlide() *Slide {
	if n.selected < 1 || n.selected > len(n.slides) {
		return nil
	}
	return n.slides[n.selected-1]
}

// IsSelected reports whether slide number i is the selected one.
func (n *Navigator) IsSelected(i int) bool {
	return i >= 1 && i == n.selected
}

// Select selects slide i and notifies listeners. Indices outside [1, Len()]
// clear the selection.
func (n *Navigator) Select(i int) {
	n.selectSlide(i, true)
}

// SelectQuiet is Select without listener notification.
func (n *Navigator) SelectQuiet(i int) {
	n.selectSlide(i, false)
}

func (n *Navigator) selectSlide(i int, notify bool) {
	if i < 1 || i > len(n.slides) {
		i = 0
	}
	if i == n.selected {
		return
	}
	n.selected = i
	n.log.Debug("selected", slog.Int("index", n.selected))
	if notify {
		n.fire()
	}
}

// Advance moves to the next slide. With loopback the last slide wraps to the
// first. Without it, advancing past the last slide hands over to the
// delegate when song overflow is enabled.
func (n *Navigator) Advance(loopback bool) {
	count := len(n.slides)
	switch {
	case loopback && n.selected > 0 && count > 0:
		n.Select(n.selected%count + 1)
	case !loopback && n.selected > 0 && n.selected < count:
		n.Select(n.selected + 1)
	case count > 0 && n.selected == count:
		n.overflowForward()
	}
}

func (n *Navigator) overflowForward() {
	d := n.delegate
	if d == nil || !d.SongOverflow() || !d.AdvanceOnLive() {
		return
	}
	items := d.Items()
	if len(items) == 0 || d.LiveItem() == items[len(items)-1] {
		return
	}
	n.log.Info("overflow to next schedule item")
	d.GoLive()
}

// Previous moves to the previous slide. On the first slide it steps the
// schedule back to the item before the live one, when song overflow and
// advance-on-live are both enabled.
func (n *Navigator) Previous() {
	if n.selected >= 2 {
		n.Select(n.selected - 1)
		return
	}
	n.overflowBackward()
}

func (n *Navigator) overflowBackward() {
	d := n.delegate
	if d == nil || !d.SongOverflow() || !d.AdvanceOnLive() {
		return
	}
	items := d.Items()
	if len(items) == 0 {
		return
	}
	live := d.LiveItem()
	if items[0] == live {
		return
	}
	// The schedule selection normally sits one past the live item; when the
	// live item is the last one the selection could not move past it.
	index := d.SelectedIndex()
	if live == items[len(items)-1] {
		index--
	} else {
		index -= 2
	}
	if index < 0 {
		return
	}
	n.log.Info("overflow to previous schedule item", slog.Int("schedule_index", index))
	d.SetSelectedIndex(index)
	d.SelectLastLyric()
	d.GoLive()
}

// Next is the plain forward step bound to the arrow keys: it never wraps and
// never leaves the list.
func (n *Navigator) Next() {
	if n.selected > 0 && n.selected < len(n.slides) {
		n.Select(n.selected + 1)
	}
}

// Back is the plain backward step bound to the arrow keys.
func (n *Navigator) Back() {
	if n.selected >= 2 {
		n.Select(n.selected - 1)
	}
}

// SelectLast selects the final slide.
func (n *Navigator) SelectLast() {
	n.Select(len(n.slides))
}

// Clear drops the slides and the selection.
func (n *Navigator) Clear() {
	n.slides = nil
	n.selected = 0
}
