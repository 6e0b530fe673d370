// Package schedule keeps the ordered list of items for a service and which
// of them is selected for preview and which is live.
package schedule

import (
	"log/slog"

	"github.com/google/uuid"

	"quelea-tui/internal/log"
	"quelea-tui/internal/slides"
)

type Kind int

const (
	KindPassage Kind = iota
	KindImages
)

func (k Kind) String() string {
	switch k {
	case KindPassage:
		return "passage"
	case KindImages:
		return "images"
	default:
		return "unknown"
	}
}

// Item is one entry of the schedule.
type Item struct {
	ID     uuid.UUID
	Name   string
	Kind   Kind
	Slides []*slides.Slide
}

// NewItem returns an item with a fresh id.
func NewItem(name string, kind Kind, s []*slides.Slide) *Item {
	return &Item{ID: uuid.New(), Name: name, Kind: kind, Slides: s}
}

func (i *Item) Title() string { return i.Name }

// Policy holds the overflow switches from the settings.
type Policy struct {
	AdvanceOnLive bool
	SongOverflow  bool
}

// LiveFunc is called when an item goes live. last is set when the live panel
// should open the item on its final slide.
type LiveFunc func(item *Item, last bool)

// Schedule is the service order. It satisfies slides.Delegate so the live
// navigator can move across item boundaries.
type Schedule struct {
	items     []*Item
	selected  int
	live      *Item
	lastLyric bool
	policy    Policy
	onLive    []LiveFunc
	log       *slog.Logger
}

var _ slides.Delegate = (*Schedule)(nil)

func New(policy Policy) *Schedule {
	return &Schedule{
		selected: -1,
		policy:   policy,
		log:      log.WithComponent("schedule"),
	}
}

// OnLive registers fn to be called after every GoLive.
func (s *Schedule) OnLive(fn LiveFunc) {
	s.onLive = append(s.onLive, fn)
}

func (s *Schedule) SetPolicy(p Policy) { s.policy = p }
func (s *Schedule) Policy() Policy { return s.policy }

// Add appends an item, selecting it if nothing was selected.
func (s *Schedule) Add(item *Item) {
	s.items = append(s.items, item)
	if s.selected < 0 {
		s.selected = len(s.items) - 1
	}
	s.log.Info("item added", slog.String("id", item.ID.String()),
		slog.String("name", item.Name), slog.String("kind", item.Kind.String()))
}

// Remove deletes the item at index i.
func (s *Schedule) Remove(i int) {
	if i < 0 || i >= len(s.items) {
		return
	}
	if s.items[i] == s.live {
		s.live = nil
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	switch {
	case len(s.items) == 0:
		s.selected = -1
	case s.selected > i || s.selected >= len(s.items):
		s.selected--
	}
}

// Move shifts the item at index i by delta positions, keeping it selected.
func (s *Schedule) Move(i, delta int) {
	j := i + delta
	if i < 0 || i >= len(s.items) || j < 0 || j >= len(s.items) {
		return
	}
	s.items[i], s.items[j] = s.items[j], s.items[i]
	if s.selected == i {
		s.selected = j
	} else if s.selected == j {
		s.selected = i
	}
}

// List returns the items in order.
func (s *Schedule) List() []*Item { return s.items }

func (s *Schedule) Len() int { return len(s.items) }

// Items returns the items as the navigator sees them.
func (s *Schedule) Items() []slides.Displayable {
	out := make([]slides.Displayable, len(s.items))
	for i, item := range s.items {
		out[i] = item
	}
	return out
}

// Selected returns the selected item, or nil.
func (s *Schedule) Selected() *Item {
	if s.selected < 0 || s.selected >= len(s.items) {
		return nil
	}
	return s.items[s.selected]
}

func (s *Schedule) SelectedIndex() int { return s.selected }

// SetSelectedIndex selects the item at i; out of range indices are ignored.
func (s *Schedule) SetSelectedIndex(i int) {
	if i < 0 || i >= len(s.items) {
		return
	}
	s.selected = i
}

// Live returns the live item, or nil.
func (s *Schedule) Live() *Item { return s.live }

func (s *Schedule) LiveItem() slides.Displayable {
	if s.live == nil {
		return nil
	}
	return s.live
}

// IsLive reports whether item is on the live panel.
func (s *Schedule) IsLive(item *Item) bool { return item != nil && item == s.live }

// ClearLive takes the live item off the projector. The selection is kept.
func (s *Schedule) ClearLive() {
	if s.live == nil {
		return
	}
	s.log.Info("live cleared", slog.String("name", s.live.Name))
	s.live = nil
	s.lastLyric = false
}

// SelectLastLyric makes the next GoLive open on the item's last slide.
func (s *Schedule) SelectLastLyric() { s.lastLyric = true }

// GoLive sends the selected item live. With advance-on-live the selection
// moves on to the following item, ready for preview.
func (s *Schedule) GoLive() {
	item := s.Selected()
	if item == nil {
		return
	}
	last := s.lastLyric
	s.lastLyric = false
	s.live = item
	if s.policy.AdvanceOnLive && s.selected < len(s.items)-1 {
		s.selected++
	}
	s.log.Info("go live", slog.String("name", item.Name), slog.Bool("last_slide", last))
	for _, fn := range s.onLive {
		fn(item, last)
	}
}

func (s *Schedule) AdvanceOnLive() bool { return s.policy.AdvanceOnLive }
func (s *Schedule) SongOverflow() bool { return s.policy.SongOverflow }
