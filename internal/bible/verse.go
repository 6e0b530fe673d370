package bible

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/antchfx/xmlquery"
)

// ErrInvalidNumber is returned when a number attribute is not an integer.
var ErrInvalidNumber = errors.New("invalid number attribute")

// verseNumberAttrs lists the attribute names a verse number may be stored
// under, in the order they are tried. osisID is handled separately.
var verseNumberAttrs = []string{"vnumber", "number", "n", "id"}

// Verse is a single verse of a chapter.
type Verse struct {
	text       string
	num        int
	chapterNum int
	chapter    *Chapter
}

// ParseVerse builds a verse from a verse element. If the element carries a
// cnumber attribute, a chapter with that number is created and linked as the
// verse's parent.
func ParseVerse(node *xmlquery.Node) (*Verse, error) {
	return parseVerse(node, true)
}

func parseVerse(node *xmlquery.Node, linkChapter bool) (*Verse, error) {
	v := &Verse{}
	if raw, ok := attr(node, "cnumber"); ok {
		n, err := atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("cnumber %q: %w", raw, ErrInvalidNumber)
		}
		v.chapterNum = n
		if linkChapter {
			c := &Chapter{num: n}
			c.adopt(v)
		}
	}

	num, err := verseNumber(node)
	if err != nil {
		return nil, err
	}
	v.num = num
	v.text = strings.TrimSpace(strings.ReplaceAll(node.InnerText(), "\n", " "))
	return v, nil
}

func verseNumber(node *xmlquery.Node) (int, error) {
	for _, name := range verseNumberAttrs {
		if raw, ok := attr(node, name); ok {
			n, err := atoi(raw)
			if err != nil {
				return 0, fmt.Errorf("%s %q: %w", name, raw, ErrInvalidNumber)
			}
			return n, nil
		}
	}
	if raw, ok := attr(node, "osisID"); ok {
		n, err := osisNumber(raw)
		if err != nil {
			return 0, err
		}
		return n, nil
	}
	return 0, nil
}

// osisNumber returns the last segment of a dotted osisID such as Gen.1.5.
// Trailing empty segments are ignored, so "Gen.1." is verse 1.
func osisNumber(raw string) (int, error) {
	parts := strings.Split(strings.TrimSpace(raw), ".")
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 {
		return 0, fmt.Errorf("osisID %q: %w", raw, ErrInvalidNumber)
	}
	n, err := atoi(parts[len(parts)-1])
	if err != nil {
		return 0, fmt.Errorf("osisID %q: %w", raw, ErrInvalidNumber)
	}
	return n, nil
}

// attr returns the value of the unprefixed attribute name. Prefixed
// attributes such as xml:id never match.
func attr(node *xmlquery.Node, name string) (string, bool) {
	for _, a := range node.Attr {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// atoi parses a 32-bit decimal integer.
func atoi(raw string) (int, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	return int(n), err
}

// XML renders the verse in the vers element shape used by chapter files.
func (v *Verse) XML() string {
	var sb strings.Builder
	sb.WriteString(`<vers cnumber="`)
	sb.WriteString(strconv.Itoa(v.chapterNum))
	sb.WriteString(`" vnumber="`)
	sb.WriteString(strconv.Itoa(v.num))
	sb.WriteString(`">`)
	sb.WriteString(Escape(v.text))
	sb.WriteString(`</vers>`)
	return sb.String()
}

// Escape escapes s for use as XML character data or attribute content.
func Escape(s string) string {
	var sb strings.Builder
	// strings.Builder never returns a write error.
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}

// Equal reports whether two verses have the same text and number. The
// chapter a verse belongs to does not take part in the comparison.
func (v *Verse) Equal(other *Verse) bool {
	if v == nil || other == nil {
		return v == other
	}
	return v.text == other.text && v.num == other.num
}

// Hash is consistent with Equal.
func (v *Verse) Hash() int32 {
	var h int32 = 5
	h = 97*h + stringHash(v.text)
	h = 97*h + int32(v.num)
	return h
}

// stringHash is the base-31 polynomial hash over UTF-16 code units, with
// 32-bit wraparound.
func stringHash(s string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = 31*h + int32(c)
	}
	return h
}

func (v *Verse) String() string {
	return strconv.Itoa(v.num) + " " + v.text
}

// Name is the verse number followed by its text.
func (v *Verse) Name() string { return v.String() }

// Text returns the verse text.
func (v *Verse) Text() string { return v.text }

// Num returns the verse number within its chapter.
func (v *Verse) Num() int { return v.num }

// ChapterNum returns the number of the chapter the verse was read from.
func (v *Verse) ChapterNum() int { return v.chapterNum }

// Chapter returns the chapter this verse belongs to, or nil.
func (v *Verse) Chapter() *Chapter { return v.chapter }

func (v *Verse) Parent() Element {
	if v.chapter == nil {
		return nil
	}
	return v.chapter
}
