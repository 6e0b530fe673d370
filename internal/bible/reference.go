package bible

import (
	"fmt"
	"strconv"
	"strings"
)

// Reference is a resolved passage: a chapter and an inclusive verse range.
// From and To are zero when the whole chapter is meant.
type Reference struct {
	Chapter *Chapter
	From    int
	To      int
}

// ParseReference resolves references like "John 3:16-18", "1 John 2",
// "43 3:16" or "Gen 1" against b.
func ParseReference(b *Bible, ref string) (Reference, error) {
	parts := strings.Fields(strings.TrimSpace(ref))
	if len(parts) == 0 {
		return Reference{}, fmt.Errorf("empty reference")
	}

	// The last field is "chapter[:verse[-verse]]" unless only a book was given.
	chapterVerse := "1"
	bookParts := parts
	if len(parts) > 1 && startsWithDigit(parts[len(parts)-1]) {
		chapterVerse = parts[len(parts)-1]
		bookParts = parts[:len(parts)-1]
	}

	book, err := findBook(b, strings.Join(bookParts, " "))
	if err != nil {
		return Reference{}, err
	}

	cvParts := strings.SplitN(chapterVerse, ":", 2)
	chapterNum, err := strconv.Atoi(cvParts[0])
	if err != nil {
		return Reference{}, fmt.Errorf("invalid chapter %q", cvParts[0])
	}
	chapter, err := book.Chapter(chapterNum)
	if err != nil {
		return Reference{}, err
	}

	r := Reference{Chapter: chapter}
	if len(cvParts) == 2 {
		from, to, _ := strings.Cut(cvParts[1], "-")
		if r.From, err = strconv.Atoi(from); err != nil {
			return Reference{}, fmt.Errorf("invalid verse %q", from)
		}
		r.To = r.From
		if to != "" {
			if r.To, err = strconv.Atoi(to); err != nil {
				return Reference{}, fmt.Errorf("invalid verse %q", to)
			}
		}
		if r.To < r.From {
			r.From, r.To = r.To, r.From
		}
	}
	return r, nil
}

func findBook(b *Bible, name string) (*Book, error) {
	if n, err := strconv.Atoi(name); err == nil {
		return b.Book(n)
	}
	return b.BookByName(name)
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

// Verses returns the verses the reference covers.
func (r Reference) Verses() []*Verse {
	if r.Chapter == nil {
		return nil
	}
	if r.From == 0 {
		return r.Chapter.Verses()
	}
	return r.Chapter.Range(r.From, r.To)
}

func (r Reference) String() string {
	if r.Chapter == nil {
		return ""
	}
	s := r.Chapter.Name()
	switch {
	case r.From == 0:
	case r.From == r.To:
		s += ":" + strconv.Itoa(r.From)
	default:
		s += ":" + strconv.Itoa(r.From) + "-" + strconv.Itoa(r.To)
	}
	return s
}
