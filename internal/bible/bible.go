// Package bible models bibles read from Zefania and OSIS style XML: a Bible
// owns its books, books own chapters, chapters own verses, and every level
// keeps a plain back-reference to its owner.
package bible

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"quelea-tui/internal/log"
)

// ErrNotFound is returned by lookups that match nothing.
var ErrNotFound = errors.New("not found")

// Element is the view shared by books, chapters and verses.
type Element interface {
	Name() string
	Text() string
	Num() int
	Parent() Element
}

var (
	bookExpr    = xpath.MustCompile(`//*[translate(local-name(), 'bileok', 'BILEOK') = 'BIBLEBOOK' or (local-name() = 'div' and @type = 'book')]`)
	chapterExpr = xpath.MustCompile(`./*[translate(local-name(), 'chapter', 'CHAPTER') = 'CHAPTER']`)
	verseExpr   = xpath.MustCompile(`./*[translate(local-name(), 'versi', 'VERSI') = 'VERS' or translate(local-name(), 'versi', 'VERSI') = 'VERSE']`)
	titleExpr   = xpath.MustCompile(`//INFORMATION/title`)
)

// Bible is a parsed translation.
type Bible struct {
	name  string
	books []*Book
}

// Load parses the bible stored at path.
func Load(path string) (*Bible, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Parse reads a whole XMLBIBLE or OSIS document. Verses that cannot be
// parsed are skipped so that one bad element does not lose the translation.
func Parse(r io.Reader) (*Bible, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}

	b := &Bible{}
	if root := rootElement(doc); root != nil {
		if name, ok := attr(root, "biblename"); ok {
			b.name = strings.TrimSpace(name)
		}
	}
	if b.name == "" {
		if t := xmlquery.QuerySelector(doc, titleExpr); t != nil {
			b.name = strings.TrimSpace(t.InnerText())
		}
	}

	for i, node := range xmlquery.QuerySelectorAll(doc, bookExpr) {
		book, err := ParseBook(node)
		if err != nil {
			return nil, err
		}
		if book.num == 0 {
			book.num = i + 1
		}
		book.bible = b
		b.books = append(b.books, book)
	}
	if len(b.books) == 0 {
		return nil, fmt.Errorf("no books: %w", ErrNotFound)
	}
	return b, nil
}

func rootElement(doc *xmlquery.Node) *xmlquery.Node {
	for n := doc.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == xmlquery.ElementNode {
			return n
		}
	}
	return nil
}

func (b *Bible) Name() string { return b.name }
func (b *Bible) Text() string { return b.name }
func (b *Bible) Num() int { return 0 }
func (b *Bible) Parent() Element { return nil }
func (b *Bible) Books() []*Book { return b.books }
func (b *Bible) String() string { return b.name }

// Book returns the book with the given number.
func (b *Bible) Book(num int) (*Book, error) {
	for _, book := range b.books {
		if book.num == num {
			return book, nil
		}
	}
	return nil, fmt.Errorf("book %d: %w", num, ErrNotFound)
}

// BookByName matches a full or abbreviated book name, ignoring case and
// spaces, so "1jn", "1 John" and "1 john" all find the same book.
func (b *Bible) BookByName(name string) (*Book, error) {
	want := normalizeName(name)
	if want == "" {
		return nil, fmt.Errorf("empty book name: %w", ErrNotFound)
	}
	for _, book := range b.books {
		if normalizeName(book.name) == want {
			return book, nil
		}
	}
	for _, book := range b.books {
		if strings.HasPrefix(normalizeName(book.name), want) {
			return book, nil
		}
	}
	return nil, fmt.Errorf("book %q: %w", name, ErrNotFound)
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// Book is one book of a bible.
type Book struct {
	num      int
	name     string
	chapters []*Chapter
	bible    *Bible
}

// ParseBook reads a BIBLEBOOK (or OSIS book div) element and its chapters.
func ParseBook(node *xmlquery.Node) (*Book, error) {
	book := &Book{}
	for _, name := range []string{"bnumber", "number", "n"} {
		if raw, ok := attr(node, name); ok {
			n, err := atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("%s %q: %w", name, raw, ErrInvalidNumber)
			}
			book.num = n
			break
		}
	}
	for _, name := range []string{"bname", "bsname", "name", "osisID"} {
		if v, ok := attr(node, name); ok && strings.TrimSpace(v) != "" {
			book.name = strings.TrimSpace(v)
			break
		}
	}

	for i, cn := range xmlquery.QuerySelectorAll(node, chapterExpr) {
		c, err := ParseChapter(cn)
		if err != nil {
			log.WithComponent("bible").Warn("skipping chapter",
				"book", book.name, "index", i+1, "err", err)
			continue
		}
		if c.num == 0 {
			c.num = i + 1
			for _, v := range c.verses {
				v.chapterNum = c.num
			}
		}
		c.book = book
		book.chapters = append(book.chapters, c)
	}
	return book, nil
}

func (b *Book) Name() string { return b.name }
func (b *Book) Num() int { return b.num }
func (b *Book) Chapters() []*Chapter { return b.chapters }
func (b *Book) Bible() *Bible { return b.bible }
func (b *Book) String() string { return b.name }

// Text joins the text of every chapter.
func (b *Book) Text() string {
	parts := make([]string, 0, len(b.chapters))
	for _, c := range b.chapters {
		parts = append(parts, c.Text())
	}
	return strings.Join(parts, "\n")
}

func (b *Book) Parent() Element {
	if b.bible == nil {
		return nil
	}
	return b.bible
}

// Chapter returns the chapter with the given number.
func (b *Book) Chapter(num int) (*Chapter, error) {
	for _, c := range b.chapters {
		if c.num == num {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%s %d: %w", b.name, num, ErrNotFound)
}

// Chapter is one chapter of a book.
type Chapter struct {
	num    int
	verses []*Verse
	book   *Book
}

// ParseChapter reads a chapter element and its verse children. The chapter
// number comes from cnumber, number, n or the last osisID segment.
func ParseChapter(node *xmlquery.Node) (*Chapter, error) {
	c := &Chapter{}
	found := false
	for _, name := range []string{"cnumber", "number", "n"} {
		if raw, ok := attr(node, name); ok {
			n, err := atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("%s %q: %w", name, raw, ErrInvalidNumber)
			}
			c.num = n
			found = true
			break
		}
	}
	if !found {
		if raw, ok := attr(node, "osisID"); ok {
			n, err := osisNumber(raw)
			if err != nil {
				return nil, err
			}
			c.num = n
		}
	}

	for _, vn := range xmlquery.QuerySelectorAll(node, verseExpr) {
		v, err := parseVerse(vn, false)
		if err != nil {
			log.WithComponent("bible").Debug("skipping verse",
				"chapter", c.num, "err", err)
			continue
		}
		c.adopt(v)
	}
	return c, nil
}

// adopt appends v and points it back at c.
func (c *Chapter) adopt(v *Verse) {
	v.chapter = c
	v.chapterNum = c.num
	c.verses = append(c.verses, v)
}

func (c *Chapter) Num() int { return c.num }
func (c *Chapter) Verses() []*Verse { return c.verses }
func (c *Chapter) Book() *Book { return c.book }

func (c *Chapter) Name() string {
	if c.book == nil {
		return "Chapter " + strconv.Itoa(c.num)
	}
	return c.book.name + " " + strconv.Itoa(c.num)
}

// Text joins the verses with single spaces.
func (c *Chapter) Text() string {
	parts := make([]string, 0, len(c.verses))
	for _, v := range c.verses {
		parts = append(parts, v.text)
	}
	return strings.Join(parts, " ")
}

func (c *Chapter) Parent() Element {
	if c.book == nil {
		return nil
	}
	return c.book
}

// Verse returns the verse with the given number.
func (c *Chapter) Verse(num int) (*Verse, error) {
	for _, v := range c.verses {
		if v.num == num {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%s:%d: %w", c.Name(), num, ErrNotFound)
}

// Range returns the verses numbered from..to inclusive. A to of zero means
// the end of the chapter.
func (c *Chapter) Range(from, to int) []*Verse {
	var out []*Verse
	for _, v := range c.verses {
		if v.num < from {
			continue
		}
		if to > 0 && v.num > to {
			continue
		}
		out = append(out, v)
	}
	return out
}
