package slides

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	// Decoders for the image formats an image group may contain.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"quelea-tui/internal/bible"
	"quelea-tui/internal/log"
)

// Slide is one unit of displayable content.
type Slide struct {
	Title string
	Lines []string

	// Image slides only.
	ImagePath string
	Format    string
	Width     int
	Height    int
}

// IsImage reports whether the slide shows an image.
func (s *Slide) IsImage() bool { return s.ImagePath != "" }

// Text returns the slide's lines joined with newlines.
func (s *Slide) Text() string { return strings.Join(s.Lines, "\n") }

func (s *Slide) String() string {
	if s.IsImage() {
		return fmt.Sprintf("%s (%s %dx%d)", s.Title, s.Format, s.Width, s.Height)
	}
	return s.Title
}

// FromVerses makes one text slide per verse.
func FromVerses(title string, verses []*bible.Verse) []*Slide {
	out := make([]*Slide, 0, len(verses))
	for _, v := range verses {
		out = append(out, &Slide{
			Title: fmt.Sprintf("%s:%d", title, v.Num()),
			Lines: []string{v.String()},
		})
	}
	return out
}

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// LoadImageGroup makes one slide per image in dir, in file name order.
// Files that cannot be decoded are skipped and logged.
func LoadImageGroup(dir string) ([]*Slide, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading image group: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var out []*Slide
	for _, name := range names {
		s, err := loadImage(filepath.Join(dir, name))
		if err != nil {
			log.WithComponent("slides").Warn("skipping image", "file", name, "err", err)
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no images in %s", dir)
	}
	return out, nil
}

func loadImage(path string) (*Slide, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, err
	}
	return &Slide{
		Title:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		ImagePath: path,
		Format:    format,
		Width:     cfg.Width,
		Height:    cfg.Height,
	}, nil
}
