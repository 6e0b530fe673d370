package cache

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"quelea-tui/internal/bible"
	"quelea-tui/internal/log"
)

// ErrNotCached is returned when a bible has not been imported.
var ErrNotCached = errors.New("bible not cached")

// Cache is the local library of bible XML files.
type Cache struct {
	cacheDir   string
	httpClient *http.Client
}

func NewCache() (*Cache, error) {
	// Get user's cache directory
	base, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	return NewCacheAt(filepath.Join(base, "quelea-tui", "bibles"))
}

// NewCacheAt uses dir as the library, creating it if needed.
func NewCacheAt(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{cacheDir: dir, httpClient: &http.Client{}}, nil
}

func (c *Cache) Dir() string { return c.cacheDir }

func (c *Cache) path(name string) string {
	return filepath.Join(c.cacheDir, name+".xml")
}

// IsCached checks if a bible is already in the library
func (c *Cache) IsCached(name string) bool {
	_, err := os.Stat(c.path(name))
	return err == nil
}

// Import copies a bible into the library under name. src may be an XML file
// or a zip archive holding one.
func (c *Cache) Import(name, src string) error {
	if strings.EqualFold(filepath.Ext(src), ".zip") {
		return c.extractXML(src, name)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	return c.store(name, in)
}

// Download fetches a bible XML file or zip archive from rawURL.
func (c *Cache) Download(name, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	resp, err := c.httpClient.Get(rawURL)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	// Create temporary file for the download
	tmpFile, err := os.CreateTemp("", name+"*"+path.Ext(u.Path))
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile.Name())
	defer tmpFile.Close()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	log.WithComponent("cache").Info("downloaded bible", "name", name, "url", rawURL)
	return c.Import(name, tmpFile.Name())
}

func (c *Cache) extractXML(zipPath, name string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer r.Close()

	// Find the XML file in the ZIP
	for _, f := range r.File {
		if strings.EqualFold(filepath.Ext(f.Name), ".xml") {
			rc, err := f.Open()
			if err != nil {
				return err
			}
			defer rc.Close()
			return c.store(name, rc)
		}
	}

	return fmt.Errorf("no XML file found in %s", filepath.Base(zipPath))
}

// store writes r to the library, refusing anything that does not parse as a
// bible so a bad import never replaces a good one.
func (c *Cache) store(name string, r io.Reader) error {
	tmp, err := os.CreateTemp(c.cacheDir, name+"*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if _, err := bible.Load(tmp.Name()); err != nil {
		return fmt.Errorf("importing %s: %w", name, err)
	}
	return os.Rename(tmp.Name(), c.path(name))
}

// Open parses a cached bible.
func (c *Cache) Open(name string) (*bible.Bible, error) {
	if !c.IsCached(name) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotCached)
	}
	return bible.Load(c.path(name))
}

// ListCached returns the names of the cached bibles
func (c *Cache) ListCached() ([]string, error) {
	entries, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".xml" {
			names = append(names, strings.TrimSuffix(entry.Name(), ".xml"))
		}
	}

	return names, nil
}

// ClearCache removes the whole library
func (c *Cache) ClearCache() error {
	return os.RemoveAll(c.cacheDir)
}

// Remove deletes one cached bible
func (c *Cache) Remove(name string) error {
	err := os.Remove(c.path(name))
	if os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", name, ErrNotCached)
	}
	return err
}

// Size returns the total size of cached data in bytes
func (c *Cache) Size() (int64, error) {
	var size int64
	entries, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return 0, err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			info, err := entry.Info()
			if err != nil {
				continue
			}
			size += info.Size()
		}
	}

	return size, nil
}
