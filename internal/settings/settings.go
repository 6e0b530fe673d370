package settings

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type Settings struct {
	Theme         string  `yaml:"theme"` // theme key, e.g. "dracula"
	Bible         string  `yaml:"bible"` // cached bible name or XML path
	Loopback      bool    `yaml:"loopback"`
	AdvanceOnLive bool    `yaml:"advance_on_live"`
	SongOverflow  bool    `yaml:"song_overflow"`
	Logging       Logging `yaml:"logging"`
}

// Environment variables that override the file.
const (
	EnvTheme         = "QTUI_THEME"
	EnvBible         = "QTUI_BIBLE"
	EnvAdvanceOnLive = "QTUI_ADVANCE_ON_LIVE"
	EnvSongOverflow  = "QTUI_SONG_OVERFLOW"
)

// Defaults returns the settings used when no config file exists.
func Defaults() Settings {
	return Settings{
		Theme:         "catppuccin-mocha",
		AdvanceOnLive: true,
	}
}

func configDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(configDir, "quelea-tui")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// Path returns the default config file location.
func Path() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultLogFile returns the log file used when none is configured.
func DefaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "quelea-tui", "quelea-tui.log")
}

// Load reads the settings at path, or at Path() when path is empty, and
// applies environment overrides.
func Load(path string) (Settings, error) {
	s := Defaults()

	if path == "" {
		p, err := Path()
		if err != nil {
			return s, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// No config = just defaults, no error
		if os.IsNotExist(err) {
			applyEnv(&s)
			return s, nil
		}
		return s, err
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return Defaults(), err
	}
	applyEnv(&s)
	return s, nil
}

func applyEnv(s *Settings) {
	if v := strings.TrimSpace(os.Getenv(EnvTheme)); v != "" {
		s.Theme = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBible)); v != "" {
		s.Bible = v
	}
	if b, err := strconv.ParseBool(os.Getenv(EnvAdvanceOnLive)); err == nil {
		s.AdvanceOnLive = b
	}
	if b, err := strconv.ParseBool(os.Getenv(EnvSongOverflow)); err == nil {
		s.SongOverflow = b
	}
}

// Save writes s to path, or to Path() when path is empty.
func Save(path string, s Settings) error {
	if path == "" {
		p, err := Path()
		if err != nil {
			return err
		}
		path = p
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
