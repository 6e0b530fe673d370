// Command quelea-tui is a terminal projection console: read a bible, build a
// service schedule from passages and image groups, and drive the live slides.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"quelea-tui/internal/bible"
	"quelea-tui/internal/cache"
	"quelea-tui/internal/log"
	"quelea-tui/internal/settings"
	"quelea-tui/internal/ui"
)

const version = "0.1.0"

// CLI defines the command-line interface.
var CLI struct {
	Config     string `name:"config" short:"c" help:"Settings file" type:"path"`
	LogLevel   string `name:"log-level" help:"Log level (debug, info, warn, error)"`
	LogConsole bool   `name:"log-console" help:"Also write logs to stderr"`

	Run     RunCmd     `cmd:"" default:"withargs" help:"Start the console (default)"`
	Verse   VerseCmd   `cmd:"" help:"Print a passage as verse XML"`
	Import  ImportCmd  `cmd:"" help:"Import or download a bible into the cache"`
	List    ListCmd    `cmd:"" help:"List cached bibles"`
	Remove  RemoveCmd  `cmd:"" help:"Remove a cached bible"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// RunCmd starts the TUI.
type RunCmd struct {
	Bible    string   `name:"bible" short:"b" help:"Cached bible name or XML file"`
	Images   []string `name:"images" short:"i" help:"Image directory to add to the schedule (repeatable)" type:"existingdir"`
	Loopback bool     `name:"loopback" help:"Wrap from the last live slide to the first"`
}

func (c *RunCmd) Run(app *appContext) error {
	s := app.settings
	if c.Bible != "" {
		s.Bible = c.Bible
	}
	if c.Loopback {
		s.Loopback = true
	}

	log.L().Info("starting console", "bible", s.Bible, "images", len(c.Images))
	p := tea.NewProgram(
		ui.NewModel(ui.Options{
			Settings:   s,
			ConfigPath: app.configPath,
			Cache:      app.cache,
			ImageDirs:  c.Images,
		}),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}

// VerseCmd prints the verses of a reference in their XML form.
type VerseCmd struct {
	Bible string   `name:"bible" short:"b" help:"Cached bible name or XML file"`
	Ref   []string `arg:"" help:"Reference, e.g. John 3:16-18"`
}

func (c *VerseCmd) Run(app *appContext) error {
	name := c.Bible
	if name == "" {
		name = app.settings.Bible
	}
	if name == "" {
		return errors.New("no bible given; pass --bible or set one in the settings")
	}
	b, err := openBible(app.cache, name)
	if err != nil {
		return err
	}
	ref, err := bible.ParseReference(b, strings.Join(c.Ref, " "))
	if err != nil {
		return err
	}
	for _, v := range ref.Verses() {
		fmt.Println(v.XML())
	}
	return nil
}

// ImportCmd stores a bible from a local file or URL in the cache.
type ImportCmd struct {
	Name   string `arg:"" help:"Name to cache the bible under"`
	Source string `arg:"" help:"XML or zip file, or an http(s) URL"`
}

func (c *ImportCmd) Run(app *appContext) error {
	var err error
	if strings.HasPrefix(c.Source, "http://") || strings.HasPrefix(c.Source, "https://") {
		err = app.cache.Download(c.Name, c.Source)
	} else {
		err = app.cache.Import(c.Name, c.Source)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Cached %s\n", c.Name)
	return nil
}

// ListCmd lists the cached bibles.
type ListCmd struct{}

func (c *ListCmd) Run(app *appContext) error {
	names, err := app.cache.ListCached()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("No cached bibles")
		return nil
	}
	for _, n := range names {
		fmt.Println(n)
	}
	size, err := app.cache.Size()
	if err == nil {
		fmt.Printf("\n%d bibles, %.1f MB in %s\n", len(names), float64(size)/(1<<20), app.cache.Dir())
	}
	return nil
}

// RemoveCmd deletes a cached bible.
type RemoveCmd struct {
	Name string `arg:"" help:"Cached bible name"`
}

func (c *RemoveCmd) Run(app *appContext) error {
	if err := app.cache.Remove(c.Name); err != nil {
		return err
	}
	fmt.Printf("Removed %s\n", c.Name)
	return nil
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("quelea-tui version %s\n", version)
	return nil
}

type appContext struct {
	settings   settings.Settings
	configPath string
	cache      *cache.Cache
}

func openBible(c *cache.Cache, name string) (*bible.Bible, error) {
	if _, err := os.Stat(name); err == nil {
		return bible.Load(name)
	}
	return c.Open(name)
}

// logOptions resolves the logger options. Flags win over the settings file,
// which wins over the QTUI_LOG_* environment and its built-in defaults.
func logOptions(s settings.Settings) log.Options {
	opts := log.Options{
		Level:   CLI.LogLevel,
		Console: CLI.LogConsole,
	}.Merge(log.Options{
		Level:  s.Logging.Level,
		Format: s.Logging.Format,
		File:   s.Logging.File,
	}).Merge(log.FromEnv())
	if opts.File == "" {
		opts.File = settings.DefaultLogFile()
	}
	return opts
}

func setup() (*appContext, error) {
	configPath := CLI.Config
	if configPath == "" {
		p, err := settings.Path()
		if err != nil {
			return nil, err
		}
		configPath = p
	}
	s, err := settings.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	log.Init(logOptions(s))

	c, err := cache.NewCache()
	if err != nil {
		return nil, err
	}
	return &appContext{settings: s, configPath: configPath, cache: c}, nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("quelea-tui"),
		kong.Description("Terminal projection console for bible passages and image groups"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	app, err := setup()
	ctx.FatalIfErrorf(err)

	err = ctx.Run(app)
	if err != nil {
		log.L().Error("command failed", "command", ctx.Command(), "err", err)
	}
	ctx.FatalIfErrorf(err)
}
