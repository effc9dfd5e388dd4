// lmv is a terminal viewer for life maps stored by the lifemap server.
//
// It opens the SQLite database read-only, lays the life map out for the
// terminal width and redraws whenever the database changes.
//
// Usage:
//
//	lmv                         # Auto-discover data/lifemap.db
//	lmv --db <path>             # Use specific database path
//	lmv --map <id>              # Show a specific life map
//	lmv --json                  # Dump the computed layout as JSON and exit
//	lmv --view past             # Start in a specific view (all|past|future)
//	lmv --autoscale             # Start with autoscale enabled
//	lmv --refresh 5s            # Set polling fallback interval
//	lmv --version               # Print version and exit
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/stsysd/lifemap/config"
	"github.com/stsysd/lifemap/datasource"
	"github.com/stsysd/lifemap/model"
	"github.com/stsysd/lifemap/timeline"
)

// Version is set via ldflags at build time (e.g. -X main.Version=v0.1.0).
var Version = "dev"

// defaultJSONWidth is the layout width for --json when no terminal is attached.
const defaultJSONWidth = 1200

func main() {
	dbPath := flag.String("db", "", "path to lifemap.db (default: auto-discover)")
	mapID := flag.String("map", "", "life map id (default: first life map)")
	refreshDur := flag.Duration("refresh", datasource.DefaultPollInterval, "polling fallback interval")
	jsonMode := flag.Bool("json", false, "dump the computed layout as JSON and exit (no TUI)")
	viewFlag := flag.String("view", "all", "start in specific view (all|past|future)")
	autoScale := flag.Bool("autoscale", false, "fit the window to the visible items")
	logPath := flag.String("log", filepath.Join(os.TempDir(), "lmv.log"), "log file path")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("lmv %s\n", Version)
		os.Exit(0)
	}

	view, err := model.ParseViewMode(*viewFlag)
	if err != nil {
		fail(err)
	}

	level := os.Getenv("LIFEMAP_LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	logger, err := config.NewLogger(level, "production", *logPath)
	if err != nil {
		fail(err)
	}
	defer func() { _ = logger.Sync() }()

	s, path, err := datasource.Open(*dbPath)
	if err != nil {
		fail(err)
	}
	logger.Info("Database opened", zap.String("path", path))

	lm, err := loadLifeMap(context.Background(), s, *mapID)
	if err != nil {
		s.Close()
		fail(err)
	}

	if *jsonMode {
		err := writeLayoutJSON(os.Stdout, lm, view, *autoScale, defaultJSONWidth, time.Now())
		s.Close()
		if err != nil {
			fail(fmt.Errorf("json: %w", err))
		}
		os.Exit(0)
	}

	w, err := datasource.NewWatcherWithInterval(path, datasource.DefaultDebounce, *refreshDur)
	if err != nil {
		s.Close()
		fail(fmt.Errorf("watch: %w", err))
	}
	if w.Polling() {
		logger.Warn("File notifications unavailable, polling", zap.Duration("interval", *refreshDur))
	}

	m := newModel(s, lm, *mapID, path, logger)
	m.view = view
	m.autoScale = *autoScale
	m.closer = func() {
		w.Close()
		s.Close()
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Feed DB change events into the TUI.
	go func() {
		for range w.Changes() {
			p.Send(dbChangedMsg{})
		}
	}()

	if _, err := p.Run(); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "lmv: %v\n", err)
	os.Exit(1)
}

// writeLayoutJSON computes the layout of lm at the given pixel width and
// writes it as indented JSON.
func writeLayoutJSON(out io.Writer, lm *model.LifeMap, view model.ViewMode, autoScale bool, width int, today time.Time) error {
	in := timeline.NewInput(lm, today)
	in.View = view
	in.AutoScale = autoScale
	in.Width = width

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(timeline.ComputeLayout(in))
}
