package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stsysd/lifemap/model"
	"github.com/stsysd/lifemap/timeline"
)

const zoomStep = 0.1

// lifeMapReader is the read side of the store the viewer needs.
type lifeMapReader interface {
	GetLifeMap(ctx context.Context, id uuid.UUID) (*model.LifeMap, error)
	ListLifeMaps(ctx context.Context, pagination *model.Pagination) ([]*model.LifeMap, error)
}

var errNoLifeMaps = errors.New("no life maps in database")

// loadLifeMap returns the life map with the given id, or the first stored
// one when id is empty.
func loadLifeMap(ctx context.Context, r lifeMapReader, id string) (*model.LifeMap, error) {
	if id != "" {
		mapID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid map id %q: %w", id, err)
		}
		return r.GetLifeMap(ctx, mapID)
	}
	p, err := model.NewPagination("1", "0")
	if err != nil {
		return nil, err
	}
	maps, err := r.ListLifeMaps(ctx, p)
	if err != nil {
		return nil, err
	}
	if len(maps) == 0 {
		return nil, errNoLifeMaps
	}
	return maps[0], nil
}

// --- Messages ---

type dbChangedMsg struct{}

type lifeMapLoadedMsg struct {
	lm  *model.LifeMap
	err error
}

type tickMsg struct{}

// --- Key bindings ---

type keyMap struct {
	Quit      key.Binding
	Left      key.Binding
	Right     key.Binding
	View      key.Binding
	AutoScale key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	Enter     key.Binding
	Esc       key.Binding
	Refresh   key.Binding
	Help      key.Binding
}

var keys = keyMap{
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("h/left", "previous item")),
	Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("l/right", "next item")),
	View:      key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "all/past/future")),
	AutoScale: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "autoscale")),
	ZoomIn:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
	ZoomOut:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "item detail")),
	Esc:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close detail")),
	Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.View, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Enter, k.Esc},
		{k.View, k.AutoScale, k.ZoomIn, k.ZoomOut},
		{k.Refresh, k.Help, k.Quit},
	}
}

// --- Model ---

type uiModel struct {
	reader  lifeMapReader
	closer  func()
	logger  *zap.Logger
	mapID   string
	dbPath  string
	today   func() time.Time
	lm      *model.LifeMap
	layout  *timeline.Layout
	loadErr error

	view      model.ViewMode
	autoScale bool
	zoom      float64 // 0 uses the life map's own zoom
	selected  int64
	detail    bool

	width  int
	height int

	help     help.Model
	showHelp bool

	lastRefresh time.Time
}

func newModel(r lifeMapReader, lm *model.LifeMap, mapID, dbPath string, logger *zap.Logger) uiModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return uiModel{
		reader:      r,
		logger:      logger,
		lm:          lm,
		mapID:       mapID,
		dbPath:      dbPath,
		today:       time.Now,
		view:        model.ViewAll,
		help:        help.New(),
		lastRefresh: time.Now(),
	}
}

func (m uiModel) Init() tea.Cmd {
	return tickEvery()
}

func tickEvery() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			if m.closer != nil {
				m.closer()
			}
			return m, tea.Quit

		case key.Matches(msg, keys.Left):
			m.moveSelection(-1)

		case key.Matches(msg, keys.Right):
			m.moveSelection(1)

		case key.Matches(msg, keys.Enter):
			m.detail = m.selected != 0

		case key.Matches(msg, keys.Esc):
			m.detail = false

		case key.Matches(msg, keys.View):
			m.view = m.view.Next()
			m.relayout()

		case key.Matches(msg, keys.AutoScale):
			m.autoScale = !m.autoScale
			m.relayout()

		case key.Matches(msg, keys.ZoomIn):
			m.setZoom(m.currentZoom() + zoomStep)

		case key.Matches(msg, keys.ZoomOut):
			m.setZoom(m.currentZoom() - zoomStep)

		case key.Matches(msg, keys.Refresh):
			return m, m.reload()

		case key.Matches(msg, keys.Help):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.relayout()

	case dbChangedMsg:
		return m, m.reload()

	case lifeMapLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("Failed to reload life map", zap.String("db", m.dbPath), zap.Error(msg.err))
			m.loadErr = msg.err
			return m, nil
		}
		m.lm = msg.lm
		m.loadErr = nil
		m.lastRefresh = time.Now()
		m.relayout()

	case tickMsg:
		return m, tickEvery()
	}

	return m, nil
}

func (m uiModel) reload() tea.Cmd {
	r, id := m.reader, m.mapID
	if m.lm != nil {
		id = m.lm.ID.String()
	}
	return func() tea.Msg {
		lm, err := loadLifeMap(context.Background(), r, id)
		return lifeMapLoadedMsg{lm: lm, err: err}
	}
}

func (m *uiModel) currentZoom() float64 {
	if m.zoom != 0 {
		return m.zoom
	}
	if m.lm != nil && m.lm.Zoom != 0 {
		return m.lm.Zoom
	}
	return model.DefaultZoom
}

func (m *uiModel) setZoom(z float64) {
	z = math.Round(z*10) / 10
	m.zoom = min(max(z, model.MinZoom), model.MaxZoom)
	m.relayout()
}

// relayout recomputes the layout for the current map, terminal width and
// display options. The selection is kept when its item is still drawn.
func (m *uiModel) relayout() {
	if m.lm == nil || m.width == 0 {
		m.layout = nil
		return
	}
	in := timeline.NewInput(m.lm, m.today())
	in.View = m.view
	in.AutoScale = m.autoScale
	in.Width = layoutWidth(m.width)
	in.Zoom = m.currentZoom()

	start := time.Now()
	m.layout = timeline.ComputeLayout(in)
	m.logger.Debug("Layout computed",
		zap.Int("items", len(m.layout.Items)),
		zap.Duration("elapsed", time.Since(start)),
	)
	if len(m.layout.Skipped) > 0 {
		m.logger.Warn("Items skipped", zap.Int64s("item_ids", m.layout.Skipped))
	}

	order := m.itemOrder()
	if !slices.Contains(order, m.selected) {
		m.selected = 0
		m.detail = false
		if len(order) > 0 {
			m.selected = order[0]
		}
	}
}

// itemOrder lists drawn item ids from left to right.
func (m *uiModel) itemOrder() []int64 {
	if m.layout == nil {
		return nil
	}
	items := slices.Clone(m.layout.Items)
	slices.SortStableFunc(items, func(a, b timeline.ItemGeometry) int {
		if c := cmp.Compare(a.AnchorX, b.AnchorX); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	ids := make([]int64, len(items))
	for i, g := range items {
		ids[i] = g.ID
	}
	return ids
}

func (m *uiModel) moveSelection(delta int) {
	order := m.itemOrder()
	if len(order) == 0 {
		return
	}
	i := slices.Index(order, m.selected)
	if i < 0 {
		m.selected = order[0]
		return
	}
	i = min(max(i+delta, 0), len(order)-1)
	m.selected = order[i]
}

// --- Styles ---

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color(model.ColorBlue.Hex())).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(model.ColorRed.Hex())).
			Bold(true)

	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6B7280")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E5E7EB")).
			Background(lipgloss.Color("#1F2937"))
)

// --- View rendering ---

func (m uiModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.lm == nil {
		msg := "no life map loaded"
		if m.loadErr != nil {
			msg = m.loadErr.Error()
		}
		return errorStyle.Render(msg)
	}

	var b strings.Builder
	b.WriteString(m.renderTitleBar())
	b.WriteString("\n\n")
	b.WriteString(drawLayout(m.layout, m.width, m.selected))
	if m.detail {
		b.WriteString("\n")
		b.WriteString(m.renderDetail())
	}
	if m.loadErr != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("reload failed: " + m.loadErr.Error()))
	}

	footer := m.renderStatusBar()
	if m.showHelp {
		footer = m.help.View(keys)
	}
	footer = truncateLines(footer, m.width)

	// content fills the screen above the footer
	limit := max(m.height-strings.Count(footer, "\n")-1, 1)
	lines := strings.Split(truncateLines(b.String(), m.width), "\n")
	if len(lines) > limit {
		lines = lines[:limit]
	}
	for len(lines) < limit {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n") + "\n" + footer
}

func (m uiModel) renderTitleBar() string {
	title := titleStyle.Render(m.lm.Title)
	zoom := m.currentZoom()
	info := fmt.Sprintf("view %s | zoom %.1f", m.view, zoom)
	if m.autoScale {
		info += " | autoscale"
	}
	if m.layout != nil && m.lm.DateOfBirth != "" {
		info += fmt.Sprintf(" | age %d", m.layout.CurrentAge)
	}
	stats := dimStyle.Render(info)
	gap := strings.Repeat(" ", max(0, m.width-lipgloss.Width(title)-lipgloss.Width(stats)))
	return title + gap + stats
}

func (m uiModel) renderDetail() string {
	item, err := m.lm.Item(m.selected)
	if err != nil {
		return dimStyle.Render("item not found")
	}
	category := "?"
	if c, err := m.lm.Category(item.CategoryID); err == nil {
		category = c.Label
	}

	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(item.Color.Hex())).Render(item.Title),
		dimStyle.Render("category: ") + category,
		dimStyle.Render("period:   ") + describePeriod(item),
	}
	if item.Description != "" {
		lines = append(lines, "", item.Description)
	}
	return detailStyle.Width(max(m.width-4, 10)).Render(strings.Join(lines, "\n"))
}

// describePeriod formats an item's extent in the unit it was entered in.
func describePeriod(it *model.TimelineItem) string {
	if it.Mode() == model.InputModeDate {
		switch {
		case it.UseMaxAge:
			return it.StartDate + " - (end of range)"
		case it.EndDate != "":
			return it.StartDate + " - " + it.EndDate
		default:
			return it.StartDate
		}
	}
	age := func(v *float64) string {
		if v == nil {
			return "?"
		}
		return fmt.Sprintf("%g", *v)
	}
	switch {
	case it.UseMaxAge:
		return "age " + age(it.StartAge) + " - (end of range)"
	case it.EndAge != nil:
		return "age " + age(it.StartAge) + " - " + age(it.EndAge)
	default:
		return "age " + age(it.StartAge)
	}
}

func (m uiModel) renderStatusBar() string {
	ago := time.Since(m.lastRefresh).Truncate(time.Second)
	left := " h/l: select | enter: detail | v: view | a: autoscale | +/-: zoom | ?: help | q: quit"
	right := fmt.Sprintf("refreshed %s ago ", ago)
	gap := strings.Repeat(" ", max(0, m.width-len(left)-len(right)))
	return statusBarStyle.Render(left + gap + right)
}

// truncateLines truncates each line to at most width visible characters,
// preserving ANSI escape codes.
func truncateLines(content string, width int) string {
	if width <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if ansi.StringWidth(line) > width {
			lines[i] = ansi.Truncate(line, width, "")
		}
	}
	return strings.Join(lines, "\n")
}
