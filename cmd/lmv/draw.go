package main

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/stsysd/lifemap/model"
	"github.com/stsysd/lifemap/timeline"
)

// Terminal geometry. The layout is computed in pixels and every terminal
// column stands for pxPerCol pixels, so text fitting and label spacing keep
// their proportions.
const (
	gutterWidth = 14
	pxPerCol    = 8
)

type styleID int

const (
	stPlain styleID = iota
	stLabel
	stAxis
	stAxisLabel
	stDecade
	stNow
	stBlue
	stRed
	stBlueBar
	stRedBar
	stSelected
)

var cellStyles = map[styleID]lipgloss.Style{
	stPlain:     lipgloss.NewStyle(),
	stLabel:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#9CA3AF")),
	stAxis:      lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	stAxisLabel: lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
	stDecade:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E5E7EB")),
	stNow:       lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
	stBlue:      lipgloss.NewStyle().Foreground(lipgloss.Color(model.ColorBlue.Hex())),
	stRed:       lipgloss.NewStyle().Foreground(lipgloss.Color(model.ColorRed.Hex())),
	stBlueBar:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color(model.ColorBlue.Hex())),
	stRedBar:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color(model.ColorRed.Hex())),
	stSelected:  lipgloss.NewStyle().Reverse(true).Bold(true),
}

// cell is one terminal column of one row. A wide rune occupies its cell and
// marks the next one as a continuation.
type cell struct {
	r    rune
	st   styleID
	cont bool
}

type canvas struct {
	w, h  int
	cells [][]cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([][]cell, h)}
	for y := range c.cells {
		row := make([]cell, w)
		for x := range row {
			row[x] = cell{r: ' '}
		}
		c.cells[y] = row
	}
	return c
}

func (c *canvas) set(x, y int, r rune, st styleID) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = cell{r: r, st: st}
}

// text writes s starting at column x and stops before column limit.
// It returns the column after the last written rune.
func (c *canvas) text(x, y int, s string, st styleID, limit int) int {
	limit = min(limit, c.w)
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > limit {
			break
		}
		c.set(x, y, r, st)
		if rw == 2 && x+1 < c.w && y >= 0 && y < c.h {
			c.cells[y][x+1] = cell{st: st, cont: true}
		}
		x += rw
	}
	return x
}

func (c *canvas) render() string {
	var b strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		cur := stPlain
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(cellStyles[cur].Render(run.String()))
				run.Reset()
			}
		}
		for _, cl := range row {
			if cl.cont {
				continue
			}
			if cl.st != cur {
				flush()
				cur = cl.st
			}
			run.WriteRune(cl.r)
		}
		flush()
	}
	return b.String()
}

// block is a horizontal strip of rows: a category band or the axis.
type block struct {
	y    float64
	band *timeline.CategoryBand
	rows int
}

// layoutWidth is the pixel width to lay out for a terminal of cols columns.
func layoutWidth(cols int) int {
	return max(cols-gutterWidth, 1) * pxPerCol
}

// drawLayout renders a computed layout as terminal rows, one row per lane.
// The selected item is drawn reversed.
func drawLayout(l *timeline.Layout, cols int, selected int64) string {
	if l == nil || l.Empty() {
		return cellStyles[stAxisLabel].Render("nothing to display")
	}

	blocks := []block{{y: l.Axis.Y, rows: 2}}
	for i := range l.Bands {
		b := &l.Bands[i]
		blocks = append(blocks, block{y: b.Y, band: b, rows: max(b.Lanes, 1)})
	}
	// bands and axis are stacked by y; sort keeps the axis between sections
	for i := 1; i < len(blocks); i++ {
		for j := i; j > 0 && blocks[j].y < blocks[j-1].y; j-- {
			blocks[j], blocks[j-1] = blocks[j-1], blocks[j]
		}
	}

	height := 0
	for _, b := range blocks {
		height += b.rows
	}
	c := newCanvas(cols, height)
	col := func(x float64) int {
		return gutterWidth + int(math.Floor(x/pxPerCol))
	}
	nowCol := col(l.CurrentAgeX)

	row := 0
	for _, b := range blocks {
		if b.band == nil {
			drawAxis(c, l, row, col)
			row += b.rows
			continue
		}
		c.text(0, row, runewidth.Truncate(b.band.Label, gutterWidth-1, "…"), stLabel, gutterWidth-1)
		if l.CurrentAgeVisible {
			for r := row; r < row+b.rows; r++ {
				c.set(nowCol, r, '│', stNow)
			}
		}
		for _, g := range l.Items {
			if g.CategoryID == b.band.ID {
				drawItem(c, g, row+g.Lane, col, g.ID == selected)
			}
		}
		row += b.rows
	}
	return c.render()
}

func drawAxis(c *canvas, l *timeline.Layout, row int, col func(float64) int) {
	c.text(0, row, "Age", stLabel, gutterWidth-1)
	for x := gutterWidth; x < c.w; x++ {
		c.set(x, row, '─', stAxis)
	}
	for _, t := range l.Axis.Ticks {
		if !t.Label {
			continue
		}
		x := col(t.X)
		c.set(x, row, '┼', stAxis)
		st := stAxisLabel
		if t.Decade {
			st = stDecade
		}
		c.text(x, row+1, strconv.Itoa(t.Age), st, c.w)
	}
	if l.CurrentAgeVisible {
		c.set(col(l.CurrentAgeX), row, '●', stNow)
	}
}

func drawItem(c *canvas, g timeline.ItemGeometry, row int, col func(float64) int, selected bool) {
	left := max(col(g.X), gutterWidth)
	right := max(col(g.X+g.Width), left+1)

	if g.Milestone {
		st := stBlue
		if g.Color == model.ColorRed {
			st = stRed
		}
		if selected {
			st = stSelected
		}
		anchor := col(g.AnchorX)
		c.set(anchor, row, '◆', st)
		// a terminal cell is coarser than the pixel box, so the title may run past it
		label := " " + g.Title
		c.text(anchor+1, row, label, st, max(right, anchor+1+runewidth.StringWidth(label)))
		return
	}

	st := stBlueBar
	if g.Color == model.ColorRed {
		st = stRedBar
	}
	if selected {
		st = stSelected
	}
	for x := left; x < right; x++ {
		c.set(x, row, ' ', st)
	}
	c.text(left, row, runewidth.Truncate(g.Title, right-left, "…"), st, right)
}
