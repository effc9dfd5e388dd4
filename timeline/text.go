package timeline

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Metrics are the zoom-scaled sizes used for text and item geometry (px).
type Metrics struct {
	BaseFont       float64
	MinFont        float64
	CharWidth      float64 // fraction of the font size per terminal cell
	LineHeight     float64 // multiple of the font size
	ItemHeight     float64
	Padding        float64
	MilestoneMin   float64
	MilestoneMax   float64
	LaneSpacing    float64
	CategoryPad    float64
	MinRowHeight   float64
	AxisHeight     float64
	MinLabelSpread float64
}

// NewMetrics returns metrics scaled by zoom. A non-positive zoom means 1.
func NewMetrics(zoom float64) Metrics {
	if zoom <= 0 {
		zoom = 1
	}
	return Metrics{
		BaseFont:       12 * zoom,
		MinFont:        9 * zoom,
		CharWidth:      0.6,
		LineHeight:     1.25,
		ItemHeight:     22 * zoom,
		Padding:        6 * zoom,
		MilestoneMin:   48 * zoom,
		MilestoneMax:   160 * zoom,
		LaneSpacing:    4 * zoom,
		CategoryPad:    8 * zoom,
		MinRowHeight:   36 * zoom,
		AxisHeight:     32 * zoom,
		MinLabelSpread: 24 * zoom,
	}
}

// TextWidth approximates the rendered width of s. Wide runes count as two cells.
func (m Metrics) TextWidth(s string, fontSize float64) float64 {
	return float64(runewidth.StringWidth(s)) * m.CharWidth * fontSize
}

// MilestoneWidth is the box width for a milestone title, bounded by the min and max widths.
func (m Metrics) MilestoneWidth(title string) float64 {
	w := m.TextWidth(title, m.BaseFont) + 2*m.Padding
	return min(max(w, m.MilestoneMin), m.MilestoneMax)
}

// TextFit is the result of fitting a title into a box.
type TextFit struct {
	FontSize float64  `json:"font_size"`
	Lines    []string `json:"lines"`
	Height   float64  `json:"height"`
}

// FitText fits title into width: base size on one line, else a proportionally smaller
// size down to the minimum, else word-wrapped at the minimum size with a taller box.
func FitText(title string, width float64, m Metrics) TextFit {
	avail := max(width-2*m.Padding, 0)

	base := m.TextWidth(title, m.BaseFont)
	if base <= avail {
		return TextFit{FontSize: m.BaseFont, Lines: []string{title}, Height: m.ItemHeight}
	}
	if base > 0 {
		size := m.BaseFont * avail / base
		if size >= m.MinFont {
			return TextFit{FontSize: size, Lines: []string{title}, Height: m.ItemHeight}
		}
	}

	lines := wrapWords(title, avail, m.MinFont, m)
	h := float64(len(lines))*m.MinFont*m.LineHeight + 2*m.Padding
	return TextFit{FontSize: m.MinFont, Lines: lines, Height: max(m.ItemHeight, h)}
}

// wrapWords greedily packs words into lines no wider than avail.
// A word wider than avail gets a line of its own.
func wrapWords(s string, avail, fontSize float64, m Metrics) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{s}
	}
	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		next := cur + " " + w
		if m.TextWidth(next, fontSize) <= avail {
			cur = next
			continue
		}
		lines = append(lines, cur)
		cur = w
	}
	return append(lines, cur)
}
