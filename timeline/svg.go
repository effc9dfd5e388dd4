package timeline

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"
)

// RenderSVG returns the layout as an SVG document.
// An empty layout yields an empty SVG of the layout's size.
func RenderSVG(l *Layout, style *Style) string {
	// default options
	if style == nil {
		style = DefaultStyle()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg width="%s" height="%s" xmlns="http://www.w3.org/2000/svg">`+"\n", num(l.Width), num(l.Height)))
	if l.Empty() {
		sb.WriteString("</svg>\n")
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf(`  <style>text{font-family:%s;dominant-baseline:central}.bold{font-weight:bold}</style>`+"\n", style.FontFamily))
	sb.WriteString(fmt.Sprintf(`  <rect x="0" y="0" width="%s" height="%s" fill="%s"/>`+"\n", num(l.Width), num(l.Height), style.Background))

	for _, s := range BuildShapes(l, style) {
		sb.WriteString("  ")
		writeShape(&sb, s)
		sb.WriteString("\n")
	}
	sb.WriteString("</svg>\n")
	return sb.String()
}

func writeShape(sb *strings.Builder, s Shape) {
	switch s.Kind {
	case ShapeRect:
		sb.WriteString(fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s"`, num(s.X), num(s.Y), num(s.W), num(s.H)))
		if s.Rx > 0 {
			sb.WriteString(fmt.Sprintf(` rx="%s"`, num(s.Rx)))
		}
		writePaint(sb, s)
		if s.ItemID != 0 {
			sb.WriteString(fmt.Sprintf(` class="item" data-item-id="%d"><title>%s</title></rect>`, s.ItemID, html.EscapeString(s.Text)))
			return
		}
		sb.WriteString("/>")
	case ShapeLine:
		sb.WriteString(fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s"`, num(s.X), num(s.Y), num(s.X2), num(s.Y2)))
		writePaint(sb, s)
		if s.Dashed {
			sb.WriteString(` stroke-dasharray="4 3"`)
		}
		writeItemID(sb, s)
		sb.WriteString("/>")
	case ShapeCircle:
		sb.WriteString(fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s"`, num(s.X), num(s.Y), num(s.R)))
		writePaint(sb, s)
		writeItemID(sb, s)
		sb.WriteString("/>")
	case ShapeText:
		sb.WriteString(fmt.Sprintf(`<text x="%s" y="%s" font-size="%s" fill="%s"`, num(s.X), num(s.Y), num(s.FontSize), s.Fill))
		if s.Anchor != "" && s.Anchor != "start" {
			sb.WriteString(fmt.Sprintf(` text-anchor="%s"`, s.Anchor))
		}
		if s.Bold {
			sb.WriteString(` class="bold"`)
		}
		writeItemID(sb, s)
		sb.WriteString(fmt.Sprintf(`>%s</text>`, html.EscapeString(s.Text)))
	}
}

func writePaint(sb *strings.Builder, s Shape) {
	if s.Fill != "" {
		sb.WriteString(fmt.Sprintf(` fill="%s"`, s.Fill))
	} else {
		sb.WriteString(` fill="none"`)
	}
	if s.Stroke != "" {
		sb.WriteString(fmt.Sprintf(` stroke="%s" stroke-width="%s"`, s.Stroke, num(s.Width)))
	}
	if s.Opacity > 0 && s.Opacity < 1 {
		sb.WriteString(fmt.Sprintf(` opacity="%s"`, num(s.Opacity)))
	}
}

func writeItemID(sb *strings.Builder, s Shape) {
	if s.ItemID != 0 {
		sb.WriteString(fmt.Sprintf(` data-item-id="%d"`, s.ItemID))
	}
}

// num formats a coordinate with at most two decimals.
func num(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}
