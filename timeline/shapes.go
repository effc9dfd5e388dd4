package timeline

import (
	"strconv"
)

// ShapeKind identifies a drawing primitive.
type ShapeKind string

const (
	ShapeRect   ShapeKind = "rect"
	ShapeLine   ShapeKind = "line"
	ShapeCircle ShapeKind = "circle"
	ShapeText   ShapeKind = "text"
)

// Layer groups shapes; layers are emitted back to front in declaration order.
type Layer int

const (
	LayerBands Layer = iota
	LayerCurrentAge
	LayerCategoryLabels
	LayerConnectors
	LayerItems
	LayerAxis
	LayerAxisLabel
)

// Shape is one drawable primitive in layout coordinates.
// Lines run from (X, Y) to (X2, Y2); circles are centered on (X, Y) with radius R.
type Shape struct {
	Kind     ShapeKind
	Layer    Layer
	X, Y     float64
	W, H     float64
	X2, Y2   float64
	R        float64
	Rx       float64
	Fill     string
	Stroke   string
	Width    float64 // stroke width
	Dashed   bool
	Opacity  float64
	Text     string
	FontSize float64
	Bold     bool
	Anchor   string // text-anchor
	ItemID   int64  // non-zero for shapes that belong to an item
}

// BuildShapes walks the layout and returns shapes ordered back to front:
// bands, current-age line, category labels, milestone connectors, items, axis, axis label.
func BuildShapes(l *Layout, style *Style) []Shape {
	if style == nil {
		style = DefaultStyle()
	}
	if l.Empty() {
		return nil
	}
	m := NewMetrics(l.Zoom)
	var shapes []Shape

	for _, b := range l.Bands {
		shapes = append(shapes, Shape{
			Kind: ShapeRect, Layer: LayerBands,
			X: 0, Y: b.Y, W: l.Width, H: b.Height,
			Fill: b.Color.Tint(), Opacity: style.BandOpacity,
		})
	}

	if l.CurrentAgeVisible {
		shapes = append(shapes, Shape{
			Kind: ShapeLine, Layer: LayerCurrentAge,
			X: l.CurrentAgeX, Y: 0, X2: l.CurrentAgeX, Y2: l.Height,
			Stroke: style.CurrentAgeStroke, Width: 2 * l.Zoom,
		})
	}

	for _, b := range l.Bands {
		shapes = append(shapes, Shape{
			Kind: ShapeText, Layer: LayerCategoryLabels,
			X: m.Padding, Y: b.Y + m.CategoryPad + m.BaseFont/2,
			Text: b.Label, FontSize: m.BaseFont, Bold: true,
			Fill: style.TextColor, Anchor: "start",
		})
	}

	axisTop, axisBottom := l.Axis.Y, l.Axis.Y+l.Axis.Height
	for _, g := range l.Items {
		if !g.Milestone {
			continue
		}
		from, to := g.Y+g.Height, axisTop
		if g.Y >= axisBottom {
			from, to = g.Y, axisBottom
		}
		shapes = append(shapes,
			Shape{
				Kind: ShapeLine, Layer: LayerConnectors,
				X: g.AnchorX, Y: from, X2: g.AnchorX, Y2: to,
				Stroke: style.ConnectorStroke, Width: l.Zoom, Dashed: true, ItemID: g.ID,
			},
			Shape{
				Kind: ShapeCircle, Layer: LayerConnectors,
				X: g.AnchorX, Y: to, R: 3 * l.Zoom,
				Fill: g.Color.Hex(), ItemID: g.ID,
			},
		)
	}

	for _, g := range l.Items {
		rx := 4 * l.Zoom
		if g.Milestone {
			rx = g.Height / 2
		}
		shapes = append(shapes, Shape{
			Kind: ShapeRect, Layer: LayerItems,
			X: g.X, Y: g.Y, W: g.Width, H: g.Height, Rx: min(rx, g.Width/2),
			Fill: g.Color.Hex(), Text: g.Title, ItemID: g.ID,
		})
		lineHeight := g.Text.FontSize * m.LineHeight
		top := g.Y + (g.Height-float64(len(g.Text.Lines))*lineHeight)/2
		for i, line := range g.Text.Lines {
			shapes = append(shapes, Shape{
				Kind: ShapeText, Layer: LayerItems,
				X: g.X + g.Width/2, Y: top + (float64(i)+0.5)*lineHeight,
				Text: line, FontSize: g.Text.FontSize,
				Fill: style.ItemTextColor, Anchor: "middle", ItemID: g.ID,
			})
		}
	}

	shapes = append(shapes, Shape{
		Kind: ShapeRect, Layer: LayerAxis,
		X: 0, Y: l.Axis.Y, W: l.Width, H: l.Axis.Height,
		Fill: style.AxisFill,
	})
	boxW := min(float64(l.Axis.LabelStep)*l.Width/l.Window.Span-2*l.Zoom, 28*l.Zoom)
	boxH := l.Axis.Height - 8*l.Zoom
	for _, t := range l.Axis.Ticks {
		if !t.Label {
			shapes = append(shapes, Shape{
				Kind: ShapeLine, Layer: LayerAxis,
				X: t.X, Y: axisBottom - 4*l.Zoom, X2: t.X, Y2: axisBottom,
				Stroke: style.ConnectorStroke, Width: 1,
			})
			continue
		}
		fill := style.YearBoxFill
		if t.Decade {
			fill = style.DecadeBoxFill
		}
		shapes = append(shapes,
			Shape{
				Kind: ShapeRect, Layer: LayerAxis,
				X: t.X - boxW/2, Y: l.Axis.Y + 4*l.Zoom, W: boxW, H: boxH, Rx: 3 * l.Zoom,
				Fill: fill, Stroke: style.ConnectorStroke, Width: 1,
			},
			Shape{
				Kind: ShapeText, Layer: LayerAxis,
				X: t.X, Y: l.Axis.Y + l.Axis.Height/2,
				Text: strconv.Itoa(t.Age), FontSize: m.MinFont, Bold: t.Decade,
				Fill: style.YearTextColor, Anchor: "middle",
			},
		)
	}

	shapes = append(shapes, Shape{
		Kind: ShapeText, Layer: LayerAxisLabel,
		X: l.Width - m.Padding, Y: l.Axis.Y + l.Axis.Height/2,
		Text: "Age", FontSize: m.MinFont, Bold: true,
		Fill: style.TextColor, Anchor: "end",
	})
	return shapes
}
