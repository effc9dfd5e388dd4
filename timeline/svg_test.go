package timeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stsysd/lifemap/model"
)

func sampleLayout() *Layout {
	in := baseInput()
	in.CurrentAge = 30
	in.Categories = []*model.Category{
		category(1, model.SectionTop, 0),
		category(2, model.SectionBottom, 0),
	}
	in.Items = []*model.TimelineItem{
		ageItem(1, 1, "<Tom & Jerry>", 20, f(25)),
		ageItem(2, 1, "wedding", 28, nil),
		ageItem(3, 2, "move abroad", 35, nil),
	}
	return ComputeLayout(in)
}

func TestRenderSVG(t *testing.T) {
	svg := RenderSVG(sampleLayout(), nil)

	// SVGが生成されることを確認
	assert.True(t, strings.HasPrefix(svg, `<svg width="800" height=`))
	assert.True(t, strings.HasSuffix(svg, "</svg>\n"))

	// タイトルはエスケープされる
	assert.Contains(t, svg, "&lt;Tom &amp; Jerry&gt;")
	assert.NotContains(t, svg, "<Tom & Jerry>")

	// クリック対象のアイテムにはIDが付与される
	for _, id := range []string{"1", "2", "3"} {
		assert.Contains(t, svg, `class="item" data-item-id="`+id+`"`)
	}

	// マイルストーンの接続線は破線
	assert.Contains(t, svg, `stroke-dasharray="4 3"`)

	// 現在年齢の線
	assert.Contains(t, svg, `<line x1="300" y1="0" x2="300"`)
}

func TestRenderSVG_CustomStyle(t *testing.T) {
	style := DefaultStyle()
	style.FontFamily = "Noto Sans JP"
	style.CurrentAgeStroke = "#ff00ff"

	svg := RenderSVG(sampleLayout(), style)

	assert.Contains(t, svg, "font-family:Noto Sans JP")
	assert.Contains(t, svg, `stroke="#ff00ff"`)
}

func TestRenderSVG_Empty(t *testing.T) {
	l := ComputeLayout(Input{AgeRange: 0, Width: 800, Zoom: 1})

	assert.Equal(t, "<svg width=\"800\" height=\"0\" xmlns=\"http://www.w3.org/2000/svg\">\n</svg>\n", RenderSVG(l, nil))
	assert.Nil(t, BuildShapes(l, nil))
}

func TestBuildShapes_BackToFrontOrder(t *testing.T) {
	shapes := BuildShapes(sampleLayout(), nil)

	seen := map[Layer]bool{}
	prev := LayerBands
	for _, s := range shapes {
		assert.GreaterOrEqual(t, s.Layer, prev, "layer %d emitted after %d", s.Layer, prev)
		prev = s.Layer
		seen[s.Layer] = true
	}
	for _, layer := range []Layer{LayerBands, LayerCurrentAge, LayerCategoryLabels, LayerConnectors, LayerItems, LayerAxis, LayerAxisLabel} {
		assert.True(t, seen[layer], "layer %d missing", layer)
	}
}

func TestBuildShapes_ConnectorsReachAxis(t *testing.T) {
	l := sampleLayout()
	shapes := BuildShapes(l, nil)

	for _, s := range shapes {
		if s.Layer != LayerConnectors || s.Kind != ShapeLine {
			continue
		}
		switch s.ItemID {
		case 2: // top section
			assert.Equal(t, l.Axis.Y, s.Y2)
		case 3: // bottom section
			assert.Equal(t, l.Axis.Y+l.Axis.Height, s.Y2)
		default:
			t.Errorf("unexpected connector for item %d", s.ItemID)
		}
	}
}
