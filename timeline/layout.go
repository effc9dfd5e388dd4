package timeline

import (
	"math"
	"time"

	"github.com/stsysd/lifemap/model"
)

// Input is everything a layout pass depends on.
type Input struct {
	Items       []*model.TimelineItem
	Categories  []*model.Category
	DateOfBirth string // YYYY-MM-DD, may be empty
	AgeRange    int
	CurrentAge  int
	View        model.ViewMode
	AutoScale   bool
	Width       int // pixels
	Zoom        float64
}

// NewInput builds the layout input for a stored life map as seen on today.
// View defaults to all; callers adjust width, view and autoscale.
func NewInput(m *model.LifeMap, today time.Time) Input {
	return Input{
		Items:       m.Items,
		Categories:  m.Categories,
		DateOfBirth: m.DateOfBirth,
		AgeRange:    m.AgeRange,
		CurrentAge:  CurrentAge(m.DateOfBirth, today),
		View:        model.ViewAll,
		Zoom:        m.Zoom,
	}
}

// ItemGeometry is the absolute placement of one item.
// X and Width describe the drawn box after view clipping.
type ItemGeometry struct {
	ID         int64       `json:"id"`
	CategoryID int64       `json:"category_id"`
	Title      string      `json:"title"`
	Color      model.Color `json:"color"`
	Milestone  bool        `json:"milestone"`
	StartAge   float64     `json:"start_age"`
	EndAge     *float64    `json:"end_age,omitempty"`
	Lane       int         `json:"lane"`
	X          float64     `json:"x"`
	Y          float64     `json:"y"`
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	AnchorX    float64     `json:"anchor_x"` // x of the start age
	Clipped    bool        `json:"clipped"`
	Text       TextFit     `json:"text"`
}

// CategoryBand is the row occupied by one category.
type CategoryBand struct {
	ID      int64         `json:"id"`
	Label   string        `json:"label"`
	Section model.Section `json:"section"`
	Color   model.Color   `json:"color"`
	Y       float64       `json:"y"`
	Height  float64       `json:"height"`
	Lanes   int           `json:"lanes"`
}

// Tick is one whole year on the age axis.
type Tick struct {
	Age    int     `json:"age"`
	X      float64 `json:"x"`
	Label  bool    `json:"label"`
	Decade bool    `json:"decade"`
}

// Axis is the age band between the top and bottom sections.
type Axis struct {
	Y         float64 `json:"y"`
	Height    float64 `json:"height"`
	LabelStep int     `json:"label_step"`
	Ticks     []Tick  `json:"ticks"`
}

// Layout is the result of a layout pass.
type Layout struct {
	Width             float64        `json:"width"`
	Height            float64        `json:"height"`
	Zoom              float64        `json:"zoom"`
	View              model.ViewMode `json:"view"`
	Window            Window         `json:"window"`
	CurrentAge        int            `json:"current_age"`
	CurrentAgeX       float64        `json:"current_age_x"`
	CurrentAgeVisible bool           `json:"current_age_visible"`
	Items             []ItemGeometry `json:"items"`
	Bands             []CategoryBand `json:"bands"`
	Axis              Axis           `json:"axis"`
	Skipped           []int64        `json:"skipped,omitempty"` // items whose category does not exist
}

// Empty reports whether there is nothing to draw.
func (l *Layout) Empty() bool {
	return l.Window.Span <= 0 || l.Width <= 0
}

// X maps an age to a horizontal pixel coordinate.
func (l *Layout) X(age float64) float64 {
	if l.Window.Span <= 0 {
		return 0
	}
	return (age - l.Window.Start) / l.Window.Span * l.Width
}

type placed struct {
	item *model.TimelineItem
	ages Ages
}

// ComputeLayout runs normalization, window selection, lane allocation and geometry.
// It never fails: orphaned items are listed in Skipped and bad temporal data
// degrades to age 0.
func ComputeLayout(in Input) *Layout {
	m := NewMetrics(in.Zoom)
	l := &Layout{
		Width:      float64(max(in.Width, 0)),
		Zoom:       in.Zoom,
		View:       in.View,
		CurrentAge: in.CurrentAge,
		Items:      []ItemGeometry{},
		Bands:      []CategoryBand{},
	}
	if l.Zoom <= 0 {
		l.Zoom = 1
	}
	if l.View == "" {
		l.View = model.ViewAll
	}

	known := make(map[int64]bool, len(in.Categories))
	for _, c := range in.Categories {
		known[c.ID] = true
	}

	now := float64(in.CurrentAge)
	byCategory := make(map[int64][]placed)
	var visible []Ages
	for _, it := range in.Items {
		if !known[it.CategoryID] {
			l.Skipped = append(l.Skipped, it.ID)
			continue
		}
		a := Normalize(it, in.DateOfBirth, in.AgeRange)
		if !Visible(a, l.View, now) {
			continue
		}
		visible = append(visible, a)
		byCategory[it.CategoryID] = append(byCategory[it.CategoryID], placed{item: it, ages: a})
	}

	l.Window = SelectWindow(visible, in.AgeRange, in.CurrentAge, l.View, in.AutoScale)
	if l.Empty() {
		return l
	}
	oneYear := l.Width / l.Window.Span

	l.CurrentAgeX = l.X(now)
	l.CurrentAgeVisible = now >= l.Window.Start && now <= l.Window.End()

	y := 0.0
	for _, section := range model.Sections {
		if section == model.SectionBottom {
			l.Axis = buildAxis(l, y, oneYear, m)
			y += l.Axis.Height
		}
		for _, c := range model.SectionCategories(in.Categories, section) {
			band, items := layoutCategory(l, c, byCategory[c.ID], y, oneYear, m)
			l.Bands = append(l.Bands, band)
			l.Items = append(l.Items, items...)
			y += band.Height
		}
	}
	l.Height = y
	return l
}

// layoutCategory allocates lanes for one category and positions its items starting at top.
func layoutCategory(l *Layout, c *model.Category, members []placed, top, oneYear float64, m Metrics) (CategoryBand, []ItemGeometry) {
	geoms := make(map[int64]*ItemGeometry, len(members))
	entries := make([]LaneEntry, 0, len(members))
	for _, p := range members {
		g := itemGeometry(l, p, oneYear, m)
		geoms[p.item.ID] = g
		entries = append(entries, LaneEntry{
			ID:        p.item.ID,
			Start:     p.ages.Start,
			End:       p.ages.EndOrStart(),
			Milestone: p.ages.IsMilestone(),
			Left:      g.X,
			Right:     g.X + g.Width,
		})
	}
	alloc := AllocateLanes(entries)

	band := CategoryBand{
		ID:      c.ID,
		Label:   c.Label,
		Section: c.Section,
		Color:   c.Color,
		Y:       top,
		Lanes:   alloc.LaneCount(),
	}

	var out []ItemGeometry
	y := top + m.CategoryPad
	for lane, ids := range alloc.Lanes {
		if lane > 0 {
			y += m.LaneSpacing
		}
		laneHeight := 0.0
		for _, id := range ids {
			laneHeight = max(laneHeight, geoms[id].Height)
		}
		for _, id := range ids {
			g := geoms[id]
			g.Lane = lane
			g.Y = y
			out = append(out, *g)
		}
		y += laneHeight
	}
	band.Height = max(y+m.CategoryPad-top, m.MinRowHeight)
	return band, out
}

// itemGeometry computes x, width and text for an item. Y and Lane are set after allocation.
func itemGeometry(l *Layout, p placed, oneYear float64, m Metrics) *ItemGeometry {
	g := &ItemGeometry{
		ID:         p.item.ID,
		CategoryID: p.item.CategoryID,
		Title:      p.item.Title,
		Color:      p.item.Color,
		Milestone:  p.ages.IsMilestone(),
		StartAge:   p.ages.Start,
		EndAge:     p.ages.End,
		AnchorX:    l.X(p.ages.Start),
	}

	if g.Milestone {
		g.Width = m.MilestoneWidth(g.Title)
		g.X = g.AnchorX - g.Width/2
	} else {
		g.X = g.AnchorX
		g.Width = max(l.X(*p.ages.End)-g.AnchorX, oneYear)
		clipToView(l, g)
	}
	g.Text = FitText(g.Title, g.Width, m)
	g.Height = g.Text.Height
	return g
}

// clipToView truncates a span crossing the current-age line: past keeps the part
// before it, future the part after it.
func clipToView(l *Layout, g *ItemGeometry) {
	cx := l.CurrentAgeX
	right := g.X + g.Width
	if !(g.X < cx && cx < right) {
		return
	}
	switch l.View {
	case model.ViewPast:
		g.Width = cx - g.X
		g.Clipped = true
	case model.ViewFuture:
		g.X = cx
		g.Width = right - cx
		g.Clipped = true
	}
}

var labelSteps = []int{1, 2, 5, 10, 20, 50}

// buildAxis places a tick per whole year in the window, labeling every step years
// where step is the smallest that keeps labels apart.
func buildAxis(l *Layout, top, oneYear float64, m Metrics) Axis {
	step := labelSteps[len(labelSteps)-1]
	for _, s := range labelSteps {
		if float64(s)*oneYear >= m.MinLabelSpread {
			step = s
			break
		}
	}

	ax := Axis{Y: top, Height: m.AxisHeight, LabelStep: step, Ticks: []Tick{}}
	first := int(math.Ceil(l.Window.Start))
	last := int(math.Floor(l.Window.End()))
	for age := first; age <= last; age++ {
		ax.Ticks = append(ax.Ticks, Tick{
			Age:    age,
			X:      l.X(float64(age)),
			Label:  age%step == 0,
			Decade: age%10 == 0,
		})
	}
	return ax
}
