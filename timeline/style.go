package timeline

// Style configures rendering colors and fonts.
type Style struct {
	FontFamily       string  `yaml:"font_family"`       // font family for all text
	Background       string  `yaml:"background"`        // SVG background fill
	TextColor        string  `yaml:"text_color"`        // category labels and axis label
	ItemTextColor    string  `yaml:"item_text_color"`   // titles inside items
	AxisFill         string  `yaml:"axis_fill"`         // age axis band
	YearBoxFill      string  `yaml:"year_box_fill"`     // labeled year boxes
	DecadeBoxFill    string  `yaml:"decade_box_fill"`   // emphasized decade boxes
	YearTextColor    string  `yaml:"year_text_color"`   // year labels
	CurrentAgeStroke string  `yaml:"current_age_color"` // current-age line
	ConnectorStroke  string  `yaml:"connector_color"`   // dashed milestone connectors
	BandOpacity      float64 `yaml:"band_opacity"`      // opacity of category bands (0..1)
}

// DefaultStyle returns the built-in style.
func DefaultStyle() *Style {
	return &Style{
		FontFamily:       "sans-serif",
		Background:       "#ffffff",
		TextColor:        "#374151",
		ItemTextColor:    "#ffffff",
		AxisFill:         "#f3f4f6",
		YearBoxFill:      "#ffffff",
		DecadeBoxFill:    "#e5e7eb",
		YearTextColor:    "#4b5563",
		CurrentAgeStroke: "#10b981",
		ConnectorStroke:  "#9ca3af",
		BandOpacity:      1,
	}
}
