package render

import (
	"image/color"

	"gonum.org/v1/plot/vg"
)

// Config carries every visual setting of the dashboard. It is passed to the
// renderer explicitly; package-level plot defaults are never modified.
type Config struct {
	Width  vg.Length
	Height vg.Length
	DPI    int

	Title          string
	TitleSize      vg.Length
	PanelTitleSize vg.Length
	LabelSize      vg.Length
	TickSize       vg.Length

	// Typeface/variant looked up in the plot font cache.
	Typeface string
	Variant  string

	Negative     color.Color // correlation bars below zero
	Positive     color.Color // correlation bars at or above zero
	Top          color.Color // top quartile means
	Bottom       color.Color // bottom quartile means
	Scatter      color.Color
	ScatterAlpha float64
	TrendLine    color.Color
	BandAlpha    float64
	Grid         color.Color
	Missing      color.Color // heatmap cells with no coefficient

	Panels PanelTitles
}

// PanelTitles are the titles and axis captions of the four panels.
type PanelTitles struct {
	Correlations string
	CorrAxis     string
	Heatmap      string
	Scatter      string // used when x is the study-hours column
	Comparison   string
	TopLabel     string
	BottomLabel  string
}

// DefaultConfig returns the 18x14 inch, 300 DPI dashboard.
func DefaultConfig() Config {
	return Config{
		Width:          18 * vg.Inch,
		Height:         14 * vg.Inch,
		DPI:            300,
		Title:          "Student Productivity & Digital Distraction Dashboard",
		TitleSize:      vg.Points(22),
		PanelTitleSize: vg.Points(18),
		LabelSize:      vg.Points(13),
		TickSize:       vg.Points(10),
		Typeface:       "Liberation",
		Variant:        "Sans",
		Negative:       color.RGBA{R: 0xe7, G: 0x4c, B: 0x3c, A: 0xff},
		Positive:       color.RGBA{R: 0x2e, G: 0xcc, B: 0x71, A: 0xff},
		Top:            color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
		Bottom:         color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
		Scatter:        color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
		ScatterAlpha:   0.3,
		TrendLine:      color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
		BandAlpha:      0.2,
		Grid:           color.Gray{Y: 0xdd},
		Missing:        color.Gray{Y: 0xbb},
		Panels: PanelTitles{
			Correlations: "Impact of Habits on Productivity",
			CorrAxis:     "Correlation Coefficient",
			Heatmap:      "Correlation Map",
			Scatter:      "Study Hours vs Productivity",
			Comparison:   "Habits: High vs Low Productivity",
			TopLabel:     "Top 25%",
			BottomLabel:  "Bottom 25%",
		},
	}
}

// withAlpha returns c with its opacity scaled to a in [0, 1].
func withAlpha(c color.Color, a float64) color.Color {
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(float64(n.A)*a + 0.5)
	return n
}
