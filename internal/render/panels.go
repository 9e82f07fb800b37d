package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/KaramelBytes/prodash/internal/analysis"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// newPanel creates a plot with the configured fonts applied to every text element.
func newPanel(cfg Config, title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font = cfg.font(cfg.PanelTitleSize)
	p.Title.Padding = vg.Points(8)
	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.Label.TextStyle.Font = cfg.font(cfg.LabelSize)
		ax.Tick.Label.Font = cfg.font(cfg.TickSize)
	}
	p.Legend.TextStyle.Font = cfg.font(cfg.TickSize)
	return p
}

func (cfg Config) font(size vg.Length) font.Font {
	return font.Font{Typeface: font.Typeface(cfg.Typeface), Variant: font.Variant(cfg.Variant), Size: size}
}

func (cfg Config) grid() *plotter.Grid {
	g := plotter.NewGrid()
	g.Vertical.Color = cfg.Grid
	g.Horizontal.Color = cfg.Grid
	return g
}

// barWidth sizes bars so that perSlot bars fill about 70% of each of n slots
// along span.
func barWidth(span vg.Length, n, perSlot int) vg.Length {
	if n < 1 {
		n = 1
	}
	w := span * 0.7 / vg.Length(n*perSlot)
	if limit := vg.Points(48); w > limit {
		w = limit
	}
	return w
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// correlationPanel draws one horizontal bar per coefficient, colored by sign,
// with a vertical reference line at zero.
func correlationPanel(s *analysis.Summary, cfg Config) (*plot.Plot, error) {
	p := newPanel(cfg, cfg.Panels.Correlations)
	p.X.Label.Text = cfg.Panels.CorrAxis
	p.Add(cfg.grid())

	n := len(s.Correlations)
	w := barWidth(cfg.Height/2, n, 1)
	names := make([]string, n)
	for i, c := range s.Correlations {
		names[i] = c.Column
		bar, err := plotter.NewBarChart(plotter.Values{finite(c.R)}, w)
		if err != nil {
			return nil, fmt.Errorf("correlation bar %s: %w", c.Column, err)
		}
		bar.Horizontal = true
		bar.XMin = float64(i)
		bar.LineStyle.Width = 0
		bar.Color = cfg.Positive
		if c.R < 0 {
			bar.Color = cfg.Negative
		}
		p.Add(bar)
	}
	if n > 0 {
		zero, err := plotter.NewLine(plotter.XYs{{X: 0, Y: -0.5}, {X: 0, Y: float64(n) - 0.5}})
		if err != nil {
			return nil, fmt.Errorf("zero line: %w", err)
		}
		zero.Color = color.Black
		zero.Width = vg.Points(1)
		p.Add(zero)
		p.NominalY(names...)
	}
	return p, nil
}

// corrGrid adapts a correlation matrix to plotter.GridXYZ with the first
// column at the top row, as a table reads.
type corrGrid struct{ m *analysis.CorrMatrix }

func (g corrGrid) Dims() (c, r int) { n := len(g.m.Columns); return n, n }
func (g corrGrid) Z(c, r int) float64 {
	return g.m.Values[len(g.m.Columns)-1-r][c]
}
func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }

// heatmapPanel draws the full correlation matrix with a diverging palette
// centered at zero.
func heatmapPanel(s *analysis.Summary, cfg Config) (*plot.Plot, error) {
	p := newPanel(cfg, cfg.Panels.Heatmap)
	m := s.Matrix
	if m == nil || len(m.Columns) == 0 {
		return p, nil
	}
	lim := 0.0
	for _, row := range m.Values {
		for _, v := range row {
			if !math.IsNaN(v) {
				lim = math.Max(lim, math.Abs(v))
			}
		}
	}
	if lim == 0 {
		lim = 1
	}
	cm := moreland.SmoothBlueRed()
	cm.SetMax(lim)
	cm.SetMin(-lim)
	h := plotter.NewHeatMap(corrGrid{m}, cm.Palette(255))
	h.Min, h.Max = -lim, lim
	h.NaN = cfg.Missing
	p.Add(h)

	n := len(m.Columns)
	rev := make([]string, n)
	for i, c := range m.Columns {
		rev[n-1-i] = c
	}
	p.NominalX(m.Columns...)
	p.NominalY(rev...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	return p, nil
}

// scatterPanel plots productivity against the trend x column with the fitted
// line and its confidence band.
func scatterPanel(s *analysis.Summary, cfg Config) (*plot.Plot, error) {
	tr := s.Trend
	title := cfg.Panels.Scatter
	if tr != nil && (s.Roles == nil || s.Roles.StudyHours == nil || *s.Roles.StudyHours != tr.XColumn) {
		title = fmt.Sprintf("%s vs %s", analysis.Humanize(tr.XColumn), analysis.Humanize(tr.YColumn))
	}
	p := newPanel(cfg, title)
	p.Add(cfg.grid())
	if tr == nil || len(tr.X) == 0 {
		return p, nil
	}
	p.X.Label.Text = tr.XColumn
	p.Y.Label.Text = tr.YColumn

	if len(tr.Band) > 1 {
		ring := make(plotter.XYs, 0, 2*len(tr.Band))
		for _, bp := range tr.Band {
			ring = append(ring, plotter.XY{X: bp.X, Y: bp.Upper})
		}
		for i := len(tr.Band) - 1; i >= 0; i-- {
			ring = append(ring, plotter.XY{X: tr.Band[i].X, Y: tr.Band[i].Lower})
		}
		band, err := plotter.NewPolygon(ring)
		if err != nil {
			return nil, fmt.Errorf("confidence band: %w", err)
		}
		band.Color = withAlpha(cfg.TrendLine, cfg.BandAlpha)
		band.LineStyle.Width = 0
		p.Add(band)
	}

	pts := make(plotter.XYs, len(tr.X))
	for i := range tr.X {
		pts[i].X = tr.X[i]
		pts[i].Y = tr.Y[i]
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("scatter: %w", err)
	}
	sc.GlyphStyle.Color = withAlpha(cfg.Scatter, cfg.ScatterAlpha)
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	sc.GlyphStyle.Radius = vg.Points(3)
	p.Add(sc)

	if tr.Fitted {
		lo, hi := tr.X[0], tr.X[0]
		for _, x := range tr.X {
			lo, hi = math.Min(lo, x), math.Max(hi, x)
		}
		fit, err := plotter.NewLine(plotter.XYs{
			{X: lo, Y: tr.Intercept + tr.Slope*lo},
			{X: hi, Y: tr.Intercept + tr.Slope*hi},
		})
		if err != nil {
			return nil, fmt.Errorf("trend line: %w", err)
		}
		fit.Color = cfg.TrendLine
		fit.Width = vg.Points(2)
		p.Add(fit)
	}
	return p, nil
}

// comparisonPanel draws top vs bottom quartile means side by side per habit.
func comparisonPanel(s *analysis.Summary, cfg Config) (*plot.Plot, error) {
	p := newPanel(cfg, cfg.Panels.Comparison)
	p.Add(cfg.grid())
	n := len(s.Means)
	if n == 0 {
		return p, nil
	}
	top := make(plotter.Values, n)
	bottom := make(plotter.Values, n)
	labels := make([]string, n)
	for i, m := range s.Means {
		top[i] = finite(m.Top)
		bottom[i] = finite(m.Bottom)
		labels[i] = analysis.Humanize(m.Column)
	}
	w := barWidth(cfg.Width/2, n, 2)
	topBars, err := plotter.NewBarChart(top, w)
	if err != nil {
		return nil, fmt.Errorf("top bars: %w", err)
	}
	topBars.Color = cfg.Top
	topBars.LineStyle.Width = 0
	topBars.Offset = -w / 2

	bottomBars, err := plotter.NewBarChart(bottom, w)
	if err != nil {
		return nil, fmt.Errorf("bottom bars: %w", err)
	}
	bottomBars.Color = cfg.Bottom
	bottomBars.LineStyle.Width = 0
	bottomBars.Offset = w / 2

	p.Add(topBars, bottomBars)
	p.Legend.Add(cfg.Panels.TopLabel, topBars)
	p.Legend.Add(cfg.Panels.BottomLabel, bottomBars)
	p.Legend.Top = true

	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	return p, nil
}
