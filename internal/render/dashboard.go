package render

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/KaramelBytes/prodash/internal/analysis"
	"github.com/KaramelBytes/prodash/internal/utils"
	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Dashboard is a composed 2x2 figure ready to be encoded.
type Dashboard struct {
	canvas *vgimg.Canvas
}

// Render builds the four panels from s and draws them under a title on a
// raster canvas sized by cfg.
func Render(s *analysis.Summary, cfg Config) (*Dashboard, error) {
	if s == nil {
		return nil, fmt.Errorf("render: nil summary")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.DPI <= 0 {
		return nil, fmt.Errorf("render: invalid canvas %vx%v at %d dpi", cfg.Width, cfg.Height, cfg.DPI)
	}

	builders := [2][2]func(*analysis.Summary, Config) (*plot.Plot, error){
		{correlationPanel, heatmapPanel},
		{scatterPanel, comparisonPanel},
	}
	plots := make([][]*plot.Plot, 2)
	for r := range builders {
		plots[r] = make([]*plot.Plot, 2)
		for c, build := range builders[r] {
			p, err := build(s, cfg)
			if err != nil {
				return nil, err
			}
			plots[r][c] = p
		}
	}

	img := vgimg.NewWith(vgimg.UseWH(cfg.Width, cfg.Height), vgimg.UseDPI(cfg.DPI), vgimg.UseBackgroundColor(color.White))
	dc := draw.New(img)

	titleHeight := cfg.TitleSize * 2.5
	titleStyle := text.Style{
		Color:   color.Black,
		Font:    cfg.font(cfg.TitleSize),
		XAlign:  draw.XCenter,
		YAlign:  draw.YCenter,
		Handler: plot.DefaultTextHandler,
	}
	titleStyle.Font.Weight = xfont.WeightBold
	dc.FillText(titleStyle, vg.Point{X: (dc.Min.X + dc.Max.X) / 2, Y: dc.Max.Y - titleHeight/2}, cfg.Title)

	body := draw.Crop(dc, 0, 0, 0, -titleHeight)
	tiles := draw.Tiles{
		Rows:      2,
		Cols:      2,
		PadX:      cfg.Width * 0.04,
		PadY:      cfg.Height * 0.05,
		PadLeft:   vg.Points(12),
		PadRight:  vg.Points(12),
		PadBottom: vg.Points(12),
	}
	canvases := plot.Align(plots, tiles, body)
	for r := range plots {
		for c := range plots[r] {
			plots[r][c].Draw(canvases[r][c])
		}
	}
	return &Dashboard{canvas: img}, nil
}

// WriteTo encodes the dashboard as PNG.
func (d *Dashboard) WriteTo(w io.Writer) (int64, error) {
	return vgimg.PngCanvas{Canvas: d.canvas}.WriteTo(w)
}

// Save encodes the dashboard and writes it to path atomically, so a failed
// encode or write never leaves a partial image behind.
func (d *Dashboard) Save(path string) error {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
