package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/KaramelBytes/prodash/internal/analysis"
	cfgpkg "github.com/KaramelBytes/prodash/internal/config"
	"github.com/KaramelBytes/prodash/internal/dataset"
	"github.com/KaramelBytes/prodash/internal/render"
	"github.com/KaramelBytes/prodash/internal/utils"
	"gonum.org/v1/plot/vg"
)

// RunDashboard loads file, resolves its columns, computes the summary and
// writes the dashboard image to c.Output. It returns the written path.
// Progress goes to out and user-facing failures to errOut.
func RunDashboard(out, errOut io.Writer, file string, c *cfgpkg.Global) (string, error) {
	path, err := dataset.ResolveInputPath(file)
	if err != nil {
		return "", fmt.Errorf("resolve input path: %w", err)
	}
	fmt.Fprintf(out, "Loading data from %s...\n", path)

	tbl, err := dataset.Load(path, loadOptions(c))
	if err != nil {
		var dsErr *dataset.DataSourceError
		if errors.As(err, &dsErr) {
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintf(errOut, "✗ Data file not found: %s\n", path)
			} else {
				fmt.Fprintf(errOut, "✗ Failed to read data file %s: %v\n", path, dsErr.Err)
			}
			return "", &reportedError{err: err}
		}
		return "", err
	}
	logger.Debug("dataset loaded", "path", path, "rows", tbl.Len(), "dropped", tbl.Dropped, "columns", len(tbl.Columns))

	roles, err := dataset.ResolveRoles(tbl, dataset.ResolveOptions{Strict: c.StrictProductivity})
	if err != nil {
		return "", err
	}
	if roles.Fallback {
		fmt.Fprintf(out, "⚠ No productivity column found; falling back to last column\n")
	}
	fmt.Fprintf(out, "Using productivity column: %s\n", roles.Productivity)
	for _, n := range roles.Notes {
		fmt.Fprintf(out, "⚠ %s\n", n)
	}

	s, err := analysis.Summarize(tbl, roles, analysis.DefaultOptions())
	if err != nil {
		return "", err
	}
	logger.Debug("summary computed", "run_id", s.RunID, "productivity", roles.Productivity, "correlations", len(s.Correlations), "top", len(s.TopRows), "bottom", len(s.BottomRows))

	d, err := render.Render(s, renderConfig(c))
	if err != nil {
		return "", err
	}
	if err := d.Save(c.Output); err != nil {
		return "", err
	}
	fmt.Fprintf(out, "✓ Dashboard written to %s\n", c.Output)
	logger.Debug("dashboard saved", "run_id", s.RunID, "output", c.Output)

	if c.Show {
		if !utils.DisplayAvailable() {
			logger.Debug("no display available; not opening viewer")
		} else if err := utils.OpenViewer(c.Output); err != nil {
			fmt.Fprintf(errOut, "⚠ Warning: could not open viewer: %v\n", err)
		}
	}
	return c.Output, nil
}

func loadOptions(c *cfgpkg.Global) dataset.LoadOptions {
	return dataset.LoadOptions{
		Delimiter: c.Delim(),
		MaxRows:   c.MaxRows,
		Sheet:     c.Sheet,
	}
}

func renderConfig(c *cfgpkg.Global) render.Config {
	rc := render.DefaultConfig()
	rc.Width = vg.Length(c.WidthIn) * vg.Inch
	rc.Height = vg.Length(c.HeightIn) * vg.Inch
	rc.DPI = c.DPI
	if c.Title != "" {
		rc.Title = c.Title
	}
	return rc
}
