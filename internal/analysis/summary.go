package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/prodash/internal/dataset"
	"github.com/google/uuid"
)

// Options controls the statistics pass.
type Options struct {
	// Confidence level of the regression band, e.g. 0.95.
	Confidence float64
	// BandPoints is how many x positions the band is evaluated at.
	BandPoints int
}

// DefaultOptions returns reasonable defaults for the dashboard statistics.
func DefaultOptions() Options {
	return Options{Confidence: 0.95, BandPoints: 100}
}

// Correlation is one entry of a correlation vector.
type Correlation struct {
	Column string
	R      float64
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// Quartiles are the 25th and 75th percentile of the productivity column.
type Quartiles struct {
	Lower float64
	Upper float64
}

// GroupMean is the mean of one lifestyle column within the top and bottom quartile groups.
type GroupMean struct {
	Role   dataset.Role
	Column string
	Top    float64
	Bottom float64
}

// BandPoint is one x position of a regression confidence band.
type BandPoint struct {
	X, Lower, Upper float64
}

// Trend is the scatter series behind the study-hours panel and its linear fit.
type Trend struct {
	XColumn string
	YColumn string
	X, Y    []float64

	Fitted    bool
	Intercept float64
	Slope     float64
	RSquared  float64
	Band      []BandPoint // nil when fewer than three points
}

// Summary is the complete statistics result for one dataset.
type Summary struct {
	RunID   string
	Dataset string
	Rows    int
	Dropped int
	Roles   *dataset.ColumnRoles

	// Correlations of every other numeric column with productivity, ascending.
	Correlations []Correlation
	Matrix       *CorrMatrix
	Quartiles    Quartiles
	TopRows      []int
	BottomRows   []int
	Means        []GroupMean
	Trend        *Trend
}

// Summarize computes correlations, quartile groups, group means and the trend
// series for a loaded table. It fails with *dataset.SchemaError when the table
// has no rows or no numeric columns, or when productivity is not numeric.
func Summarize(t *dataset.Table, roles *dataset.ColumnRoles, opt Options) (*Summary, error) {
	if t == nil || roles == nil {
		return nil, fmt.Errorf("summarize: table and roles are required")
	}
	if t.Len() == 0 {
		return nil, &dataset.SchemaError{Reason: dataset.ReasonNoCompleteRows}
	}
	numeric := t.NumericColumns()
	if len(numeric) == 0 {
		return nil, &dataset.SchemaError{Reason: "table has no numeric columns"}
	}
	prod, ok := t.Column(roles.Productivity)
	if !ok || !prod.IsNumeric() {
		return nil, &dataset.SchemaError{Reason: fmt.Sprintf("productivity column %q is not numeric", roles.Productivity)}
	}

	s := &Summary{
		RunID:   uuid.NewString(),
		Dataset: t.Name,
		Rows:    t.Len(),
		Dropped: t.Dropped,
		Roles:   roles,
	}
	s.Matrix = correlationMatrix(numeric)
	s.Correlations = correlationVector(numeric, prod)

	s.Quartiles = Quartiles{
		Lower: Quantile(prod.Nums, 0.25),
		Upper: Quantile(prod.Nums, 0.75),
	}
	for i, p := range prod.Nums {
		if p >= s.Quartiles.Upper {
			s.TopRows = append(s.TopRows, i)
		}
		if p <= s.Quartiles.Lower {
			s.BottomRows = append(s.BottomRows, i)
		}
	}

	for _, rc := range roles.Lifestyle() {
		c, ok := t.Column(rc.Column)
		if !ok || !c.IsNumeric() {
			continue
		}
		s.Means = append(s.Means, GroupMean{
			Role:   rc.Role,
			Column: rc.Column,
			Top:    meanAt(c.Nums, s.TopRows),
			Bottom: meanAt(c.Nums, s.BottomRows),
		})
	}

	s.Trend = trendSeries(t, roles, numeric, prod)
	fitTrend(s.Trend, opt.Confidence, opt.BandPoints)
	return s, nil
}

func correlationMatrix(numeric []*dataset.Column) *CorrMatrix {
	n := len(numeric)
	m := &CorrMatrix{Columns: make([]string, n), Values: make([][]float64, n)}
	for i, c := range numeric {
		m.Columns[i] = c.Name
		m.Values[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r := pearson(numeric[i].Nums, numeric[j].Nums)
			if i == j && !math.IsNaN(r) {
				r = 1
			}
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

// correlationVector sorts ascending by coefficient; undefined coefficients go last.
func correlationVector(numeric []*dataset.Column, prod *dataset.Column) []Correlation {
	var out []Correlation
	for _, c := range numeric {
		if c.Name == prod.Name {
			continue
		}
		out = append(out, Correlation{Column: c.Name, R: pearson(c.Nums, prod.Nums)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].R, out[j].R
		if math.IsNaN(a) {
			return false
		}
		if math.IsNaN(b) {
			return true
		}
		return a < b
	})
	return out
}

// trendSeries picks the study-hours column for x, falling back to the first
// other numeric column and finally to productivity itself.
func trendSeries(t *dataset.Table, roles *dataset.ColumnRoles, numeric []*dataset.Column, prod *dataset.Column) *Trend {
	var x *dataset.Column
	if roles.StudyHours != nil {
		x, _ = t.Column(*roles.StudyHours)
	}
	if !x.IsNumeric() {
		x = nil
		for _, c := range numeric {
			if c.Name != prod.Name {
				x = c
				break
			}
		}
	}
	if x == nil {
		x = prod
	}
	return &Trend{XColumn: x.Name, YColumn: prod.Name, X: x.Nums, Y: prod.Nums}
}
