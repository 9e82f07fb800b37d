package analysis

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/prodash/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadCSV(t *testing.T, lines ...string) (*dataset.Table, *dataset.ColumnRoles) {
	t.Helper()
	p := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(p, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	tbl, err := dataset.Load(p, dataset.LoadOptions{})
	require.NoError(t, err)
	roles, err := dataset.ResolveRoles(tbl, dataset.ResolveOptions{})
	require.NoError(t, err)
	return tbl, roles
}

// linearRows builds n rows where study hours = i, gaming = -i, sleep is
// constant, and productivity = 2i + 1.
func linearRows(n int) []string {
	lines := []string{"name,study_hours_per_day,gaming_hours,sleep_hours,productivity_score"}
	for i := 1; i <= n; i++ {
		lines = append(lines, fmt.Sprintf("s%d,%d,%d,7,%d", i, i, -i, 2*i+1))
	}
	return lines
}

func TestCorrelationVectorExcludesProductivityAndIsSorted(t *testing.T) {
	tbl, roles := loadCSV(t, linearRows(9)...)
	s, err := Summarize(tbl, roles, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, s.Correlations, 3)
	for _, c := range s.Correlations {
		assert.NotEqual(t, "productivity_score", c.Column)
	}
	assert.Equal(t, "gaming_hours", s.Correlations[0].Column)
	assert.InDelta(t, -1, s.Correlations[0].R, 1e-12)
	assert.Equal(t, "study_hours_per_day", s.Correlations[1].Column)
	assert.InDelta(t, 1, s.Correlations[1].R, 1e-12)
	// constant column has no defined coefficient and sorts last
	assert.Equal(t, "sleep_hours", s.Correlations[2].Column)
	assert.True(t, math.IsNaN(s.Correlations[2].R))
}

func TestCorrelationVectorAscendingOnNoisyData(t *testing.T) {
	lines := []string{"a,b,c,d,productivity"}
	vals := [][5]float64{
		{1, 9, 3, 2, 10}, {2, 7, 1, 8, 12}, {3, 8, 4, 1, 15}, {4, 4, 1, 5, 11},
		{5, 5, 9, 2, 20}, {6, 2, 2, 6, 18}, {7, 3, 6, 5, 25}, {8, 1, 5, 3, 22},
	}
	for _, v := range vals {
		lines = append(lines, fmt.Sprintf("%g,%g,%g,%g,%g", v[0], v[1], v[2], v[3], v[4]))
	}
	tbl, roles := loadCSV(t, lines...)
	s, err := Summarize(tbl, roles, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, s.Correlations, 4)
	for i := 1; i < len(s.Correlations); i++ {
		assert.LessOrEqual(t, s.Correlations[i-1].R, s.Correlations[i].R)
	}
}

func TestCorrelationMatrix(t *testing.T) {
	tbl, roles := loadCSV(t, linearRows(6)...)
	s, err := Summarize(tbl, roles, DefaultOptions())
	require.NoError(t, err)

	m := s.Matrix
	assert.Equal(t, []string{"study_hours_per_day", "gaming_hours", "sleep_hours", "productivity_score"}, m.Columns)
	for i := range m.Columns {
		for j := range m.Columns {
			a, b := m.Values[i][j], m.Values[j][i]
			if math.IsNaN(a) {
				assert.True(t, math.IsNaN(b))
				continue
			}
			assert.Equal(t, a, b)
		}
	}
	assert.Equal(t, 1.0, m.Values[0][0])
	assert.InDelta(t, -1, m.Values[0][1], 1e-12)
	assert.True(t, math.IsNaN(m.Values[2][2]))
}

func TestQuantileLinearInterpolation(t *testing.T) {
	assert.Equal(t, 1.75, Quantile([]float64{4, 1, 3, 2}, 0.25))
	assert.Equal(t, 3.25, Quantile([]float64{4, 1, 3, 2}, 0.75))
	assert.Equal(t, 5.0, Quantile([]float64{5}, 0.25))
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestQuartileGroups(t *testing.T) {
	tbl, roles := loadCSV(t, linearRows(9)...)
	s, err := Summarize(tbl, roles, DefaultOptions())
	require.NoError(t, err)

	// productivity = 3,5,...,19
	assert.Equal(t, 7.0, s.Quartiles.Lower)
	assert.Equal(t, 15.0, s.Quartiles.Upper)
	assert.LessOrEqual(t, s.Quartiles.Lower, s.Quartiles.Upper)
	assert.Equal(t, []int{6, 7, 8}, s.TopRows)
	assert.Equal(t, []int{0, 1, 2}, s.BottomRows)

	prod, _ := tbl.Column("productivity_score")
	for _, r := range s.TopRows {
		assert.GreaterOrEqual(t, prod.Nums[r], s.Quartiles.Upper)
	}
	for _, r := range s.BottomRows {
		assert.LessOrEqual(t, prod.Nums[r], s.Quartiles.Lower)
	}
}

func TestConstantProductivityPutsEveryRowInBothGroups(t *testing.T) {
	tbl, roles := loadCSV(t, "study_hours_per_day,productivity_score", "1,50", "2,50", "3,50", "4,50")
	s, err := Summarize(tbl, roles, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, s.Quartiles.Lower, s.Quartiles.Upper)
	assert.Len(t, s.TopRows, 4)
	assert.Len(t, s.BottomRows, 4)
	require.Len(t, s.Means, 1)
	assert.Equal(t, s.Means[0].Top, s.Means[0].Bottom)
}

func TestGroupMeansOmitAbsentRoles(t *testing.T) {
	tbl, roles := loadCSV(t, linearRows(9)...)
	s, err := Summarize(tbl, roles, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, s.Means, 3)
	got := map[dataset.Role]GroupMean{}
	for _, m := range s.Means {
		got[m.Role] = m
	}
	assert.NotContains(t, got, dataset.RolePhoneUsage)
	assert.NotContains(t, got, dataset.RoleSocialMedia)
	assert.NotContains(t, got, dataset.RoleExercise)

	assert.Equal(t, 8.0, got[dataset.RoleStudyHours].Top)
	assert.Equal(t, 2.0, got[dataset.RoleStudyHours].Bottom)
	assert.Equal(t, -8.0, got[dataset.RoleGaming].Top)
	assert.Equal(t, 7.0, got[dataset.RoleSleepHours].Bottom)
}

func TestSummarizeRejectsTablesWithoutNumbers(t *testing.T) {
	tbl := &dataset.Table{Columns: []*dataset.Column{{Name: "label", Kind: dataset.KindCategorical, Values: []string{"a"}}}}
	_, err := Summarize(tbl, &dataset.ColumnRoles{Productivity: "label"}, DefaultOptions())
	var se *dataset.SchemaError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Reason, "no numeric columns")

	tbl.Columns = append(tbl.Columns, &dataset.Column{Name: "x", Kind: dataset.KindNumeric, Values: []string{"1"}, Nums: []float64{1}})
	_, err = Summarize(tbl, &dataset.ColumnRoles{Productivity: "label"}, DefaultOptions())
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Reason, "not numeric")
}

func TestSummarizeRejectsTablesWithoutRows(t *testing.T) {
	tbl := &dataset.Table{Columns: []*dataset.Column{{Name: "productivity_score", Kind: dataset.KindNumeric, Values: []string{}, Nums: []float64{}}}}
	_, err := Summarize(tbl, &dataset.ColumnRoles{Productivity: "productivity_score"}, DefaultOptions())
	var se *dataset.SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, dataset.ReasonNoCompleteRows, se.Reason)
}

func TestTrendExactLine(t *testing.T) {
	tbl, roles := loadCSV(t, linearRows(10)...)
	s, err := Summarize(tbl, roles, DefaultOptions())
	require.NoError(t, err)

	tr := s.Trend
	require.NotNil(t, tr)
	assert.Equal(t, "study_hours_per_day", tr.XColumn)
	assert.Equal(t, "productivity_score", tr.YColumn)
	require.True(t, tr.Fitted)
	assert.InDelta(t, 2, tr.Slope, 1e-9)
	assert.InDelta(t, 1, tr.Intercept, 1e-9)
	assert.InDelta(t, 1, tr.RSquared, 1e-9)
	require.Len(t, tr.Band, 100)
	assert.Equal(t, 1.0, tr.Band[0].X)
	assert.Equal(t, 10.0, tr.Band[99].X)
	for _, bp := range tr.Band {
		assert.InDelta(t, bp.Lower, bp.Upper, 1e-6)
	}
}

func TestTrendBandWidensAwayFromMean(t *testing.T) {
	tbl, roles := loadCSV(t,
		"study_hours_per_day,productivity_score",
		"1,3", "2,6", "3,5", "4,9", "5,8", "6,13", "7,12", "8,15",
	)
	opt := DefaultOptions()
	opt.BandPoints = 15
	s, err := Summarize(tbl, roles, opt)
	require.NoError(t, err)

	band := s.Trend.Band
	require.Len(t, band, 15)
	width := func(bp BandPoint) float64 { return bp.Upper - bp.Lower }
	mid := band[7] // x = 4.5, the mean of x
	for _, bp := range band {
		assert.Less(t, bp.Lower, bp.Upper)
		assert.GreaterOrEqual(t, width(bp)+1e-12, width(mid))
	}
	assert.Greater(t, width(band[0]), width(mid))
}

func TestTrendFallsBackToFirstNumericColumn(t *testing.T) {
	tbl, roles := loadCSV(t, "label,focus,productivity", "a,1,2", "b,2,4", "c,3,7")
	s, err := Summarize(tbl, roles, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "focus", s.Trend.XColumn)
	assert.True(t, s.Trend.Fitted)
	assert.Len(t, s.Trend.Band, 100)
}

func TestTrendWithoutSpreadIsNotFitted(t *testing.T) {
	tbl, roles := loadCSV(t, "study_hours_per_day,productivity_score", "2,1", "2,5")
	s, err := Summarize(tbl, roles, DefaultOptions())
	require.NoError(t, err)
	assert.False(t, s.Trend.Fitted)
	assert.Nil(t, s.Trend.Band)
}

func TestSummaryCarriesRunID(t *testing.T) {
	tbl, roles := loadCSV(t, linearRows(4)...)
	a, err := Summarize(tbl, roles, DefaultOptions())
	require.NoError(t, err)
	b, err := Summarize(tbl, roles, DefaultOptions())
	require.NoError(t, err)
	assert.NotEmpty(t, a.RunID)
	assert.NotEqual(t, a.RunID, b.RunID)
}
