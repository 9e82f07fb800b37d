package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// pearson returns the Pearson correlation of x and y clamped to [-1, 1].
// Constant inputs yield NaN.
func pearson(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return math.NaN()
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

// quantile interpolates linearly between the closest ranks of sorted, i.e.
// position q*(n-1).
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// Quantile returns the q-th quantile of vals without modifying them.
func Quantile(vals []float64, q float64) float64 {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	return quantile(cp, q)
}

// mean of vals at the given row indices.
func meanAt(vals []float64, rows []int) float64 {
	if len(rows) == 0 {
		return math.NaN()
	}
	sub := make([]float64, len(rows))
	for i, r := range rows {
		sub[i] = vals[r]
	}
	return stat.Mean(sub, nil)
}

// fitTrend computes an OLS line of y on x and, when n >= 3, a confidence band
// for the mean response evaluated at points evenly spaced over the x range.
func fitTrend(tr *Trend, confidence float64, points int) {
	n := len(tr.X)
	if n < 2 {
		return
	}
	xbar := stat.Mean(tr.X, nil)
	var sxx float64
	for _, x := range tr.X {
		sxx += (x - xbar) * (x - xbar)
	}
	if sxx == 0 {
		return
	}
	tr.Intercept, tr.Slope = stat.LinearRegression(tr.X, tr.Y, nil, false)
	tr.RSquared = stat.RSquared(tr.X, tr.Y, nil, tr.Intercept, tr.Slope)
	tr.Fitted = true

	if n < 3 || points < 2 {
		return
	}
	var sse float64
	for i, x := range tr.X {
		d := tr.Y[i] - (tr.Intercept + tr.Slope*x)
		sse += d * d
	}
	s := math.Sqrt(sse / float64(n-2))
	tq := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 2)}.Quantile(1 - (1-confidence)/2)

	lo, hi := minMax(tr.X)
	step := (hi - lo) / float64(points-1)
	tr.Band = make([]BandPoint, points)
	for i := range tr.Band {
		x := lo + step*float64(i)
		if i == points-1 {
			x = hi
		}
		yhat := tr.Intercept + tr.Slope*x
		half := tq * s * math.Sqrt(1/float64(n)+(x-xbar)*(x-xbar)/sxx)
		tr.Band[i] = BandPoint{X: x, Lower: yhat - half, Upper: yhat + half}
	}
}

func minMax(vals []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
