// Package measure turns masked measurement grids into analysis records.
package measure

import (
	"math"
	"sort"
)

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var s float64
	for _, v := range vals {
		s += v
	}
	return s / float64(len(vals))
}

// median does not modify vals.
func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	s := append([]float64(nil), vals...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// stddev is the population standard deviation.
func stddev(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	m := mean(vals)
	var ss float64
	for _, v := range vals {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(vals)))
}

func minMax(vals []float64) (lo, hi float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	lo, hi = vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// histogram counts vals into bins equal-width bins over [lo, hi]. Values outside
// the range are clipped into the first or last bin. It returns the counts and the
// bin centers.
func histogram(vals []float64, bins int, lo, hi float64) ([]int, []float64) {
	if bins < 1 {
		bins = 1
	}
	counts := make([]int, bins)
	centers := make([]float64, bins)
	width := (hi - lo) / float64(bins)
	for i := range centers {
		centers[i] = lo + width*(float64(i)+0.5)
	}
	for _, v := range vals {
		i := 0
		if width > 0 {
			i = int(math.Floor((v - lo) / width))
		}
		if i < 0 {
			i = 0
		}
		if i >= bins {
			i = bins - 1
		}
		counts[i]++
	}
	return counts, centers
}

// peak returns the center of the most populated bin.
func peak(counts []int, centers []float64) float64 {
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	if len(centers) == 0 {
		return 0
	}
	return centers[best]
}
