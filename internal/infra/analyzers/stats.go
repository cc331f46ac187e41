package analyzers

import (
	"fmt"
	"math"

	"github.com/fotoproof/fotoproof/internal/domain/analysis"
)

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func stddev(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	m := mean(vs)
	var sum float64
	for _, v := range vs {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(vs)))
}

// pearson computes the correlation coefficient of two equal-length series.
func pearson(a, b []float64) float64 {
	n := len(a)
	if n == 0 || n != len(b) {
		return 0
	}
	ma, mb := mean(a), mean(b)
	var cov, va, vb float64
	for i := 0; i < n; i++ {
		da, db := a[i]-ma, b[i]-mb
		cov += da * db
		va += da * da
		vb += db * db
	}
	if va == 0 || vb == 0 {
		return 0
	}
	return cov / math.Sqrt(va*vb)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// run executes an analyzer body with panic recovery: any internal failure
// degrades to the analyzer's safe fallback score with the failure recorded,
// so the pipeline always receives a complete record.
func run(kind analysis.Kind, fallback float64, fn func() analysis.Record) (rec analysis.Record) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("analysis failed: %v", r)
			rec = analysis.Record{
				Analyzer:   kind,
				Score:      fallback,
				Result:     "Unknown",
				Indicators: []string{msg},
				Error:      msg,
			}
		}
	}()
	return fn()
}
