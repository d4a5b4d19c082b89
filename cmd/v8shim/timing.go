package main

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// timing summarizes repeated script runs in milliseconds
type timing struct {
	Runs     int     `json:"runs"`
	MeanMS   float64 `json:"mean_ms"`
	StdDevMS float64 `json:"stddev_ms"`
	MinMS    float64 `json:"min_ms"`
	MedianMS float64 `json:"median_ms"`
	P95MS    float64 `json:"p95_ms"`
	MaxMS    float64 `json:"max_ms"`
}

func summarize(samples []time.Duration) *timing {
	if len(samples) == 0 {
		return nil
	}

	ms := make([]float64, len(samples))
	for i, d := range samples {
		ms[i] = float64(d) / float64(time.Millisecond)
	}
	sort.Float64s(ms)

	t := &timing{
		Runs:     len(ms),
		MinMS:    ms[0],
		MaxMS:    ms[len(ms)-1],
		MedianMS: stat.Quantile(0.5, stat.Empirical, ms, nil),
		P95MS:    stat.Quantile(0.95, stat.Empirical, ms, nil),
	}
	if len(ms) > 1 {
		t.MeanMS, t.StdDevMS = stat.MeanStdDev(ms, nil)
	} else {
		t.MeanMS = ms[0]
	}
	return t
}

func (t *timing) String() string {
	return fmt.Sprintf("runs=%d mean=%.3fms stddev=%.3fms min=%.3fms median=%.3fms p95=%.3fms max=%.3fms",
		t.Runs, t.MeanMS, t.StdDevMS, t.MinMS, t.MedianMS, t.P95MS, t.MaxMS)
}
