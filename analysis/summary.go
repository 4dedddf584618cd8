package analysis

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

// Summary aggregates the records of one method.
type Summary struct {
	Method string `json:"method"`
	Count  int    `json:"count"`
	// WithinBound counts the records whose error does not exceed the bound.
	WithinBound int `json:"within_bound"`
	// MedianRatio and MaxRatio are statistics of error / bound.
	MedianRatio float64 `json:"median_ratio"`
	MaxRatio    float64 `json:"max_ratio"`
	// MeanLog10Error is the mean of log10(error) over the non-zero errors,
	// NaN if every error is zero.
	MeanLog10Error float64 `json:"mean_log10_error"`
	// MeanLog10Bound is the mean of log10(bound), computed from the exact bounds.
	MeanLog10Bound float64 `json:"mean_log10_bound"`
}

// Fraction returns the fraction of records within the bound.
func (s Summary) Fraction() float64 {
	if s.Count == 0 {
		return math.NaN()
	}
	return float64(s.WithinBound) / float64(s.Count)
}

// Summarize returns one [Summary] per method. methods names the error
// columns of the records, in order.
func Summarize(records Records, methods []string) (summaries []Summary, err error) {

	if len(records) == 0 {
		return nil, errors.New("cannot Summarize: no records")
	}

	logBounds := make(stats.Float64Data, len(records))
	for i, rec := range records {
		logBounds[i] = rec.Log10Bound()
	}

	meanLogBound, err := logBounds.Mean()
	if err != nil {
		return nil, errors.Wrap(err, "cannot Summarize")
	}

	summaries = make([]Summary, len(methods))

	for m, name := range methods {

		ratios := make(stats.Float64Data, len(records))
		var logErrors stats.Float64Data

		sum := Summary{Method: name, Count: len(records), MeanLog10Bound: meanLogBound}

		for i, rec := range records {

			if len(rec.Errors) != len(methods) {
				return nil, errors.Errorf("cannot Summarize: record %d has %d errors but %d methods are named", i, len(rec.Errors), len(methods))
			}

			e := rec.Errors[m]

			if e <= rec.Bound {
				sum.WithinBound++
			}

			ratios[i] = e / rec.Bound

			if e > 0 {
				logErrors = append(logErrors, math.Log10(e))
			}
		}

		if sum.MedianRatio, err = stats.Median(ratios); err != nil {
			return nil, errors.Wrap(err, "cannot Summarize")
		}

		if sum.MaxRatio, err = stats.Max(ratios); err != nil {
			return nil, errors.Wrap(err, "cannot Summarize")
		}

		sum.MeanLog10Error = math.NaN()
		if len(logErrors) > 0 {
			if sum.MeanLog10Error, err = stats.Mean(logErrors); err != nil {
				return nil, errors.Wrap(err, "cannot Summarize")
			}
		}

		summaries[m] = sum
	}

	return
}
