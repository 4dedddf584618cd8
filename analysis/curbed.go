package analysis

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"math/big"
	"strconv"

	"github.com/pkg/errors"

	"github.com/tuneinsight/bernstein/polynomial"
	"github.com/tuneinsight/bernstein/utils/bignum"
)

// CurbedDeCasteljau evaluates (1 - 5s)^n with the specialised recurrence
// p <- (1-s) p - 4s p, starting from p = 1. It is de Casteljau's method for
// the coefficients (-4)^j, with every control point collapsed into one.
func CurbedDeCasteljau[T any](ar polynomial.Arithmetic[T], s T, n int) T {

	p := ar.FromInt(1)
	r := ar.Sub(ar.FromInt(1), s)
	scaled := ar.Mul(ar.FromInt(4), s)

	for i := 0; i < n; i++ {
		p = ar.Sub(ar.Mul(r, p), ar.Mul(scaled, p))
	}

	return p
}

// CurbedRecord compares the two a priori bounds of the curbed recurrence
// with the observed error.
type CurbedRecord struct {
	Parameter float64 `json:"parameter"`
	S         float64 `json:"s"`
	// Phi is |(1 + 3s) / (1 - 5s)|, the condition of one step.
	Phi float64 `json:"phi"`
	// NaiveBound is gamma(3n) phi^n.
	NaiveBound float64 `json:"naive_bound"`
	// ImprovedBound is (1 + phi gamma(3))^n - 1.
	ImprovedBound float64 `json:"improved_bound"`
	Error         float64 `json:"error"`
}

// Curbed computes the [CurbedRecord] of (1 - 5s)^n at the sample.
// The sample is first rounded to the native format of the rounding model.
// It returns a *DegenerateBoundError if s = 1/5 or if a bound is not a
// positive finite float64.
func (a *Analyzer) Curbed(sample Sample, n int) (rec CurbedRecord, err error) {

	if !a.params.CanGamma(3 * n) {
		panic(errors.Errorf("cannot Curbed: gamma(3n) undefined for n=%d and precision %d", n, a.params.Precision()))
	}

	sf := a.format.round(sample.Point.Float64())
	if math.IsInf(sf, 0) {
		return CurbedRecord{}, errors.Errorf("cannot Curbed: s=%v overflows precision %d", sample.Point.Float64(), a.params.Precision())
	}
	s := bignum.FromFloat64(sf)

	one := big.NewRat(1, 1)

	den := new(big.Rat).Sub(one, new(big.Rat).Mul(big.NewRat(5, 1), s))
	if den.Sign() == 0 {
		return CurbedRecord{}, &DegenerateBoundError{Parameter: sample.Parameter, S: sf, Reason: "s is the root 1/5"}
	}

	phi := new(big.Rat).Add(one, new(big.Rat).Mul(big.NewRat(3, 1), s))
	phi.Quo(phi, den)
	phi.Abs(phi)

	naive := new(big.Rat).Mul(a.params.Gamma(3*n), bignum.Pow(phi, n))

	improved := new(big.Rat).Mul(phi, a.params.Gamma(3))
	improved = bignum.Pow(improved.Add(improved, one), n)
	improved.Sub(improved, one)

	if naive.Sign() <= 0 || improved.Sign() <= 0 {
		return CurbedRecord{}, &DegenerateBoundError{Parameter: sample.Parameter, S: sf, Reason: "a priori bound is not positive"}
	}

	rec = CurbedRecord{
		Parameter: sample.Parameter,
		S:         sf,
	}

	rec.Phi, _ = phi.Float64()
	rec.NaiveBound, _ = naive.Float64()
	rec.ImprovedBound, _ = improved.Float64()

	if math.IsInf(rec.Phi, 0) || math.IsInf(rec.NaiveBound, 0) || math.IsInf(rec.ImprovedBound, 0) {
		return CurbedRecord{}, &DegenerateBoundError{Parameter: sample.Parameter, S: sf, Reason: "a priori bound is not a finite float64"}
	}

	exact := CurbedDeCasteljau[*big.Rat](polynomial.Rational{}, s, n)

	computed := a.format.curbed(sf, n)
	if math.IsNaN(computed) || math.IsInf(computed, 0) {
		return CurbedRecord{}, errors.Errorf("cannot Curbed: recurrence at s=%v returned %v", sf, computed)
	}

	diff := new(big.Rat).Sub(bignum.FromFloat64(computed), exact)
	diff.Quo(diff, exact)
	rec.Error, _ = diff.Abs(diff).Float64()

	a.logger.WithField("parameter", rec.Parameter).WithField("phi", rec.Phi).Debug("evaluated curbed sample")

	return
}

// RunCurbed computes the [CurbedRecord] of each sample, in input order.
func (a *Analyzer) RunCurbed(samples []Sample, n int) (records CurbedRecords, err error) {

	records = make(CurbedRecords, len(samples))

	for i := range samples {
		if records[i], err = a.Curbed(samples[i], n); err != nil {
			return nil, errors.Wrapf(err, "sample %d", i)
		}
	}

	return
}

// CurbedRecords is the ordered output of a curbed run.
type CurbedRecords []CurbedRecord

// WriteCSV writes the records as CSV with a header row
// "parameter,s,phi,naive_bound,improved_bound,error".
func (r CurbedRecords) WriteCSV(w io.Writer) (err error) {

	cw := csv.NewWriter(w)

	if err = cw.Write([]string{"parameter", "s", "phi", "naive_bound", "improved_bound", "error"}); err != nil {
		return errors.Wrap(err, "cannot WriteCSV")
	}

	for _, rec := range r {
		row := make([]string, 6)
		for i, f := range []float64{rec.Parameter, rec.S, rec.Phi, rec.NaiveBound, rec.ImprovedBound, rec.Error} {
			row[i] = strconv.FormatFloat(f, 'g', -1, 64)
		}
		if err = cw.Write(row); err != nil {
			return errors.Wrap(err, "cannot WriteCSV")
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "cannot WriteCSV")
}

// WriteJSON writes {"records": [...]}.
func (r CurbedRecords) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(struct {
		Records CurbedRecords `json:"records"`
	}{r}), "cannot WriteJSON")
}
