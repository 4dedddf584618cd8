// Package analysis measures the forward error of the Bernstein evaluators
// against an exact rational reference, and compares it with the a priori
// bound gamma(3n) p~(s) / |p(s)|.
package analysis

import (
	"context"
	"io"
	"math"
	"math/big"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/tuneinsight/bernstein/polynomial"
	"github.com/tuneinsight/bernstein/roundoff"
	"github.com/tuneinsight/bernstein/utils"
	"github.com/tuneinsight/bernstein/utils/bignum"
)

// Method is a floating-point evaluator under analysis. Precision is the
// significand precision of the arithmetic it runs in. Its inputs are values
// of that format held in float64.
type Method struct {
	Name      string
	Precision uint
	Evaluate  func(s float64, coeffs []float64) (float64, error)
}

var (
	// DeCasteljau is the progressive evaluator in binary64.
	DeCasteljau = Method{
		Name:      "DeCasteljau",
		Precision: roundoff.Binary64Literal.Precision,
		Evaluate: func(s float64, coeffs []float64) (float64, error) {
			return polynomial.DeCasteljauFloat64(s, coeffs), nil
		},
	}

	// VS is the ratio evaluator in binary64.
	VS = Method{
		Name:      "VS",
		Precision: roundoff.Binary64Literal.Precision,
		Evaluate:  polynomial.VSFloat64,
	}

	// DeCasteljau32 is the progressive evaluator in binary32.
	DeCasteljau32 = Method{
		Name:      "DeCasteljau",
		Precision: roundoff.Binary32Literal.Precision,
		Evaluate: func(s float64, coeffs []float64) (float64, error) {
			return float64(polynomial.DeCasteljau[float32](polynomial.Float[float32]{}, float32(s), toFloat32(coeffs))), nil
		},
	}

	// VS32 is the ratio evaluator in binary32.
	VS32 = Method{
		Name:      "VS",
		Precision: roundoff.Binary32Literal.Precision,
		Evaluate: func(s float64, coeffs []float64) (float64, error) {
			v, err := polynomial.VS[float32](polynomial.Float[float32]{}, float32(s), toFloat32(coeffs))
			return float64(v), err
		},
	}

	builtinMethods = []Method{DeCasteljau, VS, DeCasteljau32, VS32}
)

func toFloat32(values []float64) []float32 {
	return utils.MapSlice(values, func(x float64) float32 { return float32(x) })
}

// MethodByName returns the built-in method with the given name that runs at
// the precision of params.
func MethodByName(name string, params roundoff.Parameters) (Method, error) {
	for _, m := range builtinMethods {
		if m.Name == name && m.Precision == params.Precision() {
			return m, nil
		}
	}
	return Method{}, errors.Errorf("unknown method %q at precision %d, must be %q or %q", name, params.Precision(), DeCasteljau.Name, VS.Name)
}

// DefaultMethods returns the built-in methods that run at the precision of params.
func DefaultMethods(params roundoff.Parameters) (methods []Method) {
	for _, m := range builtinMethods {
		if m.Precision == params.Precision() {
			methods = append(methods, m)
		}
	}
	return
}

// Sample is an evaluation point tagged with the experiment parameter it was
// derived from (s itself, or N for a sweep).
type Sample struct {
	Parameter float64
	Point     polynomial.Point
}

// NewSamples returns one sample per point, with the point as parameter.
func NewSamples(points []polynomial.Point) (samples []Sample) {
	samples = make([]Sample, len(points))
	for i, p := range points {
		samples[i] = Sample{Parameter: p.Float64(), Point: p}
	}
	return
}

// Option configures an [Analyzer].
type Option func(a *Analyzer)

// WithMethods sets the evaluators under analysis, in record order.
func WithMethods(methods ...Method) Option {
	return func(a *Analyzer) {
		a.methods = append([]Method{}, methods...)
	}
}

// WithLogger sets the logger of the analyzer.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// Analyzer computes error/bound records. It holds no mutable state and is
// safe for concurrent use if its methods are.
type Analyzer struct {
	params  roundoff.Parameters
	format  format
	methods []Method
	logger  logrus.FieldLogger
}

// NewAnalyzer creates a new [Analyzer] for the given rounding model. By
// default it analyzes the [DefaultMethods] of params and does not log.
// It panics if [CheckParameters] fails or if a method does not run at the
// precision of params.
func NewAnalyzer(params roundoff.Parameters, opts ...Option) *Analyzer {

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	a := &Analyzer{
		params:  params,
		format:  formatOf(params),
		methods: DefaultMethods(params),
		logger:  logger,
	}

	for _, opt := range opts {
		opt(a)
	}

	for _, m := range a.methods {
		if m.Precision != params.Precision() {
			panic(errors.Errorf("cannot NewAnalyzer: method %s runs at precision %d but the rounding model has precision %d", m.Name, m.Precision, params.Precision()))
		}
	}

	return a
}

// Parameters returns the rounding model of the analyzer.
func (a *Analyzer) Parameters() roundoff.Parameters {
	return a.params
}

// MethodNames returns the names of the analyzed methods, in record order.
func (a *Analyzer) MethodNames() (names []string) {
	names = make([]string, len(a.methods))
	for i, m := range a.methods {
		names[i] = m.Name
	}
	return
}

// Evaluate computes the record of one sample. The sample and the coefficients
// are first rounded to the native format of the rounding model, then:
//  1. p(s) exactly, with de Casteljau over the rationals,
//  2. the bound gamma(3n) p~(s) / |p(s)|, where p~ has coefficients |p_j|,
//  3. for each method, |fl(p(s)) - p(s)| / |p(s)|.
//
// It returns a *DegenerateBoundError if p(s) = 0 or if the bound or the
// condition number is not a positive finite float64. It panics if gamma(3n) is undefined for the rounding model.
func (a *Analyzer) Evaluate(coeffs polynomial.Coefficients, sample Sample) (rec Record, err error) {

	n := coeffs.Degree()

	if !a.params.CanGamma(3 * n) {
		panic(errors.Errorf("cannot Evaluate: gamma(3n) undefined for degree %d and precision %d", n, a.params.Precision()))
	}

	if coeffs, err = a.inFormat(coeffs); err != nil {
		return
	}

	sf := a.format.round(sample.Point.Float64())
	if math.IsInf(sf, 0) {
		return Record{}, errors.Errorf("cannot Evaluate: s=%v overflows precision %d", sample.Point.Float64(), a.params.Precision())
	}
	s := bignum.FromFloat64(sf)

	pExact := polynomial.DeCasteljauRat(s, coeffs.Rat())

	if pExact.Sign() == 0 {
		return Record{}, &DegenerateBoundError{Parameter: sample.Parameter, S: sf, Reason: "p(s) is zero"}
	}

	absP := new(big.Rat).Abs(pExact)

	pTilde := polynomial.DeCasteljauRat(s, coeffs.Abs().Rat())

	cond := new(big.Rat).Quo(pTilde, absP)
	bound := new(big.Rat).Mul(a.params.Gamma(3*n), cond)

	boundF, _ := bound.Float64()
	if bound.Sign() <= 0 || boundF == 0 {
		return Record{}, &DegenerateBoundError{Parameter: sample.Parameter, S: sf, Reason: "a priori bound is not positive"}
	}

	condF, _ := cond.Float64()
	if math.IsInf(boundF, 0) || math.IsInf(condF, 0) {
		return Record{}, &DegenerateBoundError{Parameter: sample.Parameter, S: sf, Reason: "a priori bound is not a finite float64"}
	}

	rec = Record{
		Parameter: sample.Parameter,
		S:         sf,
		Bound:     boundF,
		Condition: condF,
		Errors:    make([]float64, len(a.methods)),
		BoundRat:  bound,
	}

	values := coeffs.Float64()

	for i, m := range a.methods {

		var v float64
		if v, err = m.Evaluate(sf, values); err != nil {
			return Record{}, errors.Wrapf(err, "cannot Evaluate: method %s at s=%v", m.Name, sf)
		}

		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Record{}, errors.Errorf("cannot Evaluate: method %s at s=%v returned %v", m.Name, sf, v)
		}

		diff := new(big.Rat).Sub(bignum.FromFloat64(v), pExact)
		diff.Quo(diff, absP)
		rec.Errors[i], _ = diff.Abs(diff).Float64()
	}

	a.logger.WithFields(logrus.Fields{
		"parameter": rec.Parameter,
		"s":         rec.S,
		"bound":     rec.Bound,
		"errors":    rec.Errors,
	}).Debug("evaluated sample")

	return
}

// inFormat rounds the coefficients to the native format of the analyzer.
func (a *Analyzer) inFormat(coeffs polynomial.Coefficients) (polynomial.Coefficients, error) {

	if a.params.Precision() == roundoff.Binary64Literal.Precision {
		return coeffs, nil
	}

	rounded, err := polynomial.NewCoefficients(utils.MapSlice(coeffs.Float64(), a.format.round)...)
	if err != nil {
		return polynomial.Coefficients{}, errors.Wrapf(err, "cannot round coefficients to precision %d", a.params.Precision())
	}

	return rounded, nil
}

// Run evaluates coeffs at each point and returns the records in input
// order. The parameter of each record is its point. It stops at the first
// failing point.
func (a *Analyzer) Run(coeffs polynomial.Coefficients, points []polynomial.Point) (Records, error) {
	return a.RunSamples(coeffs, NewSamples(points))
}

// RunSamples evaluates coeffs at each sample and returns the records in
// input order. It stops at the first failing sample.
func (a *Analyzer) RunSamples(coeffs polynomial.Coefficients, samples []Sample) (records Records, err error) {

	records = make(Records, len(samples))

	for i := range samples {
		if records[i], err = a.Evaluate(coeffs, samples[i]); err != nil {
			return nil, errors.Wrapf(err, "sample %d", i)
		}
	}

	return
}

// RunParallel is [Analyzer.RunSamples] with the samples spread over at most
// workers goroutines (unbounded if workers <= 0). Records are returned in
// input order. On failure, scheduling stops and one of the errors is
// returned; which one depends on scheduling.
func (a *Analyzer) RunParallel(ctx context.Context, coeffs polynomial.Coefficients, samples []Sample, workers int) (Records, error) {

	g, gctx := errgroup.WithContext(ctx)

	if workers > 0 {
		g.SetLimit(workers)
	}

	records := make(Records, len(samples))

	for i := range samples {

		if gctx.Err() != nil {
			break
		}

		i := i
		g.Go(func() (err error) {
			if err = gctx.Err(); err != nil {
				return
			}
			if records[i], err = a.Evaluate(coeffs, samples[i]); err != nil {
				return errors.Wrapf(err, "sample %d", i)
			}
			return
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// gctx is always done after Wait, the parent tells whether the run was cut short.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
