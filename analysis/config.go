package analysis

import (
	"context"
	"io"
	"math"
	"math/big"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/tuneinsight/bernstein/polynomial"
	"github.com/tuneinsight/bernstein/roundoff"
	"github.com/tuneinsight/bernstein/utils/bignum"
	"github.com/tuneinsight/bernstein/utils/sampling"
)

// Experiment kinds.
const (
	// KindCompare evaluates a polynomial at a list of points with every method.
	KindCompare = "compare"
	// KindSweep evaluates a [NearRootFamily] along a geometric sweep of N.
	KindSweep = "sweep"
	// KindCurbed compares the bounds of the curbed recurrence along a sweep.
	KindCurbed = "curbed"
)

// SweepLiteral describes N = Base^e, e = From...To.
type SweepLiteral struct {
	Base float64 `json:"base" toml:"base"`
	From int     `json:"from" toml:"from"`
	To   int     `json:"to" toml:"to"`
}

// RandomLiteral describes Count points drawn uniformly in [Min, Max). An
// empty Seed draws from crypto/rand, otherwise the points are derived from
// the seed and are reproducible.
type RandomLiteral struct {
	Count int     `json:"count" toml:"count"`
	Min   float64 `json:"min" toml:"min"`
	Max   float64 `json:"max" toml:"max"`
	Seed  string  `json:"seed,omitempty" toml:"seed"`
}

// ExperimentLiteral is a literal, unchecked description of an experiment.
// The [NewExperimentFromLiteral] function is used to generate the actual
// checked experiment.
//
// A compare experiment takes its polynomial either from Dataset or from
// Coefficients (float literals, decimal or hexadecimal). Its points come from
// exactly one of Points, ExactPoints or Random, or from the dataset if none is
// set. ExactPoints are integers or decimal/fraction strings ("1/3", "0.1")
// rounded once to the nearest float64; floats are refused there.
// A sweep experiment needs Family and Sweep. A curbed experiment needs Sweep
// and Degree, and samples the family M=5 of that degree.
//
// Rounding selects the native format the methods run in, binary64 (53) or
// binary32 (24).
type ExperimentLiteral struct {
	Name         string                     `json:"name" toml:"name"`
	Kind         string                     `json:"kind" toml:"kind"`
	Dataset      string                     `json:"dataset,omitempty" toml:"dataset"`
	Coefficients []string                   `json:"coefficients,omitempty" toml:"coefficients"`
	Points       []float64                  `json:"points,omitempty" toml:"points"`
	ExactPoints  []interface{}              `json:"exact_points,omitempty" toml:"exact_points"`
	Random       *RandomLiteral             `json:"random,omitempty" toml:"random"`
	Family       *NearRootFamily            `json:"family,omitempty" toml:"family"`
	Sweep        *SweepLiteral              `json:"sweep,omitempty" toml:"sweep"`
	Degree       int                        `json:"degree,omitempty" toml:"degree"`
	Methods      []string                   `json:"methods,omitempty" toml:"methods"`
	Rounding     roundoff.ParametersLiteral `json:"rounding,omitempty" toml:"rounding"`
}

type experimentsFile struct {
	Experiments []ExperimentLiteral `toml:"experiment"`
}

// ParseExperiments decodes a TOML document made of [[experiment]] tables.
func ParseExperiments(data string) ([]ExperimentLiteral, error) {

	var file experimentsFile

	md, err := toml.Decode(data, &file)
	if err != nil {
		return nil, errors.Wrap(err, "cannot ParseExperiments")
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("cannot ParseExperiments: unknown keys %v", undecoded)
	}

	return file.Experiments, nil
}

// DefaultExperiments returns the reference experiments: the comparison of
// both methods on the Wilkinson and multiple root polynomials, the sweeps of
// (1 - Ms)^5 for M = 4, 5, 6 and the curbed bounds of (1 - 5s)^5.
func DefaultExperiments() []ExperimentLiteral {

	sweep := &SweepLiteral{Base: 2.1, From: 1, To: 45}

	return []ExperimentLiteral{
		{Name: "wilkinson1", Kind: KindCompare, Dataset: "wilkinson1"},
		{Name: "wilkinson2", Kind: KindCompare, Dataset: "wilkinson2"},
		{Name: "multiple_root", Kind: KindCompare, Dataset: "multiple_root"},
		{Name: "near_root_4", Kind: KindSweep, Family: &NearRootFamily{M: 4, Degree: 5}, Sweep: sweep, Methods: []string{DeCasteljau.Name}},
		{Name: "near_root_5", Kind: KindSweep, Family: &NearRootFamily{M: 5, Degree: 5}, Sweep: sweep, Methods: []string{DeCasteljau.Name}},
		{Name: "near_root_6", Kind: KindSweep, Family: &NearRootFamily{M: 6, Degree: 5}, Sweep: sweep, Methods: []string{DeCasteljau.Name}},
		{Name: "curbed", Kind: KindCurbed, Degree: 5, Sweep: sweep},
	}
}

// Experiment is a checked experiment, ready to run.
type Experiment struct {
	Name         string
	Kind         string
	Coefficients polynomial.Coefficients
	Samples      []Sample
	Degree       int
	Parameters   roundoff.Parameters
	Methods      []Method
}

// NewExperimentFromLiteral checks el and builds the corresponding [Experiment].
// A zero Rounding defaults to binary64, empty Methods to DeCasteljau and VS
// at the precision of Rounding.
func NewExperimentFromLiteral(el ExperimentLiteral) (e *Experiment, err error) {

	e = &Experiment{Name: el.Name, Kind: el.Kind, Degree: el.Degree}

	if el.Name == "" {
		return nil, errors.New("cannot NewExperimentFromLiteral: missing name")
	}

	if el.Rounding == (roundoff.ParametersLiteral{}) {
		el.Rounding = roundoff.Binary64Literal
	}

	if e.Parameters, err = roundoff.NewParametersFromLiteral(el.Rounding); err != nil {
		return nil, errors.Wrapf(err, "experiment %s", el.Name)
	}

	if err = CheckParameters(e.Parameters); err != nil {
		return nil, errors.Wrapf(err, "experiment %s", el.Name)
	}

	if len(el.Methods) == 0 {
		el.Methods = []string{DeCasteljau.Name, VS.Name}
	}

	for _, name := range el.Methods {
		var m Method
		if m, err = MethodByName(name, e.Parameters); err != nil {
			return nil, errors.Wrapf(err, "experiment %s", el.Name)
		}
		e.Methods = append(e.Methods, m)
	}

	switch el.Kind {
	case KindCompare:
		err = e.setCompare(el)
	case KindSweep:
		err = e.setSweep(el)
	case KindCurbed:
		err = e.setCurbed(el)
	default:
		err = errors.Errorf("invalid kind %q, must be %q, %q or %q", el.Kind, KindCompare, KindSweep, KindCurbed)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "experiment %s", el.Name)
	}

	return
}

func (e *Experiment) setCompare(el ExperimentLiteral) (err error) {

	var points []polynomial.Point
	if points, err = comparePoints(el); err != nil {
		return
	}

	if el.Dataset != "" {

		if len(el.Coefficients) != 0 {
			return errors.New("dataset and coefficients are mutually exclusive")
		}

		var ds Dataset
		if ds, err = DatasetByName(el.Dataset); err != nil {
			return
		}

		e.Coefficients = ds.Coefficients

		if points == nil {
			points = ds.Points
		}

		e.Samples = NewSamples(points)

		return
	}

	if e.Coefficients, err = polynomial.NewCoefficientsFromStrings(el.Coefficients...); err != nil {
		return
	}

	if len(points) == 0 {
		return errors.New("missing points")
	}

	e.Samples = NewSamples(points)

	return
}

// comparePoints returns the points of a compare experiment, nil if none of
// its point sources is set.
func comparePoints(el ExperimentLiteral) (points []polynomial.Point, err error) {

	var sources int
	for _, set := range []bool{len(el.Points) != 0, len(el.ExactPoints) != 0, el.Random != nil} {
		if set {
			sources++
		}
	}

	if sources > 1 {
		return nil, errors.New("points, exact_points and random are mutually exclusive")
	}

	switch {
	case len(el.Points) != 0:
		return pointsOf(el.Points), nil
	case len(el.ExactPoints) != 0:
		return exactPointsOf(el.ExactPoints)
	case el.Random != nil:
		return randomPointsOf(*el.Random)
	}

	return nil, nil
}

func exactPointsOf(values []interface{}) (points []polynomial.Point, err error) {

	points = make([]polynomial.Point, len(values))

	for i, v := range values {

		var r *big.Rat
		if r, err = bignum.NewRat(v); err != nil {
			return nil, errors.Wrapf(err, "exact point %d", i)
		}

		if f, _ := r.Float64(); math.IsInf(f, 0) {
			return nil, errors.Errorf("exact point %d = %s overflows float64", i, r.RatString())
		}

		points[i], _ = polynomial.NewPointFromRat(r)
	}

	return
}

func randomPointsOf(rl RandomLiteral) ([]polynomial.Point, error) {

	if rl.Count < 1 {
		return nil, errors.Errorf("invalid random count %d, must be at least 1", rl.Count)
	}

	if !(rl.Min < rl.Max) {
		return nil, errors.Errorf("invalid random interval [%v, %v)", rl.Min, rl.Max)
	}

	var prng sampling.PRNG
	var err error

	if rl.Seed == "" {
		prng, err = sampling.NewPRNG()
	} else {
		prng, err = sampling.NewKeyedPRNG([]byte(rl.Seed))
	}

	if err != nil {
		return nil, errors.WithStack(err)
	}

	return RandomPoints(prng, rl.Count, rl.Min, rl.Max), nil
}

func (e *Experiment) setSweep(el ExperimentLiteral) (err error) {

	if el.Family == nil || el.Sweep == nil {
		return errors.New("a sweep needs a family and a sweep")
	}

	if e.Coefficients, err = el.Family.Coefficients(); err != nil {
		return
	}

	e.Samples = el.Family.Samples(GeometricSweep(el.Sweep.Base, el.Sweep.From, el.Sweep.To))

	return
}

func (e *Experiment) setCurbed(el ExperimentLiteral) (err error) {

	if el.Sweep == nil {
		return errors.New("a curbed experiment needs a sweep")
	}

	if el.Degree < 1 {
		return errors.Errorf("invalid degree %d, must be at least 1", el.Degree)
	}

	family := NearRootFamily{M: 5, Degree: el.Degree}

	if e.Coefficients, err = family.Coefficients(); err != nil {
		return
	}

	e.Samples = family.Samples(GeometricSweep(el.Sweep.Base, el.Sweep.From, el.Sweep.To))

	return
}

func pointsOf(values []float64) []polynomial.Point {
	return UniformPoints(0, len(values)-1, func(i int) float64 { return values[i] })
}

// Result is the output of [Experiment.Run]. Curbed is only set for curbed
// experiments, Records for the others.
type Result struct {
	Name    string
	Methods []string
	Records Records
	Curbed  CurbedRecords
}

// Output formats of [Result.Write].
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Write writes the records of the result to w in the given format.
func (r Result) Write(w io.Writer, format string) error {

	switch format {
	case FormatCSV:
		if r.Curbed != nil {
			return r.Curbed.WriteCSV(w)
		}
		return r.Records.WriteCSV(w, r.Methods)
	case FormatJSON:
		if r.Curbed != nil {
			return r.Curbed.WriteJSON(w)
		}
		return r.Records.WriteJSON(w, r.Methods)
	}

	return errors.Errorf("cannot Write: invalid format %q, must be %q or %q", format, FormatCSV, FormatJSON)
}

// Run runs the experiment with up to workers goroutines. Options are passed
// to the [Analyzer], after the methods of the experiment.
func (e *Experiment) Run(ctx context.Context, workers int, opts ...Option) (res Result, err error) {

	a := NewAnalyzer(e.Parameters, append([]Option{WithMethods(e.Methods...)}, opts...)...)

	res = Result{Name: e.Name, Methods: a.MethodNames()}

	if e.Kind == KindCurbed {
		if res.Curbed, err = a.RunCurbed(e.Samples, e.Degree); err != nil {
			return Result{}, errors.Wrapf(err, "experiment %s", e.Name)
		}
		res.Methods = nil
		return
	}

	if res.Records, err = a.RunParallel(ctx, e.Coefficients, e.Samples, workers); err != nil {
		return Result{}, errors.Wrapf(err, "experiment %s", e.Name)
	}

	return
}
