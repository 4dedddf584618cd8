package analysis

import (
	"encoding/binary"
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"math/big"
	"strconv"

	"github.com/pkg/errors"
	"github.com/zeebo/blake3"

	"github.com/tuneinsight/bernstein/utils/bignum"
)

// Record is the outcome of the analysis of one sample.
type Record struct {
	Parameter float64 `json:"parameter"`
	S         float64 `json:"s"`
	// Bound is the a priori relative error bound gamma(3n) p~(s) / |p(s)|.
	Bound float64 `json:"bound"`
	// Condition is p~(s) / |p(s)|.
	Condition float64 `json:"condition"`
	// Errors holds the observed relative forward error of each method.
	Errors []float64 `json:"errors"`
	// BoundRat is the exact value of Bound.
	BoundRat *big.Rat `json:"-"`
}

// Log10Bound returns log10 of the exact bound.
func (r Record) Log10Bound() float64 {
	if r.BoundRat == nil {
		return math.Log10(r.Bound)
	}
	return bignum.Log10(r.BoundRat)
}

// Records is the ordered output of one experiment run.
type Records []Record

// Parameters returns the parameter column.
func (r Records) Parameters() []float64 {
	return r.column(func(rec Record) float64 { return rec.Parameter })
}

// Bounds returns the bound column.
func (r Records) Bounds() []float64 {
	return r.column(func(rec Record) float64 { return rec.Bound })
}

// Errors returns the error column of the i-th method.
func (r Records) Errors(i int) []float64 {
	return r.column(func(rec Record) float64 { return rec.Errors[i] })
}

func (r Records) column(f func(rec Record) float64) (c []float64) {
	c = make([]float64, len(r))
	for i := range r {
		c[i] = f(r[i])
	}
	return
}

// Digest returns the blake3 hash of the float64 bits of every record field,
// in order. Two runs that produce the same records have the same digest.
func (r Records) Digest() (digest [32]byte) {

	h := blake3.New()
	buf := make([]byte, 8)

	write := func(f float64) {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
		h.Write(buf)
	}

	for _, rec := range r {
		write(rec.Parameter)
		write(rec.S)
		write(rec.Bound)
		write(rec.Condition)
		for _, e := range rec.Errors {
			write(e)
		}
	}

	copy(digest[:], h.Sum(nil))
	return
}

// WriteCSV writes the records as CSV with a header row
// "parameter,s,bound,condition,<method>...".
func (r Records) WriteCSV(w io.Writer, methods []string) (err error) {

	cw := csv.NewWriter(w)

	header := append([]string{"parameter", "s", "bound", "condition"}, methods...)
	if err = cw.Write(header); err != nil {
		return errors.Wrap(err, "cannot WriteCSV")
	}

	format := func(f float64) string {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}

	for i, rec := range r {

		if len(rec.Errors) != len(methods) {
			return errors.Errorf("cannot WriteCSV: record %d has %d errors but %d methods are named", i, len(rec.Errors), len(methods))
		}

		row := []string{format(rec.Parameter), format(rec.S), format(rec.Bound), format(rec.Condition)}
		for _, e := range rec.Errors {
			row = append(row, format(e))
		}

		if err = cw.Write(row); err != nil {
			return errors.Wrap(err, "cannot WriteCSV")
		}
	}

	cw.Flush()
	return errors.Wrap(cw.Error(), "cannot WriteCSV")
}

// WriteJSON writes {"methods": [...], "records": [...]}.
func (r Records) WriteJSON(w io.Writer, methods []string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(struct {
		Methods []string `json:"methods"`
		Records Records  `json:"records"`
	}{methods, r}), "cannot WriteJSON")
}
