package analysis

import (
	"fmt"
)

// DegenerateBoundError is returned when the a priori bound at a sample is not
// a positive finite value, typically because the sample is a root of the
// polynomial. The forward error model does not apply there and the sample
// must be replaced by the caller.
type DegenerateBoundError struct {
	Parameter float64
	S         float64
	Reason    string
}

func (e *DegenerateBoundError) Error() string {
	return fmt.Sprintf("degenerate bound at parameter=%v s=%v: %s", e.Parameter, e.S, e.Reason)
}
