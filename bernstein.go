/*
Package bernstein measures the floating-point accuracy of polynomial evaluation in Bernstein form.

The polynomial package implements de Casteljau's method and the VS method generically over float32, float64
and exact rationals. The roundoff package holds the rounding model (unit roundoff and gamma factors) and the
analysis package compares the observed forward error of each method with the a priori bound gamma(3n) p~(s)/|p(s)|.
The examples/experiments command runs the reference experiments or experiments read from a TOML file.
*/
package bernstein
