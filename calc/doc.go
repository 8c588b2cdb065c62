// Package calc implements the deterministic financial calculators exposed to
// the model as tools. Each calculator is a pure function over a typed input
// struct that renders a plain-text report; tools.go wraps them as FuncTools
// with schemas derived from the input structs.
package calc
