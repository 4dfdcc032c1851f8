// Package models wraps the pure mechanics step functions as stateful
// machines for the simulator and the live view.
//
// Each machine holds one snapshot and replaces it with the step result on
// every tick. Reset restores the snapshot the machine was built with.
package models

import "errors"

// ErrParameterBounds indicates a tuned value outside its physical range.
var ErrParameterBounds = errors.New("models: parameter out of valid bounds")

// ErrUnknownParameter indicates a parameter name the machine does not expose.
var ErrUnknownParameter = errors.New("models: unknown parameter")

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
