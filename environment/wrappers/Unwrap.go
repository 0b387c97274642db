package wrappers

import "github.com/samuelfneumann/robotworld/environment"

// Unwrap returns the environment at the bottom of a stack of wrappers
// from this package
func Unwrap(env environment.Environment) environment.Environment {
	for {
		switch w := env.(type) {
		case *Cutoff:
			env = w.Environment
		case *TileCoding:
			env = w.Environment
		default:
			return env
		}
	}
}
