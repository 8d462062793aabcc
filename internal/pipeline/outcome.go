// Package pipeline carries the result type threaded through the answer
// capture-and-evaluation flow. Degraded-but-usable states are first class:
// most failures inside the pipeline downgrade the outcome instead of aborting.
package pipeline

// Outcome is either Ok(value), Degraded(value, warnings) or Failed(err).
type Outcome[T any] struct {
	value    T
	warnings []string
	err      error
}

func Ok[T any](value T) Outcome[T] {
	return Outcome[T]{value: value}
}

func Degraded[T any](value T, warnings ...string) Outcome[T] {
	return Outcome[T]{value: value, warnings: warnings}
}

func Fail[T any](err error) Outcome[T] {
	return Outcome[T]{err: err}
}

// WithWarning downgrades an outcome by appending a warning. A failed outcome
// stays failed.
func (o Outcome[T]) WithWarning(warning string) Outcome[T] {
	if o.err != nil {
		return o
	}
	o.warnings = append(o.warnings, warning)
	return o
}

func (o Outcome[T]) Value() T           { return o.value }
func (o Outcome[T]) Warnings() []string { return o.warnings }
func (o Outcome[T]) Err() error         { return o.err }

func (o Outcome[T]) IsOk() bool       { return o.err == nil && len(o.warnings) == 0 }
func (o Outcome[T]) IsDegraded() bool { return o.err == nil && len(o.warnings) > 0 }
func (o Outcome[T]) IsFailed() bool   { return o.err != nil }
