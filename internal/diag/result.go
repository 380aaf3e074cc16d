package diag

// Result bundles a computed value with the diagnostics produced while
// computing it. A failed result carries the zero value and either at least
// one diagnostic or Valid == false.
type Result[T any] struct {
	Value T
	Valid bool
	Diags []Diagnostic
}

// Ok wraps a successfully computed value.
func Ok[T any](v T, diags []Diagnostic) Result[T] {
	return Result[T]{Value: v, Valid: true, Diags: diags}
}

// Invalid reports a failed computation. Value is left at its zero value.
func Invalid[T any](diags []Diagnostic) Result[T] {
	return Result[T]{Diags: diags}
}

// HasErrors reports whether any carried diagnostic is an error.
func (r Result[T]) HasErrors() bool {
	for i := range r.Diags {
		if r.Diags[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// EqualResults compares two results using eq for the carried values.
func EqualResults[T any](a, b Result[T], eq func(T, T) bool) bool {
	if a.Valid != b.Valid || !EqualAll(a.Diags, b.Diags) {
		return false
	}
	return eq(a.Value, b.Value)
}
