package services

// DiagnosticCode classifies how a per-document step finished.
type DiagnosticCode string

const (
	CodeOK                  DiagnosticCode = "ok"
	CodeResourceUnavailable DiagnosticCode = "resource_unavailable"
	CodeParseFailure        DiagnosticCode = "parse_failure"
	CodeComputationFailure  DiagnosticCode = "computation_failure"
)

// Outcome carries either a computed value or the fallback that replaced it.
// Value is always usable; Code and Err explain whether it is a fallback.
type Outcome[T any] struct {
	Value T
	Code  DiagnosticCode
	Err   error
}

func succeeded[T any](value T) Outcome[T] {
	return Outcome[T]{Value: value, Code: CodeOK}
}

func fellBack[T any](value T, code DiagnosticCode, err error) Outcome[T] {
	return Outcome[T]{Value: value, Code: code, Err: err}
}

func (o Outcome[T]) OK() bool {
	return o.Code == CodeOK
}

// Diagnostic renders a fallback for reports, empty when the step succeeded.
func (o Outcome[T]) Diagnostic(step string) string {
	if o.OK() {
		return ""
	}
	if o.Err == nil {
		return step + ": " + string(o.Code)
	}
	return step + ": " + string(o.Code) + ": " + o.Err.Error()
}
