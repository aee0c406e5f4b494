package generator

import "fmt"

// FailureKind classifies a generation call failure. The batch scheduler
// maps each kind to a retry-or-fail decision.
type FailureKind string

const (
	FailureRateLimited  FailureKind = "rate_limited"
	FailureTimeout      FailureKind = "timeout"
	FailureMalformed    FailureKind = "malformed"
	FailureUnauthorized FailureKind = "unauthorized"
)

// Failure is the typed error returned by the generation adapter. It always
// covers the whole batch: per-item problems surface later, in validation.
type Failure struct {
	Kind    FailureKind
	Message string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("generation failed (%s): %s", f.Kind, f.Message)
}

// Retryable reports whether re-attempting the same batch can help.
func (f *Failure) Retryable() bool {
	return f.Kind == FailureRateLimited || f.Kind == FailureTimeout
}

func newFailure(kind FailureKind, format string, args ...interface{}) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// classifyStatus maps an HTTP status code to a failure kind.
func classifyStatus(code int) FailureKind {
	switch {
	case code == 429:
		return FailureRateLimited
	case code == 401 || code == 403:
		return FailureUnauthorized
	case code == 408 || code == 504:
		return FailureTimeout
	default:
		return FailureMalformed
	}
}
