package domain

// FailureKind categorizes why an outcome was classified as a failure.
type FailureKind string

const (
	FailureExplicit FailureKind = "explicit_error"
	FailureEmpty    FailureKind = "empty_content"
	FailureEmbedded FailureKind = "embedded_error"
	FailureTimeout  FailureKind = "timeout"
)

// Verdict is the classifier's decision on an outcome. It is produced once
// and consumed as-is by every downstream component.
type Verdict struct {
	Failure bool
	Kind    FailureKind
	Reason  string
}

// Success reports whether the outcome was classified as a success.
func (v Verdict) Success() bool {
	return !v.Failure
}
