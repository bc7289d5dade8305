package placer

import "fmt"

// Kind classifies what happened to one source file.
type Kind int

const (
	Copied           Kind = iota // stored under its original name
	SkippedIdentical             // identical bytes already stored
	CopiedRenamed                // stored under a "(n)" name
	Failed                       // processing error, see Outcome.Reason
)

func (k Kind) String() string {
	switch k {
	case Copied:
		return "copied"
	case SkippedIdentical:
		return "skipped-identical"
	case CopiedRenamed:
		return "copied-renamed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is the result of placing one file. Path is the destination that
// was written (or that already held identical content); Reason is set only
// for Failed.
type Outcome struct {
	Kind   Kind
	Path   string
	Reason string
}

// FailedOutcome wraps err as a Failed outcome.
func FailedOutcome(err error) Outcome {
	reason := "unknown error"
	if err != nil {
		reason = err.Error()
	}
	return Outcome{Kind: Failed, Reason: reason}
}
