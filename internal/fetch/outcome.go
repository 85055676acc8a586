// Package fetch drives one page fetch through the managed browser and
// classifies the result. Every fetch produces a definite Outcome; errors
// are data here, not control flow.
package fetch

// Class partitions fetch results by what a caller should do next.
type Class int

const (
	// ClassSuccess carries rendered content ready for extraction.
	ClassSuccess Class = iota
	// ClassRetryable failures (timeouts, transient network errors, block
	// pages) may succeed on a later attempt after backoff.
	ClassRetryable
	// ClassFatal failures (malformed URL, permanent 404) never will;
	// retrying them wastes the concurrency budget.
	ClassFatal
)

func (c Class) String() string {
	switch c {
	case ClassSuccess:
		return "success"
	case ClassRetryable:
		return "retryable"
	case ClassFatal:
		return "fatal"
	}
	return "unknown"
}

// Outcome is the tagged result of one fetch attempt. It is consumed
// immediately by the retrying scraper and never persisted.
type Outcome struct {
	Class  Class
	HTML   string // rendered content, set on success only
	Reason string // failure reason, empty on success
	Status int    // HTTP status of the document response, 0 if unknown
}

// Success wraps rendered content.
func Success(html string, status int) Outcome {
	return Outcome{Class: ClassSuccess, HTML: html, Status: status}
}

// Retryable wraps a failure worth re-attempting.
func Retryable(reason string, status int) Outcome {
	return Outcome{Class: ClassRetryable, Reason: reason, Status: status}
}

// Fatal wraps a failure no retry can fix.
func Fatal(reason string) Outcome {
	return Outcome{Class: ClassFatal, Reason: reason}
}
