package jersey

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrExtraction matches every *ExtractionError via errors.Is.
	ErrExtraction = errors.New("jersey: extraction failed")

	// ErrNoObject indicates the backend text contains no opening brace.
	ErrNoObject = errors.New("jersey: no object found")

	// ErrUnbalancedBraces indicates the text ended before the first object closed.
	ErrUnbalancedBraces = errors.New("jersey: unbalanced braces")

	// ErrMalformedPrediction indicates an isolated object is not a usable prediction record.
	ErrMalformedPrediction = errors.New("jersey: malformed prediction")

	// ErrZeroWeight indicates aggregation over a table whose player counts sum to zero.
	ErrZeroWeight = errors.New("jersey: total player weight is zero")
)

// ExtractionError reports that no JSON object could be isolated from backend text.
type ExtractionError struct {
	Reason error  // ErrNoObject or ErrUnbalancedBraces
	Text   string // the text that was scanned
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%v in output: %q", e.Reason, e.Text)
}

func (e *ExtractionError) Unwrap() error { return e.Reason }

// Is reports whether target is ErrExtraction, so callers can match the
// whole family without listing each reason.
func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtraction
}

// BackendError reports a failed inference call. Status and Body hold the
// backend's raw response for diagnosis when one was received.
type BackendError struct {
	Backend    string
	StatusCode int
	Status     string
	Body       string
	Err        error
}

func (e *BackendError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("%s error %d: %s", e.Backend, e.StatusCode, e.Body)
	case e.StatusCode != 0 && e.Status != "":
		return fmt.Sprintf("%s error: %s", e.Backend, e.Status)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s error %d", e.Backend, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s error: %v", e.Backend, e.Err)
	default:
		return fmt.Sprintf("%s error: %s", e.Backend, e.Status)
	}
}

func (e *BackendError) Unwrap() error { return e.Err }
