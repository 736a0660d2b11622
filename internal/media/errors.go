package media

import "fmt"

// ExtractionError is a fatal per-job extraction failure: missing input,
// missing decoder executable, a non-zero subprocess exit, or a malformed
// document. Detail carries the subprocess's captured error stream when
// there is one.
type ExtractionError struct {
	Stage  string
	Detail string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s extraction failed: %v: %s", e.Stage, e.Err, e.Detail)
	}
	return fmt.Sprintf("%s extraction failed: %v", e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
