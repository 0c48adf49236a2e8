package models

import "errors"

// InvalidFileError reports input the engine cannot work with: an empty
// upload, malformed XML, or XML without the expected Nessus nesting.
// The message is safe to surface to the user.
type InvalidFileError struct {
	Reason string
}

func (e *InvalidFileError) Error() string {
	return e.Reason
}

// ErrNoFindings marks a structurally valid export with zero report items.
// Distinct from InvalidFileError so callers can tell "bad file" apart from
// "clean scan, nothing to report".
var ErrNoFindings = errors.New("the Nessus export does not include any findings")

// IsInvalidFile reports whether err is an InvalidFileError.
func IsInvalidFile(err error) bool {
	var invalid *InvalidFileError
	return errors.As(err, &invalid)
}
