package events

import "fmt"

// SubjectError ties a handler failure to the subject it was processing.
type SubjectError struct {
	SubjectID string
	Err       error
}

func (e *SubjectError) Error() string {
	return fmt.Sprintf("%s: %v", e.SubjectID, e.Err)
}

func (e *SubjectError) Unwrap() error {
	return e.Err
}

// FailedSubjects walks err, including joined errors, and returns the distinct subject ids
// of every SubjectError in the order they were found.
func FailedSubjects(err error) []string {
	var ids []string
	seen := map[string]struct{}{}
	var walk func(error)
	walk = func(err error) {
		if err == nil {
			return
		}
		if subjectErr, ok := err.(*SubjectError); ok {
			if _, ok := seen[subjectErr.SubjectID]; !ok {
				seen[subjectErr.SubjectID] = struct{}{}
				ids = append(ids, subjectErr.SubjectID)
			}
			return
		}
		switch wrapped := err.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range wrapped.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(wrapped.Unwrap())
		}
	}
	walk(err)
	return ids
}
