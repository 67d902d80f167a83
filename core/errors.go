package core

import (
	"errors"
	"fmt"
)

// DetectionUnavailableError indicates that an external capability (language
// classifier or named-entity recognizer) could not be reached or errored.
// It is never downgraded to an empty result: returning "no PII found" when
// detection did not run would mask sensitive content.
type DetectionUnavailableError struct {
	// Stage names the capability that failed, e.g. "language classification"
	Stage string

	// Err is the underlying adapter error
	Err error
}

func (e *DetectionUnavailableError) Error() string {
	return fmt.Sprintf("detection unavailable at %s: %v", e.Stage, e.Err)
}

func (e *DetectionUnavailableError) Unwrap() error {
	return e.Err
}

// BlockedContentError is returned by the "block" redaction strategy when the
// text contains any detected entity. It carries only the offending category
// and matched text so callers can log or alert without leaking the rest of
// the document.
type BlockedContentError struct {
	Category string
	Text     string
}

func (e *BlockedContentError) Error() string {
	return fmt.Sprintf("confidential information detected and blocked: %s - %s", e.Category, e.Text)
}

// IsDetectionUnavailable reports whether err is a DetectionUnavailableError.
func IsDetectionUnavailable(err error) bool {
	var target *DetectionUnavailableError
	return errors.As(err, &target)
}

// IsBlockedContent reports whether err is a BlockedContentError.
func IsBlockedContent(err error) bool {
	var target *BlockedContentError
	return errors.As(err, &target)
}
