package core

import (
	"errors"
	"fmt"
)

// ErrNoText is returned by run sources that found no text in a document.
var ErrNoText = errors.New("no text content found")

// DocumentError reports a failure that aborted one document's processing.
// Other documents in the same batch are unaffected.
type DocumentError struct {
	Doc string
	Err error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %s: %v", e.Doc, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}
