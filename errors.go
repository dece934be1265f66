package go_canto

import (
	"errors"
	"fmt"
)

// ErrNoSession is returned when an operation needs an authenticated session
// and none is currently available.
var ErrNoSession = errors.New("no authenticated session")

// ProtocolError signals a remote response that could not be decoded as the
// expected message shape. The original decode error is available via Unwrap.
type ProtocolError struct {
	Uri string
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("malformed response for %s: %v", e.Uri, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}
