package release

import "errors"

// ErrUnknownKind indicates a kind other than tv, movie or series.
var ErrUnknownKind = errors.New("unknown release kind")
