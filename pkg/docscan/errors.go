package docscan

import "errors"

// ErrNoDate is returned when no plausible expiration date can be extracted.
var ErrNoDate = errors.New("no expiration date detected")
