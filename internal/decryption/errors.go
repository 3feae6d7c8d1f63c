package decryption

import "errors"

// ErrMarkerNotFound is returned when decrypted output lacks the container marker and lenient mode is off.
var ErrMarkerNotFound = errors.New("container marker not found")
