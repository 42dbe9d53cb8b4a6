package period

import "errors"

// ErrInvalidPeriod is returned for malformed or inverted periods.
var ErrInvalidPeriod = errors.New("invalid period")
