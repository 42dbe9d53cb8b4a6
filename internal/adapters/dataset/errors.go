package dataset

import "errors"

// ErrMalformed marks a dataset that cannot be decoded or converted.
var ErrMalformed = errors.New("malformed dataset")
