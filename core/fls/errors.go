package fls

import (
	"errors"
)

var (
	ErrUnknownSet    = errors.New("unknown fuzzy set")
	ErrUnknownFOU    = errors.New("no footprint of uncertainty for fuzzy set")
	ErrDegenerateSet = errors.New("degenerate fuzzy set: breakpoints must satisfy a < b < c")

	ErrUnorderedBreakpoints = errors.New("unordered breakpoints: must satisfy a <= b <= c")
	ErrInvalidFOU           = errors.New("invalid footprint of uncertainty: deltas must be in [0, 1]")
	ErrDuplicateSet         = errors.New("duplicate fuzzy set")
	ErrEmptyDomain          = errors.New("empty fuzzy domain")
	ErrMissingRule          = errors.New("no rule for input fuzzy set")
	ErrInvalidValue         = errors.New("invalid value")
)
