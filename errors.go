package qunit

import "errors"

var (
	ErrInvalidQubit     = errors.New("qunit: qubit index out of range")
	ErrInvalidRange     = errors.New("qunit: qubit range out of bounds")
	ErrDuplicateQubit   = errors.New("qunit: qubit used twice in one gate")
	ErrAliasedOutput    = errors.New("qunit: output qubit aliases an input")
	ErrCapacityExceeded = errors.New("qunit: subsystem would exceed capacity")
	ErrStaleHandle      = errors.New("qunit: subsystem handle no longer live")
	ErrZeroDenominator  = errors.New("qunit: dyadic angle with zero denominator")
	ErrTableSize        = errors.New("qunit: superposition table must have 256 entries")
	ErrStateSize        = errors.New("qunit: state vector length does not match register")
	ErrPartitionBroken  = errors.New("qunit: index table does not partition the register")
)
