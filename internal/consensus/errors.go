package consensus

import "errors"

// Fatal conditions. Wrapped errors carry the offending position.
var (
	ErrUnknownSequence = errors.New("call references unknown sequence")
	ErrNoDepth         = errors.New("no non-zero depth observations")
	ErrZeroDepth       = errors.New("zero total depth on variant call")
	ErrOutOfOrder      = errors.New("call stream is not sorted")
	ErrFinished        = errors.New("classifier already finished")
)

// WarningKind classifies a non-fatal data-quality issue.
type WarningKind string

const (
	WarnDP4Mismatch     WarningKind = "dp4_mismatch"
	WarnMissingGenotype WarningKind = "missing_genotype"
	WarnMissingDepth    WarningKind = "missing_depth"
)

// Warning is a non-fatal data-quality diagnostic tied to a position.
type Warning struct {
	Kind    WarningKind
	Chrom   string
	Pos     int64
	Message string
}
