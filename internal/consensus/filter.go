package consensus

import "strings"

// Reasons is a set of filter failures for one record.
type Reasons uint8

// Filter failure reasons.
const (
	BelowMinQual Reasons = 1 << iota
	BelowMinConsensus
	BelowMinDepth
	AboveMaxDepth
	Unidirectional
	NonHomozygous
	Masked
)

var reasonNames = []struct {
	r    Reasons
	name string
}{
	{BelowMinQual, "below_min_qual"},
	{BelowMinConsensus, "below_min_consensus"},
	{BelowMinDepth, "below_min_depth"},
	{AboveMaxDepth, "above_max_depth"},
	{Unidirectional, "unidirectional"},
	{NonHomozygous, "non_homozygous"},
	{Masked, "masked"},
}

// Has reports whether all reasons in o are set.
func (r Reasons) Has(o Reasons) bool {
	return r&o == o
}

// Names returns the reason tags in canonical order.
func (r Reasons) Names() []string {
	var names []string
	for _, rn := range reasonNames {
		if r.Has(rn.r) {
			names = append(names, rn.name)
		}
	}
	return names
}

func (r Reasons) String() string {
	if r == 0 {
		return "PASS"
	}
	return strings.Join(r.Names(), ",")
}

// Masker reports externally masked positions.
type Masker interface {
	Contains(chrom string, pos int64) bool
}

// FilterEngine evaluates the filter chain against variant calls.
type FilterEngine struct {
	cfg  Config
	mask Masker
}

// NewFilterEngine creates a filter engine. mask may be nil.
func NewFilterEngine(cfg Config, mask Masker) *FilterEngine {
	return &FilterEngine{cfg: cfg, mask: mask}
}

// Evaluate returns every filter the record fails. All checks run, so
// several reasons can be reported for one record.
//
// A record with explicit zero depth cannot yield a consensus percentage
// and is rejected with ErrZeroDepth. When DP is absent altogether the
// consensus check fails instead.
func (f *FilterEngine) Evaluate(r *CallRecord) (Reasons, error) {
	var failed Reasons

	if r.Qual < f.cfg.MinQual {
		failed |= BelowMinQual
	}

	if r.Depth == 0 && !r.HasDepth {
		failed |= BelowMinConsensus
	} else {
		pct, err := r.ConsensusPct()
		if err != nil {
			return 0, err
		}
		if pct < f.cfg.MinConsensus {
			failed |= BelowMinConsensus
		}
	}

	if r.Depth < f.cfg.MinDepth {
		failed |= BelowMinDepth
	}

	if r.FwdAlt < f.cfg.MinDirDepth || r.RevAlt < f.cfg.MinDirDepth {
		failed |= Unidirectional
	}

	// A missing GT is reported as a warning by the classifier, not failed here.
	if f.cfg.RequireHomozygous && r.HasGenotype && !r.IsHomozygousAlt() {
		failed |= NonHomozygous
	}

	if f.mask != nil && f.mask.Contains(r.Chrom, r.Pos) {
		failed |= Masked
	}

	return failed, nil
}
