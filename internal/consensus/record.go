package consensus

import (
	"fmt"
	"strings"
)

// CallRecord is a single position from the variant caller output.
type CallRecord struct {
	Chrom string
	Pos   int64 // 1-based
	Ref   string
	Alt   string // "." for a non-variant position; may be comma-separated
	Qual  float64

	// DP4 quad from INFO
	FwdRef int
	RevRef int
	FwdAlt int
	RevAlt int
	HasDP4 bool

	Depth    int // FORMAT/DP; zero when absent
	HasDepth bool

	Genotype    string // FORMAT/GT
	HasGenotype bool

	Indel bool // INFO/INDEL flag
}

// IsVariant reports whether the record proposes an alternate allele.
func (r *CallRecord) IsVariant() bool {
	return r.Alt != "." && r.Alt != ""
}

// FirstAllele returns the first listed alternate allele.
func (r *CallRecord) FirstAllele() string {
	if i := strings.IndexByte(r.Alt, ','); i >= 0 {
		return r.Alt[:i]
	}
	return r.Alt
}

// IsIndel reports whether the record describes an insertion or deletion
// rather than a single-base substitution.
func (r *CallRecord) IsIndel() bool {
	if r.Indel {
		return true
	}
	if !r.IsVariant() {
		return false
	}
	return len(r.Ref) != 1 || len(r.FirstAllele()) != 1
}

// DP4Sum returns the total of the DP4 quad.
func (r *CallRecord) DP4Sum() int {
	return r.FwdRef + r.RevRef + r.FwdAlt + r.RevAlt
}

// ConsensusPct returns the percent of total depth supporting the alternate allele.
func (r *CallRecord) ConsensusPct() (float64, error) {
	if r.Depth == 0 {
		return 0, fmt.Errorf("%w at %s:%d", ErrZeroDepth, r.Chrom, r.Pos)
	}
	return 100 * float64(r.FwdAlt+r.RevAlt) / float64(r.Depth), nil
}

// IsHomozygousAlt reports whether the genotype is 1/1 or haploid 1.
func (r *CallRecord) IsHomozygousAlt() bool {
	return r.Genotype == "1/1" || r.Genotype == "1"
}
