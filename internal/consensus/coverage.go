package consensus

import "slices"

// CoverageTracker collects non-zero total depths across every processed position.
type CoverageTracker struct {
	depths []int
}

// Observe records a depth. Zero depths are ignored.
func (c *CoverageTracker) Observe(depth int) {
	if depth != 0 {
		c.depths = append(c.depths, depth)
	}
}

// Len returns the number of recorded depths.
func (c *CoverageTracker) Len() int {
	return len(c.depths)
}

// Median returns the median of the recorded depths.
func (c *CoverageTracker) Median() (float64, error) {
	return Median(c.depths)
}

// Median returns the median of depths, averaging the two middle values
// for an even count. depths is not modified.
func Median(depths []int) (float64, error) {
	n := len(depths)
	if n == 0 {
		return 0, ErrNoDepth
	}

	sorted := slices.Clone(depths)
	slices.Sort(sorted)

	if n%2 == 0 {
		return float64(sorted[n/2-1]+sorted[n/2]) / 2, nil
	}
	return float64(sorted[(n-1)/2]), nil
}

// Candidate is a provisionally accepted SNV.
type Candidate struct {
	Chrom string
	Pos   int64
	Ref   string
	Alt   string // full ALT field as called
	Base  byte   // first allele, substituted into the consensus
	Qual  float64
	Depth int
}

// SplitOutliers partitions candidates into those within threshold and those
// whose depth exceeds median x maxFold. Input order is preserved in both.
func SplitOutliers(cands []Candidate, median, maxFold float64) (kept, outliers []Candidate) {
	threshold := median * maxFold
	for _, c := range cands {
		if float64(c.Depth) > threshold {
			outliers = append(outliers, c)
			continue
		}
		kept = append(kept, c)
	}
	return kept, outliers
}
