// Package consensus filters variant calls against a reference and builds
// per-sequence consensus strings.
package consensus

import "fmt"

// Filter defaults.
const (
	// DefaultMinQual is the QUAL threshold used when none is configured.
	// Older usage text documented 1; the effective fallback has always been 200.
	DefaultMinQual      = 200
	DefaultMinConsensus = 75
	DefaultMinDepth     = 5
	DefaultMaxFold      = 3
	DefaultMinDirDepth  = 1
	DefaultGap          = '-'
)

// Config holds the filter thresholds and output options.
type Config struct {
	MinQual           float64 // Minimum QUAL for a variant call
	MinConsensus      float64 // Minimum percent of reads supporting the alternate allele
	MinDepth          int     // Minimum total depth (DP)
	MaxFold           float64 // Reject SNVs deeper than MaxFold x median depth
	MinDirDepth       int     // Minimum alternate reads on each strand
	RequireHomozygous bool    // Require a 1/1 (or haploid 1) genotype
	OutputID          string  // Output id override or prefix (empty keeps reference ids)
	Gap               byte    // Character emitted for missing or filtered positions
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MinQual:           DefaultMinQual,
		MinConsensus:      DefaultMinConsensus,
		MinDepth:          DefaultMinDepth,
		MaxFold:           DefaultMaxFold,
		MinDirDepth:       DefaultMinDirDepth,
		RequireHomozygous: true,
		Gap:               DefaultGap,
	}
}

// Validate checks that thresholds are in range.
func (c Config) Validate() error {
	if c.MinQual < 0 {
		return fmt.Errorf("min qual must be >= 0, got %g", c.MinQual)
	}
	if c.MinConsensus < 0 || c.MinConsensus > 100 {
		return fmt.Errorf("min consensus must be within 0-100, got %g", c.MinConsensus)
	}
	if c.MinDepth < 0 {
		return fmt.Errorf("min depth must be >= 0, got %d", c.MinDepth)
	}
	if c.MaxFold <= 0 {
		return fmt.Errorf("max fold must be > 0, got %g", c.MaxFold)
	}
	if c.MinDirDepth < 0 {
		return fmt.Errorf("min directional depth must be >= 0, got %d", c.MinDirDepth)
	}
	if c.Gap == 0 {
		return fmt.Errorf("gap character must be set")
	}
	return nil
}
