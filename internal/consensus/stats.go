package consensus

// Stats holds the filter tallies and coverage summary of a run.
type Stats struct {
	BelowMinQual      int
	BelowMinConsensus int
	BelowMinDepth     int
	AboveMaxDepth     int
	Unidirectional    int
	NonHomozygous     int
	Masked            int
	Missing           int // missing or uncovered positions
	TotalFiltered     int // filtered SNV records, counted once each

	Records       int // call records read
	SkippedIndels int
	TotalSNVs     int // SNVs in the final consensus
	TotalLength   int64
	Warnings      int

	MedianDepth       float64
	MaxDepthThreshold float64

	Sequences []SequenceStats
}

// SequenceStats summarises a single reference sequence.
type SequenceStats struct {
	ID      string
	Length  int
	SNVs    int
	Missing int // missing or uncovered
	Gaps    int // positions emitted as gap (missing plus filtered)
}

// Count is a named statistic.
type Count struct {
	Name  string
	Value int
}

// FilterCounts returns the per-reason tallies in reporting order.
func (s *Stats) FilterCounts() []Count {
	return []Count{
		{"below_min_qual", s.BelowMinQual},
		{"below_min_consensus", s.BelowMinConsensus},
		{"below_min_depth", s.BelowMinDepth},
		{"above_max_depth", s.AboveMaxDepth},
		{"unidirectional", s.Unidirectional},
		{"non_homozygous", s.NonHomozygous},
		{"masked", s.Masked},
		{"missing_or_uncovered", s.Missing},
		{"total_filtered", s.TotalFiltered},
	}
}

// PercentCovered returns 100 x (length - missing) / length.
func (s *Stats) PercentCovered() float64 {
	if s.TotalLength == 0 {
		return 0
	}
	return 100 * float64(s.TotalLength-int64(s.Missing)) / float64(s.TotalLength)
}

// addReasons tallies one filtered record.
func (s *Stats) addReasons(r Reasons) {
	if r == 0 {
		return
	}
	if r.Has(BelowMinQual) {
		s.BelowMinQual++
	}
	if r.Has(BelowMinConsensus) {
		s.BelowMinConsensus++
	}
	if r.Has(BelowMinDepth) {
		s.BelowMinDepth++
	}
	if r.Has(AboveMaxDepth) {
		s.AboveMaxDepth++
	}
	if r.Has(Unidirectional) {
		s.Unidirectional++
	}
	if r.Has(NonHomozygous) {
		s.NonHomozygous++
	}
	if r.Has(Masked) {
		s.Masked++
	}
	s.TotalFiltered++
}
