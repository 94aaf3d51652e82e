// Package mask provides lookup of externally masked reference positions.
package mask

import "sort"

// Interval is a 1-based closed range [Start, End].
type Interval struct {
	Start int64
	End   int64
}

// Entry is a masked interval on a named sequence.
type Entry struct {
	Chrom string
	Interval
}

// Index answers whether a position falls inside a masked interval.
// Intervals are merged per sequence and never modified after build.
type Index struct {
	intervals map[string][]Interval
}

// NewIndex builds an index from entries. Overlapping and adjacent intervals
// are merged, so inserting a position twice has no effect.
func NewIndex(entries []Entry) *Index {
	byChrom := make(map[string][]Interval)
	for _, e := range entries {
		iv := e.Interval
		if iv.End < iv.Start {
			iv.Start, iv.End = iv.End, iv.Start
		}
		byChrom[e.Chrom] = append(byChrom[e.Chrom], iv)
	}

	for chrom, ivs := range byChrom {
		byChrom[chrom] = merge(ivs)
	}
	return &Index{intervals: byChrom}
}

func merge(ivs []Interval) []Interval {
	sort.Slice(ivs, func(i, j int) bool {
		return ivs[i].Start < ivs[j].Start
	})

	merged := ivs[:1]
	for _, iv := range ivs[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.End+1 {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// Contains reports whether the 1-based position on chrom is masked.
// A nil Index masks nothing.
func (ix *Index) Contains(chrom string, pos int64) bool {
	if ix == nil {
		return false
	}
	ivs := ix.intervals[chrom]
	if len(ivs) == 0 {
		return false
	}

	// First interval ending at or after pos; it contains pos iff it starts at or before it.
	i := sort.Search(len(ivs), func(i int) bool {
		return ivs[i].End >= pos
	})
	return i < len(ivs) && ivs[i].Start <= pos
}

// Intervals returns the merged intervals for chrom.
func (ix *Index) Intervals(chrom string) []Interval {
	if ix == nil {
		return nil
	}
	return ix.intervals[chrom]
}

// MaskedCount returns the number of masked positions on chrom.
func (ix *Index) MaskedCount(chrom string) int64 {
	var n int64
	for _, iv := range ix.Intervals(chrom) {
		n += iv.End - iv.Start + 1
	}
	return n
}
