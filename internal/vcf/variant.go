package vcf

import "strings"

// Variant represents a single position line from a VCF file.
type Variant struct {
	Chrom  string                 // Sequence name
	Pos    int64                  // 1-based position
	ID     string                 // Variant identifier
	Ref    string                 // Reference allele
	Alt    string                 // Alternate alleles, "." when none
	Qual   float64                // Quality score
	Filter string                 // Filter status (PASS or filter name)
	Info   map[string]interface{} // INFO field key-value pairs

	SampleColumns string // FORMAT and sample columns, tab-joined
}

// IsSNV returns true if the variant is a single nucleotide variant.
func (v *Variant) IsSNV() bool {
	return len(v.Ref) == 1 && len(v.FirstAlt()) == 1 && v.Alt != "."
}

// IsIndel returns true if the variant is an insertion or deletion.
func (v *Variant) IsIndel() bool {
	if _, ok := v.Info["INDEL"]; ok {
		return true
	}
	return v.Alt != "." && len(v.Ref) != len(v.FirstAlt())
}

// FirstAlt returns the first listed alternate allele.
func (v *Variant) FirstAlt() string {
	if i := strings.IndexByte(v.Alt, ','); i >= 0 {
		return v.Alt[:i]
	}
	return v.Alt
}

// InfoString returns an INFO value as a string. Flags and absent keys
// report ok=false.
func (v *Variant) InfoString(key string) (string, bool) {
	s, ok := v.Info[key].(string)
	return s, ok
}

// Sample returns the FORMAT fields of the sample at index as a map.
// Returns nil if there is no such sample.
func (v *Variant) Sample(index int) map[string]string {
	if v.SampleColumns == "" {
		return nil
	}
	cols := strings.Split(v.SampleColumns, "\t")
	if len(cols) < index+2 {
		return nil
	}

	keys := strings.Split(cols[0], ":")
	values := strings.Split(cols[index+1], ":")
	fields := make(map[string]string, len(keys))
	for i, k := range keys {
		// Trailing fields may be dropped in VCF
		if i < len(values) {
			fields[k] = values[i]
		}
	}
	return fields
}
