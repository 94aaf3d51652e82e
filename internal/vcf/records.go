package vcf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NU-CPGME/ims-workshop-2025/internal/consensus"
)

// CallRecord converts the variant into a consensus call record, reading
// DP4 from INFO and DP/GT from the first sample. When the sample carries
// no DP, INFO/DP is used.
func (v *Variant) CallRecord() (*consensus.CallRecord, error) {
	rec := &consensus.CallRecord{
		Chrom: v.Chrom,
		Pos:   v.Pos,
		Ref:   v.Ref,
		Alt:   v.Alt,
		Qual:  v.Qual,
	}
	_, rec.Indel = v.Info["INDEL"]

	if s, ok := v.InfoString("DP4"); ok {
		quad, err := parseDP4(s)
		if err != nil {
			return nil, err
		}
		rec.FwdRef, rec.RevRef, rec.FwdAlt, rec.RevAlt = quad[0], quad[1], quad[2], quad[3]
		rec.HasDP4 = true
	}

	sample := v.Sample(0)

	dp, ok := sample["DP"]
	if !ok || dp == "." {
		dp, ok = v.InfoString("DP")
	}
	if ok && dp != "." {
		n, err := strconv.Atoi(dp)
		if err != nil {
			return nil, fmt.Errorf("invalid DP %q", dp)
		}
		rec.Depth = n
		rec.HasDepth = true
	}

	if gt, ok := sample["GT"]; ok {
		rec.Genotype = gt
		rec.HasGenotype = true
	}

	return rec, nil
}

func parseDP4(s string) ([4]int, error) {
	var quad [4]int
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return quad, fmt.Errorf("invalid DP4 %q: expected 4 values", s)
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return quad, fmt.Errorf("invalid DP4 %q", s)
		}
		quad[i] = n
	}
	return quad, nil
}

// CallReader adapts a VariantParser to a stream of consensus call records.
type CallReader struct {
	parser VariantParser
}

// NewCallReader creates a CallReader over p.
func NewCallReader(p VariantParser) *CallReader {
	return &CallReader{parser: p}
}

// Next returns the next call record, or nil, nil at end of input.
func (r *CallReader) Next() (*consensus.CallRecord, error) {
	v, err := r.parser.Next()
	if err != nil || v == nil {
		return nil, err
	}

	rec, err := v.CallRecord()
	if err != nil {
		return nil, &ParseError{Line: r.parser.LineNumber(), Message: err.Error()}
	}
	return rec, nil
}
