package consensus

// Consensus is one output record.
type Consensus struct {
	ID       string // output id, possibly overridden
	SourceID string // reference sequence id
	Seq      string
}

// OutputID returns the id to emit for a reference sequence. With an override,
// a single-sequence catalog uses the override alone and a multi-sequence
// catalog prefixes it to each id.
func OutputID(override, id string, nseqs int) string {
	switch {
	case override == "":
		return id
	case nseqs == 1:
		return override
	default:
		return override + "_" + id
	}
}

// Emit builds the consensus for every sequence in catalog order.
func Emit(res *Result, cfg Config) []Consensus {
	gap := cfg.Gap
	if gap == 0 {
		gap = DefaultGap
	}

	out := make([]Consensus, 0, len(res.Sequences))
	for _, seq := range res.Sequences {
		n := seq.Ref.Len()
		buf := make([]byte, n)
		for i := 0; i < n; i++ {
			buf[i] = seq.Base(int64(i+1), gap)
		}
		out = append(out, Consensus{
			ID:       OutputID(cfg.OutputID, seq.Ref.ID, len(res.Sequences)),
			SourceID: seq.Ref.ID,
			Seq:      string(buf),
		})
	}
	return out
}
