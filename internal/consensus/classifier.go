package consensus

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/NU-CPGME/ims-workshop-2025/internal/reference"
)

// ErrOutOfRange is returned for a call positioned outside its sequence.
var ErrOutOfRange = errors.New("call position outside reference sequence")

// Status is the final classification of a reference position.
type Status uint8

const (
	StatusUnset Status = iota
	StatusReference
	StatusAccepted
	StatusMissing // uncovered, low depth or filtered; emitted as gap
)

// Sequence holds the per-position classification of one reference sequence.
type Sequence struct {
	Ref *reference.Sequence

	status  []Status
	alt     []byte // substituted base where status is StatusAccepted
	missing int    // missing or uncovered positions
	opened  bool
}

func newSequence(ref *reference.Sequence) *Sequence {
	return &Sequence{
		Ref:    ref,
		status: make([]Status, ref.Len()),
		alt:    make([]byte, ref.Len()),
	}
}

// Status returns the classification of a 1-based position.
func (s *Sequence) Status(pos int64) Status {
	return s.status[pos-1]
}

// Base returns the consensus base at a 1-based position, or gap when missing.
func (s *Sequence) Base(pos int64, gap byte) byte {
	switch s.status[pos-1] {
	case StatusAccepted:
		return s.alt[pos-1]
	case StatusMissing:
		return gap
	default:
		return s.Ref.BaseAt(pos)
	}
}

// Rejection is a variant call removed by the filter chain.
type Rejection struct {
	Chrom   string
	Pos     int64
	Ref     string
	Alt     string
	Qual    float64
	Depth   int
	Reasons Reasons
}

// Result is the outcome of a completed classification.
type Result struct {
	Sequences []*Sequence
	Accepted  []Candidate
	Rejected  []Rejection
	Warnings  []Warning
	Stats     Stats
}

// Classifier consumes call records in (sequence, position) order and assigns
// every reference position a Status. SNV acceptance stays provisional until
// Finish applies the depth-outlier pass.
type Classifier struct {
	cfg     Config
	engine  *FilterEngine
	catalog *reference.Catalog
	seqs    []*Sequence
	logger  *zap.Logger

	current *Sequence
	lastPos int64

	coverage   CoverageTracker
	candidates []Candidate
	rejected   []Rejection
	warnings   []Warning
	stats      Stats
	finished   bool
}

// NewClassifier creates a classifier over a catalog. mask may be nil.
func NewClassifier(cat *reference.Catalog, cfg Config, mask Masker) (*Classifier, error) {
	if cat == nil || cat.Len() == 0 {
		return nil, reference.ErrEmptyCatalog
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &Classifier{
		cfg:     cfg,
		engine:  NewFilterEngine(cfg, mask),
		catalog: cat,
		logger:  zap.NewNop(),
	}
	for _, ref := range cat.Sequences() {
		c.seqs = append(c.seqs, newSequence(ref))
	}
	return c, nil
}

// SetLogger sets the logger for data-quality warnings and debug messages.
func (c *Classifier) SetLogger(l *zap.Logger) {
	c.logger = l
}

// Add classifies one call record.
func (c *Classifier) Add(r *CallRecord) error {
	if c.finished {
		return ErrFinished
	}
	c.stats.Records++

	// Indel lines share a position with the SNV line in caller output; the
	// position is resolved by the SNV line or by gap filling.
	if r.IsIndel() {
		c.stats.SkippedIndels++
		c.logger.Debug("skipping indel record",
			zap.String("chrom", r.Chrom),
			zap.Int64("pos", r.Pos),
			zap.String("alt", r.Alt))
		return nil
	}

	seq, err := c.advance(r)
	if err != nil {
		return err
	}

	if !r.HasDepth {
		c.warn(WarnMissingDepth, r, "no DP field; depth taken as 0")
	}
	if r.HasDP4 {
		if sum := r.DP4Sum(); sum != 0 && sum != r.Depth {
			c.warn(WarnDP4Mismatch, r, fmt.Sprintf("DP4 sum %d does not match DP %d", sum, r.Depth))
		}
	}
	c.coverage.Observe(r.Depth)

	if !r.IsVariant() {
		if r.Depth == 0 || r.Depth < c.cfg.MinDepth {
			c.markMissing(seq, r.Pos)
		} else {
			seq.status[r.Pos-1] = StatusReference
		}
		return nil
	}

	if !r.HasGenotype {
		c.warn(WarnMissingGenotype, r, "no GT field on variant call")
	}

	reasons, err := c.engine.Evaluate(r)
	if err != nil {
		return err
	}

	if reasons == 0 {
		allele := r.FirstAllele()
		seq.status[r.Pos-1] = StatusAccepted
		seq.alt[r.Pos-1] = allele[0]
		c.candidates = append(c.candidates, Candidate{
			Chrom: r.Chrom,
			Pos:   r.Pos,
			Ref:   r.Ref,
			Alt:   r.Alt,
			Base:  allele[0],
			Qual:  r.Qual,
			Depth: r.Depth,
		})
		return nil
	}

	c.stats.addReasons(reasons)
	c.rejected = append(c.rejected, Rejection{
		Chrom:   r.Chrom,
		Pos:     r.Pos,
		Ref:     r.Ref,
		Alt:     r.Alt,
		Qual:    r.Qual,
		Depth:   r.Depth,
		Reasons: reasons,
	})
	if reasons.Has(BelowMinDepth) {
		c.markMissing(seq, r.Pos)
	} else {
		seq.status[r.Pos-1] = StatusMissing
	}
	return nil
}

// advance moves the stream cursor to r, closing the previous sequence and
// filling skipped positions as missing.
func (c *Classifier) advance(r *CallRecord) (*Sequence, error) {
	idx := c.catalog.Index(r.Chrom)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q at position %d", ErrUnknownSequence, r.Chrom, r.Pos)
	}
	seq := c.seqs[idx]

	if seq != c.current {
		if seq.opened {
			return nil, fmt.Errorf("%w: sequence %q resumes at position %d after another sequence",
				ErrOutOfOrder, r.Chrom, r.Pos)
		}
		if c.current != nil {
			c.closeCurrent()
		}
		seq.opened = true
		c.current = seq
		c.lastPos = 0
	}

	if r.Pos <= c.lastPos {
		return nil, fmt.Errorf("%w: %s:%d follows position %d", ErrOutOfOrder, r.Chrom, r.Pos, c.lastPos)
	}
	if r.Pos < 1 || r.Pos > int64(seq.Ref.Len()) {
		return nil, fmt.Errorf("%w: %s:%d (length %d)", ErrOutOfRange, r.Chrom, r.Pos, seq.Ref.Len())
	}

	c.fillMissing(seq, c.lastPos+1, r.Pos-1)
	c.lastPos = r.Pos
	return seq, nil
}

func (c *Classifier) closeCurrent() {
	c.fillMissing(c.current, c.lastPos+1, int64(c.current.Ref.Len()))
	c.current = nil
	c.lastPos = 0
}

// fillMissing marks the closed range [from, to] as missing.
func (c *Classifier) fillMissing(seq *Sequence, from, to int64) {
	for pos := from; pos <= to; pos++ {
		c.markMissing(seq, pos)
	}
}

func (c *Classifier) markMissing(seq *Sequence, pos int64) {
	seq.status[pos-1] = StatusMissing
	seq.missing++
	c.stats.Missing++
}

func (c *Classifier) warn(kind WarningKind, r *CallRecord, msg string) {
	c.warnings = append(c.warnings, Warning{Kind: kind, Chrom: r.Chrom, Pos: r.Pos, Message: msg})
	c.stats.Warnings++
	c.logger.Warn(msg,
		zap.String("kind", string(kind)),
		zap.String("chrom", r.Chrom),
		zap.Int64("pos", r.Pos))
}

// Finish closes the stream, fills sequences that never appeared, and removes
// candidate SNVs deeper than median x MaxFold.
func (c *Classifier) Finish() (*Result, error) {
	if c.finished {
		return nil, ErrFinished
	}
	c.finished = true

	if c.current != nil {
		c.closeCurrent()
	}
	for _, seq := range c.seqs {
		if !seq.opened {
			seq.opened = true
			c.fillMissing(seq, 1, int64(seq.Ref.Len()))
		}
	}

	median, err := c.coverage.Median()
	if err != nil {
		return nil, err
	}
	c.stats.MedianDepth = median
	c.stats.MaxDepthThreshold = median * c.cfg.MaxFold

	kept, outliers := SplitOutliers(c.candidates, median, c.cfg.MaxFold)
	for _, o := range outliers {
		seq := c.seqs[c.catalog.Index(o.Chrom)]
		seq.status[o.Pos-1] = StatusMissing
		seq.alt[o.Pos-1] = 0
		c.stats.addReasons(AboveMaxDepth)
		c.rejected = append(c.rejected, Rejection{
			Chrom:   o.Chrom,
			Pos:     o.Pos,
			Ref:     o.Ref,
			Alt:     o.Alt,
			Qual:    o.Qual,
			Depth:   o.Depth,
			Reasons: AboveMaxDepth,
		})
	}
	if len(outliers) > 0 {
		c.logger.Info("removed depth outliers",
			zap.Int("count", len(outliers)),
			zap.Float64("median_depth", median),
			zap.Float64("threshold", c.stats.MaxDepthThreshold))
	}

	c.stats.TotalSNVs = len(kept)
	c.stats.TotalLength = c.catalog.TotalLength()
	for _, seq := range c.seqs {
		ss := SequenceStats{ID: seq.Ref.ID, Length: seq.Ref.Len(), Missing: seq.missing}
		for _, st := range seq.status {
			switch st {
			case StatusAccepted:
				ss.SNVs++
			case StatusMissing:
				ss.Gaps++
			}
		}
		c.stats.Sequences = append(c.stats.Sequences, ss)
	}

	return &Result{
		Sequences: c.seqs,
		Accepted:  kept,
		Rejected:  c.rejected,
		Warnings:  c.warnings,
		Stats:     c.stats,
	}, nil
}

// RecordReader yields call records in stream order.
// Next returns nil, nil when the stream is exhausted.
type RecordReader interface {
	Next() (*CallRecord, error)
}

// Run drains r through c and finishes the classification.
func Run(r RecordReader, c *Classifier) (*Result, error) {
	for {
		rec, err := r.Next()
		if err != nil {
			return nil, fmt.Errorf("read call record: %w", err)
		}
		if rec == nil {
			break
		}
		if err := c.Add(rec); err != nil {
			return nil, err
		}
	}

	if c.stats.Records == 0 {
		c.logger.Info("0 call records processed")
	}
	return c.Finish()
}
