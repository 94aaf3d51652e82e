// Package reference provides the reference sequence catalog used for consensus building.
package reference

import (
	"errors"
	"fmt"
)

// ErrEmptyCatalog is returned when a catalog would hold no sequences.
var ErrEmptyCatalog = errors.New("reference catalog is empty")

// Sequence is a single named reference sequence.
type Sequence struct {
	ID    string // Sequence identifier (first word of the FASTA header)
	Bases string // Bases as read, case preserved
}

// Len returns the sequence length.
func (s *Sequence) Len() int {
	return len(s.Bases)
}

// BaseAt returns the base at a 1-based position.
func (s *Sequence) BaseAt(pos int64) byte {
	return s.Bases[pos-1]
}

// Catalog is an ordered, read-only set of reference sequences.
type Catalog struct {
	seqs []*Sequence
	byID map[string]int
}

// NewCatalog builds a catalog from sequences in the given order.
// Sequence IDs must be unique.
func NewCatalog(seqs []*Sequence) (*Catalog, error) {
	if len(seqs) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		seqs: make([]*Sequence, len(seqs)),
		byID: make(map[string]int, len(seqs)),
	}
	for i, s := range seqs {
		if s.ID == "" {
			return nil, fmt.Errorf("sequence %d has an empty id", i+1)
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate sequence id %q", s.ID)
		}
		c.byID[s.ID] = i
		c.seqs[i] = s
	}
	return c, nil
}

// Get returns the sequence with the given ID.
func (c *Catalog) Get(id string) (*Sequence, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	return c.seqs[i], true
}

// Index returns the catalog position of id, or -1 if it is unknown.
func (c *Catalog) Index(id string) int {
	i, ok := c.byID[id]
	if !ok {
		return -1
	}
	return i
}

// Sequences returns the sequences in catalog order.
func (c *Catalog) Sequences() []*Sequence {
	return c.seqs
}

// Len returns the number of sequences.
func (c *Catalog) Len() int {
	return len(c.seqs)
}

// TotalLength returns the summed length of all sequences.
func (c *Catalog) TotalLength() int64 {
	var n int64
	for _, s := range c.seqs {
		n += int64(s.Len())
	}
	return n
}
