// Package output provides consensus and statistics writers.
package output

import (
	"bufio"
	"io"

	"github.com/NU-CPGME/ims-workshop-2025/internal/consensus"
)

// FASTAWriter writes consensus records in FASTA format.
type FASTAWriter struct {
	w     *bufio.Writer
	width int // line width; 0 writes each sequence on one line
}

// NewFASTAWriter creates a FASTA writer wrapping sequence lines at width.
func NewFASTAWriter(w io.Writer, width int) *FASTAWriter {
	if width < 0 {
		width = 0
	}
	return &FASTAWriter{w: bufio.NewWriter(w), width: width}
}

// Write writes a single consensus record.
func (fw *FASTAWriter) Write(c consensus.Consensus) error {
	if _, err := fw.w.WriteString(">" + c.ID + "\n"); err != nil {
		return err
	}

	seq := c.Seq
	if fw.width == 0 {
		_, err := fw.w.WriteString(seq + "\n")
		return err
	}
	for len(seq) > 0 {
		n := min(fw.width, len(seq))
		if _, err := fw.w.WriteString(seq[:n] + "\n"); err != nil {
			return err
		}
		seq = seq[n:]
	}
	return nil
}

// WriteAll writes every record and flushes.
func (fw *FASTAWriter) WriteAll(records []consensus.Consensus) error {
	for _, c := range records {
		if err := fw.Write(c); err != nil {
			return err
		}
	}
	return fw.Flush()
}

// Flush flushes any buffered data to the underlying writer.
func (fw *FASTAWriter) Flush() error {
	return fw.w.Flush()
}
