package reference

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Load reads a FASTA file (optionally gzipped) into a Catalog.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f

	// Handle gzipped files
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	cat, err := Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// Parse reads FASTA content into a Catalog.
// The sequence ID is the first whitespace-delimited word of the header,
// matching the contig names written by samtools and bcftools.
func Parse(reader io.Reader) (*Catalog, error) {
	scanner := bufio.NewScanner(reader)
	// Chromosome-scale lines are common in unwrapped FASTA
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 256*1024*1024)

	var (
		seqs      []*Sequence
		currentID string
		inRecord  bool
		current   strings.Builder
	)

	flush := func() {
		if inRecord {
			seqs = append(seqs, &Sequence{ID: currentID, Bases: current.String()})
		}
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.HasPrefix(line, ">") {
			flush()
			currentID = parseHeader(line)
			inRecord = true
			current.Reset()
			continue
		}
		if !inRecord {
			if strings.TrimSpace(line) == "" {
				continue
			}
			return nil, fmt.Errorf("sequence data before first FASTA header")
		}
		current.WriteString(strings.TrimSpace(line))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan FASTA: %w", err)
	}
	flush()

	return NewCatalog(seqs)
}

// parseHeader extracts the sequence ID from a FASTA header line.
func parseHeader(header string) string {
	header = strings.TrimPrefix(header, ">")
	if fields := strings.Fields(header); len(fields) > 0 {
		return fields[0]
	}
	return ""
}
