package mask

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Format selects the coordinate convention of a mask file.
type Format int

const (
	// Closed1 is "id start end" with 1-based inclusive coordinates.
	Closed1 Format = iota
	// BED is "id start end" with 0-based half-open coordinates.
	BED
)

// ParseFormat converts a format name ("interval" or "bed").
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "interval", "closed1":
		return Closed1, nil
	case "bed":
		return BED, nil
	default:
		return 0, fmt.Errorf("unknown mask format %q", name)
	}
}

// Load reads a whitespace-delimited mask interval file.
func Load(path string, format Format) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mask file: %w", err)
	}
	defer f.Close()

	return Parse(f, format)
}

// Parse reads mask intervals. Blank lines and lines starting with '#',
// "track" or "browser" are skipped; columns past the third are ignored.
func Parse(r io.Reader, format Format) (*Index, error) {
	scanner := bufio.NewScanner(r)
	var entries []Entry
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, &ParseError{
				Line:    lineNumber,
				Message: fmt.Sprintf("expected at least 3 columns, found %d", len(fields)),
			}
		}

		start, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, &ParseError{Line: lineNumber, Message: fmt.Sprintf("invalid start: %s", fields[1])}
		}
		end, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, &ParseError{Line: lineNumber, Message: fmt.Sprintf("invalid end: %s", fields[2])}
		}

		if format == BED {
			start++
			if end < start {
				continue // empty BED interval
			}
		}
		if start < 1 {
			return nil, &ParseError{Line: lineNumber, Message: fmt.Sprintf("start %d is before position 1", start)}
		}

		entries = append(entries, Entry{Chrom: fields[0], Interval: Interval{Start: start, End: end}})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan mask file: %w", err)
	}

	return NewIndex(entries), nil
}

// ParseError represents an error in a mask file with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("mask parse error at line %d: %s", e.Line, e.Message)
}
