package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/NU-CPGME/ims-workshop-2025/internal/consensus"
)

// StatsWriter writes run statistics as tab-delimited name/value rows.
type StatsWriter struct {
	w *bufio.Writer
}

// NewStatsWriter creates a new statistics writer.
func NewStatsWriter(w io.Writer) *StatsWriter {
	return &StatsWriter{w: bufio.NewWriter(w)}
}

// Write writes the summary table followed by one row per sequence.
func (sw *StatsWriter) Write(s *consensus.Stats) error {
	rows := [][]string{{"#statistic", "value"}}
	for _, c := range s.FilterCounts() {
		rows = append(rows, []string{c.Name, fmt.Sprintf("%d", c.Value)})
	}
	rows = append(rows,
		[]string{"total_snvs", fmt.Sprintf("%d", s.TotalSNVs)},
		[]string{"total_length", fmt.Sprintf("%d", s.TotalLength)},
		[]string{"percent_covered", fmt.Sprintf("%.2f", s.PercentCovered())},
		[]string{"median_depth", fmt.Sprintf("%g", s.MedianDepth)},
		[]string{"max_depth_threshold", fmt.Sprintf("%g", s.MaxDepthThreshold)},
		[]string{"records", fmt.Sprintf("%d", s.Records)},
		[]string{"skipped_indels", fmt.Sprintf("%d", s.SkippedIndels)},
		[]string{"warnings", fmt.Sprintf("%d", s.Warnings)},
	)

	for _, row := range rows {
		if _, err := sw.w.WriteString(strings.Join(row, "\t") + "\n"); err != nil {
			return err
		}
	}

	if len(s.Sequences) > 0 {
		if _, err := sw.w.WriteString("#sequence\tlength\tsnvs\tmissing\tgaps\n"); err != nil {
			return err
		}
	}
	for _, seq := range s.Sequences {
		values := []string{
			seq.ID,
			fmt.Sprintf("%d", seq.Length),
			fmt.Sprintf("%d", seq.SNVs),
			fmt.Sprintf("%d", seq.Missing),
			fmt.Sprintf("%d", seq.Gaps),
		}
		if _, err := sw.w.WriteString(strings.Join(values, "\t") + "\n"); err != nil {
			return err
		}
	}

	return sw.w.Flush()
}
