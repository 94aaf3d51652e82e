package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"
	"time"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/NU-CPGME/ims-workshop-2025/internal/consensus"
)

// WriteRun records a finished run. An existing run with the same ID is replaced.
func (s *Store) WriteRun(runID string, res *consensus.Result, inputs []Input) error {
	if err := s.DeleteRun(runID); err != nil {
		return err
	}

	st := &res.Stats
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO runs VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, time.Now().UTC(), st.TotalLength, int64(st.TotalSNVs),
		st.MedianDepth, st.MaxDepthThreshold, st.PercentCovered()); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	counts := append(st.FilterCounts(),
		consensus.Count{Name: "records", Value: st.Records},
		consensus.Count{Name: "skipped_indels", Value: st.SkippedIndels},
		consensus.Count{Name: "warnings", Value: st.Warnings},
	)
	for _, c := range counts {
		if _, err := tx.Exec(`INSERT INTO run_stats VALUES (?, ?, ?)`, runID, c.Name, int64(c.Value)); err != nil {
			return fmt.Errorf("insert run stat %s: %w", c.Name, err)
		}
	}

	for _, in := range inputs {
		if _, err := tx.Exec(`INSERT INTO run_inputs VALUES (?, ?, ?, ?, ?)`,
			runID, in.Role, in.Path, in.Size, in.ModTime.UTC()); err != nil {
			return fmt.Errorf("insert run input: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}

	return s.appendRejections(runID, res.Rejected)
}

// appendRejections batch-inserts rejected SNVs using the Appender API.
func (s *Store) appendRejections(runID string, rejected []consensus.Rejection) error {
	if len(rejected) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "filtered_snvs")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range rejected {
		if err := appender.AppendRow(
			runID, r.Chrom, r.Pos, r.Ref, r.Alt, r.Qual,
			int32(r.Depth), int32(r.Reasons), r.Reasons.String(),
		); err != nil {
			return fmt.Errorf("append rejected snv: %w", err)
		}
	}

	return appender.Flush()
}

// DeleteRun removes all rows for a run.
func (s *Store) DeleteRun(runID string) error {
	for _, table := range []string{"filtered_snvs", "run_inputs", "run_stats", "runs"} {
		if _, err := s.db.Exec("DELETE FROM "+table+" WHERE run_id=?", runID); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	return nil
}

// RunIDs returns recorded run IDs, oldest first.
func (s *Store) RunIDs() ([]string, error) {
	rows, err := s.db.Query(`SELECT run_id FROM runs ORDER BY created_at, run_id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return ids, nil
}

// RunStats returns the recorded counters of a run keyed by name.
func (s *Store) RunStats(runID string) (map[string]int64, error) {
	rows, err := s.db.Query(`SELECT name, value FROM run_stats WHERE run_id=?`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int64)
	for rows.Next() {
		var name string
		var value int64
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scan run stat: %w", err)
		}
		stats[name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run stats: %w", err)
	}
	return stats, nil
}

// RunInputs returns the input fingerprints recorded for a run.
func (s *Store) RunInputs(runID string) ([]Input, error) {
	rows, err := s.db.Query(`SELECT role, path, size, mod_time FROM run_inputs WHERE run_id=? ORDER BY role`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run inputs: %w", err)
	}
	defer rows.Close()

	var inputs []Input
	for rows.Next() {
		var in Input
		if err := rows.Scan(&in.Role, &in.Path, &in.Size, &in.ModTime); err != nil {
			return nil, fmt.Errorf("scan run input: %w", err)
		}
		inputs = append(inputs, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run inputs: %w", err)
	}
	return inputs, nil
}

// FilteredSNVs returns the rejected SNVs of a run in position order.
func (s *Store) FilteredSNVs(runID string) ([]consensus.Rejection, error) {
	rows, err := s.db.Query(`SELECT chrom, pos, ref, alt, qual, depth, reason_mask
		FROM filtered_snvs
		WHERE run_id=?
		ORDER BY chrom, pos`, runID)
	if err != nil {
		return nil, fmt.Errorf("query filtered snvs: %w", err)
	}
	defer rows.Close()

	var out []consensus.Rejection
	for rows.Next() {
		var r consensus.Rejection
		var mask int32
		if err := rows.Scan(&r.Chrom, &r.Pos, &r.Ref, &r.Alt, &r.Qual, &r.Depth, &mask); err != nil {
			return nil, fmt.Errorf("scan filtered snv: %w", err)
		}
		r.Reasons = consensus.Reasons(mask)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate filtered snvs: %w", err)
	}
	return out, nil
}
