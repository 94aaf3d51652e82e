package duckdb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NU-CPGME/ims-workshop-2025/internal/consensus"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult() *consensus.Result {
	return &consensus.Result{
		Rejected: []consensus.Rejection{
			{Chrom: "ref2", Pos: 2, Ref: "G", Alt: "A", Qual: 250, Depth: 10, Reasons: consensus.Unidirectional},
			{Chrom: "ref1", Pos: 5, Ref: "A", Alt: "G", Qual: 30, Depth: 10, Reasons: consensus.BelowMinQual | consensus.Masked},
		},
		Stats: consensus.Stats{
			BelowMinQual:      1,
			Unidirectional:    1,
			Masked:            1,
			Missing:           6,
			TotalFiltered:     2,
			Records:           14,
			SkippedIndels:     1,
			TotalSNVs:         2,
			TotalLength:       18,
			MedianDepth:       10,
			MaxDepthThreshold: 30,
		},
	}
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "audit.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestWriteRun(t *testing.T) {
	s := openInMemory(t)

	mod := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	inputs := []Input{
		{Role: "reference", FileFingerprint: FileFingerprint{Path: "ref.fa", Size: 120, ModTime: mod}},
		{Role: "calls", FileFingerprint: FileFingerprint{Path: "calls.vcf.gz", Size: 4096, ModTime: mod}},
	}
	require.NoError(t, s.WriteRun("run1", sampleResult(), inputs))

	ids, err := s.RunIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"run1"}, ids)

	stats, err := s.RunStats("run1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats["below_min_qual"])
	assert.Equal(t, int64(6), stats["missing_or_uncovered"])
	assert.Equal(t, int64(2), stats["total_filtered"])
	assert.Equal(t, int64(14), stats["records"])
	assert.Equal(t, int64(1), stats["skipped_indels"])

	snvs, err := s.FilteredSNVs("run1")
	require.NoError(t, err)
	require.Len(t, snvs, 2)
	assert.Equal(t, "ref1", snvs[0].Chrom)
	assert.Equal(t, int64(5), snvs[0].Pos)
	assert.Equal(t, consensus.BelowMinQual|consensus.Masked, snvs[0].Reasons)
	assert.Equal(t, 10, snvs[0].Depth)
	assert.Equal(t, consensus.Unidirectional, snvs[1].Reasons)

	got, err := s.RunInputs("run1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "calls", got[0].Role)
	assert.Equal(t, int64(4096), got[0].Size)
	assert.WithinDuration(t, mod, got[0].ModTime, time.Second)
}

func TestWriteRun_Replaces(t *testing.T) {
	s := openInMemory(t)

	require.NoError(t, s.WriteRun("run1", sampleResult(), nil))

	res := sampleResult()
	res.Rejected = res.Rejected[:1]
	res.Stats.TotalFiltered = 1
	require.NoError(t, s.WriteRun("run1", res, nil))

	snvs, err := s.FilteredSNVs("run1")
	require.NoError(t, err)
	assert.Len(t, snvs, 1)

	stats, err := s.RunStats("run1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats["total_filtered"])

	ids, err := s.RunIDs()
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestDeleteRun(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteRun("a", sampleResult(), nil))
	require.NoError(t, s.WriteRun("b", sampleResult(), nil))

	require.NoError(t, s.DeleteRun("a"))

	ids, err := s.RunIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)

	snvs, err := s.FilteredSNVs("a")
	require.NoError(t, err)
	assert.Empty(t, snvs)
}

func TestStatInputs(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "ref.fa")
	require.NoError(t, os.WriteFile(ref, []byte(">a\nACGT\n"), 0644))

	inputs, err := StatInputs(map[string]string{"reference": ref, "calls": "-"})
	require.NoError(t, err)
	require.Len(t, inputs, 1)
	assert.Equal(t, "reference", inputs[0].Role)
	assert.Equal(t, int64(8), inputs[0].Size)

	_, err = StatInputs(map[string]string{"mask": filepath.Join(dir, "missing.txt")})
	assert.Error(t, err)
}
