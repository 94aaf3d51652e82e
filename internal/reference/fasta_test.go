package reference

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeader(t *testing.T) {
	tests := []struct {
		header   string
		expected string
	}{
		{">chr1", "chr1"},
		{">NC_045512.2 Severe acute respiratory syndrome coronavirus 2", "NC_045512.2"},
		{">contig_7\tlen=1200", "contig_7"},
		{">", ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseHeader(tt.header))
		})
	}
}

func TestParse(t *testing.T) {
	fastaContent := `>seq1 first
ACGTAC
GTacgt
>seq2
NNNN
`

	cat, err := Parse(strings.NewReader(fastaContent))
	require.NoError(t, err)

	assert.Equal(t, 2, cat.Len())
	assert.Equal(t, int64(16), cat.TotalLength())

	s, ok := cat.Get("seq1")
	require.True(t, ok)
	assert.Equal(t, "ACGTACGTacgt", s.Bases)
	assert.Equal(t, 12, s.Len())
	assert.Equal(t, byte('a'), s.BaseAt(9))

	assert.Equal(t, 1, cat.Index("seq2"))
	assert.Equal(t, -1, cat.Index("seq3"))
	assert.Equal(t, "seq1", cat.Sequences()[0].ID)
}

func TestParse_CRLF(t *testing.T) {
	cat, err := Parse(strings.NewReader(">a\r\nAC\r\nGT\r\n"))
	require.NoError(t, err)
	s, _ := cat.Get("a")
	assert.Equal(t, "ACGT", s.Bases)
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestParse_DuplicateID(t *testing.T) {
	_, err := Parse(strings.NewReader(">a\nAC\n>a\nGT\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestParse_DataBeforeHeader(t *testing.T) {
	_, err := Parse(strings.NewReader("ACGT\n>a\nAC\n"))
	assert.Error(t, err)
}

func TestLoad_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.fa.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(">ref\nACGTACGT\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	cat, err := Load(path)
	require.NoError(t, err)
	s, ok := cat.Get("ref")
	require.True(t, ok)
	assert.Equal(t, "ACGTACGT", s.Bases)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.fa"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
