package mask

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_Contains(t *testing.T) {
	ix := NewIndex([]Entry{
		{Chrom: "chr1", Interval: Interval{Start: 10, End: 20}},
		{Chrom: "chr1", Interval: Interval{Start: 100, End: 100}},
		{Chrom: "chr2", Interval: Interval{Start: 1, End: 5}},
	})

	tests := []struct {
		name  string
		chrom string
		pos   int64
		want  bool
	}{
		{"before first", "chr1", 9, false},
		{"start boundary", "chr1", 10, true},
		{"inside", "chr1", 15, true},
		{"end boundary", "chr1", 20, true},
		{"between", "chr1", 50, false},
		{"single position", "chr1", 100, true},
		{"after last", "chr1", 101, false},
		{"other chrom", "chr2", 1, true},
		{"unknown chrom", "chr3", 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ix.Contains(tt.chrom, tt.pos))
		})
	}
}

func TestIndex_MergesOverlaps(t *testing.T) {
	ix := NewIndex([]Entry{
		{Chrom: "c", Interval: Interval{Start: 30, End: 40}},
		{Chrom: "c", Interval: Interval{Start: 1, End: 10}},
		{Chrom: "c", Interval: Interval{Start: 5, End: 12}},
		{Chrom: "c", Interval: Interval{Start: 13, End: 15}},
		{Chrom: "c", Interval: Interval{Start: 1, End: 10}},
	})

	assert.Equal(t, []Interval{{1, 15}, {30, 40}}, ix.Intervals("c"))
	assert.Equal(t, int64(26), ix.MaskedCount("c"))
}

func TestIndex_Nil(t *testing.T) {
	var ix *Index
	assert.False(t, ix.Contains("c", 1))
	assert.Zero(t, ix.MaskedCount("c"))
}

func TestParse_Closed1(t *testing.T) {
	content := `# repeats
ref	1	3
ref	8 8

ref2	4	6	phage
`
	ix, err := Parse(strings.NewReader(content), Closed1)
	require.NoError(t, err)

	assert.True(t, ix.Contains("ref", 1))
	assert.True(t, ix.Contains("ref", 3))
	assert.False(t, ix.Contains("ref", 4))
	assert.True(t, ix.Contains("ref", 8))
	assert.True(t, ix.Contains("ref2", 6))
}

func TestParse_BED(t *testing.T) {
	ix, err := Parse(strings.NewReader("track name=x\nref\t0\t3\nref\t5\t5\n"), BED)
	require.NoError(t, err)

	assert.Equal(t, []Interval{{1, 3}}, ix.Intervals("ref"))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"too few columns", "ref\t1\n"},
		{"bad start", "ref\tx\t3\n"},
		{"bad end", "ref\t1\ty\n"},
		{"zero start", "ref\t0\t3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.content), Closed1)
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, 1, pe.Line)
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("BED")
	require.NoError(t, err)
	assert.Equal(t, BED, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, Closed1, f)

	_, err = ParseFormat("gff")
	assert.Error(t, err)
}
