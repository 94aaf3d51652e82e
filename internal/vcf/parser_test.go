package vcf

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/biogo/hts/bgzf"
)

func TestParser_SampleFile(t *testing.T) {
	testFile := findTestFile(t, "sample.vcf")

	parser, err := NewParser(testFile)
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	defer parser.Close()

	v, err := parser.Next()
	if err != nil {
		t.Fatalf("Failed to read variant: %v", err)
	}
	if v == nil {
		t.Fatal("Expected a variant, got nil")
	}
	if v.Chrom != "ref1" || v.Pos != 1 || v.Alt != "." {
		t.Errorf("Unexpected first record %s:%d alt=%s", v.Chrom, v.Pos, v.Alt)
	}
	if v.Qual != 50 {
		t.Errorf("Expected qual 50, got %g", v.Qual)
	}

	count := 1
	for {
		v, err := parser.Next()
		if err != nil {
			t.Fatalf("Error reading variant: %v", err)
		}
		if v == nil {
			break
		}
		count++
	}

	if count != 14 {
		t.Errorf("Expected 14 records, got %d", count)
	}

	if names := parser.SampleNames(); len(names) != 1 || names[0] != "sample1" {
		t.Errorf("Unexpected sample names %v", names)
	}
}

func TestParser_Header(t *testing.T) {
	testFile := findTestFile(t, "sample.vcf")

	parser, err := NewParser(testFile)
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	defer parser.Close()

	header := parser.Header()
	if len(header) == 0 {
		t.Fatal("Expected header lines")
	}
	if header[0] != "##fileformat=VCFv4.2" {
		t.Errorf("Missing ##fileformat header, got %q", header[0])
	}
	if !strings.HasPrefix(header[len(header)-1], "#CHROM") {
		t.Error("Missing #CHROM header line")
	}
}

func TestParser_Compressed(t *testing.T) {
	content, err := os.ReadFile(findTestFile(t, "sample.vcf"))
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()

	bgzPath := filepath.Join(dir, "sample.vcf.gz")
	f, err := os.Create(bgzPath)
	if err != nil {
		t.Fatal(err)
	}
	bw := bgzf.NewWriter(f, 1)
	if _, err := bw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := bw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	gzPath := filepath.Join(dir, "plain.vcf.gz")
	f, err = os.Create(gzPath)
	if err != nil {
		t.Fatal(err)
	}
	gw := gzip.NewWriter(f)
	if _, err := gw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	for _, path := range []string{bgzPath, gzPath} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			parser, err := NewParser(path)
			if err != nil {
				t.Fatalf("Failed to create parser: %v", err)
			}
			defer parser.Close()

			count := 0
			for {
				v, err := parser.Next()
				if err != nil {
					t.Fatalf("Error reading variant: %v", err)
				}
				if v == nil {
					break
				}
				count++
			}
			if count != 14 {
				t.Errorf("Expected 14 records, got %d", count)
			}
		})
	}
}

func TestParser_FromReader(t *testing.T) {
	input := "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"c\t5\t.\tA\tG\t.\t.\tDP=3\n\n" +
		"c\t6\t.\tA\t.\t12.5\t.\t."
	parser, err := NewParserFromReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	v, err := parser.Next()
	if err != nil || v == nil {
		t.Fatalf("Expected a variant, got %v, %v", v, err)
	}
	if v.Qual != 0 {
		t.Errorf("Missing QUAL should parse as 0, got %g", v.Qual)
	}

	// Blank line skipped; final line has no trailing newline
	v, err = parser.Next()
	if err != nil || v == nil {
		t.Fatalf("Expected a variant, got %v, %v", v, err)
	}
	if v.Pos != 6 || v.Qual != 12.5 {
		t.Errorf("Unexpected record %d qual %g", v.Pos, v.Qual)
	}

	v, err = parser.Next()
	if err != nil || v != nil {
		t.Errorf("Expected end of input, got %v, %v", v, err)
	}
}

func TestParser_Errors(t *testing.T) {
	header := "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"
	tests := []struct {
		name  string
		input string
	}{
		{"too few columns", header + "c\t5\t.\tA\tG\n"},
		{"bad position", header + "c\tx\t.\tA\tG\t1\t.\t.\n"},
		{"bad quality", header + "c\t5\t.\tA\tG\thigh\t.\t.\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser, err := NewParserFromReader(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Failed to create parser: %v", err)
			}
			_, err = parser.Next()
			pe, ok := err.(*ParseError)
			if !ok {
				t.Fatalf("Expected *ParseError, got %v", err)
			}
			if pe.Line != 2 {
				t.Errorf("Expected error at line 2, got %d", pe.Line)
			}
		})
	}
}

func TestParser_MissingHeader(t *testing.T) {
	if _, err := NewParserFromReader(strings.NewReader("c\t5\t.\tA\tG\t1\t.\t.\n")); err == nil {
		t.Error("Expected error for missing #CHROM line")
	}
	if _, err := NewParserFromReader(strings.NewReader("##fileformat=VCFv4.2\n")); err == nil {
		t.Error("Expected error for truncated header")
	}
}

func TestParseError(t *testing.T) {
	err := &ParseError{
		Line:    42,
		Message: "expected 8 columns, found 7",
	}

	expected := "vcf parse error at line 42: expected 8 columns, found 7"
	if err.Error() != expected {
		t.Errorf("Error message mismatch: got %q, want %q", err.Error(), expected)
	}
}

// findTestFile locates a test file in the testdata directory.
func findTestFile(t *testing.T, name string) string {
	t.Helper()

	// Try different relative paths
	paths := []string{
		filepath.Join("testdata", name),
		filepath.Join("..", "..", "testdata", name),
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	t.Fatalf("Test file not found: %s", name)
	return ""
}
