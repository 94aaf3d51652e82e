package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/NU-CPGME/ims-workshop-2025/internal/consensus"
	"github.com/NU-CPGME/ims-workshop-2025/internal/duckdb"
	"github.com/NU-CPGME/ims-workshop-2025/internal/mask"
	"github.com/NU-CPGME/ims-workshop-2025/internal/output"
	"github.com/NU-CPGME/ims-workshop-2025/internal/reference"
	"github.com/NU-CPGME/ims-workshop-2025/internal/vcf"
)

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"reference":     "reference",
	"output":        "output",
	"min-qual":      "min_qual",
	"min-consensus": "min_consensus",
	"min-depth":     "min_depth",
	"max-fold":      "max_fold",
	"min-dir-depth": "min_dir_depth",
	"homozygous":    "homozygous",
	"mask":          "mask",
	"mask-format":   "mask_format",
	"output-id":     "output_id",
	"wrap":          "wrap",
	"gap":           "gap",
	"stats":         "stats",
	"db":            "db",
	"run-id":        "run_id",
}

func newConsensusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consensus [options] -r <reference.fa> <calls.vcf>",
		Short: "Filter SNV calls and write a consensus FASTA",
		Long: `Filter SNV calls and write a consensus FASTA.

Variant calls must be sorted by sequence and position, as written by
bcftools. Accepted SNVs are substituted into the reference; positions with
no call, low depth, or a filtered SNV are written as the gap character.
SNVs deeper than max-fold x median depth are removed after the whole file
has been read.`,
		Example: `  vcf2consensus consensus -r ref.fa calls.vcf.gz > consensus.fa
  vcf2consensus consensus -r ref.fa -m repeats.txt -i sample1 -o sample1.fa calls.vcf
  bcftools view calls.bcf | vcf2consensus consensus -r ref.fa --homozygous=false -`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &usageError{msg: fmt.Sprintf("expected one call file argument, got %d", len(args))}
			}
			return nil
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(args[0])
			if err != nil {
				return err
			}
			logger, err := newLogger()
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer logger.Sync()

			return runConsensus(opts, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
		},
	}

	f := cmd.Flags()
	f.StringP("reference", "r", "", "Reference FASTA file (required)")
	f.StringP("output", "o", "", "Output FASTA file (default: stdout)")
	f.Float64P("min-qual", "q", consensus.DefaultMinQual, "Minimum SNV quality")
	f.Float64P("min-consensus", "c", consensus.DefaultMinConsensus, "Minimum percent of reads supporting the SNV")
	f.IntP("min-depth", "d", consensus.DefaultMinDepth, "Minimum read depth")
	f.Float64P("max-fold", "x", consensus.DefaultMaxFold, "Maximum SNV depth as a multiple of the median depth")
	f.Int("min-dir-depth", consensus.DefaultMinDirDepth, "Minimum SNV-supporting reads on each strand")
	f.Bool("homozygous", true, "Require a homozygous alternate genotype (--homozygous=false to disable)")
	f.StringP("mask", "m", "", "File of masked intervals (id start end)")
	f.String("mask-format", "interval", "Mask coordinates: interval (1-based inclusive) or bed")
	f.StringP("output-id", "i", "", "Output id, or id prefix when the reference has several sequences")
	f.Int("wrap", 0, "Wrap sequence lines at this width (0: no wrapping)")
	f.String("gap", string(rune(consensus.DefaultGap)), "Character for missing or filtered positions")
	f.String("stats", "", "Write the statistics table to this file (default: stderr)")
	f.String("db", "", "Record the run in this DuckDB database")
	f.String("run-id", "", "Run identifier for --db (default: output id or call file name)")

	return cmd
}

func bindFlags(fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if err := viper.BindPFlag(key, fs.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// options holds resolved settings for a consensus run.
type options struct {
	Reference  string
	Calls      string
	Output     string
	Mask       string
	MaskFormat string
	Stats      string
	DB         string
	RunID      string
	Wrap       int
	Config     consensus.Config
}

// loadOptions resolves settings from flags, config file and environment.
func loadOptions(calls string) (options, error) {
	gap := viper.GetString("gap")
	if len(gap) != 1 {
		return options{}, &usageError{msg: fmt.Sprintf("gap must be a single character, got %q", gap)}
	}

	opts := options{
		Reference:  viper.GetString("reference"),
		Calls:      calls,
		Output:     viper.GetString("output"),
		Mask:       viper.GetString("mask"),
		MaskFormat: viper.GetString("mask_format"),
		Stats:      viper.GetString("stats"),
		DB:         viper.GetString("db"),
		RunID:      viper.GetString("run_id"),
		Wrap:       viper.GetInt("wrap"),
		Config: consensus.Config{
			MinQual:           viper.GetFloat64("min_qual"),
			MinConsensus:      viper.GetFloat64("min_consensus"),
			MinDepth:          viper.GetInt("min_depth"),
			MaxFold:           viper.GetFloat64("max_fold"),
			MinDirDepth:       viper.GetInt("min_dir_depth"),
			RequireHomozygous: viper.GetBool("homozygous"),
			OutputID:          viper.GetString("output_id"),
			Gap:               gap[0],
		},
	}

	if opts.Reference == "" {
		return options{}, &usageError{msg: "--reference is required"}
	}
	if err := opts.Config.Validate(); err != nil {
		return options{}, &usageError{msg: err.Error()}
	}
	return opts, nil
}

// runConsensus loads inputs, classifies every call and writes the outputs.
// Nothing is written until classification has succeeded.
func runConsensus(opts options, stdout, stderr io.Writer, logger *zap.Logger) error {
	cat, err := reference.Load(opts.Reference)
	if err != nil {
		return err
	}
	logger.Info("loaded reference",
		zap.String("path", opts.Reference),
		zap.Int("sequences", cat.Len()),
		zap.Int64("length", cat.TotalLength()))

	var masker consensus.Masker
	if opts.Mask != "" {
		format, err := mask.ParseFormat(opts.MaskFormat)
		if err != nil {
			return &usageError{msg: err.Error()}
		}
		ix, err := mask.Load(opts.Mask, format)
		if err != nil {
			return err
		}
		masker = ix
		logger.Info("loaded mask", zap.String("path", opts.Mask))
	}

	parser, err := vcf.NewParser(opts.Calls)
	if err != nil {
		return err
	}
	defer parser.Close()

	classifier, err := consensus.NewClassifier(cat, opts.Config, masker)
	if err != nil {
		return err
	}
	classifier.SetLogger(logger)

	res, err := consensus.Run(vcf.NewCallReader(parser), classifier)
	if err != nil {
		return err
	}

	if err := writeConsensus(opts, consensus.Emit(res, opts.Config), stdout); err != nil {
		return err
	}
	if err := writeStats(opts, &res.Stats, stderr); err != nil {
		return err
	}
	if opts.DB != "" {
		if err := recordRun(opts, res); err != nil {
			return err
		}
		logger.Info("recorded run", zap.String("db", opts.DB), zap.String("run_id", runID(opts)))
	}

	logger.Info("consensus complete",
		zap.Int("records", res.Stats.Records),
		zap.Int("snvs", res.Stats.TotalSNVs),
		zap.Int("filtered", res.Stats.TotalFiltered),
		zap.Float64("median_depth", res.Stats.MedianDepth),
		zap.Float64("percent_covered", res.Stats.PercentCovered()))
	return nil
}

func writeConsensus(opts options, records []consensus.Consensus, stdout io.Writer) error {
	out := stdout
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := output.NewFASTAWriter(out, opts.Wrap).WriteAll(records); err != nil {
		return fmt.Errorf("write consensus: %w", err)
	}
	return nil
}

func writeStats(opts options, stats *consensus.Stats, stderr io.Writer) error {
	out := stderr
	if opts.Stats != "" {
		f, err := os.Create(opts.Stats)
		if err != nil {
			return fmt.Errorf("create stats file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := output.NewStatsWriter(out).Write(stats); err != nil {
		return fmt.Errorf("write stats: %w", err)
	}
	return nil
}

func recordRun(opts options, res *consensus.Result) error {
	inputs, err := duckdb.StatInputs(map[string]string{
		"reference": opts.Reference,
		"calls":     opts.Calls,
		"mask":      opts.Mask,
	})
	if err != nil {
		return fmt.Errorf("stat inputs: %w", err)
	}

	store, err := duckdb.Open(opts.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.WriteRun(runID(opts), res, inputs); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// runID returns the configured run id, falling back to the output id and
// then the call file name without extensions.
func runID(opts options) string {
	if opts.RunID != "" {
		return opts.RunID
	}
	if opts.Config.OutputID != "" {
		return opts.Config.OutputID
	}
	if opts.Calls == "-" {
		return "stdin"
	}
	base := filepath.Base(opts.Calls)
	for _, ext := range []string{".gz", ".vcf", ".txt"} {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
