// Command manifest is the thin CLI front end for the extraction pipeline
// (spec.md §1: "out of scope... specified only by interface"). It parses
// flags, loads layered configuration, invokes internal/schema.Extract, and
// renders the result as a JSON manifest plus an optional recode sidekick
// file -- it performs no extraction logic of its own.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"manifest-extractor/internal/config"
	"manifest-extractor/internal/logger"
	"manifest-extractor/internal/metrics"
	"manifest-extractor/internal/output"
	"manifest-extractor/internal/schema"
	"manifest-extractor/internal/types"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "manifest",
		Short:         "Extract a privacy-preserving column manifest from a tabular data file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newScanCmd())
	return root
}

func newScanCmd() *cobra.Command {
	var (
		outPath      string
		configPath   string
		kAnonymity   uint64
		bucketCounts bool
		exactCounts  bool
		exactMedian  bool
		hashFile     bool
		relaxed      bool
		logLevel     string
	)

	cmd := &cobra.Command{
		Use:   "scan <file>",
		Short: "Scan a CSV/TSV/Excel file and emit its manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := args[0]
			cfg := config.Load(configPath)
			applyFlagOverrides(cmd, &cfg.Options, kAnonymity, bucketCounts, exactCounts, exactMedian, hashFile, relaxed)
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}

			log := logger.New("CLI", cfg.LogLevel)
			extractLog := logger.New("EXTRACT", cfg.LogLevel)

			m := metrics.New()
			log.Infof("open", "scanning %s", inputPath)
			result, err := schema.Extract(inputPath, cfg.Options, extractLog, m)
			if err != nil {
				log.Errorf("open", "extraction failed: %v", err)
				return err
			}

			if outPath == "" {
				outPath = defaultOutputPath(inputPath)
			}
			log.Infof("write", "writing manifest to %s", outPath)
			if err := output.WriteManifest(outPath, &result.Manifest); err != nil {
				return err
			}

			if result.SidekickContent != "" {
				sidekickPath := sidekickPathFor(outPath)
				log.Infof("write", "writing recode sidekick to %s", sidekickPath)
				if err := output.WriteSidekick(sidekickPath, result.SidekickContent); err != nil {
					return err
				}
			}

			for _, w := range result.Manifest.Warnings {
				log.Warn("classify", w)
			}

			snap := m.Snapshot()
			log.Infof("done", "rows=%d columns_classified=%v suppressed=%d recoded=%d sealed=%d latency_ms=%.2f",
				snap.RowsScanned, snap.Classifications, snap.CellsSuppressed, snap.ValuesRecoded,
				snap.ColumnsSealedHighCard, snap.ExtractionLatencyMs.MeanMs)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "manifest output path (default: <input>.manifest.json)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to manifest-config.json (default: ./manifest-config.json if present)")
	cmd.Flags().Uint64Var(&kAnonymity, "k-anonymity", types.DefaultKAnonymity, "minimum group size before a value is safe to emit")
	cmd.Flags().BoolVar(&bucketCounts, "bucket-counts", true, "emit counts as coarse buckets instead of exact integers")
	cmd.Flags().BoolVar(&exactCounts, "exact-counts", false, "emit exact counts (requires --relaxed)")
	cmd.Flags().BoolVar(&exactMedian, "exact-median", false, "compute an exact median instead of the streaming estimate (requires --relaxed)")
	cmd.Flags().BoolVar(&hashFile, "hash-file", true, "include the SHA-256 of the source file in the manifest")
	cmd.Flags().BoolVar(&relaxed, "relaxed", false, "master switch enabling --exact-counts/--exact-median")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "debug|info|warn|error (default: from config)")

	return cmd
}

// applyFlagOverrides layers explicit CLI flags over the config/env-derived
// options, winning only for flags the user actually set (cobra's Changed
// check), so an unset flag never clobbers a config-file value with its
// zero/default.
func applyFlagOverrides(cmd *cobra.Command, opts *types.ProcessingOptions, k uint64, bucket, exactCounts, exactMedian, hashFile, relaxed bool) {
	f := cmd.Flags()
	if f.Changed("k-anonymity") {
		opts.KAnonymity = k
	}
	if f.Changed("bucket-counts") {
		opts.BucketCounts = bucket
	}
	if f.Changed("exact-counts") {
		opts.ExactCounts = exactCounts
	}
	if f.Changed("exact-median") {
		opts.ExactMedian = exactMedian
	}
	if f.Changed("hash-file") {
		opts.HashFile = hashFile
	}
	if f.Changed("relaxed") {
		opts.Relaxed = relaxed
	}
	if !opts.Relaxed {
		opts.ExactCounts = false
		opts.ExactMedian = false
	}
}

func defaultOutputPath(inputPath string) string {
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + ".manifest.json"
}

func sidekickPathFor(manifestPath string) string {
	ext := filepath.Ext(manifestPath)
	return strings.TrimSuffix(manifestPath, ext) + ".recode.txt"
}
