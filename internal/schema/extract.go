// Package schema assembles per-sheet schemas produced by the column
// pipeline (internal/readers) into the final manifest (spec.md §4.I):
// lifting column-level warnings to manifest-level ones, deduplicating them,
// attaching the optional whole-file hash, and rendering the recode
// sidekick content when any column recoded a value.
package schema

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"manifest-extractor/internal/logger"
	"manifest-extractor/internal/metrics"
	"manifest-extractor/internal/readers"
	"manifest-extractor/internal/types"
)

// Result bundles the assembled manifest with the sidekick mapping file
// content, which is empty when no column recoded any value.
type Result struct {
	Manifest        types.ManifestSchema
	SidekickContent string
}

// Extract runs the full pipeline for path: open the matching format
// adaptor, scan it under options, assemble the manifest, and optionally
// hash the source file. log and m (the run-metrics sink) may both be nil.
func Extract(path string, options types.ProcessingOptions, log *logger.Logger, m *metrics.Metrics) (*Result, error) {
	start := time.Now()
	reader, err := readers.NewReader(path, log, m)
	if err != nil {
		return nil, err
	}

	format, _ := formatFor(path)

	sheets, registry, err := reader.ReadWithRecoding(options)
	if err != nil {
		return nil, err
	}

	manifest := types.NewManifestSchema(filepath.Base(path), format)
	manifest.Options = options
	manifest.Sheets = sheets
	manifest.Warnings = collectWarnings(sheets)

	if options.HashFile {
		if log != nil {
			log.Infof("hash", "hashing %s", path)
		}
		hash, err := ComputeFileHash(path)
		if err != nil {
			return nil, err
		}
		manifest.FileHash = &hash
	}

	result := &Result{Manifest: manifest}
	if registry != nil && registry.HasRecodings() {
		result.SidekickContent = registry.GenerateSidekickContent(time.Now().UTC().Format(time.RFC3339))
	}
	if m != nil {
		m.RecordExtractionLatency(time.Since(start))
	}
	return result, nil
}

// formatFor mirrors readers.NewReader's extension-based dispatch so the
// manifest can record the detected format even though the DataReader
// interface itself doesn't expose it.
func formatFor(path string) (types.FileFormat, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return types.FileFormatFromExtension(ext)
}

// collectWarnings lifts every column-level warning into a manifest-level
// string of the form "Sheet '{sheet}', Column {index+1}: {warning}", then
// deduplicates by substring containment: a warning is dropped when it
// contains, or is contained in, one already collected.
func collectWarnings(sheets []types.SheetSchema) []string {
	var collected []string
	for _, sheet := range sheets {
		for _, col := range sheet.Columns {
			for _, w := range col.Warnings {
				msg := fmt.Sprintf("Sheet '%s', Column %d: %s", sheet.Name, col.Index+1, w)
				collected = appendDeduped(collected, msg)
			}
		}
		for _, w := range sheet.Warnings {
			collected = appendDeduped(collected, w)
		}
	}
	return collected
}

// appendDeduped adds msg to collected unless collected already contains an
// entry that is a substring match against msg (in either direction),
// keeping the list free of near-duplicate warnings across columns that
// matched the same lexicon pattern.
func appendDeduped(collected []string, msg string) []string {
	for _, existing := range collected {
		if strings.Contains(existing, msg) || strings.Contains(msg, existing) {
			return collected
		}
	}
	return append(collected, msg)
}
