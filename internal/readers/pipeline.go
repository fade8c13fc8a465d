package readers

import (
	"sort"

	"manifest-extractor/internal/inference"
	"manifest-extractor/internal/logger"
	"manifest-extractor/internal/metrics"
	"manifest-extractor/internal/privacy"
	"manifest-extractor/internal/stats"
	"manifest-extractor/internal/types"
)

// logInfof is a nil-safe convenience so every reader can be constructed
// without a logger (e.g. in tests) without every call site needing a guard.
func logInfof(log *logger.Logger, action, format string, args ...any) {
	if log == nil {
		return
	}
	log.Infof(action, format, args...)
}

// RowScanner performs one complete pass over a table's data rows (header
// excluded), calling fn once per row. Rows may be shorter than the header
// (CSV/TSV passes ragged records through; cellAt treats the missing trailing
// cells as empty). Each of the column pipeline's two passes gets its own RowScanner
// invocation so format adaptors can satisfy the two-pass contract (spec.md
// §5, §9) either by reopening a file (CSV/TSV) or by re-iterating an
// in-memory/streamed row source (Excel).
type RowScanner func(fn func(row []string) error) error

// columnState is the per-column working state threaded through both passes
// of the column pipeline (spec.md §4.H).
type columnState struct {
	index          int
	name           string
	classification types.Classification
	matchedPattern string
	warning        string

	inferencer *inference.TypeInferencer
	dtype      types.DType

	tracker *stats.ColumnStatTracker

	exactMedianBuf        []float64
	exactMedianOverflowed bool
}

// runColumnPipeline drives the full two-pass scan for one table (spec.md
// §4.H): pass 1 feeds the type inferencer over every non-missing cell, pass
// 2 accumulates statistics, applies recoding, and seals the unique tracker.
// header's name-classifications and recode registrations happen up front.
func runColumnPipeline(sheetName string, sheetIndex int, header []string, scanPass1, scanPass2 RowScanner, options types.ProcessingOptions, log *logger.Logger, m *metrics.Metrics) (types.SheetSchema, *privacy.RecodeRegistry, error) {
	registry := privacy.NewRecodeRegistry()
	columns := make([]*columnState, len(header))

	for i, name := range header {
		result := privacy.CheckColumnName(name)
		cs := &columnState{
			index:          i,
			name:           name,
			classification: result.Classification,
			matchedPattern: result.MatchedPattern,
			warning:        result.Warning,
			inferencer:     inference.NewTypeInferencer(types.TypeInferenceSampleSize),
			tracker:        stats.NewColumnStatTracker(types.MaxUniqueValues),
		}
		columns[i] = cs
		logInfof(log, "classify", "sheet=%q col=%d %q -> %s", sheetName, i, name, result.Classification)
		if cs.classification == types.ClassRecode {
			prefix := determineRecodePrefix(name)
			registry.RegisterColumn(i, name, prefix)
			logInfof(log, "recode", "sheet=%q col=%d %q registered under prefix %q", sheetName, i, name, prefix)
		}
	}

	// Pass 1: type inference only.
	logInfof(log, "pass1", "sheet=%q sampling types over %d columns", sheetName, len(columns))
	if err := scanPass1(func(row []string) error {
		for i, cs := range columns {
			cs.inferencer.Observe(cellAt(row, i))
		}
		return nil
	}); err != nil {
		return types.SheetSchema{}, nil, err
	}
	for _, cs := range columns {
		cs.inferencer.FinalizeInitialInference()
		cs.dtype = cs.inferencer.InferredType()
	}

	// Pass 2: statistics, recoding, unique tracking.
	logInfof(log, "pass2", "sheet=%q accumulating statistics", sheetName)
	rowCount := uint64(0)
	exactMedian := options.Relaxed && options.ExactMedian
	if err := scanPass2(func(row []string) error {
		rowCount++
		for i, cs := range columns {
			raw := cellAt(row, i)
			if inference.IsMissing(raw) {
				cs.tracker.UpdateMissing()
				continue
			}
			if cs.classification == types.ClassRecode {
				if recoded, ok := registry.Recode(cs.index, raw); ok {
					raw = recoded
				}
			}
			if isNumericDType(cs.dtype) {
				if f, ok := inference.ParseNumeric(raw); ok {
					cs.tracker.UpdateNumeric(f, raw)
					if exactMedian {
						accumulateExactMedian(cs, f)
					}
					continue
				}
			}
			cs.tracker.UpdateString(raw)
		}
		return nil
	}); err != nil {
		return types.SheetSchema{}, nil, err
	}

	if m != nil {
		m.RowsScanned.Add(int64(rowCount))
	}

	sheet := types.NewSheetSchema(sheetName, sheetIndex)
	sheet.RowCount = privacy.SafeCount(rowCount, options.BucketCounts && !(options.Relaxed && options.ExactCounts))
	sheet.Columns = make([]types.ColumnSchema, len(columns))

	for i, cs := range columns {
		sealed := cs.tracker.UniqueTracker.IsHighCardinality()
		before := cs.classification
		cs.classification = applyHighCardinalityOverride(cs.classification, sealed)
		if cs.classification != before {
			logInfof(log, "suppress", "sheet=%q col=%d %q sealed high-cardinality; unique values suppressed", sheetName, cs.index, cs.name)
			if m != nil {
				m.ColumnsSealedHighCard.Add(1)
			}
		}

		col := types.NewColumnSchema(columnNameValue(cs.name, cs.classification), cs.index, cs.dtype)
		col.Classification = cs.classification
		if cs.warning != "" {
			col.Warnings = []string{cs.warning}
		}
		if cs.exactMedianOverflowed {
			col.Warnings = append(col.Warnings, "Exact median buffer cap exceeded; median is the streaming estimate")
		}
		col.Stats = buildColumnStats(cs, rowCount, options)
		excluded := 0
		col.UniqueValues, excluded = buildUniqueValues(cs, registry, options.KAnonymity)
		sheet.Columns[i] = col

		if m != nil {
			m.RecordColumnClassification(cs.classification)
			m.CellsSuppressed.Add(int64(excluded))
			if recoded, ok := registry.RecodedValues(cs.index); ok {
				m.ValuesRecoded.Add(int64(len(recoded)))
			}
		}
	}

	return sheet, registry, nil
}

// cellAt returns row[i], or "" if the row is shorter than the header
// (ragged input rows are treated as missing trailing cells).
func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func isNumericDType(dt types.DType) bool {
	return dt == types.DTypeInteger || dt == types.DTypeNumeric
}

// accumulateExactMedian buffers raw numeric observations for the
// relaxed/exact-median path, capping at MaxUniqueValues and falling back to
// the P² estimate (runColumnPipeline appends a column warning) once the buffer would
// have to grow past the cap -- spec.md §9's exact_median interpretation is
// silent on a cap, so this repo bounds it at the same constant as the
// unique-value tracker rather than letting it grow unbounded.
func accumulateExactMedian(cs *columnState, f float64) {
	if cs.exactMedianOverflowed {
		return
	}
	if len(cs.exactMedianBuf) >= types.MaxUniqueValues {
		cs.exactMedianOverflowed = true
		cs.exactMedianBuf = nil
		return
	}
	cs.exactMedianBuf = append(cs.exactMedianBuf, f)
}

func buildColumnStats(cs *columnState, rowCount uint64, options types.ProcessingOptions) *types.ColumnStats {
	exactCounts := options.Relaxed && options.ExactCounts
	bucket := options.BucketCounts && !exactCounts

	missing := cs.tracker.MissingCount
	nonMissing := rowCount - missing

	count := privacy.SafeCount(nonMissing, bucket)
	missingCount := privacy.SafeCount(missing, bucket)

	st := &types.ColumnStats{
		Count:        &count,
		MissingCount: &missingCount,
	}

	if isNumericDType(cs.dtype) {
		if mean, ok := cs.tracker.Welford.Mean(); ok {
			st.Mean = &mean
		}
		if sd, ok := cs.tracker.Welford.StdDev(); ok {
			st.StdDev = &sd
		}
		if minV, ok := cs.tracker.Welford.Min(); ok {
			v := types.Float(minV)
			st.Min = &v
		}
		if maxV, ok := cs.tracker.Welford.Max(); ok {
			v := types.Float(maxV)
			st.Max = &v
		}
		if median, ok := columnMedian(cs); ok {
			st.Median = &median
		}
	}

	if cs.tracker.UniqueTracker.IsHighCardinality() {
		v := types.Suppressed("High cardinality column; unique count suppressed")
		st.UniqueCount = &v
	} else {
		uc := privacy.SafeCount(uint64(cs.tracker.UniqueTracker.UniqueCount()), bucket)
		st.UniqueCount = &uc
	}

	return st
}

// columnMedian picks the exact-median side buffer when relaxed/exact_median
// requested it and the buffer never overflowed, falling back to the P²
// streaming estimate otherwise.
func columnMedian(cs *columnState) (float64, bool) {
	if len(cs.exactMedianBuf) > 0 && !cs.exactMedianOverflowed {
		sorted := append([]float64(nil), cs.exactMedianBuf...)
		sort.Float64s(sorted)
		mid := len(sorted) / 2
		if len(sorted)%2 == 1 {
			return sorted[mid], true
		}
		return (sorted[mid-1] + sorted[mid]) / 2, true
	}
	return cs.tracker.P2Median.Quantile()
}

// buildUniqueValues applies the column-level unique-values rule (spec.md
// §4.G): Phi and HighCardinality columns never list values; Recode columns
// list their sorted synthetic labels; Safe/Warning columns list only
// originals that individually survive length, k-anonymity and the
// value-pattern matcher.
// The second return value counts values excluded from the export by the
// k-anonymity/length/pattern gate (Safe/Warning columns only) -- fed to
// internal/metrics as the cells-suppressed counter.
func buildUniqueValues(cs *columnState, registry *privacy.RecodeRegistry, k uint64) ([]types.SafeValue, int) {
	switch cs.classification {
	case types.ClassPhi, types.ClassHighCardinality:
		return nil, 0
	case types.ClassRecode:
		labels, ok := registry.RecodedValues(cs.index)
		if !ok || len(labels) == 0 {
			return nil, 0
		}
		out := make([]types.SafeValue, len(labels))
		for i, l := range labels {
			out[i] = types.ShortStringValue(l)
		}
		return out, 0
	default:
		values := cs.tracker.UniqueTracker.Values()
		if len(values) == 0 {
			return nil, 0
		}
		var out []string
		excluded := 0
		for _, v := range values {
			count := cs.tracker.UniqueTracker.Count(v)
			if privacy.IsSafeForExport(v, count, k, cs.classification) {
				out = append(out, v)
			} else {
				excluded++
			}
		}
		if len(out) == 0 {
			return nil, excluded
		}
		sort.Strings(out)
		result := make([]types.SafeValue, len(out))
		for i, v := range out {
			result[i] = types.ShortStringValue(v)
		}
		return result, excluded
	}
}
