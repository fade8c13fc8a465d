// Package readers adapts each supported file format into the common
// two-pass column pipeline: pass 1 samples values for type inference, pass
// 2 accumulates statistics and per-value classification (spec.md §4.H).
package readers

import (
	"path/filepath"
	"strings"

	"manifest-extractor/internal/errs"
	"manifest-extractor/internal/logger"
	"manifest-extractor/internal/metrics"
	"manifest-extractor/internal/privacy"
	"manifest-extractor/internal/types"
)

// DataReader is the common interface every format adaptor implements.
type DataReader interface {
	// Read extracts the sheet schemas for the file, discarding any recode
	// registry that was built along the way.
	Read(options types.ProcessingOptions) ([]types.SheetSchema, error)
	// ReadWithRecoding extracts the sheet schemas plus the registry of
	// per-column recoders used while reading, needed to emit the sidekick
	// mapping file.
	ReadWithRecoding(options types.ProcessingOptions) ([]types.SheetSchema, *privacy.RecodeRegistry, error)
}

// NewReader builds the DataReader matching path's extension. log is
// threaded down to record the "open"/"pass1"/"pass2"/"classify"/"recode"
// actions of spec.md §4.H; it is the caller's logger (schema.Extract passes
// its own), never a package-level global. m is the optional run-metrics
// sink (internal/metrics); either argument may be nil.
func NewReader(path string, log *logger.Logger, m *metrics.Metrics) (DataReader, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	format, ok := types.FileFormatFromExtension(ext)
	if !ok {
		return nil, errs.UnsupportedFormat(ext)
	}

	switch format {
	case types.FormatCSV:
		return NewCSVReader(path, ',', log, m), nil
	case types.FormatTSV:
		return NewCSVReader(path, '\t', log, m), nil
	case types.FormatExcel:
		return NewExcelReader(path, log, m), nil
	default:
		return nil, errs.UnsupportedFormat(ext)
	}
}

// determineRecodePrefix picks the sidekick label prefix for a recoded
// column from its name, falling back to "Site" for anything else.
func determineRecodePrefix(columnName string) string {
	lower := strings.ToLower(columnName)
	switch {
	case strings.Contains(lower, "hospital"):
		return "Hospital"
	case strings.Contains(lower, "clinic"):
		return "Clinic"
	case strings.Contains(lower, "facility"):
		return "Facility"
	case strings.Contains(lower, "center"), strings.Contains(lower, "centre"):
		return "Center"
	case strings.Contains(lower, "location"):
		return "Location"
	default:
		return "Site"
	}
}

// applyHighCardinalityOverride widens classification to HighCardinality
// once a column's unique-value tracker has sealed, unless the column was
// already marked Phi or Recode -- those classifications are more specific
// than a cardinality observation and must not be clobbered by it. Both the
// CSV/TSV and Excel readers apply this same guard (spec.md §9).
func applyHighCardinalityOverride(classification types.Classification, sealed bool) types.Classification {
	if sealed && classification != types.ClassRecode && classification != types.ClassPhi {
		return types.ClassHighCardinality
	}
	return classification
}

// columnNameValue builds the exported column-name SafeValue: a Phi column
// never exports its own name, everything else exports it subject to the
// short-string length cap.
func columnNameValue(header string, classification types.Classification) types.SafeValue {
	if classification == types.ClassPhi {
		return types.Suppressed("Column name matches PHI pattern")
	}
	return types.FromString(header, "Column name too long")
}
