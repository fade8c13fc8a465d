// Package types holds the data model shared by the extraction pipeline:
// the SafeValue tagged union, the DType and Classification lattices, and
// the ColumnSchema/SheetSchema/ManifestSchema tree that is the pipeline's
// final output.
package types

import (
	"encoding/json"
	"fmt"
)

// Tunables shared across the pipeline. The sampling cap and the unique-value
// cap are kept coupled (see DESIGN.md, Open Question 1).
const (
	MaxShortStringLen       = 32
	MaxUniqueValues         = 2000
	DefaultKAnonymity       = 5
	TypeInferenceSampleSize = MaxUniqueValues
)

// SafeValueKind tags the variant of a SafeValue.
type SafeValueKind string

const (
	KindInteger     SafeValueKind = "integer"
	KindFloat       SafeValueKind = "float"
	KindBoolean     SafeValueKind = "boolean"
	KindShortString SafeValueKind = "short_string"
	KindSuppressed  SafeValueKind = "suppressed"
)

// SafeValue is the universal output cell: a tagged union with variants
// Integer, Float, Boolean, ShortString (|s| <= MaxShortStringLen) and
// Suppressed{Reason}. No variant may carry a string longer than
// MaxShortStringLen, nor a string that bypassed the suppression engine.
type SafeValue struct {
	kind       SafeValueKind
	intVal     int64
	floatVal   float64
	boolVal    bool
	stringVal  string
	suppressed string
}

// Integer constructs an Integer SafeValue.
func Integer(v int64) SafeValue { return SafeValue{kind: KindInteger, intVal: v} }

// Float constructs a Float SafeValue.
func Float(v float64) SafeValue { return SafeValue{kind: KindFloat, floatVal: v} }

// Boolean constructs a Boolean SafeValue.
func Boolean(v bool) SafeValue { return SafeValue{kind: KindBoolean, boolVal: v} }

// ShortStringValue constructs a ShortString SafeValue without enforcing the
// length cap; callers that have not already validated length should use
// FromString instead.
func ShortStringValue(s string) SafeValue { return SafeValue{kind: KindShortString, stringVal: s} }

// Suppressed constructs a Suppressed SafeValue with the given reason.
func Suppressed(reason string) SafeValue { return SafeValue{kind: KindSuppressed, suppressed: reason} }

// FromString builds a SafeValue from a raw string, automatically suppressing
// it with reasonIfTooLong when it exceeds MaxShortStringLen.
func FromString(s, reasonIfTooLong string) SafeValue {
	if len(s) > MaxShortStringLen {
		return Suppressed(reasonIfTooLong)
	}
	return ShortStringValue(s)
}

// Kind reports the variant tag.
func (v SafeValue) Kind() SafeValueKind { return v.kind }

// IsSuppressed reports whether this value is the Suppressed variant.
func (v SafeValue) IsSuppressed() bool { return v.kind == KindSuppressed }

// StringVal returns the ShortString payload and whether the variant matched.
func (v SafeValue) StringVal() (string, bool) {
	return v.stringVal, v.kind == KindShortString
}

// Equal reports whether two SafeValues carry the same variant and payload.
func (v SafeValue) Equal(o SafeValue) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInteger:
		return v.intVal == o.intVal
	case KindFloat:
		return v.floatVal == o.floatVal
	case KindBoolean:
		return v.boolVal == o.boolVal
	case KindShortString:
		return v.stringVal == o.stringVal
	case KindSuppressed:
		return v.suppressed == o.suppressed
	default:
		return false
	}
}

// safeValueWire is the {"type":..., "value":...} adjacently-tagged wire
// format (spec.md §6): absent optional fields are omitted, not null.
type safeValueWire struct {
	Type  SafeValueKind `json:"type"`
	Value any           `json:"value"`
}

type suppressedWire struct {
	Reason string `json:"reason"`
}

// MarshalJSON implements the {"type":"...","value":...} wire shape.
func (v SafeValue) MarshalJSON() ([]byte, error) {
	w := safeValueWire{Type: v.kind}
	switch v.kind {
	case KindInteger:
		w.Value = v.intVal
	case KindFloat:
		w.Value = v.floatVal
	case KindBoolean:
		w.Value = v.boolVal
	case KindShortString:
		w.Value = v.stringVal
	case KindSuppressed:
		w.Value = suppressedWire{Reason: v.suppressed}
	default:
		return nil, fmt.Errorf("types: SafeValue has no kind set")
	}
	return json.Marshal(w)
}

// UnmarshalJSON parses the {"type":"...","value":...} wire shape.
func (v *SafeValue) UnmarshalJSON(data []byte) error {
	var w struct {
		Type  SafeValueKind   `json:"type"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Type {
	case KindInteger:
		var n int64
		if err := json.Unmarshal(w.Value, &n); err != nil {
			return err
		}
		*v = Integer(n)
	case KindFloat:
		var f float64
		if err := json.Unmarshal(w.Value, &f); err != nil {
			return err
		}
		*v = Float(f)
	case KindBoolean:
		var b bool
		if err := json.Unmarshal(w.Value, &b); err != nil {
			return err
		}
		*v = Boolean(b)
	case KindShortString:
		var s string
		if err := json.Unmarshal(w.Value, &s); err != nil {
			return err
		}
		*v = ShortStringValue(s)
	case KindSuppressed:
		var sw suppressedWire
		if err := json.Unmarshal(w.Value, &sw); err != nil {
			return err
		}
		*v = Suppressed(sw.Reason)
	default:
		return fmt.Errorf("types: unknown SafeValue kind %q", w.Type)
	}
	return nil
}

// DType is the inferred type of a column, drawn from the lattice
// Boolean ⊏ Integer ⊏ Numeric, Date ⊏ Datetime, String ⊏ FreeText.
type DType string

const (
	DTypeInteger  DType = "integer"
	DTypeNumeric  DType = "numeric"
	DTypeString   DType = "string"
	DTypeDate     DType = "date"
	DTypeDatetime DType = "datetime"
	DTypeBoolean  DType = "boolean"
	DTypeFreeText DType = "free_text"
)

// Classification is the privacy verdict on a column.
type Classification string

const (
	ClassSafe            Classification = "safe"
	ClassWarning         Classification = "warning"
	ClassPhi             Classification = "phi"
	ClassRecode          Classification = "recode"
	ClassHighCardinality Classification = "high_cardinality"
)

// ColumnStats holds optional per-column aggregates. Count fields are
// SafeValues so they may be bucketed; numeric summaries are raw float64
// (they are themselves k-anonymous aggregates, not individual values).
type ColumnStats struct {
	Count        *SafeValue `json:"count,omitempty"`
	MissingCount *SafeValue `json:"missing_count,omitempty"`
	Min          *SafeValue `json:"min,omitempty"`
	Max          *SafeValue `json:"max,omitempty"`
	Mean         *float64   `json:"mean,omitempty"`
	StdDev       *float64   `json:"std_dev,omitempty"`
	Median       *float64   `json:"median,omitempty"`
	UniqueCount  *SafeValue `json:"unique_count,omitempty"`
}

// ColumnSchema describes one column of a sheet.
type ColumnSchema struct {
	Name           SafeValue      `json:"name"`
	Index          int            `json:"index"`
	DType          DType          `json:"dtype"`
	Classification Classification `json:"classification"`
	Stats          *ColumnStats   `json:"stats,omitempty"`
	UniqueValues   []SafeValue    `json:"unique_values,omitempty"`
	Warnings       []string       `json:"warnings,omitempty"`
}

// NewColumnSchema builds a ColumnSchema defaulting to Safe classification.
func NewColumnSchema(name SafeValue, index int, dtype DType) ColumnSchema {
	return ColumnSchema{
		Name:           name,
		Index:          index,
		DType:          dtype,
		Classification: ClassSafe,
	}
}

// SheetSchema describes one sheet (Excel) or the whole file (CSV/TSV).
type SheetSchema struct {
	Name     string         `json:"name"`
	Index    int            `json:"index"`
	RowCount SafeValue      `json:"row_count"`
	Columns  []ColumnSchema `json:"columns"`
	Warnings []string       `json:"warnings,omitempty"`
}

// NewSheetSchema builds an empty SheetSchema with row_count 0.
func NewSheetSchema(name string, index int) SheetSchema {
	return SheetSchema{
		Name:     name,
		Index:    index,
		RowCount: Integer(0),
		Columns:  []ColumnSchema{},
	}
}

// FileFormat is the detected source format.
type FileFormat string

const (
	FormatCSV   FileFormat = "csv"
	FormatTSV   FileFormat = "tsv"
	FormatExcel FileFormat = "excel"
)

// FileFormatFromExtension maps a (dot-less) file extension to a FileFormat,
// per spec.md §6: csv -> ',' ; tsv|tab -> '\t' ; xlsx|xls|xlsm|xlsb -> workbook.
func FileFormatFromExtension(ext string) (FileFormat, bool) {
	switch ext {
	case "csv":
		return FormatCSV, true
	case "tsv", "tab":
		return FormatTSV, true
	case "xlsx", "xls", "xlsm", "xlsb":
		return FormatExcel, true
	default:
		return "", false
	}
}

// ProcessingOptions are the consumed knobs described in spec.md §6.
type ProcessingOptions struct {
	KAnonymity   uint64 `json:"k_anonymity"`
	BucketCounts bool   `json:"bucket_counts"`
	ExactCounts  bool   `json:"exact_counts"`
	ExactMedian  bool   `json:"exact_median"`
	HashFile     bool   `json:"hash_file"`
	Relaxed      bool   `json:"relaxed"`
}

// DefaultProcessingOptions returns the spec.md §6 defaults.
func DefaultProcessingOptions() ProcessingOptions {
	return ProcessingOptions{
		KAnonymity:   DefaultKAnonymity,
		BucketCounts: true,
		ExactCounts:  false,
		ExactMedian:  false,
		HashFile:     true,
		Relaxed:      false,
	}
}

// ManifestSchema is the top-level output tree (spec.md §3, §6).
type ManifestSchema struct {
	Version  string            `json:"version"`
	FileName string            `json:"file_name"`
	FileHash *string           `json:"file_hash,omitempty"`
	Format   FileFormat        `json:"format"`
	Sheets   []SheetSchema     `json:"sheets"`
	Warnings []string          `json:"warnings,omitempty"`
	Options  ProcessingOptions `json:"options"`
}

// SchemaVersion is the manifest schema version emitted in every manifest.
const SchemaVersion = "1.0.0"

// NewManifestSchema builds an empty ManifestSchema with default options.
func NewManifestSchema(fileName string, format FileFormat) ManifestSchema {
	return ManifestSchema{
		Version:  SchemaVersion,
		FileName: fileName,
		Format:   format,
		Sheets:   []SheetSchema{},
		Options:  DefaultProcessingOptions(),
	}
}
