package privacy

import (
	"fmt"

	"manifest-extractor/internal/types"
)

// SuppressionKind tags why a value was suppressed.
type SuppressionKind string

const (
	SuppressionBelowK          SuppressionKind = "below_k_threshold"
	SuppressionPhiColumn       SuppressionKind = "phi_column"
	SuppressionPhiValue        SuppressionKind = "phi_value"
	SuppressionTooLong         SuppressionKind = "too_long"
	SuppressionHighCardinality SuppressionKind = "high_cardinality"
)

// SuppressionReason explains why a value was replaced with a Suppressed
// SafeValue, carrying enough detail to render a human-readable message.
type SuppressionReason struct {
	Kind        SuppressionKind
	Count       uint64
	K           uint64
	Pattern     string
	Description string
	Length      int
	Max         int
}

// String renders the reason the way it is written into SafeValue.Suppressed
// and into column warnings.
func (r SuppressionReason) String() string {
	switch r.Kind {
	case SuppressionBelowK:
		return fmt.Sprintf("Count %d below k-anonymity threshold %d", r.Count, r.K)
	case SuppressionPhiColumn:
		return fmt.Sprintf("Column matches PHI pattern '%s'", r.Pattern)
	case SuppressionPhiValue:
		return fmt.Sprintf("%s (pattern: %s)", r.Description, r.Pattern)
	case SuppressionTooLong:
		return fmt.Sprintf("Value length %d exceeds maximum %d", r.Length, r.Max)
	case SuppressionHighCardinality:
		return "High cardinality column; unique values suppressed"
	default:
		return "suppressed"
	}
}

// ShouldSuppressValue decides whether value must be suppressed, checking in
// order: the column's own PHI classification, value length, k-anonymity,
// then the value-pattern recognisers. The first clause that fires wins.
func ShouldSuppressValue(value string, count, k uint64, columnClassification types.Classification, phiPattern string) (SuppressionReason, bool) {
	if columnClassification == types.ClassPhi {
		pattern := phiPattern
		if pattern == "" {
			pattern = "unknown"
		}
		return SuppressionReason{Kind: SuppressionPhiColumn, Pattern: pattern}, true
	}

	if len(value) > types.MaxShortStringLen {
		return SuppressionReason{Kind: SuppressionTooLong, Length: len(value), Max: types.MaxShortStringLen}, true
	}

	if count < k {
		return SuppressionReason{Kind: SuppressionBelowK, Count: count, K: k}, true
	}

	result := CheckValuePattern(value)
	if result.IsPHI {
		pattern := result.Pattern
		if pattern == "" {
			pattern = "unknown"
		}
		description := result.Description
		if description == "" {
			description = "PHI detected"
		}
		return SuppressionReason{Kind: SuppressionPhiValue, Pattern: pattern, Description: description}, true
	}

	return SuppressionReason{}, false
}

// SafeStringValue builds a SafeValue from value, suppressing it per
// ShouldSuppressValue's rules or emitting a ShortString otherwise.
func SafeStringValue(value string, count, k uint64, columnClassification types.Classification, phiPattern string) types.SafeValue {
	if reason, suppress := ShouldSuppressValue(value, count, k, columnClassification, phiPattern); suppress {
		return types.Suppressed(reason.String())
	}
	return types.ShortStringValue(value)
}

// IsSafeForExport reports whether value passes every suppression check, for
// deciding inclusion in a column's unique-values list.
func IsSafeForExport(value string, count, k uint64, columnClassification types.Classification) bool {
	_, suppress := ShouldSuppressValue(value, count, k, columnClassification, "")
	return !suppress
}
