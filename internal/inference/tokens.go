// Package inference implements the token classifier (spec.md §4.C) and the
// sample-then-upgrade type inferencer (spec.md §4.B) that drives the column
// pipeline's pass 1 (type inference) and pass 2 (type-upgrade checks).
package inference

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// trueTokens and falseTokens are the case-insensitive boolean recognisers.
var (
	trueTokens  = map[string]struct{}{"true": {}, "yes": {}, "y": {}, "1": {}, "t": {}}
	falseTokens = map[string]struct{}{"false": {}, "no": {}, "n": {}, "0": {}, "f": {}}
)

// MissingTokens are the case-insensitive missing-value sentinels (spec.md §4.C).
var MissingTokens = []string{
	"", "NA", "N/A", "NULL", "NaN", ".", "-", "--", "missing", "None",
	"#N/A", "#VALUE!", "#REF!", "#DIV/0!", "#NUM!", "#NAME?", "#NULL!",
}

var missingTokensLower = lowerSet(MissingTokens)

func lowerSet(tokens []string) map[string]struct{} {
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[strings.ToLower(t)] = struct{}{}
	}
	return m
}

// datePattern pairs a shape regex with the layout(s) that must successfully
// parse the trimmed value for it to count as a date. Multiple layouts cover
// the regex's "3-9 letter month name" case, which a single Go layout string
// cannot express.
type datePattern struct {
	re      *regexp.Regexp
	layouts []string
}

var datePatterns = []datePattern{
	{regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), []string{"2006-01-02"}},
	{regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`), []string{"1/2/2006"}},
	{regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{4}$`), []string{"2-1-2006"}},
	{regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2}$`), []string{"1/2/06"}},
	{regexp.MustCompile(`^[A-Za-z]{3,9}\s+\d{1,2},?\s+\d{4}$`), []string{
		"January 2, 2006", "January 2 2006", "Jan 2, 2006", "Jan 2 2006",
	}},
	{regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}$`), []string{"2006.01.02"}},
}

// datetimePatterns are checked by shape only (spec.md §4.C and the original
// implementation both treat datetime recognition as regex-only, unlike
// is_date which also verifies an actual parse).
var datetimePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}$`),
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}Z$`),
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}\.\d+$`),
}

// IsMissing reports whether value (after trimming whitespace) is one of the
// case-insensitive missing-value tokens. Note "0" is never missing.
func IsMissing(value string) bool {
	trimmed := strings.TrimSpace(value)
	_, ok := missingTokensLower[strings.ToLower(trimmed)]
	return ok
}

// IsBoolean reports whether value is a recognised boolean token.
func IsBoolean(value string) bool {
	lower := strings.ToLower(strings.TrimSpace(value))
	if _, ok := trueTokens[lower]; ok {
		return true
	}
	_, ok := falseTokens[lower]
	return ok
}

// IsInteger reports whether value parses as a signed 64-bit integer.
func IsInteger(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false
	}
	_, err := strconv.ParseInt(trimmed, 10, 64)
	return err == nil
}

// IsNumeric reports whether value parses as a 64-bit float (integers included).
func IsNumeric(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false
	}
	_, err := strconv.ParseFloat(trimmed, 64)
	return err == nil
}

// ParseNumeric parses value as a float64, returning ok=false on failure.
func ParseNumeric(value string) (float64, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// IsDate reports whether value's shape matches one of the date patterns and
// the matched layout actually parses it (rejecting e.g. 2024-02-30).
func IsDate(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false
	}
	for _, dp := range datePatterns {
		if !dp.re.MatchString(trimmed) {
			continue
		}
		for _, layout := range dp.layouts {
			if _, err := time.Parse(layout, trimmed); err == nil {
				return true
			}
		}
	}
	return false
}

// IsDatetime reports whether value's shape matches one of the datetime
// patterns. A datetime must carry a time component; a pure date does not
// qualify.
func IsDatetime(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false
	}
	for _, re := range datetimePatterns {
		if re.MatchString(trimmed) {
			return true
		}
	}
	return false
}
