package inference

import "manifest-extractor/internal/types"

// freeTextLenThreshold and freeTextCountTrigger define when a String
// column is absorbed into FreeText (spec.md §4.B): once more than ten
// post-sample values have been longer than freeTextLenThreshold or
// multi-line, the column is upgraded for good.
const (
	freeTextLenThreshold = 100
	freeTextCountTrigger = 10
)

// TypeInferencer drives pass 1 (sampling up to TypeInferenceSampleSize
// non-missing values and performing one initial inference) and pass 2
// (checking each further value against the frozen type and upgrading it
// within the DType lattice when a value demands it).
type TypeInferencer struct {
	currentType          *types.DType
	samples              []string
	maxSamples           int
	valuesSeen           int
	initialInferenceDone bool
	freeTextCount        int
}

// NewTypeInferencer returns an inferencer that samples up to maxSamples
// non-missing values before performing its initial inference.
func NewTypeInferencer(maxSamples int) *TypeInferencer {
	return &TypeInferencer{maxSamples: maxSamples}
}

// Observe feeds one raw cell value. Missing values are ignored entirely;
// during sampling (pass 1) the value is buffered; once the sample is full,
// the initial inference is performed and subsequent values are checked
// against it for an upgrade (pass 2, if the caller keeps calling Observe
// past the sample cutoff rather than switching to UpgradeIfNeeded directly).
func (t *TypeInferencer) Observe(value string) {
	if IsMissing(value) {
		return
	}
	t.valuesSeen++

	if !t.initialInferenceDone {
		if len(t.samples) < t.maxSamples {
			t.samples = append(t.samples, value)
		}
		if len(t.samples) >= t.maxSamples {
			t.FinalizeInitialInference()
		}
		return
	}

	t.UpgradeTypeIfNeeded(value)
}

// FinalizeInitialInference performs the initial inference over whatever
// samples have accumulated so far, even if fewer than maxSamples were seen
// (e.g. the column has fewer rows than the sample cap). Idempotent.
func (t *TypeInferencer) FinalizeInitialInference() {
	if t.initialInferenceDone {
		return
	}
	t.performInitialInference()
	t.initialInferenceDone = true
}

// InferredType returns the current best-guess type, performing the initial
// inference first if it has not happened yet (e.g. the file ended before the
// sample filled).
func (t *TypeInferencer) InferredType() types.DType {
	if !t.initialInferenceDone {
		t.FinalizeInitialInference()
	}
	if t.currentType == nil {
		return types.DTypeString
	}
	return *t.currentType
}

// performInitialInference picks the most specific type every sampled value
// satisfies, in order boolean -> integer -> numeric -> datetime -> date ->
// string. An empty sample defaults to string.
func (t *TypeInferencer) performInitialInference() {
	dt := types.DTypeString
	switch {
	case len(t.samples) == 0:
		// no non-missing values observed; default to string.
	case t.allBoolean():
		dt = types.DTypeBoolean
	case t.allInteger():
		dt = types.DTypeInteger
	case t.allNumeric():
		dt = types.DTypeNumeric
	case t.allDatetime():
		dt = types.DTypeDatetime
	case t.allDate():
		dt = types.DTypeDate
	}
	t.currentType = &dt
}

// UpgradeTypeIfNeeded checks one post-sample value against the frozen
// current type, widening it within the lattice if the value demands it, and
// tracks the free-text absorption counter for String columns.
func (t *TypeInferencer) UpgradeTypeIfNeeded(value string) {
	if IsMissing(value) {
		return
	}
	if t.currentType == nil {
		t.FinalizeInitialInference()
	}

	switch *t.currentType {
	case types.DTypeBoolean:
		if !IsBoolean(value) {
			t.widenTo(types.DTypeString)
		}
	case types.DTypeInteger:
		if !IsInteger(value) {
			if IsNumeric(value) {
				t.widenTo(types.DTypeNumeric)
			} else {
				t.widenTo(types.DTypeString)
			}
		}
	case types.DTypeNumeric:
		if !IsNumeric(value) {
			t.widenTo(types.DTypeString)
		}
	case types.DTypeDate:
		if !IsDate(value) {
			if IsDatetime(value) {
				t.widenTo(types.DTypeDatetime)
			} else {
				t.widenTo(types.DTypeString)
			}
		}
	case types.DTypeDatetime:
		if !IsDatetime(value) {
			t.widenTo(types.DTypeString)
		}
	case types.DTypeString, types.DTypeFreeText:
		if len(value) > freeTextLenThreshold || containsNewline(value) {
			t.freeTextCount++
		}
		if *t.currentType == types.DTypeString && t.freeTextCount > freeTextCountTrigger {
			t.widenTo(types.DTypeFreeText)
		}
	}
}

func (t *TypeInferencer) widenTo(dt types.DType) {
	t.currentType = &dt
}

func containsNewline(s string) bool {
	for _, r := range s {
		if r == '\n' {
			return true
		}
	}
	return false
}

func (t *TypeInferencer) allBoolean() bool {
	for _, s := range t.samples {
		if !IsBoolean(s) {
			return false
		}
	}
	return true
}

func (t *TypeInferencer) allInteger() bool {
	for _, s := range t.samples {
		if !IsInteger(s) {
			return false
		}
	}
	return true
}

func (t *TypeInferencer) allNumeric() bool {
	for _, s := range t.samples {
		if !IsNumeric(s) {
			return false
		}
	}
	return true
}

func (t *TypeInferencer) allDate() bool {
	for _, s := range t.samples {
		if !IsDate(s) {
			return false
		}
	}
	return true
}

func (t *TypeInferencer) allDatetime() bool {
	for _, s := range t.samples {
		if !IsDatetime(s) {
			return false
		}
	}
	return true
}
