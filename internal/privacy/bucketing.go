package privacy

import "manifest-extractor/internal/types"

// BucketCount maps a count into one of the privacy-safe ranges spec.md §4
// defines for bucketed counts: 0 and 1 stay exact, 2 through 5 become
// "2-5", and larger counts fall into progressively wider ranges.
func BucketCount(n uint64) string {
	switch {
	case n == 0:
		return "0"
	case n == 1:
		return "1"
	case n <= 5:
		return "2-5"
	case n <= 10:
		return "6-10"
	case n <= 20:
		return "11-20"
	case n <= 100:
		return "21-100"
	case n <= 1000:
		return "101-1000"
	default:
		return ">1000"
	}
}

// SafeCount converts a count into a SafeValue, bucketing it when bucket is
// true and emitting the exact integer otherwise.
func SafeCount(n uint64, bucket bool) types.SafeValue {
	if bucket {
		return types.ShortStringValue(BucketCount(n))
	}
	return types.Integer(int64(n))
}
