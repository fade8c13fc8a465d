package privacy

import (
	"testing"

	"manifest-extractor/internal/types"
)

func TestBucketCount(t *testing.T) {
	cases := map[uint64]string{
		0: "0", 1: "1", 2: "2-5", 3: "2-5", 5: "2-5", 6: "6-10", 10: "6-10",
		11: "11-20", 20: "11-20", 21: "21-100", 50: "21-100", 100: "21-100",
		101: "101-1000", 500: "101-1000", 1000: "101-1000",
		1001: ">1000", 10000: ">1000", 1000000: ">1000",
	}
	for n, want := range cases {
		if got := BucketCount(n); got != want {
			t.Errorf("BucketCount(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestSafeCountBucketed(t *testing.T) {
	got := SafeCount(15, true)
	want := types.ShortStringValue("11-20")
	if !got.Equal(want) {
		t.Errorf("SafeCount(15, true) = %+v, want %+v", got, want)
	}
}

func TestSafeCountExact(t *testing.T) {
	got := SafeCount(15, false)
	want := types.Integer(15)
	if !got.Equal(want) {
		t.Errorf("SafeCount(15, false) = %+v, want %+v", got, want)
	}
}
