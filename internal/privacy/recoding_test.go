package privacy

import (
	"strings"
	"testing"
)

func TestIndexToLabel(t *testing.T) {
	cases := map[int]string{0: "A", 1: "B", 25: "Z", 26: "AA", 27: "AB", 51: "AZ", 52: "BA"}
	for idx, want := range cases {
		if got := indexToLabel(idx); got != want {
			t.Errorf("indexToLabel(%d) = %q, want %q", idx, got, want)
		}
	}
}

func TestValueRecoder(t *testing.T) {
	r := NewValueRecoder("Site")

	if got := r.Recode("YVR-003"); got != "Site_A" {
		t.Errorf("Recode(YVR-003) = %q, want Site_A", got)
	}
	if got := r.Recode("YYC-001"); got != "Site_B" {
		t.Errorf("Recode(YYC-001) = %q, want Site_B", got)
	}
	if got := r.Recode("YVR-003"); got != "Site_A" {
		t.Errorf("Recode(YVR-003) second call = %q, want Site_A (deterministic)", got)
	}
	if got := r.Recode("YEG-002"); got != "Site_C" {
		t.Errorf("Recode(YEG-002) = %q, want Site_C", got)
	}
	if r.Count() != 3 {
		t.Errorf("Count() = %d, want 3", r.Count())
	}
}

func TestRecodeRegistry(t *testing.T) {
	reg := NewRecodeRegistry()
	reg.RegisterColumn(5, "site_code", "Site")

	if !reg.IsRecoded(5) {
		t.Error("IsRecoded(5) = false, want true")
	}
	if reg.IsRecoded(0) {
		t.Error("IsRecoded(0) = true, want false")
	}

	if got, ok := reg.Recode(5, "YVR-003"); !ok || got != "Site_A" {
		t.Errorf("Recode(5, YVR-003) = %q, %v; want Site_A, true", got, ok)
	}
	if got, ok := reg.Recode(5, "YYC-001"); !ok || got != "Site_B" {
		t.Errorf("Recode(5, YYC-001) = %q, %v; want Site_B, true", got, ok)
	}
	if _, ok := reg.Recode(0, "test"); ok {
		t.Error("Recode(0, ...) ok = true, want false for unregistered column")
	}
}

func TestRecodeRegistry_MergeFrom(t *testing.T) {
	a := NewRecodeRegistry()
	a.RegisterColumn(0, "hospital", "Hospital")
	a.Recode(0, "St Mary")

	b := NewRecodeRegistry()
	b.RegisterColumn(0, "hospital", "Hospital")
	b.Recode(0, "General")

	combined := NewRecodeRegistry()
	combined.MergeFrom(a, 0, "SheetA: ")
	combined.MergeFrom(b, 100, "SheetB: ")

	if !combined.IsRecoded(0) || !combined.IsRecoded(100) {
		t.Fatalf("expected both offset columns to be recoded: %+v", combined.recoders)
	}
	if got, ok := combined.Recode(0, "St Mary"); !ok || got != "Hospital_A" {
		t.Errorf("merged column 0 recode = %q, %v; want Hospital_A, true", got, ok)
	}
	if got, ok := combined.Recode(100, "General"); !ok || got != "Hospital_A" {
		t.Errorf("merged column 100 recode = %q, %v; want Hospital_A, true", got, ok)
	}

	content := combined.GenerateSidekickContent("2026-07-31 00:00:00 UTC")
	if !strings.Contains(content, "SheetA: hospital") {
		t.Errorf("expected merged sidekick to carry the SheetA name prefix: %s", content)
	}
	if !strings.Contains(content, "SheetB: hospital") {
		t.Errorf("expected merged sidekick to carry the SheetB name prefix: %s", content)
	}
}

func TestSidekickContent(t *testing.T) {
	reg := NewRecodeRegistry()
	reg.RegisterColumn(5, "site_code", "Site")
	reg.Recode(5, "Vancouver General")
	reg.Recode(5, "Calgary Foothills")

	content := reg.GenerateSidekickContent("2026-07-31 00:00:00 UTC")
	if !strings.Contains(content, "Column 6: site_code") {
		t.Errorf("sidekick content missing column header: %s", content)
	}
	if !strings.Contains(content, "Site_A = ") || !strings.Contains(content, "Site_B = ") {
		t.Errorf("sidekick content missing recoded labels: %s", content)
	}
}
