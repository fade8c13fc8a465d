package types

import (
	"encoding/json"
	"testing"
)

func TestSafeValueJSONRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		v    SafeValue
		want string
	}{
		{"integer", Integer(42), `{"type":"integer","value":42}`},
		{"float", Float(3.5), `{"type":"float","value":3.5}`},
		{"boolean", Boolean(true), `{"type":"boolean","value":true}`},
		{"short_string", ShortStringValue("Male"), `{"type":"short_string","value":"Male"}`},
		{"suppressed", Suppressed("Count 3 below k-anonymity 5"), `{"type":"suppressed","value":{"reason":"Count 3 below k-anonymity 5"}}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := json.Marshal(c.v)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(got) != c.want {
				t.Errorf("Marshal(%s) = %s, want %s", c.name, got, c.want)
			}
			var back SafeValue
			if err := json.Unmarshal(got, &back); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if !back.Equal(c.v) {
				t.Errorf("round-trip mismatch: got %+v, want %+v", back, c.v)
			}
		})
	}
}

func TestFromStringSuppressesOverLength(t *testing.T) {
	long := make([]byte, MaxShortStringLen+1)
	for i := range long {
		long[i] = 'a'
	}
	v := FromString(string(long), "too long")
	if !v.IsSuppressed() {
		t.Fatalf("expected Suppressed for %d-byte string, got kind %v", len(long), v.Kind())
	}

	short := string(long[:MaxShortStringLen])
	v2 := FromString(short, "too long")
	if v2.IsSuppressed() {
		t.Fatalf("expected ShortString for %d-byte string", len(short))
	}
}

func TestFileFormatFromExtension(t *testing.T) {
	cases := map[string]FileFormat{
		"csv": FormatCSV, "tsv": FormatTSV, "tab": FormatTSV,
		"xlsx": FormatExcel, "xls": FormatExcel, "xlsm": FormatExcel, "xlsb": FormatExcel,
	}
	for ext, want := range cases {
		got, ok := FileFormatFromExtension(ext)
		if !ok || got != want {
			t.Errorf("FileFormatFromExtension(%q) = %q, %v; want %q, true", ext, got, ok, want)
		}
	}
	if _, ok := FileFormatFromExtension("docx"); ok {
		t.Errorf("expected unsupported format for .docx")
	}
}

func TestManifestSchemaDefaults(t *testing.T) {
	m := NewManifestSchema("patients.csv", FormatCSV)
	if m.Version != SchemaVersion {
		t.Errorf("version = %q, want %q", m.Version, SchemaVersion)
	}
	if m.Options.KAnonymity != DefaultKAnonymity {
		t.Errorf("default k_anonymity = %d, want %d", m.Options.KAnonymity, DefaultKAnonymity)
	}
}
