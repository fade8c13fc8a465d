package main

import (
	"testing"

	"manifest-extractor/internal/types"
)

func TestDefaultOutputPath(t *testing.T) {
	cases := map[string]string{
		"patients.csv":        "patients.manifest.json",
		"/tmp/data.xlsx":      "data.manifest.json",
		"relative/sheet.tsv":  "sheet.manifest.json",
		"no-extension-at-all": "no-extension-at-all.manifest.json",
	}
	for in, want := range cases {
		if got := defaultOutputPath(in); got != want {
			t.Errorf("defaultOutputPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSidekickPathFor(t *testing.T) {
	cases := map[string]string{
		"patients.manifest.json": "patients.manifest.recode.txt",
		"/tmp/out.json":          "/tmp/out.recode.txt",
	}
	for in, want := range cases {
		if got := sidekickPathFor(in); got != want {
			t.Errorf("sidekickPathFor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewRootCmd_HasScanSubcommand(t *testing.T) {
	root := newRootCmd()
	found := false
	for _, c := range root.Commands() {
		if c.Name() == "scan" {
			found = true
		}
	}
	if !found {
		t.Error("expected root command to register a scan subcommand")
	}
}

func TestApplyFlagOverrides_OnlyChangedFlagsWin(t *testing.T) {
	cmd := newScanCmd()
	opts := types.ProcessingOptions{KAnonymity: 5, BucketCounts: true, HashFile: true}

	if err := cmd.Flags().Set("k-anonymity", "10"); err != nil {
		t.Fatalf("set k-anonymity: %v", err)
	}

	applyFlagOverrides(cmd, &opts, 10, true, false, false, true, false)

	if opts.KAnonymity != 10 {
		t.Errorf("KAnonymity = %d, want 10 (flag was changed)", opts.KAnonymity)
	}
	if !opts.BucketCounts {
		t.Error("BucketCounts should remain true; flag default value equals config, counts as unset here")
	}
}

func TestApplyFlagOverrides_RelaxedFalseForcesExactFlagsOff(t *testing.T) {
	cmd := newScanCmd()
	opts := types.ProcessingOptions{ExactCounts: true, ExactMedian: true, Relaxed: false}

	applyFlagOverrides(cmd, &opts, 5, true, true, true, true, false)

	if opts.ExactCounts {
		t.Error("ExactCounts should be forced off when relaxed is false")
	}
	if opts.ExactMedian {
		t.Error("ExactMedian should be forced off when relaxed is false")
	}
}

func TestApplyFlagOverrides_RelaxedTrueAllowsExactFlags(t *testing.T) {
	cmd := newScanCmd()
	opts := types.ProcessingOptions{}

	if err := cmd.Flags().Set("relaxed", "true"); err != nil {
		t.Fatalf("set relaxed: %v", err)
	}
	if err := cmd.Flags().Set("exact-counts", "true"); err != nil {
		t.Fatalf("set exact-counts: %v", err)
	}

	applyFlagOverrides(cmd, &opts, 5, true, true, false, true, true)

	if !opts.Relaxed {
		t.Error("Relaxed should be true")
	}
	if !opts.ExactCounts {
		t.Error("ExactCounts should be true when relaxed is true and the flag was set")
	}
}
