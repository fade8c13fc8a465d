package config

import (
	"os"
	"path/filepath"
	"testing"

	"manifest-extractor/internal/types"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	want := types.DefaultProcessingOptions()
	if cfg.Options != want {
		t.Errorf("Defaults().Options = %+v, want %+v", cfg.Options, want)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
}

func TestLoad_MissingConfigFileFallsBackToDefaults(t *testing.T) {
	cfg := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	want := types.DefaultProcessingOptions()
	if cfg.Options != want {
		t.Errorf("Load() with missing file = %+v, want defaults %+v", cfg.Options, want)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest-config.json")
	content := `{
		"kAnonymity": 10,
		"bucketCounts": false,
		"relaxed": true,
		"exactCounts": true,
		"exactMedian": true,
		"hashFile": false,
		"logLevel": "debug"
	}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg := Load(path)
	if cfg.Options.KAnonymity != 10 {
		t.Errorf("KAnonymity = %d, want 10", cfg.Options.KAnonymity)
	}
	if cfg.Options.BucketCounts {
		t.Error("BucketCounts should be false")
	}
	if !cfg.Options.Relaxed {
		t.Error("Relaxed should be true")
	}
	if !cfg.Options.ExactCounts {
		t.Error("ExactCounts should be true when relaxed is true")
	}
	if !cfg.Options.ExactMedian {
		t.Error("ExactMedian should be true when relaxed is true")
	}
	if cfg.Options.HashFile {
		t.Error("HashFile should be false")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoad_MalformedFileIsIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest-config.json")
	if err := os.WriteFile(path, []byte("{not valid json"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg := Load(path)
	want := types.DefaultProcessingOptions()
	if cfg.Options != want {
		t.Errorf("Load() with malformed file = %+v, want defaults %+v", cfg.Options, want)
	}
}

func TestLoad_RelaxedFalseForcesExactFlagsOff(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest-config.json")
	content := `{"relaxed": false, "exactCounts": true, "exactMedian": true}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg := Load(path)
	if cfg.Options.ExactCounts {
		t.Error("ExactCounts should be forced false when relaxed is false")
	}
	if cfg.Options.ExactMedian {
		t.Error("ExactMedian should be forced false when relaxed is false")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest-config.json")
	content := `{"kAnonymity": 10}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("MANIFEST_K_ANONYMITY", "20")
	t.Setenv("MANIFEST_BUCKET_COUNTS", "false")
	t.Setenv("MANIFEST_LOG_LEVEL", "warn")

	cfg := Load(path)
	if cfg.Options.KAnonymity != 20 {
		t.Errorf("KAnonymity = %d, want 20 (env should win over file)", cfg.Options.KAnonymity)
	}
	if cfg.Options.BucketCounts {
		t.Error("BucketCounts should be false from env")
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestLoad_EnvRelaxedGatesExactFlags(t *testing.T) {
	t.Setenv("MANIFEST_RELAXED", "true")
	t.Setenv("MANIFEST_EXACT_COUNTS", "true")

	cfg := Load(filepath.Join(t.TempDir(), "missing.json"))
	if !cfg.Options.Relaxed {
		t.Error("Relaxed should be true from env")
	}
	if !cfg.Options.ExactCounts {
		t.Error("ExactCounts should be true when relaxed is true from env")
	}
}

func TestLoad_InvalidEnvValuesIgnored(t *testing.T) {
	t.Setenv("MANIFEST_K_ANONYMITY", "not-a-number")
	t.Setenv("MANIFEST_BUCKET_COUNTS", "not-a-bool")

	cfg := Load(filepath.Join(t.TempDir(), "missing.json"))
	want := types.DefaultProcessingOptions()
	if cfg.Options.KAnonymity != want.KAnonymity {
		t.Errorf("KAnonymity should remain default when env value is invalid, got %d", cfg.Options.KAnonymity)
	}
	if cfg.Options.BucketCounts != want.BucketCounts {
		t.Errorf("BucketCounts should remain default when env value is invalid, got %v", cfg.Options.BucketCounts)
	}
}
