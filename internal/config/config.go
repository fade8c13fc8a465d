// Package config loads and holds the processing options for one extraction
// run. Settings are layered: defaults → manifest-config.json → environment
// variables → explicit CLI flags (later layers win).
package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"

	"manifest-extractor/internal/types"
)

// Defaults mirrors the ProcessingOptions defaults named in spec.md §6.
const (
	DefaultKAnonymity  = types.DefaultKAnonymity
	DefaultLogLevel    = "info"
	DefaultConfigFile  = "manifest-config.json"
)

// fileOptions is the JSON shape accepted from manifest-config.json. It is a
// distinct type from types.ProcessingOptions so the file can use camelCase
// keys, so pointer fields can tell an absent key (default kept) from an
// explicit false or zero, and so the ambient LogLevel field, which is not
// part of the processing-options contract proper, can ride alongside.
type fileOptions struct {
	KAnonymity   *uint64 `json:"kAnonymity"`
	BucketCounts *bool   `json:"bucketCounts"`
	ExactCounts  *bool   `json:"exactCounts"`
	ExactMedian  *bool   `json:"exactMedian"`
	HashFile     *bool   `json:"hashFile"`
	Relaxed      *bool   `json:"relaxed"`
	LogLevel     string  `json:"logLevel"`
}

// Config bundles processing options with the ambient log level for a run.
type Config struct {
	Options  types.ProcessingOptions
	LogLevel string
}

// Defaults returns the built-in baseline configuration (spec.md §6).
func Defaults() *Config {
	return &Config{
		Options:  types.DefaultProcessingOptions(),
		LogLevel: DefaultLogLevel,
	}
}

// Load builds a Config by layering defaults, an optional config file, and
// environment variables, in that order. configPath may be empty, in which
// case DefaultConfigFile is tried and silently skipped if absent.
func Load(configPath string) *Config {
	cfg := Defaults()
	if configPath == "" {
		configPath = DefaultConfigFile
	}
	loadFile(cfg, configPath)
	loadEnv(cfg)
	normalizeRelaxed(cfg)
	return cfg
}

func loadFile(cfg *Config, path string) {
	data, err := os.ReadFile(path) //nolint:gosec // G703: path is a controlled config file path, not user input
	if err != nil {
		return // file is optional
	}
	var fo fileOptions
	if err := json.Unmarshal(data, &fo); err != nil {
		log.Printf("[CONFIG] Warning: could not parse %s: %v", path, err)
		return
	}
	log.Printf("[CONFIG] Loaded %s", path)
	if fo.KAnonymity != nil {
		cfg.Options.KAnonymity = *fo.KAnonymity
	}
	if fo.BucketCounts != nil {
		cfg.Options.BucketCounts = *fo.BucketCounts
	}
	if fo.ExactCounts != nil {
		cfg.Options.ExactCounts = *fo.ExactCounts
	}
	if fo.ExactMedian != nil {
		cfg.Options.ExactMedian = *fo.ExactMedian
	}
	if fo.HashFile != nil {
		cfg.Options.HashFile = *fo.HashFile
	}
	if fo.Relaxed != nil {
		cfg.Options.Relaxed = *fo.Relaxed
	}
	if fo.LogLevel != "" {
		cfg.LogLevel = fo.LogLevel
	}
}

func loadEnv(cfg *Config) {
	if v := os.Getenv("MANIFEST_K_ANONYMITY"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Options.KAnonymity = n
		}
	}
	if v := os.Getenv("MANIFEST_BUCKET_COUNTS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Options.BucketCounts = b
		}
	}
	if v := os.Getenv("MANIFEST_EXACT_COUNTS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Options.ExactCounts = b
		}
	}
	if v := os.Getenv("MANIFEST_EXACT_MEDIAN"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Options.ExactMedian = b
		}
	}
	if v := os.Getenv("MANIFEST_HASH_FILE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Options.HashFile = b
		}
	}
	if v := os.Getenv("MANIFEST_RELAXED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Options.Relaxed = b
		}
	}
	if v := os.Getenv("MANIFEST_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// normalizeRelaxed enforces spec.md §6: exact_counts/exact_median are only
// honoured when relaxed=true; otherwise they are forced to false regardless
// of what the file or environment requested.
func normalizeRelaxed(cfg *Config) {
	if !cfg.Options.Relaxed {
		cfg.Options.ExactCounts = false
		cfg.Options.ExactMedian = false
	}
}
