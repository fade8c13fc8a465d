// Package output serialises a manifest to JSON and writes the manifest and
// its recode sidekick file to disk (spec.md §6). Neither format decision
// belongs to the core: this package is the mechanical encoding layer named
// in spec.md §1 as out of the core's scope, but still part of the complete
// repository.
package output

import (
	"encoding/json"
	"os"

	"manifest-extractor/internal/errs"
	"manifest-extractor/internal/types"
)

// MarshalManifest renders m as indented JSON.
func MarshalManifest(m *types.ManifestSchema) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, errs.JSONEncode("marshal manifest", err)
	}
	return data, nil
}

// UnmarshalManifest parses JSON produced by MarshalManifest back into a
// ManifestSchema.
func UnmarshalManifest(data []byte) (*types.ManifestSchema, error) {
	var m types.ManifestSchema
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errs.JSONEncode("unmarshal manifest", err)
	}
	return &m, nil
}

// WriteManifest marshals m and writes it to path.
func WriteManifest(path string, m *types.ManifestSchema) error {
	data, err := MarshalManifest(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // G306: manifest output is not secret material.
		return errs.IO("write manifest "+path, err)
	}
	return nil
}

// WriteSidekick writes the recode mapping content to path. Callers should
// only call this when content is non-empty (empty content means no column
// recoded a value).
func WriteSidekick(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return errs.IO("write sidekick file "+path, err)
	}
	return nil
}
