package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"manifest-extractor/internal/errs"
)

// hashChunkSize is the streaming read size for whole-file hashing (spec.md
// §5): O(1) memory regardless of file size.
const hashChunkSize = 8 * 1024

// ComputeFileHash returns the lowercase-hex SHA-256 of the file at path,
// streamed in hashChunkSize chunks rather than loaded whole into memory.
func ComputeFileHash(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is an operator-supplied input file, not untrusted.
	if err != nil {
		return "", errs.IO("open "+path+" for hashing", err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, hashChunkSize)
	// Wrapping f hides *os.File's WriterTo, which would otherwise make
	// CopyBuffer ignore buf and use its own buffer size.
	if _, err := io.CopyBuffer(h, struct{ io.Reader }{f}, buf); err != nil {
		return "", errs.IO("hash "+path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
