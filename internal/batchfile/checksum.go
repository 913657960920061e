package batchfile

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vvka-141/nbaetl/pkg/nbaetl"
)

// Checksum returns the SHA-256 over every table file in dir, in load order.
// Each file contributes its base name and its bytes, so renaming a file or
// changing a single row changes the result. An empty directory hashes to the
// digest of no input.
func Checksum(dir string) (string, error) {
	files, err := Files(dir)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	for _, path := range files {
		if err := hashFile(h, path); err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func hashFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %v: %w", path, err, nbaetl.ErrBatchFile)
	}
	defer f.Close()

	fmt.Fprintf(w, "%s\x00", filepath.Base(path))
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to hash %s: %v: %w", path, err, nbaetl.ErrBatchFile)
	}
	return nil
}
