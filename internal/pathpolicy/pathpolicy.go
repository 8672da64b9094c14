// Package pathpolicy resolves an output directory and a derived
// filename into a concrete filesystem path, and creates any ancestor
// directories that don't yet exist. The engine never touches a raw
// output directory directly — it only ever receives a resolved path
// from this package (spec.md §4.4 step 2, §6).
package pathpolicy

import (
	"fmt"
	"os"
	"path/filepath"
)

// Resolve joins outputDir and filename and ensures outputDir exists.
func Resolve(outputDir, filename string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %q: %w", outputDir, err)
	}
	return filepath.Join(outputDir, filename), nil
}
