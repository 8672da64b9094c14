// Package urlsource resolves the list of URLs a batch runs, following
// spec.md §6's precedence: an explicit URL-file always wins over
// inline positional arguments.
package urlsource

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Load returns the URLs to download. If filePath is non-empty, its
// contents take precedence and inlineArgs are ignored. Otherwise
// inlineArgs is used as-is. Both paths reject an empty resulting list.
func Load(filePath string, inlineArgs []string) ([]string, error) {
	if filePath != "" {
		return loadFromFile(filePath)
	}
	if len(inlineArgs) == 0 {
		return nil, fmt.Errorf("no URLs provided")
	}
	return inlineArgs, nil
}

// loadFromFile reads one URL per line, skipping blank lines and lines
// starting with '#'.
func loadFromFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening URL file %q: %w", path, err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading URL file %q: %w", path, err)
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("no URLs found in %q", path)
	}
	return urls, nil
}
