// Package targets loads the list of URLs the exporter polls.
package targets

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineSize bounds a single entry; bufio's 64 KiB default is too small for
// long URLs with query strings.
const maxLineSize = 1 << 20

// Load reads one URL per line from path. Surrounding whitespace is trimmed
// and blank lines are skipped; order and duplicates are preserved.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open domain list: %w", err)
	}
	defer f.Close()

	domains, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read domain list %s: %w", path, err)
	}
	return domains, nil
}

// Parse is Load for an already opened source.
func Parse(r io.Reader) ([]string, error) {
	var domains []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		domains = append(domains, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return domains, nil
}
