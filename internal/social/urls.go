package social

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadURLList reads one URL per line. Blank lines and lines starting with '#'
// are ignored; both "\n" and "\r\n" line endings are accepted.
func ReadURLList(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading URL list: %w", err)
	}
	return urls, nil
}

// LoadURLList opens path and reads it with ReadURLList.
func LoadURLList(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("opening URL list: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadURLList(f)
}
