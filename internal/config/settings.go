package config

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseSettings reads shell-style KEY="value" assignments.
//
// Blank lines and #-comments are skipped. Values may be double-quoted,
// single-quoted, or bare; an optional "export " prefix is tolerated so that
// files written for shell sourcing keep working. The file is an overlay, so
// any KEY is accepted here; the caller picks the keys it knows.
func ParseSettings(r io.Reader) (map[string]string, error) {
	settings := make(map[string]string)
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("line %d: not a KEY=value assignment", lineNo)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("line %d: empty key", lineNo)
		}

		settings[key] = unquote(strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return settings, nil
}

// unquote strips one level of matching double or single quotes.
func unquote(v string) string {
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}
