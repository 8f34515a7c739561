package app

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

const maxTracedQueryLength = 512

var queryWhitespaceRegex = regexp.MustCompile(`\s+`)

func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := queryWhitespaceRegex.ReplaceAllString(query, " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}

// sqliteDSN accepts both plain paths and the sqlite:// form used by the
// migration tool.
func sqliteDSN(raw string) string {
	trimmed := strings.TrimSpace(raw)
	for _, prefix := range []string{"sqlite://", "sqlite3://"} {
		if strings.HasPrefix(trimmed, prefix) {
			return strings.TrimPrefix(trimmed, prefix)
		}
	}
	return trimmed
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "sqlite") || strings.HasPrefix(trimmed, "file:") {
		path := strings.TrimPrefix(sqliteDSN(trimmed), "file:")
		if idx := strings.IndexByte(path, '?'); idx >= 0 {
			path = path[:idx]
		}
		return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
		if name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		if !strings.HasPrefix(token, "dbname=") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(token, "dbname="))
		name = strings.Trim(name, `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}
