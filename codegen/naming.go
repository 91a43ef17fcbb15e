package codegen

import (
	"regexp"
	"strings"
)

// StripFences removes markdown code fences from a model response: every
// backtick is dropped, and a leading "python" language tag on the first
// line is stripped.
func StripFences(code string) string {
	code = strings.ReplaceAll(code, "`", "")
	lines := strings.Split(code, "\n")
	if len(lines) > 0 {
		first := strings.TrimSpace(lines[0])
		if strings.HasPrefix(first, "python") {
			lines[0] = strings.TrimSpace(strings.TrimPrefix(first, "python"))
			if lines[0] == "" {
				lines = lines[1:]
			}
		}
	}
	return strings.Join(lines, "\n")
}

var fileNameRE = regexp.MustCompile(`^[A-Za-z0-9._-]+\.py$`)

// SanitizeFileName normalizes a model-generated file name: first line only,
// quotes stripped, spaces replaced with underscores. It returns "" when the
// result is not a plausible Python file name, so callers can fall back to a
// generated one.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.IndexByte(name, '\n'); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, `"`, "")
	name = strings.ReplaceAll(name, "'", "")
	name = strings.ReplaceAll(name, "`", "")
	name = strings.ReplaceAll(name, " ", "_")
	if !fileNameRE.MatchString(name) {
		return ""
	}
	return name
}
