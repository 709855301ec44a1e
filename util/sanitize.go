package util

import (
	"path/filepath"
	"strings"
	"unicode"
)

const maxFilenameLen = 100

// SanitizeFilename reduces a client-supplied filename to a safe base name:
// directory components are dropped and anything outside letters, digits,
// '.', '-' and '_' becomes '_'. An empty result yields fallback.
func SanitizeFilename(name, fallback string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		name = ""
	}

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	cleaned = strings.TrimLeft(cleaned, ".")

	if len(cleaned) > maxFilenameLen {
		ext := filepath.Ext(cleaned)
		if len(ext) > 10 {
			ext = ""
		}
		cleaned = cleaned[:maxFilenameLen-len(ext)] + ext
	}
	if strings.Trim(cleaned, "_") == "" {
		return fallback
	}
	return cleaned
}
