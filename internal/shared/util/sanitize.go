package util

import (
	"errors"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// MaxFileNameLength caps stored file names, matching the resumes.file_name column.
const MaxFileNameLength = 255

var errInvalidFileName = errors.New("invalid file name")

// SanitizeFileName flattens path separators, rejects traversal and control
// characters and shortens long names while keeping the extension.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errInvalidFileName
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" || strings.ContainsFunc(s, func(r rune) bool { return r < 0x20 || r == 0x7f }) {
		return "", errInvalidFileName
	}
	if utf8.RuneCountInString(s) > MaxFileNameLength {
		ext := filepath.Ext(s)
		if utf8.RuneCountInString(ext) >= MaxFileNameLength {
			ext = ""
		}
		runes := []rune(strings.TrimSuffix(s, ext))
		s = string(runes[:MaxFileNameLength-utf8.RuneCountInString(ext)]) + ext
	}
	return s, nil
}
