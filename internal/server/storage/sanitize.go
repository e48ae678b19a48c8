package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophdrive/internal/common"
)

// MaxNameBytes is the longest stored name, matching common filesystem limits.
const MaxNameBytes = 255

var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// SanitizeName turns a client-supplied file name into a single safe path
// component. Unicode letters and digits are preserved. It returns
// common.ErrorValidation when nothing usable remains.
func SanitizeName(raw string) (string, error) {
	s := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return ' '
		}
		return r
	}, raw)

	s = strings.Join(strings.Fields(s), "_")

	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_', r == '-', r == '.':
			return r
		default:
			return -1
		}
	}, s)

	s = strings.Trim(s, "._")
	if s == "" {
		return "", fmt.Errorf("%w: file name %q has no usable characters", common.ErrorValidation, raw)
	}

	stem := s
	if i := strings.IndexByte(s, '.'); i >= 0 {
		stem = s[:i]
	}
	if _, ok := reservedNames[strings.ToUpper(stem)]; ok {
		s = "_" + s
	}

	return truncateName(s, MaxNameBytes), nil
}

// truncateName shortens name to at most limit bytes, cutting the stem and
// keeping the extension when that is possible.
func truncateName(name string, limit int) string {
	if len(name) <= limit {
		return name
	}
	ext := filepath.Ext(name)
	if len(ext) >= limit {
		return cutRunes(name, limit)
	}
	stem := cutRunes(strings.TrimSuffix(name, ext), limit-len(ext))
	return stem + ext
}

// cutRunes returns the longest prefix of s of at most limit bytes that ends on
// a rune boundary.
func cutRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
