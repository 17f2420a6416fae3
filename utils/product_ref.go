package utils

import (
	"regexp"
	"strings"
)

var (
	letterDigitBoundary = regexp.MustCompile(`([A-Za-z])(\d)`)
	genericNamePattern  = regexp.MustCompile(`^PRODUCTO(\s|$)`)
)

// ProductRefCandidates lists the keys tried when looking a product up, in order:
// the ref as given, without hyphens, and with a hyphen between letters and digits.
// Example: "w7841" -> ["w7841", "w-7841"]; "W-7841" -> ["W-7841", "W7841"]
// Callers compare case-insensitively.
func ProductRefCandidates(ref string) []string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	add := func(candidate string) {
		key := strings.ToUpper(candidate)
		if candidate == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, candidate)
	}

	add(ref)
	unhyphenated := strings.ReplaceAll(ref, "-", "")
	add(unhyphenated)
	add(letterDigitBoundary.ReplaceAllString(unhyphenated, "$1-$2"))

	return out
}

// IsGenericName reports whether a display name carries no information about the product,
// e.g. "" or "Producto W-7841" or "PRODUCTO DESCONOCIDO"
func IsGenericName(name string) bool {
	upper := strings.ToUpper(strings.TrimSpace(name))
	return upper == "" || genericNamePattern.MatchString(upper)
}

// DisplayName returns name uppercased, or the uppercased code when the name is generic
func DisplayName(code, name string) string {
	if IsGenericName(name) {
		return strings.ToUpper(strings.TrimSpace(code))
	}
	return strings.ToUpper(strings.TrimSpace(name))
}
