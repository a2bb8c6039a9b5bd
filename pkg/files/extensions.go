package files

import "strings"

// TextExtensions is the fixed allowlist of readable text extensions.
var TextExtensions = []string{
	".txt", ".md", ".log", ".py", ".json", ".xml", ".html", ".css", ".js",
}

// HasTextExtension reports whether name ends with an allowlisted extension.
// Matching is case-sensitive.
func HasTextExtension(name string) bool {
	for _, ext := range TextExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
