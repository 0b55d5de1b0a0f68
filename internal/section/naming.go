package section

import "strings"

// DefaultExtension is appended to partial file names.
const DefaultExtension = ".blade.php"

// PartialName derives a partial's file name from a section name:
// lowercased, spaces to hyphens, ampersands to "and".
func PartialName(name, ext string) string {
	n := strings.ToLower(name)
	n = strings.ReplaceAll(n, " ", "-")
	n = strings.ReplaceAll(n, "&", "and")
	return n + ext
}

// BaseName strips ext from a partial file name.
func BaseName(file, ext string) string {
	if ext == "" {
		return file
	}
	return strings.TrimSuffix(file, ext)
}
