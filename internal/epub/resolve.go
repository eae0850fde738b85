package epub

import "strings"

// ResolvePath resolves href against the directory of the package document.
// A package document at the archive root leaves href unchanged; otherwise
// the directory is prefixed with a single "/". The result is not cleaned.
func ResolvePath(packagePath, href string) string {
	i := strings.LastIndex(packagePath, "/")
	if i <= 0 {
		return href
	}
	return packagePath[:i] + "/" + href
}

// splitFragment splits a source path into the path and fragment identifier.
func splitFragment(src string) (path, fragment string) {
	path, fragment, _ = strings.Cut(src, "#")
	return path, fragment
}
