package file

import (
	"path/filepath"
	"strings"
)

// WithSuffix appends a marker to a filename ahead of its extension,
// e.g. WithSuffix("in/drama_kr.vtt", "_FINAL") -> "in/drama_kr_FINAL.vtt".
func WithSuffix(path, suffix string) string {
	if path == "" {
		return path
	}

	dir := filepath.Dir(path)
	filename := filepath.Base(path)

	lastDot := strings.LastIndex(filename, ".")
	if lastDot <= 0 {
		return filepath.Join(dir, filename+suffix)
	}

	return filepath.Join(dir, filename[:lastDot]+suffix+filename[lastDot:])
}

// InDir moves a path into another directory, keeping its base name
func InDir(path, dir string) string {
	if dir == "" {
		return path
	}
	return filepath.Join(dir, filepath.Base(path))
}
