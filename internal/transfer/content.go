package transfer

import (
	"path/filepath"
	"strings"
)

const defaultContentType = "application/octet-stream"

// downloadTypes maps lowercased extensions to the Content-Type of a download.
var downloadTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"mp4":  "video/mp4",
	"mov":  "video/quicktime",
	"txt":  "text/plain; charset=utf-8",
	"pdf":  "application/pdf",
	"json": "application/json",
}

// previewOverrides differ from downloadTypes so browsers decode JSON as UTF-8 when rendering it inline.
var previewOverrides = map[string]string{
	"json": "application/json; charset=utf-8",
}

// previewable lists extensions the index page offers a preview link for.
var previewable = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true,
	"mp4": true, "mov": true, "txt": true, "pdf": true, "json": true,
}

// textual payloads may be previewed even when empty.
var textual = map[string]bool{"txt": true, "json": true}

// extension returns the lowercased extension of name without the dot.
func extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// ContentType returns the download Content-Type for name.
func ContentType(name string) string {
	if ct, ok := downloadTypes[extension(name)]; ok {
		return ct
	}
	return defaultContentType
}

// PreviewContentType returns the inline Content-Type for name.
func PreviewContentType(name string) string {
	if ct, ok := previewOverrides[extension(name)]; ok {
		return ct
	}
	return ContentType(name)
}

// IsPreviewable reports whether the index page should link a preview for name.
func IsPreviewable(name string) bool {
	return previewable[extension(name)]
}

var filenameReplacer = strings.NewReplacer(" ", "_", ",", "_", ":", "_")

// SanitizeFilename replaces characters that break a quoted Content-Disposition filename.
//
// Non-ASCII characters pass through unchanged.
func SanitizeFilename(name string) string {
	return filenameReplacer.Replace(name)
}
