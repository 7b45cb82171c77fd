package transfer

import "testing"

func TestContentType(t *testing.T) {
	tc := []struct {
		name     string
		download string
		preview  string
	}{
		{"a.jpg", "image/jpeg", "image/jpeg"},
		{"a.JPEG", "image/jpeg", "image/jpeg"},
		{"a.png", "image/png", "image/png"},
		{"a.gif", "image/gif", "image/gif"},
		{"a.mp4", "video/mp4", "video/mp4"},
		{"a.MOV", "video/quicktime", "video/quicktime"},
		{"a.txt", "text/plain; charset=utf-8", "text/plain; charset=utf-8"},
		{"a.pdf", "application/pdf", "application/pdf"},
		{"a.json", "application/json", "application/json; charset=utf-8"},
		{"a.zip", "application/octet-stream", "application/octet-stream"},
		{"noext", "application/octet-stream", "application/octet-stream"},
		{"archive.tar.gz", "application/octet-stream", "application/octet-stream"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContentType(tt.name); got != tt.download {
				t.Errorf("ContentType(%q) = %q, want %q", tt.name, got, tt.download)
			}
			if got := PreviewContentType(tt.name); got != tt.preview {
				t.Errorf("PreviewContentType(%q) = %q, want %q", tt.name, got, tt.preview)
			}
		})
	}
}

func TestIsPreviewable(t *testing.T) {
	for _, name := range []string{"a.jpg", "a.jpeg", "a.PNG", "a.gif", "a.mp4", "a.mov", "a.txt", "a.pdf", "a.json"} {
		if !IsPreviewable(name) {
			t.Errorf("%s should be previewable", name)
		}
	}
	for _, name := range []string{"a.zip", "a.heic", "README"} {
		if IsPreviewable(name) {
			t.Errorf("%s should not be previewable", name)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tc := map[string]string{
		"plain.txt":           "plain.txt",
		"with space.txt":      "with_space.txt",
		"a,b:c d.txt":         "a_b_c_d.txt",
		"照片 2025.jpg":         "照片_2025.jpg",
		"text_20250102_1.txt": "text_20250102_1.txt",
	}

	for in, want := range tc {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
