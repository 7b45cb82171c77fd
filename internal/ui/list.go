package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/droplet/internal/formatter"
	"github.com/desertthunder/droplet/internal/models"
	"github.com/desertthunder/droplet/internal/transfer"
	"github.com/dustin/go-humanize"
)

var _ list.Item = fileItem{}

// fileItem wraps [models.UploadedFile] to implement [list.Item].
type fileItem struct {
	file models.UploadedFile
}

func (i fileItem) FilterValue() string { return i.file.Name }
func (i fileItem) Title() string       { return fmt.Sprintf("#%d  %s", i.file.Index, i.file.Name) }
func (i fileItem) Description() string {
	desc := fmt.Sprintf("%s • %s", formatter.FormatSize(i.file.Size()), humanize.Time(i.file.UploadedAt))
	if transfer.IsPreviewable(i.file.Name) {
		desc += " • previewable"
	}
	return desc
}

// fileItems converts files to list items, newest first.
func fileItems(files []models.UploadedFile) []list.Item {
	items := make([]list.Item, len(files))
	for i, f := range files {
		items[len(files)-1-i] = fileItem{file: f}
	}
	return items
}
