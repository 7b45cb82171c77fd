package transfer

import (
	"cmp"
	_ "embed"
	"html/template"
	"io"
	"slices"

	"github.com/desertthunder/droplet/internal/formatter"
	"github.com/desertthunder/droplet/internal/models"
	"github.com/desertthunder/droplet/internal/shared"
	"github.com/dustin/go-humanize"
)

//go:embed templates/index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

// RefreshSeconds is how often the index page reloads itself.
const RefreshSeconds = 30

const qrSize = 192

type pageRow struct {
	Index       int
	Name        string
	Size        string
	ExactSize   string
	Uploaded    string
	Relative    string
	Previewable bool
}

type pageData struct {
	AppName        string
	Address        string
	QRCode         template.URL
	Files          []pageRow
	Count          int
	TotalSize      string
	RefreshSeconds int
}

// newestFirst orders by upload time descending, breaking ties by higher index first.
func newestFirst(a, b models.UploadedFile) int {
	if c := b.UploadedAt.Compare(a.UploadedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.Index, a.Index)
}

// renderIndex writes the index page for a client that reached the server at address.
func (s *Server) renderIndex(w io.Writer, address string) error {
	files := s.store.snapshot()
	slices.SortFunc(files, newestFirst)

	data := pageData{
		AppName:        s.appName(),
		Address:        address,
		Count:          len(files),
		RefreshSeconds: RefreshSeconds,
	}

	var total int64
	for _, f := range files {
		total += f.Size()
		data.Files = append(data.Files, pageRow{
			Index:       f.Index,
			Name:        f.Name,
			Size:        formatter.FormatSize(f.Size()),
			ExactSize:   humanize.Comma(f.Size()) + " bytes",
			Uploaded:    formatter.FormatTimestamp(f.UploadedAt),
			Relative:    humanize.Time(f.UploadedAt),
			Previewable: IsPreviewable(f.Name),
		})
	}
	data.TotalSize = formatter.FormatSize(total)

	if qr, err := shared.QRDataURI(address, qrSize); err == nil {
		data.QRCode = template.URL(qr)
	} else {
		s.logger.Debug("qr code unavailable", "err", err)
	}

	return indexTemplate.Execute(w, data)
}
