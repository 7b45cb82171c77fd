package transfer

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/desertthunder/droplet/internal/models"
	"github.com/desertthunder/droplet/internal/shared"
)

// lookup resolves the {index} path value to a stored file.
func (s *Server) lookup(r *http.Request) (models.UploadedFile, error) {
	raw := r.PathValue("index")

	index, err := strconv.ParseUint(raw, 10, strconv.IntSize-1)
	if err != nil {
		return models.UploadedFile{}, fmt.Errorf("%w: index %q", shared.ErrNotFound, raw)
	}

	file, ok := s.store.get(int(index))
	if !ok {
		return models.UploadedFile{}, fmt.Errorf("%w: index %d", shared.ErrNotFound, index)
	}
	return file, nil
}

// notFound answers 404; the reason only reaches the log.
func (s *Server) notFound(w http.ResponseWriter, r *http.Request, err error) {
	reason := "not_found"
	if errors.Is(err, shared.ErrEmptyContent) {
		reason = "empty_content"
	}

	s.counters.notFound.Add(1)
	s.logger.Debug("not found", "path", r.URL.Path, "reason", reason, "err", err)
	http.NotFound(w, r)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	file, err := s.lookup(r)
	if err != nil {
		s.notFound(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", ContentType(file.Name))
	h.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, SanitizeFilename(file.Name)))
	h.Set("Cache-Control", "no-cache")
	h.Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data)

	s.counters.downloads.Add(1)
	s.logger.Debug("download", "name", file.Name, "index", file.Index, "size", file.Size())
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	file, err := s.lookup(r)
	if err != nil {
		s.notFound(w, r, err)
		return
	}

	if len(file.Data) == 0 && !textual[file.Ext()] {
		s.notFound(w, r, fmt.Errorf("%w: %s", shared.ErrEmptyContent, file.Name))
		return
	}

	h := w.Header()
	h.Set("Content-Type", PreviewContentType(file.Name))
	h.Set("Content-Disposition", "inline")
	h.Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data)

	s.counters.previews.Add(1)
	s.logger.Debug("preview", "name", file.Name, "index", file.Index)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.renderIndex(&buf, "http://"+r.Host); err != nil {
		s.logger.Error("failed to render index", "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())

	s.counters.pageViews.Add(1)
}
