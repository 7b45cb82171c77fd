package transfer

import "sync/atomic"

// Stats is a point-in-time view of the store and request counters.
type Stats struct {
	Files      int
	TotalBytes int64
	PageViews  int64
	Downloads  int64
	Previews   int64
	NotFound   int64
}

// counters accumulate across restarts; only the store is reset by Stop.
type counters struct {
	pageViews atomic.Int64
	downloads atomic.Int64
	previews  atomic.Int64
	notFound  atomic.Int64
}

// Stats reports the current file count, stored bytes and request counters.
func (s *Server) Stats() Stats {
	files, total := s.store.totals()
	return Stats{
		Files:      files,
		TotalBytes: total,
		PageViews:  s.counters.pageViews.Load(),
		Downloads:  s.counters.downloads.Load(),
		Previews:   s.counters.previews.Load(),
		NotFound:   s.counters.notFound.Load(),
	}
}
