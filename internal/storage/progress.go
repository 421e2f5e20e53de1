package storage

import (
	"io"
	"sync"
)

// ProgressReader wraps a reader and reports percentage progress as
// bytes are consumed. Reported values never decrease; Finish reports
// the terminal 100 exactly once.
type ProgressReader struct {
	r        io.Reader
	total    int64
	progress ProgressFunc

	mu       sync.Mutex
	read     int64
	lastPct  int
	finished bool
}

func NewProgressReader(r io.Reader, total int64, progress ProgressFunc) *ProgressReader {
	return &ProgressReader{r: r, total: total, progress: progress}
}

func (p *ProgressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.advance(int64(n))
	}
	return n, err
}

func (p *ProgressReader) advance(n int64) {
	if p.progress == nil || p.total <= 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.read += n
	pct := int(p.read * 100 / p.total)
	if pct > 99 {
		// 100 is reserved for Finish, after the store confirmed the write.
		pct = 99
	}
	if pct > p.lastPct {
		p.lastPct = pct
		p.progress(pct)
	}
}

// Finish reports the terminal 100 percent. Safe to call once the
// upload completed; repeated calls are no-ops.
func (p *ProgressReader) Finish() {
	if p.progress == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.finished {
		return
	}
	p.finished = true
	p.lastPct = 100
	p.progress(100)
}
