package gateway

import "io"

// ProgressFunc receives transfer progress as a percentage in [0,100].
// Reported values are monotonically non-decreasing; 100 means the request
// body has been fully read, not that the server has acknowledged it.
type ProgressFunc func(percent int)

type progressReader struct {
	r        io.Reader
	total    int64
	read     int64
	last     int
	progress ProgressFunc
}

func newProgressReader(r io.Reader, total int64, progress ProgressFunc) io.Reader {
	if progress == nil || total <= 0 {
		return r
	}
	return &progressReader{r: r, total: total, last: -1, progress: progress}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.read += int64(n)
		percent := int(p.read * 100 / p.total)
		if percent > 100 {
			percent = 100
		}
		if percent > p.last {
			p.last = percent
			p.progress(percent)
		}
	}
	return n, err
}
