package runner

// cappedWriter keeps at most cap bytes of whatever is written to it and
// discards the rest. The stored length is always min(total written, cap).
// It always reports the full write as consumed so the child never blocks on
// a full pipe.
type cappedWriter struct {
	buf []byte
	cap int
}

func newCappedWriter(capBytes int) *cappedWriter {
	if capBytes < 0 {
		capBytes = 0
	}
	return &cappedWriter{cap: capBytes}
}

func (w *cappedWriter) Write(p []byte) (int, error) {
	if remaining := w.cap - len(w.buf); remaining > 0 {
		take := remaining
		if len(p) < take {
			take = len(p)
		}
		w.buf = append(w.buf, p[:take]...)
	}
	return len(p), nil
}

func (w *cappedWriter) Bytes() []byte {
	return w.buf
}
