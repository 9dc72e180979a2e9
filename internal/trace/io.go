package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Writer appends frames to a capture stream, one JSON object per line.
type Writer struct {
	bw  *bufio.Writer
	enc *json.Encoder
}

// NewWriter wraps w for frame output. Call Flush before closing the
// underlying writer.
func NewWriter(w io.Writer) *Writer {
	bw := bufio.NewWriter(w)
	return &Writer{bw: bw, enc: json.NewEncoder(bw)}
}

// Write appends one frame.
func (w *Writer) Write(f *Frame) error {
	if err := w.enc.Encode(f); err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	return nil
}

// Flush flushes buffered frames to the underlying writer.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}

// Reader iterates the frames of a capture stream.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

// NewReader wraps r for frame input.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	// Joint-based frames carry a couple dozen poses per line.
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{sc: sc}
}

// Next returns the next frame, or io.EOF at the end of the stream.
// Blank lines are skipped.
func (r *Reader) Next() (*Frame, error) {
	for r.sc.Scan() {
		r.line++
		line := r.sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var f Frame
		if err := json.Unmarshal(line, &f); err != nil {
			return nil, fmt.Errorf("invalid frame at line %d: %w", r.line, err)
		}
		return &f, nil
	}
	if err := r.sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}
