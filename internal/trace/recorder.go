package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Recorder appends events to a trace file. Paths ending in .zst are
// written zstd-compressed.
type Recorder struct {
	f       *os.File
	encoder *zstd.Encoder
	enc     *json.Encoder
	start   time.Time
	now     func() time.Time
}

// NewRecorder creates (or truncates) path and returns a recorder writing to it.
func NewRecorder(path string) (*Recorder, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create trace dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create trace: %w", err)
	}

	r := &Recorder{f: f, now: time.Now}
	var w io.Writer = f
	if strings.HasSuffix(path, ".zst") {
		encoder, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("create zstd encoder: %w", err)
		}
		r.encoder = encoder
		w = encoder
	}
	r.enc = json.NewEncoder(w)
	r.start = r.now()
	return r, nil
}

// Write appends ev, stamping AtMs with the time since the recorder started
// when the event carries none.
func (r *Recorder) Write(ev Event) error {
	if ev.AtMs == 0 {
		ev.AtMs = r.now().Sub(r.start).Milliseconds()
	}
	if err := r.enc.Encode(ev); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

// Close flushes compression and closes the file.
func (r *Recorder) Close() error {
	if r.encoder != nil {
		if err := r.encoder.Close(); err != nil {
			r.f.Close()
			return fmt.Errorf("finalize compression: %w", err)
		}
	}
	return r.f.Close()
}
