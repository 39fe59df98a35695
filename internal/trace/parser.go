// Package trace reads and writes scale input events as JSON lines,
// optionally zstd-compressed.
package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// ParseFile reads a trace file. Files ending in .zst are decompressed.
func ParseFile(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()

	if !strings.HasSuffix(path, ".zst") {
		return Parse(f)
	}

	decoder, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer decoder.Close()
	return Parse(decoder)
}

// Parse reads a JSONL trace from a reader.
func Parse(r io.Reader) (*Trace, error) {
	tr := &Trace{}
	err := Scan(r, func(ev Event) { tr.Events = append(tr.Events, ev) }, func(string) { tr.Skipped++ })
	if err != nil {
		return nil, err
	}
	return tr, nil
}

// Scan decodes events from r as they arrive, calling fn for each. Lines that
// do not parse, or carry an unknown type, go to skip instead of failing the
// stream. skip may be nil.
func Scan(r io.Reader, fn func(Event), skip func(line string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil || !ev.Type.Known() {
			if skip != nil {
				skip(line)
			}
			continue
		}
		fn(ev)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan trace: %w", err)
	}
	return nil
}
