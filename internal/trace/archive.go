package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Compress compresses the plain trace at srcPath into
// archiveDir/{name}.jsonl.zst and returns the archive path.
func Compress(srcPath, archiveDir string) (string, error) {
	name := traceName(srcPath)
	if name == "" {
		return "", fmt.Errorf("not a plain .jsonl trace: %s", srcPath)
	}

	destPath := ArchivePath(name, archiveDir)

	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	defer dest.Close()

	encoder, err := zstd.NewWriter(dest, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return "", fmt.Errorf("create zstd encoder: %w", err)
	}

	if _, err := io.Copy(encoder, src); err != nil {
		encoder.Close()
		return "", fmt.Errorf("compress: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("finalize compression: %w", err)
	}

	return destPath, nil
}

// ArchivePath returns the deterministic archive path for a trace name.
func ArchivePath(name, archiveDir string) string {
	return filepath.Join(archiveDir, name+".jsonl.zst")
}

// NewTracePath names a fresh trace in dir after its start time, e.g.
// dir/20260301-101500.jsonl.zst.
func NewTracePath(dir string, start time.Time, compress bool) string {
	name := start.Format("20060102-150405") + ".jsonl"
	if compress {
		name += ".zst"
	}
	return filepath.Join(dir, name)
}

func traceName(path string) string {
	base := filepath.Base(path)
	if strings.HasSuffix(base, ".jsonl") {
		return strings.TrimSuffix(base, ".jsonl")
	}
	return ""
}
