package trace

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File is a trace found on disk.
type File struct {
	Path       string
	Name       string // file name without .jsonl or .jsonl.zst
	Compressed bool
	ModTime    int64 // unix timestamp for sorting
}

// Discover lists the plain and compressed traces directly inside dir,
// oldest first. A missing dir yields no traces and no error.
func Discover(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var results []File
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		f := File{Path: filepath.Join(dir, name)}
		switch {
		case strings.HasSuffix(name, ".jsonl.zst"):
			f.Name = strings.TrimSuffix(name, ".jsonl.zst")
			f.Compressed = true
		case strings.HasSuffix(name, ".jsonl"):
			f.Name = strings.TrimSuffix(name, ".jsonl")
		default:
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue // removed while listing
		}
		f.ModTime = info.ModTime().Unix()
		results = append(results, f)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].ModTime != results[j].ModTime {
			return results[i].ModTime < results[j].ModTime
		}
		return results[i].Path < results[j].Path
	})
	return results, nil
}

// Latest returns the most recently modified trace in dir.
func Latest(dir string) (File, bool, error) {
	files, err := Discover(dir)
	if err != nil || len(files) == 0 {
		return File{}, false, err
	}
	return files[len(files)-1], true, nil
}
