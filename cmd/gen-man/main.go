// Command gen-man writes the tscale man pages: commands to <dir>/man1 and
// the config and event format references to <dir>/man5.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/suykerbuyk/touch-scale/internal/help"
)

type manPage struct {
	file    string // relative to the output dir, e.g. "man1/tscale.1"
	content string
}

func main() {
	dir := "man"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	for _, p := range pages(buildDate()) {
		path := filepath.Join(dir, p.file)
		if err := write(path, p.content); err != nil {
			fmt.Fprintf(os.Stderr, "gen-man: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  %s\n", path)
	}
}

// buildDate honours SOURCE_DATE_EPOCH so repeated builds produce identical
// pages.
func buildDate() string {
	if epoch := os.Getenv("SOURCE_DATE_EPOCH"); epoch != "" {
		if sec, err := strconv.ParseInt(epoch, 10, 64); err == nil {
			return time.Unix(sec, 0).UTC().Format("2006-01-02")
		}
	}
	return time.Now().Format("2006-01-02")
}

func pages(date string) []manPage {
	out := []manPage{{
		file:    filepath.Join("man1", "tscale.1"),
		content: help.FormatRoffTopLevel(help.TopLevel, help.Subcommands, date),
	}}
	for _, c := range help.Subcommands {
		out = append(out, manPage{
			file:    filepath.Join("man1", c.ManName()+".1"),
			content: help.FormatRoff(c, date),
		})
	}
	for _, r := range help.References() {
		out = append(out, manPage{
			file:    filepath.Join("man5", r.ManName()+".5"),
			content: help.FormatRoffReference(r, date),
		})
	}
	return out
}

func write(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
