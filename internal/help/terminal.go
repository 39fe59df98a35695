package help

import (
	"fmt"
	"strings"

	"github.com/suykerbuyk/touch-scale/internal/config"
)

// FormatTerminal renders a subcommand's --help text.
func FormatTerminal(c Command) string {
	blocks := []string{
		fmt.Sprintf("tscale %s - %s", c.Name, c.Synopsis),
		"Usage: " + c.Usage,
	}

	var args, flags []Entry
	for _, a := range c.Args {
		args = append(args, Entry{a.Name, a.Desc})
	}
	for _, f := range c.Flags {
		flags = append(flags, Entry{f.Name, f.Desc})
	}
	col := termColumn(append(args, flags...))
	if len(args) > 0 {
		blocks = append(blocks, "Arguments:\n"+table(args, col))
	}
	if len(flags) > 0 {
		blocks = append(blocks, "Flags:\n"+table(flags, col))
	}

	if c.Description != "" {
		blocks = append(blocks, c.Description)
	}
	if len(c.Examples) > 0 {
		blocks = append(blocks, "Examples:\n  "+strings.Join(c.Examples, "\n  "))
	}
	if len(c.Topics) > 0 {
		var refs []string
		for _, t := range c.Topics {
			refs = append(refs, "tscale help "+t)
		}
		blocks = append(blocks, "See also: "+strings.Join(refs, ", "))
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

// FormatReference renders a help topic for the terminal.
func FormatReference(r Reference) string {
	blocks := []string{fmt.Sprintf("tscale %s - %s", r.Name, strings.ToLower(r.Brief)), r.Intro}
	for _, g := range r.Groups {
		blocks = append(blocks, g.Heading+"\n"+table(g.Entries, termColumn(g.Entries)))
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

// FormatUsage renders the top-level usage text (for tscale --help / tscale help).
func FormatUsage(top Command, subs []Command) string {
	var b strings.Builder
	fmt.Fprintf(&b, "tscale v%s - %s\n", Version, top.Synopsis)

	commands := make([]Entry, 0, len(subs)+1)
	for _, s := range subs {
		commands = append(commands, Entry{s.tableUsage(), s.Brief})
	}
	commands = append(commands, Entry{"tscale help [command|topic]", "Show this help"})
	b.WriteString("\nUsage:\n" + table(commands, termColumn(commands)) + "\n")

	var topics []Entry
	for _, r := range References() {
		topics = append(topics, Entry{"tscale help " + r.Name, r.Brief})
	}
	b.WriteString("\nTopics:\n" + table(topics, termColumn(topics)) + "\n")

	globals := []Entry{
		{"--config <file>", "Use this config file instead of the standard path"},
		{"--verbose", "Debug logging to stderr"},
	}
	b.WriteString("\nGlobal flags:\n" + table(globals, termColumn(globals)) + "\n")

	fmt.Fprintf(&b, "\nConfiguration: %s\n", config.CompressHome(config.ConfigPath()))
	return b.String()
}

// termColumn is the column descriptions start at: two spaces of indent,
// the longest term, and a three-space gutter.
func termColumn(entries []Entry) int {
	width := 0
	for _, e := range entries {
		width = max(width, len(e.Term))
	}
	return 2 + width + 3
}

// table lays out entries as indented, aligned lines with no trailing newline.
func table(entries []Entry, col int) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = "  " + e.Term + strings.Repeat(" ", col-2-len(e.Term)) + e.Desc
	}
	return strings.Join(lines, "\n")
}
