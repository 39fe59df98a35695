package help

import (
	"strings"

	"github.com/suykerbuyk/touch-scale/internal/config"
	"github.com/suykerbuyk/touch-scale/internal/sample"
	"github.com/suykerbuyk/touch-scale/internal/trace"
)

// Entry is one term in a reference table.
type Entry struct {
	Term string
	Desc string
}

// Group is a titled run of entries, e.g. one config table.
type Group struct {
	Heading string
	Entries []Entry
}

// Reference is a help topic generated from the scale's own definitions
// rather than written by hand.
type Reference struct {
	Name   string // topic name for "tscale help <name>"
	Title  string // man page section title
	Brief  string
	Intro  string
	Groups []Group
}

// Topic names accepted by LookupReference.
const (
	TopicConfig = "config"
	TopicEvents = "events"
)

// References returns every help topic in display order.
func References() []Reference {
	return []Reference{ConfigReference(), EventReference()}
}

// LookupReference returns the topic called name.
func LookupReference(name string) (Reference, bool) {
	for _, r := range References() {
		if r.Name == name {
			return r, true
		}
	}
	return Reference{}, false
}

// ConfigReference documents every config.toml key with its default, one
// group per table.
func ConfigReference() Reference {
	r := Reference{
		Name:  TopicConfig,
		Title: "CONFIGURATION",
		Brief: "Settings in config.toml",
		Intro: `Settings are read from $XDG_CONFIG_HOME/touch-scale/config.toml,
falling back to ~/.config/touch-scale/config.toml. Values out of range
are replaced with their defaults and reported by tscale check. Edits
apply while tscale run is reading; the tare offset is kept.`,
	}
	for _, section := range config.Sections() {
		g := Group{Heading: "[" + section + "]"}
		for _, k := range config.Keys {
			if k.Section == section {
				g.Entries = append(g.Entries, Entry{Term: k.Name + " = " + k.Default(), Desc: k.Desc})
			}
		}
		r.Groups = append(r.Groups, g)
	}
	return r
}

// EventReference documents the JSON lines read by run and replay.
func EventReference() Reference {
	r := Reference{
		Name:  TopicEvents,
		Title: "EVENT FORMAT",
		Brief: "Event lines read by run and replay",
		Intro: `One JSON object per line with a "type" field and an optional "at_ms"
offset used by replay --pace. Blank lines, # comments and lines
that do not parse are skipped.`,
	}

	events := Group{Heading: "Events"}
	for _, t := range trace.Types {
		events.Entries = append(events.Entries, Entry{Term: string(t), Desc: withFields(t.Doc(), t.Fields())})
	}
	kinds := Group{Heading: "Samples"}
	for _, k := range sample.Kinds {
		kinds.Entries = append(kinds.Entries, Entry{Term: string(k), Desc: withFields("", k.Fields())})
	}
	r.Groups = append(r.Groups, events, kinds)
	return r
}

func withFields(doc string, fields []string) string {
	if len(fields) == 0 {
		return doc
	}
	list := "{" + strings.Join(fields, ", ") + "}"
	if doc == "" {
		return list
	}
	return doc + " " + list
}
