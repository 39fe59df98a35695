package help

import (
	"fmt"
	"strings"
	"time"
)

const manual = "Touch-Scale Manual"

// page accumulates one man page.
type page struct {
	b strings.Builder
}

func newPage(name string, section int, date string) *page {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	p := &page{}
	fmt.Fprintf(&p.b, ".TH %s %d %q %q %q\n", strings.ToUpper(name), section, date, "tscale "+Version, manual)
	return p
}

func (p *page) section(title string) { p.b.WriteString(".SH " + title + "\n") }

func (p *page) subsection(title string) { p.b.WriteString(".SS " + escapeRoff(title) + "\n") }

func (p *page) line(s string) { p.b.WriteString(s + "\n") }

// text writes prose; blank lines become paragraph breaks.
func (p *page) text(s string) {
	blank := false
	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) == "" {
			if !blank {
				p.line(".PP")
			}
			blank = true
			continue
		}
		blank = false
		p.line(escapeRoff(l))
	}
}

// item writes a tagged paragraph. The term is quoted so spaces and quotes
// inside it stay one argument.
func (p *page) item(term, desc string) {
	term = strings.ReplaceAll(escapeRoff(term), `"`, `""`)
	fmt.Fprintf(&p.b, ".TP\n.B \"%s\"\n%s\n", term, escapeRoff(desc))
}

func (p *page) literal(lines []string) {
	p.line(".nf")
	for _, l := range lines {
		p.line(escapeRoff(l))
	}
	p.line(".fi")
}

func (p *page) seeAlso(refs []string) {
	p.section("SEE ALSO")
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = formatManRef(r)
	}
	p.line(strings.Join(out, ",\n"))
}

// reference writes a generated topic as its own section.
func (p *page) reference(r Reference) {
	p.section(r.Title)
	p.text(r.Intro)
	for _, g := range r.Groups {
		p.subsection(g.Heading)
		for _, e := range g.Entries {
			p.item(e.Term, e.Desc)
		}
	}
}

func (p *page) String() string { return p.b.String() }

// FormatRoff renders a subcommand as a section 1 man page. An empty date
// means today; pass a fixed one for reproducible builds.
func FormatRoff(c Command, date string) string {
	p := newPage(c.ManName(), 1, date)

	p.section("NAME")
	p.line(fmt.Sprintf("%s \\- %s", c.ManName(), escapeRoff(c.Synopsis)))
	p.section("SYNOPSIS")
	p.line(".B " + escapeRoff(c.Usage))

	if c.Description != "" {
		p.section("DESCRIPTION")
		p.text(c.Description)
	}
	if len(c.Args) > 0 || len(c.Flags) > 0 {
		p.section("OPTIONS")
		for _, a := range c.Args {
			p.item(a.Name, a.Desc)
		}
		for _, f := range c.Flags {
			p.item(f.Name, f.Desc)
		}
	}
	refs := append([]string(nil), c.SeeAlso...)
	for _, name := range c.Topics {
		if r, ok := LookupReference(name); ok {
			p.reference(r)
			refs = append(refs, r.ManName()+"(5)")
		}
	}
	if len(c.Examples) > 0 {
		p.section("EXAMPLES")
		p.literal(c.Examples)
	}
	if len(refs) > 0 {
		p.seeAlso(refs)
	}
	return p.String()
}

// FormatRoffTopLevel renders tscale.1: every command plus every generated
// reference topic.
func FormatRoffTopLevel(top Command, subs []Command, date string) string {
	p := newPage(top.ManName(), 1, date)

	p.section("NAME")
	p.line("tscale \\- " + escapeRoff(top.Synopsis))
	p.section("SYNOPSIS")
	p.line(".B tscale\n.I command\n.RI [ options ]")

	p.section("DESCRIPTION")
	p.line(".B tscale")
	p.text(`(touch-scale) estimates a weight from touch or pointer pressure,
smooths it with a low-pass filter, and rounds it to the configured
precision. Simulated objects add Gaussian sensor noise.`)

	p.section("COMMANDS")
	for _, s := range subs {
		p.item(s.tableUsage(), s.Brief)
	}
	for _, r := range References() {
		p.reference(r)
	}

	var refs []string
	for _, s := range subs {
		refs = append(refs, s.ManName()+"(1)")
	}
	for _, r := range References() {
		refs = append(refs, r.ManName()+"(5)")
	}
	p.seeAlso(refs)
	return p.String()
}

// ManName returns the topic's man page name, e.g. "tscale-config".
func (r Reference) ManName() string { return "tscale-" + r.Name }

// FormatRoffReference renders a topic as a section 5 (file format) page.
func FormatRoffReference(r Reference, date string) string {
	p := newPage(r.ManName(), 5, date)
	p.section("NAME")
	p.line(fmt.Sprintf("%s \\- %s", r.ManName(), escapeRoff(strings.ToLower(r.Brief))))
	p.reference(r)
	p.seeAlso([]string{"tscale(1)"})
	return p.String()
}

// escapeRoff escapes backslashes, line-leading dots and hyphens.
func escapeRoff(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\n.", "\n\\&.")
	if strings.HasPrefix(s, ".") {
		s = "\\&" + s
	}
	return strings.ReplaceAll(s, "-", "\\-")
}

// formatManRef turns "tscale-init(1)" into ".BR tscale\-init (1)".
func formatManRef(ref string) string {
	if i := strings.Index(ref, "("); i >= 0 {
		return fmt.Sprintf(".BR %s %s", escapeRoff(ref[:i]), ref[i:])
	}
	return ".B " + escapeRoff(ref)
}
