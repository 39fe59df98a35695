package help

import "strings"

// Version is the tscale release version, set at build time via -ldflags.
// Defaults to "dev" when built without version injection (e.g. `go run`).
var Version = "dev"

// Flag describes a command-line flag.
type Flag struct {
	Name string // e.g. "--log" or "--weight <g>"
	Desc string
}

// Arg describes a positional argument.
type Arg struct {
	Name     string // e.g. "pressure" or "trace.jsonl"
	Desc     string
	Optional bool
}

// Command describes a tscale subcommand (or the top-level binary when Name is "").
type Command struct {
	Name        string   // "weigh", "run", etc; "" for top-level
	Synopsis    string   // one-line description (lowercase, for --help header)
	Brief       string   // short description for usage table (capitalized)
	Usage       string   // full usage line, e.g. "tscale history [--limit n]"
	TableUsage  string   // shortened usage for the top-level table (if different from Usage)
	Args        []Arg
	Flags       []Flag
	Description string   // multi-line prose (stored verbatim)
	Examples    []string // one per line, without leading 2-space indent
	SeeAlso     []string // man page cross-refs, e.g. "tscale(1)"
	Topics      []string // reference topics the command reads, e.g. TopicEvents
}

// tableUsage returns TableUsage if set, otherwise Usage.
func (c Command) tableUsage() string {
	if c.TableUsage != "" {
		return c.TableUsage
	}
	return c.Usage
}

// ManName returns the man page name: "tscale" for top-level, "tscale-<name>" for subs.
func (c Command) ManName() string {
	if c.Name == "" {
		return "tscale"
	}
	return "tscale-" + strings.ReplaceAll(c.Name, " ", "-")
}

// TopLevel is the top-level tscale command (used by FormatUsage).
var TopLevel = Command{
	Name:     "",
	Synopsis: "touch-pressure kitchen scale",
}

var CmdWeigh = Command{
	Name:       "weigh",
	Synopsis:   "map pressure values to weights",
	Brief:      "Print the weight for each pressure value",
	Usage:      "tscale weigh <pressure>...",
	TableUsage: "tscale weigh <p>...",
	Args: []Arg{
		{Name: "pressure", Desc: "Normalized pressure in [0,1]; values outside are clamped"},
	},
	Description: `Maps each pressure through the configured sensitivity curve and
maximum weight, applies the stored tare offset, and rounds to the
configured precision. No smoothing or noise is applied.`,
	Examples: []string{
		"tscale weigh 0.5            250.0 g with the default settings",
		"tscale weigh 0 0.25 1       One line per value",
	},
	SeeAlso: []string{"tscale(1)", "tscale-run(1)"},
}

var CmdRun = Command{
	Name:       "run",
	Synopsis:   "weigh a live event stream from stdin",
	Brief:      "Read JSON-line events from stdin",
	Usage:      "tscale run [--record <file> | --save] [--log] [--tick <ms>]",
	TableUsage: "tscale run [--record f] [--log]",
	Flags: []Flag{
		{Name: "--record <file>", Desc: "Copy applied events to a trace (.zst compresses)"},
		{Name: "--save", Desc: "Record to a new trace in trace.dir"},
		{Name: "--log", Desc: "Store every reading in the weigh log"},
		{Name: "--tick <ms>", Desc: "Re-read the platform every ms (default: simulate.interval_ms)"},
	},
	Description: `Reads one JSON event per line and prints a reading for each. Lines
that do not parse are skipped. Edits to the config file are picked up
while running; the tare offset is kept across reloads and recorded
traces get a set event for each changed setting.

Ticks that change nothing are neither printed, logged nor recorded.
The stream ends at EOF or on interrupt.`,
	Examples: []string{
		`echo '{"type":"press","sample":{"kind":"pointer","pressure":0.5}}' | tscale run`,
		"tscale run --record session.jsonl.zst < events.jsonl",
	},
	SeeAlso: []string{"tscale(1)", "tscale-replay(1)", "tscale-history(1)"},
	Topics:  []string{TopicEvents},
}

var CmdReplay = Command{
	Name:       "replay",
	Synopsis:   "replay a recorded trace",
	Brief:      "Replay a recorded trace",
	Usage:      "tscale replay <trace.jsonl[.zst]> | --latest [--pace] [--log]",
	TableUsage: "tscale replay <trace>",
	Args: []Arg{
		{Name: "trace", Desc: "Trace file written by --record or tscale archive"},
	},
	Flags: []Flag{
		{Name: "--latest", Desc: "Replay the newest trace in trace.dir"},
		{Name: "--pace", Desc: "Honour the recorded at_ms timing"},
		{Name: "--log", Desc: "Store every reading in the weigh log"},
	},
	Description: `Feeds a recorded trace through a fresh scale and prints a reading for
each applied event, followed by a count of skipped lines and rejected
events.`,
	SeeAlso: []string{"tscale(1)", "tscale-run(1)", "tscale-archive(1)"},
	Topics:  []string{TopicEvents},
}

var CmdDemo = Command{
	Name:     "demo",
	Synopsis: "run the demo press",
	Brief:    "Press from 0 to full and back",
	Usage:    "tscale demo [--log]",
	Flags: []Flag{
		{Name: "--log", Desc: "Store every reading in the weigh log"},
	},
	Description: `Raises the pressure by demo.step every demo.interval_ms until it
reaches 1, lowers it back to 0 the same way, then releases. Each
reading is printed with an intensity bar and the eased platform
transform.`,
	SeeAlso: []string{"tscale(1)", "tscale-simulate(1)"},
}

var CmdSimulate = Command{
	Name:       "simulate",
	Synopsis:   "weigh a simulated object",
	Brief:      "Place a simulated object on the platform",
	Usage:      "tscale simulate --weight <g> [--ticks <n>] [--log]",
	TableUsage: "tscale simulate --weight <g>",
	Flags: []Flag{
		{Name: "--weight <g>", Desc: "True weight of the object in grams"},
		{Name: "--ticks <n>", Desc: "Number of re-reads (default: simulate.ticks)"},
		{Name: "--log", Desc: "Store every reading in the weigh log"},
	},
	Description: `Places an object of the given weight and re-reads it every
simulate.interval_ms. Each read adds Gaussian sensor noise that
shrinks as sensitivity grows, and the low-pass filter settles the
display on the true weight.`,
	Examples: []string{
		"tscale simulate --weight 250",
		"tscale simulate --weight 42.5 --ticks 200",
	},
	SeeAlso: []string{"tscale(1)", "tscale-demo(1)"},
}

var CmdHistory = Command{
	Name:     "history",
	Synopsis: "show logged readings",
	Brief:    "Show weigh log summary and recent readings",
	Usage:    "tscale history [--limit <n>]",
	Flags: []Flag{
		{Name: "--limit <n>", Desc: "Number of recent readings to list (default: 20)"},
	},
	Description: `Summarizes the weigh log: reading and session counts, tares, the
heaviest reading and the busiest sessions, then lists the most
recent readings. Readings are logged by --log or log.enabled.`,
	SeeAlso: []string{"tscale(1)", "tscale-check(1)"},
}

var CmdArchive = Command{
	Name:     "archive",
	Synopsis: "compress a trace",
	Brief:    "Compress a trace into the trace directory",
	Usage:    "tscale archive <trace.jsonl>",
	Args: []Arg{
		{Name: "trace.jsonl", Desc: "Plain trace to compress"},
	},
	Description: `Writes <name>.jsonl.zst into trace.dir. The original file is left in
place. Archived traces replay directly.`,
	SeeAlso: []string{"tscale(1)", "tscale-replay(1)"},
}

var CmdInit = Command{
	Name:     "init",
	Synopsis: "write the default config",
	Brief:    "Write a commented default config",
	Usage:    "tscale init",
	Description: `Writes ~/.config/touch-scale/config.toml (or under $XDG_CONFIG_HOME)
with every setting at its default. An existing file is left alone.`,
	SeeAlso: []string{"tscale(1)", "tscale-check(1)"},
	Topics:  []string{TopicConfig},
}

var CmdCheck = Command{
	Name:     "check",
	Synopsis: "validate config and environment",
	Brief:    "Validate config and environment",
	Usage:    "tscale check",
	Description: `Reports where the config came from, which values were out of range
and replaced with defaults, the effective scale settings, and the state
of the weigh log and trace directory. Exits 1 if any check fails.`,
	SeeAlso: []string{"tscale(1)", "tscale-init(1)"},
	Topics:  []string{TopicConfig},
}

var CmdVersion = Command{
	Name:     "version",
	Synopsis: "print version",
	Brief:    "Print version",
	Usage:    "tscale version",
	SeeAlso:  []string{"tscale(1)"},
}

// Subcommands is the ordered list of all subcommands.
var Subcommands = []Command{
	CmdWeigh,
	CmdRun,
	CmdReplay,
	CmdDemo,
	CmdSimulate,
	CmdHistory,
	CmdArchive,
	CmdInit,
	CmdCheck,
	CmdVersion,
}

// Lookup returns the subcommand called name.
func Lookup(name string) (Command, bool) {
	for _, c := range Subcommands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}
