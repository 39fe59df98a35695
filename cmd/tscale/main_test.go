package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// tscaleBinary is the path to the compiled tscale binary, set by TestMain.
var tscaleBinary string

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	tmpDir, err := os.MkdirTemp("", "tscale-integration-build-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "create temp dir: %v\n", err)
		os.Exit(1)
	}

	tscaleBinary = filepath.Join(tmpDir, "tscale")
	cmd := exec.Command("go", "build", "-o", tscaleBinary, ".")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "build tscale binary: %v\n", err)
		os.RemoveAll(tmpDir)
		os.Exit(1)
	}

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

// --- Fixtures ---

// fixtureEvents: press at half pressure, tare, same pressure again, release,
// plus a comment and one line that does not parse.
const fixtureEvents = `# recorded by hand
{"type":"press","sample":{"kind":"pointer","pressure":0.5}}
{"type":"tare"}
{"type":"move","sample":{"kind":"pointer","pressure":0.5}}
not json
{"type":"release"}
`

// --- Helpers ---

func runTscale(t *testing.T, env []string, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := exec.Command(tscaleBinary, args...)
	cmd.Env = env
	cmd.Stdin = strings.NewReader(stdin)
	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	return outBuf.String(), errBuf.String(), err
}

func mustRunTscale(t *testing.T, env []string, stdin string, args ...string) string {
	t.Helper()
	stdout, stderr, err := runTscale(t, env, stdin, args...)
	if err != nil {
		t.Fatalf("tscale %s failed: %v\nstdout: %s\nstderr: %s", strings.Join(args, " "), err, stdout, stderr)
	}
	return stdout
}

func buildEnv(home, xdgConfigHome string) []string {
	return []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + home,
		"XDG_CONFIG_HOME=" + xdgConfigHome,
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func assertContains(t *testing.T, s, substr, msg string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("%s: expected to contain %q, got:\n%s", msg, substr, s)
	}
}

// --- Tests ---

func TestIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	home := t.TempDir()
	xdgConfigHome := t.TempDir()
	work := t.TempDir()
	env := buildEnv(home, xdgConfigHome)

	tracePath := filepath.Join(work, "session.jsonl")
	dataDir := filepath.Join(home, ".local", "share", "touch-scale")

	t.Run("version", func(t *testing.T) {
		assertContains(t, mustRunTscale(t, env, "", "version"), "tscale v", "version")
	})

	t.Run("weigh", func(t *testing.T) {
		out := mustRunTscale(t, env, "", "weigh", "0", "0.5", "1")
		assertContains(t, out, "0.0 g", "weigh 0")
		assertContains(t, out, "250.0 g", "weigh 0.5")
		assertContains(t, out, "500.0 g", "weigh 1")
	})

	t.Run("weigh_invalid", func(t *testing.T) {
		_, stderr, err := runTscale(t, env, "", "weigh", "heavy")
		if err == nil {
			t.Fatal("expected failure for non-numeric pressure")
		}
		assertContains(t, stderr, "tscale: weigh:", "error prefix")
	})

	t.Run("init", func(t *testing.T) {
		mustRunTscale(t, env, "", "init")
		if !fileExists(filepath.Join(xdgConfigHome, "touch-scale", "config.toml")) {
			t.Fatal("config.toml not created")
		}
	})

	t.Run("run", func(t *testing.T) {
		out := mustRunTscale(t, env, fixtureEvents, "run", "--record", tracePath, "--log")
		lines := strings.Split(strings.TrimSpace(out), "\n")
		if len(lines) != 4 {
			t.Fatalf("expected 4 readings, got %d:\n%s", len(lines), out)
		}
		assertContains(t, lines[0], "250.0 g", "press")
		assertContains(t, lines[1], "0.0 g", "tare")
		assertContains(t, lines[2], "0.0 g", "move after tare")
		assertContains(t, lines[3], "0.0 g", "release")
		if !fileExists(tracePath) {
			t.Fatal("trace not recorded")
		}
	})

	t.Run("replay", func(t *testing.T) {
		out := mustRunTscale(t, env, "", "replay", tracePath)
		assertContains(t, out, "250.0 g", "replayed press")
		assertContains(t, out, "4 applied, 0 rejected, 0 skipped", "replay summary")
	})

	t.Run("archive", func(t *testing.T) {
		out := mustRunTscale(t, env, "", "archive", tracePath)
		archived := filepath.Join(dataDir, "traces", "session.jsonl.zst")
		if !fileExists(archived) {
			t.Fatalf("archive not written, stdout: %s", out)
		}
		assertContains(t, out, "archived: ~/.local/share/touch-scale/traces/session.jsonl.zst", "archive stdout")

		replayed := mustRunTscale(t, env, "", "replay", archived)
		assertContains(t, replayed, "4 applied", "replay archived trace")

		latest := mustRunTscale(t, env, "", "replay", "--latest")
		assertContains(t, latest, "4 applied", "replay --latest")
	})

	t.Run("simulate", func(t *testing.T) {
		out := mustRunTscale(t, env, "", "simulate", "--weight", "250", "--ticks", "3", "--log")
		lines := strings.Split(strings.TrimSpace(out), "\n")
		if len(lines) != 4 {
			t.Fatalf("expected place + 3 ticks, got %d:\n%s", len(lines), out)
		}
		assertContains(t, lines[0], "place", "first line")
		assertContains(t, out, "translateY(-", "platform column")
	})

	t.Run("simulate_negative", func(t *testing.T) {
		if _, _, err := runTscale(t, env, "", "simulate", "--weight", "-5"); err == nil {
			t.Error("expected failure for negative weight")
		}
	})

	t.Run("history", func(t *testing.T) {
		out := mustRunTscale(t, env, "", "history", "--limit", "3")
		assertContains(t, out, "tscale history", "header")
		assertContains(t, out, "sessions             2", "two sessions logged")
		assertContains(t, out, "tares                1", "one tare")
		assertContains(t, out, "Recent", "recent section")
	})

	t.Run("check", func(t *testing.T) {
		out := mustRunTscale(t, env, "", "check")
		assertContains(t, out, "tscale check", "header")
		assertContains(t, out, "0 failure", "no failures")
	})

	t.Run("help", func(t *testing.T) {
		out := mustRunTscale(t, env, "", "help", "simulate")
		assertContains(t, out, "tscale simulate - weigh a simulated object", "help simulate")

		out = mustRunTscale(t, env, "", "replay", "--help")
		assertContains(t, out, "Usage: tscale replay", "replay --help")
		assertContains(t, out, "See also: tscale help events", "replay topics")

		out = mustRunTscale(t, env, "", "help", "events")
		assertContains(t, out, "place", "events topic")
		assertContains(t, out, "{weight}", "place fields")

		out = mustRunTscale(t, env, "", "help", "config")
		assertContains(t, out, "[scale]", "config topic")
		assertContains(t, out, "max_weight = 500.0", "config default")
	})

	t.Run("unknown_command", func(t *testing.T) {
		_, stderr, err := runTscale(t, env, "", "frobnicate")
		if err == nil {
			t.Fatal("expected failure")
		}
		assertContains(t, stderr, "unknown command: frobnicate", "stderr")
	})
}

func TestGlobalFlags(t *testing.T) {
	rest, cfg, verbose := globalFlags([]string{"--verbose", "run", "--config", "/tmp/c.toml", "--log"})
	if cfg != "/tmp/c.toml" || !verbose {
		t.Errorf("config = %q, verbose = %v", cfg, verbose)
	}
	if strings.Join(rest, " ") != "run --log" {
		t.Errorf("rest = %v", rest)
	}
}

func TestFlagHelpers(t *testing.T) {
	args := []string{"--pace", "trace.jsonl", "--limit", "5"}
	if got := flagValue(args, "--limit"); got != "5" {
		t.Errorf("flagValue(--limit) = %q", got)
	}
	if got := flagValue(args, "--missing"); got != "" {
		t.Errorf("flagValue(--missing) = %q", got)
	}
	if !hasFlag(args, "--pace") || hasFlag(args, "--log") {
		t.Error("hasFlag mismatch")
	}
	if got := firstArg(args); got != "trace.jsonl" {
		t.Errorf("firstArg = %q", got)
	}
}

func TestFramesPerSecond(t *testing.T) {
	tests := []struct {
		ms   int
		want int
	}{
		{20, 50},
		{100, 10},
		{0, 50},
		{5000, 1},
	}
	for _, tt := range tests {
		if got := framesPerSecond(msDuration(tt.ms)); got != tt.want {
			t.Errorf("framesPerSecond(%dms) = %d, want %d", tt.ms, got, tt.want)
		}
	}
}
