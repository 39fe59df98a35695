package check

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/suykerbuyk/touch-scale/internal/config"
	"github.com/suykerbuyk/touch-scale/internal/trace"
	"github.com/suykerbuyk/touch-scale/internal/weighlog"
)

// Status represents the outcome of a single check.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report aggregates all check results.
type Report struct {
	Results []Result
}

// HasFailures returns true if any result has Fail status.
func (r Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

// Format returns the human-readable report string.
func (r Report) Format() string {
	if len(r.Results) == 0 {
		return "tscale check\n\n  no checks ran\n"
	}

	// Find max name length for alignment.
	maxName := 0
	for _, res := range r.Results {
		if len(res.Name) > maxName {
			maxName = len(res.Name)
		}
	}

	var b strings.Builder
	b.WriteString("tscale check\n\n")

	var passed, warnings, failures int
	for _, res := range r.Results {
		switch res.Status {
		case Pass:
			passed++
		case Warn:
			warnings++
		case Fail:
			failures++
		}
		fmt.Fprintf(&b, "  %-4s  %-*s  %s\n", res.Status, maxName, res.Name, res.Detail)
	}

	fmt.Fprintf(&b, "\n%d passed, %d warning, %d failure\n", passed, warnings, failures)
	return b.String()
}

// CheckConfig reports where the config came from. Broken TOML is caught
// when the config is loaded, before we get here.
func CheckConfig(path string) Result {
	if path == "" {
		return Result{Name: "config", Status: Pass, Detail: "built-in defaults (run `tscale init` to write a file)"}
	}
	return Result{Name: "config", Status: Pass, Detail: config.CompressHome(path)}
}

// CheckFixes warns about config values that were replaced with defaults.
func CheckFixes(fixes []string) Result {
	if len(fixes) == 0 {
		return Result{Name: "values", Status: Pass, Detail: "all values in range"}
	}
	return Result{Name: "values", Status: Warn, Detail: "replaced with defaults: " + strings.Join(fixes, ", ")}
}

// CheckScale summarizes the effective scale settings.
func CheckScale(cfg config.Config) Result {
	s := cfg.Settings()
	return Result{
		Name:   "scale",
		Status: Pass,
		Detail: fmt.Sprintf("max %g g, sensitivity %g, precision %g", s.MaxWeight, s.Sensitivity, s.Precision),
	}
}

// CheckLog checks the weigh log. A disabled log passes; an enabled log that
// does not exist yet warns; one that cannot be opened fails.
func CheckLog(ctx context.Context, lcfg config.LogConfig) Result {
	if !lcfg.Enabled {
		return Result{Name: "weighlog", Status: Pass, Detail: "disabled"}
	}
	if _, err := os.Stat(lcfg.Path); err != nil {
		return Result{Name: "weighlog", Status: Warn, Detail: config.CompressHome(lcfg.Path) + " not created yet"}
	}
	l, err := weighlog.Open(ctx, lcfg.Path)
	if err != nil {
		return Result{Name: "weighlog", Status: Fail, Detail: err.Error()}
	}
	defer l.Close()
	s, err := l.Summary(ctx)
	if err != nil {
		return Result{Name: "weighlog", Status: Fail, Detail: err.Error()}
	}
	return Result{
		Name:   "weighlog",
		Status: Pass,
		Detail: fmt.Sprintf("%s (%d readings, %d sessions)", config.CompressHome(lcfg.Path), s.Readings, s.Sessions),
	}
}

// CheckTraceDir checks the trace directory and counts recorded traces.
func CheckTraceDir(dir string) Result {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return Result{Name: "traces", Status: Warn, Detail: config.CompressHome(dir) + " not found (created by tscale archive)"}
	}
	files, err := trace.Discover(dir)
	if err != nil {
		return Result{Name: "traces", Status: Fail, Detail: err.Error()}
	}
	return Result{Name: "traces", Status: Pass, Detail: fmt.Sprintf("%s (%d traces)", config.CompressHome(dir), len(files))}
}

// CheckConfigDir checks that the config directory can be watched for
// live reloads.
func CheckConfigDir(path string) Result {
	if path == "" {
		return Result{Name: "reload", Status: Pass, Detail: "no config file to watch"}
	}
	if info, err := os.Stat(filepath.Dir(path)); err == nil && info.IsDir() {
		return Result{Name: "reload", Status: Pass, Detail: "watching " + config.CompressHome(filepath.Dir(path))}
	}
	return Result{Name: "reload", Status: Fail, Detail: filepath.Dir(path) + " not found"}
}

// Run executes all checks against the given config and returns a report.
func Run(ctx context.Context, cfg config.Config) Report {
	var results []Result

	results = append(results, CheckConfig(cfg.Path))
	results = append(results, CheckFixes(cfg.Fixes))
	results = append(results, CheckScale(cfg))
	results = append(results, CheckConfigDir(cfg.Path))
	results = append(results, CheckLog(ctx, cfg.Log))
	results = append(results, CheckTraceDir(cfg.Trace.Dir))

	return Report{Results: results}
}
