package check

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/suykerbuyk/touch-scale/internal/config"
	"github.com/suykerbuyk/touch-scale/internal/estimator"
	"github.com/suykerbuyk/touch-scale/internal/trace"
	"github.com/suykerbuyk/touch-scale/internal/weighlog"
)

func TestCheckConfig(t *testing.T) {
	if r := CheckConfig(""); r.Status != Pass || !strings.Contains(r.Detail, "defaults") {
		t.Errorf("defaults: %s %s", r.Status, r.Detail)
	}
	if r := CheckConfig("/etc/x/config.toml"); r.Status != Pass || r.Detail != "/etc/x/config.toml" {
		t.Errorf("file: %s %s", r.Status, r.Detail)
	}
}

func TestCheckFixes(t *testing.T) {
	if r := CheckFixes(nil); r.Status != Pass {
		t.Errorf("expected Pass, got %s: %s", r.Status, r.Detail)
	}
	r := CheckFixes([]string{"scale.precision", "tuning.alpha_cap"})
	if r.Status != Warn {
		t.Errorf("expected Warn, got %s", r.Status)
	}
	if r.Detail != "replaced with defaults: scale.precision, tuning.alpha_cap" {
		t.Errorf("unexpected detail: %s", r.Detail)
	}
}

func TestCheckScale(t *testing.T) {
	r := CheckScale(config.DefaultConfig())
	if r.Detail != "max 500 g, sensitivity 1, precision 0.1" {
		t.Errorf("unexpected detail: %s", r.Detail)
	}
}

func TestCheckLog_Disabled(t *testing.T) {
	r := CheckLog(context.Background(), config.LogConfig{Enabled: false})
	if r.Status != Pass || r.Detail != "disabled" {
		t.Errorf("got %s: %s", r.Status, r.Detail)
	}
}

func TestCheckLog_NotCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weighlog.db")
	r := CheckLog(context.Background(), config.LogConfig{Enabled: true, Path: path})
	if r.Status != Warn {
		t.Errorf("expected Warn, got %s: %s", r.Status, r.Detail)
	}
	if _, err := os.Stat(path); err == nil {
		t.Error("check created the weigh log")
	}
}

func TestCheckLog_Pass(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "weighlog.db")
	l, err := weighlog.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	l.Record(ctx, "s1", trace.Event{Type: trace.Tare}, estimator.Reading{Display: "0.0 g"})
	l.Close()

	r := CheckLog(ctx, config.LogConfig{Enabled: true, Path: path})
	if r.Status != Pass {
		t.Errorf("expected Pass, got %s: %s", r.Status, r.Detail)
	}
	if !strings.Contains(r.Detail, "(1 readings, 1 sessions)") {
		t.Errorf("unexpected detail: %s", r.Detail)
	}
}

func TestCheckTraceDir(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.jsonl"), nil, 0o644)
	os.WriteFile(filepath.Join(dir, "b.jsonl.zst"), nil, 0o644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644)

	r := CheckTraceDir(dir)
	if r.Status != Pass || !strings.HasSuffix(r.Detail, "(2 traces)") {
		t.Errorf("got %s: %s", r.Status, r.Detail)
	}

	if r := CheckTraceDir(filepath.Join(dir, "missing")); r.Status != Warn {
		t.Errorf("missing dir: expected Warn, got %s", r.Status)
	}
}

func TestCheckConfigDir(t *testing.T) {
	dir := t.TempDir()
	if r := CheckConfigDir(filepath.Join(dir, "config.toml")); r.Status != Pass {
		t.Errorf("expected Pass, got %s: %s", r.Status, r.Detail)
	}
	if r := CheckConfigDir(filepath.Join(dir, "gone", "config.toml")); r.Status != Fail {
		t.Errorf("expected Fail, got %s: %s", r.Status, r.Detail)
	}
	if r := CheckConfigDir(""); r.Status != Pass {
		t.Errorf("expected Pass for defaults, got %s", r.Status)
	}
}

func TestReport_HasFailures_True(t *testing.T) {
	r := Report{Results: []Result{
		{Name: "a", Status: Pass},
		{Name: "b", Status: Fail},
	}}
	if !r.HasFailures() {
		t.Error("expected HasFailures() == true")
	}
}

func TestReport_HasFailures_False(t *testing.T) {
	r := Report{Results: []Result{
		{Name: "a", Status: Pass},
		{Name: "b", Status: Warn},
	}}
	if r.HasFailures() {
		t.Error("expected HasFailures() == false")
	}
}

func TestRun_Integration(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Path = filepath.Join(dir, "config.toml")
	cfg.Log = config.LogConfig{Enabled: true, Path: filepath.Join(dir, "weighlog.db")}
	cfg.Trace.Dir = filepath.Join(dir, "traces")
	cfg.Fixes = []string{"scale.max_weight"}

	report := Run(context.Background(), cfg)
	if report.HasFailures() {
		t.Errorf("unexpected failures:\n%s", report.Format())
	}

	out := report.Format()
	for _, want := range []string{"tscale check", "values", "scale.max_weight", "weighlog", "traces", "3 warning"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReport_FormatEmpty(t *testing.T) {
	if got := (Report{}).Format(); !strings.Contains(got, "no checks ran") {
		t.Errorf("Format() = %q", got)
	}
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		s    Status
		want string
	}{
		{Pass, "pass"},
		{Warn, "warn"},
		{Fail, "FAIL"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
