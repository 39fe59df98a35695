package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/suykerbuyk/touch-scale/internal/check"
	"github.com/suykerbuyk/touch-scale/internal/config"
	"github.com/suykerbuyk/touch-scale/internal/estimator"
	"github.com/suykerbuyk/touch-scale/internal/help"
	"github.com/suykerbuyk/touch-scale/internal/render"
	"github.com/suykerbuyk/touch-scale/internal/session"
	"github.com/suykerbuyk/touch-scale/internal/trace"
	"github.com/suykerbuyk/touch-scale/internal/weighlog"
)

func main() {
	args, configPath, verbose := globalFlags(os.Args[1:])
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}

	cmd, rest := args[0], args[1:]
	if hasFlag(rest, "--help") || hasFlag(rest, "-h") {
		if c, ok := help.Lookup(cmd); ok {
			fmt.Print(help.FormatTerminal(c))
			return
		}
	}

	switch cmd {
	case "version":
		fmt.Printf("tscale v%s (touch-scale)\n", help.Version)
		return
	case "help", "--help", "-h":
		if len(rest) > 0 {
			if c, ok := help.Lookup(rest[0]); ok {
				fmt.Print(help.FormatTerminal(c))
				return
			}
			if r, ok := help.LookupReference(rest[0]); ok {
				fmt.Print(help.FormatReference(r))
				return
			}
		}
		usage()
		return
	case "init":
		path, err := config.WriteDefault()
		if err != nil {
			fatal("init: %v", err)
		}
		fmt.Printf("config: %s\n", config.CompressHome(path))
		return
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fatal("load config: %v", err)
	}

	logger, err := newLogger(verbose)
	if err != nil {
		fatal("create logger: %v", err)
	}
	defer logger.Sync()
	if len(cfg.Fixes) > 0 {
		logger.Warn("config values replaced with defaults", zap.Strings("fields", cfg.Fixes))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "weigh":
		err = runWeigh(cfg, rest)
	case "run":
		err = runLive(ctx, cfg, logger, rest)
	case "replay":
		err = runReplay(ctx, cfg, logger, rest)
	case "demo":
		err = runDemo(ctx, cfg, logger, rest)
	case "simulate":
		err = runSimulate(ctx, cfg, logger, rest)
	case "history":
		err = runHistory(ctx, cfg, rest)
	case "archive":
		err = runArchive(cfg, rest)
	case "check":
		report := check.Run(ctx, cfg)
		fmt.Print(report.Format())
		if report.HasFailures() {
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Sync()
		fatal("%s: %v", cmd, err)
	}
}

func runWeigh(cfg config.Config, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: tscale weigh <pressure>...")
	}
	est := estimator.New(cfg.Settings(), cfg.EstimatorTuning())
	for _, a := range args {
		p, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("invalid pressure %q", a)
		}
		r := est.Press(p, 1)
		est.Release()
		fmt.Printf("%-6s %s\n", a, render.Line(r, render.DefaultBarWidth))
	}
	return nil
}

func runLive(ctx context.Context, cfg config.Config, logger *zap.Logger, args []string) error {
	var opts []session.Option
	path := flagValue(args, "--record")
	if path == "" && hasFlag(args, "--save") {
		path = trace.NewTracePath(cfg.Trace.Dir, time.Now(), cfg.Trace.Compress)
	}
	if path != "" {
		logger.Info("recording trace", zap.String("path", path))
		rec, err := trace.NewRecorder(path)
		if err != nil {
			return err
		}
		defer rec.Close()
		opts = append(opts, session.WithRecorder(rec))
	}
	s, closeLog, err := newSession(ctx, cfg, logger, hasFlag(args, "--log"), opts...)
	if err != nil {
		return err
	}
	defer closeLog()

	tick := msDuration(cfg.Simulate.IntervalMs)
	if v := flagValue(args, "--tick"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 0 {
			return fmt.Errorf("invalid --tick %q", v)
		}
		tick = msDuration(ms)
	}

	events := make(chan trace.Event)
	go func() {
		defer close(events)
		err := trace.Scan(os.Stdin, func(ev trace.Event) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		}, func(line string) {
			logger.Warn("skipped event line", zap.String("line", line))
		})
		if err != nil {
			logger.Error("read stdin", zap.Error(err))
		}
	}()

	configs := make(chan config.Config, 1)
	if cfg.Path != "" {
		w, err := config.NewWatcher(logger, cfg.Path, config.DefaultDebounce, func(c config.Config) {
			select {
			case configs <- c:
			case <-ctx.Done():
			}
		})
		if err != nil {
			logger.Warn("config reload disabled", zap.Error(err))
		} else {
			go w.Run(ctx)
		}
	}

	out := render.NewWriter(os.Stdout, render.DefaultBarWidth, nil)
	err = s.Run(ctx, session.Inputs{Events: events, Configs: configs, Tick: tick}, func(r session.Result) {
		if r.Event.Type == trace.Tick {
			return
		}
		out.Write(string(r.Event.Type), r.Reading)
	})
	st := s.Stats()
	logger.Info("input finished",
		zap.Int("applied", st.Applied),
		zap.Int("rejected", st.Rejected))
	return err
}

func runReplay(ctx context.Context, cfg config.Config, logger *zap.Logger, args []string) error {
	path := firstArg(args)
	if hasFlag(args, "--latest") {
		f, ok, err := trace.Latest(cfg.Trace.Dir)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no traces in %s", config.CompressHome(cfg.Trace.Dir))
		}
		path = f.Path
	}
	if path == "" {
		return errors.New("usage: tscale replay <trace.jsonl[.zst]> | --latest [--pace] [--log]")
	}
	tr, err := trace.ParseFile(path)
	if err != nil {
		return err
	}
	s, closeLog, err := newSession(ctx, cfg, logger, hasFlag(args, "--log"))
	if err != nil {
		return err
	}
	defer closeLog()

	out := render.NewWriter(os.Stdout, render.DefaultBarWidth, nil)
	err = s.Replay(ctx, tr.Events, hasFlag(args, "--pace"), func(r session.Result) {
		out.Write(string(r.Event.Type), r.Reading)
	})
	st := s.Stats()
	fmt.Printf("\n%d applied, %d rejected, %d skipped\n", st.Applied, st.Rejected, tr.Skipped)
	return err
}

func runDemo(ctx context.Context, cfg config.Config, logger *zap.Logger, args []string) error {
	s, closeLog, err := newSession(ctx, cfg, logger, hasFlag(args, "--log"))
	if err != nil {
		return err
	}
	defer closeLog()

	interval := msDuration(cfg.Demo.IntervalMs)
	out := render.NewWriter(os.Stdout, render.DefaultBarWidth, render.NewAnimator(framesPerSecond(interval), 6, 1))
	return s.Demo(ctx, interval, cfg.Demo.Step, func(r session.Result) {
		out.Write(string(r.Event.Type), r.Reading)
	})
}

func runSimulate(ctx context.Context, cfg config.Config, logger *zap.Logger, args []string) error {
	v := flagValue(args, "--weight")
	if v == "" {
		return errors.New("usage: tscale simulate --weight <g> [--ticks <n>] [--log]")
	}
	grams, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid --weight %q", v)
	}
	ticks := cfg.Simulate.Ticks
	if t := flagValue(args, "--ticks"); t != "" {
		if ticks, err = strconv.Atoi(t); err != nil || ticks < 0 {
			return fmt.Errorf("invalid --ticks %q", t)
		}
	}

	s, closeLog, err := newSession(ctx, cfg, logger, hasFlag(args, "--log"))
	if err != nil {
		return err
	}
	defer closeLog()

	interval := msDuration(cfg.Simulate.IntervalMs)
	out := render.NewWriter(os.Stdout, render.DefaultBarWidth, render.NewAnimator(framesPerSecond(interval), 6, 1))
	return s.Simulate(ctx, grams, interval, ticks, func(r session.Result) {
		out.Write(string(r.Event.Type), r.Reading)
	})
}

func runHistory(ctx context.Context, cfg config.Config, args []string) error {
	limit := 20
	if v := flagValue(args, "--limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid --limit %q", v)
		}
		limit = n
	}
	if _, err := os.Stat(cfg.Log.Path); err != nil {
		fmt.Print(weighlog.Format(weighlog.Summary{}, nil))
		return nil
	}
	l, err := weighlog.Open(ctx, cfg.Log.Path)
	if err != nil {
		return err
	}
	defer l.Close()

	summary, err := l.Summary(ctx)
	if err != nil {
		return err
	}
	recent, err := l.Recent(ctx, limit)
	if err != nil {
		return err
	}
	fmt.Print(weighlog.Format(summary, recent))
	return nil
}

func runArchive(cfg config.Config, args []string) error {
	path := firstArg(args)
	if path == "" {
		return errors.New("usage: tscale archive <trace.jsonl>")
	}
	dest, err := trace.Compress(path, cfg.Trace.Dir)
	if err != nil {
		return err
	}
	fmt.Printf("archived: %s\n", config.CompressHome(dest))
	return nil
}

// newSession builds a session over a fresh estimator, logging readings to
// the weigh log when asked to or when the config enables it.
func newSession(ctx context.Context, cfg config.Config, logger *zap.Logger, logReadings bool, opts ...session.Option) (*session.Session, func(), error) {
	est := estimator.New(cfg.Settings(), cfg.EstimatorTuning())
	opts = append(opts, session.WithLogger(logger))

	closeLog := func() {}
	if logReadings || cfg.Log.Enabled {
		l, err := weighlog.Open(ctx, cfg.Log.Path)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, session.WithSink(l))
		closeLog = func() {
			if err := l.Close(); err != nil {
				logger.Warn("close weigh log", zap.Error(err))
			}
		}
	}
	return session.New(est, opts...), closeLog, nil
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return zc.Build()
}

func msDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func framesPerSecond(interval time.Duration) int {
	if interval <= 0 {
		return 50
	}
	return max(1, int(time.Second/interval))
}

// globalFlags strips --config <file> and --verbose from anywhere in args.
func globalFlags(args []string) (rest []string, configPath string, verbose bool) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--config":
			if i+1 < len(args) {
				configPath = args[i+1]
				i++
			}
		case "--verbose", "-v":
			verbose = true
		default:
			rest = append(rest, args[i])
		}
	}
	return rest, configPath, verbose
}

func usage() {
	fmt.Fprint(os.Stderr, help.FormatUsage(help.TopLevel, help.Subcommands))
}

func flagValue(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

// firstArg returns the first argument that is not a flag.
func firstArg(args []string) string {
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			return a
		}
	}
	return ""
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "tscale: "+format+"\n", args...)
	os.Exit(1)
}
