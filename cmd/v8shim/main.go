package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/GriffinCanCode/v8goja/internal/engine"
	"github.com/GriffinCanCode/v8goja/internal/infrastructure/config"
	"github.com/GriffinCanCode/v8goja/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/v8goja/internal/logging"
	"github.com/GriffinCanCode/v8goja/internal/scripts"
	"github.com/GriffinCanCode/v8goja/internal/shared/paths"
	v8 "github.com/GriffinCanCode/v8goja/internal/v8"
)

const (
	exitOK     = 0
	exitScript = 1
	exitUsage  = 2
)

type options struct {
	configPath string
	dev        bool
	jsonOut    bool
	metrics    bool
	repeat     int
	eval       string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*options, []string, error) {
	opts := &options{}
	fs := flag.NewFlagSet("v8shim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "TOML or YAML config file")
	fs.BoolVar(&opts.dev, "dev", false, "development logging (debug level, console encoding)")
	fs.BoolVar(&opts.jsonOut, "json", false, "print results as JSON lines")
	fs.BoolVar(&opts.metrics, "metrics", false, "dump metrics to stderr on exit")
	fs.IntVar(&opts.repeat, "repeat", 1, "run each script n times and report timing")
	fs.StringVar(&opts.eval, "e", "", "evaluate the given source instead of files")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if opts.repeat < 1 {
		return nil, nil, fmt.Errorf("-repeat must be at least 1, got %d", opts.repeat)
	}
	return opts, fs.Args(), nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, files, err := parseFlags(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return exitUsage
	}

	logger, err := newLogger(cfg, opts.dev)
	if err != nil {
		fmt.Fprintf(stderr, "logger: %v\n", err)
		return exitUsage
	}
	defer logger.Sync()

	var metrics *monitoring.Metrics
	if cfg.Metrics.Enabled || opts.metrics {
		metrics = monitoring.NewMetrics()
	}
	if opts.metrics {
		defer func() {
			if err := metrics.WriteText(stderr); err != nil {
				logger.Warn("metrics dump failed", zap.Error(err))
			}
		}()
	}

	params := v8.CreateParams{
		Config:  isolateConfig(cfg),
		Logger:  logger.Engine(),
		Metrics: metrics,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sources []*scripts.Source
	switch {
	case opts.eval != "":
		src, err := scripts.Decode([]byte(opts.eval))
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitUsage
		}
		src.Name = "<eval>"
		sources = append(sources, src)

	case len(files) > 0:
		sources, err = loadSources(ctx, cfg, files)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitUsage
		}

	case isTerminal(stdin):
		return runREPL(ctx, params, stdout, stderr)

	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "read stdin: %v\n", err)
			return exitUsage
		}
		src, err := scripts.Decode(data)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitUsage
		}
		src.Name = "<stdin>"
		sources = append(sources, src)
	}

	pool, err := v8.NewIsolatePool(v8.PoolConfig{
		Size:           cfg.Pool.Size,
		AcquireTimeout: cfg.Pool.AcquireTimeout.Std(),
		Params:         params,
	})
	if err != nil {
		fmt.Fprintf(stderr, "isolate pool: %v\n", err)
		return exitUsage
	}
	defer pool.Close()

	console := newConsole(stdout, stderr)
	results := newRunner(pool, console, cfg.Pool.Size).runAll(ctx, sources, opts.repeat)

	failed := false
	for _, res := range results {
		if res.Error != "" {
			failed = true
		}
		if err := writeResult(stdout, res, opts.jsonOut); err != nil {
			logger.Error("write result failed", zap.Error(err))
		}
	}
	logger.Info("scripts finished", zap.Int("count", len(results)), zap.Bool("failed", failed))

	if failed {
		return exitScript
	}
	return exitOK
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path, _ = paths.FindConfig()
	}
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func newLogger(cfg *config.Config, dev bool) (*logging.Logger, error) {
	return logging.New(logging.FromSettings(cfg.Logging.Level, cfg.Logging.Development, dev))
}

func isolateConfig(cfg *config.Config) v8.Config {
	return v8.Config{
		Engine: engine.Config{
			MaxCallStackSize: cfg.Engine.MaxCallStack,
			Timeout:          cfg.Engine.ScriptTimeout.Std(),
		},
		ArrayBufferFieldCount: cfg.Isolate.ArrayBufferFields,
		ViewFieldCount:        cfg.Isolate.ViewFields,
	}
}

func loadSources(ctx context.Context, cfg *config.Config, args []string) ([]*scripts.Source, error) {
	paths, err := scripts.NewResolver(cfg.Scripts.Extensions).Resolve(ctx, args)
	if err != nil {
		return nil, err
	}
	loader := scripts.NewLoader(cfg.Scripts.MaxSize)
	sources := make([]*scripts.Source, 0, len(paths))
	for _, p := range paths {
		src, err := loader.Load(p)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
