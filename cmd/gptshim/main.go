package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/gpt-shim/config"
	"github.com/wippyai/gpt-shim/engine"
	"github.com/wippyai/gpt-shim/gpt"
	"github.com/wippyai/gpt-shim/runtime"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Path to config file (.toml, .yaml)")
		scheme      = flag.String("scheme", "", "Decoration scheme (none, caps, underscore, double-underscore)")
		module      = flag.String("module", "", "Import module name")
		maxChars    = flag.Int("max-chars", 0, "Name bound in bytes")
		list        = flag.Bool("list", false, "Print the alias table and platform info, then exit")
		script      = flag.String("run", "", "Routines to call (start:name,stop:name,stamp,pr:0,...)")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		logLevel    = flag.String("log-level", "", "Log level (debug, info, warn, error)")
		logFile     = flag.String("log-file", "", "Write logs to a rotated file")
	)
	flag.Parse()

	if !*list && *script == "" && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: gptshim [-config file] -list")
		fmt.Fprintln(os.Stderr, "       gptshim [-config file] -run start:region_A,stamp,stop:region_A")
		fmt.Fprintln(os.Stderr, "       gptshim [-config file] -i  (interactive mode)")
		os.Exit(1)
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *scheme != "" {
		cfg.Bridge.Scheme = *scheme
	}
	if *module != "" {
		cfg.Bridge.Module = *module
	}
	if *maxChars != 0 {
		cfg.Bridge.MaxChars = *maxChars
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *logFile != "" {
		cfg.Log.File = *logFile
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *list {
		if err := printList(os.Stdout, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *interactive && !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: -i requires a terminal")
		os.Exit(1)
	}

	// The TUI owns the terminal; keep console logs out of it.
	if *interactive && cfg.Log.File == "" {
		cfg.Log.Level = "error"
	}

	if err := run(cfg, *script, *interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.FromEnv()
	}
	return config.Load(path)
}

func run(cfg config.Config, script string, interactive bool) error {
	ctx := context.Background()

	logger, err := cfg.Log.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()
	engine.SetLogger(logger.Named("engine"))

	facility := gpt.WithLogging(gpt.NewClock(), logger.Named("gpt"))
	rt, err := runtime.New(ctx, facility, runtime.WithConfig(cfg), runtime.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("create runtime: %w", err)
	}
	defer rt.Close(ctx)

	caller, err := rt.NewCaller(ctx)
	if err != nil {
		return fmt.Errorf("create caller: %w", err)
	}
	defer caller.Close(ctx)

	if interactive {
		return runInteractive(rt, caller)
	}

	steps, err := parseSteps(script)
	if err != nil {
		return err
	}
	logger.Debug("running script", zap.Int("steps", len(steps)))

	for _, s := range steps {
		out, err := s.exec(ctx, caller)
		if err != nil {
			return fmt.Errorf("%s: %w", s, err)
		}
		fmt.Printf("%-24s %s\n", s, out)
	}
	return nil
}
