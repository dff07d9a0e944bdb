// Package main is the entry point for the linebuf command-line editor.
//
// linebuf loads a document, runs Lua edit scripts against it and writes the
// result to stdout, a file, or back in place.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/dshills/linebuf/internal/config"
	"github.com/dshills/linebuf/internal/engine/buffer"
	"github.com/dshills/linebuf/internal/logging"
	"github.com/dshills/linebuf/internal/script"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errUsage reports invalid command-line usage.
var errUsage = errors.New("invalid usage")

// options holds parsed command-line flags.
type options struct {
	ConfigPath  string
	LogLevel    string
	Expr        string
	ScriptPath  string
	OutputPath  string
	InPlace     bool
	ShowVersion bool
	ShowHelp    bool
	File        string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout *os.File, stderr io.Writer) int {
	fs := flag.NewFlagSet("linebuf", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts, err := parseFlags(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if opts.ShowHelp {
		fs.Usage()
		return 0
	}
	if opts.ShowVersion {
		fmt.Fprintf(stdout, "linebuf %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	// Handle signals so a long-running script can be interrupted
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := edit(ctx, opts, stdin, stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var opts options

	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (.toml or .yaml)")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.Expr, "e", "", "Lua code to run against the document")
	fs.StringVar(&opts.ScriptPath, "script", "", "Lua script file to run against the document")
	fs.StringVar(&opts.OutputPath, "o", "", "Write the result to this file instead of stdout")
	fs.BoolVar(&opts.InPlace, "w", false, "Write the result back to the input file")
	fs.BoolVar(&opts.ShowVersion, "version", false, "Show version information")
	fs.BoolVar(&opts.ShowVersion, "v", false, "Show version information (shorthand)")
	fs.BoolVar(&opts.ShowHelp, "help", false, "Show help message")
	fs.BoolVar(&opts.ShowHelp, "h", false, "Show help message (shorthand)")

	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "linebuf - scriptable line-oriented text editor\n\n")
		fmt.Fprintf(out, "Usage: linebuf [options] [file]\n\n")
		fmt.Fprintf(out, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(out, "\nExamples:\n")
		fmt.Fprintf(out, "  linebuf -e 'doc.insert(0, \"# \")' notes.txt     Print the edited file\n")
		fmt.Fprintf(out, "  linebuf -script fix.lua -w main.c             Edit a file in place\n")
		fmt.Fprintf(out, "  cat log.txt | linebuf -e 'print(doc.line_count())' -o /dev/null\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	// Validate log level
	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
		// Valid
	default:
		return opts, fmt.Errorf("%w: log level %q (must be debug, info, warn, or error)", errUsage, opts.LogLevel)
	}

	switch fs.NArg() {
	case 0:
	case 1:
		opts.File = fs.Arg(0)
	default:
		return opts, fmt.Errorf("%w: at most one file may be given", errUsage)
	}

	if opts.InPlace && opts.File == "" {
		return opts, fmt.Errorf("%w: -w requires a file", errUsage)
	}
	if opts.InPlace && opts.OutputPath != "" {
		return opts, fmt.Errorf("%w: -w and -o are mutually exclusive", errUsage)
	}
	return opts, nil
}

// loadConfig reads the configuration file if one was given.
func loadConfig(opts options) (*config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigPath); err != nil {
			return nil, err
		}
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	return cfg, nil
}

// edit loads the document, runs the scripts and writes the result.
func edit(ctx context.Context, opts options, stdin io.Reader, stdout *os.File) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Logging())
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	ctx = logging.NewContext(ctx, logger)

	bufOpts := append(cfg.Engine.Options(), buffer.WithLogger(logging.WithComponent(logger, "buffer")))

	var doc *buffer.Document
	if opts.File == "" || opts.File == "-" {
		doc, err = buffer.NewFromReader(stdin, bufOpts...)
	} else {
		doc, err = buffer.Open(opts.File, bufOpts...)
	}
	if err != nil {
		return err
	}
	defer doc.Close()

	if syn, ok := cfg.SyntaxFor(opts.File); ok {
		if err := syn.Apply(doc); err != nil {
			return fmt.Errorf("syntax %s: %w", syn.Name, err)
		}
		logger.Debug("syntax applied", zap.String("syntax", syn.Name))
	}

	if err := runScripts(ctx, opts, doc, stdout); err != nil {
		return err
	}

	return writeResult(ctx, opts, doc, stdout)
}

// runScripts runs -script then -e against doc.
func runScripts(ctx context.Context, opts options, doc *buffer.Document, stdout io.Writer) error {
	if opts.Expr == "" && opts.ScriptPath == "" {
		return nil
	}

	// print output goes to stderr when the document itself is written to stdout
	out := stdout
	if opts.OutputPath == "" && !opts.InPlace {
		out = os.Stderr
	}

	st, err := script.NewState(doc,
		script.WithOutput(out),
		script.WithLogger(logging.WithComponent(logging.L(ctx), "script")))
	if err != nil {
		return err
	}
	defer st.Close()

	if opts.ScriptPath != "" {
		if err := st.RunFile(ctx, opts.ScriptPath); err != nil {
			return err
		}
	}
	if opts.Expr != "" {
		if err := st.Run(ctx, opts.Expr); err != nil {
			return err
		}
	}
	return nil
}

// writeResult writes doc according to the output flags.
func writeResult(ctx context.Context, opts options, doc *buffer.Document, stdout *os.File) error {
	logger := logging.L(ctx)

	switch {
	case opts.InPlace:
		if !doc.IsModified() {
			logger.Debug("document unchanged, not saving", zap.String("path", doc.Path()))
			return nil
		}
		if changed, err := doc.ChangedOnDisk(); err == nil && changed {
			logger.Warn("file changed on disk since it was read", zap.String("path", doc.Path()))
		}
		return doc.Save()
	case opts.OutputPath != "":
		n, err := doc.SaveAs(opts.OutputPath)
		if err != nil {
			return err
		}
		logger.Debug("document written", zap.String("path", opts.OutputPath), zap.Int64("bytes", n))
		return nil
	default:
		_, err := doc.WriteFD(int(stdout.Fd()))
		return err
	}
}
