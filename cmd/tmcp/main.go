package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jadrian/tmcp/internal/config"
	"github.com/jadrian/tmcp/internal/engine"
	"github.com/jadrian/tmcp/internal/event"
	"github.com/jadrian/tmcp/internal/filter"
	"github.com/jadrian/tmcp/internal/stats"
	"github.com/jadrian/tmcp/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run())
}

// excludeFlag is a custom pflag.Value that preserves CLI ordering of
// repeated --exclude rules by appending to a shared filter.Chain.
type excludeFlag struct {
	chain *filter.Chain
}

var _ pflag.Value = (*excludeFlag)(nil)

func (*excludeFlag) String() string { return "" }
func (*excludeFlag) Type() string   { return "string" }

func (f *excludeFlag) Set(val string) error {
	if val == "" {
		return nil
	}
	return f.chain.AddExclude(val)
}

func run() int {
	var (
		showVersion  bool
		showExamples bool
		inodesDir    string
		force        bool
		dryRun       bool
		verbose      bool
		quiet        bool
		filterFile   string
		logFile      string
	)

	chain := filter.NewChain()

	rootCmd := &cobra.Command{
		Use:   "tmcp [flags] <src>... <dst>",
		Short: "Copy files/directories from a Time Machine backup",
		Args: func(cmd *cobra.Command, args []string) error {
			if showVersion || showExamples {
				return nil
			}
			return cobra.MinimumNArgs(2)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(os.Stdout, "tmcp %s\n", version)
				return nil
			}
			if showExamples {
				_ = cmd.Help()
				fmt.Fprintln(os.Stderr, tutorial(os.Args[0]))
				return nil
			}

			sources := args[:len(args)-1]
			dst := args[len(args)-1]

			// Load optional config file.
			cfg, err := config.Load()
			if err != nil {
				slog.Warn("failed to load config", "error", err)
			}
			applyConfigDefaults(cmd, cfg.Defaults, &verbose, &quiet, &force)

			// Config excludes apply after any CLI rules.
			for _, pattern := range cfg.Defaults.Exclude {
				if err := chain.AddExclude(pattern); err != nil {
					return fmt.Errorf("config exclude %q: %w", pattern, err)
				}
			}

			// Configure logging.
			logLevel := slog.LevelWarn
			if verbose {
				logLevel = slog.LevelDebug
			} else if !quiet {
				logLevel = slog.LevelInfo
			}
			textHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel,
			})
			var logHandler slog.Handler = textHandler
			if logFile != "" {
				lf, lfErr := os.Create(logFile)
				if lfErr != nil {
					return fmt.Errorf("open log file: %w", lfErr)
				}
				defer lf.Close()
				jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})
				logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
			}
			slog.SetDefault(slog.New(logHandler))

			if dryRun {
				slog.Info("dry run mode")
			}

			if filterFile != "" {
				if err := chain.LoadFile(filterFile); err != nil {
					return fmt.Errorf("load filter file: %w", err)
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			collector := stats.NewCollector()
			events := make(chan event.Event, 256)

			// When --log is set, tee events through a logging goroutine
			// that writes structured records before forwarding.
			presenterEvents := (<-chan event.Event)(events)
			if logFile != "" {
				teed := make(chan event.Event, 256)
				go func() {
					for ev := range events {
						attrs := []slog.Attr{
							slog.String("type", ev.Type.String()),
							slog.String("path", ev.Path),
							slog.Int64("size", ev.Size),
						}
						if ev.Error != nil {
							attrs = append(attrs, slog.String("error", ev.Error.Error()))
						}
						slog.LogAttrs(context.Background(), slog.LevelInfo, "tmcp.event", attrs...)
						teed <- ev
					}
					close(teed)
				}()
				presenterEvents = teed
			}

			presenter := ui.NewPresenter(ui.Config{
				Writer:    os.Stdout,
				ErrWriter: os.Stderr,
				Stats:     collector,
				Quiet:     quiet,
				Verbose:   verbose,
				// With an explicit archive root, displayed paths drop
				// the long backup-volume prefix.
				Root: inodesDir,
			})

			engineCfg := engine.Config{
				Sources: sources,
				Dst:     dst,
				Archive: inodesDir,
				Events:  events,
				Stats:   collector,
				DryRun:  dryRun,
				Force:   force,
			}
			if !chain.Empty() {
				engineCfg.Filter = chain
			}

			slog.Debug("starting copy",
				"sources", sources,
				"dst", dst,
				"archive", inodesDir,
				"force", force,
			)

			var presenterErr error
			var presenterWg sync.WaitGroup
			presenterWg.Add(1)
			go func() {
				defer presenterWg.Done()
				presenterErr = presenter.Run(presenterEvents)
			}()

			result := engine.Run(ctx, engineCfg)
			stop()
			close(events)
			presenterWg.Wait()
			if presenterErr != nil {
				fmt.Fprintf(os.Stderr, "presenter: %v\n", presenterErr)
			}

			// Keep piped output clean: the summary line is for humans,
			// so it only appears on a terminal unless verbose asks for it.
			if !quiet && (verbose || ui.IsTTY(os.Stderr.Fd())) {
				if summary := presenter.Summary(); summary != "" {
					fmt.Fprintln(os.Stderr, summary)
				}
			}

			if result.Err != nil {
				slog.Error("copy failed", "error", result.Err)
				if result.Stats.FilesCopied > 0 {
					return &exitError{code: 1} // partial failure
				}
				return &exitError{code: 2} // total failure
			}

			return nil
		},
	}

	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")
	rootCmd.Flags().
		BoolVarP(&showExamples, "examples", "H", false, "print detailed help with worked examples and exit")
	rootCmd.Flags().
		StringVarP(&inodesDir, "inodes-dir", "D", "", "path to the Time Machine fake inode directory (default: auto-detect)")
	rootCmd.Flags().
		BoolVar(&force, "force", false, "allow copying a backup volume root (normally refused)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be copied without writing")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.Flags().
		Var(&excludeFlag{chain: chain}, "exclude", "exclude entries matching PATTERN (repeatable)")
	rootCmd.Flags().StringVar(&filterFile, "filter", "", "read filter rules from FILE")
	rootCmd.Flags().StringVar(&logFile, "log", "", "write structured JSON log to FILE")

	rootCmd.AddCommand(docsCmd)

	// Original tool behavior: bare invocation prints help and fails.
	if len(os.Args) == 1 {
		_ = rootCmd.Help()
		return 1
	}

	if err := rootCmd.Execute(); err != nil {
		if exitErr, ok := err.(*exitError); ok {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	return 0
}

// applyConfigDefaults applies config file defaults for flags not
// explicitly set on the CLI.
func applyConfigDefaults(
	cmd *cobra.Command,
	defaults config.DefaultsConfig,
	verbose *bool,
	quiet *bool,
	force *bool,
) {
	if !cmd.Flags().Changed("verbose") && defaults.Verbose != nil {
		*verbose = *defaults.Verbose
	}
	if !cmd.Flags().Changed("quiet") && defaults.Quiet != nil {
		*quiet = *defaults.Quiet
	}
	if !cmd.Flags().Changed("force") && defaults.Force != nil {
		*force = *defaults.Force
	}
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
