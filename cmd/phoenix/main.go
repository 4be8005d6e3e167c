// Package main provides the entry point for the Phoenix compiler.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/phoenix-lang/phoenix/internal/build"
	"github.com/phoenix-lang/phoenix/internal/config"
	"github.com/phoenix-lang/phoenix/internal/diagnostic"
	"github.com/phoenix-lang/phoenix/internal/watch"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		showHelp    = flag.Bool("help", false, "show help information")
		configPath  = flag.String("config", config.DefaultFile, "project config file")
	)
	flag.Usage = showUsage
	flag.Parse()

	if *showVersion {
		fmt.Printf("Phoenix Compiler v%s\n", build.Version)
		return
	}
	if *showHelp {
		showUsage()
		return
	}

	args := flag.Args()
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Error: expected a command and an input file")
		showUsage()
		os.Exit(2)
	}
	command, input := args[0], args[1]

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch command {
	case "check":
		os.Exit(runCheck(input))
	case "build":
		os.Exit(runBuild(cfg, input))
	case "watch":
		os.Exit(runWatch(cfg, input))
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", command)
		showUsage()
		os.Exit(2)
	}
}

func runCheck(input string) int {
	res, err := build.Check(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if res.Diagnostics.HasErrors() {
		reporter := diagnostic.NewReporter(res.Source)
		fmt.Fprintln(os.Stderr, reporter.FormatAll(res.Diagnostics))
		return 1
	}
	fmt.Printf("%s: verified, zero ambiguity\n", input)
	return 0
}

func runBuild(cfg config.Config, input string) int {
	pipeline, err := build.NewPipeline(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	res, err := pipeline.Build(context.Background(), input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if res.Diagnostics.HasErrors() {
		reporter := diagnostic.NewReporter(res.Source)
		fmt.Fprintln(os.Stderr, reporter.FormatAll(res.Diagnostics))
		return 1
	}
	if res.CacheHit {
		fmt.Printf("%s: up to date (cached) -> %s\n", input, res.Binary)
	} else {
		fmt.Printf("%s: built -> %s\n", input, res.Binary)
	}
	return 0
}

func runWatch(cfg config.Config, input string) int {
	pipeline, err := build.NewPipeline(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rebuild := func() {
		res, err := pipeline.Build(ctx, input)
		switch {
		case err != nil:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		case res.Diagnostics.HasErrors():
			reporter := diagnostic.NewReporter(res.Source)
			fmt.Fprintln(os.Stderr, reporter.FormatAll(res.Diagnostics))
		default:
			fmt.Printf("%s: built -> %s\n", input, res.Binary)
		}
	}

	fmt.Printf("watching %s (Ctrl-C to stop)\n", input)
	w := watch.New(cfg.Watch.Debounce)
	if err := w.Run(ctx, input, rebuild); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func showUsage() {
	fmt.Println("Phoenix Compiler - prove it, or refuse it")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("    phoenix [OPTIONS] <COMMAND> <INPUT_FILE>")
	fmt.Println()
	fmt.Println("COMMANDS:")
	fmt.Println("    check     Parse and verify; print diagnostics, emit nothing")
	fmt.Println("    build     Verify, generate C, and compile a binary")
	fmt.Println("    watch     Build, then rebuild on every change")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("    --version    Show version information")
	fmt.Println("    --help       Show this help message")
	fmt.Println("    --config     Project config file (default phoenix.yaml)")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("    phoenix check examples/average.px")
	fmt.Println("    phoenix build examples/average.px")
	fmt.Println("    phoenix watch examples/average.px")
}
