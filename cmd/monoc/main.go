// Command monoc runs the monomorphizer over one or more HIR programs
// serialized as JSON.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"github.com/malphas-lang/monomorphizer/internal/diag"
	"github.com/malphas-lang/monomorphizer/internal/hirio"
	"github.com/malphas-lang/monomorphizer/internal/mono"
	"github.com/malphas-lang/monomorphizer/internal/monoconfig"
	"github.com/malphas-lang/monomorphizer/internal/runreport"
	"github.com/malphas-lang/monomorphizer/internal/typeinfo"
)

func debugLog(format string, a ...interface{}) {
	if os.Getenv("MONOC_DEBUG") != "" {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format, a...)
	}
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: monoc [flags] <command> [arguments]\n")
		fmt.Fprintf(os.Stderr, "\nCommands:\n")
		fmt.Fprintf(os.Stderr, "  run <file>        Monomorphize a single HIR JSON file\n")
		fmt.Fprintf(os.Stderr, "  batch <file...>   Monomorphize several HIR JSON files concurrently\n")
		fmt.Fprintf(os.Stderr, "  inspect <file>    Print every diagnostic of a run (specializations and skips)\n")
		fmt.Fprintf(os.Stderr, "  version           Show version information\n")
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	var err error
	switch command {
	case "run":
		err = runOne(args)
	case "batch":
		err = runBatch(args)
	case "inspect":
		err = runInspect(args)
	case "version", "-v", "--version":
		fmt.Println("monoc (monomorphizer) development build")
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "monoc: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() *monoconfig.Config {
	cfg, err := monoconfig.Load("monoc.yaml")
	if err != nil {
		debugLog("no usable monoc.yaml (%v); using defaults\n", err)
		cfg, _ = monoconfig.Parse(nil, "monoc.yaml")
	}
	return cfg
}

func colorEnabled(cfg *monoconfig.Config) bool {
	if cfg.Color != nil {
		return *cfg.Color
	}
	return isatty.IsTerminal(os.Stderr.Fd())
}

// transformFile loads path, runs Transform, and returns a run report
// stamped with the start time and elapsed time of the Transform call.
func transformFile(path string) (*runreport.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	prog, err := hirio.Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	start := time.Now()
	result, err := mono.Transform(prog, typeinfo.Static{}, mono.Options{})
	if err != nil {
		return nil, fmt.Errorf("monomorphizing %s: %w", path, err)
	}
	elapsed := time.Since(start)

	return runreport.New(path, start, elapsed, result), nil
}

func runOne(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("run requires exactly one HIR file")
	}
	cfg := loadConfig()

	report, err := transformFile(args[0])
	if err != nil {
		return err
	}
	return emitReport(cfg, report)
}

func runBatch(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("batch requires at least one HIR file")
	}
	cfg := loadConfig()

	reports := make([]*runreport.Report, len(args))
	var g errgroup.Group
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			r, err := transformFile(path)
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, r := range reports {
		if err := emitReport(cfg, r); err != nil {
			return err
		}
	}
	return nil
}

func runInspect(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("inspect requires exactly one HIR file")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer f.Close()

	prog, err := hirio.Load(f)
	if err != nil {
		return fmt.Errorf("loading %s: %w", args[0], err)
	}

	result, err := mono.Transform(prog, typeinfo.Static{}, mono.Options{})
	if err != nil {
		return fmt.Errorf("monomorphizing %s: %w", args[0], err)
	}

	cfg := loadConfig()
	formatter := diag.NewFormatter()
	formatter.Color = colorEnabled(cfg)
	formatter.FormatAll(os.Stdout, result.Diagnostics)
	return nil
}

func emitReport(cfg *monoconfig.Config, report *runreport.Report) error {
	if cfg.Format == "yaml" {
		return report.WriteYAML(os.Stdout)
	}
	return report.WriteText(os.Stdout)
}
