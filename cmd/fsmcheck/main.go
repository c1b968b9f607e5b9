// fsmcheck validates machine manifest files: the YAML schema, the state
// set, and the definition rules a machine is built under. Handler names
// are resolved to stubs, so manifests can be checked without the code
// that supplies the real callables.
//
// Usage:
//
//	fsmcheck [-q] flow.yaml [more.yaml ...]
//
// With -q only invalid manifests are reported.
//
// Exit codes:
//   - 0: all manifests are valid
//   - 1: at least one manifest is invalid
//   - 2: usage or environment error
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dmitrymomot/fsmkit"
	"github.com/dmitrymomot/fsmkit/manifest"
)

var Version = "dev"

func main() {
	var quiet, showVersion bool
	flag.BoolVar(&quiet, "q", false, "only report invalid manifests")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(Version)
		os.Exit(0)
	}

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one manifest file is required")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  fsmcheck [-q] flow.yaml [more.yaml ...]")
		os.Exit(2)
	}

	cfg, err := fsmkit.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	failed := false
	for _, file := range files {
		if err := checkFile(file, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid manifest %s:\n", file)
			fmt.Fprintf(os.Stderr, "  %v\n", err)
			failed = true
			continue
		}
		if !quiet {
			fmt.Printf("✓ %s is valid\n", file)
		}
	}
	if failed {
		os.Exit(1)
	}
}

// checkFile loads the manifest with stubbed handlers and builds a
// throwaway machine from it, so schema problems and definition problems
// both surface.
func checkFile(path string, logger *slog.Logger) error {
	def, err := manifest.Load(path, manifest.WithStubHandlers())
	if err != nil {
		return err
	}
	if _, err := fsmkit.New(def, fsmkit.WithLogger(logger)); err != nil {
		return err
	}
	return nil
}
