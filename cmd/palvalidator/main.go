// Command palvalidator is the thin CLI driver that wires the pattern
// universe generator, the analysis database, and the bootstrap/Masters
// validation pipeline into a single binary, standing in for the original
// palanalyzer/PatternUniverseGenerator command-line tools named in
// spec.md §6.6.
package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "generate-universe":
		err = runGenerateUniverse(args)
	case "analyze":
		err = runAnalyze(args)
	case "analyze-batch":
		err = runAnalyzeBatch(args)
	case "validate":
		err = runValidate(args)
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "palvalidator: unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "palvalidator: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: palvalidator <command> [flags]

commands:
  generate-universe   enumerate a pattern universe under a search mode and write it to a binary file
  analyze             parse a single PAL pattern file into the analysis database
  analyze-batch       parse every PAL pattern file in a directory into the analysis database
  validate            run the BCa bootstrap and Masters Monte Carlo correction pipeline over a universe`)
}

func flagSetWithConfig(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	configPath := fs.String("config", "", "path to a YAML configuration file (optional, defaults applied otherwise)")
	return fs, configPath
}
