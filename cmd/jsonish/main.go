// jsonish formats and validates the relaxed JSON dialect read by the
// jsonish library. Each input is decoded and re-emitted in canonical
// single-line form, so the tool doubles as a normalizer for config
// files that carry comments and trailing commas.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/go-jsonish/jsonish"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		strict   bool
		check    bool
		maxDepth int
	)

	flagSet := pflag.NewFlagSet("jsonish", pflag.ContinueOnError)
	flagSet.BoolVar(&strict, "strict", false, "reject comments, trailing commas, single quotes and other loose extensions")
	flagSet.BoolVarP(&check, "check", "c", false, "validate only; print nothing for valid input")
	flagSet.IntVar(&maxDepth, "max-depth", 1000, "maximum nesting depth for decoding and encoding")
	flagSet.BoolP("help", "h", false, "show help")
	flagSet.Usage = func() { printHelp(flagSet) }

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		// pflag has already reported the problem and printed usage.
		return 2
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return 0
	}
	if maxDepth <= 0 {
		fmt.Fprintf(os.Stderr, "error: --max-depth must be a positive integer\n")
		return 2
	}

	opts := []jsonish.Option{jsonish.MaxDepth(maxDepth)}
	if strict {
		opts = append(opts, jsonish.Strict())
	}

	paths := flagSet.Args()
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	exit := 0
	for _, path := range paths {
		if err := process(path, check, opts); err != nil {
			name := path
			if path == "-" {
				name = "stdin"
			}
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			exit = 1
		}
	}
	return exit
}

// process decodes one input and, unless check is set, writes its canonical
// encoding to stdout. "-" names stdin.
func process(path string, check bool, opts []jsonish.Option) error {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return err
	}

	v, err := jsonish.Decode(data, opts...)
	if err != nil {
		return err
	}
	if check {
		return nil
	}
	return jsonish.NewEncoder(os.Stdout).Encode(v)
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `jsonish - format and validate relaxed JSON.

Reads each FILE (stdin when none is given, or when FILE is "-"),
decodes it, and prints the canonical single-line encoding to stdout.
Comments, trailing commas and single-quoted strings are accepted by
default; --strict restricts the input to standard JSON plus the NaN
and Infinity literals.

Usage:
  jsonish [flags] [FILE...]

Flags:
%s
Exit codes:
  0  all inputs parsed
  1  an input failed to read or parse
  2  usage error
`, flagSet.FlagUsages())
}
