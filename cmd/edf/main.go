// Command edf builds, inspects, and renders EDF documents: mk compiles
// a markdown source into an EDF file sized to a device's content box,
// dump lists a document's header and per-page command streams, and
// show decodes one page to a grayscale PNG.
package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	flag.Usage = usage
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "mk":
		err = runMk(os.Args[2:])
	case "dump":
		err = runDump(os.Args[2:])
	case "show":
		err = runShow(os.Args[2:])
	case "-h", "-help", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "edf: unknown subcommand %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%sedf: %v%s\n", errorColor, err, defaultColor)
		os.Exit(1)
	}
}

// ANSI colors for the one diagnostic line a failing run prints.
const (
	defaultColor = "\x1b[0m"
	errorColor   = "\x1b[31m"
)

func usage() {
	fmt.Fprintln(os.Stderr, `A CLI for working with edf documents.

Usage:
  edf mk [input?] -d device-config [-o output?] [-c format-config?] [-f font-config?] [--format markdown|epub]
  edf dump [input?]
  edf show [input?] -d device-config -p page-num [-f font-config?]

input defaults to stdin, output to stdout; "-" means the same explicitly.`)
}
