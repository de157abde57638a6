// ra80 is a two-pass Z80 assembler: source in, relocatable object (and
// optional listing) out. CLI shape follows the teacher's own
// cmd/ie32to64/main.go: a single positional argument, flag.Usage override,
// os.Exit(1) on any failure.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/logrusorgru/aurora"
	"golang.org/x/term"

	"github.com/inufuto/ra80/internal/assembler"
	"github.com/inufuto/ra80/internal/objfile"
)

func main() {
	outFile := flag.String("o", "", "Object file path (default: input with extension replaced by .o80)")
	listFile := flag.String("l", "", "Listing file path (default: input with extension replaced by .lst)")
	suppressListing := flag.Bool("S", false, "Suppress listing emission; object file only")
	verbose := flag.Bool("v", false, "Print a summary after a successful assemble")
	stats := flag.Bool("stats", false, "Alias for -v")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ra80 [options] input.asm\n\nAssembles Z80 source into a relocatable object file.\n\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  ra80 hello.asm\n")
		fmt.Fprintf(os.Stderr, "  ra80 -o build/hello.o80 -l build/hello.lst hello.asm\n")
		fmt.Fprintf(os.Stderr, "  ra80 -S -v hello.asm\n")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	inputPath := flag.Arg(0)
	objPath := *outFile
	if objPath == "" {
		objPath = replaceExt(inputPath, ".o80")
	}
	listPath := *listFile
	if listPath == "" {
		listPath = replaceExt(inputPath, ".lst")
	}

	colorize := term.IsTerminal(int(os.Stderr.Fd()))

	res, err := assembler.New(inputPath).Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	for _, d := range res.Errors {
		printDiagnostic(os.Stderr, "error", d, colorize)
	}
	for _, w := range res.Warnings {
		printDiagnostic(os.Stderr, "warning", w, colorize)
	}

	if !res.OK {
		fmt.Fprintf(os.Stderr, "%d error(s), assembly aborted\n", len(res.Errors))
		os.Exit(1)
	}

	out, err := os.Create(objPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", objPath, err)
		os.Exit(1)
	}
	werr := objfile.Write(out, res.Ctx)
	cerr := out.Close()
	if werr != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", objPath, werr)
		os.Exit(1)
	}
	if cerr != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", objPath, cerr)
		os.Exit(1)
	}

	if !*suppressListing {
		if err := writeListing(listPath, res); err != nil {
			fmt.Fprintf(os.Stderr, "error writing %s: %v\n", listPath, err)
			os.Exit(1)
		}
	}

	if *verbose || *stats {
		printSummary(inputPath, objPath, listPath, res, *suppressListing)
	}
}

func replaceExt(path, ext string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 && !strings.ContainsAny(path[i:], "/\\") {
		return path[:i] + ext
	}
	return path + ext
}

func writeListing(path string, res *assembler.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	for _, l := range res.Listing {
		if _, err := fmt.Fprintln(f, l.String()); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}

// printDiagnostic formats d as the <file>(<line>): <message> contract of
// spec §7, coloring the severity label (red for errors, yellow for
// warnings) when stderr is a terminal.
func printDiagnostic(w *os.File, kind string, d assembler.Diagnostic, colorize bool) {
	label := kind
	if colorize {
		if kind == "error" {
			label = aurora.Red(kind).String()
		} else {
			label = aurora.Yellow(kind).String()
		}
	}
	fmt.Fprintf(w, "%s(%d): %s: %s\n", d.Pos.File, d.Pos.Line, label, d.Msg)
}

func printSummary(inputPath, objPath, listPath string, res *assembler.Result, suppressed bool) {
	fmt.Printf("Input:     %s\n", inputPath)
	fmt.Printf("Object:    %s (code=%d data=%d bytes)\n", objPath, len(res.Code), len(res.Data))
	if !suppressed {
		fmt.Printf("Listing:   %s (%d lines)\n", listPath, len(res.Listing))
	}
	fmt.Printf("Passes:    %d\n", res.Passes)
	fmt.Printf("Symbols:   %d public, %d external\n",
		len(res.Ctx.Symbols.Publics()), len(res.Ctx.Symbols.Externals()))
	fmt.Printf("Fix-ups:   %d\n", len(res.Ctx.Fixups))
	if len(res.Warnings) > 0 {
		fmt.Printf("Warnings:  %d\n", len(res.Warnings))
	}
}
