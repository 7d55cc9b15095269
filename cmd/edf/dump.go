package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pgavlin/edf/edfio"
)

func runDump(argv []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	fs.Parse(argv)

	inputPath := ""
	if fs.NArg() > 0 {
		inputPath = fs.Arg(0)
	}

	in, err := openInput(inputPath)
	if err != nil {
		return fmt.Errorf("dump: opening input: %w", err)
	}
	defer in.Close()

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("dump: reading input: %w", err)
	}

	header, pages, err := edfio.Decode(data)
	if err != nil {
		return fmt.Errorf("dump: decoding document: %w", err)
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	fmt.Fprintln(w, "# Header")
	fmt.Fprintln(w, "Styles:")
	for _, style := range header.Styles {
		fmt.Fprintf(w, "- %s @%dpx\n", style.FontName, style.EmPx)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "# Pages")
	for num, commands := range pages {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "## Page %d\n", num+1)
		for _, cmd := range commands {
			fmt.Fprintf(w, "- %s\n", describeCommand(cmd))
		}
	}
	return nil
}

func describeCommand(c edfio.Command) string {
	switch c.Op {
	case edfio.OpShow:
		return fmt.Sprintf("Show(%q)", c.Str)
	case edfio.OpLineBreak:
		return "LineBreak"
	case edfio.OpPageBreak:
		return "PageBreak"
	case edfio.OpEnd:
		return "End"
	case edfio.OpAdvance:
		return fmt.Sprintf("Advance(%d)", c.DX)
	case edfio.OpSetCursor:
		return fmt.Sprintf("SetCursor(%d, %d)", c.X, c.Y)
	case edfio.OpSetStyle:
		return fmt.Sprintf("SetStyle(%d)", c.Style)
	case edfio.OpSetAdjustmentRatio:
		return fmt.Sprintf("SetAdjustmentRatio(%g)", c.Ratio)
	case edfio.OpSetLineMetrics:
		return fmt.Sprintf("SetLineMetrics(%d, %d)", c.Height, c.Baseline)
	default:
		return fmt.Sprintf("Op(%d)", c.Op)
	}
}
