package main

import (
	"fmt"
	"os"

	"go-chi-keypad/internal/calculator"
	"go-chi-keypad/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/docopt/docopt-go"
	"github.com/mattn/go-isatty"
)

const version = "calc 0.1.0"

const usage = `calc

Usage:
  calc [-s] [-w COLS]
  calc -h
  calc -v

Options:
  -s, --script          Read key labels from stdin and print the display after each.
  -w, --width=COLS      Display width in columns [default: 24].
  -h, --help            Display this help.
  -v, --version         Print calc version.

Key labels are the keypad glyphs (7 . ± % + − × ÷ = C) or their names
(Add, Subtract, Multiply, Divide, Equals, "Decimal point"). When stdin is
not a TTY, calc runs in script mode.
`

func main() {
	opts, err := docopt.ParseArgs(usage, os.Args[1:], version)
	if err != nil {
		// Error in the usage doc. This should never happen.
		panic(err.Error())
	}

	script, _ := opts.Bool("--script")
	width, err := opts.Int("--width")
	if err != nil {
		fmt.Fprintf(os.Stderr, "calc: invalid --width: %v\n", err)
		os.Exit(2)
	}

	session := calculator.NewSession()

	if script || !isatty.IsTerminal(os.Stdin.Fd()) {
		if err := tui.RunScript(os.Stdin, os.Stdout, session); err != nil {
			fmt.Fprintf(os.Stderr, "calc: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if _, err := tea.NewProgram(tui.New(session, width)).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "calc: %v\n", err)
		os.Exit(1)
	}
}
