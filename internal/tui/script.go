package tui

import (
	"bufio"
	"fmt"
	"io"

	"go-chi-keypad/internal/calculator"
)

// RunScript feeds whitespace-separated key labels from r into session and
// writes the display after every key to w, one per line. Unknown labels
// stop the script.
func RunScript(r io.Reader, w io.Writer, session *calculator.Session) error {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	for n := 1; sc.Scan(); n++ {
		k, err := calculator.ParseKey(sc.Text())
		if err != nil {
			return fmt.Errorf("key %d: %w", n, err)
		}

		// Arithmetic failures are reported through the display.
		_ = session.Press(k)

		if _, err := fmt.Fprintln(w, session.Display()); err != nil {
			return err
		}
	}

	return sc.Err()
}
