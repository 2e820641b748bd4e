// Package picker implements the terminal candidate picker used by the
// CLI: a numbered list on out, a 1-based selection read from in.
package picker

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Pick shows the labeled candidates and returns the index of the chosen
// one. ok is false when the user aborts with an empty line or the input
// is not a valid number.
func Pick(in io.Reader, out io.Writer, prompt string, labels []string) (index int, ok bool) {
	if len(labels) == 0 {
		return 0, false
	}

	fmt.Fprintln(out, prompt)
	for i, label := range labels {
		fmt.Fprintf(out, "%3d. %s\n", i+1, label)
	}
	fmt.Fprint(out, "> ")

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	if !scanner.Scan() {
		return 0, false
	}

	choice := strings.TrimSpace(scanner.Text())
	if choice == "" {
		return 0, false
	}
	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > len(labels) {
		return 0, false
	}
	return n - 1, true
}
