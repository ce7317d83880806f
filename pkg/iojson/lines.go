package iojson

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNoInput is returned by ReadArgs when no arguments were given and stdin
// is an interactive terminal.
var ErrNoInput = errors.New("no input provided (stdin is a terminal); pass arguments or pipe input")

// ReadArgs returns args when any are given. Otherwise it reads one value per
// line from stdin, skipping blank lines and # comments.
func ReadArgs(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, ErrNoInput
	}

	return ReadLines(os.Stdin)
}

// ReadLines reads one trimmed value per line from r.
func ReadLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return out, nil
}
