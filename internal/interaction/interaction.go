// Where: internal/interaction/interaction.go
// What: Interactive primitives for CLI prompts and TTY detection.
// Why: Centralize user interaction to keep command handlers focused on orchestration.
package interaction

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// ErrInvalidChoice is returned when menu input falls outside the offered options.
var ErrInvalidChoice = errors.New("invalid choice")

// SelectOption represents a single option in a selection menu.
type SelectOption struct {
	Label string // Display text
	Value string // Return value
}

// Prompter defines the interface for interactive selection.
type Prompter interface {
	SelectValue(title string, options []SelectOption, preselect string) (string, error)
}

// IsTerminal reports whether the file refers to a terminal device.
var IsTerminal = func(file *os.File) bool {
	if file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// StdinPrompter reads a single-line numeric choice from a reader.
// It is the non-TTY fallback: options are printed as a numbered menu and
// any input outside 1..len(options) is rejected with ErrInvalidChoice.
type StdinPrompter struct {
	In  io.Reader
	Out io.Writer
}

func (p StdinPrompter) SelectValue(title string, options []SelectOption, _ string) (string, error) {
	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	in := p.In
	if in == nil {
		in = os.Stdin
	}

	fmt.Fprintf(out, "%s\n", title)
	for i, opt := range options {
		fmt.Fprintf(out, "%d. %s\n", i+1, opt.Label)
	}
	fmt.Fprintf(out, "\nEnter choice (1-%d): ", len(options))

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	choice := strings.TrimSpace(line)
	for i, opt := range options {
		if choice == fmt.Sprintf("%d", i+1) {
			return opt.Value, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidChoice, choice)
}
