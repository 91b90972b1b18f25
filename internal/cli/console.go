package cli

import (
	"fmt"
	"io"
)

// consoleNotifier prints transient notifications to stderr.
type consoleNotifier struct {
	out io.Writer
}

func (n consoleNotifier) Success(msg string) { fmt.Fprintf(n.out, "✓ %s\n", msg) }
func (n consoleNotifier) Error(msg string)   { fmt.Fprintf(n.out, "✗ %s\n", msg) }

// consoleNavigator records and prints navigation targets.
type consoleNavigator struct {
	out     io.Writer
	current string
}

func (n *consoleNavigator) Navigate(path string) {
	n.current = path
	fmt.Fprintf(n.out, "→ %s\n", path)
}

// Current returns the last route navigated to.
func (n *consoleNavigator) Current() string {
	return n.current
}
