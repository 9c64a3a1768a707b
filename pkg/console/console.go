// Package console is an interactive line console that evaluates control
// script input.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// Prompt is shown before every input line
const Prompt = "> "

// Evaluator runs one line of input
type Evaluator interface {
	Eval(line string) error
}

type Console struct {
	term *term.Terminal
	eval Evaluator
}

// New creates a console reading and writing rw
func New(rw io.ReadWriter, eval Evaluator) *Console {
	return &Console{
		term: term.NewTerminal(rw, Prompt),
		eval: eval,
	}
}

// Writer returns a writer that prints above the prompt without corrupting
// the line being edited
func (c *Console) Writer() io.Writer {
	return c.term
}

// Run reads and evaluates lines until end of input, "exit" or ctx is done.
// ctx is checked between lines.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := c.term.ReadLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "console read failed")
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		if err := c.eval.Eval(line); err != nil {
			fmt.Fprintf(c.term, "error: %v\n", err)
		}
	}
}

type stdio struct {
	io.Reader
	io.Writer
}

// Attach puts stdin into raw mode and returns a console on stdin/stdout
// along with a function that restores the terminal.
func Attach(eval Evaluator) (*Console, func(), error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, nil, errors.New("stdin is not a terminal")
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to set raw mode")
	}
	restore := func() { _ = term.Restore(fd, old) }

	c := New(stdio{os.Stdin, os.Stdout}, eval)
	if w, h, err := term.GetSize(fd); err == nil {
		c.term.SetSize(w, h)
	}
	return c, restore, nil
}
