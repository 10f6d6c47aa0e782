package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// prompter reads answers line by line. Passwords are read without echo when
// the input is a terminal.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
	tty bool
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	p := &prompter{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd, p.tty = int(f.Fd()), true
	}
	return p
}

// line prints label and returns the answer without the line terminator.
// A final line without a newline is returned before io.EOF.
func (p *prompter) line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	s, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || s == "") {
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

// password reads a secret without echoing it on a terminal.
func (p *prompter) password(label string) (string, error) {
	if !p.tty {
		return p.line(label)
	}
	fmt.Fprint(p.out, label)
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// text reads lines until one containing a single "." and joins them.
func (p *prompter) text(label string) (string, error) {
	fmt.Fprintf(p.out, "%s (end with a line containing only \".\")\n", label)
	var lines []string
	for {
		s, err := p.line("| ")
		if err != nil {
			if errors.Is(err, io.EOF) && len(lines) > 0 {
				break
			}
			return "", err
		}
		if s == "." {
			break
		}
		lines = append(lines, s)
	}
	return strings.Join(lines, "\n"), nil
}

// choice asks for one of options by number or by value. Empty picks def.
func (p *prompter) choice(label string, options []string, def string) (string, error) {
	for i, o := range options {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, o)
	}
	s, err := p.line(fmt.Sprintf("%s [%s]: ", label, def))
	if err != nil {
		return "", err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	for i, o := range options {
		if s == fmt.Sprint(i+1) || strings.EqualFold(s, o) {
			return o, nil
		}
	}
	return s, nil
}
