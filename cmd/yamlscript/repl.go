package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"yamlscript/interpreter-go/pkg/ast"
	"yamlscript/interpreter-go/pkg/driver"
	"yamlscript/interpreter-go/pkg/interpreter"
	"yamlscript/interpreter-go/pkg/parser"
	"yamlscript/interpreter-go/pkg/runtime"
)

const (
	prompt             = "ys> "
	continuationPrompt = "... "
	namesCommand       = ":names"
)

// session is the interactive state: one scope shared by every entry and
// the lines of an unfinished block.
type session struct {
	r       *runner
	scope   *runtime.Scope
	pending []string
}

func newSession(r *runner) *session {
	return &session{r: r, scope: interpreter.NewTopLevelScope()}
}

// Feed consumes one line of input and reports whether more lines are
// needed. A line that parses on its own runs immediately; anything else
// opens a block that runs at the next blank line.
func (s *session) Feed(line string) bool {
	if len(s.pending) == 0 {
		if strings.TrimSpace(line) == "" {
			return false
		}
		if strings.TrimSpace(line) == namesCommand {
			s.listNames()
			return false
		}
		if !strings.HasSuffix(strings.TrimSpace(line), ":") {
			if program, err := parser.Parse([]byte(line)); err == nil {
				s.evaluate(program)
				return false
			}
		}
		s.pending = append(s.pending, line)
		return true
	}
	if strings.TrimSpace(line) != "" {
		s.pending = append(s.pending, line)
		return true
	}
	src := strings.Join(s.pending, "\n") + "\n"
	s.pending = nil
	program, err := parser.Parse([]byte(src))
	if err != nil {
		fmt.Fprintf(s.r.stderr, "%v\n", err)
		return false
	}
	s.evaluate(program)
	return false
}

// Reset discards an unfinished block.
func (s *session) Reset() {
	s.pending = nil
}

// listNames prints the values and functions defined during the session,
// one per line; built-ins are left out.
func (s *session) listNames() {
	for _, name := range s.scope.Keys() {
		binding, _ := s.scope.LookupLocal(name)
		if val, ok := binding.Value(); ok {
			fmt.Fprintf(s.r.stdout, "%s = %s\n", name, runtime.Inspect(val))
			continue
		}
		if c, ok := binding.Callable(); ok && c.CallableKind() == runtime.CallableUserFunction {
			fmt.Fprintf(s.r.stdout, "%s/%d\n", name, c.Arity())
		}
	}
}

func (s *session) evaluate(program ast.Node) {
	result, err := s.r.interp.Eval(program, s.scope)
	if err != nil {
		fmt.Fprintf(s.r.stderr, "%v\n", err)
		return
	}
	out, err := driver.Encode(result, s.r.format)
	if err != nil {
		fmt.Fprintf(s.r.stderr, "%v\n", err)
		return
	}
	fmt.Fprintln(s.r.stdout, out)
}

func runREPL(r *runner, historyPath string) int {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}

	s := newSession(r)
	more := false
	for {
		p := prompt
		if more {
			p = continuationPrompt
		}
		input, err := line.Prompt(p)
		switch {
		case err == nil:
		case errors.Is(err, liner.ErrPromptAborted):
			s.Reset()
			more = false
			continue
		case errors.Is(err, io.EOF):
			fmt.Fprintln(r.stdout)
			return saveHistory(line, historyPath, r.stderr)
		default:
			fmt.Fprintf(r.stderr, "%v\n", err)
			return 1
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		more = s.Feed(input)
	}
}

func saveHistory(line *liner.State, path string, stderr io.Writer) int {
	if path == "" {
		return 0
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(stderr, "history: %v\n", err)
		return 1
	}
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(stderr, "history: %v\n", err)
		return 1
	}
	defer f.Close()
	if _, err := line.WriteHistory(f); err != nil {
		fmt.Fprintf(stderr, "history: %v\n", err)
		return 1
	}
	return 0
}
