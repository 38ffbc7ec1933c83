package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pie-lang/pie/pkg/ast"
	"github.com/pie-lang/pie/pkg/diagnostic"
	"github.com/pie-lang/pie/pkg/driver"
	"github.com/pie-lang/pie/pkg/parser"
)

const (
	replSourceName     = "<repl>"
	continuationPrompt = "... "
)

var replKeywords = []string{"claim", "define", "quit"}

// session is the REPL state that survives between inputs.
type session struct {
	parser   *parser.Parser
	renderer *diagnostic.Renderer
	format   driver.Format
	stdout   io.Writer
	stderr   io.Writer

	names map[ast.Identifier]struct{}
}

func newSession(p *parser.Parser, renderer *diagnostic.Renderer, format driver.Format, stdout, stderr io.Writer) *session {
	return &session{
		parser:   p,
		renderer: renderer,
		format:   format,
		stdout:   stdout,
		stderr:   stderr,
		names:    map[ast.Identifier]struct{}{},
	}
}

// eval parses one input, printing its statements or the diagnostic. Names
// claimed or defined by a successful parse become completion candidates.
func (s *session) eval(input string) bool {
	src, err := s.parser.Parse(input)
	if err != nil {
		if rerr := s.renderer.Render(s.stderr, replSourceName, []byte(input), err); rerr != nil {
			replLog.Errorf("render diagnostic: %v", rerr)
		}
		return false
	}
	for _, name := range ast.Names(src) {
		s.names[name] = struct{}{}
	}
	if err := driver.WriteSource(s.stdout, src, s.format); err != nil {
		fmt.Fprintf(s.stderr, "pie: %v\n", err)
		return false
	}
	return true
}

// complete offers completions for the last word of line: file names when the
// word looks like a path, otherwise keywords and session names.
func (s *session) complete(line string) []string {
	start := strings.LastIndexAny(line, " \t\n()") + 1
	head, word := line[:start], line[start:]

	var candidates []string
	if looksLikePath(word) {
		candidates = completePath(word)
	} else {
		for _, kw := range replKeywords {
			if strings.HasPrefix(kw, word) {
				candidates = append(candidates, kw)
			}
		}
		var names []string
		for name := range s.names {
			if strings.HasPrefix(string(name), word) {
				names = append(names, string(name))
			}
		}
		sort.Strings(names)
		candidates = append(candidates, names...)
	}
	for i, c := range candidates {
		candidates[i] = head + c
	}
	return candidates
}

func looksLikePath(word string) bool {
	return strings.HasPrefix(word, ".") || strings.HasPrefix(word, "~") || strings.ContainsRune(word, filepath.Separator)
}

func completePath(word string) []string {
	dir, prefix := filepath.Split(word)
	lookup := dir
	if lookup == "" {
		lookup = "."
	}
	if strings.HasPrefix(lookup, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			lookup = filepath.Join(home, strings.TrimPrefix(lookup, "~"))
		}
	}
	entries, err := os.ReadDir(lookup)
	if err != nil {
		return nil
	}
	var out []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
			continue
		}
		if entry.IsDir() {
			name += string(filepath.Separator)
		}
		out = append(out, dir+name)
	}
	return out
}

// depth returns the parenthesis nesting left open at the end of input,
// ignoring comments. Surplus closing parentheses count as balanced so the
// parser gets to report them.
func depth(input string) int {
	n := 0
	for _, line := range strings.Split(input, "\n") {
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = line[:i]
		}
		for _, r := range line {
			switch r {
			case '(':
				n++
			case ')':
				if n > 0 {
					n--
				}
			}
		}
	}
	return n
}

// needsMore reports whether input is an incomplete multi-line entry.
func needsMore(input string) bool {
	return depth(input) > 0
}

// loadHistory returns the last limit entries of the history file at path.
func loadHistory(path string, limit int) (io.Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if line := scanner.Text(); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("history: %s: %w", path, err)
	}
	if limit > 0 && len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return strings.NewReader(strings.Join(lines, "\n") + "\n"), nil
}
