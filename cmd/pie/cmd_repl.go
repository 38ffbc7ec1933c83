package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/pie-lang/pie/pkg/driver"
	"github.com/pie-lang/pie/pkg/parser"
)

var replLog = commonlog.GetLogger("pie.repl")

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Read statements interactively and print how they parse",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.repl()
		},
	}
}

func (a *app) repl() error {
	format, err := driver.ParseFormat(a.config.Format)
	if err != nil {
		return err
	}
	p, err := parser.New()
	if err != nil {
		return err
	}
	defer p.Close()
	sess := newSession(p, a.renderer(a.stderr), format, a.stdout, a.stderr)

	historyPath, err := a.config.HistoryPath()
	if err != nil {
		return err
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetMultiLineMode(true)
	line.SetCompleter(sess.complete)

	if r, err := loadHistory(historyPath, a.config.HistoryLimit); err == nil {
		if _, err := line.ReadHistory(r); err != nil {
			replLog.Warningf("history %s: %v", historyPath, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		replLog.Warningf("history %s: %v", historyPath, err)
	}
	defer saveHistory(line, historyPath)

	for {
		input, ok := readEntry(line, a.config.Prompt)
		if !ok {
			fmt.Fprintln(a.stdout)
			return nil
		}
		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		if trimmed == "quit" {
			return nil
		}
		line.AppendHistory(strings.ReplaceAll(input, "\n", " "))
		sess.eval(input)
	}
}

// readEntry reads lines until the parentheses balance. Ctrl-C discards the
// entry and starts over; Ctrl-D ends the session.
func readEntry(line *liner.State, prompt string) (string, bool) {
	var b strings.Builder
	current := prompt
	for {
		text, err := line.Prompt(current)
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			current = prompt
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				replLog.Errorf("prompt: %v", err)
			}
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(text)
		if !needsMore(b.String()) {
			return b.String(), true
		}
		current = continuationPrompt
	}
}

func saveHistory(line *liner.State, path string) {
	if err := driver.EnsureParent(path); err != nil {
		replLog.Warningf("%v", err)
		return
	}
	f, err := os.Create(path)
	if err != nil {
		replLog.Warningf("history: %v", err)
		return
	}
	defer f.Close()
	if _, err := line.WriteHistory(f); err != nil {
		replLog.Warningf("history %s: %v", path, err)
	}
}
