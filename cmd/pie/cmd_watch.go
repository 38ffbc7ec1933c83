package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pie-lang/pie/pkg/driver"
	"github.com/pie-lang/pie/pkg/parser"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch FILE",
		Short: "Re-parse a file every time it is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := driver.ParseFormat(a.config.Format)
			if err != nil {
				return err
			}
			p, err := parser.New()
			if err != nil {
				return err
			}
			defer p.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return a.watch(ctx, p, args[0], f)
		},
	}
}

func (a *app) watch(ctx context.Context, p *parser.Parser, path string, format driver.Format) error {
	check := func() {
		ok, err := a.parseOne(p, path, "", format)
		switch {
		case err != nil:
			fmt.Fprintf(a.stderr, "pie: %v\n", err)
		case ok:
			fmt.Fprintf(a.stderr, "%s: ok\n", path)
		}
	}
	check()
	return driver.Watch(ctx, path, check)
}
