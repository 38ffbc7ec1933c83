package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pie-lang/pie/pkg/driver"
	"github.com/pie-lang/pie/pkg/parser"
)

func newParseCmd(a *app) *cobra.Command {
	var format, rev string
	cmd := &cobra.Command{
		Use:   "parse FILE...",
		Short: "Parse Pie files and print their statements",
		Long: `Parse each file and print its statements in source order. On a parse
error the diagnostic is printed against the file and the command exits 1.
With --rev the file is read as committed at that git revision.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = a.config.Format
			}
			f, err := driver.ParseFormat(format)
			if err != nil {
				return err
			}
			p, err := parser.New()
			if err != nil {
				return err
			}
			defer p.Close()

			failed := false
			for _, path := range args {
				ok, err := a.parseOne(p, path, rev, f)
				if err != nil {
					return err
				}
				failed = failed || !ok
			}
			if failed {
				return &exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: debug, json or yaml")
	cmd.Flags().StringVar(&rev, "rev", "", "read files at this git revision")
	return cmd
}

func (a *app) parseOne(p *parser.Parser, path, rev string, format driver.Format) (bool, error) {
	result, err := driver.ParseFile(p, path, rev)
	if err != nil {
		return false, err
	}
	if result.Err != nil {
		if err := a.renderer(a.stderr).Render(a.stderr, path, result.Source, result.Err); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := driver.WriteSource(a.stdout, result.AST, format); err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	return true, nil
}
