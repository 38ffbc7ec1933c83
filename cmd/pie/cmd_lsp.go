package main

import (
	"github.com/spf13/cobra"

	"github.com/pie-lang/pie/pkg/driver"
	"github.com/pie-lang/pie/pkg/lsp"
	"github.com/pie-lang/pie/pkg/parser"
)

func newLSPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run a language server on stdio that reports parse errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parser.New()
			if err != nil {
				return err
			}
			defer p.Close()
			return lsp.NewServer(p, driver.Version).RunStdio()
		},
	}
}
