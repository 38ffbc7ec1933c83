package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/pie-lang/pie/pkg/diagnostic"
	"github.com/pie-lang/pie/pkg/driver"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// exitError carries a status for failures that have already been reported.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// app is the state shared by every subcommand once flags and config are read.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	colorFlag  string
	logLevel   string
	logFile    string

	config *driver.Config
	color  diagnostic.ColorMode
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(&app{stdout: stdout, stderr: stderr})
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return 0
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	fmt.Fprintf(stderr, "pie: %v\n", err)
	return 1
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "pie",
		Short:         "Parser and tools for the Pie dependently typed language",
		Version:       driver.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "configuration file (default ./pie.yml, then $XDG_CONFIG_HOME/pie/config.yml)")
	flags.StringVar(&a.colorFlag, "color", "", "color diagnostics: auto, always or never")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: none, error, warning, info or debug")
	flags.StringVar(&a.logFile, "log-file", "", "write logs to this file instead of stderr")

	root.AddCommand(newParseCmd(a))
	root.AddCommand(newReplCmd(a))
	root.AddCommand(newWatchCmd(a))
	root.AddCommand(newLSPCmd(a))
	root.AddCommand(newVersionCmd(a))
	return root
}

// setup loads configuration, lets flags override it and configures logging.
func (a *app) setup() error {
	var (
		cfg *driver.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = driver.LoadConfigFile(a.configPath)
	} else {
		var wd string
		if wd, err = os.Getwd(); err == nil {
			cfg, err = driver.LoadConfig(wd)
		}
	}
	if err != nil {
		return err
	}
	if a.colorFlag != "" {
		cfg.Color = a.colorFlag
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.color, err = diagnostic.ParseColorMode(cfg.Color); err != nil {
		return err
	}
	verbosity, err := cfg.Verbosity()
	if err != nil {
		return err
	}
	var logPath *string
	if a.logFile != "" {
		logPath = &a.logFile
	}
	commonlog.Configure(verbosity, logPath)
	a.config = cfg
	return nil
}

// renderer colors diagnostics when the configured mode allows it for w.
func (a *app) renderer(w io.Writer) *diagnostic.Renderer {
	f, _ := w.(*os.File)
	return diagnostic.NewRenderer(a.color.Enabled(f))
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tool version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "pie %s\n", driver.Version)
		},
	}
}
