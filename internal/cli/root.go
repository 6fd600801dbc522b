// Package cli implements the docfill command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-docfill/internal/config"
	"github.com/goliatone/go-docfill/internal/logging"
	"github.com/goliatone/go-docfill/pkg/export"
	"github.com/goliatone/go-docfill/pkg/filler"
	"github.com/goliatone/go-docfill/pkg/form"
	"github.com/goliatone/go-docfill/pkg/ledger"
	"github.com/goliatone/go-docfill/pkg/orchestrator"
	"github.com/goliatone/go-docfill/pkg/prompt"
)

// app carries what every command needs once the root pre-run has loaded
// configuration.
type app struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	logLevel   string
	statePath  string

	cfg    *config.Config
	logger *zap.Logger
	driver prompt.PromptDriver
}

// Option configures the command tree, mainly for tests.
type Option func(*app)

// WithPromptDriver replaces the terminal prompt driver.
func WithPromptDriver(driver prompt.PromptDriver) Option {
	return func(a *app) {
		a.driver = driver
	}
}

// WithLogger skips logger construction and uses logger instead.
func WithLogger(logger *zap.Logger) Option {
	return func(a *app) {
		a.logger = logger
	}
}

// NewRootCommand builds the docfill command tree writing to out and errOut.
func NewRootCommand(out, errOut io.Writer, options ...Option) *cobra.Command {
	a := &app{out: out, errOut: errOut}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}

	root := &cobra.Command{
		Use:           "docfill",
		Short:         "Fill the equipment custody term from saved form data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", config.DefaultPath, "config file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVarP(&a.statePath, "state", "s", "", "saved form state (default from config)")

	root.AddCommand(
		a.fillCommand(),
		a.formCommand(),
		a.showCommand(),
		a.clearCommand(),
		a.exportCommand(),
		a.schemaCommand(),
		a.validateCommand(),
		a.previewCommand(),
		a.ledgerCommand(),
	)
	return root
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string, out, errOut io.Writer, options ...Option) error {
	root := NewRootCommand(out, errOut, options...)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if strings.TrimSpace(a.logLevel) != "" {
		cfg.Logging.Level = a.logLevel
	}
	a.cfg = cfg

	if a.logger == nil {
		logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
		if err != nil {
			return err
		}
		a.logger = logger
	}
	if a.driver == nil {
		a.driver = prompt.NewSurveyDriver(a.out)
	}
	a.logger.Debug("configuration loaded", zap.String("config", a.configPath), zap.String("template", cfg.Template))
	return nil
}

func (a *app) stateFile() string {
	if a.statePath != "" {
		return a.statePath
	}
	return a.cfg.StateFile
}

func (a *app) definition() (*form.Definition, error) {
	if a.cfg.Definition == "" {
		return form.DefaultDefinition(), nil
	}
	return form.LoadDefinition(a.cfg.Definition)
}

// loadState restores the saved state. A missing file is reported and an
// empty state is returned.
func (a *app) loadState() (*form.State, error) {
	def, err := a.definition()
	if err != nil {
		return nil, err
	}
	state := form.NewState(def)
	path := a.stateFile()
	loaded, err := form.Load(path, state)
	if err != nil {
		return nil, err
	}
	if !loaded {
		a.logger.Info("no saved state, starting empty", zap.String("state", path))
	}
	return state, nil
}

func (a *app) saveState(state *form.State) error {
	path := a.stateFile()
	if err := form.Save(state, path); err != nil {
		return err
	}
	a.logger.Info("state saved", zap.String("state", path))
	return nil
}

func (a *app) converter() *export.Converter {
	return export.New(
		export.WithPath(a.cfg.Export.Converter),
		export.WithTimeout(a.cfg.ExportTimeout()),
		export.WithLogger(a.logger),
	)
}

func (a *app) orchestrator() *orchestrator.Orchestrator {
	return orchestrator.New(
		orchestrator.WithLogger(a.logger),
		orchestrator.WithFiller(filler.New(filler.WithLogger(a.logger))),
		orchestrator.WithConverter(a.converter()),
		orchestrator.WithLedger(a.ledger()),
		orchestrator.WithOutputDir(a.cfg.OutputDir),
		orchestrator.WithFilenamePattern(a.cfg.FilenamePattern),
	)
}

func (a *app) ledger() *ledger.Ledger {
	return ledger.New(a.cfg.Ledger.Path, ledger.WithLogger(a.logger))
}

func (a *app) collector() *prompt.Collector {
	return prompt.New(prompt.WithPromptDriver(a.driver), prompt.WithLogger(a.logger))
}

func (a *app) printf(format string, args ...any) {
	a.printfTo(a.out, format, args...)
}

func (a *app) printfTo(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}
