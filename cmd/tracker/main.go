package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"budgettracker/internal/backend"
	"budgettracker/internal/cli"
	"budgettracker/internal/config"
	applog "budgettracker/internal/log"
	"budgettracker/internal/services"
	"budgettracker/internal/state"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// env carries everything a command needs. Tests build their own.
type env struct {
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
	now     func() time.Time
	v       *viper.Viper
	cfgFile string
	noColor bool

	cfg    *config.Config
	logger *applog.Logger
}

func newEnv(in io.Reader, out, errOut io.Writer) *env {
	return &env{
		in:     in,
		out:    out,
		errOut: errOut,
		now:    time.Now,
		v:      config.NewViper(),
	}
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:   "tracker",
		Short: "Personal budget and expense tracker",
		Long: `tracker keeps a monthly budget and a list of expenses, shows how much
of the budget is used, breaks spending down by category and exports the data.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: e.initConfig,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&e.cfgFile, "config", "", "config file (default: $HOME/.config/tracker/config.yaml)")
	pf.String("log-level", "warn", "log level (debug, info, warn, error)")
	pf.String("log-format", "text", "log format (text, json)")
	pf.String("backend", "", "storage backend ("+backendNames()+")")
	pf.String("db", "", "SQLite database path")
	pf.String("data-dir", "", "data directory for the file and memory backends")
	pf.BoolVar(&e.noColor, "no-color", false, "disable colored output")

	_ = e.v.BindPFlag(config.KeyLogLevel, pf.Lookup("log-level"))
	_ = e.v.BindPFlag(config.KeyLogFormat, pf.Lookup("log-format"))
	_ = e.v.BindPFlag(config.KeyDataBackend, pf.Lookup("backend"))
	_ = e.v.BindPFlag(config.KeySQLiteDBPath, pf.Lookup("db"))
	_ = e.v.BindPFlag(config.KeyDataDir, pf.Lookup("data-dir"))

	root.SetIn(e.in)
	root.SetOut(e.out)
	root.SetErr(e.errOut)

	root.AddCommand(
		summaryCmd(e),
		listCmd(e),
		breakdownCmd(e),
		insightsCmd(e),
		addCmd(e),
		editCmd(e),
		deleteCmd(e),
		budgetCmd(e),
		clearCmd(e),
		exportCmd(e),
		watchCmd(e),
		versionCmd(e),
	)
	return root
}

func (e *env) initConfig(_ *cobra.Command, _ []string) error {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig(e.v, e.cfgFile)
	if err != nil {
		return err
	}
	logger, err := cli.SetupLogger(cfg, e.errOut)
	if err != nil {
		return err
	}
	if e.noColor || os.Getenv("NO_COLOR") != "" {
		cli.DisableColor()
	}
	e.cfg = cfg
	e.logger = logger
	return nil
}

// withApp opens the tracker for the duration of fn.
func (e *env) withApp(cmd *cobra.Command, confirm services.Confirmer, fn func(*cli.App) error) error {
	ctx := applog.NewContext(cmd.Context(), e.logger)
	cmd.SetContext(ctx)
	app, err := cli.Open(ctx, e.cfg, e.logger, confirm, state.WithClock(e.now))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil {
			e.logger.Warn("Failed to close backend", applog.FieldError, cerr)
		}
	}()

	if cause := app.Store.RecoveredFrom(); cause != nil {
		fmt.Fprintln(e.errOut, cli.FormatWarning("Stored data could not be read and was ignored: "+cause.Error()))
	}
	return fn(app)
}

func (e *env) renderer() *cli.Renderer {
	return cli.NewRenderer(e.out, e.cfg.CurrencySymbol)
}

func (e *env) confirmer(force bool) services.Confirmer {
	if force {
		return services.AlwaysConfirm
	}
	return cli.NewPromptConfirmer(e.in, e.out)
}

func main() {
	ctx, cancel := cli.SignalContext(context.Background())
	err := newRootCmd(newEnv(os.Stdin, os.Stdout, os.Stderr)).ExecuteContext(ctx)
	cancel()

	if err != nil {
		cli.Fatal(err)
	}
}

func backendNames() string {
	types := backend.GetBackendTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
