package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"ivly-cli/internal/config"
	"ivly-cli/internal/format"
	"ivly-cli/internal/model"
	"ivly-cli/internal/printer"
	"ivly-cli/internal/session"
	"ivly-cli/internal/store"
	"ivly-cli/internal/tui"
)

// Swapped in tests.
var (
	runSession     = tui.Run
	writeClipboard = clipboard.WriteAll
)

type App struct {
	Dir        string
	ConfigPath string
	LogLevel   string
	Pretty     bool

	cfg    config.Config
	logger *runtimeLogger
	store  store.Store
	clock  model.Clock
}

func NewRootCmd() *cobra.Command {
	app := &App{clock: model.SystemClock}

	cmd := &cobra.Command{
		Use:           "ivly [+tag|/tag ...]",
		Short:         "Ivy Lee style task list",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Show the top of the list
  ivly

  # Only tasks tagged work, without the ones tagged later
  ivly +work /later

  # Add, reorder interactively, finish the first task and archive it
  ivly add "write report" +work
  ivly move
  ivly finish
  ivly sweep
`),
		Args: cobra.ArbitraryArgs,
		RunE: app.runE(func(cmd *cobra.Command, args []string) error {
			filters, err := model.ParseFilterTags(args)
			if err != nil {
				return err
			}
			open, err := app.store.LoadOpen(contextOf(cmd))
			if err != nil {
				return err
			}
			p := app.printer(cmd)
			p.Backlog(p.Top(open, filters))
			return nil
		}),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", "", "Data directory (default $"+config.EnvDir+" or ~/.ivly)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Config file (default $"+config.EnvConfig+" or <dir>/config.toml)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("IVLY_LOG_LEVEL", ""), "Log level (debug|info|warn|error); overrides the config")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newFinishCmd(app))
	cmd.AddCommand(newSweepCmd(app))
	cmd.AddCommand(newBumpCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newTagCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newRemoveCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newPathsCmd(app))

	return cmd
}

// setup resolves paths, loads the config, starts logging and opens the store.
func (app *App) setup(cmd *cobra.Command) error {
	dir, err := config.Dir(app.Dir)
	if err != nil {
		return err
	}
	app.Dir = dir
	app.ConfigPath = config.Path(dir, app.ConfigPath)

	cfg, err := config.Load(app.ConfigPath, config.Default())
	if err != nil {
		return fmt.Errorf("load config %s: %w", app.ConfigPath, err)
	}
	if app.LogLevel != "" {
		cfg.Logging.Level = app.LogLevel
	}
	app.cfg = cfg

	logger, err := newRuntimeLogger(cmd.ErrOrStderr(), "ivly", cfg.Logging)
	if err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}
	app.logger = logger
	app.logger.Debug("runtime paths resolved", "dir", app.Dir, "config_path", app.ConfigPath, "backend", cfg.Store.Backend)

	st, err := store.Open(contextOf(cmd), app.Dir, cfg.Store.Backend, app.logger)
	if err != nil {
		_ = app.close()
		return fmt.Errorf("open store: %w", err)
	}
	app.store = st
	return nil
}

// runE wraps a command body so the store and log file are closed however it
// returns.
func (app *App) runE(fn func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		return errors.Join(err, app.close())
	}
}

func (app *App) close() error {
	var errs []error
	if app.store != nil {
		errs = append(errs, app.store.Close())
		app.store = nil
	}
	if app.logger != nil {
		errs = append(errs, app.logger.Close())
		app.logger = nil
	}
	return errors.Join(errs...)
}

func (app *App) printer(cmd *cobra.Command) *printer.Printer {
	return printer.New(cmd.OutOrStdout(), app.cfg, app.clock)
}

// loadLists loads both lists for commands that touch the done archive.
func (app *App) loadLists(ctx context.Context) (model.OpenTasks, model.DoneTasks, error) {
	open, err := app.store.LoadOpen(ctx)
	if err != nil {
		return nil, nil, err
	}
	done, err := app.store.LoadDone(ctx)
	if err != nil {
		return nil, nil, err
	}
	return open, done, nil
}

// interactive runs a session over the open list and saves it on Save.
func (app *App) interactive(cmd *cobra.Command) error {
	ctx := contextOf(cmd)
	open, done, err := app.loadLists(ctx)
	if err != nil {
		return err
	}
	km, err := app.cfg.Keymap()
	if err != nil {
		return err
	}

	app.logger.SetConsoleEnabled(false)
	outcome, err := runSession(ctx, &open,
		tui.WithKeymap(km),
		tui.WithClock(app.clock),
		tui.WithReservedIDs(model.IDTaken(nil, done)),
	)
	if err != nil {
		// Logged before the console comes back; main prints the error itself.
		app.logger.Error("interactive session failed", "err", err)
		app.logger.SetConsoleEnabled(true)
		return err
	}
	app.logger.SetConsoleEnabled(true)
	app.logger.Debug("interactive session finished", "outcome", outcome, "tasks", len(open))
	if outcome != session.Save {
		fmt.Fprintln(cmd.OutOrStdout(), "No changes made")
		return nil
	}
	if err := app.store.SaveOpen(ctx, open); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "✅ Saved changes")
	return nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, "json", app.Pretty)
}

// readLine prompts on out and reads one trimmed line from in.
func readLine(in io.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt+" ")
	var b strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				break
			}
			b.WriteByte(buf[0])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return strings.TrimSpace(b.String()), nil
}
