package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"blocktree/internal/config"
	"blocktree/internal/format"
	"blocktree/internal/logging"
	"blocktree/internal/mutate"
	"blocktree/internal/store"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type App struct {
	ConfigPath  string
	DBPath      string
	Owner       string
	Format      string
	PrettyJSON  bool
	LogLevel    string
	Containment bool

	cfg     config.Config
	log     zerolog.Logger
	logFile io.Closer
}

func NewRootCmd() *cobra.Command {
	app := &App{log: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:          "blocktree",
		Short:        "Edit hierarchical page blocks stored in SQLite",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start a page and fill it
  blocktree add-root --type section
  blocktree add <section-id> --type heading --text "Welcome"

  # Inspect it
  blocktree tree --format text

  # Reparent a block (and its subtree)
  blocktree move <block-id> --to <container-id>

  # Browse interactively
  blocktree browse
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.resolve(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.logFile != nil {
			return app.logFile.Close()
		}
		return nil
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.ConfigPath, "config", envOr("BLOCKTREE_CONFIG", ""), "Config file (default ~/.config/blocktree/config.toml)")
	pf.StringVar(&app.DBPath, "db", "", "SQLite database path (default from config)")
	pf.StringVar(&app.Owner, "owner", "", "Owning collection (page) id (default from config)")
	pf.StringVar(&app.Format, "format", "", "Output format (json|edn|text)")
	pf.BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	pf.StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error|off)")
	pf.BoolVar(&app.Containment, "containment", true, "Reject children under non-container blocks")

	cmd.AddCommand(newTypesCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newAddRootCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newDuplicateCmd(app))
	cmd.AddCommand(newDeleteCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newVisibleCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newTreeCmd(app))
	cmd.AddCommand(newChildrenCmd(app))
	cmd.AddCommand(newParentCmd(app))
	cmd.AddCommand(newAncestorsCmd(app))
	cmd.AddCommand(newDescendantsCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newOwnersCmd(app))
	cmd.AddCommand(newBrowseCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// resolve fills unset flags from config (file, then BLOCKTREE_* env) and
// builds the logger. Explicit flags always win.
func (app *App) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.cfg = cfg
	if app.DBPath == "" {
		app.DBPath = cfg.Database.Path
	}
	if app.Owner == "" {
		app.Owner = cfg.Owner
	}
	if app.Format == "" {
		app.Format = cfg.Output.Format
	}
	if !cmd.Flags().Changed("pretty") {
		app.PrettyJSON = cfg.Output.Pretty
	}
	if app.LogLevel == "" {
		app.LogLevel = cfg.Log.Level
	}
	if !cmd.Flags().Changed("containment") {
		app.Containment = cfg.Tree.EnforceContainment
	}

	if cfg.Log.File != "" {
		l, f, err := logging.NewFile(cfg.Log.File, app.LogLevel)
		if err != nil {
			return writeErr(cmd, err)
		}
		app.log, app.logFile = l, f
	} else {
		l, err := logging.New(cmd.ErrOrStderr(), app.LogLevel)
		if err != nil {
			return writeErr(cmd, err)
		}
		app.log = l
	}
	app.log.Debug().Str("db", app.DBPath).Str("owner", app.Owner).Bool("containment", app.Containment).Msg("resolved settings")
	return nil
}

// openStore opens the SQLite database. The caller closes it.
func openStore(ctx context.Context, app *App) (*store.SQLiteStore, error) {
	if strings.TrimSpace(app.DBPath) == "" {
		return nil, fmt.Errorf("no database path; pass --db or set database.path")
	}
	return store.OpenSQLite(ctx, app.DBPath)
}

// loadOrchestrator opens the store and loads the owner's snapshot.
func loadOrchestrator(ctx context.Context, app *App) (*mutate.Orchestrator, func(), error) {
	st, err := openStore(ctx, app)
	if err != nil {
		return nil, nil, err
	}
	o, err := mutate.Load(ctx, st, app.Owner,
		mutate.WithContainment(app.Containment),
		mutate.WithLogger(app.log),
	)
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	return o, func() { _ = st.Close() }, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	if h := hintFor(err); h != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "hint: "+h)
	}
	return err
}
