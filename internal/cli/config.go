package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"blocktree/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or write the config file",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigInitCmd(app))
	return cmd
}

// effectiveConfig is the loaded config with flag overrides applied.
func (app *App) effectiveConfig() config.Config {
	c := app.cfg
	c.Database.Path = app.DBPath
	c.Owner = app.Owner
	c.Log.Level = app.LogLevel
	c.Tree.EnforceContainment = app.Containment
	c.Output.Format = app.Format
	c.Output.Pretty = app.PrettyJSON
	return c
}

func configPath(app *App) string {
	if strings.TrimSpace(app.ConfigPath) != "" {
		return app.ConfigPath
	}
	return config.DefaultPath()
}

func configData(c config.Config) map[string]any {
	return map[string]any{
		"database.path":            c.Database.Path,
		"owner":                    c.Owner,
		"log.level":                c.Log.Level,
		"log.file":                 c.Log.File,
		"tree.enforce_containment": c.Tree.EnforceContainment,
		"output.format":            c.Output.Format,
		"output.pretty":            c.Output.Pretty,
	}
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, map[string]any{
				"data": configData(app.effectiveConfig()),
				"meta": map[string]any{"path": configPath(app)},
			})
		},
	}
}

func newConfigInitCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective settings to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath(app)
			if !force {
				if _, err := os.Stat(path); err == nil {
					return writeErr(cmd, fmt.Errorf("config file already exists: %s (pass --force to overwrite)", path))
				} else if !errors.Is(err, os.ErrNotExist) {
					return writeErr(cmd, err)
				}
			}
			cfg := app.effectiveConfig()
			if err := config.Save(path, cfg); err != nil {
				return writeErr(cmd, err)
			}
			app.log.Info().Str("path", path).Msg("config written")
			return writeOut(cmd, app, map[string]any{
				"data":   configData(cfg),
				"meta":   map[string]any{"path": path},
				"_hints": []string{"blocktree config show"},
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
