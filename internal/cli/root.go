package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"textlens/internal/app"
	"textlens/internal/logger"
)

type ctxKey string

const depsKey ctxKey = "deps"

// BuildFunc wires dependencies for a command invocation.
type BuildFunc func(cmd *cobra.Command, logLevel string) (app.Deps, error)

// Execute builds the root command and runs it.
func Execute() error {
	return NewRootCmd(defaultBuild).Execute()
}

// defaultBuild loads config from the environment and logs text records to
// stderr so stdout carries only command output.
func defaultBuild(cmd *cobra.Command, logLevel string) (app.Deps, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return app.Deps{}, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return app.BuildWith(cfg, logger.NewWriter(cmd.ErrOrStderr(), cfg.LogLevel, "text"))
}

// NewRootCmd constructs the root command. build is called once per
// invocation before any subcommand runs.
func NewRootCmd(build BuildFunc) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:           "textlens",
		Short:         "Run prompt templates over text with a local LLM",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			deps, err := build(cmd, logLevel)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), depsKey, deps))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug|info|warn|error); defaults to LOG_LEVEL")

	cmd.AddCommand(newTemplatesCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newRenderCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd
}

var errNoDeps = errors.New("internal error: dependencies not initialized")

func getDeps(cmd *cobra.Command) (app.Deps, error) {
	deps, ok := cmd.Context().Value(depsKey).(app.Deps)
	if !ok {
		return app.Deps{}, errNoDeps
	}
	return deps, nil
}
