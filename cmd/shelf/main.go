package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gravitrone/shelf/cli/internal/api"
	"github.com/gravitrone/shelf/cli/internal/cmd"
	"github.com/gravitrone/shelf/cli/internal/config"
	"github.com/gravitrone/shelf/cli/internal/controller"
	"github.com/gravitrone/shelf/cli/internal/logging"
	"github.com/gravitrone/shelf/cli/internal/session"
	"github.com/gravitrone/shelf/cli/internal/ui"
)

type rootFlags struct {
	configPath string
	apiURL     string
	verbose    bool
	resetToken string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

func newRootCmd() *cobra.Command {
	var flags rootFlags
	env := &cmd.Env{}
	var store session.Store

	root := &cobra.Command{
		Use:   "shelf",
		Short: "Shelf - catalog your collections",
		Long:  "Shelf CLI: keep track of your collections and their items, and browse what other collectors own.",
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			s, err := wire(c.Context(), flags, env)
			store = s
			return err
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if env.Log != nil {
				_ = env.Log.Sync()
			}
			if store == nil {
				return nil
			}
			return store.Close()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(env, flags.resetToken)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", config.Path(), "config file")
	pf.StringVar(&flags.apiURL, "api-url", "", "server URL (overrides config and "+config.EnvAPIURL+")")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log at debug level")
	root.Flags().StringVar(&flags.resetToken, "reset-token", "", "open the password reset screen with this token")

	root.AddCommand(cmd.LoginCmd(env))
	root.AddCommand(cmd.RegisterCmd(env))
	root.AddCommand(cmd.LogoutCmd(env))
	root.AddCommand(cmd.PasswordCmd(env))
	root.AddCommand(cmd.CollectionsCmd(env))
	root.AddCommand(cmd.ItemsCmd(env))
	root.AddCommand(cmd.UsersCmd(env))
	root.AddCommand(cmd.ConfigCmd(env))
	return root
}

// wire loads config and builds the logger, session store and API client
// every command shares.
func wire(ctx context.Context, flags rootFlags, env *cmd.Env) (session.Store, error) {
	cfg, err := config.LoadFrom(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.apiURL != "" {
		cfg.APIURL = flags.apiURL
	}

	log, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, Verbose: flags.verbose})
	if err != nil {
		return nil, err
	}

	store, err := session.Open(ctx, cfg.SessionBackend, session.Paths{
		File:     cfg.SessionPath(),
		Database: cfg.DatabasePath(),
	}, log)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	log.Debug("starting",
		zap.String("api_url", cfg.APIURL),
		zap.String("session_backend", cfg.SessionBackend),
		zap.Duration("timeout", cfg.Timeout))

	env.Config = cfg
	env.Client = api.NewClient(cfg.APIURL, cfg.Timeout).WithLogger(log)
	env.Gate = session.NewGate(store)
	env.Log = log
	env.ConfirmDeletes = cfg.ShouldConfirmDeletes()
	return store, nil
}

func runTUI(env *cmd.Env, resetToken string) error {
	if !isInteractiveTerminal(os.Stdin) || !isInteractiveTerminal(os.Stdout) {
		return errors.New("the interactive UI needs a terminal. run 'shelf --help' for commands")
	}

	app := ui.NewApp(env.Client, env.Gate, env.ConfirmDeletes, env.Log)
	if resetToken != "" {
		app = app.WithStart(controller.ResetPasswordRoute(resetToken))
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func isInteractiveTerminal(file *os.File) bool {
	if file == nil {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
