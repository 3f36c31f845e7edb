// Package cli wires the cobra command tree over one local account's state
// core. Human output is styled; --format json gives scripts a stable shape.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"listily/internal/config"
	"listily/internal/format"
	"listily/internal/remote"
	"listily/internal/session"
	"listily/internal/store"
	"listily/internal/suggest"
)

type App struct {
	Dir        string
	PrettyJSON bool
	Format     string

	cfg  config.Config
	sess *session.Session
	log  zerolog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "listily",
		Short:        "Lists, notes, and a bit of AI for what comes next",
		SilenceUsage: true,
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		app.cfg = cfg
		app.log = newLogger()
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("LISTILY_DIR", ""), "Path to data dir (overrides config; mainly for fixtures/tests)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("LISTILY_FORMAT", ""), "Output format (json; default is styled text)")

	cmd.AddCommand(newTaskCmd(app))
	cmd.AddCommand(newWorkspaceCmd(app))
	cmd.AddCommand(newNotesCmd(app))
	cmd.AddCommand(newLockCmd(app))
	cmd.AddCommand(newSuggestCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newWebCmd(app))

	return cmd
}

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if v := os.Getenv("LISTILY_DEBUG"); v != "" {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// dataDir resolves the snapshot directory: --dir wins, then config.
func (app *App) dataDir() string {
	if app.Dir != "" {
		return app.Dir
	}
	return filepath.Join(app.cfg.DataDir, "users", "local")
}

func (app *App) localStore() (store.Store, error) {
	s := store.Store{Dir: app.dataDir()}
	if err := s.Ensure(); err != nil {
		return store.Store{}, err
	}
	return s, nil
}

// openSession builds the state core once per invocation, against the local
// store or the configured document server.
func (app *App) openSession(ctx context.Context) (*session.Session, error) {
	if app.sess != nil {
		return app.sess, nil
	}
	st, err := app.localStore()
	if err != nil {
		return nil, err
	}

	var backend session.Backend = session.LocalBackend{Store: st}
	if app.cfg.Backend == "remote" {
		adapter, err := remote.Connect(ctx, remote.Config{
			Endpoint:  app.cfg.Remote.Endpoint,
			Namespace: app.cfg.Remote.Namespace,
			Database:  app.cfg.Remote.Database,
			Username:  app.cfg.Remote.Username,
			Password:  app.cfg.Remote.Password,
		}, app.log)
		if err != nil {
			return nil, err
		}
		backend = adapter
	}

	sess, err := session.New(ctx, backend,
		session.WithActivityLog(st),
		session.WithLogger(app.log),
	)
	if err != nil {
		return nil, err
	}
	app.sess = sess
	return sess, nil
}

func (app *App) suggestClient() *suggest.Client {
	if app.cfg.AI.APIKey == "" && app.cfg.AI.BaseURL == "" {
		return nil
	}
	return suggest.New(suggest.Config{
		APIKey:  app.cfg.AI.APIKey,
		BaseURL: app.cfg.AI.BaseURL,
		Model:   app.cfg.AI.Model,
	}, app.log)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// jsonOut reports whether the command should print machine output.
func (app *App) jsonOut() bool {
	return app.Format != ""
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
