package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/VoxDroid/rpkgs/internal/commands"
	"github.com/VoxDroid/rpkgs/internal/config"
	"github.com/VoxDroid/rpkgs/internal/db"
	"github.com/VoxDroid/rpkgs/internal/executor"
	"github.com/VoxDroid/rpkgs/internal/history"
	"github.com/VoxDroid/rpkgs/internal/log"
	"github.com/VoxDroid/rpkgs/internal/notify"
	"github.com/VoxDroid/rpkgs/internal/packages"
	"github.com/VoxDroid/rpkgs/internal/refresh"
	"github.com/VoxDroid/rpkgs/internal/store"
	"github.com/VoxDroid/rpkgs/internal/utils"
)

// app is the wiring shared by the commands that talk to R: the history
// journal, the interpreter host, the package store, the refresher and the
// command handler.
type app struct {
	cfg       *config.Config
	term      *utils.Terminal
	journal   *history.Repository
	host      *executor.Host
	store     *store.Provider
	refresher *refresh.Refresher
	handler   *commands.Handler
}

// appOptions replaces the terminal front end, as the TUI does.
type appOptions struct {
	console  io.Writer
	notifier notify.Notifier
}

func newApp(cmd *cobra.Command, opts appOptions) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	conn, err := db.OpenConfigured(cfg)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	term := &utils.Terminal{In: cmd.InOrStdin(), Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}
	if f := cmd.Flags().Lookup("yes"); f != nil {
		term.AssumeYes = f.Value.String() == "true"
	}

	console := opts.console
	if console == nil {
		console = cmd.OutOrStdout()
	}
	var notifier notify.Notifier = term
	if opts.notifier != nil {
		notifier = opts.notifier
	}

	a := &app{
		cfg:     cfg,
		term:    term,
		journal: history.NewRepository(conn),
		host: executor.NewHost(executor.Config{
			Command: cfg.R.Command,
			Repos:   cfg.R.Repos,
			Console: console,
		}),
		store: store.NewProvider(),
	}
	a.refresher = refresh.New(a.host, a.store, notifier, refresh.Options{
		TempDir: cfg.ResolveTempDir(),
		Journal: a.journal,
	})
	a.handler = &commands.Handler{
		Runtime:   a.host,
		Store:     a.store,
		Refresher: a.refresher,
		Prompter:  term,
		Notifier:  notifier,
		Journal:   a.journal,
	}
	a.store.SetToggler(a.handler)
	return a, nil
}

// start registers the interpreter and opens a session.
func (a *app) start(ctx context.Context) error {
	info, err := a.host.Discover(ctx)
	if err != nil {
		return err
	}
	log.Debug("using %s at %s", info.Name, info.Path)
	if _, err := a.host.StartSession(ctx, executor.LanguageR); err != nil {
		return fmt.Errorf("start R session: %w", err)
	}
	return nil
}

// refresh loads the package list. A missing helper package the user agreed
// to install counts as success once the retried refresh filled the store.
func (a *app) refresh(ctx context.Context) error {
	err := a.refresher.Refresh(ctx)
	var missing *executor.MissingDependencyError
	if errors.As(err, &missing) && len(a.store.GetPackages()) > 0 {
		return nil
	}
	return err
}

// startAndRefresh is what most commands need before doing anything.
func (a *app) startAndRefresh(ctx context.Context) error {
	if err := a.start(ctx); err != nil {
		return err
	}
	return a.refresh(ctx)
}

// find returns the installed record for name. lib narrows the match when
// the package is installed in more than one library.
func (a *app) find(name, lib string) (*packages.Record, error) {
	var matches []packages.Record
	for _, r := range a.store.GetPackages() {
		if r.Name == name && (lib == "" || r.LibPath == lib) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 0:
		if lib != "" {
			return nil, fmt.Errorf("package %s is not installed in %s", name, lib)
		}
		return nil, fmt.Errorf("package %s is not installed", name)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("package %s is installed in %d libraries; pass --lib", name, len(matches))
	}
}

func (a *app) Close() {
	if err := a.host.Close(); err != nil {
		log.Warn("stop R: %v", err)
	}
	if err := a.journal.Close(); err != nil {
		log.Warn("close history: %v", err)
	}
}

// withApp runs fn with a fully wired app and tears it down afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(cmdContext(cmd), a)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
