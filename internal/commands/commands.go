// Package commands implements the user-facing package operations shared by
// the CLI and the TUI: search, install, uninstall, update, help and
// load/unload toggles.
package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/VoxDroid/rpkgs/internal/executor"
	"github.com/VoxDroid/rpkgs/internal/history"
	"github.com/VoxDroid/rpkgs/internal/log"
	"github.com/VoxDroid/rpkgs/internal/nameutil"
	"github.com/VoxDroid/rpkgs/internal/notify"
	"github.com/VoxDroid/rpkgs/internal/packages"
	"github.com/VoxDroid/rpkgs/internal/refresh"
	"github.com/VoxDroid/rpkgs/internal/store"
)

// NoSessionMessage is shown when an operation needs a running console.
const NoSessionMessage = "No active R console session available. Please start one."

// ErrCancelled is returned when the user declines a prompt.
var ErrCancelled = errors.New("cancelled")

// Prompter asks the user for input. Input returns ok=false when the user
// dismisses the prompt.
type Prompter interface {
	Input(prompt, value, placeholder string) (text string, ok bool, err error)
	Confirm(prompt string) (bool, error)
}

// Handler runs package commands against a runtime and keeps the store in
// sync afterwards.
type Handler struct {
	Runtime   executor.Runtime
	Store     *store.Provider
	Refresher refresh.Target
	Prompter  Prompter
	Notifier  notify.Notifier
	Journal   refresh.Journal
}

var _ store.Toggler = (*Handler)(nil)

// Refresh re-reads the package list.
func (h *Handler) Refresh(ctx context.Context) error {
	return h.Refresher.Refresh(ctx)
}

// Search prompts for filter text, prefilled with the current filter. A
// dismissed prompt clears the filter.
func (h *Handler) Search() error {
	text, ok, err := h.Prompter.Input("Search R packages (empty clears the filter)", h.Store.GetFilter(), "e.g. ggplot2, dplyr, data.table")
	if err != nil {
		return err
	}
	if !ok {
		text = ""
	}
	h.Store.SetFilter(text)
	return nil
}

// ToggleLoadedFilter flips the loaded-only filter and reports the new mode.
func (h *Handler) ToggleLoadedFilter() {
	h.Store.ToggleShowOnlyLoaded()
	if h.Store.IsShowingOnlyLoaded() {
		h.Notifier.Info("Showing only loaded packages")
		return
	}
	h.Notifier.Info("Showing all packages")
}

// Install prompts for a comma separated list of packages and installs them.
func (h *Handler) Install(ctx context.Context) error {
	input, ok, err := h.Prompter.Input("Enter R package names to install (separated by commas)", "", "e.g. ggplot2, dplyr, tidyr")
	if err != nil {
		return err
	}
	if !ok || strings.TrimSpace(input) == "" {
		return nil
	}
	names, err := nameutil.SplitList(input)
	if err != nil {
		h.Notifier.Error(fmt.Sprintf("Failed to install packages: %v", err))
		return err
	}
	return h.InstallPackages(ctx, names)
}

// InstallPackages installs names in the console and refreshes.
func (h *Handler) InstallPackages(ctx context.Context, names []string) error {
	if err := h.requireSession(ctx); err != nil {
		return err
	}
	if len(names) == 0 {
		h.Notifier.Warn("No valid package names provided.")
		return nil
	}
	for _, n := range names {
		if err := nameutil.ValidateName(n); err != nil {
			h.Notifier.Error(fmt.Sprintf("Failed to install packages: %v", err))
			return err
		}
	}
	h.Notifier.Info("Installing R packages: " + strings.Join(names, ", "))
	return h.mutate(ctx, history.OpInstall, names, InstallCode(names), "Failed to install packages: ")
}

// Uninstall removes rec after confirmation.
func (h *Handler) Uninstall(ctx context.Context, rec *packages.Record) error {
	if rec == nil {
		h.Notifier.Warn("No package selected for uninstallation.")
		return nil
	}
	yes, err := h.Prompter.Confirm(fmt.Sprintf("Are you sure you want to uninstall package %q?", rec.Name))
	if err != nil {
		return err
	}
	if !yes {
		return ErrCancelled
	}
	if err := h.requireSession(ctx); err != nil {
		return err
	}
	h.Notifier.Info("Uninstalling R package: " + rec.Name)
	return h.mutate(ctx, history.OpUninstall, []string{rec.Name}, RemoveCode(*rec), "Failed to uninstall package: ")
}

// UpdateAll updates every package after confirmation.
func (h *Handler) UpdateAll(ctx context.Context) error {
	yes, err := h.Prompter.Confirm("This will update all R packages. This may take a while. Continue?")
	if err != nil {
		return err
	}
	if !yes {
		return ErrCancelled
	}
	if err := h.requireSession(ctx); err != nil {
		return err
	}
	h.Notifier.Info("Updating all R packages...")
	return h.mutate(ctx, history.OpUpdate, nil, UpdateAllCode, "Failed to update packages: ")
}

// OpenHelp opens the help index of a package without echoing to the
// console.
func (h *Handler) OpenHelp(ctx context.Context, name string) error {
	return h.PackageHelp(ctx, name, executor.Silent)
}

// PackageHelp submits the help request in the given mode. Interactive shows
// the index in the console.
func (h *Handler) PackageHelp(ctx context.Context, name string, mode executor.Mode) error {
	if err := h.requireSession(ctx); err != nil {
		return err
	}
	ex, err := h.Runtime.Execute(ctx, executor.Request{
		Language: executor.LanguageR,
		Code:     HelpCode(name),
		Mode:     mode,
	})
	if err == nil {
		err = ex.Wait(ctx)
	}
	if err != nil {
		h.Notifier.Error(fmt.Sprintf("Failed to open help for package %s: %v", name, err))
		return err
	}
	return nil
}

// SetLoaded loads or unloads rec in the console, then refreshes. The store
// is only updated by that refresh.
func (h *Handler) SetLoaded(ctx context.Context, rec packages.Record, loaded bool) error {
	op, code, verb := history.OpUnload, UnloadCode(rec.Name), "unload"
	if loaded {
		op, code, verb = history.OpLoad, LoadCode(rec), "load"
	}
	return h.mutate(ctx, op, []string{rec.Name}, code, fmt.Sprintf("Failed to %s package: ", verb))
}

func (h *Handler) requireSession(ctx context.Context) error {
	ok, err := executor.HasActiveSession(ctx, h.Runtime, executor.LanguageR)
	if err != nil {
		return err
	}
	if !ok {
		h.Notifier.Warn(NoSessionMessage)
		return executor.ErrNoActiveSession
	}
	return nil
}

// mutate runs code in the console, waits for it, journals the outcome and
// refreshes on success.
func (h *Handler) mutate(ctx context.Context, op string, pkgs []string, code, failPrefix string) error {
	ex, err := h.Runtime.Execute(ctx, executor.Request{
		Language:     executor.LanguageR,
		Code:         code,
		FocusConsole: true,
		Mode:         executor.Interactive,
	})
	if err == nil {
		err = ex.Wait(ctx)
	}
	if err != nil {
		h.record(history.Entry{Operation: op, Packages: pkgs, Status: history.StatusFailed, Detail: err.Error()})
		h.Notifier.Error(failPrefix + err.Error())
		return err
	}
	h.record(history.Entry{Operation: op, Packages: pkgs, Status: history.StatusOK})
	if h.Refresher != nil {
		// refresh failures are notified by the refresher itself
		_ = h.Refresher.Refresh(ctx)
	}
	return nil
}

func (h *Handler) record(e history.Entry) {
	if h.Journal == nil {
		return
	}
	if _, err := h.Journal.Record(e); err != nil {
		log.Warn("record %s history: %v", e.Operation, err)
	}
}
