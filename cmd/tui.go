package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/cinex/internal/favorites"
	"github.com/desertthunder/cinex/internal/preferences"
	"github.com/desertthunder/cinex/internal/shared"
	"github.com/desertthunder/cinex/internal/tasks"
	"github.com/desertthunder/cinex/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for movie discovery.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.provider == nil {
		return fmt.Errorf("%w: movie provider not initialized", shared.ErrServiceUnavailable)
	}

	if user, err := r.auth.CurrentUser(ctx); err != nil {
		r.logger.Warn("could not reach the server", "server", r.api.BaseURL(), "error", err)
	} else if user == nil {
		return fmt.Errorf("%w: run 'cinex auth login' first", shared.ErrNotAuthenticated)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Client.LogPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	logger := shared.WithLogger(fileLogger, "component", "tui")

	events, notify := ui.EventNotifier(16)
	model := ui.NewModel(ctx, ui.Options{
		Provider:        r.provider,
		Engine:          tasks.NewMovieEngine(r.provider, logger),
		Favorites:       favorites.NewManager(r.store, notify, logger),
		Events:          events,
		Preferences:     preferences.New(r.store, logger),
		ScrollThreshold: r.config.Client.ScrollThreshold,
		DarkFallback:    lipgloss.HasDarkBackground(),
		Logger:          logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
