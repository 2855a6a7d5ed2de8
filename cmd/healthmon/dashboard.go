package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/healthmon/internal/app"
	"github.com/nhle/healthmon/internal/export"
)

// runDashboard starts the interactive TUI.
func runDashboard(rt *runtime) error {
	key, err := rt.apiKey()
	if err != nil {
		return err
	}

	deps := app.Deps{
		Config:     rt.cfg,
		ConfigPath: rt.configPath,
		APIKey:     key,
		Clipboard:  export.SystemClipboard{},
		Logger:     rt.logger,
	}
	if creds, err := rt.credentials(); err == nil {
		deps.Credentials = creds
	}

	history, err := rt.openHistory()
	if err != nil {
		return err
	}
	if history != nil {
		defer history.Close()
		deps.History = history
	}

	p := tea.NewProgram(app.New(deps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}
