package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nonce-firewall/taskflow/internal/kv"
	"github.com/nonce-firewall/taskflow/internal/storage"
	"github.com/nonce-firewall/taskflow/internal/tui"
	"github.com/nonce-firewall/taskflow/internal/watcher"
)

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := kv.Open(cfg.DataPath())
	if err != nil {
		return err
	}
	defer db.Close()

	model := tui.New(cfg, storage.NewAdapter(db))
	p := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go startTUIWatcher(ctx, model, p)

	_, err = p.Run()
	return err
}

func startTUIWatcher(ctx context.Context, model *tui.Model, p *tea.Program) {
	paths := model.WatchPaths()
	w, err := watcher.New(paths, func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		return // non-fatal: TUI works without live refresh
	}
	defer w.Close()
	w.Run(ctx, nil)
}
