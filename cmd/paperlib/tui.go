package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/csheth/paperlib/internal/library"
	"github.com/csheth/paperlib/internal/session"
	"github.com/csheth/paperlib/internal/tui"
)

// notificationBuffer is how many library notifications may queue while the
// program is busy rendering.
const notificationBuffer = 32

var tuiCmd = &cobra.Command{
	Use:         "tui",
	Short:       "Open the terminal UI (the default)",
	Annotations: map[string]string{logToFile: "true"},
	Args:        cobra.NoArgs,
	RunE:        runTUI,
}

func init() {
	addTUIFlags(tuiCmd)
	rootCmd.AddCommand(tuiCmd)
}

func addTUIFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-alt-screen", false, "disable the alternate screen buffer")
	cmd.Flags().Bool("mouse", true, "enable mouse wheel scrolling")
}

func runTUI(cmd *cobra.Command, args []string) error {
	noAltScreen, _ := cmd.Flags().GetBool("no-alt-screen")
	mouse, _ := cmd.Flags().GetBool("mouse")

	notifier := tui.NewNotifier(notificationBuffer)
	store, closeStore, err := openStore(library.WithNotifier(notifier))
	if err != nil {
		return err
	}
	defer closeStore()

	config := tui.Config{
		Store:         store,
		Session:       session.New(),
		Searcher:      newArxivClient(),
		MaxResults:    cfg.Arxiv.MaxResults,
		Notifications: notifier.C(),
		Logger:        logger,
	}
	if summarizer := newSummarizer(); summarizer != nil {
		config.Summarizer = summarizer
	}

	opts := []tea.ProgramOption{}
	if !noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	logger.Info("starting tui", zap.Int("papers", store.Len()))
	if _, err := tea.NewProgram(tui.New(config), opts...).Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
