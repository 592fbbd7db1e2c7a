// Package main is the entry point for the AdvancedRAG Dashboard TUI.
// It initializes configuration, services, and runs the Bubble Tea program.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/app"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/config"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/logger"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/services"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/ui/tabs/activity"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/ui/tabs/analytics"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/ui/tabs/documents"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/ui/tabs/info"
	"github.com/ATAiriam/advancedrag-dashboard-tui/internal/version"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Handle help flag
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run() error {
	// 1. Load configuration from .env files and environment variables
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Logging goes to a rotating file; stdout belongs to the TUI.
	logger.Init(cfg.LogPath, cfg.Debug)
	defer logger.Close()

	// 3. Initialize the service manager
	// This starts the connectivity monitor, session watcher, and sync coordinator.
	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	// 4. Create the shared view state and the root Bubble Tea model
	state := app.NewState(cfg.DefaultTimeRange)
	model := app.NewModel(svcManager, state)

	tabs := []app.Tab{
		analytics.New(state),             // Tab 0: Analytics - usage, credits, distribution
		documents.New(state),             // Tab 1: Documents - top documents
		activity.New(state),              // Tab 2: Activity - activity log
		info.New(state, cfg, svcManager), // Tab 3: Info - configuration and diagnostics
	}
	model.SetTabs(tabs)

	// 5. Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	// This blocks until the user quits or an error occurs.
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`AdvancedRAG Dashboard TUI - offline-aware analytics dashboard

Usage:
  ardt [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-4             Switch between tabs (Analytics, Documents, Activity, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Navigate lists
  r               Refresh all metrics
  t               Cycle time range (day/week/month/year)
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  API_BASE_URL       Backend base URL (required)
  SESSION_PATH       Session token JSON file path
  CACHE_DB_PATH      SQLite offline cache path
  LOG_PATH           Log file path
  REFRESH_INTERVAL   Periodic refresh interval (default: 60s)
  PROBE_INTERVAL     Connectivity probe interval (default: 15s)
  REQUEST_TIMEOUT    Per-request timeout (default: 30s)
  TIME_RANGE         Initial time range (day, week, month, year)
  DEBUG              Enable debug logging

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/advancedrag/tui/.env
  - ~/.config/advancedrag/.env
  - ~/.advancedrag/.env

For more information, visit: https://github.com/ATAiriam/advancedrag-dashboard-tui`)
}
